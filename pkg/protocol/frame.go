package protocol

import "encoding/json"

// FrameType identifies a server → client frame.
type FrameType string

const (
	// FrameHello is sent once after the WebSocket upgrade.
	FrameHello FrameType = "hello"

	// FrameResult answers a command.
	FrameResult FrameType = "result"

	// FrameError reports a rejected command.
	FrameError FrameType = "error"

	// FrameURL asks the client to update its location.
	FrameURL FrameType = "url"
)

// URL modes, mirroring browser history semantics.
const (
	ModePush    = "push"
	ModeReplace = "replace"
)

// Frame is a server → client message.
type Frame struct {
	Type    FrameType `json:"type"`
	Seq     uint64    `json:"seq,omitempty"`
	Session string    `json:"session,omitempty"`
	Ref     string    `json:"ref,omitempty"`

	// URL frames
	Mode string `json:"mode,omitempty"`
	URL  string `json:"url,omitempty"`

	// Result frames
	Data any `json:"data,omitempty"`

	// Error frames
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// URLPatch is a pending location update produced by a URL sync.
type URLPatch struct {
	Mode string
	URL  string
}

// NewURLPushPatch creates a patch that adds a history entry.
func NewURLPushPatch(url string) URLPatch {
	return URLPatch{Mode: ModePush, URL: url}
}

// NewURLReplacePatch creates a patch that replaces the current history entry.
func NewURLReplacePatch(url string) URLPatch {
	return URLPatch{Mode: ModeReplace, URL: url}
}

// Frame converts the patch into a url frame.
func (p URLPatch) Frame() Frame {
	return Frame{Type: FrameURL, Mode: p.Mode, URL: p.URL}
}

// EncodeFrame encodes f as JSON.
func EncodeFrame(f Frame) ([]byte, error) {
	return json.Marshal(f)
}

// DecodeFrame decodes a JSON frame. Data is left as generic JSON values.
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
