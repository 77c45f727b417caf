package urlparam

import "sync"

// InitialURLState holds the location a session was opened with, with
// consume-once semantics: the first Consume returns it and later calls
// return nil, so the handshake URL seeds state exactly once.
type InitialURLState struct {
	Path   string
	Params *Values

	mu       sync.Mutex
	consumed bool
}

// NewInitialURLState parses target ("path?query") into an initial state.
func NewInitialURLState(target string) (*InitialURLState, error) {
	path, params, err := SplitTarget(target)
	if err != nil {
		return nil, err
	}
	return &InitialURLState{Path: path, Params: params}, nil
}

// IsConsumed reports whether Consume has been called.
func (s *InitialURLState) IsConsumed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumed
}

// Consume marks the state as consumed and returns the target it holds.
// Subsequent calls return "" and false.
func (s *InitialURLState) Consume() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consumed {
		return "", false
	}
	s.consumed = true
	return Target(s.Path, s.Params), true
}
