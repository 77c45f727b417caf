package urlparam

import (
	"strings"
	"sync"

	"github.com/vango-dev/registry/pkg/protocol"
)

// URLMode determines how URL updates are reported to the client.
type URLMode int

const (
	// ModePush adds a new history entry.
	ModePush URLMode = iota

	// ModeReplace replaces the current history entry (no back button spam).
	ModeReplace
)

// String returns "push" or "replace".
func (m URLMode) String() string {
	if m == ModeReplace {
		return protocol.ModeReplace
	}
	return protocol.ModePush
}

// ParseMode maps "push"/"replace" (any case) to a URLMode.
func ParseMode(s string) (URLMode, bool) {
	switch strings.ToLower(s) {
	case protocol.ModePush:
		return ModePush, true
	case protocol.ModeReplace:
		return ModeReplace, true
	default:
		return ModePush, false
	}
}

// Navigator is the routing collaborator the registries depend on.
type Navigator interface {
	// Params returns a copy of the current query parameters.
	Params() *Values

	// Path returns the current path without query.
	Path() string

	// Navigate requests a transition to target ("path?query").
	// It is fire-and-forget: callers never wait for the transition.
	Navigate(target string)
}

// Memory is an in-process Navigator. It applies every navigation to its own
// location immediately and records the targets in History.
type Memory struct {
	mu      sync.RWMutex
	path    string
	params  *Values
	history []string
}

// NewMemory creates a Memory navigator positioned at target ("/path?query").
// Malformed query strings are ignored.
func NewMemory(target string) *Memory {
	m := &Memory{}
	m.set(target)
	return m
}

func (m *Memory) set(target string) {
	path, params, err := SplitTarget(target)
	if err != nil {
		path, _, _ = strings.Cut(target, "?")
		params = NewValues()
	}
	m.path = path
	m.params = params
}

// Params returns a copy of the current query parameters.
func (m *Memory) Params() *Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.params.Clone()
}

// Path returns the current path.
func (m *Memory) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// URL returns the current "path?query".
func (m *Memory) URL() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Target(m.path, m.params)
}

// Navigate moves to target and records it.
func (m *Memory) Navigate(target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(target)
	m.history = append(m.history, target)
}

// History returns every navigation target in order.
func (m *Memory) History() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.history...)
}

// PatchNavigator tracks the client location and queues a URL patch for every
// navigation. The patch is sent to the client with the next outgoing frames.
type PatchNavigator struct {
	*Memory

	mode       URLMode
	queuePatch func(protocol.URLPatch)
}

// NewPatchNavigator creates a navigator starting at target that queues
// patches via queuePatch. The session passes in a closure that writes to its
// connection.
func NewPatchNavigator(target string, mode URLMode, queuePatch func(protocol.URLPatch)) *PatchNavigator {
	return &PatchNavigator{
		Memory:     NewMemory(target),
		mode:       mode,
		queuePatch: queuePatch,
	}
}

// Mode returns the history mode used for queued patches.
func (n *PatchNavigator) Mode() URLMode {
	return n.mode
}

// Navigate updates the tracked location and queues a URL patch.
func (n *PatchNavigator) Navigate(target string) {
	n.Memory.Navigate(target)
	if n.queuePatch == nil {
		return
	}
	if n.mode == ModeReplace {
		n.queuePatch(protocol.NewURLReplacePatch(target))
	} else {
		n.queuePatch(protocol.NewURLPushPatch(target))
	}
}
