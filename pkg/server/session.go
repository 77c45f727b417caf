package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vango-dev/registry/internal/errors"
	"github.com/vango-dev/registry/pkg/filter"
	"github.com/vango-dev/registry/pkg/protocol"
	"github.com/vango-dev/registry/pkg/scope"
	"github.com/vango-dev/registry/pkg/search"
	"github.com/vango-dev/registry/pkg/urlparam"
)

// Session is one connected client. It owns a scope with a search and a
// filter registry, and a navigator that turns URL syncs into url frames.
type Session struct {
	// ID is the session identifier sent in the hello frame.
	ID string

	Search  *search.Registry
	Filters *filter.Registry

	owner  *scope.Owner
	nav    *urlparam.PatchNavigator
	logger *slog.Logger

	mu      sync.Mutex
	pending []protocol.URLPatch
	closed  bool
}

// NewSession creates a session positioned at the location held by initial.
func NewSession(initial *urlparam.InitialURLState, mode urlparam.URLMode, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	s := &Session{
		ID:     id,
		owner:  scope.NewOwner(nil),
		logger: logger.With("session_id", id),
	}

	target := "/"
	if initial != nil {
		if t, ok := initial.Consume(); ok {
			target = t
		}
	}
	s.nav = urlparam.NewPatchNavigator(target, mode, s.queuePatch)

	s.Search = search.Provide(s.owner,
		search.WithNavigator(s.nav),
		search.WithLogger(s.logger.With("component", "search")),
	)
	s.Filters = filter.Provide(s.owner,
		filter.WithLogger(s.logger.With("component", "filter")),
	)
	return s
}

// Owner returns the root scope of the session.
func (s *Session) Owner() *scope.Owner {
	return s.owner
}

// URL returns the session's current location.
func (s *Session) URL() string {
	return s.nav.URL()
}

func (s *Session) queuePatch(p protocol.URLPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = append(s.pending, p)
}

func (s *Session) pendingPatches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// TakePatches returns and clears the URL patches queued since the last call.
func (s *Session) TakePatches() []protocol.URLPatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.pending
	s.pending = nil
	return p
}

// Close disposes the session scope, dropping both registries.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.pending = nil
	s.mu.Unlock()

	s.owner.Dispose()
}

// Apply runs cmd against the session registries and returns the result
// payload.
func (s *Session) Apply(_ context.Context, cmd *protocol.Command) (any, error) {
	switch cmd.Op {
	case protocol.OpSearchAdd, protocol.OpSearchUpdate:
		return s.applySearchWrite(cmd)
	case protocol.OpSearchGet:
		id, err := requireID(cmd)
		if err != nil {
			return nil, err
		}
		e, ok := s.Search.Get(id)
		return lookup(e, ok), nil
	case protocol.OpSearchList:
		return s.Search.Snapshot(), nil
	case protocol.OpSearchRemove:
		s.Search.RemoveBulk(cmd.TargetIDs()...)
	case protocol.OpSearchRemoveAll:
		s.Search.RemoveAll()
	case protocol.OpSearchReset:
		s.Search.ResetBulk(cmd.TargetIDs()...)
	case protocol.OpSearchResetAll:
		s.Search.ResetAll()
	case protocol.OpSearchCommit:
		id, err := requireID(cmd)
		if err != nil {
			return nil, err
		}
		v, err := cmd.StringValue()
		if err != nil {
			return nil, err
		}
		s.Search.Commit(id, v.OrElse(""))
	case protocol.OpSearchSync:
		id, err := requireID(cmd)
		if err != nil {
			return nil, err
		}
		if len(cmd.Value) > 0 {
			v, err := cmd.StringValue()
			if err != nil {
				return nil, err
			}
			s.Search.SyncOne(id, true, v.OrElse(""))
		} else {
			s.Search.SyncOne(id, true)
		}
	case protocol.OpSearchSyncAll:
		s.Search.SyncAll()

	case protocol.OpFilterAdd, protocol.OpFilterUpdate:
		entries, err := filterEntries(cmd)
		if err != nil {
			return nil, err
		}
		if cmd.Op == protocol.OpFilterAdd {
			s.Filters.Add(entries)
		} else {
			s.Filters.Update(entries)
		}
		return s.Filters.Snapshot(), nil
	case protocol.OpFilterGet:
		id, err := requireID(cmd)
		if err != nil {
			return nil, err
		}
		e, ok := s.Filters.Get(id)
		return lookup(e, ok), nil
	case protocol.OpFilterList:
		return s.Filters.Snapshot(), nil
	case protocol.OpFilterRemove:
		s.Filters.Remove(cmd.TargetIDs()...)
		return s.Filters.Snapshot(), nil
	case protocol.OpFilterRemoveAll:
		s.Filters.RemoveAll()
		return s.Filters.Snapshot(), nil
	case protocol.OpFilterReset:
		s.Filters.Reset(cmd.TargetIDs()...)
		return s.Filters.Snapshot(), nil
	case protocol.OpFilterResetAll:
		s.Filters.ResetAll()
		return s.Filters.Snapshot(), nil

	default:
		return nil, errors.New("E301").WithDetail("Unsupported op " + string(cmd.Op))
	}
	return s.Search.Snapshot(), nil
}

func (s *Session) applySearchWrite(cmd *protocol.Command) (any, error) {
	if len(cmd.Entries) > 0 {
		entries := make(map[string]search.Entry, len(cmd.Entries))
		for id, we := range cmd.Entries {
			q, err := we.StringValue()
			if err != nil {
				return nil, err
			}
			if cmd.Op == protocol.OpSearchUpdate {
				// Update never changes the sync flag; new ids start unsynced.
				cur, _ := s.Search.Get(id)
				we.Sync = cur.HasURLSync
			}
			entries[id] = search.Entry{Query: q, HasURLSync: we.Sync}
		}
		if cmd.Op == protocol.OpSearchAdd {
			s.Search.AddBulk(entries)
		} else {
			s.Search.UpdateBulk(entries)
		}
		return s.Search.Snapshot(), nil
	}

	id, err := requireID(cmd)
	if err != nil {
		return nil, err
	}
	q, err := cmd.StringValue()
	if err != nil {
		return nil, err
	}
	if cmd.Op == protocol.OpSearchAdd {
		s.Search.Add(id, q, cmd.Sync)
	} else {
		s.Search.Update(id, q)
	}
	return s.Search.Snapshot(), nil
}

func filterEntries(cmd *protocol.Command) (map[string]filter.Entry, error) {
	entries := make(map[string]filter.Entry, len(cmd.Entries)+1)
	for id, we := range cmd.Entries {
		v, err := we.AnyValue()
		if err != nil {
			return nil, err
		}
		entries[id] = filter.Entry{Value: v, Category: we.Category}
	}
	if cmd.ID != "" {
		v, err := cmd.AnyValue()
		if err != nil {
			return nil, err
		}
		entries[cmd.ID] = filter.Entry{Value: v, Category: cmd.Category}
	}
	if len(entries) == 0 {
		return nil, errors.New("E302")
	}
	return entries, nil
}

func requireID(cmd *protocol.Command) (string, error) {
	if cmd.ID == "" {
		return "", errors.New("E302").WithDetail("Op " + string(cmd.Op) + " needs an id")
	}
	return cmd.ID, nil
}

// entryResult is the payload of a get command.
type entryResult[E any] struct {
	Found bool `json:"found"`
	Entry *E   `json:"entry,omitempty"`
}

func lookup[E any](e E, ok bool) entryResult[E] {
	if !ok {
		return entryResult[E]{}
	}
	return entryResult[E]{Found: true, Entry: &e}
}
