package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/vango-dev/registry/internal/errors"
	"github.com/vango-dev/registry/pkg/registry"
)

// Op names a registry operation.
type Op string

const (
	OpSearchAdd       Op = "search.add"
	OpSearchUpdate    Op = "search.update"
	OpSearchGet       Op = "search.get"
	OpSearchList      Op = "search.list"
	OpSearchRemove    Op = "search.remove"
	OpSearchRemoveAll Op = "search.removeAll"
	OpSearchReset     Op = "search.reset"
	OpSearchResetAll  Op = "search.resetAll"
	OpSearchCommit    Op = "search.commit"
	OpSearchSync      Op = "search.sync"
	OpSearchSyncAll   Op = "search.syncAll"

	OpFilterAdd       Op = "filter.add"
	OpFilterUpdate    Op = "filter.update"
	OpFilterGet       Op = "filter.get"
	OpFilterList      Op = "filter.list"
	OpFilterRemove    Op = "filter.remove"
	OpFilterRemoveAll Op = "filter.removeAll"
	OpFilterReset     Op = "filter.reset"
	OpFilterResetAll  Op = "filter.resetAll"
)

var knownOps = map[Op]bool{
	OpSearchAdd: true, OpSearchUpdate: true, OpSearchGet: true, OpSearchList: true,
	OpSearchRemove: true, OpSearchRemoveAll: true, OpSearchReset: true,
	OpSearchResetAll: true, OpSearchCommit: true, OpSearchSync: true, OpSearchSyncAll: true,

	OpFilterAdd: true, OpFilterUpdate: true, OpFilterGet: true, OpFilterList: true,
	OpFilterRemove: true, OpFilterRemoveAll: true, OpFilterReset: true, OpFilterResetAll: true,
}

// Known reports whether op is a supported operation.
func (op Op) Known() bool {
	return knownOps[op]
}

// WireEntry is one entry of a bulk add/update command.
type WireEntry struct {
	Value    json.RawMessage `json:"value,omitempty"`
	Category string          `json:"category,omitempty"`
	Sync     bool            `json:"sync,omitempty"`
}

// Command is a client → server request.
type Command struct {
	Ref      string               `json:"ref,omitempty"`
	Op       Op                   `json:"op"`
	ID       string               `json:"id,omitempty"`
	IDs      []string             `json:"ids,omitempty"`
	Entries  map[string]WireEntry `json:"entries,omitempty"`
	Value    json.RawMessage      `json:"value,omitempty"`
	Category string               `json:"category,omitempty"`
	Sync     bool                 `json:"sync,omitempty"`
}

// DecodeCommand parses a command and checks that its op is supported.
func DecodeCommand(data []byte) (*Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.New("E300").Wrap(err)
	}
	if !c.Op.Known() {
		return &c, errors.New("E301").WithDetail("Unsupported op " + string(c.Op))
	}
	return &c, nil
}

// TargetIDs returns IDs, or a single-element list holding ID.
func (c *Command) TargetIDs() []string {
	if len(c.IDs) > 0 {
		return c.IDs
	}
	if c.ID != "" {
		return []string{c.ID}
	}
	return nil
}

// StringValue decodes Value as an optional string; a missing value or JSON
// null is absence.
func (c *Command) StringValue() (registry.Optional[string], error) {
	return decodeOptional[string](c.Value)
}

// AnyValue decodes Value as an optional arbitrary JSON value.
func (c *Command) AnyValue() (registry.Optional[any], error) {
	return decodeOptional[any](c.Value)
}

// StringValue decodes the entry value as an optional string.
func (e WireEntry) StringValue() (registry.Optional[string], error) {
	return decodeOptional[string](e.Value)
}

// AnyValue decodes the entry value as an optional arbitrary JSON value.
func (e WireEntry) AnyValue() (registry.Optional[any], error) {
	return decodeOptional[any](e.Value)
}

func decodeOptional[T any](raw json.RawMessage) (registry.Optional[T], error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return registry.None[T](), nil
	}
	var o registry.Optional[T]
	if err := json.Unmarshal(raw, &o); err != nil {
		return registry.None[T](), errors.New("E300").WithDetail("Invalid value: " + err.Error())
	}
	return o, nil
}
