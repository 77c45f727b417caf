// Package filter provides the filter registry: named filter values with a
// free-text category, shared by the widgets under one provider scope.
//
// Add and Update are the same shallow merge: each supplied entry replaces
// the stored entry with the same id and all other ids are left alone. Reset
// clears only the value and keeps the category. Remove deletes ids; when a
// remove hook is configured it runs for each id first, and an id whose hook
// fails is kept and logged while the rest are still removed.
package filter
