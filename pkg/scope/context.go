package scope

import "github.com/vango-dev/registry/internal/errors"

// Context provides dependency injection through the owner tree.
// Create a context with CreateContext, provide values with Provide,
// and consume values with Use or Lookup.
type Context[T any] struct {
	// key uniquely identifies this context in the owner value map
	key any

	// name identifies the provider in usage errors.
	name string
}

// contextKey wraps Context to create a unique key type
type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a new context. name is the provider name reported
// when Use is called outside of a provider (e.g. "SearchProvider").
func CreateContext[T any](name string) *Context[T] {
	ctx := &Context[T]{name: name}
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// Name returns the provider name.
func (c *Context[T]) Name() string {
	return c.name
}

// Provide stores value on owner. Descendants of owner see it via Use.
func (c *Context[T]) Provide(owner *Owner, value T) {
	owner.SetValue(c.key, value)
}

// Lookup returns the value from the nearest providing ancestor of owner
// (owner included).
func (c *Context[T]) Lookup(owner *Owner) (T, bool) {
	var zero T
	if owner == nil || owner.IsDisposed() {
		return zero, false
	}
	if value := owner.GetValue(c.key); value != nil {
		if typed, ok := value.(T); ok {
			return typed, true
		}
	}
	return zero, false
}

// Use is like Lookup but panics with a usage error (E200) naming the
// provider when no ancestor provides a value.
func (c *Context[T]) Use(owner *Owner) T {
	v, ok := c.Lookup(owner)
	if !ok {
		panic(errors.New("E200").
			WithDetail("No " + c.name + " found among the ancestors of this scope."))
	}
	return v
}
