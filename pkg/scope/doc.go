// Package scope provides explicit component scopes and typed context values.
//
// An Owner represents one node of the component tree (a session root, a page,
// a widget). Owners form a hierarchy; values set on an owner are visible to
// all of its descendants, and disposing an owner disposes its children and
// runs its cleanups in reverse registration order.
//
// Context[T] is the typed provider/hook pair built on top of owner values:
//
//	var ThemeContext = scope.CreateContext[string]("ThemeProvider")
//
//	root := scope.NewOwner(nil)
//	ThemeContext.Provide(root, "dark")
//
//	child := scope.NewOwner(root)
//	theme := ThemeContext.Use(child) // "dark"
//
// There is no implicit current owner: callers pass the owner they were
// rendered under.
package scope
