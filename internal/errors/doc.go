// Package errors provides coded, actionable errors for the registry runtime.
//
// Every error carries a short code (e.g. "E201") that maps to a registered
// template with a category, a message, a longer explanation and a hint.
// Usage-contract violations, such as reading a registry outside of its
// provider, are the only errors that ever reach registry callers, and they
// are raised as panics carrying a *RegistryError.
//
// # Error Codes
//
//   - E200-E299: provider/scope usage violations
//   - E120-E129: configuration loading and validation
//   - E300-E309: session wire protocol
//
// # Usage
//
//	err := errors.New("E201").
//	    WithSuggestion("Wrap the component tree in search.Provide")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E201: useSearch must be used within a SearchProvider
//	//
//	//   Hint: Wrap the component tree in search.Provide
package errors
