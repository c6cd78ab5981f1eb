// Package errors provides coded, structured errors for the reactivity runtime
// and its tooling.
//
// Every error carries a stable code (e.g. "E001") that maps to a registered
// template with a category, a short message, a longer explanation and a
// documentation link. Codes make errors comparable: two errors with the same
// code match under errors.Is, so callers can test against the exported
// sentinels of the packages that raise them.
//
// # Error Categories
//
//   - runtime: misuse of the reactive API (wrapping a non-struct, writing an
//     unknown property, wrong value type)
//   - config: configuration loading and validation
//   - cli: command line and export failures
//
// # Usage
//
//	err := errors.New("E001").
//	    WithDetail("target is a nil *User").
//	    WithSuggestion("Pass a pointer to an allocated struct")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E001: Target is not wrappable
//	//
//	//   target is a nil *User
//	//
//	//   Hint: Pass a pointer to an allocated struct
//	//
//	//   Learn more: https://vango.dev/docs/reactivity/errors/E001
package errors
