// Package errors provides structured, actionable error messages for
// adminshell.
//
// Every user-facing failure carries a code (e.g. "E121") registered with a
// category, a short message and a longer explanation. Call sites add a
// suggestion and the underlying cause:
//
//	err := errors.New("E121").
//	    WithDetail("No adminshell.json found in /srv/console").
//	    WithSuggestion("Run 'adminshell serve' without --config to use defaults")
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// ERROR E121: Configuration file not found
//	//
//	//   No adminshell.json found in /srv/console
//	//
//	//   Hint: Run 'adminshell serve' without --config to use defaults
//
// # Error Categories
//
//   - routing: route table and navigation errors
//   - config: configuration loading and validation
//   - server: HTTP and WebSocket serving
//   - publish: manifest publication
//   - cli: command-line usage
package errors
