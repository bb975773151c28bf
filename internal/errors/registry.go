package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Routing Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryRouting,
		Message:  "Invalid route table",
		Detail:   "The router rejected the route table. Paths and names must be unique and every route needs exactly one of a component or a redirect.",
	},
	"E101": {
		Category: CategoryRouting,
		Message:  "No route matches path",
		Detail:   "The path is not declared in the route table.",
	},
	"E102": {
		Category: CategoryRouting,
		Message:  "Invalid navigation path",
		Detail:   "Navigation targets must be relative paths starting with \"/\" and cannot escape the root.",
	},
	"E103": {
		Category: CategoryRouting,
		Message:  "Unknown history mode",
		Detail:   "The history mode must be one of \"web\", \"hash\" or \"memory\".",
	},
	"E104": {
		Category: CategoryRouting,
		Message:  "Navigation aborted",
		Detail:   "A navigation guard rejected the navigation or the history has no entry in that direction.",
	},
	"E105": {
		Category: CategoryRouting,
		Message:  "Navigation duplicated",
		Detail:   "The target is already the current location.",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file could not be read or parsed.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "The configuration file does not exist.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "Port must be between 0 and 65535.",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid duration",
		Detail:   "Durations use Go syntax, e.g. \"5s\" or \"1m30s\".",
	},
	"E124": {
		Category: CategoryConfig,
		Message:  "Invalid log setting",
		Detail:   "Log level must be debug, info, warn or error and format must be text or json.",
	},

	// ============================================
	// Server Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryServer,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
	"E141": {
		Category: CategoryServer,
		Message:  "Shutdown failed",
		Detail:   "The HTTP server did not shut down cleanly before the timeout.",
	},
	"E142": {
		Category: CategoryServer,
		Message:  "Invalid navigation message",
		Detail:   "Navigation messages are JSON objects with an \"op\" of push, replace, back or forward.",
	},

	// ============================================
	// Publish Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryPublish,
		Message:  "Publish failed",
		Detail:   "The route manifest could not be written to its destination.",
	},
	"E161": {
		Category: CategoryPublish,
		Message:  "No publish destination",
		Detail:   "Set an output file or an S3 bucket to publish the route manifest.",
	},
	"E162": {
		Category: CategoryPublish,
		Message:  "Manifest encoding failed",
		Detail:   "The route manifest could not be encoded as JSON.",
	},

	// ============================================
	// CLI Errors (E180-E199)
	// ============================================

	"E180": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
