package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
	Sentinel   error
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Usage Errors (E200-E299)
	// ============================================

	"E200": {
		Category:   CategoryUsage,
		Message:    "Context used outside of its provider",
		Detail:     "A context value was read from a scope where no ancestor provided it.",
		Suggestion: "Provide the value on an ancestor owner before reading it",
		DocURL:     "https://vango.dev/docs/errors/E200",
		Sentinel:   ErrNoProvider,
	},
	"E201": {
		Category:   CategoryUsage,
		Message:    "useSearch must be used within a SearchProvider",
		Detail:     "The search registry was requested from a scope that has no search provider among its ancestors.",
		Suggestion: "Call search.Provide on an ancestor owner",
		DocURL:     "https://vango.dev/docs/errors/E201",
		Sentinel:   ErrNoProvider,
	},
	"E202": {
		Category:   CategoryUsage,
		Message:    "useFilters must be used within a FiltersProvider",
		Detail:     "The filter registry was requested from a scope that has no filter provider among its ancestors.",
		Suggestion: "Call filter.Provide on an ancestor owner",
		DocURL:     "https://vango.dev/docs/errors/E202",
		Sentinel:   ErrNoProvider,
	},
	"E203": {
		Category: CategoryUsage,
		Message:  "Owner disposed",
		Detail:   "The scope has been disposed. This usually means a widget kept a reference after it was unmounted.",
		DocURL:   "https://vango.dev/docs/errors/E203",
	},

	// ============================================
	// Config Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The registry.json file could not be read or parsed.",
		DocURL:   "https://vango.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid navigation mode",
		Detail:   "navigation.mode must be either \"push\" or \"replace\".",
		DocURL:   "https://vango.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The port must be between 0 and 65535.",
		DocURL:   "https://vango.dev/docs/errors/E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "log.level must be one of debug, info, warn or error.",
		DocURL:   "https://vango.dev/docs/errors/E123",
	},
	"E124": {
		Category: CategoryConfig,
		Message:  "Invalid allowed origin",
		Detail:   "Each security.allowedOrigins entry must be an origin such as https://shop.example.",
		DocURL:   "https://vango.dev/docs/errors/E124",
	},

	// ============================================
	// Protocol Errors (E300-E309)
	// ============================================

	"E300": {
		Category: CategoryProtocol,
		Message:  "Malformed command",
		Detail:   "The session received a frame that is not a valid JSON command.",
		DocURL:   "https://vango.dev/docs/errors/E300",
	},
	"E301": {
		Category: CategoryProtocol,
		Message:  "Unknown command",
		Detail:   "The command op is not one of the supported registry operations.",
		DocURL:   "https://vango.dev/docs/errors/E301",
	},
	"E302": {
		Category: CategoryProtocol,
		Message:  "Missing entry id",
		Detail:   "The command requires an id.",
		DocURL:   "https://vango.dev/docs/errors/E302",
	},
}

// Lookup returns the template for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered error codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
