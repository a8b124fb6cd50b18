package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E199)
	// ============================================

	"E101": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create signup.json or pass --config",
	},
	"E102": {
		Category:   CategoryConfig,
		Message:    "Configuration file could not be parsed",
		Suggestion: "Check that the file is valid JSON or YAML",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid debounce window",
	},
	"E104": {
		Category:   CategoryConfig,
		Message:    "Unknown storage backend",
		Suggestion: "Use one of: memory, file, redis, sqlite, s3",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Incomplete storage configuration",
	},
	"E106": {
		Category:   CategoryConfig,
		Message:    "Invalid log level",
		Suggestion: "Use one of: debug, info, warn, error",
	},

	// ============================================
	// Storage Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategoryStorage,
		Message:  "Draft store unavailable",
	},
	"E202": {
		Category: CategoryStorage,
		Message:  "Draft read failed",
	},
	"E203": {
		Category: CategoryStorage,
		Message:  "Draft write failed",
	},
	"E204": {
		Category: CategoryStorage,
		Message:  "Draft delete failed",
	},

	// ============================================
	// Form Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryForm,
		Message:  "Unknown form path",
	},
	"E302": {
		Category: CategoryForm,
		Message:  "Value not allowed for field",
	},
	"E303": {
		Category: CategoryForm,
		Message:  "Value has the wrong type for field",
	},

	// ============================================
	// CLI Errors (E400-E499)
	// ============================================

	"E401": {
		Category:   CategoryCLI,
		Message:    "Invalid field assignment",
		Suggestion: "Use --set path=value, e.g. --set address.city=London",
	},
	"E402": {
		Category: CategoryCLI,
		Message:  "Form is invalid",
	},
}
