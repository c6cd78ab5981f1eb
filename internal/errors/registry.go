package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://vango.dev/docs/reactivity/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Target is not wrappable",
		Detail:   "Only non-nil pointers to structs can be made reactive. Primitives belong in a Ref.",
		DocURL:   docBase + "E001",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Unknown property",
		Detail:   "The reactive target has no field with this name.",
		DocURL:   docBase + "E002",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Property type mismatch",
		Detail:   "The value cannot be assigned to the field's type.",
		DocURL:   docBase + "E003",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "Unexported property",
		Detail:   "Unexported struct fields cannot be written through a reactive proxy.",
		DocURL:   docBase + "E004",
	},
	"E005": {
		Category: CategoryRuntime,
		Message:  "Value is not a ref",
		Detail:   "The value is neither a Ref of the requested type nor a value of that type.",
		DocURL:   docBase + "E005",
	},

	// ============================================
	// Config Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No configuration file exists at the given path.",
		DocURL:   docBase + "E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The configuration file could not be parsed as JSON or YAML.",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Config validation failed",
		Detail:   "One or more configuration values are out of range.",
		DocURL:   docBase + "E102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Config watch failed",
		Detail:   "The configuration file could not be watched for changes.",
		DocURL:   docBase + "E103",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Snapshot export failed",
		Detail:   "The dependency graph snapshot could not be written to its sink.",
		DocURL:   docBase + "E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "No snapshot sink configured",
		Detail:   "Set snapshot.dir or snapshot.bucket, or pass --out / --bucket.",
		DocURL:   docBase + "E141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Devtools server failed",
		Detail:   "The inspection server stopped with an error.",
		DocURL:   docBase + "E142",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
