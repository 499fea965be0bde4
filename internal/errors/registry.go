package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E119)
	// ============================================

	"E100": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Detail:     "No mjnet.yaml was found in the given path or the search directories.",
		Suggestion: "Run 'mjclient config init' to write a default configuration.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The configuration file could not be parsed as YAML.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value is missing or out of range.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Cannot write config file",
	},

	// ============================================
	// Connection Errors (E120-E139)
	// ============================================

	"E120": {
		Category:   CategoryConnection,
		Message:    "Connection failed",
		Detail:     "The WebSocket connection to the game server could not be established.",
		Suggestion: "Check server.url and that the server is running.",
	},
	"E121": {
		Category: CategoryConnection,
		Message:  "Connection closed",
		Detail:   "The server closed the connection.",
	},
	"E122": {
		Category: CategoryConnection,
		Message:  "Not connected",
		Detail:   "A message was sent before the connection was open.",
	},
	"E123": {
		Category: CategoryConnection,
		Message:  "Join rejected",
		Detail:   "The server refused to seat the player in the room.",
	},

	// ============================================
	// Protocol Errors (E140-E159)
	// ============================================

	"E140": {
		Category:   CategoryProtocol,
		Message:    "Invalid frame",
		Detail:     "The bytes are not a valid envelope.",
		Suggestion: "Frames are hex encoded without spaces or a 0x prefix.",
	},
	"E141": {
		Category: CategoryProtocol,
		Message:  "Invalid payload",
		Detail:   "The envelope payload does not match its action's message.",
	},
	"E142": {
		Category:   CategoryProtocol,
		Message:    "Unknown action",
		Suggestion: "Run 'mjclient actions' to list the registered actions.",
	},

	// ============================================
	// Capture Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryCapture,
		Message:  "Capture file unreadable",
		Detail:   "The capture file is truncated or not a frame capture.",
	},
	"E161": {
		Category:   CategoryCapture,
		Message:    "Capture upload failed",
		Detail:     "The capture could not be stored in the configured bucket.",
		Suggestion: "Check capture.s3_bucket, capture.s3_region and your AWS credentials.",
	},

	// ============================================
	// CLI Errors (E180-E199)
	// ============================================

	"E180": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
	},
	"E181": {
		Category: CategoryCLI,
		Message:  "Metrics server failed",
		Detail:   "The Prometheus endpoint could not listen on metrics.addr.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
