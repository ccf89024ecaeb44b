package logging

// Component names attached to log lines.
const (
	ComponentStartup       = "startup"
	ComponentHomeAssistant = "homeassistant"
	ComponentRenderer      = "renderer"
	ComponentHTTP          = "http"
	ComponentCache         = "cache"
)
