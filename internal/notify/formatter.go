// Package notify renders watcher notifications and delivers them to local
// sinks such as the terminal.
package notify

import (
	"github.com/manav03panchal/medtrack/internal/model"
)

// Formatter formats notifications for a sink.
type Formatter interface {
	// Format converts a notification into the bytes written to the sink.
	Format(n *model.Notification) ([]byte, error)
}

// Formatter names accepted by GetFormatter.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// GetFormatter returns the formatter for name. A non-empty template wins
// over name.
func GetFormatter(name, template string) Formatter {
	if template != "" {
		return NewTemplateFormatter(template)
	}
	switch name {
	case FormatJSON:
		return &JSONFormatter{}
	default:
		return &TextFormatter{}
	}
}
