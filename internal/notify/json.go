package notify

import (
	"bytes"
	"encoding/json"
	"text/template"

	"github.com/manav03panchal/medtrack/internal/model"
)

// JSONFormatter renders one JSON object per line.
type JSONFormatter struct{}

// jsonPayload is the default JSON shape.
type jsonPayload struct {
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// Format converts a notification to a JSON line.
func (f *JSONFormatter) Format(n *model.Notification) ([]byte, error) {
	payload := jsonPayload{
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Fields:    n.Fields,
		Timestamp: model.FormatMinute(n.Timestamp),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// TemplateFormatter renders notifications through a text/template.
type TemplateFormatter struct {
	// Template is executed with Type, Title, Message, Fields and Timestamp.
	Template string
}

// NewTemplateFormatter creates a formatter for the given template text.
func NewTemplateFormatter(tmpl string) *TemplateFormatter {
	return &TemplateFormatter{Template: tmpl}
}

// Validate parses the template without executing it.
func (f *TemplateFormatter) Validate() error {
	_, err := template.New("notification").Parse(f.Template)
	return err
}

// Format executes the template. A trailing newline is added if missing.
func (f *TemplateFormatter) Format(n *model.Notification) ([]byte, error) {
	tmpl, err := template.New("notification").Parse(f.Template)
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"Type":      string(n.Type),
		"Title":     n.Title,
		"Message":   n.Message,
		"Fields":    n.Fields,
		"Timestamp": n.Timestamp,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
