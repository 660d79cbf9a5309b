package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/manav03panchal/medtrack/internal/model"
)

// TextFormatter renders one line per notification, e.g.
// "[09:00] Reminder: take pill (medication=Aspirin 100mg)".
type TextFormatter struct{}

// Format converts a notification to a single line of text.
func (f *TextFormatter) Format(n *model.Notification) ([]byte, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %s", n.Timestamp.Format("15:04"), n.TypeLabel(), n.Message)

	if len(n.Fields) > 0 {
		keys := make([]string, 0, len(n.Fields))
		for k := range n.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+n.Fields[k])
		}
		fmt.Fprintf(&sb, " (%s)", strings.Join(pairs, ", "))
	}

	sb.WriteString("\n")
	return []byte(sb.String()), nil
}
