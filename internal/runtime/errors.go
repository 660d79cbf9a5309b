package runtime

import (
	"fmt"
	"io"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/output"
	"github.com/manav03panchal/medtrack/internal/parser"
)

// Normalize converts parser errors into UserErrors so every input problem
// is classified and reported the same way.
func Normalize(err error) error {
	var tpe *parser.TimeParseError
	if errors.As(err, &tpe) {
		return tpe.ToUserError()
	}
	return err
}

// FormatError formats an error with its category prefix and suggestion.
func FormatError(err error) string {
	return errors.FormatByCategory(Normalize(err))
}

// ReportError writes err to w as "Error: <message>" plus a suggestion, or
// as a JSON error object when the formatter is in JSON mode.
func ReportError(f *output.Formatter, w io.Writer, err error) {
	if err == nil {
		return
	}
	err = Normalize(err)

	if f != nil && f.Format == output.FormatJSON {
		jf := output.NewJSONFormatter(&output.Formatter{Writer: w, Format: output.FormatJSON})
		_ = jf.PrintError(err.Error(), errors.Classify(err).String(), errors.GetSuggestion(err))
		return
	}

	fmt.Fprintf(w, "Error: %s\n", errors.FormatByCategory(err))
}
