// Package template loads and prepares the HTML findings report template.
package template

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/abapscan/abapscan/pkg/shared/config"
)

// DefaultTemplateName is the file name of the bundled report template.
const DefaultTemplateName = "report.html"

// add adds two integers and returns the result.
// helper function for html template
func add(a, b int) int {
	return a + b
}

// ordinalDate returns a string with the ordinal number of the day
// helper function for html template
func ordinalDate(day int) string {
	suffix := "th"
	switch day {
	case 1, 21, 31:
		suffix = "st"
	case 2, 22:
		suffix = "nd"
	case 3, 23:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

// formatDateTime formats a time.Time object into a readable string.
// helper function for html template
func formatDateTime(t time.Time) string {
	day := ordinalDate(t.Day())
	return fmt.Sprintf("%s %s %d %s", day, t.Month(), t.Year(), t.Format("3:04:05 pm"))
}

// percent renders part over total as a percentage with one decimal.
// helper function for html template
func percent(part, total int) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}

// NewTemplate parses the report template with the rendering helpers attached.
// The root template is named after the file so Execute renders it directly.
func NewTemplate(templateFile string) (*template.Template, error) {
	return template.New(filepath.Base(templateFile)).
		Funcs(template.FuncMap{
			"add":            add,
			"formatDateTime": formatDateTime,
			"ordinalDate":    ordinalDate,
			"percent":        percent,
		}).
		ParseFiles(templateFile)
}

// ResolvePath picks the template file to render. An explicit override wins,
// then an installed template in the templates home, then the repository-local
// templates folder.
func ResolvePath(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}

	installed := filepath.Join(config.GetTemplatesHome(cfg), DefaultTemplateName)
	if _, err := os.Stat(installed); err == nil {
		return installed
	}
	return filepath.Join("templates", DefaultTemplateName)
}
