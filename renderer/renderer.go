// Package renderer builds the markdown and CSV reports out of the engine's
// output. It is pure formatting: every figure is computed upstream and
// arrives currency-tagged, rows whose live data was missing arrive with an
// explicit status and are rendered as explicit n/a markers.
package renderer

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/mpreda/folio"
)

//go:embed templates/*.md
var templates embed.FS

// renderTemplate renders one embedded template file with the given data.
func renderTemplate(name string, data any) string {
	tmpl, err := template.New(name).ParseFS(templates, "templates/"+name)
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", name, err)
	}
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}

// na renders the explicit marker of a figure that could not be computed.
func na(status folio.Status) string {
	return fmt.Sprintf("n/a (%s)", status)
}

// money renders an amount, or the status marker when the row is degraded.
func money(m folio.Money, status folio.Status) string {
	if status != folio.StatusOK {
		return na(status)
	}
	return m.String()
}

// signed renders a gain amount with its sign, or the status marker.
func signed(m folio.Money, status folio.Status) string {
	if status != folio.StatusOK {
		return na(status)
	}
	return m.SignedString()
}

// signedPct renders a gain percentage with its sign, or the status marker.
func signedPct(p folio.Percent, status folio.Status) string {
	if status != folio.StatusOK {
		return na(status)
	}
	return p.SignedString()
}
