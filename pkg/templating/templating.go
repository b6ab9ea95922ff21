package templating

import (
	"context"
	"html"
	"sort"
	"strings"
)

// Allowed placeholders. Anything else between braces is left untouched.
const (
	PlaceholderContactName = "contact_name"
	PlaceholderEmail       = "email"
	PlaceholderFirstName   = "first_name"
	PlaceholderLastName    = "last_name"
	PlaceholderPhone       = "phone"
)

var allowedPlaceholders = []string{
	PlaceholderContactName,
	PlaceholderEmail,
	PlaceholderFirstName,
	PlaceholderLastName,
	PlaceholderPhone,
}

// braceEscaper keeps substituted values from forming placeholders or Liquid tags
var braceEscaper = strings.NewReplacer("{", "&#123;", "}", "&#125;")

// EscapeHTML escapes a value for insertion into an HTML body
func EscapeHTML(value string) string {
	return braceEscaper.Replace(html.EscapeString(value))
}

// Substitute replaces allow-listed {placeholder} tokens in a single pass.
// Values are passed through escape first; substituted text is never rescanned.
func Substitute(text string, values map[string]string, escape func(string) string) string {
	if escape == nil {
		escape = func(s string) string { return s }
	}

	keys := make([]string, 0, len(allowedPlaceholders))
	keys = append(keys, allowedPlaceholders...)
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, "{"+key+"}", escape(values[key]))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// HasLiquidMarkup reports whether text contains Liquid output or tag delimiters
func HasLiquidMarkup(text string) bool {
	return strings.Contains(text, "{{") || strings.Contains(text, "{%")
}

// Renderer renders workflow emails
type Renderer struct {
	liquid *SecureLiquidEngine
}

func NewRenderer() *Renderer {
	return &Renderer{liquid: NewSecureLiquidEngine()}
}

func NewRendererWithEngine(engine *SecureLiquidEngine) *Renderer {
	return &Renderer{liquid: engine}
}

// Render fills the subject and HTML body. The subject only receives placeholder
// substitution. The body receives escaped placeholder values, then Liquid
// rendering when it contains Liquid markup, with the same escaped values bound
// under "contact".
func (r *Renderer) Render(ctx context.Context, subject, body string, values map[string]string) (string, string, error) {
	renderedSubject := Substitute(subject, values, nil)
	renderedBody := Substitute(body, values, EscapeHTML)

	if !HasLiquidMarkup(renderedBody) {
		return renderedSubject, renderedBody, nil
	}

	contact := make(map[string]interface{}, len(allowedPlaceholders))
	for _, key := range allowedPlaceholders {
		contact[key] = EscapeHTML(values[key])
	}

	out, err := r.liquid.Render(ctx, renderedBody, map[string]interface{}{"contact": contact})
	if err != nil {
		return "", "", err
	}
	return renderedSubject, out, nil
}
