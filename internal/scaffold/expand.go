package scaffold

import (
	"regexp"
	"strings"

	"github.com/ajitpratap0/pygitrepo/pkg/errors"
)

var (
	varPattern   = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)
	blockPattern = regexp.MustCompile(`(?s)\{%\s*if\s+([A-Za-z_][A-Za-z0-9_]*)\s*(-?)%\}(.*?)\{%\s*endif\s*(-?)%\}`)
)

// Expand renders text against vars. "{{ name }}" is replaced by the value of
// name and "{% if name %}...{% endif %}" keeps its body only when the value is
// not empty. A "-%}" tag end drops the whitespace that follows it. Referencing
// a name missing from vars is an error.
func Expand(text string, vars map[string]string) (string, error) {
	text, err := expandBlocks(text, vars)
	if err != nil {
		return "", err
	}
	return expandVars(text, vars)
}

func expandBlocks(text string, vars map[string]string) (string, error) {
	var b strings.Builder
	for {
		m := blockPattern.FindStringSubmatchIndex(text)
		if m == nil {
			b.WriteString(text)
			return b.String(), nil
		}
		name := text[m[2]:m[3]]
		value, ok := vars[name]
		if !ok {
			return "", unknownVar(name)
		}
		b.WriteString(text[:m[0]])
		if value != "" {
			body := text[m[6]:m[7]]
			if m[5] > m[4] {
				body = strings.TrimLeft(body, " \t\r\n")
			}
			b.WriteString(body)
		}
		rest := text[m[1]:]
		if m[9] > m[8] {
			rest = strings.TrimLeft(rest, " \t\r\n")
		}
		text = rest
	}
}

func expandVars(text string, vars map[string]string) (string, error) {
	var missing string
	out := varPattern.ReplaceAllStringFunc(text, func(tag string) string {
		name := varPattern.FindStringSubmatch(tag)[1]
		value, ok := vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return tag
		}
		return value
	})
	if missing != "" {
		return "", unknownVar(missing)
	}
	return out, nil
}

func unknownVar(name string) error {
	return errors.Newf(errors.ErrorTypeParse, "template variable '%s' is not defined", name).
		WithDetail("variable", name)
}
