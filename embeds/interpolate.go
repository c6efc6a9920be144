package embeds

import (
	"fmt"
	"strings"
	"unicode"
)

// interpolate replaces every {identifier} in s with params[identifier].
// "{{" and "}}" stand for literal braces.
func interpolate(s string, params map[string]string) (string, error) {
	if !strings.ContainsAny(s, "{}") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		switch c := s[i]; c {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed placeholder at offset %d", ErrSubstitution, i)
			}
			name := s[i+1 : i+1+end]
			if !isIdentifier(name) {
				return "", fmt.Errorf("%w: malformed placeholder {%s}", ErrSubstitution, name)
			}
			value, ok := params[name]
			if !ok {
				return "", fmt.Errorf("%w: no parameter for {%s}", ErrSubstitution, name)
			}
			b.WriteString(value)
			i += end + 2

		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			return "", fmt.Errorf("%w: single '}' at offset %d", ErrSubstitution, i)

		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// Placeholders returns the distinct placeholder names used by t, in order of appearance.
// Malformed placeholders are ignored.
func Placeholders(t *Template) []string {
	var texts []string
	texts = append(texts, t.Title, t.Description)
	for _, f := range t.Fields {
		texts = append(texts, f.Name, f.Value)
	}
	if t.Footer != nil {
		texts = append(texts, t.Footer.Text)
	}
	if t.Author != nil {
		texts = append(texts, t.Author.Name)
	}

	seen := map[string]bool{}
	var names []string
	for _, text := range texts {
		for _, name := range scanPlaceholders(text) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

func scanPlaceholders(s string) []string {
	var names []string
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '{' {
			i++
			continue
		}
		end := strings.IndexByte(s[i+1:], '}')
		if end < 0 {
			break
		}
		if name := s[i+1 : i+1+end]; isIdentifier(name) {
			names = append(names, name)
		}
		i += end + 1
	}
	return names
}
