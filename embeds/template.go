package embeds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Template describes a message embed. Every attribute is optional.
type Template struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       ColorLiteral `json:"color,omitempty"`
	URL         string       `json:"url,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Fields      []Field      `json:"fields,omitempty"`
	Footer      *Footer      `json:"footer,omitempty"`
	Thumbnail   string       `json:"thumbnail,omitempty"`
	Image       string       `json:"image,omitempty"`
	Author      *Author      `json:"author,omitempty"`
}

// Field is one embed field. Fields keep their order when rendered.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Footer is the embed footer. Text accepts placeholders; IconURL does not.
type Footer struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

// Author is the embed author. Name accepts placeholders; URL and IconURL do not.
type Author struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// Empty tells whether no attribute is set, as for a template stored as {}.
func (t *Template) Empty() bool {
	return t.Title == "" &&
		t.Description == "" &&
		len(t.Color) == 0 &&
		t.URL == "" &&
		t.Timestamp == "" &&
		len(t.Fields) == 0 &&
		t.Footer == nil &&
		t.Thumbnail == "" &&
		t.Image == "" &&
		t.Author == nil
}

// ColorLiteral is a color exactly as written in the document:
// a JSON integer or a JSON string. It is parsed on render, not on load.
type ColorLiteral json.RawMessage

// ColorInt creates a ColorLiteral holding an integer.
func ColorInt(rgb int) ColorLiteral {
	return ColorLiteral(strconv.Itoa(rgb))
}

// ColorString creates a ColorLiteral holding a string such as "#2F3136".
func ColorString(s string) ColorLiteral {
	b, _ := json.Marshal(s)
	return ColorLiteral(b)
}

func (c ColorLiteral) MarshalJSON() ([]byte, error) {
	if len(c) == 0 {
		return []byte("null"), nil
	}
	return c, nil
}

func (c *ColorLiteral) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = nil
		return nil
	}
	*c = append((*c)[0:0], data...)
	return nil
}

// Value parses the literal. See ParseColor.
func (c ColorLiteral) Value() (int, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(c))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrColorParse, string(c))
	}
	return ParseColor(v)
}

// ParseColor converts a color value to a 24-bit RGB integer.
// Integers are used as is. Strings starting with "#" are parsed as hexadecimal
// after the "#", strings starting with "0x" as hexadecimal after the prefix, and
// any other string as a base-10 integer.
func ParseColor(v any) (int, error) {
	switch v := v.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case json.Number:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrColorParse, v)
		}
		return int(n), nil
	case string:
		return parseColorString(v)
	default:
		return 0, fmt.Errorf("%w: unsupported value %#v", ErrColorParse, v)
	}
}

func parseColorString(s string) (int, error) {
	var (
		n   int64
		err error
	)
	switch {
	case strings.HasPrefix(s, "#"):
		n, err = strconv.ParseInt(strings.TrimSpace(s[1:]), 16, 64)
	case strings.HasPrefix(s, "0x"):
		n, err = strconv.ParseInt(strings.TrimSpace(s[2:]), 16, 64)
	default:
		n, err = strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrColorParse, s)
	}
	return int(n), nil
}
