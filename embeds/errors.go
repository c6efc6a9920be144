package embeds

import "errors"

// ErrDocumentCorrupt indicates that the template document is not a JSON object.
var ErrDocumentCorrupt = errors.New("template document is corrupt")

// ErrSubstitution indicates that a placeholder could not be substituted.
var ErrSubstitution = errors.New("placeholder substitution failed")

// ErrColorParse indicates a malformed color literal.
var ErrColorParse = errors.New("malformed color")
