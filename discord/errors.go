package discord

import "errors"

// ErrEmptyToken indicates that no token was provided and no session was injected via WithSession.
var ErrEmptyToken = errors.New("token must be set or a session must be provided via WithSession")

// ErrNoAuthor indicates that the given interaction has neither a member nor a user.
var ErrNoAuthor = errors.New("interaction has no author")

// ErrUnsupportedInteraction indicates an interaction type the adapter does not route,
// such as autocomplete or modal submission.
var ErrUnsupportedInteraction = errors.New("unsupported interaction type")
