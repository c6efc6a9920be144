// Package discord provides a sarah.Adapter implementation for Discord interactions.
//
// Slash commands and message component clicks arrive as INTERACTION_CREATE
// events and are converted to *InteractionInput. A slash command input carries
// the command path, such as "config roles", as its message; a component input
// carries the component's custom ID. Commands registered with go-sarah match on
// that text and reply with NewResponse, which the adapter delivers as an
// interaction response.
//
// On READY the adapter applies the configured presence and overwrites the
// application commands given via WithApplicationCommands.
package discord
