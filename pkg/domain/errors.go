package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrScopeNotFound is returned when a scope ID is not part of the loaded tree.
var ErrScopeNotFound = errors.New("scope not found")

// ErrUnknownCommand is returned by exec when no command is registered under the name.
var ErrUnknownCommand = errors.New("unknown command")

// ErrCommandNotAllowed is returned by exec when a whitelist rejects the command.
var ErrCommandNotAllowed = errors.New("command not allowed")

// ErrMalformedDispatch marks dispatch(...) names that are not a single quoted event name.
var ErrMalformedDispatch = errors.New("malformed dispatch")

// ErrNoQuestion is returned when the player is used before a question was loaded.
var ErrNoQuestion = errors.New("no question loaded")
