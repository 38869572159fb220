package session

import "errors"

// Fatal at load time: the session never starts.
var (
	ErrEmptyOrder          = errors.New("order has no items")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrAlreadyLoaded       = errors.New("session already loaded")
)

// Structural rejections of a submitted command. Recoverable rejections
// (low confidence, overflow, unknown command) are not errors: they are
// converted into spoken announcements so the worker always hears an
// explanation.
var (
	ErrCommandInFlight  = errors.New("a command is already being processed")
	ErrSessionCompleted = errors.New("session is completed")
	ErrNotLoaded        = errors.New("no order loaded")
)
