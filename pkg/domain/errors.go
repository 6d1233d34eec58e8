package domain

import (
	"errors"
	"fmt"
)

// ErrConversationNotFound is returned when a conversation ID cannot be
// found in the store.
var ErrConversationNotFound = errors.New("conversation not found")

// DuplicateNameError reports a second registration under an existing name.
// This is a programming error surfaced at startup, not a runtime condition.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("handler already registered: %s", e.Name)
}

// UnknownHandlerError reports a lookup for a name that was never registered.
type UnknownHandlerError struct {
	Name string
}

func (e *UnknownHandlerError) Error() string {
	return fmt.Sprintf("unknown handler: %s", e.Name)
}

// MissingEntryError reports a graph built around an unregistered entry
// handler. Surfaced eagerly at build time.
type MissingEntryError struct {
	Name string
}

func (e *MissingEntryError) Error() string {
	return fmt.Sprintf("entry handler not registered: %s", e.Name)
}

// DanglingEdgeError reports a routing edge that references a handler
// outside the participant set. Surfaced eagerly at build time.
type DanglingEdgeError struct {
	Token  string
	Target string
}

func (e *DanglingEdgeError) Error() string {
	return fmt.Sprintf("edge %q -> %q references a non-participant handler", e.Token, e.Target)
}
