package realtime

import (
	"errors"
	"net/http"

	"github.com/campusgrid/campus-chat/internal/repository"
)

// EventError is the exact payload written back to the triggering
// connection, never to a room. Whether it is fatal depends on where it is
// raised: during the connection phase the socket is closed, inside an
// event handler the connection stays active.
type EventError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *EventError) Error() string { return e.Message }

func errAuthRequired() *EventError {
	return &EventError{Status: http.StatusUnauthorized, Message: "authentication required"}
}

func errUnauthorized() *EventError {
	return &EventError{Status: http.StatusUnauthorized, Message: "invalid or expired token"}
}

func errRoleNotAllowed() *EventError {
	return &EventError{Status: http.StatusForbidden, Message: "role not permitted in this namespace"}
}

func errForbidden(msg string) *EventError {
	return &EventError{Status: http.StatusForbidden, Message: msg}
}

func errNotFound(msg string) *EventError {
	return &EventError{Status: http.StatusNotFound, Message: msg}
}

func errInvalid(msg string) *EventError {
	return &EventError{Status: http.StatusBadRequest, Message: msg}
}

func errPersistence() *EventError {
	return &EventError{Status: http.StatusInternalServerError, Message: "message could not be saved"}
}

// asEventError normalizes collaborator failures: lookup misses keep their
// message, anything else is reported as a persistence/internal failure.
func asEventError(err error, notFoundMsg string) *EventError {
	var ev *EventError
	if errors.As(err, &ev) {
		return ev
	}
	if errors.Is(err, repository.ErrNotFound) {
		return errNotFound(notFoundMsg)
	}
	return &EventError{Status: http.StatusInternalServerError, Message: "internal error"}
}
