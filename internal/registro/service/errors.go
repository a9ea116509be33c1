package service

import (
	"errors"
	"fmt"
)

// Kind classifies service failures; the HTTP layer maps each to a status.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	}
	return "internal"
}

// Client-facing messages.
const (
	MsgInvalidID         = "ID inválido"
	MsgInvalidParams     = "Parámetros inválidos"
	MsgRegistroNotFound  = "Registro no encontrado"
	MsgAmasadoraNotFound = "Amasadora no encontrada en el registro"
	MsgInvalidFecha      = "fecha debe ser texto"
	MsgInvalidDocument   = "el registro debe ser un objeto JSON"
)

// Error is returned by every Service method. Msg is safe to show to clients.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Msg {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

var (
	// ErrNotFound matches any NotFound *Error through errors.Is.
	ErrNotFound = &Error{Kind: KindNotFound, Msg: MsgRegistroNotFound}
	// ErrInvalidArgument matches any InvalidArgument *Error through errors.Is.
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument, Msg: MsgInvalidParams}
)

// Is reports kind equality so callers can test with errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func invalid(msg string) error { return &Error{Kind: KindInvalidArgument, Msg: msg} }

func notFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

func internal(err error) error { return &Error{Kind: KindInternal, Msg: err.Error(), Err: err} }

// KindOf returns the Kind carried by err, KindInternal when err is not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Msg
	}
	return err.Error()
}
