package resource

import (
	"errors"
	"fmt"
)

// ErrBadRequest marks a request the handler rejects before touching the store.
var ErrBadRequest = errors.New("bad request")

// BadRequest returns an ErrBadRequest carrying msg as its text.
func BadRequest(msg string) error {
	return &badRequest{msg: msg}
}

type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

func (e *badRequest) Is(target error) bool { return target == ErrBadRequest }

// BadRequestf is BadRequest with formatting.
func BadRequestf(format string, args ...any) error {
	return BadRequest(fmt.Sprintf(format, args...))
}
