package cpv

import (
	"errors"
	"fmt"
)

var (
	ErrPatchNotFound     = errors.New("cpv: channel not patched")
	ErrUnknownController = errors.New("cpv: unknown controller kind")
	ErrDialectNotFound   = errors.New("cpv: unknown console dialect")
	ErrArgumentNotFound  = errors.New("cpv: argument not found")

	// errParameterDisabled drops a request for a parameter the fixture has
	// switched off. It is not reported to the caller.
	errParameterDisabled = errors.New("cpv: parameter disabled on fixture")
)

type PatchNotFoundError struct {
	Channel Channel
}

func (e *PatchNotFoundError) Error() string {
	return fmt.Sprintf("cpv: channel %d not patched", e.Channel)
}

func (e *PatchNotFoundError) Unwrap() error { return ErrPatchNotFound }

type UnknownControllerError struct {
	Controller Controller
}

func (e *UnknownControllerError) Error() string {
	if isNil(e.Controller) {
		return "cpv: nil controller"
	}
	return fmt.Sprintf("cpv: unknown controller kind %s (%T)", e.Controller.Kind(), e.Controller)
}

func (e *UnknownControllerError) Unwrap() error { return ErrUnknownController }

type DialectNotFoundError struct {
	Console string
}

func (e *DialectNotFoundError) Error() string {
	return fmt.Sprintf("cpv: unknown console dialect %q", e.Console)
}

func (e *DialectNotFoundError) Unwrap() error { return ErrDialectNotFound }

type ArgumentNotFoundError struct {
	Console string
	Key     string
}

func (e *ArgumentNotFoundError) Error() string {
	return fmt.Sprintf("cpv: %s has no argument for %s", e.Console, e.Key)
}

func (e *ArgumentNotFoundError) Unwrap() error { return ErrArgumentNotFound }
