package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrHookOutsideRender is raised when a hook is called with no render function running.
	ErrHookOutsideRender = errors.New("hooks can only be called while a component renders")

	// ErrNilRender is raised when a render function returns no element.
	ErrNilRender = errors.New("component must return exactly one element")

	// ErrHookMismatch is raised in strict mode when hook calls differ between renders.
	ErrHookMismatch = errors.New("hook calls changed between renders")

	// ErrTooManyRenders is raised when a component keeps updating its own state while rendering.
	ErrTooManyRenders = errors.New("too many re-renders")

	ErrInvalidType = errors.New("invalid element type")

	ErrNoContainer = errors.New("render target container is nil")
)

// RenderError wraps a panic raised while a component rendered.
type RenderError struct {
	Component string
	Cause     any
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Component, e.Cause)
}

func (e *RenderError) Unwrap() error {
	err, _ := e.Cause.(error)
	return err
}

// EffectError wraps a panic raised by an effect callback or its cleanup.
type EffectError struct {
	Component string
	Cause     any
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("effect of %s: %v", e.Component, e.Cause)
}

func (e *EffectError) Unwrap() error {
	err, _ := e.Cause.(error)
	return err
}
