package knl

import "errors"

var (
	// ErrBadInput marks malformed or physically invalid kernel input. Construction
	// of a model fails when it is returned; the input text must be fixed.
	ErrBadInput = errors.New("bzscope: bad input")

	// ErrUnsupported marks dynamic information of a kind no channel can be built from.
	ErrUnsupported = errors.New("bzscope: unsupported dynamic info")
)
