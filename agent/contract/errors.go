package contract

import "errors"

var (
	ErrModelInvoke = errors.New("model invoke failed")
	ErrUnknownTool = errors.New("tool is not registered")
	ErrValidation  = errors.New("validation failed")
)
