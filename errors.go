package rowtrack

import "errors"

var (
	ErrRowNotFound  = errors.New("row not found")
	ErrMissingRowID = errors.New("row has no id")
	ErrInvalidRange = errors.New("invalid operation range")
	ErrApplyFailed  = errors.New("apply failed")
)
