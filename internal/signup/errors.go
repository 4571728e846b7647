package signup

import "errors"

var (
	ErrUnknownField       = errors.New("signup: unknown field")
	ErrInvalidValue       = errors.New("signup: invalid value type for field")
	ErrSuperseded         = errors.New("signup: change superseded by a newer edit")
	ErrNotSubmittable     = errors.New("signup: form is not submittable")
	ErrInvalidResetPolicy = errors.New("signup: invalid reset policy")
	ErrInvalidSnapshot    = errors.New("signup: invalid snapshot")
)
