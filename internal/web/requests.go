package web

import "github.com/dmitrymomot/volunteerform/internal/signup"

// MountRequest identifies a mounted form.
type MountRequest struct {
	MountID string `path:"mount" json:"-"`
}

// FieldRequest is one input event. Datastar posts every signal as JSON; the
// no-JS form posts the same names urlencoded. Only the value of Field is
// used.
type FieldRequest struct {
	MountID string `path:"mount" json:"-"`
	Field   string `path:"field" json:"-"`

	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Motivation string `json:"motivation" form:"motivation"`
	Position   string `json:"position" form:"position"`
	Terms      bool   `json:"terms" form:"terms"`
}

// SubmitRequest carries the whole form.
type SubmitRequest struct {
	MountID string `path:"mount" json:"-"`

	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Motivation string `json:"motivation" form:"motivation"`
	Position   string `json:"position" form:"position"`
	Terms      bool   `json:"terms" form:"terms"`
}

func (r FieldRequest) input(f signup.Field) signup.Input {
	return inputFor(f, r.Name, r.Email, r.Motivation, r.Position, r.Terms)
}

func (r SubmitRequest) input(f signup.Field) signup.Input {
	return inputFor(f, r.Name, r.Email, r.Motivation, r.Position, r.Terms)
}

func inputFor(f signup.Field, name, email, motivation, position string, terms bool) signup.Input {
	switch f {
	case signup.FieldName:
		return signup.Input{Value: name}
	case signup.FieldEmail:
		return signup.Input{Value: email}
	case signup.FieldMotivation:
		return signup.Input{Value: motivation}
	case signup.FieldPosition:
		return signup.Input{Value: position}
	case signup.FieldTerms:
		return signup.Input{Checked: terms}
	}
	return signup.Input{}
}

// StateResponse is the JSON view of a mounted form.
type StateResponse struct {
	MountID     string          `json:"mount_id"`
	Record      signup.Record   `json:"record"`
	Errors      signup.ErrorMap `json:"errors"`
	Submittable bool            `json:"submittable"`
}
