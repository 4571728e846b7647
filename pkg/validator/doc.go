// Package validator provides small, composable validation rules.
//
// Each exported constructor returns a Rule: a boolean Check function together
// with translation-friendly error metadata. Rules are evaluated with Apply,
// which aggregates every failure into ValidationErrors, or with First, which
// stops at the first failing rule and returns it as a ValidationError. Both
// satisfy the error interface.
//
// Messages can be replaced per call site with Rule.WithMessage, which keeps the
// TranslationKey so a UI can still localise by key:
//
//	err := validator.First(
//	    validator.NonEmpty("email", email).WithMessage("Must include email address"),
//	    validator.OptionalEmail("email", email).WithMessage("Must be a valid email address"),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    msg := verrs.First("email")
//	}
//
// The package keeps no state and is safe for concurrent use.
package validator
