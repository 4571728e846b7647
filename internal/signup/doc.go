// Package signup holds the volunteer signup form: its field schema, the
// per-form state store and the submission path.
//
// A Store keeps one Entry (value and message) per field. Change validates a
// single field and writes the value and its message in one step; rapid edits
// of the same field are sequenced so that the last one wins. Submittable is
// recomputed from the current record on every call.
//
// Submit captures the record, blanks the fields chosen by the ResetPolicy
// and posts the record through a Submitter without waiting for the result.
// Failures are logged and dropped.
//
//	store := signup.NewStore(
//		signup.WithSubmitter(signup.NewWebhookSubmitter(nil, cfg.Endpoint, cfg.Timeout, log)),
//		signup.WithResetPolicy(cfg.ResetPolicy),
//		signup.WithLogger(log),
//	)
//	entry, err := store.Change(ctx, signup.FieldEmail, signup.Input{Value: "ada@example.com"})
package signup
