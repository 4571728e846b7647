package signup

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/dmitrymomot/volunteerform/pkg/logger"
)

// ValidateFunc checks one field value. It returns nil, a *FieldError, or an
// error that aborts the change. The context is cancelled when a newer change
// for the same field supersedes this one.
type ValidateFunc func(ctx context.Context, f Field, value any) error

// Option configures a Store.
type Option func(*Store)

// WithResetPolicy selects which fields Submit blanks.
func WithResetPolicy(p ResetPolicy) Option {
	return func(s *Store) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithSubmitter sets where submitted records go.
func WithSubmitter(sub Submitter) Option {
	return func(s *Store) { s.submitter = sub }
}

// WithLogger sets the logger for submission outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithValidateFunc replaces the field validator, e.g. with one that also
// consults a remote service. The default is ValidateField.
func WithValidateFunc(fn ValidateFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.validate = fn
		}
	}
}

// OnChange registers a callback that receives a snapshot after every applied
// change and after every reset. It runs outside the store lock.
func OnChange(fn func(Snapshot)) Option {
	return func(s *Store) { s.onChange = fn }
}

// Store is the state of one mounted form: a value and its message per field,
// always updated together. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[Field]Entry
	revs    map[Field]uint64
	cancels map[Field]context.CancelFunc

	policy    ResetPolicy
	submitter Submitter
	validate  ValidateFunc
	onChange  func(Snapshot)
	log       *slog.Logger

	inflight sync.WaitGroup
}

// NewStore returns a store with blank values and no messages.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries: make(map[Field]Entry, len(fields)),
		revs:    make(map[Field]uint64, len(fields)),
		cancels: make(map[Field]context.CancelFunc),
		policy:  ResetKeepPosition,
		validate: func(_ context.Context, f Field, value any) error {
			return ValidateField(f, value)
		},
		log: logger.Discard(),
	}
	for _, f := range fields {
		s.entries[f] = Entry{Value: blankValue(f)}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Change applies one input event: it validates the value extracted from in
// and then stores value and message together. A newer Change for the same
// field cancels this one, which then returns ErrSuperseded without touching
// the store, so the last edit always wins.
func (s *Store) Change(ctx context.Context, f Field, in Input) (Entry, error) {
	if !f.Valid() {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	value := in.valueFor(f)

	vctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.revs[f]++
	rev := s.revs[f]
	if prev, ok := s.cancels[f]; ok {
		prev()
	}
	s.cancels[f] = cancel
	s.mu.Unlock()

	msg, err := messageFor(s.validate(vctx, f, value))

	s.mu.Lock()
	if s.revs[f] != rev {
		s.mu.Unlock()
		return Entry{}, ErrSuperseded
	}
	delete(s.cancels, f)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.mu.Unlock()
		return Entry{}, err
	}
	entry := Entry{Value: value, Error: msg}
	s.entries[f] = entry
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return entry, nil
}

// Record returns the current values.
func (s *Store) Record() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked()
}

// Errors returns the current messages with every field key present.
func (s *Store) Errors() ErrorMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(ErrorMap, len(fields))
	for _, f := range fields {
		m[f] = s.entries[f].Error
	}
	return m
}

func (s *Store) Entry(f Field) (Entry, error) {
	if !f.Valid() {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[f], nil
}

// Entries returns a copy of every field's entry.
func (s *Store) Entries() map[Field]Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.entries)
}

// State is a consistent read of a store: values, messages and the derived
// submit availability taken under one lock.
type State struct {
	Record      Record
	Errors      ErrorMap
	Submittable bool
}

// State returns the current values and messages together.
func (s *Store) State() State {
	s.mu.Lock()
	rec := s.recordLocked()
	errs := make(ErrorMap, len(fields))
	for _, f := range fields {
		errs[f] = s.entries[f].Error
	}
	s.mu.Unlock()
	return State{Record: rec, Errors: errs, Submittable: ValidateRecord(rec)}
}

// Submittable reports whether the current record passes every rule.
// It is computed on each call.
func (s *Store) Submittable() bool {
	return ValidateRecord(s.Record())
}

// Submit captures the record, blanks the fields selected by the reset policy
// and hands the captured record to the Submitter in the background. Messages
// are left as they are. The delivery outcome is only logged; use Wait to
// block until it is known. An invalid record yields ErrNotSubmittable and
// changes nothing.
func (s *Store) Submit(ctx context.Context) (Record, error) {
	s.mu.Lock()
	rec := s.recordLocked()
	if !ValidateRecord(rec) {
		s.mu.Unlock()
		return Record{}, ErrNotSubmittable
	}
	for _, f := range s.policy.Fields() {
		// a reset is an edit: pending validations of the old value must not land
		s.revs[f]++
		if cancel, ok := s.cancels[f]; ok {
			cancel()
			delete(s.cancels, f)
		}
		e := s.entries[f]
		e.Value = blankValue(f)
		s.entries[f] = e
	}
	snap := s.snapshotLocked()
	submitter := s.submitter
	s.mu.Unlock()

	s.notify(snap)

	if submitter == nil {
		s.log.WarnContext(ctx, "signup submitted without a submitter, record dropped", logger.Event("submit_dropped"))
		return rec, nil
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		sendCtx := context.WithoutCancel(ctx)
		if err := submitter.Submit(sendCtx, rec); err != nil {
			s.log.ErrorContext(sendCtx, "signup submission failed", logger.Error(err), logger.Event("submit_failed"))
			return
		}
		s.log.InfoContext(sendCtx, "signup submitted", logger.Event("submit_succeeded"))
	}()

	return rec, nil
}

// Wait blocks until every background submission has finished.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// WaitContext is Wait bounded by ctx.
func (s *Store) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Policy returns the configured reset policy.
func (s *Store) Policy() ResetPolicy {
	return s.policy
}

func (s *Store) recordLocked() Record {
	var r Record
	for _, f := range fields {
		// values are type-checked on the way in
		_ = r.set(f, s.entries[f].Value)
	}
	return r
}

func (s *Store) notify(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}
