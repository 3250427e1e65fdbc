package views

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/johnwards/professionals/internal/domain"
)

// SuccessMessage is shown after the remote API confirms a creation.
const SuccessMessage = "Professional added successfully."

// ErrSubmitInFlight is returned by Submit while an earlier submission is
// still outstanding.
var ErrSubmitInFlight = errors.New("submission already in progress")

// Creator creates a professional from a draft.
type Creator interface {
	CreateProfessional(ctx context.Context, d domain.Draft) error
}

// SubmitState is the outcome of the latest submission attempt.
type SubmitState int

// Submission states. A view starts Idle, moves to Submitting while a
// create is outstanding and settles in Succeeded or Failed.
const (
	SubmitIdle SubmitState = iota
	SubmitSubmitting
	SubmitSucceeded
	SubmitFailed
)

func (s SubmitState) String() string {
	switch s {
	case SubmitIdle:
		return "idle"
	case SubmitSubmitting:
		return "submitting"
	case SubmitSucceeded:
		return "succeeded"
	case SubmitFailed:
		return "failed"
	}
	return "unknown"
}

// CreationSnapshot is a point-in-time copy of a CreationView's state.
type CreationSnapshot struct {
	Draft         domain.Draft
	State         SubmitState
	SubmitEnabled bool
	Status        string
	Errors        []string
}

// CreationView holds the draft being edited and the result of the latest
// submission.
type CreationView struct {
	creator   Creator
	onCreated func()

	mu     sync.Mutex
	draft  domain.Draft
	state  SubmitState
	status string
	errors []string
}

// NewCreationView returns a view with a default draft. onCreated runs after
// every confirmed creation, once the draft has been reset.
func NewCreationView(creator Creator, onCreated func()) *CreationView {
	return &CreationView{
		creator:   creator,
		onCreated: onCreated,
		draft:     domain.NewDraft(),
	}
}

// SetField updates one draft field.
func (v *CreationView) SetField(f domain.Field, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft.Set(f, value)
}

// Submit sends the current draft. It returns ErrSubmitInFlight without
// issuing a request if a submission is outstanding, and the creator's error
// if the remote API rejects the draft. A rejected draft is kept as entered.
func (v *CreationView) Submit(ctx context.Context) error {
	v.mu.Lock()
	if v.state == SubmitSubmitting {
		v.mu.Unlock()
		return ErrSubmitInFlight
	}
	v.state = SubmitSubmitting
	v.status = ""
	v.errors = nil
	draft := v.draft
	v.mu.Unlock()

	err := v.creator.CreateProfessional(ctx, draft)

	v.mu.Lock()
	if err != nil {
		v.state = SubmitFailed
		v.errors = faultLines(err)
		v.mu.Unlock()
		slog.Info("create professional rejected", "error", err)
		return err
	}
	v.state = SubmitSucceeded
	v.status = SuccessMessage
	v.draft = domain.NewDraft()
	v.mu.Unlock()

	if v.onCreated != nil {
		v.onCreated()
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (v *CreationView) Snapshot() CreationSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return CreationSnapshot{
		Draft:         v.draft,
		State:         v.state,
		SubmitEnabled: v.state != SubmitSubmitting,
		Status:        v.status,
		Errors:        slices.Clone(v.errors),
	}
}

func faultLines(err error) []string {
	var fault *domain.Fault
	if errors.As(err, &fault) {
		return domain.ErrorLines(fault.Payload)
	}
	return []string{domain.GenericFaultLine}
}
