package registration

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wichananm65/user-registration/internal/api"
	"github.com/wichananm65/user-registration/internal/user"
)

const (
	MessageCompleted = "登録が完了しました"
	MessageFailed    = "登録が失敗しました"
)

var (
	ErrInvalidPhoneNumber = errors.New("携帯電話のフォーマットではありません")
	ErrInvalidDateOfBirth = errors.New("生年月日のフォーマットではありません")
	ErrOutOfOrder         = errors.New("registration step is not reachable from the current step")
	ErrSubmissionInFlight = errors.New("registration is already being submitted")
)

type Step int

const (
	StepEntry Step = iota
	StepConfirm
	StepComplete
)

func (s Step) Path() string {
	switch s {
	case StepConfirm:
		return "/confirmation"
	case StepComplete:
		return "/complete"
	default:
		return "/"
	}
}

// Draft is the form data of one registration before it is persisted.
type Draft struct {
	Name        string
	DateOfBirth time.Time
	Gender      user.Gender
	PhoneNumber string
}

// BirthDate renders the date the way it is shown and sent, e.g. 1990-05-10.
func (d Draft) BirthDate() string {
	if d.DateOfBirth.IsZero() {
		return ""
	}
	return d.DateOfBirth.Format(user.DateLayout)
}

// UserCreator submits a draft. *api.Client satisfies it.
type UserCreator interface {
	CreateUser(ctx context.Context, vars api.CreateUserVariables) (api.User, error)
}

// State is a point-in-time copy of a flow.
type State struct {
	Step       Step
	Draft      Draft
	Message    string
	Submitting bool
}

// Flow is the Entry -> Confirm -> Complete state machine of one browser
// session. Transitions only move forward.
type Flow struct {
	mu         sync.Mutex
	step       Step
	draft      Draft
	message    string
	submitting bool
}

// NewFlow starts in Entry with seed prefilled into the form.
func NewFlow(seed Draft) *Flow {
	return &Flow{step: StepEntry, draft: seed}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{Step: f.step, Draft: f.draft, Message: f.message, Submitting: f.submitting}
}

// Enter stores the entry form and moves to Confirm. A phone number that fails
// validation leaves the flow in Entry.
func (f *Flow) Enter(d Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepEntry {
		return ErrOutOfOrder
	}
	if !user.IsValidPhoneNumber(d.PhoneNumber) {
		return ErrInvalidPhoneNumber
	}

	f.draft = d
	f.step = StepConfirm
	return nil
}

// Confirm sends the frozen draft once and moves to Complete whatever the
// outcome. The returned error is the submission failure, if any; the flow
// has already recorded it as MessageFailed.
func (f *Flow) Confirm(ctx context.Context, creator UserCreator) error {
	f.mu.Lock()
	if f.step != StepConfirm {
		f.mu.Unlock()
		return ErrOutOfOrder
	}
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}
	f.submitting = true
	draft := f.draft
	f.mu.Unlock()

	_, err := creator.CreateUser(ctx, api.CreateUserVariables{
		Name:        draft.Name,
		BirthDate:   draft.BirthDate(),
		Gender:      draft.Gender.String(),
		PhoneNumber: draft.PhoneNumber,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	f.step = StepComplete
	if err != nil {
		f.message = MessageFailed
		return err
	}
	f.message = MessageCompleted
	f.draft = draft
	return nil
}
