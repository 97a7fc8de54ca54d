// Package form owns the card-entry state machine that runs inside the
// isolated frame: load session, collect input, validate, submit, report the
// outcome.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/demopay/capture-widget/internal/client"
	"github.com/demopay/capture-widget/internal/domain"
)

// State represents where the form is in its lifecycle.
type State string

const (
	StateLoading    State = "LOADING"
	StateReady      State = "READY"
	StateSubmitting State = "SUBMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

var ErrInvalidTransition = errors.New("invalid form state transition")

const genericSubmitFailure = "An error occurred while creating token"

// SessionAPI is the slice of the session service client the form depends on.
type SessionAPI interface {
	FetchSession(ctx context.Context, sessionID string) (*domain.Session, error)
	CreateToken(ctx context.Context, sessionID string, card domain.CardInput) (bool, error)
}

// Controller drives one card-entry interaction for one session. Outcomes are
// handed to the injected sink, normally the frame bridge.
type Controller struct {
	sessionID string
	api       SessionAPI
	outcome   func(domain.TokenOutcome)
	logger    *slog.Logger
	now       func() time.Time

	mu          sync.Mutex
	state       State
	session     *domain.Session
	input       domain.CardInput
	fieldErrors domain.FieldErrors
	failReason  string
}

func NewController(sessionID string, api SessionAPI, outcome func(domain.TokenOutcome), logger *slog.Logger) *Controller {
	return &Controller{
		sessionID: sessionID,
		api:       api,
		outcome:   outcome,
		logger:    logger,
		now:       time.Now,
		state:     StateLoading,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Session() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// FieldErrors returns a copy of the per-field validation messages from the
// last rejected submission.
func (c *Controller) FieldErrors() domain.FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.fieldErrors) == 0 {
		return nil
	}
	out := make(domain.FieldErrors, len(c.fieldErrors))
	for field, msg := range c.fieldErrors {
		out[field] = msg
	}
	return out
}

// FailureReason reports why the last submission failed.
func (c *Controller) FailureReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failReason
}

// Input returns the current card entry.
func (c *Controller) Input() domain.CardInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Load fetches the session details. The client's fallback policy means this
// normally always reaches Ready; if even the fallback fails the form stays
// degraded in Loading with no session to display.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if err := c.canTransitionTo(StateReady); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	sess, err := c.api.FetchSession(ctx, c.sessionID)
	if err != nil {
		c.logger.Warn("session load failed", "session_id", c.sessionID, "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = sess
	return c.transition(StateReady)
}

// SetField applies the live formatter for the named field and clears only
// that field's error.
func (c *Controller) SetField(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	formatted := domain.FormatField(field, value)
	switch field {
	case domain.FieldCardNumber:
		c.input.CardNumber = formatted
	case domain.FieldExpiryDate:
		c.input.ExpiryDate = formatted
	case domain.FieldCVV:
		c.input.CVV = formatted
	case domain.FieldCardholderName:
		c.input.CardholderName = formatted
	case domain.FieldPostalCode:
		c.input.PostalCode = formatted
	default:
		return
	}
	delete(c.fieldErrors, field)
}

// Submit validates the entry and, if every field passes, exchanges it for a
// token. A validation rejection keeps the form Ready and reports the failing
// fields; a service failure is terminal for this attempt and may be retried
// by the user. The card input is discarded once a terminal state is reached.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if err := c.canTransitionTo(StateSubmitting); err != nil {
		c.mu.Unlock()
		return err
	}

	if errs := c.input.Validate(c.now()); errs != nil {
		c.fieldErrors = errs
		c.mu.Unlock()
		return errs
	}

	if err := c.transition(StateSubmitting); err != nil {
		c.mu.Unlock()
		return err
	}
	c.fieldErrors = nil
	input := c.input
	c.mu.Unlock()

	ok, err := c.api.CreateToken(ctx, c.sessionID, input)
	if err != nil || !ok {
		reason := genericSubmitFailure
		if svcErr, isSvc := client.IsServiceError(err); isSvc {
			reason = svcErr.Message
		}
		c.fail(reason)
		return err
	}

	c.succeed()
	return nil
}

// Retry returns a failed form to Ready so the user can correct and resubmit.
func (c *Controller) Retry() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transition(StateReady); err != nil {
		return err
	}
	c.failReason = ""
	return nil
}

func (c *Controller) succeed() {
	c.mu.Lock()
	if err := c.transition(StateSucceeded); err != nil {
		c.mu.Unlock()
		return
	}
	c.input = domain.CardInput{}
	sink := c.outcome
	c.mu.Unlock()

	c.logger.Info("payment token created", "session_id", c.sessionID)
	if sink != nil {
		sink(domain.SuccessOutcome())
	}
}

func (c *Controller) fail(reason string) {
	c.mu.Lock()
	if err := c.transition(StateFailed); err != nil {
		c.mu.Unlock()
		return
	}
	c.failReason = reason
	c.input = domain.CardInput{}
	sink := c.outcome
	c.mu.Unlock()

	c.logger.Warn("payment token creation failed", "session_id", c.sessionID, "reason", reason)
	if sink != nil {
		sink(domain.FailureOutcome(reason))
	}
}

func (c *Controller) transition(target State) error {
	if err := c.canTransitionTo(target); err != nil {
		return err
	}
	c.state = target
	return nil
}

func (c *Controller) canTransitionTo(target State) error {
	switch c.state {
	case StateLoading:
		return c.allow(target, StateReady)
	case StateReady:
		return c.allow(target, StateSubmitting)
	case StateSubmitting:
		return c.allow(target, StateSucceeded, StateFailed)
	case StateFailed:
		return c.allow(target, StateReady)
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state, target)
}

func (c *Controller) allow(target State, allowed ...State) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state, target)
}
