package form_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/demopay/capture-widget/internal/client"
	"github.com/demopay/capture-widget/internal/domain"
	"github.com/demopay/capture-widget/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAPI struct {
	session    *domain.Session
	fetchErr   error
	tokenOK    bool
	tokenErr   error
	fetchCalls int
	tokenCalls int
	lastCard   domain.CardInput
}

func (f *fakeAPI) FetchSession(_ context.Context, sessionID string) (*domain.Session, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.session != nil {
		return f.session, nil
	}
	customer := domain.Customer{Name: "Test User", Email: "test@example.com"}
	sess, _ := domain.NewSession(sessionID, 5000, "USD", "Demo Store", "ORD-TEST-001", customer)
	return sess, nil
}

func (f *fakeAPI) CreateToken(_ context.Context, _ string, card domain.CardInput) (bool, error) {
	f.tokenCalls++
	f.lastCard = card
	return f.tokenOK, f.tokenErr
}

type outcomeSink struct {
	outcomes []domain.TokenOutcome
}

func (s *outcomeSink) deliver(o domain.TokenOutcome) {
	s.outcomes = append(s.outcomes, o)
}

func newReadyController(t *testing.T, api *fakeAPI, sink *outcomeSink) *form.Controller {
	t.Helper()
	c := form.NewController("test-session-1", api, sink.deliver, testLogger())
	require.NoError(t, c.Load(context.Background()))
	require.Equal(t, form.StateReady, c.State())
	return c
}

func fillValidCard(c *form.Controller) {
	c.SetField(domain.FieldCardNumber, "4111111111111111")
	c.SetField(domain.FieldExpiryDate, "12/30")
	c.SetField(domain.FieldCVV, "123")
	c.SetField(domain.FieldCardholderName, "Jane Doe")
	c.SetField(domain.FieldPostalCode, "94105")
}

func TestController_Load(t *testing.T) {
	t.Run("reaches ready with session details", func(t *testing.T) {
		api := &fakeAPI{}
		c := form.NewController("test-session-1", api, nil, testLogger())

		require.NoError(t, c.Load(context.Background()))

		assert.Equal(t, form.StateReady, c.State())
		require.NotNil(t, c.Session())
		assert.Equal(t, "test-session-1", c.Session().SessionID)
		assert.Equal(t, 1, api.fetchCalls)
	})

	t.Run("stays in loading when the fetch fails outright", func(t *testing.T) {
		api := &fakeAPI{fetchErr: errors.New("context cancelled")}
		c := form.NewController("test-session-1", api, nil, testLogger())

		err := c.Load(context.Background())

		assert.Error(t, err)
		assert.Equal(t, form.StateLoading, c.State())
		assert.Nil(t, c.Session())
	})

	t.Run("cannot load twice", func(t *testing.T) {
		api := &fakeAPI{}
		c := newReadyController(t, api, &outcomeSink{})

		err := c.Load(context.Background())

		assert.ErrorIs(t, err, form.ErrInvalidTransition)
		assert.Equal(t, 1, api.fetchCalls)
	})
}

func TestController_SetField(t *testing.T) {
	t.Run("applies live formatting", func(t *testing.T) {
		c := newReadyController(t, &fakeAPI{}, &outcomeSink{})

		c.SetField(domain.FieldCardNumber, "4111111111111111")
		c.SetField(domain.FieldExpiryDate, "1230")

		assert.Equal(t, "4111 1111 1111 1111", c.Input().CardNumber)
		assert.Equal(t, "12/30", c.Input().ExpiryDate)
	})

	t.Run("clears only the edited field's error", func(t *testing.T) {
		c := newReadyController(t, &fakeAPI{}, &outcomeSink{})
		fillValidCard(c)
		c.SetField(domain.FieldCVV, "1")
		c.SetField(domain.FieldPostalCode, "12")

		err := c.Submit(context.Background())
		require.Error(t, err)
		require.Len(t, c.FieldErrors(), 2)

		c.SetField(domain.FieldCVV, "123")

		errs := c.FieldErrors()
		assert.NotContains(t, errs, domain.FieldCVV)
		assert.Contains(t, errs, domain.FieldPostalCode)
	})

	t.Run("ignores unknown fields", func(t *testing.T) {
		c := newReadyController(t, &fakeAPI{}, &outcomeSink{})

		c.SetField("rewardsNumber", "12345")

		assert.Equal(t, domain.CardInput{}, c.Input())
	})
}

func TestController_Submit(t *testing.T) {
	t.Run("validation rejection keeps the form ready", func(t *testing.T) {
		api := &fakeAPI{tokenOK: true}
		c := newReadyController(t, api, &outcomeSink{})
		fillValidCard(c)
		c.SetField(domain.FieldExpiryDate, "13/30")

		err := c.Submit(context.Background())

		require.Error(t, err)
		errs, ok := domain.IsFieldErrors(err)
		require.True(t, ok)
		assert.Equal(t, domain.FieldErrors{domain.FieldExpiryDate: "Invalid month"}, errs)
		assert.Equal(t, form.StateReady, c.State())
		assert.Equal(t, 0, api.tokenCalls)
	})

	t.Run("successful token creation reaches succeeded and emits the outcome", func(t *testing.T) {
		api := &fakeAPI{tokenOK: true}
		sink := &outcomeSink{}
		c := newReadyController(t, api, sink)
		fillValidCard(c)

		require.NoError(t, c.Submit(context.Background()))

		assert.Equal(t, form.StateSucceeded, c.State())
		require.Len(t, sink.outcomes, 1)
		assert.True(t, sink.outcomes[0].Success)
		assert.Equal(t, domain.OutcomeStatusSuccess, sink.outcomes[0].Status)

		// entry is discarded once resolved
		assert.Equal(t, domain.CardInput{}, c.Input())
	})

	t.Run("service failure surfaces the service message", func(t *testing.T) {
		api := &fakeAPI{tokenErr: &client.ServiceError{Message: "Payment authentication failed", StatusCode: 200}}
		sink := &outcomeSink{}
		c := newReadyController(t, api, sink)
		fillValidCard(c)

		err := c.Submit(context.Background())

		assert.Error(t, err)
		assert.Equal(t, form.StateFailed, c.State())
		assert.Equal(t, "Payment authentication failed", c.FailureReason())
		require.Len(t, sink.outcomes, 1)
		assert.False(t, sink.outcomes[0].Success)
		assert.Equal(t, "Payment authentication failed", sink.outcomes[0].Reason)
	})

	t.Run("non-service failure falls back to the generic message", func(t *testing.T) {
		api := &fakeAPI{tokenErr: errors.New("dial tcp: connection refused")}
		c := newReadyController(t, api, &outcomeSink{})
		fillValidCard(c)

		err := c.Submit(context.Background())

		assert.Error(t, err)
		assert.Equal(t, "An error occurred while creating token", c.FailureReason())
	})

	t.Run("declined without error fails the attempt", func(t *testing.T) {
		api := &fakeAPI{tokenOK: false}
		sink := &outcomeSink{}
		c := newReadyController(t, api, sink)
		fillValidCard(c)

		err := c.Submit(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, form.StateFailed, c.State())
		require.Len(t, sink.outcomes, 1)
		assert.False(t, sink.outcomes[0].Success)
	})

	t.Run("cannot submit before loading", func(t *testing.T) {
		c := form.NewController("test-session-1", &fakeAPI{}, nil, testLogger())

		err := c.Submit(context.Background())

		assert.ErrorIs(t, err, form.ErrInvalidTransition)
	})
}

func TestController_Retry(t *testing.T) {
	t.Run("failed form returns to ready for another attempt", func(t *testing.T) {
		api := &fakeAPI{tokenErr: &client.ServiceError{Message: "Payment authentication failed"}}
		sink := &outcomeSink{}
		c := newReadyController(t, api, sink)
		fillValidCard(c)
		require.Error(t, c.Submit(context.Background()))
		require.Equal(t, form.StateFailed, c.State())

		require.NoError(t, c.Retry())

		assert.Equal(t, form.StateReady, c.State())
		assert.Empty(t, c.FailureReason())

		// second attempt succeeds and produces a second outcome
		api.tokenErr = nil
		api.tokenOK = true
		fillValidCard(c)
		require.NoError(t, c.Submit(context.Background()))
		assert.Equal(t, form.StateSucceeded, c.State())
		assert.Len(t, sink.outcomes, 2)
		assert.True(t, sink.outcomes[1].Success)
	})

	t.Run("retry is only valid from failed", func(t *testing.T) {
		c := newReadyController(t, &fakeAPI{}, &outcomeSink{})

		assert.ErrorIs(t, c.Retry(), form.ErrInvalidTransition)
	})
}
