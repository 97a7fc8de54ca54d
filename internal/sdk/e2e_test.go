package sdk_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/demopay/capture-widget/internal/cache"
	"github.com/demopay/capture-widget/internal/client"
	"github.com/demopay/capture-widget/internal/config"
	"github.com/demopay/capture-widget/internal/domain"
	"github.com/demopay/capture-widget/internal/form"
	"github.com/demopay/capture-widget/internal/frame"
	"github.com/demopay/capture-widget/internal/sdk"
	"github.com/demopay/capture-widget/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness wires the whole stack the way a host page would: mock session
// service behind an httptest server, real client, facade, host window, and
// the bridge plus form controller on the frame side.
type harness struct {
	api    *client.Client
	sdk    *sdk.SDK
	host   *frame.Window
	tokens []string
	errsCb []string
	bridge *frame.Bridge
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := testLogger()

	srv := httptest.NewServer(service.NewServer(logger).Handler())
	t.Cleanup(srv.Close)

	store := cache.NewStore(filepath.Join(t.TempDir(), "sessions.json"), logger)

	api := client.New(config.ServiceConfig{
		BaseURL: srv.URL + "/api/v1",
	}, store, logger)

	h := &harness{api: api, host: frame.NewWindow()}

	cb := frame.Callbacks{
		OnToken: func(status string) { h.tokens = append(h.tokens, status) },
		OnError: func(reason string) { h.errsCb = append(h.errsCb, reason) },
	}

	s, err := sdk.New(sdk.Config{
		MerchantID: "m1",
		APIKey:     "k1",
		Amount:     5000,
		Currency:   "USD",
		OrderID:    "ORD-E2E-001",
		Customer:   domain.Customer{Name: "Jane Doe", Email: "jane@example.com"},
	}, api, h.host, cb, logger)
	require.NoError(t, err)
	h.sdk = s
	return h
}

// start drives the handshake through to a loaded form: create session, open
// frame, mount the bridge, wait for the session id, then load session
// details into the form.
func (h *harness) start(t *testing.T) *form.Controller {
	t.Helper()
	logger := testLogger()

	frameWin, err := h.sdk.Start(context.Background())
	require.NoError(t, err)

	h.bridge = frame.NewBridge(frameWin, h.host, h.sdk.FrameURL(), logger)

	var formCtrl *form.Controller
	h.bridge.OnSession(func(sessionID string) {
		formCtrl = form.NewController(sessionID, h.api, h.bridge.Deliver, logger)
	})
	h.bridge.Mount()

	require.NotNil(t, formCtrl, "session id never reached the frame")
	require.NoError(t, formCtrl.Load(context.Background()))
	return formCtrl
}

func TestEndToEnd_Handshake(t *testing.T) {
	h := newHarness(t)
	formCtrl := h.start(t)

	assert.Equal(t, sdk.PhaseActive, h.sdk.Phase())
	assert.Equal(t, form.StateReady, formCtrl.State())

	id, ok := h.bridge.SessionID()
	require.True(t, ok)
	assert.Equal(t, h.sdk.SessionID(), id)

	// a service-created id misses the local cache, so the form shows the
	// default sample session
	sess := formCtrl.Session()
	require.NotNil(t, sess)
	assert.Equal(t, "test-session-1", sess.SessionID)
	assert.EqualValues(t, 5000, sess.Amount)
}

func TestEndToEnd_SuccessfulPayment(t *testing.T) {
	h := newHarness(t)
	formCtrl := h.start(t)

	formCtrl.SetField(domain.FieldCardNumber, "4111111111111111")
	formCtrl.SetField(domain.FieldExpiryDate, "12/30")
	formCtrl.SetField(domain.FieldCVV, "123")
	formCtrl.SetField(domain.FieldCardholderName, "Jane Doe")
	formCtrl.SetField(domain.FieldPostalCode, "94105")

	require.NoError(t, formCtrl.Submit(context.Background()))

	assert.Equal(t, form.StateSucceeded, formCtrl.State())
	assert.Equal(t, []string{domain.OutcomeStatusSuccess}, h.tokens)
	assert.Empty(t, h.errsCb)
}

func TestEndToEnd_ValidationStopsBeforeService(t *testing.T) {
	h := newHarness(t)
	formCtrl := h.start(t)

	formCtrl.SetField(domain.FieldCardNumber, "4111")
	formCtrl.SetField(domain.FieldExpiryDate, "12/30")
	formCtrl.SetField(domain.FieldCVV, "123")
	formCtrl.SetField(domain.FieldCardholderName, "Jane Doe")
	formCtrl.SetField(domain.FieldPostalCode, "94105")

	err := formCtrl.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, form.StateReady, formCtrl.State())
	assert.Contains(t, formCtrl.FieldErrors(), domain.FieldCardNumber)
	assert.Empty(t, h.tokens)
	assert.Empty(t, h.errsCb)
}

func TestEndToEnd_DuplicateSuccessReachesHostOnce(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	h.bridge.Deliver(domain.SuccessOutcome())
	h.bridge.Deliver(domain.SuccessOutcome())

	assert.Len(t, h.tokens, 1)
}

func TestEndToEnd_FailureSurfacesToHost(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	h.bridge.Deliver(domain.FailureOutcome("Payment authentication failed"))

	assert.Empty(t, h.tokens)
	assert.Equal(t, []string{"Payment authentication failed"}, h.errsCb)
	assert.Equal(t, "Payment authentication failed", h.sdk.LastError())
}
