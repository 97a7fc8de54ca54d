// Package sdk is the merchant-facing entry point: it validates merchant
// configuration, requests a session from the session service, and hands the
// resulting identifier to the embedding controller.
package sdk

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/demopay/capture-widget/internal/client"
	"github.com/demopay/capture-widget/internal/domain"
	"github.com/demopay/capture-widget/internal/frame"
)

// Phase is the SDK's outward state. An error recorded via LastError preempts
// whatever phase the SDK is in.
type Phase string

const (
	PhaseIdle         Phase = "IDLE"
	PhaseInitializing Phase = "INITIALIZING"
	PhaseActive       Phase = "ACTIVE"
)

var ErrClosed = errors.New("sdk is closed")

// SessionCreator is the slice of the session service client the facade
// depends on.
type SessionCreator interface {
	CreateSession(ctx context.Context, req client.SessionRequest) (*domain.Session, error)
}

// SDK wires merchant configuration to the embedding controller.
type SDK struct {
	cfg    Config
	api    SessionCreator
	embed  *frame.Controller
	logger *slog.Logger

	mu        sync.Mutex
	phase     Phase
	sessionID string
	lastErr   string
	closed    bool
}

// New validates the merchant configuration and builds the facade. A
// ConfigError here blocks all interaction until the configuration is
// corrected; no network call has happened yet.
func New(cfg Config, api SessionCreator, host *frame.Window, cb frame.Callbacks, logger *slog.Logger) (*SDK, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	s := &SDK{
		cfg:    cfg,
		api:    api,
		logger: logger,
		phase:  PhaseIdle,
	}

	wrapped := frame.Callbacks{
		OnToken: cb.OnToken,
		OnError: func(reason string) {
			s.recordError(reason)
			if cb.OnError != nil {
				cb.OnError(reason)
			}
		},
		OnClose: cb.OnClose,
	}
	s.embed = frame.NewController(host, cfg.FrameBasePath, wrapped, logger)
	return s, nil
}

// Start creates a session and opens the frame for it. It returns the frame
// window for the embedding to mount the bridge on.
func (s *SDK) Start(ctx context.Context) (*frame.Window, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.phase != PhaseIdle {
		s.mu.Unlock()
		return nil, errors.New("payment already started")
	}
	s.phase = PhaseInitializing
	s.lastErr = ""
	s.mu.Unlock()

	sess, err := s.api.CreateSession(ctx, client.SessionRequest{
		OrderID:  s.cfg.OrderID,
		Amount:   s.cfg.Amount,
		Currency: s.cfg.Currency,
		Customer: s.cfg.Customer,
	})
	if err != nil {
		s.mu.Lock()
		s.phase = PhaseIdle
		s.lastErr = err.Error()
		s.mu.Unlock()
		s.logger.Error("payment initialization failed", "error", err)
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.sessionID = sess.SessionID
	s.phase = PhaseActive
	s.mu.Unlock()

	s.logger.Info("payment session created",
		"session_id", sess.SessionID,
		"amount", sess.Amount,
		"currency", sess.Currency,
	)
	return s.embed.Open(sess.SessionID)
}

func (s *SDK) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *SDK) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// LastError reports the most recent error surfaced to the merchant. A
// non-empty value preempts the phase in any host UI.
func (s *SDK) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// FrameURL reports the launch address of the open frame.
func (s *SDK) FrameURL() string {
	return s.embed.CurrentFrameURL()
}

func (s *SDK) recordError(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = reason
}

// Close discards all per-session state and tears the frame down. No state
// is updated by operations completing after close.
func (s *SDK) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.sessionID = ""
	s.phase = PhaseIdle
	s.lastErr = ""
	s.mu.Unlock()

	s.embed.Close()
}
