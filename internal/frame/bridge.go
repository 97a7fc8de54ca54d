package frame

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/demopay/capture-widget/internal/domain"
)

// Bridge runs inside the isolated frame. It resolves the initial session ID
// from the frame's launch address, accepts a late session ID pushed by the
// host, and forwards terminal outcomes to the host window.
type Bridge struct {
	win    *Window
	parent *Window
	logger *slog.Logger

	mu        sync.Mutex
	sessionID string
	onSession func(string)
	resolved  bool
	mounted   bool
	closed    bool
	remove    func()
}

// NewBridge builds a bridge for the frame window win whose host side is
// parent. launchURL is the frame's address; a session ID in its fragment
// query takes precedence over one in the plain query string.
func NewBridge(win, parent *Window, launchURL string, logger *slog.Logger) *Bridge {
	return &Bridge{
		win:       win,
		parent:    parent,
		logger:    logger,
		sessionID: sessionIDFromURL(launchURL),
	}
}

// sessionIDFromURL checks the fragment-encoded query after "#payment?"
// first, then the ordinary query string.
func sessionIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	if _, query, ok := strings.Cut(u.Fragment, "?"); ok {
		if values, err := url.ParseQuery(query); err == nil {
			if id := values.Get("sessionId"); id != "" {
				return id
			}
		}
	}

	return u.Query().Get("sessionId")
}

// Mount registers the message listener and then signals the frame's load
// completion, so a host that sends on load can never deliver before the
// bridge is listening.
func (b *Bridge) Mount() {
	b.mu.Lock()
	if b.closed || b.mounted {
		b.mu.Unlock()
		return
	}
	b.mounted = true
	b.mu.Unlock()

	b.remove = b.win.Listen(b.handleMessage)
	b.win.SignalLoaded()
}

// OnSession registers the session-ID callback. If an ID is already resolved
// from the launch address it fires immediately.
func (b *Bridge) OnSession(fn func(sessionID string)) {
	b.mu.Lock()
	b.onSession = fn
	id := b.sessionID
	b.mu.Unlock()

	if id != "" && fn != nil {
		fn(id)
	}
}

// SessionID reports the currently resolved session ID.
func (b *Bridge) SessionID() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessionID, b.sessionID != ""
}

func (b *Bridge) handleMessage(msg Message) {
	switch msg.Type {
	case TypeSessionID:
		if msg.SessionID == "" {
			return
		}
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return
		}
		// a pushed ID overrides the one read from the launch address
		b.sessionID = msg.SessionID
		fn := b.onSession
		b.mu.Unlock()

		b.logger.Debug("session id received from host", "session_id", msg.SessionID)
		if fn != nil {
			fn(msg.SessionID)
		}
	default:
		// not addressed to the frame
	}
}

// Deliver forwards a terminal outcome to the host. A success resolves the
// session and is forwarded at most once; anything delivered after resolution
// is dropped. Nothing is emitted before a session ID has been resolved.
func (b *Bridge) Deliver(outcome domain.TokenOutcome) {
	b.mu.Lock()
	if b.closed || b.resolved || b.sessionID == "" {
		b.mu.Unlock()
		return
	}
	if outcome.Success {
		b.resolved = true
	}
	b.mu.Unlock()

	if outcome.Success {
		b.parent.Post(TokenCreatedMessage(outcome.Status))
		return
	}
	b.parent.Post(PaymentErrorMessage(outcome.Reason))
}

// Close deregisters the message listener. No subscriptions survive teardown.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	remove := b.remove
	b.remove = nil
	b.onSession = nil
	b.mu.Unlock()

	if remove != nil {
		remove()
	}
}
