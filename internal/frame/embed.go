package frame

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
)

// ErrControllerClosed is returned when a controller is used after teardown.
var ErrControllerClosed = errors.New("embedding controller is closed")

// Callbacks are the host-facing outcome hooks.
type Callbacks struct {
	OnToken func(status string)
	OnError func(reason string)
	OnClose func()
}

// Controller runs in the host context and owns the frame's lifecycle: it
// constructs the frame address, pushes the session ID once the frame has
// finished loading, and translates outcome messages into the host callbacks.
type Controller struct {
	host     *Window
	basePath string
	cb       Callbacks
	logger   *slog.Logger

	mu        sync.Mutex
	sessionID string
	frameURL  string
	frameWin  *Window
	resolved  bool
	closed    bool
	removes   []func()
}

func NewController(host *Window, basePath string, cb Callbacks, logger *slog.Logger) *Controller {
	return &Controller{
		host:     host,
		basePath: basePath,
		cb:       cb,
		logger:   logger,
	}
}

// FrameURL builds the frame launch address, encoding the session ID into the
// fragment query.
func FrameURL(basePath, sessionID string) string {
	return fmt.Sprintf("%s#payment?sessionId=%s", basePath, url.QueryEscape(sessionID))
}

// Open creates the frame window for sessionID, starts listening for outcome
// messages on the host window, and arranges for the session ID to be pushed
// into the frame only after it signals load completion. It returns the frame
// window for the embedding to mount the bridge on.
func (c *Controller) Open(sessionID string) (*Window, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrControllerClosed
	}
	if c.frameWin != nil {
		return nil, errors.New("frame already open")
	}

	c.sessionID = sessionID
	c.frameURL = FrameURL(c.basePath, sessionID)

	frameWin := NewWindow()
	c.frameWin = frameWin

	removeListen := c.host.Listen(c.handleMessage)

	// send-on-load, not send-on-mount: the push must not beat the bridge's
	// listener registration
	removeLoad := frameWin.OnLoaded(func() {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		id := c.sessionID
		c.mu.Unlock()

		c.logger.Debug("frame loaded, pushing session id", "session_id", id)
		frameWin.Post(SessionIDMessage(id))
	})

	c.removes = append(c.removes, removeListen, removeLoad)
	return frameWin, nil
}

// CurrentFrameURL reports the address of the currently open frame.
func (c *Controller) CurrentFrameURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameURL
}

func (c *Controller) handleMessage(msg Message) {
	switch msg.Type {
	case TypeTokenCreated:
		c.mu.Lock()
		if c.closed || c.resolved {
			// duplicate delivery: outcome application is idempotent
			c.mu.Unlock()
			return
		}
		c.resolved = true
		fn := c.cb.OnToken
		c.mu.Unlock()

		c.logger.Debug("token created", "status", msg.Status)
		if fn != nil {
			fn(msg.Status)
		}
	case TypePaymentError:
		c.mu.Lock()
		if c.closed || c.resolved {
			c.mu.Unlock()
			return
		}
		fn := c.cb.OnError
		c.mu.Unlock()

		c.logger.Debug("payment error reported by frame", "error", msg.Error)
		if fn != nil {
			fn(msg.Error)
		}
	default:
		// unrecognized message type, ignore
	}
}

// Close tears the frame down: listeners deregistered, frame window closed,
// per-session state discarded. Outcome messages arriving afterwards are
// dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	removes := c.removes
	frameWin := c.frameWin
	c.removes = nil
	c.frameWin = nil
	c.sessionID = ""
	c.frameURL = ""
	c.resolved = false
	onClose := c.cb.OnClose
	c.mu.Unlock()

	for _, remove := range removes {
		remove()
	}
	if frameWin != nil {
		frameWin.Close()
	}
	if onClose != nil {
		onClose()
	}
}
