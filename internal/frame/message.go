// Package frame implements the cross-boundary session/token handshake: the
// host-side embedding controller, the frame-side bridge, and the window
// abstraction they exchange messages through.
package frame

// Message type strings exchanged across the host/frame boundary. The set is
// open: both sides ignore anything whose type they do not recognize.
const (
	TypeSessionID    = "PAYMENT_SESSION_ID"
	TypeTokenCreated = "TOKEN_CREATED"
	TypePaymentError = "PAYMENT_ERROR"
)

// Message is the envelope posted across the boundary.
type Message struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SessionIDMessage is pushed host -> frame to deliver a late session ID.
func SessionIDMessage(sessionID string) Message {
	return Message{Type: TypeSessionID, SessionID: sessionID}
}

// TokenCreatedMessage is posted frame -> host on a successful outcome.
func TokenCreatedMessage(status string) Message {
	return Message{Type: TypeTokenCreated, Status: status}
}

// PaymentErrorMessage is posted frame -> host on a failed outcome.
func PaymentErrorMessage(reason string) Message {
	return Message{Type: TypePaymentError, Error: reason}
}
