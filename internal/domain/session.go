// Package domain encodes the checkout session and card-entry entities of the
// capture widget.
package domain

import "errors"

// Customer identifies the paying customer on a session.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Session identifies one checkout attempt. Sessions are read-only once
// created; the authoritative copy comes from the session service, the
// fallback copy from the built-in samples.
type Session struct {
	SessionID    string   `json:"sessionId"`
	Amount       int64    `json:"amount"`
	Currency     string   `json:"currency"`
	MerchantName string   `json:"merchantName"`
	OrderID      string   `json:"orderId"`
	Description  string   `json:"description,omitempty"`
	Customer     Customer `json:"customer"`
}

func NewSession(
	sessionID string,
	amount int64,
	currency string,
	merchantName string,
	orderID string,
	customer Customer,
) (*Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}
	if amount <= 0 {
		return nil, errors.New("amount must be a positive number")
	}
	if !isCurrencyCode(currency) {
		return nil, errors.New("currency must be a 3-letter ISO 4217 code")
	}

	return &Session{
		SessionID:    sessionID,
		Amount:       amount,
		Currency:     currency,
		MerchantName: merchantName,
		OrderID:      orderID,
		Customer:     customer,
	}, nil
}

func isCurrencyCode(currency string) bool {
	if len(currency) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if currency[i] < 'A' || currency[i] > 'Z' {
			return false
		}
	}
	return true
}
