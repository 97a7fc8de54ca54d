package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/demopay/capture-widget/internal/domain"
)

type createSessionRequest struct {
	OrderID  string          `json:"orderId"`
	Amount   int64           `json:"amount"`
	Currency string          `json:"currency"`
	Customer domain.Customer `json:"customer"`
}

type authenticateBody struct {
	RecordLocator string           `json:"recordLocator"`
	PaymentDetail *json.RawMessage `json:"paymentDetail"`
}

type authenticateResult struct {
	Result struct {
		ResultCode string `json:"resultCode"`
	} `json:"result"`
}

type errorResponse struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
		return
	}

	if req.Amount <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive number")
		return
	}
	if req.Currency == "" {
		req.Currency = "AUD"
	}

	sess, err := domain.NewSession(
		"sess-"+uuid.New().String(),
		req.Amount,
		req.Currency,
		"Demo Merchant",
		req.OrderID,
		req.Customer,
	)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	sess.Description = fmt.Sprintf("Payment for order %s", req.OrderID)

	s.logger.Info("session created",
		"session_id", sess.SessionID,
		"order_id", sess.OrderID,
		"amount", sess.Amount,
	)
	s.writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var body authenticateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
		return
	}
	if body.PaymentDetail == nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "paymentDetail is required")
		return
	}

	var resp authenticateResult
	resp.Result.ResultCode = "Success"
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Err: code, Message: message})
}
