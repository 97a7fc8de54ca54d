// Package client issues session-creation and token-creation requests to the
// session service and owns request/response mapping and error normalization.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/demopay/capture-widget/internal/cache"
	"github.com/demopay/capture-widget/internal/config"
	"github.com/demopay/capture-widget/internal/domain"
)

const (
	defaultCurrency   = "AUD"
	resultCodeSuccess = "Success"

	createSessionFallback = "Failed to create payment session"
	createTokenFallback   = "Failed to create payment token"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *cache.Store
	fetchDelay time.Duration
	logger     *slog.Logger
}

func New(cfg config.ServiceConfig, store *cache.Store, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
		store:      store,
		fetchDelay: cfg.FetchDelay,
		logger:     logger,
	}
}

// CreateSession asks the session service for a new session. Network and
// non-success responses surface as ServiceError; nothing is cached here.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*domain.Session, error) {
	if req.Currency == "" {
		req.Currency = defaultCurrency
	}

	url := fmt.Sprintf("%s/payment/session/create", c.baseURL)
	sess, err := sendRequest[SessionRequest, domain.Session](c, ctx, http.MethodPost, url, &req, createSessionFallback)
	if err != nil {
		c.logger.Error("payment session creation failed", "error", err)
		return nil, err
	}
	return sess, nil
}

// FetchSession resolves a session locally: the merged cache view first, then
// the designated default sample. It never fails except on context
// cancellation; the demo must stay navigable without a live backend.
func (c *Client) FetchSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if c.fetchDelay > 0 {
		timer := time.NewTimer(c.fetchDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if sess, ok := c.store.Get(sessionID); ok {
		return sess, nil
	}

	c.logger.Debug("session not found, using default sample", "session_id", sessionID)
	sess, _ := c.store.Get(cache.DefaultSampleID)
	return sess, nil
}

// CreateToken submits the demo payment-authentication payload and reports
// whether the service returned the Success result code. Any other code or a
// transport failure is a ServiceError.
func (c *Client) CreateToken(ctx context.Context, sessionID string, card domain.CardInput) (bool, error) {
	pan := strings.ReplaceAll(card.CardNumber, " ", "")
	c.logger.Debug("submitting payment authentication",
		"session_id", sessionID,
		"pan_digits", len(pan),
	)

	payload := demoAuthenticateRequest()
	url := fmt.Sprintf("%s/payment/authenticate", c.baseURL)
	resp, err := sendRequest[authenticateRequest, authenticateResponse](c, ctx, http.MethodPost, url, &payload, createTokenFallback)
	if err != nil {
		c.logger.Error("payment token creation failed", "error", err)
		return false, err
	}

	if resp.Result.ResultCode != resultCodeSuccess {
		return false, &ServiceError{Message: "Payment authentication failed"}
	}
	return true, nil
}

func sendRequest[Req any, Resp any](c *Client, ctx context.Context, method, url string, reqBody *Req, fallback string) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, &ServiceError{Message: fallback, Err: fmt.Errorf("error marshalling json: %w", err)}
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &ServiceError{Message: fallback, Err: fmt.Errorf("error creating request: %w", err)}
	}

	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ServiceError{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var svcErrResp serviceErrorResponse
		if err := json.Unmarshal(body, &svcErrResp); err == nil && svcErrResp.Message != "" {
			return nil, &ServiceError{
				Message:    svcErrResp.Message,
				StatusCode: resp.StatusCode,
			}
		}
		return nil, &ServiceError{
			Message:    fallback,
			StatusCode: resp.StatusCode,
		}
	}

	var svcResp Resp
	if err := json.NewDecoder(resp.Body).Decode(&svcResp); err != nil {
		return nil, &ServiceError{Message: fallback, Err: fmt.Errorf("error decoding json response: %w", err)}
	}

	return &svcResp, nil
}
