package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"

	"github.com/rs/zerolog"
)

// EventWithdrawalRequested is the event type sent for new withdrawal requests.
const EventWithdrawalRequested = "withdrawal.requested"

// DefaultRetryIntervals are the waits between webhook delivery attempts.
var DefaultRetryIntervals = []time.Duration{
	5 * time.Second,
	30 * time.Second,
	2 * time.Minute,
	10 * time.Minute,
}

// WebhookPayload is the JSON body posted to the ops webhook.
type WebhookPayload struct {
	EventType string             `json:"event_type"`
	Data      WebhookPayloadData `json:"data"`
	Signature string             `json:"signature"`
}

// WebhookPayloadData describes the withdrawal. Signature is HMAC-SHA256 of its JSON.
type WebhookPayloadData struct {
	WithdrawalID string `json:"withdrawal_id"`
	UserID       string `json:"user_id"`
	Coin         string `json:"coin"`
	Address      string `json:"address"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
	Timestamp    int64  `json:"timestamp"`
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Webhook posts signed withdrawal events to an operator endpoint.
// Delivery runs in the background and retries non-2xx answers.
type Webhook struct {
	url        string
	secret     string
	sigSvc     ports.SignatureService
	httpClient HTTPClient
	retries    []time.Duration
	log        zerolog.Logger
}

func NewWebhook(url, secret string, sigSvc ports.SignatureService, httpClient HTTPClient, retries []time.Duration, log zerolog.Logger) *Webhook {
	return &Webhook{
		url:        url,
		secret:     secret,
		sigSvc:     sigSvc,
		httpClient: httpClient,
		retries:    retries,
		log:        log,
	}
}

func (h *Webhook) NotifyWithdrawal(_ context.Context, w *domain.Withdrawal) error {
	data := WebhookPayloadData{
		WithdrawalID: w.ID.String(),
		UserID:       w.UserID.String(),
		Coin:         w.Coin,
		Address:      w.Address,
		Amount:       w.Amount,
		Status:       string(w.Status),
		Timestamp:    time.Now().Unix(),
	}

	dataBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal webhook data: %w", err)
	}

	payload, err := json.Marshal(WebhookPayload{
		EventType: EventWithdrawalRequested,
		Data:      data,
		Signature: h.sigSvc.Sign(h.secret, string(dataBytes)),
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	go h.deliverWithRetries(payload, data.WithdrawalID)
	return nil
}

func (h *Webhook) deliverWithRetries(payload []byte, withdrawalID string) {
	for attempt := 0; attempt <= len(h.retries); attempt++ {
		if attempt > 0 {
			time.Sleep(h.retries[attempt-1])
		}

		req, err := http.NewRequest(http.MethodPost, h.url, bytes.NewReader(payload))
		if err != nil {
			h.log.Error().Err(err).Str("withdrawal_id", withdrawalID).Msg("webhook: bad request")
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := h.httpClient.Do(req)
		if err != nil {
			h.log.Warn().Err(err).Str("withdrawal_id", withdrawalID).Int("attempt", attempt+1).Msg("webhook: delivery failed")
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			h.log.Info().Str("withdrawal_id", withdrawalID).Int("attempt", attempt+1).Msg("webhook: delivered")
			return
		}

		h.log.Warn().Str("withdrawal_id", withdrawalID).Int("attempt", attempt+1).Int("status", resp.StatusCode).Msg("webhook: non-2xx response")
	}

	h.log.Error().Str("withdrawal_id", withdrawalID).Msg("webhook: all retry attempts exhausted")
}
