package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/employee"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptorequest"
)

// WebhookMessenger delivers DMs through the chat platform's message
// webhook. The chat-side rendering lives behind the webhook; this side
// only ships a structured payload.
type WebhookMessenger struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewWebhookMessenger(url string, logger ...*zap.Logger) *WebhookMessenger {
	l := zap.L().Named("notification.webhook")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.webhook")
	}
	return &WebhookMessenger{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: l,
	}
}

type webhookApproval struct {
	ApprovalID    string `json:"approval_id"`
	RequestID     string `json:"request_id"`
	RequestNumber int64  `json:"request_number,omitempty"`
	Title         string `json:"title,omitempty"`
}

type webhookPayload struct {
	Kind              string            `json:"kind"`
	RecipientExternal string            `json:"recipient_external_id"`
	PendingApprovals  []webhookApproval `json:"pending_approvals,omitempty"`
	RequestID         string            `json:"request_id,omitempty"`
	RequestTitle      string            `json:"request_title,omitempty"`
	RequestStatus     string            `json:"request_status,omitempty"`
	RemainingPtoDays  float64           `json:"remaining_pto_days,omitempty"`
}

func (m *WebhookMessenger) SendPendingApprovalsDigest(ctx context.Context, recipient *employee.Employee, approvals []ptorequest.PtoApproval) error {
	payload := webhookPayload{
		Kind:              "pending_approvals_digest",
		RecipientExternal: recipient.ExternalID,
	}
	for i := range approvals {
		a := approvals[i]
		wa := webhookApproval{
			ApprovalID: a.ID.String(),
			RequestID:  a.RequestID.String(),
		}
		if a.Request != nil {
			wa.RequestNumber = a.Request.RequestNumber
			wa.Title = a.Request.Title
		}
		payload.PendingApprovals = append(payload.PendingApprovals, wa)
	}
	return m.post(ctx, payload)
}

func (m *WebhookMessenger) SendDecisionNotice(ctx context.Context, recipient *employee.Employee, request *ptorequest.PtoRequest) error {
	return m.post(ctx, webhookPayload{
		Kind:              "decision_notice",
		RecipientExternal: recipient.ExternalID,
		RequestID:         request.ID.String(),
		RequestTitle:      request.Title,
		RequestStatus:     request.Status,
		RemainingPtoDays:  recipient.RemainingPtoDays(),
	})
}

func (m *WebhookMessenger) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		// The platform signals a deactivated workspace account with 410.
		return ErrAccountDeactivated
	}
	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		m.logger.Warn("webhook delivery rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		return fmt.Errorf("chat webhook returned status %d", resp.StatusCode)
	}
	return nil
}
