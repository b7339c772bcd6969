package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"flowsite-api/core/config"
	"flowsite-api/core/logger"
	"flowsite-api/core/queue"
	"flowsite-api/core/utils"

	"github.com/hibiken/asynq"
)

// Handler processes notification tasks. Email goes out through SMTP to the
// business inbox.
type Handler struct {
	smtp  config.SMTPConfig
	inbox string
}

func NewHandler(smtp config.SMTPConfig, businessInbox string) *Handler {
	return &Handler{smtp: smtp, inbox: businessInbox}
}

func (h *Handler) HandleContactNotification(ctx context.Context, t *asynq.Task) error {
	var payload queue.ContactNotificationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("Notify:HandleContactNotification:Unmarshal:Error", "error", err)
		// Malformed payloads never succeed, do not retry.
		return fmt.Errorf("unmarshal contact notification: %v: %w", err, asynq.SkipRetry)
	}

	if h.inbox == "" {
		logger.Warn("Notify:HandleContactNotification:Skipped", "reason", "no business inbox configured", "reference", payload.Reference)
		return nil
	}

	msg := utils.EmailMessage{
		To:      []string{h.inbox},
		Subject: fmt.Sprintf("[%s] New contact request %s", payload.Kind, payload.Reference),
		Body:    buildContactEmailBody(payload),
	}
	if err := utils.SendEmailTLS(h.smtp, msg); err != nil {
		logger.Error("Notify:HandleContactNotification:Send:Error", "error", err, "reference", payload.Reference)
		return err
	}

	logger.Info("Notify:HandleContactNotification:Sent", "reference", payload.Reference, "to", h.inbox)
	return nil
}

func buildContactEmailBody(p queue.ContactNotificationPayload) string {
	var b strings.Builder
	b.WriteString("A new contact request arrived from the website.\n\n")
	b.WriteString("Reference: " + p.Reference + "\n")
	b.WriteString("Name: " + p.Name + "\n")
	b.WriteString("Email: " + p.Email + "\n")
	if p.Company != "" {
		b.WriteString("Company: " + p.Company + "\n")
	}
	b.WriteString("Kind: " + p.Kind + "\n")
	if p.Message != "" {
		b.WriteString("\n" + p.Message + "\n")
	}
	return b.String()
}
