package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/samridhi-events/backend/config"
	"github.com/samridhi-events/backend/internal/emaillogs"
	"github.com/samridhi-events/backend/internal/models"
	"github.com/samridhi-events/backend/pkg/queue"
)

// EmailProcessor processes email jobs: send via SMTP when configured and
// record the outcome in email_logs.
type EmailProcessor struct {
	logRepo *emaillogs.Repository
	queue   *queue.Queue
	email   config.EmailConfig
	logger  *zap.Logger
}

// NewEmailProcessor creates an email job processor.
func NewEmailProcessor(logRepo *emaillogs.Repository, q *queue.Queue, email config.EmailConfig, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{logRepo: logRepo, queue: q, email: email, logger: logger}
}

// Process executes one email job.
func (p *EmailProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	el := &models.EmailLog{
		EventID:        &payload.EventID,
		RegistrationID: &payload.RegistrationID,
		EmailType:      payload.EmailType,
		RecipientEmail: payload.RecipientEmail,
		Subject:        payload.Subject,
		Status:         models.EmailLogStatusPending,
	}
	if err := p.logRepo.Create(ctx, el); err != nil {
		return fmt.Errorf("create email log: %w", err)
	}

	if err := p.send(payload); err != nil {
		_ = p.logRepo.MarkFailed(ctx, el.ID, err.Error())
		return fmt.Errorf("send email: %w", err)
	}

	if err := p.logRepo.MarkSent(ctx, el.ID, time.Now()); err != nil {
		p.logger.Error("mark email sent failed", zap.Error(err), zap.String("email_log_id", el.ID.String()))
	}
	p.logger.Info("email sent",
		zap.String("email_type", payload.EmailType),
		zap.String("recipient", payload.RecipientEmail),
	)
	return nil
}

// send delivers the message over SMTP. Without an SMTP host the send is a
// logged no-op so local environments work without a mail server.
func (p *EmailProcessor) send(payload queue.EmailPayload) error {
	if p.email.SMTPHost == "" {
		p.logger.Info("SMTP not configured, skipping delivery",
			zap.String("recipient", payload.RecipientEmail),
			zap.String("subject", payload.Subject),
		)
		return nil
	}

	addr := fmt.Sprintf("%s:%d", p.email.SMTPHost, p.email.SMTPPort)
	from := p.email.FromAddress
	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		p.email.FromName, from, payload.RecipientEmail, payload.Subject, payload.Body,
	))
	var a smtp.Auth
	if p.email.SMTPUser != "" {
		a = smtp.PlainAuth("", p.email.SMTPUser, p.email.SMTPPass, p.email.SMTPHost)
	}
	return smtp.SendMail(addr, a, from, []string{payload.RecipientEmail}, msg)
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *EmailProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
