package workers

import (
	"context"

	"gorm.io/gorm"

	"fwork_backend/internal/email"
	"fwork_backend/internal/logger"
	"fwork_backend/internal/repositories"
)

// EmailJob is one queued notification email. NotificationID links the
// delivery outcome back to the stored notification row.
type EmailJob struct {
	NotificationID string
	To             string
	Subject        string
	Template       string
	Data           email.TemplateData
}

// EmailQueue is the narrow surface services use to hand off email work.
type EmailQueue interface {
	Enqueue(job EmailJob) bool
}

// EmailWorker drains the queue on a background goroutine. Delivery is
// best-effort: failures are logged and the notification row keeps
// email_sent = false.
type EmailWorker struct {
	db               *gorm.DB
	provider         email.Provider
	notificationRepo repositories.NotificationRepository
	jobs             chan EmailJob
}

func NewEmailWorker(db *gorm.DB, provider email.Provider, notificationRepo repositories.NotificationRepository, queueSize int) *EmailWorker {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &EmailWorker{
		db:               db,
		provider:         provider,
		notificationRepo: notificationRepo,
		jobs:             make(chan EmailJob, queueSize),
	}
}

func (w *EmailWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Enqueue offers a job without blocking. A full queue drops the job, which
// is acceptable for best-effort notification email.
func (w *EmailWorker) Enqueue(job EmailJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		logger.Warn("email queue full, dropping job",
			"notification_id", job.NotificationID,
			"template", job.Template,
		)
		return false
	}
}

func (w *EmailWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *EmailWorker) process(job EmailJob) {
	err := w.provider.SendTemplate([]string{job.To}, job.Subject, job.Template, job.Data)
	if err != nil {
		logger.WorkerLog("email_worker", "send", err)
		return
	}

	if job.NotificationID != "" {
		if err := w.notificationRepo.MarkEmailSent(w.db, job.NotificationID); err != nil {
			logger.WorkerLog("email_worker", "mark_email_sent", err)
			return
		}
	}
	logger.WorkerLog("email_worker", "send", nil)
}
