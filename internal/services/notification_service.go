package services

import (
	"bytes"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/openopps/openopps-api/internal/models"
	"github.com/openopps/openopps-api/internal/repository"
)

// Action keys for registered notifications.
const (
	ActionUserWelcome     = "user.create.welcome"
	ActionTaskThanks      = "task.create.thanks"
	ActionVolunteerCreate = "volunteer.create"
)

// Mailer delivers a rendered message. Delivery transport is a
// collaborator; the dispatcher never depends on its success.
type Mailer interface {
	Send(recipient, subject, body string) error
}

// LogMailer writes messages to the structured log instead of sending
// them. Used in development and tests.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(recipient, subject, body string) error {
	m.Logger.Info("mail delivered",
		slog.String("recipient", recipient),
		slog.String("subject", subject),
	)
	return nil
}

// Notification payloads. Each action resolves its recipient from the
// payload's associated user.

type WelcomePayload struct {
	User models.User
}

type TaskThanksPayload struct {
	Task  models.Task
	Owner models.User
}

type VolunteerPayload struct {
	Task      models.Task
	Owner     models.User
	Volunteer models.User
}

type notificationEntry struct {
	subject *template.Template
	body    *template.Template
	resolve func(payload any) (recipient, modelType string, modelID uint64, err error)
}

// NotificationService resolves a template for an action key, renders
// subject and body from the payload, persists the record, and hands the
// message to the mailer. Every failure is logged and swallowed; dispatch
// must never fail the triggering business operation.
type NotificationService struct {
	repo     repository.NotificationRepository
	mailer   Mailer
	logger   *slog.Logger
	registry map[string]notificationEntry
}

// NewNotificationService creates a dispatcher with the built-in action
// registry.
func NewNotificationService(repo repository.NotificationRepository, mailer Mailer, logger *slog.Logger) *NotificationService {
	s := &NotificationService{
		repo:     repo,
		mailer:   mailer,
		logger:   logger,
		registry: make(map[string]notificationEntry),
	}

	s.register(ActionUserWelcome,
		"Welcome to OpenOpps",
		"Hi {{if .User.Name}}{{.User.Name}}{{else}}there{{end}},\n\n"+
			"Your account {{.User.Username}} is ready. Browse open opportunities and volunteer for the ones that fit.\n",
		func(payload any) (string, string, uint64, error) {
			p, ok := payload.(WelcomePayload)
			if !ok {
				return "", "", 0, fmt.Errorf("unexpected payload %T", payload)
			}
			return p.User.Username, "user", p.User.ID, nil
		})

	s.register(ActionTaskThanks,
		"New Opportunity Submission",
		"Hi {{if .Owner.Name}}{{.Owner.Name}}{{else}}there{{end}},\n\n"+
			"Thanks for submitting \"{{.Task.Title}}\". You will be notified when people volunteer.\n",
		func(payload any) (string, string, uint64, error) {
			p, ok := payload.(TaskThanksPayload)
			if !ok {
				return "", "", 0, fmt.Errorf("unexpected payload %T", payload)
			}
			return p.Owner.Username, "task", p.Task.ID, nil
		})

	s.register(ActionVolunteerCreate,
		"Someone volunteered for your opportunity",
		"Hi {{if .Owner.Name}}{{.Owner.Name}}{{else}}there{{end}},\n\n"+
			"{{if .Volunteer.Name}}{{.Volunteer.Name}}{{else}}{{.Volunteer.Username}}{{end}} volunteered for \"{{.Task.Title}}\".\n",
		func(payload any) (string, string, uint64, error) {
			p, ok := payload.(VolunteerPayload)
			if !ok {
				return "", "", 0, fmt.Errorf("unexpected payload %T", payload)
			}
			return p.Owner.Username, "task", p.Task.ID, nil
		})

	return s
}

func (s *NotificationService) register(action, subject, body string, resolve func(any) (string, string, uint64, error)) {
	s.registry[action] = notificationEntry{
		subject: template.Must(template.New(action + ".subject").Parse(subject)),
		body:    template.Must(template.New(action + ".body").Parse(body)),
		resolve: resolve,
	}
}

// Dispatch renders and records the notification for an action key.
// Fire-and-forget: there is no error return, and a panic in rendering is
// contained here.
func (s *NotificationService) Dispatch(action string, payload any) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("notification dispatch panicked",
				slog.String("action", action),
				slog.Any("panic", r),
			)
		}
	}()

	entry, ok := s.registry[action]
	if !ok {
		s.logger.Error("notification action not registered", slog.String("action", action))
		return
	}

	recipient, modelType, modelID, err := entry.resolve(payload)
	if err != nil || recipient == "" {
		s.logger.Error("notification recipient could not be resolved",
			slog.String("action", action),
			slog.Any("error", err),
		)
		return
	}

	subject, err := renderTemplate(entry.subject, payload)
	if err != nil {
		s.logger.Error("notification subject rendering failed",
			slog.String("action", action),
			slog.Any("error", err),
		)
		return
	}

	body, err := renderTemplate(entry.body, payload)
	if err != nil {
		s.logger.Error("notification body rendering failed",
			slog.String("action", action),
			slog.Any("error", err),
		)
		return
	}

	n := &models.Notification{
		Action:    action,
		ModelType: modelType,
		ModelID:   modelID,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	}
	if err := s.repo.Create(n); err != nil {
		s.logger.Error("notification record could not be stored",
			slog.String("action", action),
			slog.Any("error", err),
		)
		return
	}

	if s.mailer == nil {
		return
	}
	if err := s.mailer.Send(recipient, subject, body); err != nil {
		s.logger.Error("notification delivery failed",
			slog.String("action", action),
			slog.String("recipient", recipient),
			slog.Any("error", err),
		)
	}
}

// History returns the notifications sent to a recipient, newest first.
// Unlike Dispatch this is a plain read and reports its errors.
func (s *NotificationService) History(recipient string) ([]models.Notification, error) {
	notifications, err := s.repo.ListByRecipient(recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func renderTemplate(t *template.Template, payload any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, payload); err != nil {
		return "", err
	}
	return buf.String(), nil
}
