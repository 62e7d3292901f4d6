package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/handypro/internal/config"
	"github.com/spec-kit/handypro/internal/domain"
)

// ErrNoRecipient is returned when a notice has nobody to be delivered to.
var ErrNoRecipient = errors.New("notification has no recipient")

// Notifier delivers the three workflow notices. Implementations receive record
// snapshots and must not modify the store.
type Notifier interface {
	NotifyNewRegistration(ctx context.Context, tech domain.Technician) error
	NotifyNewReview(ctx context.Context, review domain.Review, technicianName string) error
	NotifyApproval(ctx context.Context, tech domain.Technician) error
}

// EmailNotifier renders e-mails and writes them to the log in place of an SMTP relay.
type EmailNotifier struct {
	logger     *zap.Logger
	from       string
	adminEmail string
	appName    string
}

// NewEmailNotifier builds the e-mail sink.
func NewEmailNotifier(cfg config.NotificationConfig, appName string, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		logger:     loggerOrNop(logger),
		from:       cfg.EmailFrom,
		adminEmail: cfg.AdminEmail,
		appName:    appName,
	}
}

// NotifyNewRegistration tells the site admin a profile awaits approval.
func (n *EmailNotifier) NotifyNewRegistration(_ context.Context, tech domain.Technician) error {
	contact := tech.PrimaryContact()
	if contact == "" {
		contact = "not provided"
	}
	n.send(n.adminEmail, "New technician registration",
		fmt.Sprintf("%s (%s) registered in %s. Skills: %s. Contact: %s. The profile is waiting for approval.",
			tech.FullName, tech.ID, tech.Commune, strings.Join(tech.Skills, ", "), contact))
	return nil
}

// NotifyNewReview tells the site admin a review awaits moderation.
func (n *EmailNotifier) NotifyNewReview(_ context.Context, review domain.Review, technicianName string) error {
	n.send(n.adminEmail, "New review awaiting moderation",
		fmt.Sprintf("%s (%s) rated %s (%s) %d/5: %q",
			review.AuthorName, review.AuthorPhone, technicianName, review.TechnicianID, review.Rating, review.Comment))
	return nil
}

// NotifyApproval tells the technician the profile is public. Technicians
// without a login e-mail get ErrNoRecipient.
func (n *EmailNotifier) NotifyApproval(_ context.Context, tech domain.Technician) error {
	if tech.LoginEmail == nil || *tech.LoginEmail == "" {
		n.logger.Warn("approval email not sent: technician has no email address",
			zap.String("technician_id", tech.ID),
			zap.String("full_name", tech.FullName))
		return ErrNoRecipient
	}
	n.send(*tech.LoginEmail, "Your profile has been approved",
		fmt.Sprintf("Hello %s, your profile on %s is now publicly visible.", tech.FullName, n.appName))
	return nil
}

func (n *EmailNotifier) send(to, subject, body string) {
	n.logger.Info("email notification",
		zap.String("from", n.from),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
}

// StreamPublisher appends a message to a named stream.
type StreamPublisher interface {
	Publish(ctx context.Context, stream string, values map[string]interface{}) (string, error)
}

// StreamNotifier forwards notices to a Redis stream for out-of-process delivery.
type StreamNotifier struct {
	publisher StreamPublisher
	stream    string
}

// NewStreamNotifier builds the stream sink.
func NewStreamNotifier(publisher StreamPublisher, stream string) *StreamNotifier {
	return &StreamNotifier{publisher: publisher, stream: stream}
}

// NotifyNewRegistration appends a new_registration message to the stream.
func (n *StreamNotifier) NotifyNewRegistration(ctx context.Context, tech domain.Technician) error {
	return n.publish(ctx, "new_registration", map[string]interface{}{
		"technician_id": tech.ID,
		"full_name":     tech.FullName,
		"commune":       tech.Commune,
		"skills":        strings.Join(tech.Skills, ","),
		"contact":       tech.PrimaryContact(),
	})
}

// NotifyNewReview appends a new_review message to the stream.
func (n *StreamNotifier) NotifyNewReview(ctx context.Context, review domain.Review, technicianName string) error {
	return n.publish(ctx, "new_review", map[string]interface{}{
		"review_id":       review.ID,
		"technician_id":   review.TechnicianID,
		"technician_name": technicianName,
		"author_name":     review.AuthorName,
		"rating":          strconv.Itoa(review.Rating),
	})
}

// NotifyApproval appends an approval message to the stream.
func (n *StreamNotifier) NotifyApproval(ctx context.Context, tech domain.Technician) error {
	return n.publish(ctx, "approval", map[string]interface{}{
		"technician_id": tech.ID,
		"full_name":     tech.FullName,
		"login_email":   derefString(tech.LoginEmail),
	})
}

func (n *StreamNotifier) publish(ctx context.Context, kind string, values map[string]interface{}) error {
	values["kind"] = kind
	values["sent_at"] = time.Now().UTC().Format(time.RFC3339)
	_, err := n.publisher.Publish(ctx, n.stream, values)
	return err
}

// MultiNotifier fans a notice out to every sink. All sinks are attempted.
type MultiNotifier []Notifier

// NotifyNewRegistration forwards to every sink and joins their errors.
func (m MultiNotifier) NotifyNewRegistration(ctx context.Context, tech domain.Technician) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.NotifyNewRegistration(ctx, tech))
	}
	return errors.Join(errs...)
}

// NotifyNewReview forwards to every sink and joins their errors.
func (m MultiNotifier) NotifyNewReview(ctx context.Context, review domain.Review, technicianName string) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.NotifyNewReview(ctx, review, technicianName))
	}
	return errors.Join(errs...)
}

// NotifyApproval forwards to every sink and joins their errors.
func (m MultiNotifier) NotifyApproval(ctx context.Context, tech domain.Technician) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.NotifyApproval(ctx, tech))
	}
	return errors.Join(errs...)
}
