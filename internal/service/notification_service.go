package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/handypro/internal/events"
	"github.com/spec-kit/handypro/internal/observability"
	"github.com/spec-kit/handypro/internal/worker"
)

const (
	notifyKindRegistration = "new_registration"
	notifyKindReview       = "new_review"
	notifyKindApproval     = "approval"

	deliveryTimeout = 10 * time.Second
)

// NotificationService turns workflow events into notifier calls. Delivery runs
// on the worker pool so it never blocks or fails the operation that emitted it.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   Notifier
	pool       *worker.Pool
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Notifier   Notifier
	Pool       *worker.Pool
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewNotificationService creates the service. A nil Pool delivers inline.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		notifier:   deps.Notifier,
		pool:       deps.Pool,
		metrics:    deps.Metrics,
		logger:     loggerOrNop(deps.Logger),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil || n.notifier == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTechnicianRegistered, n.handleTechnicianRegistered)
	n.dispatcher.Subscribe(events.EventReviewSubmitted, n.handleReviewSubmitted)
	n.dispatcher.Subscribe(events.EventTechnicianApproved, n.handleTechnicianApproved)
}

func (n *NotificationService) handleTechnicianRegistered(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TechnicianRegisteredPayload)
	if !ok {
		return unexpectedPayload(event)
	}
	n.enqueue(notifyKindRegistration, event.EntityID, func(ctx context.Context) error {
		return n.notifier.NotifyNewRegistration(ctx, payload.Technician)
	})
	return nil
}

func (n *NotificationService) handleReviewSubmitted(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReviewSubmittedPayload)
	if !ok {
		return unexpectedPayload(event)
	}
	n.enqueue(notifyKindReview, event.EntityID, func(ctx context.Context) error {
		return n.notifier.NotifyNewReview(ctx, payload.Review, payload.TechnicianName)
	})
	return nil
}

func (n *NotificationService) handleTechnicianApproved(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TechnicianApprovedPayload)
	if !ok {
		return unexpectedPayload(event)
	}
	n.enqueue(notifyKindApproval, event.EntityID, func(ctx context.Context) error {
		return n.notifier.NotifyApproval(ctx, payload.Technician)
	})
	return nil
}

// enqueue detaches delivery from the request context; the request may finish first.
func (n *NotificationService) enqueue(kind, entityID string, deliver func(context.Context) error) {
	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()
		n.report(kind, entityID, deliver(ctx))
		if n.pool != nil {
			n.metrics.SetQueueDepth(n.pool.Len())
		}
	}

	if n.pool == nil {
		job()
		return
	}
	if !n.pool.TrySubmit(job) {
		n.metrics.RecordNotification(kind, "dropped")
		n.logger.Warn("notification queue full; dropping notice",
			zap.String("kind", kind),
			zap.String("entity_id", entityID))
		return
	}
	n.metrics.SetQueueDepth(n.pool.Len())
}

func (n *NotificationService) report(kind, entityID string, err error) {
	switch {
	case err == nil:
		n.metrics.RecordNotification(kind, "sent")
	case errors.Is(err, ErrNoRecipient):
		n.metrics.RecordNotification(kind, "skipped")
	default:
		n.metrics.RecordNotification(kind, "failed")
		n.logger.Error("notification delivery failed",
			zap.String("kind", kind),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

func unexpectedPayload(event events.Event) error {
	return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
}
