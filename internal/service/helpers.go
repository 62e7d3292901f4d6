package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/handypro/internal/domain"
	"github.com/spec-kit/handypro/internal/events"
	"github.com/spec-kit/handypro/internal/repository"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

func requireModerator(actor *domain.Actor) error {
	if !actor.CanModerate() {
		return apperrors.NewForbidden("admin or editor role required")
	}
	return nil
}

func requireAdmin(actor *domain.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// storeError converts a repository error, naming the missing resource on ErrNotFound.
func storeError(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.MapError(err)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
	}
}

// recordModeration appends an audit entry. Failures are logged and never undo the transition.
func recordModeration(ctx context.Context, log repository.ModerationLogRepository, logger *zap.Logger, entry domain.ModerationEntry, actor *domain.Actor) {
	if log == nil {
		return
	}
	if actor != nil {
		id := actor.ID
		entry.ActorType = actor.Type
		entry.ActorID = &id
	}
	if err := log.Create(ctx, &entry); err != nil {
		logger.Warn("record moderation entry",
			zap.String("entity_type", string(entry.EntityType)),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err))
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// normalizeTags trims, drops blanks and removes duplicates while keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
