package ports

import (
	"context"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishUrgentJob(ctx context.Context, job *domain.UrgentJob) error
	PublishMatch(ctx context.Context, m *domain.UrgentMatch) error
	PublishKYCDecision(ctx context.Context, rec *domain.KYCRecord) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeUrgentJobs(ctx context.Context, handler func(ctx context.Context, job *domain.UrgentJob) error) error
	SubscribeMatches(ctx context.Context, handler func(ctx context.Context, m *domain.UrgentMatch) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// NotificationService sends notifications (push, SMS, etc.).
type NotificationService interface {
	SendPush(ctx context.Context, userID, title, body string) error
}

// LocationProvider resolves the caller's current position. Implementations
// wrap a platform capability (device fix, IP geolocation). Resolve must
// honor ctx cancellation and return domain.ErrLocationUnavailable (possibly
// wrapped) when no fix can be obtained.
type LocationProvider interface {
	Resolve(ctx context.Context) (*domain.GeoPoint, error)
}
