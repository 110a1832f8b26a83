package repository

import (
	"context"

	"github.com/oksasatya/etherescape/internal/domain/entity"
)

// EventRepository persists scheduled events.
//
// MarkVerifiedAndAward must flip verified=false -> true and add points to the
// owner in one transaction. It returns awarded=false, with no changes, when the
// event was already verified, so exactly one concurrent caller ever awards.
type EventRepository interface {
	Create(ctx context.Context, e *entity.ScheduledEvent) error
	GetByID(ctx context.Context, id string) (*entity.ScheduledEvent, error)
	ListByUser(ctx context.Context, userID string, verified bool) ([]entity.ScheduledEvent, error)
	MarkVerifiedAndAward(ctx context.Context, eventID, userID string, points int) (awarded bool, balance int, err error)
}
