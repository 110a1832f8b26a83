package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/etherescape/internal/domain/entity"
	"github.com/oksasatya/etherescape/internal/domain/repository"
)

const eventColumns = `id, user_id, activity, description, location, latitude, longitude, geohash,
	time_availability, scheduled_date, verified, verified_at, created_at, updated_at`

// EventRepository provides Postgres-backed persistence for scheduled events.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, e *entity.ScheduledEvent) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO scheduled_events (user_id, activity, description, location, latitude, longitude, geohash, time_availability, scheduled_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, verified, created_at, updated_at
	`, e.UserID, e.Activity, e.Description, e.Location, e.Latitude, e.Longitude, e.Geohash, e.TimeAvailability, e.ScheduledDate)

	return row.Scan(&e.ID, &e.Verified, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*entity.ScheduledEvent, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM scheduled_events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return e, err
}

// ListByUser returns the user's events with the given verified flag, soonest first.
func (r *EventRepository) ListByUser(ctx context.Context, userID string, verified bool) ([]entity.ScheduledEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM scheduled_events
		WHERE user_id = $1 AND verified = $2
		ORDER BY scheduled_date, created_at
	`, userID, verified)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.ScheduledEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// MarkVerifiedAndAward flips the verified flag and credits the owner inside
// one transaction. The conditional UPDATE takes the row lock, so a concurrent
// caller blocks, re-evaluates verified = FALSE after commit and affects no rows.
func (r *EventRepository) MarkVerifiedAndAward(ctx context.Context, eventID, userID string, points int) (bool, int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE scheduled_events
		SET verified = TRUE, verified_at = now(), updated_at = now()
		WHERE id = $1 AND user_id = $2 AND verified = FALSE
	`, eventID, userID)
	if err != nil {
		return false, 0, err
	}

	var balance int
	if tag.RowsAffected() == 0 {
		if err := tx.QueryRow(ctx, `SELECT points FROM users WHERE id = $1`, userID).Scan(&balance); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return false, 0, repository.ErrNotFound
			}
			return false, 0, err
		}
		return false, balance, nil
	}

	err = tx.QueryRow(ctx, `
		UPDATE users SET points = points + $2, updated_at = now()
		WHERE id = $1
		RETURNING points
	`, userID, points).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, repository.ErrNotFound
		}
		return false, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, err
	}
	return true, balance, nil
}

func scanEvent(row pgx.Row) (*entity.ScheduledEvent, error) {
	e := &entity.ScheduledEvent{}
	if err := row.Scan(&e.ID, &e.UserID, &e.Activity, &e.Description, &e.Location, &e.Latitude, &e.Longitude,
		&e.Geohash, &e.TimeAvailability, &e.ScheduledDate, &e.Verified, &e.VerifiedAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

var _ repository.EventRepository = (*EventRepository)(nil)
