package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/etherescape/internal/domain/entity"
	"github.com/oksasatya/etherescape/internal/domain/repository"
)

const userColumns = `id, email, password_hash, first_name, last_name, name, bio, interests, points, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, name, bio, interests)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, points, created_at, updated_at
	`, u.Email, u.Password, u.FirstName, u.LastName, u.Name, u.Bio, u.Interests)

	if err := row.Scan(&u.ID, &u.Points, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// Update writes profile fields. Points are owned by the verification
// transaction and are never written here.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4, name = $5, bio = $6, interests = $7, updated_at = $8
		WHERE id = $9
	`, u.Email, u.Password, u.FirstName, u.LastName, u.Name, u.Bio, u.Interests, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Name, &u.Bio,
		&u.Interests, &u.Points, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// InterestRepository reads the reference list used by signup.
type InterestRepository struct {
	pool *pgxpool.Pool
}

func NewInterestRepository(pool *pgxpool.Pool) *InterestRepository {
	return &InterestRepository{pool: pool}
}

func (r *InterestRepository) List(ctx context.Context) ([]entity.Interest, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM interests ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Interest, 0)
	for rows.Next() {
		var it entity.Interest
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

var (
	_ repository.UserRepository     = (*UserRepository)(nil)
	_ repository.InterestRepository = (*InterestRepository)(nil)
)
