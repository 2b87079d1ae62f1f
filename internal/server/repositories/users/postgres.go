// Package users implements the credential store over PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user row. The hash must already be computed by
// the caller; a username collision maps to common.ErrorDuplicate.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, password_hash, first_name, last_name, phone)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING join_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Phone).Scan(&user.JoinAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetByUsername returns the user including the password hash. Callers
// outside the services layer should use GetProfile instead.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT username, password_hash, first_name, last_name, phone FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Phone)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// UpdateLastLogin stamps last_login_at with the database clock and
// returns the new value.
func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, username string) (time.Time, error) {
	query :=
		`UPDATE users SET last_login_at = now()
		 WHERE username = $1
		 RETURNING last_login_at
		 `

	var ts time.Time
	err := r.db.QueryRowContext(ctx, query, username).Scan(&ts)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, common.ErrorNotFound
		}
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}

	return ts, nil
}

// List returns the public summary of every user, in store order.
func (r *PostgresRepository) List(ctx context.Context) ([]models.UserSummary, error) {
	query :=
		`SELECT username, first_name, last_name, phone FROM users
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.UserSummary{}
	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.Username, &s.FirstName, &s.LastName, &s.Phone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// GetProfile returns the full profile without the password hash.
func (r *PostgresRepository) GetProfile(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT username, first_name, last_name, phone, join_at, last_login_at FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	var lastLogin sql.NullTime
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username, &user.FirstName, &user.LastName, &user.Phone, &user.JoinAt, &lastLogin)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}

	return user, nil
}
