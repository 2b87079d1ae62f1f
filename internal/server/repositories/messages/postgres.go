// Package messages implements the message store over PostgreSQL.
package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgForeignKeyViolation = "23503"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a message row; sent_at comes from the database clock
// and read_at starts NULL. A broken user reference maps to
// common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, fromUsername, toUsername, body string) (*models.Message, error) {

	query :=
		`INSERT INTO messages (from_username, to_username, body)
		 VALUES ($1, $2, $3)
		 RETURNING id, sent_at
		 `

	m := &models.Message{FromUsername: fromUsername, ToUsername: toUsername, Body: body}
	err := r.db.QueryRowContext(ctx, query, fromUsername, toUsername, body).Scan(&m.ID, &m.SentAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

// GetByID returns a message with both participants' profile summaries
// joined in.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query :=
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        f.username, f.first_name, f.last_name, f.phone,
		        t.username, t.first_name, t.last_name, t.phone
		 FROM messages AS m
		   JOIN users AS f ON m.from_username = f.username
		   JOIN users AS t ON m.to_username = t.username
		 WHERE m.id = $1
		 `

	m := &models.Message{FromUser: &models.UserSummary{}, ToUser: &models.UserSummary{}}
	var readAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Body, &m.SentAt, &readAt,
		&m.FromUser.Username, &m.FromUser.FirstName, &m.FromUser.LastName, &m.FromUser.Phone,
		&m.ToUser.Username, &m.ToUser.FirstName, &m.ToUser.LastName, &m.ToUser.Phone)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if readAt.Valid {
		m.ReadAt = &readAt.Time
	}
	m.FromUsername = m.FromUser.Username
	m.ToUsername = m.ToUser.Username

	return m, nil
}

// MarkRead stamps read_at with the database clock. Calling it again
// just refreshes the timestamp; it never reverts to NULL.
func (r *PostgresRepository) MarkRead(ctx context.Context, id int64) (*models.Message, error) {
	query :=
		`UPDATE messages SET read_at = now()
		 WHERE id = $1
		 RETURNING id, from_username, to_username, body, sent_at, read_at
		 `

	m := &models.Message{}
	var readAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt, &readAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if readAt.Valid {
		m.ReadAt = &readAt.Time
	}

	return m, nil
}

// ListFrom returns every message sent by username, each row with its
// own recipient summary. No messages is an empty slice, not an error.
func (r *PostgresRepository) ListFrom(ctx context.Context, username string) ([]*models.Message, error) {
	query :=
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        t.username, t.first_name, t.last_name, t.phone
		 FROM messages AS m
		   JOIN users AS t ON m.to_username = t.username
		 WHERE m.from_username = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Message{}
	for rows.Next() {
		m := &models.Message{FromUsername: username, ToUser: &models.UserSummary{}}
		var readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.Body, &m.SentAt, &readAt,
			&m.ToUser.Username, &m.ToUser.FirstName, &m.ToUser.LastName, &m.ToUser.Phone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if readAt.Valid {
			m.ReadAt = &readAt.Time
		}
		m.ToUsername = m.ToUser.Username
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// ListTo returns every message received by username, each row with its
// own sender summary.
func (r *PostgresRepository) ListTo(ctx context.Context, username string) ([]*models.Message, error) {
	query :=
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        f.username, f.first_name, f.last_name, f.phone
		 FROM messages AS m
		   JOIN users AS f ON m.from_username = f.username
		 WHERE m.to_username = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Message{}
	for rows.Next() {
		m := &models.Message{ToUsername: username, FromUser: &models.UserSummary{}}
		var readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.Body, &m.SentAt, &readAt,
			&m.FromUser.Username, &m.FromUser.FirstName, &m.FromUser.LastName, &m.FromUser.Phone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if readAt.Valid {
			m.ReadAt = &readAt.Time
		}
		m.FromUsername = m.FromUser.Username
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
