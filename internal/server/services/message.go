package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/authz"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
)

// MessageService handles sending, reading, and mark-read for directed
// messages. Every guarded operation re-derives participant identities
// from the stored row before asking the authz guard; request-supplied
// fields are never trusted for a decision.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager) *MessageService {
	return &MessageService{db: db, repomanager: m}
}

// Send creates a message from the authenticated caller to toUsername.
// The recipient lookup and the insert run in one transaction so the
// attached summary always matches the referenced row. An unknown
// recipient yields ErrorNotFound. Sending to oneself is allowed.
func (s *MessageService) Send(ctx context.Context, fromUsername, toUsername, body string) (*models.Message, error) {
	if toUsername == "" || body == "" {
		return nil, common.ErrorInvalidInput
	}

	var message *models.Message
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		recipient, err := s.repomanager.Users(tx).GetProfile(ctx, toUsername)
		if err != nil {
			return err
		}

		m, err := s.repomanager.Messages(tx).Create(ctx, fromUsername, toUsername, body)
		if err != nil {
			return err
		}

		summary := recipient.Summary()
		m.ToUser = &summary
		message = m
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error sending message: %w", err)
	}

	return message, nil
}

// Get returns a message with both participant summaries, if the caller
// is the sender or the recipient.
func (s *MessageService) Get(ctx context.Context, id int64, caller string) (*models.Message, error) {
	repo := s.repomanager.Messages(s.db)
	message, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error reading message: %w", err)
	}

	if err := authz.CanViewMessage(caller, message); err != nil {
		return nil, err
	}

	return message, nil
}

// MarkRead stamps read_at, provided the caller is the recipient of the
// stored row. Fetch, guard, and update share a transaction, so the
// decision is made against the row that gets written. Repeated calls
// by the recipient succeed; read_at stays set.
func (s *MessageService) MarkRead(ctx context.Context, id int64, caller string) (*models.Message, error) {
	var message *models.Message
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Messages(tx)

		m, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := authz.CanMarkRead(caller, m); err != nil {
			return err
		}

		message, err = repo.MarkRead(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("error marking message read: %w", err)
	}

	return message, nil
}

// ListFrom returns the messages sent by owner, recipient summary per
// row. Only the owner may list; no messages is an empty slice.
func (s *MessageService) ListFrom(ctx context.Context, owner, caller string) ([]*models.Message, error) {
	if err := authz.CanListMessages(caller, owner); err != nil {
		return nil, err
	}

	repo := s.repomanager.Messages(s.db)
	result, err := repo.ListFrom(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing sent messages: %w", err)
	}
	return result, nil
}

// ListTo returns the messages received by owner, sender summary per
// row. Only the owner may list.
func (s *MessageService) ListTo(ctx context.Context, owner, caller string) ([]*models.Message, error) {
	if err := authz.CanListMessages(caller, owner); err != nil {
		return nil, err
	}

	repo := s.repomanager.Messages(s.db)
	result, err := repo.ListTo(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing received messages: %w", err)
	}
	return result, nil
}
