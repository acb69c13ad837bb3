package unitofwork

import (
	"context"
	"errors"

	"virtual-attendant-be/internal/repository/contract"
	"virtual-attendant-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	ErrTxActive   = errors.New("transaction already started")
	ErrTxInactive = errors.New("no active transaction")
)

// UnitOfWork hands out repositories bound to one transaction between Begin
// and Commit/Rollback, and to the plain connection otherwise.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	IntentionRepository() contract.IntentionRepository
	ConversationTurnRepository() contract.ConversationTurnRepository
}

type unitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxActive
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return ErrTxInactive
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return ErrTxInactive
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *unitOfWork) IntentionRepository() contract.IntentionRepository {
	return implementation.NewIntentionRepository(u.conn())
}

func (u *unitOfWork) ConversationTurnRepository() contract.ConversationTurnRepository {
	return implementation.NewConversationTurnRepository(u.conn())
}
