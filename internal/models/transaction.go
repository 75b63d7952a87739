package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionKind is the direction of a transaction.
type TransactionKind string

const (
	TransactionKindExpense  TransactionKind = "expense"
	TransactionKindIncome   TransactionKind = "income"
	TransactionKindTransfer TransactionKind = "transfer"
)

func (k TransactionKind) Valid() bool {
	return k == TransactionKindExpense || k == TransactionKindIncome || k == TransactionKindTransfer
}

// Transaction is a movement of money.
type Transaction struct {
	DefaultModel
	OwnerID              string `gorm:"index"`
	Kind                 TransactionKind
	Amount               int64 // Minor units, always positive
	CategoryID           *uuid.UUID
	Category             Category
	SourceAccountID      uuid.UUID `gorm:"check:source_destination_different,source_account_id != destination_account_id"`
	SourceAccount        Account
	DestinationAccountID *uuid.UUID
	DestinationAccount   Account
	Date                 time.Time `gorm:"index"`
	Note                 string
	Link                 *AllocationLink `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
}

func (Transaction) Self() string {
	return "transaction"
}

func (t Transaction) Owner() string {
	return t.OwnerID
}

// AllocationID returns the ID of the linked allocation, if any.
func (t Transaction) AllocationID() *uuid.UUID {
	if t.Link == nil {
		return nil
	}

	id := t.Link.AllocationID
	return &id
}

func (t *Transaction) AfterFind(tx *gorm.DB) error {
	err := t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return nil
}

// BeforeSave sets the date to UTC, defaulting to now, and
// trims whitespace from the note.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Note = strings.TrimSpace(t.Note)

	if t.CategoryID != nil && *t.CategoryID == uuid.Nil {
		t.CategoryID = nil
	}

	if t.DestinationAccountID != nil && *t.DestinationAccountID == uuid.Nil {
		t.DestinationAccountID = nil
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	return nil
}

// Validate checks the fields that do not need database access.
func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrTransactionKindInvalid
	}

	if t.Amount <= 0 {
		return ErrAmountNotPositive
	}

	hasDestination := t.DestinationAccountID != nil && *t.DestinationAccountID != uuid.Nil
	hasCategory := t.CategoryID != nil && *t.CategoryID != uuid.Nil

	if t.Kind == TransactionKindTransfer {
		if !hasDestination {
			return ErrDestinationRequired
		}

		if *t.DestinationAccountID == t.SourceAccountID {
			return ErrSourceDoesNotEqualDestination
		}
	} else {
		if hasDestination {
			return ErrDestinationForbidden
		}

		if !hasCategory {
			return ErrTransactionCategoryRequired
		}
	}

	return nil
}
