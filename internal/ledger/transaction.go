package ledger

import (
	"context"
	"time"

	"github.com/coincraft/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionInput is the user editable state of a transaction.
// Amounts are in minor units.
type TransactionInput struct {
	Kind                 models.TransactionKind
	Amount               int64
	CategoryID           *uuid.UUID
	SourceAccountID      uuid.UUID
	DestinationAccountID *uuid.UUID
	Date                 time.Time
	Note                 string
	AllocationID         *uuid.UUID
}

func (in TransactionInput) model() models.Transaction {
	return models.Transaction{
		Kind:                 in.Kind,
		Amount:               in.Amount,
		CategoryID:           in.CategoryID,
		SourceAccountID:      in.SourceAccountID,
		DestinationAccountID: in.DestinationAccountID,
		Date:                 in.Date,
		Note:                 in.Note,
	}
}

func inputOf(t models.Transaction) TransactionInput {
	return TransactionInput{
		Kind:                 t.Kind,
		Amount:               t.Amount,
		CategoryID:           t.CategoryID,
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		Date:                 t.Date,
		Note:                 t.Note,
		AllocationID:         t.AllocationID(),
	}
}

// merge returns in with the fields named in fields replaced by the ones from update.
func (in TransactionInput) merge(update TransactionInput, fields []string) TransactionInput {
	for _, field := range fields {
		switch field {
		case "Kind":
			in.Kind = update.Kind
		case "Amount":
			in.Amount = update.Amount
		case "CategoryID":
			in.CategoryID = update.CategoryID
		case "SourceAccountID":
			in.SourceAccountID = update.SourceAccountID
		case "DestinationAccountID":
			in.DestinationAccountID = update.DestinationAccountID
		case "Date":
			in.Date = update.Date
		case "Note":
			in.Note = update.Note
		case "AllocationID":
			in.AllocationID = update.AllocationID
		}
	}

	return in
}

func linked(id *uuid.UUID) bool {
	return id != nil && *id != uuid.Nil
}

// CreateTransaction creates a transaction. If it references an allocation,
// a ledger row for the full amount is written and the amount is added to
// the allocation.
func CreateTransaction(ctx context.Context, owner string, in TransactionInput) (models.Transaction, error) {
	transaction := in.model()
	transaction.OwnerID = owner

	err := transaction.Validate()
	if err != nil {
		return models.Transaction{}, err
	}

	err = models.Atomic(ctx, func(tx *gorm.DB) error {
		err := checkReferences(tx, owner, transaction)
		if err != nil {
			return err
		}

		var allocation models.Allocation
		if linked(in.AllocationID) {
			allocation, err = lock(tx, owner, *in.AllocationID)
			if err != nil {
				return err
			}

			if !allocation.IsActive {
				return models.ErrAllocationNotActive
			}
		}

		err = tx.Omit(clause.Associations).Create(&transaction).Error
		if err != nil {
			return err
		}

		if !linked(in.AllocationID) {
			return nil
		}

		link, err := post(tx, models.AllocationLink{
			AllocationID:  allocation.ID,
			TransactionID: &transaction.ID,
			Source:        models.LinkSourceTransaction,
			Amount:        transaction.Amount,
		})
		transaction.Link = &link
		return err
	})
	committed("create_transaction", err)

	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// UpdateTransaction updates the fields of the transaction named in fields,
// all fields if none are named, and applies the exact delta to the
// allocations involved.
func UpdateTransaction(ctx context.Context, owner string, id uuid.UUID, update TransactionInput, fields ...string) (models.Transaction, error) {
	if len(fields) == 0 {
		fields = []string{"Kind", "Amount", "CategoryID", "SourceAccountID", "DestinationAccountID", "Date", "Note", "AllocationID"}
	}

	var transaction models.Transaction
	err := models.Atomic(ctx, func(tx *gorm.DB) error {
		original, link, err := lockTransaction(tx, owner, id)
		if err != nil {
			return err
		}

		in := inputOf(original).merge(update, fields)
		transaction = in.model()
		transaction.DefaultModel = original.DefaultModel
		transaction.OwnerID = owner

		err = transaction.Validate()
		if err != nil {
			return err
		}

		if slices.Contains(fields, "CategoryID") || slices.Contains(fields, "SourceAccountID") || slices.Contains(fields, "DestinationAccountID") || slices.Contains(fields, "Kind") {
			err = checkReferences(tx, owner, transaction)
			if err != nil {
				return err
			}
		}

		link, err = relink(tx, owner, transaction, link, in.AllocationID)
		if err != nil {
			return err
		}
		transaction.Link = link

		return tx.Omit(clause.Associations).Save(&transaction).Error
	})
	committed("update_transaction", err)

	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// relink moves the ledger row of a transaction so that it matches the
// allocation reference and amount of the updated transaction.
func relink(tx *gorm.DB, owner string, transaction models.Transaction, link *models.AllocationLink, allocationID *uuid.UUID) (*models.AllocationLink, error) {
	switch {
	// No allocation before or after
	case link == nil && !linked(allocationID):
		return nil, nil

	// Reference removed: subtract what was contributed originally
	case link != nil && !linked(allocationID):
		_, err := lock(tx, owner, link.AllocationID)
		if err != nil {
			return nil, err
		}

		return nil, reverse(tx, *link)

	// Reference unchanged: apply the difference only
	case link != nil && link.AllocationID == *allocationID:
		allocation, err := lock(tx, owner, link.AllocationID)
		if err != nil {
			return nil, err
		}

		delta := transaction.Amount - link.Amount
		if delta == 0 {
			return link, nil
		}

		if delta > 0 && !allocation.IsActive {
			return nil, models.ErrAllocationNotActive
		}

		err = tx.Model(link).UpdateColumn("amount", transaction.Amount).Error
		if err != nil {
			return nil, err
		}
		link.Amount = transaction.Amount

		return link, adjust(tx, allocation.ID, delta)
	}

	// Reference added or changed
	var target models.Allocation
	var err error
	if link != nil {
		_, target, err = lockPair(tx, owner, link.AllocationID, *allocationID)
	} else {
		target, err = lock(tx, owner, *allocationID)
	}
	if err != nil {
		return nil, err
	}

	if !target.IsActive {
		return nil, models.ErrAllocationNotActive
	}

	if link != nil {
		err = reverse(tx, *link)
		if err != nil {
			return nil, err
		}
	}

	created, err := post(tx, models.AllocationLink{
		AllocationID:  target.ID,
		TransactionID: &transaction.ID,
		Source:        models.LinkSourceTransaction,
		Amount:        transaction.Amount,
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// DeleteTransaction deletes a transaction and reverses its contribution.
func DeleteTransaction(ctx context.Context, owner string, id uuid.UUID) error {
	err := models.Atomic(ctx, func(tx *gorm.DB) error {
		transaction, link, err := lockTransaction(tx, owner, id)
		if err != nil {
			return err
		}

		if link != nil {
			_, err = lock(tx, owner, link.AllocationID)
			if err != nil {
				return err
			}

			err = reverse(tx, *link)
			if err != nil {
				return err
			}
		}

		return tx.Delete(&transaction).Error
	})
	committed("delete_transaction", err)

	return err
}

// GetTransaction returns a transaction of owner with its ledger row.
func GetTransaction(ctx context.Context, owner string, id uuid.UUID) (models.Transaction, error) {
	var transaction models.Transaction
	err := models.FirstOwned(models.DB.WithContext(ctx).Preload("Link"), owner, &transaction, id)
	return transaction, err
}

func lockTransaction(tx *gorm.DB, owner string, id uuid.UUID) (models.Transaction, *models.AllocationLink, error) {
	var transaction models.Transaction
	err := models.FirstOwned(tx.Clauses(forUpdate), owner, &transaction, id)
	if err != nil {
		return models.Transaction{}, nil, err
	}

	var links []models.AllocationLink
	err = tx.Where("transaction_id = ?", id).Limit(1).Find(&links).Error
	if err != nil {
		return models.Transaction{}, nil, err
	}

	if len(links) == 0 {
		return transaction, nil, nil
	}

	// The link is kept on the transaction so that updates without an
	// allocation field keep the current reference
	transaction.Link = &links[0]
	return transaction, transaction.Link, nil
}

// checkReferences verifies that the accounts and the category of a
// transaction exist and belong to owner.
func checkReferences(tx *gorm.DB, owner string, transaction models.Transaction) error {
	err := models.FirstOwned(tx, owner, &models.Account{}, transaction.SourceAccountID)
	if err != nil {
		return err
	}

	if linked(transaction.DestinationAccountID) {
		err = models.FirstOwned(tx, owner, &models.Account{}, *transaction.DestinationAccountID)
		if err != nil {
			return err
		}
	}

	if !linked(transaction.CategoryID) {
		return nil
	}

	var category models.Category
	err = models.FirstOwned(tx, owner, &category, *transaction.CategoryID)
	if err != nil {
		return err
	}

	if transaction.Kind != models.TransactionKindTransfer && string(category.Kind) != string(transaction.Kind) {
		return models.ErrTransactionCategoryKind
	}

	return nil
}
