package ledger

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/coincraft/backend/internal/models"
	"github.com/google/uuid"
)

// DefaultLimit is the number of transactions in a page if no limit is given.
const DefaultLimit = 50

// MaxLimit is the maximum number of transactions in a page.
const MaxLimit = 500

// TransactionFilter restricts the transactions that are listed.
type TransactionFilter struct {
	Kind         models.TransactionKind
	CategoryID   *uuid.UUID
	AccountID    *uuid.UUID // Source or destination account
	AllocationID *uuid.UUID
	FromDate     time.Time // Inclusive, ignored if zero
	UntilDate    time.Time // Inclusive, ignored if zero
}

// Cursor is a position in the list of transactions, which is ordered
// by date and ID, both descending.
type Cursor struct {
	Date time.Time
	ID   uuid.UUID
}

// Encode returns the opaque representation of the cursor.
func (c Cursor) Encode() string {
	raw := c.Date.UTC().Format(time.RFC3339Nano) + "|" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor returned by Encode.
func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, models.ErrCursorInvalid
	}

	date, id, found := strings.Cut(string(raw), "|")
	if !found {
		return Cursor{}, models.ErrCursorInvalid
	}

	t, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return Cursor{}, models.ErrCursorInvalid
	}

	u, err := uuid.Parse(id)
	if err != nil {
		return Cursor{}, models.ErrCursorInvalid
	}

	return Cursor{Date: t.UTC(), ID: u}, nil
}

// Page is one page of transactions. Next is empty on the last page.
type Page struct {
	Transactions []models.Transaction
	Next         string
}

// ListTransactions returns up to limit transactions of owner after the
// position of cursor, newest first. An empty cursor starts at the newest
// transaction.
func ListTransactions(ctx context.Context, owner string, filter TransactionFilter, cursor string, limit int) (Page, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	q := models.DB.WithContext(ctx).
		Preload("Link").
		Where("transactions.owner_id = ?", owner)

	if filter.Kind != "" {
		if !filter.Kind.Valid() {
			return Page{}, models.ErrTransactionKindInvalid
		}
		q = q.Where("transactions.kind = ?", filter.Kind)
	}

	if linked(filter.CategoryID) {
		q = q.Where("transactions.category_id = ?", *filter.CategoryID)
	}

	if linked(filter.AccountID) {
		q = q.Where("transactions.source_account_id = ? OR transactions.destination_account_id = ?", *filter.AccountID, *filter.AccountID)
	}

	if linked(filter.AllocationID) {
		q = q.Where("EXISTS (SELECT 1 FROM allocation_links WHERE allocation_links.transaction_id = transactions.id AND allocation_links.allocation_id = ?)", *filter.AllocationID)
	}

	if !filter.FromDate.IsZero() {
		q = q.Where("transactions.date >= ?", filter.FromDate.UTC())
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("transactions.date < ?", filter.UntilDate.UTC().AddDate(0, 0, 1))
	}

	if cursor != "" {
		c, err := DecodeCursor(cursor)
		if err != nil {
			return Page{}, err
		}

		q = q.Where("transactions.date < ? OR (transactions.date = ? AND transactions.id < ?)", c.Date, c.Date, c.ID)
	}

	// Fetch one more to know if there is a next page
	var transactions []models.Transaction
	err := q.Order("transactions.date DESC, transactions.id DESC").Limit(limit + 1).Find(&transactions).Error
	if err != nil {
		return Page{}, err
	}

	page := Page{Transactions: transactions}
	if len(transactions) > limit {
		page.Transactions = transactions[:limit]
		last := page.Transactions[limit-1]
		page.Next = Cursor{Date: last.Date, ID: last.ID}.Encode()
	}

	return page, nil
}
