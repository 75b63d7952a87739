package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the ledger wraps exactly one of them.
var (
	ErrGeneral            = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound   = errors.New("there is no")
	ErrUnauthorized       = errors.New("the request is not authenticated")
	ErrForbidden          = errors.New("you do not have access to this")
	ErrInvalidInput       = errors.New("the input is invalid")
	ErrAllocationInactive = errors.New("the allocation is not active")
)

// kindError is a user facing error of a specific kind.
type kindError struct {
	kind error
	msg  string
}

func (e kindError) Error() string {
	return e.msg
}

func (e kindError) Unwrap() error {
	return e.kind
}

func invalid(msg string) error {
	return kindError{kind: ErrInvalidInput, msg: msg}
}

func inactive(msg string) error {
	return kindError{kind: ErrAllocationInactive, msg: msg}
}

// Forbidden returns the error for a resource of another owner.
func Forbidden(resource string) error {
	return fmt.Errorf("%w %s", ErrForbidden, resource)
}

// Invalid returns an ErrInvalidInput error with a custom message.
func Invalid(format string, args ...any) error {
	return invalid(fmt.Sprintf(format, args...))
}

var (
	ErrNameEmpty                     = invalid("the name must not be empty")
	ErrAccountNameNotUnique          = invalid("the account name must be unique")
	ErrCategoryNameNotUnique         = invalid("the category name must be unique")
	ErrCategoryKindInvalid           = invalid("the category kind must be one of expense, income")
	ErrSourceDoesNotEqualDestination = invalid("source and destination accounts for a transaction must be different")
	ErrResourceInUse                 = invalid("the resource is still referenced by transactions and cannot be deleted")
)

// Allocation errors
var (
	ErrAllocationKindInvalid      = invalid("the allocation kind must be one of envelope, goal")
	ErrAllocationKindImmutable    = invalid("the kind of an allocation cannot be changed")
	ErrTargetAmountNotPositive    = invalid("the target amount must be greater than zero")
	ErrPeriodOnGoal               = invalid("only envelopes can have a period or rollover")
	ErrDeadlineOnEnvelope         = invalid("only goals can have a deadline")
	ErrContributionOnEnvelope     = invalid("direct contributions can only be made to goals")
	ErrTransferNotEnvelope        = invalid("transfers are only possible between envelopes")
	ErrTransferSameAllocation     = invalid("source and target of a transfer must be different")
	ErrTransferExceedsTarget      = invalid("the transfer amount exceeds the target amount of the source envelope")
	ErrAllocationStatusInvalid    = invalid("the allocation status must be one of active, paused, abandoned, completed")
	ErrAllocationNotPaused        = inactive("only paused allocations can be resumed")
	ErrAllocationStatusTerminal   = inactive("abandoned and completed allocations cannot be changed")
	ErrAllocationNotActive        = inactive("the allocation is paused, abandoned or completed")
	ErrSuggestionPatternEmpty     = invalid("suggestion patterns must not be empty")
	ErrSuggestionCategoryNotOwned = invalid("suggestion categories must exist and belong to you")
)

// Transaction errors
var (
	ErrAmountNotPositive           = invalid("the amount must be greater than zero")
	ErrTransactionKindInvalid      = invalid("the transaction kind must be one of expense, income, transfer")
	ErrTransactionCategoryRequired = invalid("expense and income transactions need a category")
	ErrTransactionCategoryKind     = invalid("the category kind does not match the transaction kind")
	ErrDestinationRequired         = invalid("transfers need a destination account")
	ErrDestinationForbidden        = invalid("only transfers can have a destination account")
	ErrDateInvalid                 = invalid("the date is invalid")
	ErrCursorInvalid               = invalid("the cursor is invalid")
)
