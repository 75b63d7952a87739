package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LinkSource is what caused a change to the current amount of an allocation.
type LinkSource string

const (
	LinkSourceTransaction  LinkSource = "transaction"
	LinkSourceContribution LinkSource = "contribution"
	LinkSourceRollover     LinkSource = "rollover"
)

// AllocationLink is a row in the allocation ledger.
//
// Links with source transaction belong to exactly one Transaction and are
// deleted together with it.
type AllocationLink struct {
	DefaultModel
	AllocationID  uuid.UUID  `gorm:"index"`
	Allocation    Allocation `json:"-"`
	TransactionID *uuid.UUID `gorm:"uniqueIndex"`
	Source        LinkSource
	Amount        int64 // Minor units, signed
	Note          string
}

func (AllocationLink) Self() string {
	return "allocation link"
}

func (l *AllocationLink) BeforeSave(_ *gorm.DB) error {
	l.Note = strings.TrimSpace(l.Note)
	return nil
}
