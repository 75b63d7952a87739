package models

import (
	"strings"

	"gorm.io/gorm"
)

// Account is a place money is kept in, e.g. a bank account or a wallet.
type Account struct {
	DefaultModel
	OwnerID  string `gorm:"uniqueIndex:account_owner_name"`
	Name     string `gorm:"uniqueIndex:account_owner_name"`
	Note     string
	Archived bool
}

func (Account) Self() string {
	return "account"
}

func (a Account) Owner() string {
	return a.OwnerID
}

func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)

	if a.Name == "" {
		return ErrNameEmpty
	}

	return nil
}
