package models

import (
	"strings"

	"gorm.io/gorm"
)

// CategoryKind is the kind of transactions a category groups.
type CategoryKind string

const (
	CategoryKindExpense CategoryKind = "expense"
	CategoryKindIncome  CategoryKind = "income"
)

// Category groups transactions for statistics.
type Category struct {
	DefaultModel
	OwnerID string       `gorm:"uniqueIndex:category_owner_name"`
	Name    string       `gorm:"uniqueIndex:category_owner_name"`
	Kind    CategoryKind `gorm:"index"`
	Icon    string
	Color   string
}

func (Category) Self() string {
	return "category"
}

func (c Category) Owner() string {
	return c.OwnerID
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Icon = strings.TrimSpace(c.Icon)
	c.Color = strings.TrimSpace(c.Color)

	if c.Name == "" {
		return ErrNameEmpty
	}

	if c.Kind != CategoryKindExpense && c.Kind != CategoryKindIncome {
		return ErrCategoryKindInvalid
	}

	return nil
}
