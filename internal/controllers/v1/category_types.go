package v1

import (
	"fmt"

	"github.com/coincraft/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type CategoryEditable struct {
	Name  string              `json:"name" example:"Groceries" default:""` // Name of the category
	Kind  models.CategoryKind `json:"kind" example:"expense"`              // Kind of the transactions in the category, expense or income
	Icon  string              `json:"icon" example:"cart" default:""`      // Icon identifier
	Color string              `json:"color" example:"#4caf50" default:""`  // Display color
}

// model returns the database resource for the editable fields
func (editable CategoryEditable) model(owner string) models.Category {
	return models.Category{
		OwnerID: owner,
		Name:    editable.Name,
		Kind:    editable.Kind,
		Icon:    editable.Icon,
		Color:   editable.Color,
	}
}

// apply sets the fields named in fields on category.
func (editable CategoryEditable) apply(category *models.Category, fields []string) {
	for _, field := range fields {
		switch field {
		case "Name":
			category.Name = editable.Name
		case "Kind":
			category.Kind = editable.Kind
		case "Icon":
			category.Icon = editable.Icon
		case "Color":
			category.Color = editable.Color
		}
	}
}

type CategoryLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"`                    // The category itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?category=3b1ea324-d438-4419-882a-2fc91d71772f"` // Transactions in the category
}

type Category struct {
	models.DefaultModel
	CategoryEditable
	Links CategoryLinks `json:"links"`
}

func newCategory(c *gin.Context, model models.Category) Category {
	url := c.GetString(string(models.DBContextURL))

	return Category{
		DefaultModel: model.DefaultModel,
		CategoryEditable: CategoryEditable{
			Name:  model.Name,
			Kind:  model.Kind,
			Icon:  model.Icon,
			Color: model.Color,
		},
		Links: CategoryLinks{
			Self:         fmt.Sprintf("%s/v1/categories/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?category=%s", url, model.ID),
		},
	}
}

type CategoryListResponse struct {
	Data       []Category  `json:"data"`                                                          // List of categories
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type CategoryCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []CategoryResponse `json:"data"`                                                          // List of created categories
}

func (cr *CategoryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	cr.Data = append(cr.Data, CategoryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CategoryResponse struct {
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Category `json:"data"`                                                          // Data for the category
}

type CategoryQueryFilter struct {
	Name   string              `form:"name" filterField:"false"`   // By name
	Kind   models.CategoryKind `form:"kind"`                       // By kind
	Offset uint                `form:"offset" filterField:"false"` // The offset of the first category returned. Defaults to 0.
	Limit  int                 `form:"limit" filterField:"false"`  // Maximum number of categories to return. Defaults to 50.
}

func (f CategoryQueryFilter) model(owner string) models.Category {
	return models.Category{
		OwnerID: owner,
		Kind:    f.Kind,
	}
}
