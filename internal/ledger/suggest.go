package ledger

import (
	"context"
	"strings"

	"github.com/coincraft/backend/internal/models"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// Suggest returns the active allocations of owner that a transaction with
// the given category and note likely belongs to, ordered by name.
//
// An allocation matches if the category is one of its categories or if the
// note matches one of its suggestion patterns. Patterns are globs
// with * as wildcard and matched case-insensitively.
func Suggest(ctx context.Context, owner string, categoryID *uuid.UUID, note string) ([]models.Allocation, error) {
	var allocations []models.Allocation
	err := models.DB.WithContext(ctx).
		Where("owner_id = ? AND is_active = ?", owner, true).
		Order("name ASC, id ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	note = strings.ToLower(strings.TrimSpace(note))
	suggestions := make([]models.Allocation, 0)

	for _, allocation := range allocations {
		if linked(categoryID) && slices.Contains(allocation.CategoryIDs, *categoryID) {
			suggestions = append(suggestions, allocation)
			continue
		}

		if note == "" {
			continue
		}

		for _, pattern := range allocation.SuggestionPatterns {
			if glob.Glob(strings.ToLower(pattern), note) {
				suggestions = append(suggestions, allocation)
				break
			}
		}
	}

	return suggestions, nil
}
