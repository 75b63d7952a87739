// Package ledger implements all mutations of allocations and the
// transactions contributing to them.
//
// Every operation runs in a single database transaction. Allocation rows
// are locked before they are read and current amounts are only changed
// with atomic increments, each accompanied by exactly one AllocationLink
// carrying the same amount.
package ledger

import (
	"sort"
	"time"

	"github.com/coincraft/backend/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mutations counts successful ledger mutations by operation.
var Mutations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_mutations_total",
		Help: "How many ledger mutations were committed, partitioned by operation.",
	},
	[]string{"operation"},
)

func committed(operation string, err error) {
	if err == nil {
		Mutations.WithLabelValues(operation).Inc()
	}
}

// forUpdate locks the selected rows until the end of the transaction.
// SQLite ignores the clause and serialises writers instead.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// lock loads and locks the allocation with the given ID.
func lock(tx *gorm.DB, owner string, id uuid.UUID) (models.Allocation, error) {
	var allocation models.Allocation
	err := models.FirstOwned(tx.Clauses(forUpdate), owner, &allocation, id)
	return allocation, err
}

// lockPair locks two allocations in a stable order so that concurrent
// operations on the same pair cannot deadlock.
func lockPair(tx *gorm.DB, owner string, a, b uuid.UUID) (models.Allocation, models.Allocation, error) {
	ids := []uuid.UUID{a, b}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	locked := make(map[uuid.UUID]models.Allocation, 2)
	for _, id := range ids {
		allocation, err := lock(tx, owner, id)
		if err != nil {
			return models.Allocation{}, models.Allocation{}, err
		}
		locked[id] = allocation
	}

	return locked[a], locked[b], nil
}

// post writes a ledger row and applies its amount to the allocation.
func post(tx *gorm.DB, link models.AllocationLink) (models.AllocationLink, error) {
	err := tx.Omit(clause.Associations).Create(&link).Error
	if err != nil {
		return models.AllocationLink{}, err
	}

	return link, adjust(tx, link.AllocationID, link.Amount)
}

// adjust changes the current amount of an allocation by delta.
func adjust(tx *gorm.DB, id uuid.UUID, delta int64) error {
	if delta == 0 {
		return nil
	}

	log.Debug().Str("allocation", id.String()).Int64("delta", delta).Msg("ledger")

	return tx.Model(&models.Allocation{}).Where("id = ?", id).UpdateColumns(map[string]any{
		"current_amount": gorm.Expr("current_amount + ?", delta),
		"updated_at":     time.Now().In(time.UTC),
	}).Error
}

// reverse deletes a ledger row and removes its amount from the allocation.
func reverse(tx *gorm.DB, link models.AllocationLink) error {
	err := tx.Delete(&link).Error
	if err != nil {
		return err
	}

	return adjust(tx, link.AllocationID, -link.Amount)
}

// reload reads the allocation again after it has been changed in tx.
func reload(tx *gorm.DB, id uuid.UUID) (models.Allocation, error) {
	var allocation models.Allocation
	err := tx.First(&allocation, "id = ?", id).Error
	return allocation, err
}
