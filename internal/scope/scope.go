package scope

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Composable gorm scopes shared by the presence and attendance repositories.
// Both tables carry worker_id, project_id and occurred_at columns.

func Worker(workerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("worker_id = ?", workerID)
	}
}

func Project(projectID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("project_id = ?", projectID)
	}
}

// OccurredBetween bounds occurred_at to [from, to], both ends inclusive.
// Tolerance-window checks rely on the inclusive upper bound.
func OccurredBetween(from, to time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("occurred_at >= ? AND occurred_at <= ?", from, to)
	}
}
