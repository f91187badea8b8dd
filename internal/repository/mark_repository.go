package repository

import (
	"context"
	"time"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"gorm.io/gorm"
)

const markBatchSize = 500

// MarkRepository stores imported mark sheets
type MarkRepository struct {
	db *gorm.DB
}

// NewMarkRepository creates a new mark repository instance
func NewMarkRepository(db *gorm.DB) *MarkRepository {
	return &MarkRepository{db: db}
}

// ReplaceAll swaps the whole marks table for marks in one transaction, so
// readers never observe a half-imported sheet.
func (r *MarkRepository) ReplaceAll(ctx context.Context, marks []domain.Mark) error {
	now := time.Now().UTC()
	for i := range marks {
		marks[i].ID = 0
		marks[i].ImportedAt = now
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Mark{}).Error; err != nil {
			return err
		}
		if len(marks) == 0 {
			return nil
		}
		return tx.CreateInBatches(marks, markBatchSize).Error
	})
}

// ListAll returns all marks in sheet order
func (r *MarkRepository) ListAll(ctx context.Context) ([]domain.Mark, error) {
	var marks []domain.Mark
	err := r.db.WithContext(ctx).Order("line ASC, mark_id ASC").Find(&marks).Error
	return marks, err
}

// Count returns the number of stored marks
func (r *MarkRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Mark{}).Count(&count).Error
	return count, err
}
