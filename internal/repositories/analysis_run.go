package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/declic-pro/internal/models"
)

var ErrRunNotFound = errors.New("analysis run not found")

type AnalysisRunRepository interface {
	Create(ctx context.Context, run *models.AnalysisRun) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error)
	ListRecent(ctx context.Context, limit int) ([]models.AnalysisRun, error)
	CountByStatusSince(ctx context.Context, since time.Time) (map[models.RunStatus]int64, error)
}

type analysisRunRepository struct {
	db *gorm.DB
}

func NewAnalysisRunRepository(db *gorm.DB) AnalysisRunRepository {
	if db == nil {
		return noopAnalysisRunRepository{}
	}
	return &analysisRunRepository{db: db}
}

func (r *analysisRunRepository) Create(ctx context.Context, run *models.AnalysisRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create analysis run: %w", err)
	}
	return nil
}

func (r *analysisRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to find analysis run: %w", err)
	}
	return &run, nil
}

func (r *analysisRunRepository) ListRecent(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	var runs []models.AnalysisRun
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}

	return runs, nil
}

func (r *analysisRunRepository) CountByStatusSince(ctx context.Context, since time.Time) (map[models.RunStatus]int64, error) {
	var rows []struct {
		Status models.RunStatus
		Count  int64
	}

	err := r.db.WithContext(ctx).
		Model(&models.AnalysisRun{}).
		Select("status, count(*) as count").
		Where("created_at >= ?", since).
		Group("status").
		Scan(&rows).Error

	if err != nil {
		return nil, fmt.Errorf("failed to count analysis runs: %w", err)
	}

	counts := make(map[models.RunStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// noopAnalysisRunRepository is used when the audit database is disabled.
type noopAnalysisRunRepository struct{}

func (noopAnalysisRunRepository) Create(ctx context.Context, run *models.AnalysisRun) error {
	return nil
}

func (noopAnalysisRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error) {
	return nil, ErrRunNotFound
}

func (noopAnalysisRunRepository) ListRecent(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	return nil, nil
}

func (noopAnalysisRunRepository) CountByStatusSince(ctx context.Context, since time.Time) (map[models.RunStatus]int64, error) {
	return map[models.RunStatus]int64{}, nil
}
