package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/johnnycuong/mps-recruitment/models"
)

// CreateActivity appends one audit record. There is no update or delete.
func (r *GORMRepository) CreateActivity(ctx context.Context, activity *models.Activity) error {
	if err := r.db.WithContext(ctx).Omit("User", "Candidate", "Application", "JobPosition").Create(activity).Error; err != nil {
		slog.Error("Failed to save activity", "error", err, "activity_type", activity.ActivityType)
		return translate(err, "activity", activity.ID)
	}
	slog.Info("Activity recorded", "activity_id", activity.ID, "activity_type", activity.ActivityType)
	return nil
}

// ListActivities returns the matching records newest first.
func (r *GORMRepository) ListActivities(ctx context.Context, filter ActivityFilter, page Page) ([]models.Activity, int64, error) {
	query := r.db.Model(&models.Activity{})
	if filter.Type != nil {
		query = query.Where("activity_type = ?", *filter.Type)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.CandidateID != "" {
		query = query.Where("candidate_id = ?", filter.CandidateID)
	}
	if filter.ApplicationID != "" {
		query = query.Where("application_id = ?", filter.ApplicationID)
	}
	if filter.JobPositionID != "" {
		query = query.Where("job_position_id = ?", filter.JobPositionID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	return paginate[models.Activity](ctx, query, "activities", page, "created_at DESC", "User")
}

// ActivityStatistics aggregates the records created since the given time.
func (r *GORMRepository) ActivityStatistics(ctx context.Context, since time.Time, topUsers int) (*ActivityStats, error) {
	stats := &ActivityStats{}

	// Counts per activity type
	if err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("activity_type, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("activity_type").
		Order("count DESC").
		Scan(&stats.ByType).Error; err != nil {
		slog.Error("Failed to count activities by type", "error", err)
		return nil, fmt.Errorf("failed to count activities by type: %w", translate(err, "activity", ""))
	}

	// Most active users
	if err := r.db.WithContext(ctx).
		Table("activities AS a").
		Select("a.user_id, u.full_name, COUNT(a.id) AS count").
		Joins("JOIN users u ON u.id = a.user_id").
		Where("a.created_at >= ?", since).
		Group("a.user_id, u.full_name").
		Order("count DESC, u.full_name ASC").
		Limit(topUsers).
		Scan(&stats.TopUsers).Error; err != nil {
		slog.Error("Failed to count activities by user", "error", err)
		return nil, fmt.Errorf("failed to count activities by user: %w", translate(err, "activity", ""))
	}

	// Daily trend, oldest first
	if err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') AS date, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("date").
		Order("date ASC").
		Scan(&stats.Daily).Error; err != nil {
		slog.Error("Failed to count activities by day", "error", err)
		return nil, fmt.Errorf("failed to count activities by day: %w", translate(err, "activity", ""))
	}

	return stats, nil
}
