package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/johnnycuong/mps-recruitment/models"
)

// CountApplicationsInStage counts applications whose stage timestamp falls
// inside [from, to].
func (r *GORMRepository) CountApplicationsInStage(ctx context.Context, stage Stage, from, to time.Time) (int64, error) {
	if !stage.valid() {
		return 0, fmt.Errorf("unknown stage %q", stage)
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where(string(stage)+" BETWEEN ? AND ?", from, to).
		Count(&count).Error; err != nil {
		slog.Error("Failed to count applications in stage", "error", err, "stage", stage)
		return 0, translate(err, "application", "")
	}
	return count, nil
}

// ListHireRecords returns every application with hired_at inside [from, to],
// whatever its current status.
func (r *GORMRepository) ListHireRecords(ctx context.Context, from, to time.Time) ([]HireRecord, error) {
	var records []HireRecord
	if err := r.db.WithContext(ctx).
		Table("applications AS a").
		Select("a.id AS application_id, a.applied_at, a.hired_at, j.job_type, j.job_level, c.id AS client_id, c.company_name AS client_name").
		Joins("JOIN job_positions j ON j.id = a.job_position_id").
		Joins("JOIN clients c ON c.id = j.client_id").
		Where("a.hired_at BETWEEN ? AND ?", from, to).
		Scan(&records).Error; err != nil {
		slog.Error("Failed to list hire records", "error", err)
		return nil, translate(err, "application", "")
	}
	return records, nil
}

// CountCandidatesBySource groups candidates created inside [from, to] by
// source and status.
func (r *GORMRepository) CountCandidatesBySource(ctx context.Context, from, to time.Time) ([]SourceStatusCount, error) {
	var counts []SourceStatusCount
	if err := r.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Select("source, status, COUNT(*) AS count").
		Where("created_at BETWEEN ? AND ?", from, to).
		Group("source, status").
		Scan(&counts).Error; err != nil {
		slog.Error("Failed to count candidates by source", "error", err)
		return nil, translate(err, "candidate", "")
	}
	return counts, nil
}

// DashboardCounts computes the summary counters relative to now.
func (r *GORMRepository) DashboardCounts(ctx context.Context, now time.Time) (*DashboardCounts, error) {
	var c DashboardCounts
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -7)

	counts := []countQuery{
		{"active candidates", &c.ActiveCandidates, &models.Candidate{}, "status NOT IN ?",
			[]interface{}{[]models.CandidateStatus{models.CandidateStatusRejected, models.CandidateStatusBlacklisted}}},
		{"open jobs", &c.OpenJobs, &models.JobPosition{}, "status = ?", []interface{}{models.JobStatusOpen}},
		{"clients", &c.TotalClients, &models.Client{}, "", nil},
		{"applications", &c.TotalApplications, &models.Application{}, "", nil},
		{"pending applications", &c.PendingApplications, &models.Application{}, "status NOT IN ?",
			[]interface{}{[]models.ApplicationStatus{models.ApplicationStatusHired, models.ApplicationStatusRejected, models.ApplicationStatusWithdrawn}}},
		{"hired applications", &c.HiredApplications, &models.Application{}, "status = ?", []interface{}{models.ApplicationStatusHired}},
		{"upcoming interviews", &c.UpcomingInterviews, &models.Interview{}, "status = ? AND scheduled_at > ?",
			[]interface{}{models.InterviewStatusScheduled, now}},
		{"new candidates today", &c.NewCandidatesToday, &models.Candidate{}, "created_at >= ?", []interface{}{today}},
		{"new candidates this week", &c.NewCandidatesWeek, &models.Candidate{}, "created_at >= ?", []interface{}{weekAgo}},
		{"new applications this week", &c.NewApplicationsWeek, &models.Application{}, "created_at >= ?", []interface{}{weekAgo}},
	}
	if err := r.runCounts(ctx, counts); err != nil {
		return nil, err
	}

	var avg *float64
	if err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("AVG(EXTRACT(EPOCH FROM (hired_at - applied_at)) / 86400)").
		Where("hired_at IS NOT NULL").
		Scan(&avg).Error; err != nil {
		slog.Error("Failed to average time to hire", "error", err)
		return nil, fmt.Errorf("failed to average time to hire: %w", translate(err, "application", ""))
	}
	if avg != nil {
		c.AvgTimeToHireDays = *avg
	}
	return &c, nil
}

// ReportTotals counts the rows created inside [from, to].
func (r *GORMRepository) ReportTotals(ctx context.Context, from, to time.Time) (*ReportTotals, error) {
	var t ReportTotals
	counts := []countQuery{
		{"candidates", &t.Candidates, &models.Candidate{}, "created_at BETWEEN ? AND ?", []interface{}{from, to}},
		{"applications", &t.Applications, &models.Application{}, "created_at BETWEEN ? AND ?", []interface{}{from, to}},
		{"interviews", &t.Interviews, &models.Interview{}, "created_at BETWEEN ? AND ?", []interface{}{from, to}},
		{"hires", &t.Hires, &models.Application{}, "hired_at BETWEEN ? AND ?", []interface{}{from, to}},
	}
	if err := r.runCounts(ctx, counts); err != nil {
		return nil, err
	}
	return &t, nil
}

type countQuery struct {
	name  string
	dest  *int64
	model interface{}
	where string
	args  []interface{}
}

func (r *GORMRepository) runCounts(ctx context.Context, counts []countQuery) error {
	for _, q := range counts {
		query := r.db.WithContext(ctx).Model(q.model)
		if q.where != "" {
			query = query.Where(q.where, q.args...)
		}
		if err := query.Count(q.dest).Error; err != nil {
			slog.Error("Failed to count "+q.name, "error", err)
			return fmt.Errorf("failed to count %s: %w", q.name, translate(err, q.name, ""))
		}
	}
	return nil
}
