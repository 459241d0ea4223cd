package repository

import (
	"context"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnnycuong/mps-recruitment/errs"
	"github.com/johnnycuong/mps-recruitment/models"
)

type GORMRepository struct {
	db *gorm.DB
}

var _ Store = (*GORMRepository)(nil)

func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(models.All()...)
}

// Transaction runs fn inside one database transaction. Nested calls use
// savepoints.
func (r *GORMRepository) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GORMRepository{db: tx})
	})
}

func (r *GORMRepository) create(ctx context.Context, entity, id string, value interface{}) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(value).Error; err != nil {
		slog.Error("Failed to create "+entity, "error", err, "id", id)
		return translate(err, entity, id)
	}
	slog.Info(entity+" created", "id", id)
	return nil
}

// save writes every column of value except associations and the omitted
// columns.
func (r *GORMRepository) save(ctx context.Context, entity, id string, value interface{}, omit ...string) error {
	if err := r.db.WithContext(ctx).Omit(append([]string{clause.Associations}, omit...)...).Save(value).Error; err != nil {
		slog.Error("Failed to update "+entity, "error", err, "id", id)
		return translate(err, entity, id)
	}
	return nil
}

func (r *GORMRepository) delete(ctx context.Context, entity, id string, model interface{}) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		slog.Error("Failed to delete "+entity, "error", result.Error, "id", id)
		return translate(result.Error, entity, id)
	}
	if result.RowsAffected == 0 {
		return errs.NotFound(entity, id)
	}
	slog.Info(entity+" deleted", "id", id)
	return nil
}

func first[T any](ctx context.Context, db *gorm.DB, entity, key string, query string, args ...interface{}) (*T, error) {
	var value T
	if err := db.WithContext(ctx).Where(query, args...).First(&value).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			slog.Error("Failed to get "+entity, "error", err, "key", key)
		}
		return nil, translate(err, entity, key)
	}
	return &value, nil
}

var partnerCounterColumns = []string{
	"candidates_provided_count",
	"successful_placements_count",
	"success_rate",
}

func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func paginate[T any](ctx context.Context, query *gorm.DB, entity string, page Page, order string, preloads ...string) ([]T, int64, error) {
	var total int64
	if err := query.WithContext(ctx).Count(&total).Error; err != nil {
		slog.Error("Failed to count "+entity, "error", err)
		return nil, 0, translate(err, entity, "")
	}
	find := query.WithContext(ctx)
	for _, p := range preloads {
		find = find.Preload(p)
	}
	var items []T
	if err := find.
		Order(order).
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&items).Error; err != nil {
		slog.Error("Failed to list "+entity, "error", err)
		return nil, 0, translate(err, entity, "")
	}
	return items, total, nil
}

func like(search string) string {
	return "%" + search + "%"
}

// User operations
func (r *GORMRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.create(ctx, "user", user.ID, user)
}

func (r *GORMRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return first[models.User](ctx, r.db, "user", id, "id = ?", id)
}

func (r *GORMRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](ctx, r.db, "user", email, "email = ?", email)
}

func (r *GORMRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](ctx, r.db, "user", username, "username = ?", username)
}

// Client operations
func (r *GORMRepository) CreateClient(ctx context.Context, client *models.Client) error {
	return r.create(ctx, "client", client.ID, client)
}

func (r *GORMRepository) GetClient(ctx context.Context, id string) (*models.Client, error) {
	return first[models.Client](ctx, r.db, "client", id, "id = ?", id)
}

func (r *GORMRepository) UpdateClient(ctx context.Context, client *models.Client) error {
	return r.save(ctx, "client", client.ID, client)
}

func (r *GORMRepository) DeleteClient(ctx context.Context, id string) error {
	return r.delete(ctx, "client", id, &models.Client{})
}

func (r *GORMRepository) ListClients(ctx context.Context, filter ClientFilter, page Page) ([]models.Client, int64, error) {
	query := r.db.Model(&models.Client{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("company_name ILIKE ? OR industry ILIKE ?", like(filter.Search), like(filter.Search))
	}
	return paginate[models.Client](ctx, query, "clients", page, "created_at DESC")
}

// Partner operations
func (r *GORMRepository) CreatePartner(ctx context.Context, partner *models.Partner) error {
	return r.create(ctx, "partner", partner.ID, partner)
}

func (r *GORMRepository) GetPartner(ctx context.Context, id string) (*models.Partner, error) {
	return first[models.Partner](ctx, r.db, "partner", id, "id = ?", id)
}

func (r *GORMRepository) GetPartnerForUpdate(ctx context.Context, id string) (*models.Partner, error) {
	return first[models.Partner](ctx, forUpdate(r.db), "partner", id, "id = ?", id)
}

// UpdatePartner saves the profile fields. The referral counters belong to
// UpdatePartnerCounters.
func (r *GORMRepository) UpdatePartner(ctx context.Context, partner *models.Partner) error {
	return r.save(ctx, "partner", partner.ID, partner, partnerCounterColumns...)
}

func (r *GORMRepository) DeletePartner(ctx context.Context, id string) error {
	return r.delete(ctx, "partner", id, &models.Partner{})
}

func (r *GORMRepository) ListPartners(ctx context.Context, filter PartnerFilter, page Page) ([]models.Partner, int64, error) {
	query := r.db.Model(&models.Partner{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PartnerType != nil {
		query = query.Where("partner_type = ?", *filter.PartnerType)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", like(filter.Search))
	}
	return paginate[models.Partner](ctx, query, "partners", page, "created_at DESC")
}

// CountPartnerCandidates counts the candidates referred by a partner and how
// many of them are hired.
func (r *GORMRepository) CountPartnerCandidates(ctx context.Context, partnerID string) (int64, int64, error) {
	var provided, placed int64
	base := r.db.WithContext(ctx).Model(&models.Candidate{}).Where("partner_id = ?", partnerID)
	if err := base.Session(&gorm.Session{}).Count(&provided).Error; err != nil {
		slog.Error("Failed to count partner candidates", "error", err, "partner_id", partnerID)
		return 0, 0, translate(err, "partner", partnerID)
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", models.CandidateStatusHired).
		Count(&placed).Error; err != nil {
		slog.Error("Failed to count partner placements", "error", err, "partner_id", partnerID)
		return 0, 0, translate(err, "partner", partnerID)
	}
	return provided, placed, nil
}

func (r *GORMRepository) UpdatePartnerCounters(ctx context.Context, partnerID string, provided, placed int, successRate float64) error {
	result := r.db.WithContext(ctx).Model(&models.Partner{}).
		Where("id = ?", partnerID).
		UpdateColumns(map[string]interface{}{
			"candidates_provided_count":   provided,
			"successful_placements_count": placed,
			"success_rate":                successRate,
		})
	if result.Error != nil {
		slog.Error("Failed to update partner counters", "error", result.Error, "partner_id", partnerID)
		return translate(result.Error, "partner", partnerID)
	}
	return nil
}

// Candidate operations
func (r *GORMRepository) CreateCandidate(ctx context.Context, candidate *models.Candidate) error {
	return r.create(ctx, "candidate", candidate.ID, candidate)
}

func (r *GORMRepository) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	return first[models.Candidate](ctx, r.db, "candidate", id, "id = ?", id)
}

func (r *GORMRepository) GetCandidateForUpdate(ctx context.Context, id string) (*models.Candidate, error) {
	return first[models.Candidate](ctx, forUpdate(r.db), "candidate", id, "id = ?", id)
}

func (r *GORMRepository) UpdateCandidate(ctx context.Context, candidate *models.Candidate) error {
	return r.save(ctx, "candidate", candidate.ID, candidate)
}

func (r *GORMRepository) DeleteCandidate(ctx context.Context, id string) error {
	return r.delete(ctx, "candidate", id, &models.Candidate{})
}

func (r *GORMRepository) ListCandidates(ctx context.Context, filter CandidateFilter, page Page) ([]models.Candidate, int64, error) {
	query := r.db.Model(&models.Candidate{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.PartnerID != "" {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.Search != "" {
		query = query.Where("full_name ILIKE ? OR email ILIKE ? OR skills ILIKE ?",
			like(filter.Search), like(filter.Search), like(filter.Search))
	}
	return paginate[models.Candidate](ctx, query, "candidates", page, "created_at DESC")
}

// Job position operations
func (r *GORMRepository) CreateJobPosition(ctx context.Context, job *models.JobPosition) error {
	return r.create(ctx, "job position", job.ID, job)
}

func (r *GORMRepository) GetJobPosition(ctx context.Context, id string) (*models.JobPosition, error) {
	var job models.JobPosition
	if err := r.db.WithContext(ctx).Preload("Client").Where("id = ?", id).First(&job).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			slog.Error("Failed to get job position", "error", err, "job_position_id", id)
		}
		return nil, translate(err, "job position", id)
	}
	return &job, nil
}

func (r *GORMRepository) GetJobPositionForUpdate(ctx context.Context, id string) (*models.JobPosition, error) {
	return first[models.JobPosition](ctx, forUpdate(r.db), "job position", id, "id = ?", id)
}

// UpdateJobPosition saves every field except applications_count, which only
// AdjustApplicationsCount writes.
func (r *GORMRepository) UpdateJobPosition(ctx context.Context, job *models.JobPosition) error {
	return r.save(ctx, "job position", job.ID, job, "applications_count")
}

func (r *GORMRepository) DeleteJobPosition(ctx context.Context, id string) error {
	return r.delete(ctx, "job position", id, &models.JobPosition{})
}

func (r *GORMRepository) ListJobPositions(ctx context.Context, filter JobFilter, page Page) ([]models.JobPosition, int64, error) {
	query := r.db.Model(&models.JobPosition{})
	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("title ILIKE ? OR location ILIKE ?", like(filter.Search), like(filter.Search))
	}
	return paginate[models.JobPosition](ctx, query, "job positions", page, "priority DESC, created_at DESC")
}

// AdjustApplicationsCount applies delta to the denormalized counter in SQL.
// Decrements never take the counter below zero.
func (r *GORMRepository) AdjustApplicationsCount(ctx context.Context, jobID string, delta int) error {
	query := r.db.WithContext(ctx).Model(&models.JobPosition{}).Where("id = ?", jobID)
	if delta < 0 {
		query = query.Where("applications_count >= ?", -delta)
	}
	result := query.UpdateColumn("applications_count", gorm.Expr("applications_count + ?", delta))
	if result.Error != nil {
		slog.Error("Failed to adjust applications count", "error", result.Error, "job_position_id", jobID, "delta", delta)
		return translate(result.Error, "job position", jobID)
	}
	return nil
}

// Application operations
func (r *GORMRepository) CreateApplication(ctx context.Context, app *models.Application) error {
	return r.create(ctx, "application", app.ID, app)
}

func (r *GORMRepository) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("JobPosition").
		Preload("JobPosition.Client").
		Where("id = ?", id).
		First(&app).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			slog.Error("Failed to get application", "error", err, "application_id", id)
		}
		return nil, translate(err, "application", id)
	}
	return &app, nil
}

// GetApplicationForUpdate reads the application row under FOR UPDATE so the
// stage timestamp checks that follow see the committed state.
func (r *GORMRepository) GetApplicationForUpdate(ctx context.Context, id string) (*models.Application, error) {
	return first[models.Application](ctx, forUpdate(r.db), "application", id, "id = ?", id)
}

// FindApplication returns the application for a candidate and job, or nil.
func (r *GORMRepository) FindApplication(ctx context.Context, candidateID, jobID string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND job_position_id = ?", candidateID, jobID).
		First(&app).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		slog.Error("Failed to find application", "error", err, "candidate_id", candidateID, "job_position_id", jobID)
		return nil, translate(err, "application", "")
	}
	return &app, nil
}

func (r *GORMRepository) UpdateApplication(ctx context.Context, app *models.Application) error {
	return r.save(ctx, "application", app.ID, app)
}

func (r *GORMRepository) DeleteApplication(ctx context.Context, id string) error {
	return r.delete(ctx, "application", id, &models.Application{})
}

func (r *GORMRepository) ListApplications(ctx context.Context, filter ApplicationFilter, page Page) ([]models.Application, int64, error) {
	query := r.db.Model(&models.Application{})
	if filter.CandidateID != "" {
		query = query.Where("candidate_id = ?", filter.CandidateID)
	}
	if filter.JobPositionID != "" {
		query = query.Where("job_position_id = ?", filter.JobPositionID)
	}
	if filter.RecruiterID != "" {
		query = query.Where("recruiter_id = ?", filter.RecruiterID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return paginate[models.Application](ctx, query, "applications", page, "applied_at DESC", "Candidate", "JobPosition")
}

// Interview operations
func (r *GORMRepository) CreateInterview(ctx context.Context, interview *models.Interview) error {
	return r.create(ctx, "interview", interview.ID, interview)
}

func (r *GORMRepository) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	return first[models.Interview](ctx, r.db, "interview", id, "id = ?", id)
}

func (r *GORMRepository) GetInterviewForUpdate(ctx context.Context, id string) (*models.Interview, error) {
	return first[models.Interview](ctx, forUpdate(r.db), "interview", id, "id = ?", id)
}

func (r *GORMRepository) UpdateInterview(ctx context.Context, interview *models.Interview) error {
	return r.save(ctx, "interview", interview.ID, interview)
}

func (r *GORMRepository) DeleteInterview(ctx context.Context, id string) error {
	return r.delete(ctx, "interview", id, &models.Interview{})
}

func (r *GORMRepository) DeleteInterviewsByApplication(ctx context.Context, applicationID string) error {
	if err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&models.Interview{}).Error; err != nil {
		slog.Error("Failed to delete application interviews", "error", err, "application_id", applicationID)
		return translate(err, "interview", "")
	}
	return nil
}

func (r *GORMRepository) ListInterviews(ctx context.Context, filter InterviewFilter, page Page) ([]models.Interview, int64, error) {
	query := r.db.Model(&models.Interview{})
	if filter.ApplicationID != "" {
		query = query.Where("application_id = ?", filter.ApplicationID)
	}
	if filter.CandidateID != "" {
		query = query.Where("candidate_id = ?", filter.CandidateID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("scheduled_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("scheduled_at <= ?", *filter.To)
	}
	return paginate[models.Interview](ctx, query, "interviews", page, "scheduled_at ASC")
}
