package repository

import (
	"context"
	"time"

	"github.com/johnnycuong/mps-recruitment/models"
)

// Store is the entity store used by the workflow services. Transaction runs
// fn against a Store bound to a single database transaction; any error
// returned by fn rolls back every write made through that Store.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	CreateClient(ctx context.Context, client *models.Client) error
	GetClient(ctx context.Context, id string) (*models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id string) error
	ListClients(ctx context.Context, filter ClientFilter, page Page) ([]models.Client, int64, error)

	CreatePartner(ctx context.Context, partner *models.Partner) error
	GetPartner(ctx context.Context, id string) (*models.Partner, error)
	GetPartnerForUpdate(ctx context.Context, id string) (*models.Partner, error)
	UpdatePartner(ctx context.Context, partner *models.Partner) error
	DeletePartner(ctx context.Context, id string) error
	ListPartners(ctx context.Context, filter PartnerFilter, page Page) ([]models.Partner, int64, error)
	CountPartnerCandidates(ctx context.Context, partnerID string) (provided, placed int64, err error)
	UpdatePartnerCounters(ctx context.Context, partnerID string, provided, placed int, successRate float64) error

	CreateCandidate(ctx context.Context, candidate *models.Candidate) error
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	GetCandidateForUpdate(ctx context.Context, id string) (*models.Candidate, error)
	UpdateCandidate(ctx context.Context, candidate *models.Candidate) error
	DeleteCandidate(ctx context.Context, id string) error
	ListCandidates(ctx context.Context, filter CandidateFilter, page Page) ([]models.Candidate, int64, error)

	CreateJobPosition(ctx context.Context, job *models.JobPosition) error
	GetJobPosition(ctx context.Context, id string) (*models.JobPosition, error)
	GetJobPositionForUpdate(ctx context.Context, id string) (*models.JobPosition, error)
	UpdateJobPosition(ctx context.Context, job *models.JobPosition) error
	DeleteJobPosition(ctx context.Context, id string) error
	ListJobPositions(ctx context.Context, filter JobFilter, page Page) ([]models.JobPosition, int64, error)
	AdjustApplicationsCount(ctx context.Context, jobID string, delta int) error

	CreateApplication(ctx context.Context, app *models.Application) error
	GetApplication(ctx context.Context, id string) (*models.Application, error)
	GetApplicationForUpdate(ctx context.Context, id string) (*models.Application, error)
	FindApplication(ctx context.Context, candidateID, jobID string) (*models.Application, error)
	UpdateApplication(ctx context.Context, app *models.Application) error
	DeleteApplication(ctx context.Context, id string) error
	ListApplications(ctx context.Context, filter ApplicationFilter, page Page) ([]models.Application, int64, error)

	CreateInterview(ctx context.Context, interview *models.Interview) error
	GetInterview(ctx context.Context, id string) (*models.Interview, error)
	GetInterviewForUpdate(ctx context.Context, id string) (*models.Interview, error)
	UpdateInterview(ctx context.Context, interview *models.Interview) error
	DeleteInterview(ctx context.Context, id string) error
	DeleteInterviewsByApplication(ctx context.Context, applicationID string) error
	ListInterviews(ctx context.Context, filter InterviewFilter, page Page) ([]models.Interview, int64, error)

	CreateActivity(ctx context.Context, activity *models.Activity) error
	ListActivities(ctx context.Context, filter ActivityFilter, page Page) ([]models.Activity, int64, error)
	ActivityStatistics(ctx context.Context, since time.Time, topUsers int) (*ActivityStats, error)

	CountApplicationsInStage(ctx context.Context, stage Stage, from, to time.Time) (int64, error)
	ListHireRecords(ctx context.Context, from, to time.Time) ([]HireRecord, error)
	CountCandidatesBySource(ctx context.Context, from, to time.Time) ([]SourceStatusCount, error)
	DashboardCounts(ctx context.Context, now time.Time) (*DashboardCounts, error)
	ReportTotals(ctx context.Context, from, to time.Time) (*ReportTotals, error)
}

// Page is a 1-based page request. Zero values are replaced by the caller's
// defaults through Normalize.
type Page struct {
	Page    int
	PerPage int
}

// Normalize clamps the page into [1, ...] and PerPage into [1, max].
func (p Page) Normalize(defaultPerPage, maxPerPage int) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

type ClientFilter struct {
	Status *models.OrganizationStatus
	Search string
}

type PartnerFilter struct {
	Status      *models.OrganizationStatus
	PartnerType *models.PartnerType
	Search      string
}

type CandidateFilter struct {
	Status    *models.CandidateStatus
	Source    string
	PartnerID string
	Search    string
}

type JobFilter struct {
	ClientID string
	Status   *models.JobStatus
	Search   string
}

type ApplicationFilter struct {
	CandidateID   string
	JobPositionID string
	RecruiterID   string
	Status        *models.ApplicationStatus
}

type InterviewFilter struct {
	ApplicationID string
	CandidateID   string
	Status        *models.InterviewStatus
	From          *time.Time
	To            *time.Time
}

// ActivityFilter selects audit records; empty fields match everything and
// the time bounds are inclusive.
type ActivityFilter struct {
	Type          *models.ActivityType
	UserID        string
	CandidateID   string
	ApplicationID string
	JobPositionID string
	From          *time.Time
	To            *time.Time
}

type TypeCount struct {
	ActivityType models.ActivityType `json:"activity_type"`
	Count        int64               `json:"count"`
}

type UserCount struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Count    int64  `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

type ActivityStats struct {
	ByType   []TypeCount  `json:"by_type"`
	TopUsers []UserCount  `json:"top_users"`
	Daily    []DailyCount `json:"daily"`
}

// Stage names an application stage timestamp column.
type Stage string

const (
	StageApplied        Stage = "applied_at"
	StageScreened       Stage = "screened_at"
	StageInterviewed    Stage = "interviewed_at"
	StageShortlisted    Stage = "shortlisted_at"
	StageClientReviewed Stage = "client_reviewed_at"
	StageHired          Stage = "hired_at"
)

func (s Stage) valid() bool {
	switch s {
	case StageApplied, StageScreened, StageInterviewed, StageShortlisted, StageClientReviewed, StageHired:
		return true
	}
	return false
}

// HireRecord is one hired application joined with its job and client.
type HireRecord struct {
	ApplicationID string
	AppliedAt     time.Time
	HiredAt       time.Time
	JobType       models.JobType
	JobLevel      *models.JobLevel
	ClientID      string
	ClientName    string
}

// SourceStatusCount is the number of candidates with a given source and
// status. Source is nil for candidates with no recorded source.
type SourceStatusCount struct {
	Source *string
	Status models.CandidateStatus
	Count  int64
}

type DashboardCounts struct {
	ActiveCandidates    int64
	OpenJobs            int64
	TotalClients        int64
	TotalApplications   int64
	PendingApplications int64
	HiredApplications   int64
	UpcomingInterviews  int64
	NewCandidatesToday  int64
	NewCandidatesWeek   int64
	NewApplicationsWeek int64
	// AvgTimeToHireDays averages hired_at - applied_at over every hire.
	AvgTimeToHireDays float64
}

// ReportTotals counts rows created (or hired) inside a report window.
type ReportTotals struct {
	Candidates   int64 `json:"total_candidates"`
	Applications int64 `json:"total_applications"`
	Interviews   int64 `json:"total_interviews"`
	Hires        int64 `json:"total_hires"`
}
