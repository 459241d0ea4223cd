package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/johnnycuong/mps-recruitment/errs"
	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

const (
	seedRecruiterEmail = "recruiter@example.com"
	seedClientName     = "Saigon Precision Manufacturing"
	seedCandidateEmail = "nguyen.van.an@example.com"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	store    repository.Store
	recorder *ActivityRecorder
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(store repository.Store) *DatabaseSeeder {
	return &DatabaseSeeder{
		store:    store,
		recorder: NewActivityRecorder(time.Now),
	}
}

// SeedDatabase creates a demo recruiter, client, open job position and
// candidate in one transaction. It is a no-op once the demo recruiter exists.
func (s *DatabaseSeeder) SeedDatabase(ctx context.Context) error {
	if s.isSeedingComplete(ctx) {
		slog.Info("Database seeding already completed, skipping")
		return nil
	}
	if err := s.store.Transaction(ctx, func(tx repository.Store) error {
		return s.seed(ctx, tx)
	}); err != nil {
		return err
	}
	slog.Info("Database seeding completed successfully")
	return nil
}

func (s *DatabaseSeeder) seed(ctx context.Context, tx repository.Store) error {
	workflow := NewWorkflowService(tx, s.recorder)
	recruiter, err := s.seedRecruiter(ctx, tx)
	if err != nil {
		return err
	}
	actor := ActorFromUser(recruiter)

	client, err := workflow.CreateClient(ctx, actor, &models.Client{
		CompanyName:        seedClientName,
		Industry:           "Manufacturing",
		ClientType:         models.ClientTypeFDI,
		City:               "Ho Chi Minh City",
		Country:            "Vietnam",
		PrimaryContactName: "Tran Thi Mai",
	})
	if err != nil {
		return fmt.Errorf("failed to seed client: %w", err)
	}

	level := models.JobLevelMidLevel
	if _, err := workflow.CreateJobPosition(ctx, actor, &models.JobPosition{
		ClientID:       client.ID,
		Title:          "Production Line Supervisor",
		Description:    "Supervise a production line of 30 operators.",
		JobType:        models.JobTypeFullTime,
		JobLevel:       &level,
		Location:       "Binh Duong",
		SalaryCurrency: "VND",
		Vacancies:      2,
		Status:         models.JobStatusOpen,
		Priority:       2,
	}); err != nil {
		return fmt.Errorf("failed to seed job position: %w", err)
	}

	source := "referral"
	if _, err := workflow.CreateCandidate(ctx, actor, &models.Candidate{
		FullName: "Nguyen Van An",
		Email:    seedCandidateEmail,
		City:     "Thu Duc",
		Skills:   "Lean manufacturing, team leadership",
		Source:   &source,
	}); err != nil {
		return fmt.Errorf("failed to seed candidate: %w", err)
	}
	return nil
}

func (s *DatabaseSeeder) isSeedingComplete(ctx context.Context) bool {
	_, err := s.store.GetUserByEmail(ctx, seedRecruiterEmail)
	return err == nil
}

func (s *DatabaseSeeder) seedRecruiter(ctx context.Context, tx repository.Store) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     "recruiter",
		Email:        seedRecruiterEmail,
		PasswordHash: string(hashedPassword),
		FullName:     "Demo Recruiter",
		Role:         models.RoleRecruiter,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.CreateUser(ctx, user); err != nil {
		if errs.Is(err, errs.CodeDuplicate) {
			return tx.GetUserByEmail(ctx, seedRecruiterEmail)
		}
		return nil, fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}

	slog.Info("Created user", "email", user.Email)
	return user, nil
}
