package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/johnnycuong/mps-recruitment/errs"
	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

// fakeStore is an in-memory repository.Store. Transaction snapshots every
// table and restores it when fn fails, which mirrors a database rollback.
type fakeStore struct {
	data *fakeData
	// failOn makes the named method return the given error.
	failOn map[string]error
	// locks lists the job and partner rows read for update, as "table:id".
	locks []string
}

type fakeData struct {
	users      map[string]models.User
	clients    map[string]models.Client
	partners   map[string]models.Partner
	candidates map[string]models.Candidate
	jobs       map[string]models.JobPosition
	apps       map[string]models.Application
	interviews map[string]models.Interview
	activities []models.Activity
}

var _ repository.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: &fakeData{
			users:      map[string]models.User{},
			clients:    map[string]models.Client{},
			partners:   map[string]models.Partner{},
			candidates: map[string]models.Candidate{},
			jobs:       map[string]models.JobPosition{},
			apps:       map[string]models.Application{},
			interviews: map[string]models.Interview{},
		},
		failOn: map[string]error{},
	}
}

func cloneMap[T any](m map[string]T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *fakeData) clone() *fakeData {
	return &fakeData{
		users:      cloneMap(d.users),
		clients:    cloneMap(d.clients),
		partners:   cloneMap(d.partners),
		candidates: cloneMap(d.candidates),
		jobs:       cloneMap(d.jobs),
		apps:       cloneMap(d.apps),
		interviews: cloneMap(d.interviews),
		activities: append([]models.Activity(nil), d.activities...),
	}
}

func (s *fakeStore) fail(method string) error {
	return s.failOn[method]
}

func (s *fakeStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	snapshot := s.data.clone()
	if err := fn(s); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func (s *fakeStore) activitiesOf(t models.ActivityType) []models.Activity {
	var out []models.Activity
	for _, a := range s.data.activities {
		if a.ActivityType == t {
			out = append(out, a)
		}
	}
	return out
}

// Users

func (s *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.fail("CreateUser"); err != nil {
		return err
	}
	for _, u := range s.data.users {
		if u.Email == user.Email || u.Username == user.Username {
			return errs.Duplicate("user already exists")
		}
	}
	s.data.users[user.ID] = *user
	return nil
}

func (s *fakeStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := s.data.users[id]
	if !ok {
		return nil, errs.NotFound("user", id)
	}
	return &u, nil
}

func (s *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errs.NotFound("user", email)
}

func (s *fakeStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range s.data.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, errs.NotFound("user", username)
}

// Clients

func (s *fakeStore) CreateClient(ctx context.Context, client *models.Client) error {
	c := *client
	c.User, c.JobPositions = nil, nil
	s.data.clients[c.ID] = c
	return nil
}

func (s *fakeStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	c, ok := s.data.clients[id]
	if !ok {
		return nil, errs.NotFound("client", id)
	}
	return &c, nil
}

func (s *fakeStore) UpdateClient(ctx context.Context, client *models.Client) error {
	if _, ok := s.data.clients[client.ID]; !ok {
		return errs.NotFound("client", client.ID)
	}
	return s.CreateClient(ctx, client)
}

func (s *fakeStore) DeleteClient(ctx context.Context, id string) error {
	if _, ok := s.data.clients[id]; !ok {
		return errs.NotFound("client", id)
	}
	delete(s.data.clients, id)
	return nil
}

func (s *fakeStore) ListClients(ctx context.Context, filter repository.ClientFilter, page repository.Page) ([]models.Client, int64, error) {
	var out []models.Client
	for _, c := range s.data.clients {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if !contains(filter.Search, c.CompanyName, c.Industry, c.City) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompanyName < out[j].CompanyName })
	return pageOf(out, page)
}

// Partners

func (s *fakeStore) CreatePartner(ctx context.Context, partner *models.Partner) error {
	p := *partner
	p.User = nil
	s.data.partners[p.ID] = p
	return nil
}

func (s *fakeStore) GetPartner(ctx context.Context, id string) (*models.Partner, error) {
	p, ok := s.data.partners[id]
	if !ok {
		return nil, errs.NotFound("partner", id)
	}
	return &p, nil
}

func (s *fakeStore) GetPartnerForUpdate(ctx context.Context, id string) (*models.Partner, error) {
	p, err := s.GetPartner(ctx, id)
	if err != nil {
		return nil, err
	}
	s.locks = append(s.locks, "partners:"+id)
	return p, nil
}

// UpdatePartner leaves the stored referral counters alone, as the gorm
// repository does.
func (s *fakeStore) UpdatePartner(ctx context.Context, partner *models.Partner) error {
	stored, ok := s.data.partners[partner.ID]
	if !ok {
		return errs.NotFound("partner", partner.ID)
	}
	p := *partner
	p.CandidatesProvidedCount = stored.CandidatesProvidedCount
	p.SuccessfulPlacementsCount = stored.SuccessfulPlacementsCount
	p.SuccessRate = stored.SuccessRate
	return s.CreatePartner(ctx, &p)
}

func (s *fakeStore) DeletePartner(ctx context.Context, id string) error {
	if _, ok := s.data.partners[id]; !ok {
		return errs.NotFound("partner", id)
	}
	delete(s.data.partners, id)
	return nil
}

func (s *fakeStore) ListPartners(ctx context.Context, filter repository.PartnerFilter, page repository.Page) ([]models.Partner, int64, error) {
	var out []models.Partner
	for _, p := range s.data.partners {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.PartnerType != nil && p.PartnerType != *filter.PartnerType {
			continue
		}
		if !contains(filter.Search, p.Name, p.City) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return pageOf(out, page)
}

func (s *fakeStore) CountPartnerCandidates(ctx context.Context, partnerID string) (int64, int64, error) {
	var provided, placed int64
	for _, c := range s.data.candidates {
		if c.PartnerID == nil || *c.PartnerID != partnerID {
			continue
		}
		provided++
		if c.Status == models.CandidateStatusHired {
			placed++
		}
	}
	return provided, placed, nil
}

func (s *fakeStore) UpdatePartnerCounters(ctx context.Context, partnerID string, provided, placed int, successRate float64) error {
	p, ok := s.data.partners[partnerID]
	if !ok {
		return errs.NotFound("partner", partnerID)
	}
	p.CandidatesProvidedCount = provided
	p.SuccessfulPlacementsCount = placed
	p.SuccessRate = successRate
	s.data.partners[partnerID] = p
	return nil
}

// Candidates

func (s *fakeStore) CreateCandidate(ctx context.Context, candidate *models.Candidate) error {
	if err := s.fail("CreateCandidate"); err != nil {
		return err
	}
	for _, c := range s.data.candidates {
		if c.Email == candidate.Email && c.ID != candidate.ID {
			return errs.Duplicate("candidate email already exists")
		}
	}
	c := *candidate
	c.Partner, c.Applications = nil, nil
	s.data.candidates[c.ID] = c
	return nil
}

func (s *fakeStore) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	c, ok := s.data.candidates[id]
	if !ok {
		return nil, errs.NotFound("candidate", id)
	}
	return &c, nil
}

func (s *fakeStore) GetCandidateForUpdate(ctx context.Context, id string) (*models.Candidate, error) {
	return s.GetCandidate(ctx, id)
}

func (s *fakeStore) UpdateCandidate(ctx context.Context, candidate *models.Candidate) error {
	if err := s.fail("UpdateCandidate"); err != nil {
		return err
	}
	if _, ok := s.data.candidates[candidate.ID]; !ok {
		return errs.NotFound("candidate", candidate.ID)
	}
	return s.CreateCandidate(ctx, candidate)
}

func (s *fakeStore) DeleteCandidate(ctx context.Context, id string) error {
	if _, ok := s.data.candidates[id]; !ok {
		return errs.NotFound("candidate", id)
	}
	delete(s.data.candidates, id)
	for i := range s.data.activities {
		if a := &s.data.activities[i]; a.CandidateID != nil && *a.CandidateID == id {
			a.CandidateID = nil
		}
	}
	return nil
}

func (s *fakeStore) ListCandidates(ctx context.Context, filter repository.CandidateFilter, page repository.Page) ([]models.Candidate, int64, error) {
	var out []models.Candidate
	for _, c := range s.data.candidates {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.PartnerID != "" && (c.PartnerID == nil || *c.PartnerID != filter.PartnerID) {
			continue
		}
		if filter.Source != "" && (c.Source == nil || *c.Source != filter.Source) {
			continue
		}
		if !contains(filter.Search, c.FullName, c.Email, c.Phone) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return pageOf(out, page)
}

// Job positions

func (s *fakeStore) CreateJobPosition(ctx context.Context, job *models.JobPosition) error {
	j := *job
	j.Client, j.Applications = nil, nil
	s.data.jobs[j.ID] = j
	return nil
}

func (s *fakeStore) GetJobPosition(ctx context.Context, id string) (*models.JobPosition, error) {
	j, ok := s.data.jobs[id]
	if !ok {
		return nil, errs.NotFound("job position", id)
	}
	return &j, nil
}

func (s *fakeStore) GetJobPositionForUpdate(ctx context.Context, id string) (*models.JobPosition, error) {
	j, err := s.GetJobPosition(ctx, id)
	if err != nil {
		return nil, err
	}
	s.locks = append(s.locks, "job_positions:"+id)
	return j, nil
}

// UpdateJobPosition leaves the stored applications_count alone, as the gorm
// repository does.
func (s *fakeStore) UpdateJobPosition(ctx context.Context, job *models.JobPosition) error {
	stored, ok := s.data.jobs[job.ID]
	if !ok {
		return errs.NotFound("job position", job.ID)
	}
	j := *job
	j.ApplicationsCount = stored.ApplicationsCount
	return s.CreateJobPosition(ctx, &j)
}

func (s *fakeStore) DeleteJobPosition(ctx context.Context, id string) error {
	if _, ok := s.data.jobs[id]; !ok {
		return errs.NotFound("job position", id)
	}
	delete(s.data.jobs, id)
	for i := range s.data.activities {
		if a := &s.data.activities[i]; a.JobPositionID != nil && *a.JobPositionID == id {
			a.JobPositionID = nil
		}
	}
	return nil
}

func (s *fakeStore) ListJobPositions(ctx context.Context, filter repository.JobFilter, page repository.Page) ([]models.JobPosition, int64, error) {
	var out []models.JobPosition
	for _, j := range s.data.jobs {
		if filter.ClientID != "" && j.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != nil && j.Status != *filter.Status {
			continue
		}
		if !contains(filter.Search, j.Title, j.Location) {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return pageOf(out, page)
}

func (s *fakeStore) AdjustApplicationsCount(ctx context.Context, jobID string, delta int) error {
	if err := s.fail("AdjustApplicationsCount"); err != nil {
		return err
	}
	j, ok := s.data.jobs[jobID]
	if !ok {
		return errs.NotFound("job position", jobID)
	}
	if j.ApplicationsCount+delta >= 0 {
		j.ApplicationsCount += delta
	}
	s.data.jobs[jobID] = j
	return nil
}

// Applications

func (s *fakeStore) CreateApplication(ctx context.Context, app *models.Application) error {
	if err := s.fail("CreateApplication"); err != nil {
		return err
	}
	for _, a := range s.data.apps {
		if a.CandidateID == app.CandidateID && a.JobPositionID == app.JobPositionID && a.ID != app.ID {
			return errs.Duplicate("application already exists")
		}
	}
	a := *app
	a.Candidate, a.JobPosition, a.Recruiter, a.Interviews = nil, nil, nil, nil
	s.data.apps[a.ID] = a
	return nil
}

func (s *fakeStore) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	a, ok := s.data.apps[id]
	if !ok {
		return nil, errs.NotFound("application", id)
	}
	return &a, nil
}

func (s *fakeStore) GetApplicationForUpdate(ctx context.Context, id string) (*models.Application, error) {
	return s.GetApplication(ctx, id)
}

func (s *fakeStore) FindApplication(ctx context.Context, candidateID, jobID string) (*models.Application, error) {
	for _, a := range s.data.apps {
		if a.CandidateID == candidateID && a.JobPositionID == jobID {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) UpdateApplication(ctx context.Context, app *models.Application) error {
	if err := s.fail("UpdateApplication"); err != nil {
		return err
	}
	if _, ok := s.data.apps[app.ID]; !ok {
		return errs.NotFound("application", app.ID)
	}
	return s.CreateApplication(ctx, app)
}

func (s *fakeStore) DeleteApplication(ctx context.Context, id string) error {
	if _, ok := s.data.apps[id]; !ok {
		return errs.NotFound("application", id)
	}
	delete(s.data.apps, id)
	for i := range s.data.activities {
		if a := &s.data.activities[i]; a.ApplicationID != nil && *a.ApplicationID == id {
			a.ApplicationID = nil
		}
	}
	return nil
}

func (s *fakeStore) ListApplications(ctx context.Context, filter repository.ApplicationFilter, page repository.Page) ([]models.Application, int64, error) {
	var out []models.Application
	for _, a := range s.data.apps {
		if filter.CandidateID != "" && a.CandidateID != filter.CandidateID {
			continue
		}
		if filter.JobPositionID != "" && a.JobPositionID != filter.JobPositionID {
			continue
		}
		if filter.RecruiterID != "" && (a.RecruiterID == nil || *a.RecruiterID != filter.RecruiterID) {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return pageOf(out, page)
}

// Interviews

func (s *fakeStore) CreateInterview(ctx context.Context, interview *models.Interview) error {
	if err := s.fail("CreateInterview"); err != nil {
		return err
	}
	iv := *interview
	iv.Application, iv.Candidate, iv.Interviewer = nil, nil, nil
	s.data.interviews[iv.ID] = iv
	return nil
}

func (s *fakeStore) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	iv, ok := s.data.interviews[id]
	if !ok {
		return nil, errs.NotFound("interview", id)
	}
	return &iv, nil
}

func (s *fakeStore) GetInterviewForUpdate(ctx context.Context, id string) (*models.Interview, error) {
	return s.GetInterview(ctx, id)
}

func (s *fakeStore) UpdateInterview(ctx context.Context, interview *models.Interview) error {
	if _, ok := s.data.interviews[interview.ID]; !ok {
		return errs.NotFound("interview", interview.ID)
	}
	return s.CreateInterview(ctx, interview)
}

func (s *fakeStore) DeleteInterview(ctx context.Context, id string) error {
	if _, ok := s.data.interviews[id]; !ok {
		return errs.NotFound("interview", id)
	}
	delete(s.data.interviews, id)
	return nil
}

func (s *fakeStore) DeleteInterviewsByApplication(ctx context.Context, applicationID string) error {
	for id, iv := range s.data.interviews {
		if iv.ApplicationID == applicationID {
			delete(s.data.interviews, id)
		}
	}
	return nil
}

func (s *fakeStore) ListInterviews(ctx context.Context, filter repository.InterviewFilter, page repository.Page) ([]models.Interview, int64, error) {
	var out []models.Interview
	for _, iv := range s.data.interviews {
		if filter.ApplicationID != "" && iv.ApplicationID != filter.ApplicationID {
			continue
		}
		if filter.CandidateID != "" && iv.CandidateID != filter.CandidateID {
			continue
		}
		if filter.Status != nil && iv.Status != *filter.Status {
			continue
		}
		if !within(iv.ScheduledAt, filter.From, filter.To) {
			continue
		}
		out = append(out, iv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return pageOf(out, page)
}

// Activities

func (s *fakeStore) CreateActivity(ctx context.Context, activity *models.Activity) error {
	if err := s.fail("CreateActivity"); err != nil {
		return err
	}
	a := *activity
	a.User, a.Candidate, a.Application, a.JobPosition = nil, nil, nil, nil
	s.data.activities = append(s.data.activities, a)
	return nil
}

func (s *fakeStore) ListActivities(ctx context.Context, filter repository.ActivityFilter, page repository.Page) ([]models.Activity, int64, error) {
	var out []models.Activity
	for _, a := range s.data.activities {
		if filter.Type != nil && a.ActivityType != *filter.Type {
			continue
		}
		if filter.UserID != "" && (a.UserID == nil || *a.UserID != filter.UserID) {
			continue
		}
		if filter.CandidateID != "" && (a.CandidateID == nil || *a.CandidateID != filter.CandidateID) {
			continue
		}
		if filter.ApplicationID != "" && (a.ApplicationID == nil || *a.ApplicationID != filter.ApplicationID) {
			continue
		}
		if filter.JobPositionID != "" && (a.JobPositionID == nil || *a.JobPositionID != filter.JobPositionID) {
			continue
		}
		if !within(a.CreatedAt, filter.From, filter.To) {
			continue
		}
		out = append(out, a)
	}
	// Newest first; insertion order breaks ties.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return pageOf(out, page)
}

func (s *fakeStore) ActivityStatistics(ctx context.Context, since time.Time, topUsers int) (*repository.ActivityStats, error) {
	byType := map[models.ActivityType]int64{}
	byUser := map[string]int64{}
	byDay := map[string]int64{}
	for _, a := range s.data.activities {
		if a.CreatedAt.Before(since) {
			continue
		}
		byType[a.ActivityType]++
		if a.UserID != nil {
			byUser[*a.UserID]++
		}
		byDay[a.CreatedAt.Format(time.DateOnly)]++
	}

	stats := &repository.ActivityStats{}
	for t, n := range byType {
		stats.ByType = append(stats.ByType, repository.TypeCount{ActivityType: t, Count: n})
	}
	sort.Slice(stats.ByType, func(i, j int) bool { return stats.ByType[i].Count > stats.ByType[j].Count })
	for id, n := range byUser {
		stats.TopUsers = append(stats.TopUsers, repository.UserCount{UserID: id, FullName: s.data.users[id].FullName, Count: n})
	}
	sort.Slice(stats.TopUsers, func(i, j int) bool {
		if stats.TopUsers[i].Count != stats.TopUsers[j].Count {
			return stats.TopUsers[i].Count > stats.TopUsers[j].Count
		}
		return stats.TopUsers[i].FullName < stats.TopUsers[j].FullName
	})
	if len(stats.TopUsers) > topUsers {
		stats.TopUsers = stats.TopUsers[:topUsers]
	}
	for d, n := range byDay {
		stats.Daily = append(stats.Daily, repository.DailyCount{Date: d, Count: n})
	}
	sort.Slice(stats.Daily, func(i, j int) bool { return stats.Daily[i].Date < stats.Daily[j].Date })
	return stats, nil
}

// Metrics

func stageTime(a models.Application, stage repository.Stage) *time.Time {
	switch stage {
	case repository.StageApplied:
		return &a.AppliedAt
	case repository.StageScreened:
		return a.ScreenedAt
	case repository.StageInterviewed:
		return a.InterviewedAt
	case repository.StageShortlisted:
		return a.ShortlistedAt
	case repository.StageClientReviewed:
		return a.ClientReviewedAt
	case repository.StageHired:
		return a.HiredAt
	}
	return nil
}

func (s *fakeStore) CountApplicationsInStage(ctx context.Context, stage repository.Stage, from, to time.Time) (int64, error) {
	if err := s.fail("CountApplicationsInStage"); err != nil {
		return 0, err
	}
	var n int64
	for _, a := range s.data.apps {
		if t := stageTime(a, stage); t != nil && within(*t, &from, &to) {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) ListHireRecords(ctx context.Context, from, to time.Time) ([]repository.HireRecord, error) {
	var out []repository.HireRecord
	for _, a := range s.data.apps {
		if a.HiredAt == nil || !within(*a.HiredAt, &from, &to) {
			continue
		}
		job := s.data.jobs[a.JobPositionID]
		client := s.data.clients[job.ClientID]
		out = append(out, repository.HireRecord{
			ApplicationID: a.ID,
			AppliedAt:     a.AppliedAt,
			HiredAt:       *a.HiredAt,
			JobType:       job.JobType,
			JobLevel:      job.JobLevel,
			ClientID:      client.ID,
			ClientName:    client.CompanyName,
		})
	}
	return out, nil
}

func (s *fakeStore) CountCandidatesBySource(ctx context.Context, from, to time.Time) ([]repository.SourceStatusCount, error) {
	type key struct {
		source string
		isNil  bool
		status models.CandidateStatus
	}
	counts := map[key]int64{}
	for _, c := range s.data.candidates {
		if !within(c.CreatedAt, &from, &to) {
			continue
		}
		k := key{isNil: c.Source == nil, status: c.Status}
		if c.Source != nil {
			k.source = *c.Source
		}
		counts[k]++
	}
	var out []repository.SourceStatusCount
	for k, n := range counts {
		row := repository.SourceStatusCount{Status: k.status, Count: n}
		if !k.isNil {
			src := k.source
			row.Source = &src
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *fakeStore) DashboardCounts(ctx context.Context, now time.Time) (*repository.DashboardCounts, error) {
	c := &repository.DashboardCounts{}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -7)
	for _, cand := range s.data.candidates {
		if cand.Status != models.CandidateStatusRejected && cand.Status != models.CandidateStatusBlacklisted {
			c.ActiveCandidates++
		}
		if !cand.CreatedAt.Before(today) {
			c.NewCandidatesToday++
		}
		if !cand.CreatedAt.Before(weekAgo) {
			c.NewCandidatesWeek++
		}
	}
	for _, j := range s.data.jobs {
		if j.Status == models.JobStatusOpen {
			c.OpenJobs++
		}
	}
	c.TotalClients = int64(len(s.data.clients))
	var hireDays float64
	var hires int
	for _, a := range s.data.apps {
		c.TotalApplications++
		switch a.Status {
		case models.ApplicationStatusHired:
			c.HiredApplications++
		case models.ApplicationStatusRejected, models.ApplicationStatusWithdrawn:
		default:
			c.PendingApplications++
		}
		if a.HiredAt != nil {
			hireDays += a.HiredAt.Sub(a.AppliedAt).Hours() / 24
			hires++
		}
		if !a.CreatedAt.Before(weekAgo) {
			c.NewApplicationsWeek++
		}
	}
	if hires > 0 {
		c.AvgTimeToHireDays = hireDays / float64(hires)
	}
	for _, iv := range s.data.interviews {
		if iv.Status == models.InterviewStatusScheduled && iv.ScheduledAt.After(now) {
			c.UpcomingInterviews++
		}
	}
	return c, nil
}

func (s *fakeStore) ReportTotals(ctx context.Context, from, to time.Time) (*repository.ReportTotals, error) {
	t := &repository.ReportTotals{}
	for _, c := range s.data.candidates {
		if within(c.CreatedAt, &from, &to) {
			t.Candidates++
		}
	}
	for _, a := range s.data.apps {
		if within(a.CreatedAt, &from, &to) {
			t.Applications++
		}
		if a.HiredAt != nil && within(*a.HiredAt, &from, &to) {
			t.Hires++
		}
	}
	for _, iv := range s.data.interviews {
		if within(iv.CreatedAt, &from, &to) {
			t.Interviews++
		}
	}
	return t, nil
}

// helpers

func within(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func contains(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func pageOf[T any](items []T, page repository.Page) ([]T, int64, error) {
	total := int64(len(items))
	page = page.Normalize(20, 100)
	start := page.Offset()
	if start >= len(items) {
		return []T{}, total, nil
	}
	end := start + page.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total, nil
}
