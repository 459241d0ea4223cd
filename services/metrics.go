package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/johnnycuong/mps-recruitment/errs"
	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

const (
	funnelWindow     = 90 * 24 * time.Hour
	timeToHireWindow = 180 * 24 * time.Hour
	sourceWindow     = 180 * 24 * time.Hour
	exportWindow     = 30 * 24 * time.Hour
	topClients       = 5
	unknownSource    = "Unknown"
	unspecifiedLevel = "Not specified"
)

// MetricsService derives read-only reports from the entity store. Funnel
// counts are independent per stage over the window, not a cohort.
type MetricsService struct {
	store repository.Store
	cache ReportCache
	now   func() time.Time
}

func NewMetricsService(store repository.Store, cache ReportCache, now func() time.Time) *MetricsService {
	if now == nil {
		now = time.Now
	}
	return &MetricsService{store: store, cache: cache, now: now}
}

// DateRange is an inclusive report window.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// window resolves optional bounds: to defaults to now and from to `span`
// before now.
func (s *MetricsService) window(from, to *time.Time, span time.Duration) (DateRange, error) {
	now := s.now().UTC()
	r := DateRange{From: now.Add(-span), To: now}
	if from != nil {
		r.From = from.UTC()
	}
	if to != nil {
		r.To = to.UTC()
	}
	if r.From.After(r.To) {
		return r, errs.Validation("date_from must not be after date_to", map[string]string{"date_from": "after date_to"})
	}
	return r, nil
}

type FunnelStages struct {
	Applied        int64 `json:"applied"`
	Screened       int64 `json:"screened"`
	Interviewed    int64 `json:"interviewed"`
	Shortlisted    int64 `json:"shortlisted"`
	ClientReviewed int64 `json:"client_reviewed"`
	Hired          int64 `json:"hired"`
}

type ConversionRates struct {
	ScreenRate       float64 `json:"screen_rate"`
	InterviewRate    float64 `json:"interview_rate"`
	ShortlistRate    float64 `json:"shortlist_rate"`
	ClientReviewRate float64 `json:"client_review_rate"`
	HireRate         float64 `json:"hire_rate"`
	OverallRate      float64 `json:"overall_rate"`
}

type FunnelReport struct {
	Funnel          FunnelStages    `json:"funnel"`
	ConversionRates ConversionRates `json:"conversion_rates"`
	DateRange       DateRange       `json:"date_range"`
}

// BuildFunnelReport computes the conversion rates for a set of stage counts.
func BuildFunnelReport(stages FunnelStages, window DateRange) *FunnelReport {
	return &FunnelReport{
		Funnel: stages,
		ConversionRates: ConversionRates{
			ScreenRate:       percent(stages.Screened, stages.Applied),
			InterviewRate:    percent(stages.Interviewed, stages.Screened),
			ShortlistRate:    percent(stages.Shortlisted, stages.Interviewed),
			ClientReviewRate: percent(stages.ClientReviewed, stages.Shortlisted),
			HireRate:         percent(stages.Hired, stages.ClientReviewed),
			OverallRate:      percent(stages.Hired, stages.Applied),
		},
		DateRange: window,
	}
}

func (s *MetricsService) Funnel(ctx context.Context, from, to *time.Time) (*FunnelReport, error) {
	window, err := s.window(from, to, funnelWindow)
	if err != nil {
		return nil, err
	}
	var report FunnelReport
	err = s.cached(ctx, reportKey("funnel", window.From, window.To), &report, func() (interface{}, error) {
		return s.funnel(ctx, window)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *MetricsService) funnel(ctx context.Context, window DateRange) (*FunnelReport, error) {
	var stages FunnelStages
	for _, c := range []struct {
		stage repository.Stage
		dest  *int64
	}{
		{repository.StageApplied, &stages.Applied},
		{repository.StageScreened, &stages.Screened},
		{repository.StageInterviewed, &stages.Interviewed},
		{repository.StageShortlisted, &stages.Shortlisted},
		{repository.StageClientReviewed, &stages.ClientReviewed},
		{repository.StageHired, &stages.Hired},
	} {
		n, err := s.store.CountApplicationsInStage(ctx, c.stage, window.From, window.To)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.stage, err)
		}
		*c.dest = n
	}
	return BuildFunnelReport(stages, window), nil
}

type GroupAverage struct {
	Name        string  `json:"name"`
	AverageDays float64 `json:"average_days"`
	Hires       int     `json:"hires"`
}

type ClientAverage struct {
	ClientID    string  `json:"client_id"`
	ClientName  string  `json:"client_name"`
	AverageDays float64 `json:"average_days"`
	Hires       int     `json:"hires"`
}

type TimeToHireReport struct {
	OverallAvgDays float64         `json:"overall_avg_days"`
	TotalHires     int             `json:"total_hires"`
	ByJobType      []GroupAverage  `json:"by_job_type"`
	ByJobLevel     []GroupAverage  `json:"by_job_level"`
	ByClient       []ClientAverage `json:"by_client"`
	DateRange      DateRange       `json:"date_range"`
}

// BuildTimeToHireReport averages whole days from application to hire. By
// client it keeps the five fastest clients.
func BuildTimeToHireReport(records []repository.HireRecord, window DateRange) *TimeToHireReport {
	report := &TimeToHireReport{
		ByJobType:  []GroupAverage{},
		ByJobLevel: []GroupAverage{},
		ByClient:   []ClientAverage{},
		DateRange:  window,
	}
	if len(records) == 0 {
		return report
	}

	type acc struct {
		name  string
		total int
		n     int
	}
	byType := map[string]*acc{}
	byLevel := map[string]*acc{}
	byClient := map[string]*acc{}
	add := func(m map[string]*acc, key, name string, days int) {
		a, ok := m[key]
		if !ok {
			a = &acc{name: name}
			m[key] = a
		}
		a.total += days
		a.n++
	}

	total := 0
	for _, r := range records {
		days := daysBetween(r.AppliedAt, r.HiredAt)
		total += days
		add(byType, string(r.JobType), string(r.JobType), days)
		level := unspecifiedLevel
		if r.JobLevel != nil {
			level = string(*r.JobLevel)
		}
		add(byLevel, level, level, days)
		add(byClient, r.ClientID, r.ClientName, days)
	}
	report.TotalHires = len(records)
	report.OverallAvgDays = round1(float64(total) / float64(len(records)))

	groups := func(m map[string]*acc) []GroupAverage {
		out := make([]GroupAverage, 0, len(m))
		for _, a := range m {
			out = append(out, GroupAverage{Name: a.name, AverageDays: round1(float64(a.total) / float64(a.n)), Hires: a.n})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out
	}
	report.ByJobType = groups(byType)
	report.ByJobLevel = groups(byLevel)

	clients := make([]ClientAverage, 0, len(byClient))
	for id, a := range byClient {
		clients = append(clients, ClientAverage{
			ClientID:    id,
			ClientName:  a.name,
			AverageDays: float64(a.total) / float64(a.n),
			Hires:       a.n,
		})
	}
	sort.Slice(clients, func(i, j int) bool {
		if clients[i].AverageDays != clients[j].AverageDays {
			return clients[i].AverageDays < clients[j].AverageDays
		}
		return clients[i].ClientName < clients[j].ClientName
	})
	if len(clients) > topClients {
		clients = clients[:topClients]
	}
	for i := range clients {
		clients[i].AverageDays = round1(clients[i].AverageDays)
	}
	report.ByClient = clients
	return report
}

func (s *MetricsService) TimeToHire(ctx context.Context, from, to *time.Time) (*TimeToHireReport, error) {
	window, err := s.window(from, to, timeToHireWindow)
	if err != nil {
		return nil, err
	}
	var report TimeToHireReport
	err = s.cached(ctx, reportKey("time_to_hire", window.From, window.To), &report, func() (interface{}, error) {
		records, err := s.store.ListHireRecords(ctx, window.From, window.To)
		if err != nil {
			return nil, fmt.Errorf("failed to list hires: %w", err)
		}
		return BuildTimeToHireReport(records, window), nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

type SourceStats struct {
	Source          string  `json:"source"`
	TotalCandidates int64   `json:"total_candidates"`
	Hired           int64   `json:"hired"`
	Rejected        int64   `json:"rejected"`
	InProcess       int64   `json:"in_process"`
	HireRate        float64 `json:"hire_rate"`
}

type SourceEffectivenessReport struct {
	SourceEffectiveness []SourceStats `json:"source_effectiveness"`
	DateRange           DateRange     `json:"date_range"`
}

// BuildSourceEffectivenessReport groups candidate counts by source. Candidates
// with no source are grouped under "Unknown"; every status other than hired
// and rejected counts as in process.
func BuildSourceEffectivenessReport(counts []repository.SourceStatusCount, window DateRange) *SourceEffectivenessReport {
	bySource := map[string]*SourceStats{}
	for _, c := range counts {
		name := unknownSource
		if c.Source != nil && *c.Source != "" {
			name = *c.Source
		}
		st, ok := bySource[name]
		if !ok {
			st = &SourceStats{Source: name}
			bySource[name] = st
		}
		st.TotalCandidates += c.Count
		switch c.Status {
		case models.CandidateStatusHired:
			st.Hired += c.Count
		case models.CandidateStatusRejected:
			st.Rejected += c.Count
		default:
			st.InProcess += c.Count
		}
	}

	out := make([]SourceStats, 0, len(bySource))
	for _, st := range bySource {
		st.HireRate = percent(st.Hired, st.TotalCandidates)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCandidates != out[j].TotalCandidates {
			return out[i].TotalCandidates > out[j].TotalCandidates
		}
		return out[i].Source < out[j].Source
	})
	return &SourceEffectivenessReport{SourceEffectiveness: out, DateRange: window}
}

func (s *MetricsService) SourceEffectiveness(ctx context.Context, from, to *time.Time) (*SourceEffectivenessReport, error) {
	window, err := s.window(from, to, sourceWindow)
	if err != nil {
		return nil, err
	}
	var report SourceEffectivenessReport
	err = s.cached(ctx, reportKey("source_effectiveness", window.From, window.To), &report, func() (interface{}, error) {
		counts, err := s.store.CountCandidatesBySource(ctx, window.From, window.To)
		if err != nil {
			return nil, fmt.Errorf("failed to count candidates by source: %w", err)
		}
		return BuildSourceEffectivenessReport(counts, window), nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

type DashboardSummary struct {
	ActiveCandidates    int64 `json:"active_candidates"`
	ActiveJobs          int64 `json:"active_jobs"`
	ActiveClients       int64 `json:"active_clients"`
	PendingApplications int64 `json:"pending_applications"`
	UpcomingInterviews  int64 `json:"upcoming_interviews"`
}

type HiringMetrics struct {
	HireRate       float64 `json:"hire_rate"`
	AvgTimeToHire  float64 `json:"avg_time_to_hire"`
	TotalHired     int64   `json:"total_hired"`
	TotalSubmitted int64   `json:"total_applications"`
}

type RecentActivityCounts struct {
	NewCandidatesToday  int64 `json:"new_candidates_today"`
	NewCandidatesWeek   int64 `json:"new_candidates_week"`
	NewApplicationsWeek int64 `json:"new_applications_week"`
}

type Dashboard struct {
	Summary        DashboardSummary     `json:"summary"`
	HiringMetrics  HiringMetrics        `json:"hiring_metrics"`
	RecentActivity RecentActivityCounts `json:"recent_activity"`
}

// Dashboard is computed live; it is not cached.
func (s *MetricsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	counts, err := s.store.DashboardCounts(ctx, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard counts: %w", err)
	}
	return &Dashboard{
		Summary: DashboardSummary{
			ActiveCandidates:    counts.ActiveCandidates,
			ActiveJobs:          counts.OpenJobs,
			ActiveClients:       counts.TotalClients,
			PendingApplications: counts.PendingApplications,
			UpcomingInterviews:  counts.UpcomingInterviews,
		},
		HiringMetrics: HiringMetrics{
			HireRate:       percent(counts.HiredApplications, counts.TotalApplications),
			AvgTimeToHire:  round1(counts.AvgTimeToHireDays),
			TotalHired:     counts.HiredApplications,
			TotalSubmitted: counts.TotalApplications,
		},
		RecentActivity: RecentActivityCounts{
			NewCandidatesToday:  counts.NewCandidatesToday,
			NewCandidatesWeek:   counts.NewCandidatesWeek,
			NewApplicationsWeek: counts.NewApplicationsWeek,
		},
	}, nil
}

type ExportReport struct {
	ReportDate          time.Time                  `json:"report_date"`
	DateRange           DateRange                  `json:"date_range"`
	Summary             repository.ReportTotals    `json:"summary"`
	RecruitmentFunnel   *FunnelReport              `json:"recruitment_funnel"`
	TimeToHire          *TimeToHireReport          `json:"time_to_hire"`
	SourceEffectiveness *SourceEffectivenessReport `json:"source_effectiveness"`
}

// Export bundles the window totals with the three reports over the same
// window, which defaults to the last 30 days.
func (s *MetricsService) Export(ctx context.Context, from, to *time.Time) (*ExportReport, error) {
	window, err := s.window(from, to, exportWindow)
	if err != nil {
		return nil, err
	}
	totals, err := s.store.ReportTotals(ctx, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("failed to count report totals: %w", err)
	}
	funnel, err := s.Funnel(ctx, &window.From, &window.To)
	if err != nil {
		return nil, err
	}
	tth, err := s.TimeToHire(ctx, &window.From, &window.To)
	if err != nil {
		return nil, err
	}
	sources, err := s.SourceEffectiveness(ctx, &window.From, &window.To)
	if err != nil {
		return nil, err
	}
	return &ExportReport{
		ReportDate:          s.now().UTC(),
		DateRange:           window,
		Summary:             *totals,
		RecruitmentFunnel:   funnel,
		TimeToHire:          tth,
		SourceEffectiveness: sources,
	}, nil
}

// cached serves dest from the report cache when possible, otherwise builds
// it and stores the result. Cache failures never fail the report.
func (s *MetricsService) cached(ctx context.Context, key string, dest interface{}, build func() (interface{}, error)) error {
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, key, dest)
		if err != nil {
			slog.Warn("Failed to read report cache", "error", err, "key", key)
		} else if hit {
			return nil
		}
	}

	value, err := build()
	if err != nil {
		return err
	}
	if err := assignReport(dest, value); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, value); err != nil {
			slog.Warn("Failed to write report cache", "error", err, "key", key)
		}
	}
	return nil
}

func assignReport(dest, value interface{}) error {
	switch d := dest.(type) {
	case *FunnelReport:
		*d = *value.(*FunnelReport)
	case *TimeToHireReport:
		*d = *value.(*TimeToHireReport)
	case *SourceEffectivenessReport:
		*d = *value.(*SourceEffectivenessReport)
	default:
		return errs.Internal(fmt.Sprintf("unsupported report type %T", dest), nil)
	}
	return nil
}

// percent returns part/whole*100 rounded to one decimal, or 0 when whole is 0.
func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// daysBetween returns the whole days from start to end, rounded down.
func daysBetween(start, end time.Time) int {
	return int(math.Floor(end.Sub(start).Hours() / 24))
}
