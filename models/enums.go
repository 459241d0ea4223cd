package models

import (
	"strings"

	"github.com/johnnycuong/mps-recruitment/errs"
)

// Enums are stored as their string value. Every Parse function rejects
// unknown input with errs.CodeInvalidEnumValue; none of them fall back to a
// default.

type UserRole string

const (
	RoleAdmin        UserRole = "admin"
	RoleRecruiter    UserRole = "recruiter"
	RoleManager      UserRole = "manager"
	RoleClient       UserRole = "client"
	RolePartner      UserRole = "partner"
	RoleCollaborator UserRole = "collaborator"
)

var userRoles = []UserRole{RoleAdmin, RoleRecruiter, RoleManager, RoleClient, RolePartner, RoleCollaborator}

func ParseUserRole(s string) (UserRole, error) { return parseEnum("role", s, userRoles) }

// IsStaff reports whether the role works the recruitment pipeline.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleRecruiter
}

type CandidateStatus string

const (
	CandidateStatusNew          CandidateStatus = "new"
	CandidateStatusScreening    CandidateStatus = "screening"
	CandidateStatusInterview    CandidateStatus = "interview"
	CandidateStatusShortlisted  CandidateStatus = "shortlisted"
	CandidateStatusClientReview CandidateStatus = "client_review"
	CandidateStatusHired        CandidateStatus = "hired"
	CandidateStatusRejected     CandidateStatus = "rejected"
	CandidateStatusWithdrawn    CandidateStatus = "withdrawn"
	CandidateStatusBlacklisted  CandidateStatus = "blacklisted"
)

var candidateStatuses = []CandidateStatus{
	CandidateStatusNew, CandidateStatusScreening, CandidateStatusInterview, CandidateStatusShortlisted,
	CandidateStatusClientReview, CandidateStatusHired, CandidateStatusRejected, CandidateStatusWithdrawn,
	CandidateStatusBlacklisted,
}

func ParseCandidateStatus(s string) (CandidateStatus, error) {
	return parseEnum("candidate status", s, candidateStatuses)
}

func CandidateStatuses() []CandidateStatus {
	return append([]CandidateStatus(nil), candidateStatuses...)
}

type ApplicationStatus string

const (
	ApplicationStatusNew          ApplicationStatus = "new"
	ApplicationStatusScreening    ApplicationStatus = "screening"
	ApplicationStatusInterview    ApplicationStatus = "interview"
	ApplicationStatusShortlisted  ApplicationStatus = "shortlisted"
	ApplicationStatusClientReview ApplicationStatus = "client_review"
	ApplicationStatusHired        ApplicationStatus = "hired"
	ApplicationStatusRejected     ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn    ApplicationStatus = "withdrawn"
)

var applicationStatuses = []ApplicationStatus{
	ApplicationStatusNew, ApplicationStatusScreening, ApplicationStatusInterview, ApplicationStatusShortlisted,
	ApplicationStatusClientReview, ApplicationStatusHired, ApplicationStatusRejected, ApplicationStatusWithdrawn,
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	return parseEnum("application status", s, applicationStatuses)
}

func ApplicationStatuses() []ApplicationStatus {
	return append([]ApplicationStatus(nil), applicationStatuses...)
}

// IsClosed reports whether the application has reached a terminal outcome.
func (s ApplicationStatus) IsClosed() bool {
	return s == ApplicationStatusHired || s == ApplicationStatusRejected || s == ApplicationStatusWithdrawn
}

// candidateStatusByApplication is the fixed 1:1 projection. Blacklisted has
// no application counterpart.
var candidateStatusByApplication = map[ApplicationStatus]CandidateStatus{
	ApplicationStatusNew:          CandidateStatusNew,
	ApplicationStatusScreening:    CandidateStatusScreening,
	ApplicationStatusInterview:    CandidateStatusInterview,
	ApplicationStatusShortlisted:  CandidateStatusShortlisted,
	ApplicationStatusClientReview: CandidateStatusClientReview,
	ApplicationStatusHired:        CandidateStatusHired,
	ApplicationStatusRejected:     CandidateStatusRejected,
	ApplicationStatusWithdrawn:    CandidateStatusWithdrawn,
}

// CandidateStatus returns the candidate status projected from s.
func (s ApplicationStatus) CandidateStatus() CandidateStatus {
	return candidateStatusByApplication[s]
}

type InterviewType string

const (
	InterviewTypePhone      InterviewType = "phone"
	InterviewTypeVideo      InterviewType = "video"
	InterviewTypeInPerson   InterviewType = "in_person"
	InterviewTypeTechnical  InterviewType = "technical"
	InterviewTypeGroup      InterviewType = "group"
	InterviewTypeAssessment InterviewType = "assessment"
)

var interviewTypes = []InterviewType{
	InterviewTypePhone, InterviewTypeVideo, InterviewTypeInPerson, InterviewTypeTechnical,
	InterviewTypeGroup, InterviewTypeAssessment,
}

func ParseInterviewType(s string) (InterviewType, error) {
	return parseEnum("interview type", s, interviewTypes)
}

type InterviewStatus string

const (
	InterviewStatusScheduled   InterviewStatus = "scheduled"
	InterviewStatusCompleted   InterviewStatus = "completed"
	InterviewStatusCancelled   InterviewStatus = "cancelled"
	InterviewStatusRescheduled InterviewStatus = "rescheduled"
	InterviewStatusNoShow      InterviewStatus = "no_show"
)

var interviewStatuses = []InterviewStatus{
	InterviewStatusScheduled, InterviewStatusCompleted, InterviewStatusCancelled,
	InterviewStatusRescheduled, InterviewStatusNoShow,
}

func ParseInterviewStatus(s string) (InterviewStatus, error) {
	return parseEnum("interview status", s, interviewStatuses)
}

type ActivityType string

const (
	ActivityStatusChange       ActivityType = "status_change"
	ActivityNoteAdded          ActivityType = "note_added"
	ActivityDocumentAdded      ActivityType = "document_added"
	ActivityInterviewScheduled ActivityType = "interview_scheduled"
	ActivityInterviewCompleted ActivityType = "interview_completed"
	ActivityEmailSent          ActivityType = "email_sent"
	ActivitySystemAction       ActivityType = "system_action"
	ActivityOther              ActivityType = "other"
)

var activityTypes = []ActivityType{
	ActivityStatusChange, ActivityNoteAdded, ActivityDocumentAdded, ActivityInterviewScheduled,
	ActivityInterviewCompleted, ActivityEmailSent, ActivitySystemAction, ActivityOther,
}

func ParseActivityType(s string) (ActivityType, error) {
	return parseEnum("activity type", s, activityTypes)
}

func ActivityTypes() []ActivityType { return append([]ActivityType(nil), activityTypes...) }

type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeTemporary  JobType = "temporary"
	JobTypeInternship JobType = "internship"
)

var jobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeTemporary, JobTypeInternship}

func ParseJobType(s string) (JobType, error) { return parseEnum("job type", s, jobTypes) }

type JobLevel string

const (
	JobLevelEntry     JobLevel = "entry"
	JobLevelJunior    JobLevel = "junior"
	JobLevelMidLevel  JobLevel = "mid_level"
	JobLevelSenior    JobLevel = "senior"
	JobLevelManager   JobLevel = "manager"
	JobLevelDirector  JobLevel = "director"
	JobLevelExecutive JobLevel = "executive"
)

var jobLevels = []JobLevel{
	JobLevelEntry, JobLevelJunior, JobLevelMidLevel, JobLevelSenior, JobLevelManager, JobLevelDirector, JobLevelExecutive,
}

func ParseJobLevel(s string) (JobLevel, error) { return parseEnum("job level", s, jobLevels) }

type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
	JobStatusOnHold JobStatus = "on_hold"
	JobStatusFilled JobStatus = "filled"
)

var jobStatuses = []JobStatus{JobStatusDraft, JobStatusOpen, JobStatusClosed, JobStatusOnHold, JobStatusFilled}

func ParseJobStatus(s string) (JobStatus, error) { return parseEnum("job status", s, jobStatuses) }

type ClientType string

const (
	ClientTypeFDI        ClientType = "fdi"
	ClientTypeDomestic   ClientType = "domestic"
	ClientTypeGovernment ClientType = "government"
	ClientTypeNGO        ClientType = "ngo"
	ClientTypeOther      ClientType = "other"
)

var clientTypes = []ClientType{ClientTypeFDI, ClientTypeDomestic, ClientTypeGovernment, ClientTypeNGO, ClientTypeOther}

func ParseClientType(s string) (ClientType, error) { return parseEnum("client type", s, clientTypes) }

// OrganizationStatus is shared by clients and partners.
type OrganizationStatus string

const (
	OrganizationActive    OrganizationStatus = "active"
	OrganizationInactive  OrganizationStatus = "inactive"
	OrganizationPotential OrganizationStatus = "potential"
	OrganizationFormer    OrganizationStatus = "former"
)

var organizationStatuses = []OrganizationStatus{
	OrganizationActive, OrganizationInactive, OrganizationPotential, OrganizationFormer,
}

func ParseOrganizationStatus(s string) (OrganizationStatus, error) {
	return parseEnum("status", s, organizationStatuses)
}

type PartnerType string

const (
	PartnerTypeSchool                PartnerType = "school"
	PartnerTypeRecruitmentAgency     PartnerType = "recruitment_agency"
	PartnerTypeTrainingCenter        PartnerType = "training_center"
	PartnerTypeCommunityOrganization PartnerType = "community_organization"
	PartnerTypeOther                 PartnerType = "other"
)

var partnerTypes = []PartnerType{
	PartnerTypeSchool, PartnerTypeRecruitmentAgency, PartnerTypeTrainingCenter,
	PartnerTypeCommunityOrganization, PartnerTypeOther,
}

func ParsePartnerType(s string) (PartnerType, error) {
	return parseEnum("partner type", s, partnerTypes)
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

var genders = []Gender{GenderMale, GenderFemale, GenderOther}

func ParseGender(s string) (Gender, error) { return parseEnum("gender", s, genders) }

type EducationLevel string

const (
	EducationPrimary    EducationLevel = "primary"
	EducationSecondary  EducationLevel = "secondary"
	EducationHighSchool EducationLevel = "high_school"
	EducationVocational EducationLevel = "vocational"
	EducationCollege    EducationLevel = "college"
	EducationBachelor   EducationLevel = "bachelor"
	EducationMaster     EducationLevel = "master"
	EducationPhD        EducationLevel = "phd"
	EducationOther      EducationLevel = "other"
)

var educationLevels = []EducationLevel{
	EducationPrimary, EducationSecondary, EducationHighSchool, EducationVocational, EducationCollege,
	EducationBachelor, EducationMaster, EducationPhD, EducationOther,
}

func ParseEducationLevel(s string) (EducationLevel, error) {
	return parseEnum("education level", s, educationLevels)
}

func parseEnum[T ~string](kind, raw string, values []T) (T, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, v := range values {
		if string(v) == normalized {
			return v, nil
		}
	}
	var zero T
	return zero, errs.InvalidEnumValue(kind, raw)
}
