package domain

import (
	"time"
)

// KYC verification states.
const (
	KYCPending  = "pending"
	KYCInReview = "in_review"
	KYCApproved = "approved"
	KYCRejected = "rejected"
)

// Job posting states.
const (
	JobOpen    = "open"
	JobClosed  = "closed"
	JobFilled  = "filled"
	JobExpired = "expired"
)

// Application states.
const (
	ApplicationPending     = "pending"
	ApplicationShortlisted = "shortlisted"
	ApplicationAccepted    = "accepted"
	ApplicationRejected    = "rejected"
	ApplicationWithdrawn   = "withdrawn"
)

// Urgent job states.
const (
	UrgentOpen      = "open"
	UrgentMatched   = "matched"
	UrgentExpired   = "expired"
	UrgentCancelled = "cancelled"
)

// Worker is a registered service provider on the marketplace.
type Worker struct {
	ID        string         `json:"id"`
	FullName  string         `json:"full_name"`
	Phone     string         `json:"phone"`
	Skills    []string       `json:"skills,omitempty"`
	Location  *GeoPoint      `json:"location,omitempty"`
	Available bool           `json:"available"`
	KYCStatus string         `json:"kyc_status"`
	Rating    float64        `json:"rating"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Employer posts jobs and urgent jobs.
type Employer struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// JobPosting is a regular (non-urgent) job listing. Location is optional:
// postings without coordinates are still listed but carry no distance.
type JobPosting struct {
	ID          string         `json:"id"`
	EmployerID  string         `json:"employer_id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category"`
	Location    *GeoPoint      `json:"location,omitempty"`
	Address     string         `json:"address,omitempty"`
	WageMin     float64        `json:"wage_min"`
	WageMax     float64        `json:"wage_max"`
	WagePeriod  string         `json:"wage_period,omitempty"` // hourly, daily, monthly
	Status      string         `json:"status"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	DistanceKm  *float64       `json:"distance_km,omitempty"` // computed field
	CreatedAt   time.Time      `json:"created_at"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
}

// Application is a worker's application to a job posting.
type Application struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	WorkerID  string    `json:"worker_id"`
	CoverNote string    `json:"cover_note,omitempty"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UrgentJob is a short-notice gig matched to nearby workers. Location may
// be absent, in which case the job is excluded from distance matching but
// still appears in unsorted listings.
type UrgentJob struct {
	ID         string    `json:"id"`
	EmployerID string    `json:"employer_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Location   *GeoPoint `json:"location,omitempty"`
	Address    string    `json:"address,omitempty"`
	RadiusKm   float64   `json:"radius_km"`
	WageOffer  float64   `json:"wage_offer"`
	Status     string    `json:"status"`
	DistanceKm *float64  `json:"distance_km,omitempty"` // computed field
	PostedAt   time.Time `json:"posted_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// UrgentMatch records a worker matched to an urgent job.
type UrgentMatch struct {
	ID          string     `json:"id"`
	UrgentJobID string     `json:"urgent_job_id"`
	WorkerID    string     `json:"worker_id"`
	DistanceKm  float64    `json:"distance_km"`
	NotifiedAt  time.Time  `json:"notified_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
}

// TrainingCourse is a skills course workers can enroll in.
type TrainingCourse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	DurationMinutes int       `json:"duration_minutes"`
	ModuleCount     int       `json:"module_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Enrollment tracks a worker's progress through a course. MinutesSpent is
// accumulated from periodic client autosaves.
type Enrollment struct {
	ID             string     `json:"id"`
	CourseID       string     `json:"course_id"`
	WorkerID       string     `json:"worker_id"`
	Progress       float64    `json:"progress"` // percent, 0-100
	MinutesSpent   int        `json:"minutes_spent"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	EnrolledAt     time.Time  `json:"enrolled_at"`
}

// Certification is issued when a worker completes a course.
type Certification struct {
	ID        string     `json:"id"`
	WorkerID  string     `json:"worker_id"`
	CourseID  string     `json:"course_id"`
	Code      string     `json:"code"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// KYCRecord is an identity-verification submission for a worker.
type KYCRecord struct {
	ID             string     `json:"id"`
	WorkerID       string     `json:"worker_id"`
	DocumentType   string     `json:"document_type"` // citizenship, passport, license
	DocumentNumber string     `json:"document_number"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
}
