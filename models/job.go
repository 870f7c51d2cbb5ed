package models

import "time"

type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusAssigned   JobStatus = "assigned"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

type BudgetType string

const (
	BudgetHourly BudgetType = "hourly"
	BudgetFixed  BudgetType = "fixed"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Job is a customer's posted request for a service. It owns an ordered
// set of worker applications and at most one assigned worker.
type Job struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"size:255;not null"`
	Description string  `json:"description" gorm:"type:text;not null"`
	CustomerID  uint    `json:"customer_id" gorm:"not null;index"`
	Customer    User    `json:"customer" gorm:"foreignKey:CustomerID"`
	ServiceID   uint    `json:"service_id" gorm:"not null"`
	Service     Service `json:"service" gorm:"foreignKey:ServiceID"`

	LocationAddress string   `json:"location_address" gorm:"size:255;not null"`
	LocationCity    string   `json:"location_city" gorm:"size:100;not null"`
	LocationLat     *float64 `json:"location_lat"`
	LocationLng     *float64 `json:"location_lng"`

	BudgetMin  float64    `json:"budget_min"`
	BudgetMax  float64    `json:"budget_max"`
	BudgetType BudgetType `json:"budget_type" gorm:"type:varchar(10);default:'hourly'"`

	Urgency       Urgency    `json:"urgency" gorm:"type:varchar(10);default:'medium'"`
	PreferredDate *time.Time `json:"preferred_date"`

	Status           JobStatus        `json:"status" gorm:"type:varchar(20);not null;default:'open';index"`
	AssignedWorkerID *uint            `json:"assigned_worker_id"`
	AssignedWorker   *User            `json:"assigned_worker,omitempty" gorm:"foreignKey:AssignedWorkerID"`
	Applications     []JobApplication `json:"applications" gorm:"foreignKey:JobID"`

	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// JobApplication is a worker's bid on a job. The unique index on
// (job_id, worker_id) guarantees a worker appears at most once per job.
type JobApplication struct {
	ID                uint              `json:"id" gorm:"primaryKey"`
	JobID             uint              `json:"job_id" gorm:"not null;uniqueIndex:idx_job_worker"`
	WorkerID          uint              `json:"worker_id" gorm:"not null;uniqueIndex:idx_job_worker"`
	Worker            User              `json:"worker" gorm:"foreignKey:WorkerID"`
	Proposal          string            `json:"proposal" gorm:"type:text;not null"`
	ProposedRate      float64           `json:"proposed_rate" gorm:"not null"`
	EstimatedDuration string            `json:"estimated_duration" gorm:"size:100;not null"`
	Status            ApplicationStatus `json:"status" gorm:"type:varchar(10);not null;default:'pending'"`
	AppliedAt         time.Time         `json:"applied_at" gorm:"autoCreateTime"`
}

func (Job) TableName() string {
	return "jobs"
}

func (JobApplication) TableName() string {
	return "job_applications"
}

// IsValidUrgency checks an urgency value against the enum
func IsValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent:
		return true
	default:
		return false
	}
}

// IsValidBudgetType checks a budget type against the enum
func IsValidBudgetType(b BudgetType) bool {
	switch b {
	case BudgetHourly, BudgetFixed:
		return true
	default:
		return false
	}
}

// statusEdge is one allowed transition of the job lifecycle
type statusEdge struct {
	from JobStatus
	to   JobStatus
}

// jobTransitions is the allowed-transitions table for PATCH /jobs/:id/status.
// open -> assigned happens only through accept-application, so it is not
// listed here. completed and cancelled are terminal. customerOnly marks
// edges the assigned worker may not take.
var jobTransitions = map[statusEdge]struct{ customerOnly bool }{
	{JobStatusOpen, JobStatusCancelled}:       {customerOnly: true},
	{JobStatusAssigned, JobStatusInProgress}:  {},
	{JobStatusAssigned, JobStatusCancelled}:   {},
	{JobStatusInProgress, JobStatusCompleted}: {},
	{JobStatusInProgress, JobStatusCancelled}: {customerOnly: true},
}

// CanTransition reports whether a status change is legal for the caller.
// isCustomer is true when the caller owns the job; otherwise the caller
// must already be the assigned worker (enforced by the handler).
func CanTransition(from, to JobStatus, isCustomer bool) bool {
	rule, ok := jobTransitions[statusEdge{from, to}]
	if !ok {
		return false
	}
	if rule.customerOnly && !isCustomer {
		return false
	}
	return true
}
