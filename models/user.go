package models

import (
	"time"
)

type UserType string

const (
	UserTypeWorker   UserType = "worker"
	UserTypeCustomer UserType = "customer"
)

type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityBusy      Availability = "busy"
	AvailabilityOffline   Availability = "offline"
)

// User represents a marketplace account, either a customer or a worker.
// Worker-specific fields (services, rate, availability, rating) are zero
// valued for customers.
type User struct {
	ID             uint     `json:"id" gorm:"primaryKey"`
	Name           string   `json:"name" gorm:"size:255;not null"`
	Email          string   `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash   string   `json:"-" gorm:"size:255;not null"`
	Phone          string   `json:"phone" gorm:"size:20;not null"`
	UserType       UserType `json:"user_type" gorm:"type:varchar(20);not null;check:user_type IN ('worker','customer')"`
	ProfilePicture string   `json:"profile_picture" gorm:"size:255"`

	LocationAddress string   `json:"location_address" gorm:"size:255"`
	LocationCity    string   `json:"location_city" gorm:"size:100"`
	LocationLat     *float64 `json:"location_lat"`
	LocationLng     *float64 `json:"location_lng"`

	// Worker-specific fields
	Services     []Service       `json:"services,omitempty" gorm:"many2many:worker_services;"`
	Skills       []string        `json:"skills" gorm:"serializer:json"`
	Experience   int             `json:"experience" gorm:"default:0"`
	HourlyRate   float64         `json:"hourly_rate" gorm:"default:0"`
	Availability Availability    `json:"availability" gorm:"type:varchar(20);default:'available'"`
	Bio          string          `json:"bio" gorm:"size:500"`
	Portfolio    []PortfolioItem `json:"portfolio,omitempty" gorm:"foreignKey:UserID"`

	// Running rating aggregate: average is the mean of every rating ever
	// applied, count only increases.
	RatingAverage float64 `json:"rating_average" gorm:"default:0"`
	RatingCount   int     `json:"rating_count" gorm:"default:0"`

	IsVerified bool      `json:"is_verified" gorm:"default:false"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	LastActive time.Time `json:"last_active" gorm:"autoCreateTime"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// PortfolioItem is a past work sample shown on a worker's public profile
type PortfolioItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Image       string    `json:"image" gorm:"size:255"`
	CompletedAt time.Time `json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (PortfolioItem) TableName() string {
	return "portfolio_items"
}

// IsWorker checks if the user is a worker
func (u *User) IsWorker() bool {
	return u.UserType == UserTypeWorker
}

// IsCustomer checks if the user is a customer
func (u *User) IsCustomer() bool {
	return u.UserType == UserTypeCustomer
}

// ApplyRating folds a new 1-5 rating into the running aggregate:
// average' = (average*count + rating) / (count+1)
func (u *User) ApplyRating(rating int) {
	total := u.RatingAverage*float64(u.RatingCount) + float64(rating)
	u.RatingCount++
	u.RatingAverage = total / float64(u.RatingCount)
}

// IsValidAvailability checks an availability value against the enum
func IsValidAvailability(a Availability) bool {
	switch a {
	case AvailabilityAvailable, AvailabilityBusy, AvailabilityOffline:
		return true
	default:
		return false
	}
}
