package models

import "time"

// Review is a post-completion rating of one job participant by the
// other. The unique index on (job_id, reviewer_id) allows at most one
// review per job per reviewer.
type Review struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	JobID      uint   `json:"job_id" gorm:"not null;uniqueIndex:idx_job_reviewer"`
	Job        Job    `json:"job" gorm:"foreignKey:JobID"`
	ReviewerID uint   `json:"reviewer_id" gorm:"not null;uniqueIndex:idx_job_reviewer"`
	Reviewer   User   `json:"reviewer" gorm:"foreignKey:ReviewerID"`
	RevieweeID uint   `json:"reviewee_id" gorm:"not null;index"`
	Reviewee   User   `json:"reviewee" gorm:"foreignKey:RevieweeID"`
	Rating     int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string `json:"comment" gorm:"size:500;not null"`

	// Optional per-aspect sub-scores, each 1-5 when present
	AspectQuality         *int `json:"aspect_quality" gorm:"check:aspect_quality IS NULL OR (aspect_quality >= 1 AND aspect_quality <= 5)"`
	AspectPunctuality     *int `json:"aspect_punctuality" gorm:"check:aspect_punctuality IS NULL OR (aspect_punctuality >= 1 AND aspect_punctuality <= 5)"`
	AspectCommunication   *int `json:"aspect_communication" gorm:"check:aspect_communication IS NULL OR (aspect_communication >= 1 AND aspect_communication <= 5)"`
	AspectProfessionalism *int `json:"aspect_professionalism" gorm:"check:aspect_professionalism IS NULL OR (aspect_professionalism >= 1 AND aspect_professionalism <= 5)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewAverages aggregates a user's reviews: the overall mean plus
// per-aspect means, each ignoring rows where the aspect is missing.
type ReviewAverages struct {
	AvgRating          *float64 `json:"avg_rating"`
	AvgQuality         *float64 `json:"avg_quality"`
	AvgPunctuality     *float64 `json:"avg_punctuality"`
	AvgCommunication   *float64 `json:"avg_communication"`
	AvgProfessionalism *float64 `json:"avg_professionalism"`
}
