package models

import "time"

type ServiceCategory string

const (
	CategoryElectrical   ServiceCategory = "electrical"
	CategoryPlumbing     ServiceCategory = "plumbing"
	CategoryCleaning     ServiceCategory = "cleaning"
	CategoryConstruction ServiceCategory = "construction"
	CategoryRepair       ServiceCategory = "repair"
	CategoryMaintenance  ServiceCategory = "maintenance"
	CategoryOther        ServiceCategory = "other"
)

// Service is a named category of work offered on the marketplace.
// Created by the seed process, read-only from the workflow's perspective.
type Service struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Category    ServiceCategory `json:"category" gorm:"type:varchar(20);not null;check:category IN ('electrical','plumbing','cleaning','construction','repair','maintenance','other')"`
	Icon        string          `json:"icon" gorm:"size:255"`
	RateMin     *float64        `json:"rate_min"`
	RateMax     *float64        `json:"rate_max"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

// IsValidServiceCategory checks a category value against the enum
func IsValidServiceCategory(c ServiceCategory) bool {
	switch c {
	case CategoryElectrical, CategoryPlumbing, CategoryCleaning,
		CategoryConstruction, CategoryRepair, CategoryMaintenance, CategoryOther:
		return true
	default:
		return false
	}
}
