package database

import (
	"log"

	"gorm.io/gorm"

	"rozzgari-server/models"
)

func f(v float64) *float64 { return &v }

var seedServices = []models.Service{
	{Name: "Electrical Work", Description: "Professional electrical installation and repair services", Category: models.CategoryElectrical, RateMin: f(500), RateMax: f(1200)},
	{Name: "Plumbing Services", Description: "Expert plumbing installation, repair, and maintenance", Category: models.CategoryPlumbing, RateMin: f(400), RateMax: f(1000)},
	{Name: "House Cleaning", Description: "Professional house cleaning and maintenance services", Category: models.CategoryCleaning, RateMin: f(300), RateMax: f(800)},
	{Name: "Construction Work", Description: "General construction and building services", Category: models.CategoryConstruction, RateMin: f(600), RateMax: f(1500)},
	{Name: "AC Repair", Description: "Air conditioning installation and repair services", Category: models.CategoryRepair, RateMin: f(800), RateMax: f(2000)},
	{Name: "Painting Services", Description: "Professional painting and decoration services", Category: models.CategoryMaintenance, RateMin: f(400), RateMax: f(1200)},
}

// SeedServices inserts the service catalog if it is not already present.
// Existing rows are left untouched.
func SeedServices(db *gorm.DB) error {
	for _, svc := range seedServices {
		svc.IsActive = true
		result := db.Where(models.Service{Name: svc.Name}).FirstOrCreate(&svc)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			log.Printf("Seeded service: %s", svc.Name)
		}
	}
	return nil
}
