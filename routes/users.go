package routes

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rozzgari-server/database"
	"rozzgari-server/middleware"
	"rozzgari-server/models"
)

// AvailabilityRequest is the payload for a worker availability change
type AvailabilityRequest struct {
	Availability models.Availability `json:"availability" binding:"required,oneof=available busy offline"`
}

// RegisterUserRoutes registers user routes. Worker discovery is public;
// profile mutation requires authentication.
func RegisterUserRoutes(public, protected *gin.RouterGroup) {
	users := public.Group("/users")
	users.GET("/workers", listWorkers)
	users.GET("/worker/:id", getWorkerProfile)

	auth := protected.Group("/users")
	auth.PUT("/profile", updateProfile)
	auth.POST("/portfolio", middleware.WorkerOnly(), addPortfolioItem)
	auth.PATCH("/availability", middleware.WorkerOnly(), updateAvailability)
}

// listWorkers returns a filtered page of workers
func listWorkers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.User{}).
		Where("user_type = ? AND is_active = ?", models.UserTypeWorker, true)

	if service := c.Query("service"); service != "" {
		query = query.Where(
			"id IN (SELECT user_id FROM worker_services WHERE service_id = ?)", service)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("LOWER(location_city) LIKE LOWER(?)", "%"+city+"%")
	}
	if minRating := c.Query("minRating"); minRating != "" {
		if v, err := strconv.ParseFloat(minRating, 64); err == nil {
			query = query.Where("rating_average >= ?", v)
		}
	}
	if maxRate := c.Query("maxRate"); maxRate != "" {
		if v, err := strconv.ParseFloat(maxRate, 64); err == nil {
			query = query.Where("hourly_rate <= ?", v)
		}
	}
	if availability := c.Query("availability"); availability != "" {
		query = query.Where("availability = ?", availability)
	}

	sortBy := c.DefaultQuery("sortBy", "rating_average")
	switch sortBy {
	case "rating_average", "hourly_rate", "experience", "created_at":
	default:
		sortBy = "rating_average"
	}

	var total int64
	query.Count(&total)

	var workers []models.User
	if err := query.
		Preload("Services").
		Order(sortBy + " DESC").
		Offset(offset).
		Limit(limit).
		Find(&workers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workers": workers,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// getWorkerProfile returns a worker's public profile with recent reviews
func getWorkerProfile(c *gin.Context) {
	workerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid worker ID"})
		return
	}

	var worker models.User
	if err := database.DB.
		Where("id = ? AND user_type = ?", workerID, models.UserTypeWorker).
		Preload("Services").
		Preload("Portfolio").
		First(&worker).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch worker"})
		}
		return
	}

	var reviews []models.Review
	database.DB.
		Where("reviewee_id = ?", worker.ID).
		Preload("Reviewer").
		Preload("Job").
		Order("created_at DESC, id DESC").
		Limit(10).
		Find(&reviews)

	c.JSON(http.StatusOK, gin.H{
		"worker":  worker,
		"reviews": reviews,
	})
}

// updateProfile updates the caller's profile. Accepts multipart form
// data with an optional profile_picture image, which is pushed to the
// blob store; only the returned URL is kept.
func updateProfile(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	updates := map[string]interface{}{}

	if name := c.PostForm("name"); name != "" {
		if len(name) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name must be at least 2 characters"})
			return
		}
		updates["name"] = name
	}
	if phone := c.PostForm("phone"); phone != "" {
		updates["phone"] = phone
	}
	if bio := c.PostForm("bio"); bio != "" {
		if len(bio) > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bio must be at most 500 characters"})
			return
		}
		updates["bio"] = bio
	}
	if city := c.PostForm("location_city"); city != "" {
		updates["location_city"] = city
	}
	if address := c.PostForm("location_address"); address != "" {
		updates["location_address"] = address
	}
	if rate := c.PostForm("hourly_rate"); rate != "" {
		v, err := strconv.ParseFloat(rate, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hourly rate"})
			return
		}
		updates["hourly_rate"] = v
	}
	if exp := c.PostForm("experience"); exp != "" {
		v, err := strconv.Atoi(exp)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experience"})
			return
		}
		updates["experience"] = v
	}

	if header, err := c.FormFile("profile_picture"); err == nil {
		if !validateImageFile(header) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile picture"})
			return
		}
		url, err := uploadImage(c.Request.Context(), header, "users/profile_pictures/"+strconv.Itoa(int(user.ID)))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Profile picture upload failed"})
			return
		}
		updates["profile_picture"] = url
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	// Workers may replace their service set in the same request
	if user.IsWorker() {
		if raw := c.PostForm("service_ids"); raw != "" {
			var services []models.Service
			ids := strings.Split(raw, ",")
			if err := database.DB.Where("id IN ? AND is_active = ?", ids, true).Find(&services).Error; err == nil {
				database.DB.Model(&user).Association("Services").Replace(services)
			}
		}
		if raw := c.PostForm("skills"); raw != "" {
			skills := []string{}
			for _, s := range strings.Split(raw, ",") {
				if s = strings.TrimSpace(s); s != "" {
					skills = append(skills, s)
				}
			}
			database.DB.Model(&user).Update("skills", skills)
		}
	}

	database.DB.Preload("Services").Preload("Portfolio").First(&user, user.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// addPortfolioItem adds a work sample to a worker's portfolio
func addPortfolioItem(c *gin.Context) {
	userID := c.GetUint("user_id")

	title := c.PostForm("title")
	description := c.PostForm("description")
	if len(title) < 2 || len(description) < 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title (min 2) and description (min 10) are required"})
		return
	}

	item := models.PortfolioItem{
		UserID:      userID,
		Title:       title,
		Description: description,
		CompletedAt: time.Now(),
	}

	if header, err := c.FormFile("image"); err == nil {
		if !validateImageFile(header) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid portfolio image"})
			return
		}
		url, err := uploadImage(c.Request.Context(), header, "users/portfolio/"+strconv.Itoa(int(userID)))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Portfolio image upload failed"})
			return
		}
		item.Image = url
	}

	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add portfolio item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Portfolio item added successfully",
		"item":    item,
	})
}

// updateAvailability sets a worker's availability
func updateAvailability(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid availability", "details": err.Error()})
		return
	}

	if err := database.DB.Model(&user).Update("availability", req.Availability).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Availability updated successfully",
		"user":    user,
	})
}
