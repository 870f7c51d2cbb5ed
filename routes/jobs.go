package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rozzgari-server/database"
	"rozzgari-server/middleware"
	"rozzgari-server/models"
)

// JobCreateRequest is the payload for posting a job
type JobCreateRequest struct {
	Title           string            `json:"title" binding:"required,min=5"`
	Description     string            `json:"description" binding:"required,min=20"`
	ServiceID       uint              `json:"service_id" binding:"required"`
	LocationAddress string            `json:"location_address" binding:"required,min=5"`
	LocationCity    string            `json:"location_city" binding:"required,min=2"`
	LocationLat     *float64          `json:"location_lat"`
	LocationLng     *float64          `json:"location_lng"`
	BudgetMin       *float64          `json:"budget_min" binding:"required"`
	BudgetMax       *float64          `json:"budget_max" binding:"required"`
	BudgetType      models.BudgetType `json:"budget_type"`
	Urgency         models.Urgency    `json:"urgency"`
	PreferredDate   *time.Time        `json:"preferred_date"`
}

// JobApplyRequest is the payload for a worker's application
type JobApplyRequest struct {
	Proposal          string   `json:"proposal" binding:"required,min=20"`
	ProposedRate      *float64 `json:"proposed_rate" binding:"required"`
	EstimatedDuration string   `json:"estimated_duration" binding:"required,min=2"`
}

// JobStatusRequest is the payload for a status change
type JobStatusRequest struct {
	Status models.JobStatus `json:"status" binding:"required,oneof=in_progress completed cancelled"`
}

// RegisterJobRoutes registers job routes. Listing and fetching are
// public; everything that mutates requires authentication.
func RegisterJobRoutes(public, protected *gin.RouterGroup) {
	jobs := public.Group("/jobs")
	jobs.GET("", listJobs)
	jobs.GET("/:id", getJob)

	auth := protected.Group("/jobs")
	auth.POST("", middleware.CustomerOnly(), createJob)
	auth.POST("/:id/apply", middleware.WorkerOnly(), applyForJob)
	auth.PATCH("/:id/accept/:applicationId", middleware.CustomerOnly(), acceptApplication)
	auth.PATCH("/:id/status", updateJobStatus)
	auth.GET("/user/my-jobs", getMyJobs)
}

// createJob posts a new job with status "open"
func createJob(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req JobCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job data", "details": err.Error()})
		return
	}

	if *req.BudgetMin > *req.BudgetMax {
		c.JSON(http.StatusBadRequest, gin.H{"error": "budget_min must not exceed budget_max"})
		return
	}

	if req.BudgetType == "" {
		req.BudgetType = models.BudgetHourly
	}
	if !models.IsValidBudgetType(req.BudgetType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid budget type"})
		return
	}

	if req.Urgency == "" {
		req.Urgency = models.UrgencyMedium
	}
	if !models.IsValidUrgency(req.Urgency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid urgency"})
		return
	}

	var service models.Service
	if err := database.DB.Where("id = ? AND is_active = ?", req.ServiceID, true).First(&service).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown service"})
		return
	}

	job := models.Job{
		Title:           req.Title,
		Description:     req.Description,
		CustomerID:      userID,
		ServiceID:       req.ServiceID,
		LocationAddress: req.LocationAddress,
		LocationCity:    req.LocationCity,
		LocationLat:     req.LocationLat,
		LocationLng:     req.LocationLng,
		BudgetMin:       *req.BudgetMin,
		BudgetMax:       *req.BudgetMax,
		BudgetType:      req.BudgetType,
		Urgency:         req.Urgency,
		PreferredDate:   req.PreferredDate,
		Status:          models.JobStatusOpen,
	}

	if err := database.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}

	database.DB.Preload("Customer").Preload("Service").First(&job, job.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Job posted successfully",
		"job":     job,
	})
}

// listJobs returns a filtered page of jobs, newest first
func listJobs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	status := c.DefaultQuery("status", string(models.JobStatusOpen))

	query := database.DB.Model(&models.Job{}).Where("status = ?", status)

	if service := c.Query("service"); service != "" {
		query = query.Where("service_id = ?", service)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("LOWER(location_city) LIKE LOWER(?)", "%"+city+"%")
	}
	if urgency := c.Query("urgency"); urgency != "" {
		query = query.Where("urgency = ?", urgency)
	}
	if minBudget := c.Query("minBudget"); minBudget != "" {
		if v, err := strconv.ParseFloat(minBudget, 64); err == nil {
			query = query.Where("budget_min >= ?", v)
		}
	}
	if maxBudget := c.Query("maxBudget"); maxBudget != "" {
		if v, err := strconv.ParseFloat(maxBudget, 64); err == nil {
			query = query.Where("budget_max <= ?", v)
		}
	}

	var total int64
	query.Count(&total)

	var jobs []models.Job
	if err := query.
		Preload("Customer").
		Preload("Service").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs": jobs,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// getJob returns a single job with customer, service, assigned worker
// and applications
func getJob(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var job models.Job
	if err := database.DB.
		Preload("Customer").
		Preload("Service").
		Preload("AssignedWorker").
		Preload("Applications.Worker").
		First(&job, jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		}
		return
	}

	c.JSON(http.StatusOK, job)
}

// applyForJob appends a pending application to an open job
func applyForJob(c *gin.Context) {
	userID := c.GetUint("user_id")

	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var req JobApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application data", "details": err.Error()})
		return
	}

	var job models.Job
	if err := database.DB.First(&job, jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		}
		return
	}

	if job.Status != models.JobStatusOpen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job is no longer accepting applications"})
		return
	}

	var existing models.JobApplication
	if err := database.DB.Where("job_id = ? AND worker_id = ?", job.ID, userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already applied for this job"})
		return
	}

	application := models.JobApplication{
		JobID:             job.ID,
		WorkerID:          userID,
		Proposal:          req.Proposal,
		ProposedRate:      *req.ProposedRate,
		EstimatedDuration: req.EstimatedDuration,
		Status:            models.ApplicationPending,
	}

	// The unique (job_id, worker_id) index catches the race where two
	// requests from the same worker pass the duplicate check above.
	if err := database.DB.Create(&application).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already applied for this job"})
		return
	}

	database.DB.Preload("Applications.Worker").First(&job, job.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Application submitted successfully",
		"job":     job,
	})
}

// acceptApplication assigns the job to one applicant and rejects the
// rest, as a single transaction
func acceptApplication(c *gin.Context) {
	userID := c.GetUint("user_id")

	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}
	applicationID, err := strconv.ParseUint(c.Param("applicationId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var job models.Job
	if err := database.DB.First(&job, jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		}
		return
	}

	if job.CustomerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		return
	}

	var application models.JobApplication
	if err := database.DB.Where("id = ? AND job_id = ?", applicationID, job.ID).First(&application).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch application"})
		}
		return
	}

	// Conditional update on status = open closes the window where two
	// acceptances race on the same job: only one transaction sees the
	// job still open.
	var accepted bool
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", job.ID, models.JobStatusOpen).
			Updates(map[string]interface{}{
				"status":             models.JobStatusAssigned,
				"assigned_worker_id": application.WorkerID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		accepted = true

		if err := tx.Model(&models.JobApplication{}).
			Where("id = ?", application.ID).
			Update("status", models.ApplicationAccepted).Error; err != nil {
			return err
		}

		return tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND id <> ?", job.ID, application.ID).
			Update("status", models.ApplicationRejected).Error
	})
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept application"})
		return
	}
	if !accepted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job is no longer open"})
		return
	}

	var updated models.Job
	database.DB.
		Preload("AssignedWorker").
		Preload("Applications.Worker").
		First(&updated, job.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Application accepted successfully",
		"job":     updated,
	})
}

// updateJobStatus moves a job along the lifecycle, checked against the
// allowed-transitions table
func updateJobStatus(c *gin.Context) {
	userID := c.GetUint("user_id")

	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var req JobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status", "details": err.Error()})
		return
	}

	var job models.Job
	if err := database.DB.First(&job, jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		}
		return
	}

	isCustomer := job.CustomerID == userID
	isAssignedWorker := job.AssignedWorkerID != nil && *job.AssignedWorkerID == userID

	if !isCustomer && !isAssignedWorker {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		return
	}

	if !models.CanTransition(job.Status, req.Status, isCustomer) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid status transition",
			"message": "Cannot change status from " + string(job.Status) + " to " + string(req.Status),
		})
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Status == models.JobStatusCompleted {
		updates["completed_at"] = time.Now()
	}

	if err := database.DB.Model(&job).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update job status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Job status updated successfully",
		"job":     job,
	})
}

// getMyJobs lists the caller's jobs: posted jobs for customers,
// assigned jobs for workers
func getMyJobs(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Job{})
	if user.IsCustomer() {
		query = query.Where("customer_id = ?", user.ID)
	} else {
		query = query.Where("assigned_worker_id = ?", user.ID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var jobs []models.Job
	if err := query.
		Preload("Customer").
		Preload("Service").
		Preload("AssignedWorker").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs": jobs,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}
