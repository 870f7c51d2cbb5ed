package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rozzgari-server/database"
	"rozzgari-server/models"
)

// ReviewCreateRequest is the payload for submitting a review
type ReviewCreateRequest struct {
	JobID      uint   `json:"job_id" binding:"required"`
	RevieweeID uint   `json:"reviewee_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment" binding:"required,min=10,max=500"`
	Aspects    struct {
		Quality         *int `json:"quality" binding:"omitempty,min=1,max=5"`
		Punctuality     *int `json:"punctuality" binding:"omitempty,min=1,max=5"`
		Communication   *int `json:"communication" binding:"omitempty,min=1,max=5"`
		Professionalism *int `json:"professionalism" binding:"omitempty,min=1,max=5"`
	} `json:"aspects"`
}

// RegisterReviewRoutes registers review routes. Submitting requires
// authentication; reading a user's reviews is public.
func RegisterReviewRoutes(public, protected *gin.RouterGroup) {
	public.GET("/reviews/user/:userId", getUserReviews)
	protected.POST("/reviews", createReview)
}

// createReview persists a review of a completed job and folds the
// rating into the reviewee's running average
func createReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review data", "details": err.Error()})
		return
	}

	var job models.Job
	if err := database.DB.First(&job, req.JobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		}
		return
	}

	if job.Status != models.JobStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Can only review completed jobs"})
		return
	}

	isCustomer := job.CustomerID == userID
	isAssignedWorker := job.AssignedWorkerID != nil && *job.AssignedWorkerID == userID

	if !isCustomer && !isAssignedWorker {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to review this job"})
		return
	}

	var existing models.Review
	if err := database.DB.Where("job_id = ? AND reviewer_id = ?", req.JobID, userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this job"})
		return
	}

	review := models.Review{
		JobID:                 req.JobID,
		ReviewerID:            userID,
		RevieweeID:            req.RevieweeID,
		Rating:                req.Rating,
		Comment:               req.Comment,
		AspectQuality:         req.Aspects.Quality,
		AspectPunctuality:     req.Aspects.Punctuality,
		AspectCommunication:   req.Aspects.Communication,
		AspectProfessionalism: req.Aspects.Professionalism,
	}

	// The rating update is a single SQL expression so concurrent reviews
	// of the same reviewee cannot fold in a stale average, and it commits
	// together with the review row.
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return tx.Exec(`
			UPDATE users
			SET rating_average = (rating_average * rating_count + ?) / (rating_count + 1),
			    rating_count = rating_count + 1
			WHERE id = ?`, req.Rating, req.RevieweeID).Error
	})
	if txErr != nil {
		// A concurrent duplicate slips past the check above and lands on
		// the unique (job_id, reviewer_id) index.
		c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this job"})
		return
	}

	database.DB.
		Preload("Reviewer").
		Preload("Reviewee").
		Preload("Job").
		First(&review, review.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}

// getUserReviews lists reviews written about a user, newest first, with
// mean overall and per-aspect scores across all of them
func getUserReviews(c *gin.Context) {
	revieweeID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	database.DB.Model(&models.Review{}).Where("reviewee_id = ?", revieweeID).Count(&total)

	var reviews []models.Review
	if err := database.DB.
		Where("reviewee_id = ?", revieweeID).
		Preload("Reviewer").
		Preload("Job").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	// AVG skips NULL aspect values, matching the arithmetic-mean-over-
	// present-values semantics.
	var averages models.ReviewAverages
	if err := database.DB.Raw(`
		SELECT
			AVG(rating) AS avg_rating,
			AVG(aspect_quality) AS avg_quality,
			AVG(aspect_punctuality) AS avg_punctuality,
			AVG(aspect_communication) AS avg_communication,
			AVG(aspect_professionalism) AS avg_professionalism
		FROM reviews
		WHERE reviewee_id = ?`, revieweeID).Scan(&averages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch review averages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":  reviews,
		"averages": averages,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}
