package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"rozzgari-server/database"
	"rozzgari-server/models"
)

func completedJob(t *testing.T, customer, worker models.User, service models.Service) models.Job {
	t.Helper()

	job := createTestJob(t, customer, service, models.JobStatusOpen)
	assignWorker(t, &job, worker, models.JobStatusCompleted)
	return job
}

func TestCreateReview(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	customer := createTestUser(t, "Ayesha", models.UserTypeCustomer)
	worker := createTestUser(t, "Bilal", models.UserTypeWorker)
	service := createTestService(t, "Electrical Work")
	job := completedJob(t, customer, worker, service)

	payload := gin.H{
		"job_id":      job.ID,
		"reviewee_id": worker.ID,
		"rating":      5,
		"comment":     "Excellent work, finished ahead of schedule",
		"aspects":     gin.H{"quality": 5},
	}

	w := doRequest(router, http.MethodPost, "/api/reviews", payload, tokenFor(t, customer))
	assert.Equal(t, http.StatusCreated, w.Code)

	var review models.Review
	err := database.DB.Where("job_id = ? AND reviewer_id = ?", job.ID, customer.ID).First(&review).Error
	assert.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	if assert.NotNil(t, review.AspectQuality) {
		assert.Equal(t, 5, *review.AspectQuality)
	}
	assert.Nil(t, review.AspectPunctuality)
	assert.Nil(t, review.AspectCommunication)
	assert.Nil(t, review.AspectProfessionalism)
}

func TestCreateReviewUpdatesRatingAggregate(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	customer := createTestUser(t, "Ayesha", models.UserTypeCustomer)
	worker := createTestUser(t, "Bilal", models.UserTypeWorker)
	service := createTestService(t, "Electrical Work")
	job := completedJob(t, customer, worker, service)

	// Two earlier ratings of 4 each
	database.DB.Model(&models.User{}).Where("id = ?", worker.ID).
		Updates(map[string]interface{}{"rating_average": 4.0, "rating_count": 2})

	payload := gin.H{
		"job_id":      job.ID,
		"reviewee_id": worker.ID,
		"rating":      5,
		"comment":     "Excellent work, finished ahead of schedule",
	}

	w := doRequest(router, http.MethodPost, "/api/reviews", payload, tokenFor(t, customer))
	assert.Equal(t, http.StatusCreated, w.Code)

	var updated models.User
	database.DB.First(&updated, worker.ID)
	assert.Equal(t, 3, updated.RatingCount)
	assert.InDelta(t, 13.0/3.0, updated.RatingAverage, 1e-9)
}

func TestCreateReviewRequiresCompletedJob(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	customer := createTestUser(t, "Ayesha", models.UserTypeCustomer)
	worker := createTestUser(t, "Bilal", models.UserTypeWorker)
	service := createTestService(t, "Electrical Work")

	job := createTestJob(t, customer, service, models.JobStatusOpen)
	assignWorker(t, &job, worker, models.JobStatusInProgress)

	payload := gin.H{
		"job_id":      job.ID,
		"reviewee_id": worker.ID,
		"rating":      5,
		"comment":     "Excellent work, finished ahead of schedule",
	}

	w := doRequest(router, http.MethodPost, "/api/reviews", payload, tokenFor(t, customer))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReviewRejectsOutsiders(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	customer := createTestUser(t, "Ayesha", models.UserTypeCustomer)
	worker := createTestUser(t, "Bilal", models.UserTypeWorker)
	outsider := createTestUser(t, "Chaudhry", models.UserTypeCustomer)
	service := createTestService(t, "Electrical Work")
	job := completedJob(t, customer, worker, service)

	payload := gin.H{
		"job_id":      job.ID,
		"reviewee_id": worker.ID,
		"rating":      5,
		"comment":     "Excellent work, finished ahead of schedule",
	}

	w := doRequest(router, http.MethodPost, "/api/reviews", payload, tokenFor(t, outsider))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateReviewRejectsDuplicate(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	customer := createTestUser(t, "Ayesha", models.UserTypeCustomer)
	worker := createTestUser(t, "Bilal", models.UserTypeWorker)
	service := createTestService(t, "Electrical Work")
	job := completedJob(t, customer, worker, service)

	payload := gin.H{
		"job_id":      job.ID,
		"reviewee_id": worker.ID,
		"rating":      5,
		"comment":     "Excellent work, finished ahead of schedule",
	}

	token := tokenFor(t, customer)
	w := doRequest(router, http.MethodPost, "/api/reviews", payload, token)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodPost, "/api/reviews", payload, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The aggregate folded in exactly one rating
	var updated models.User
	database.DB.First(&updated, worker.ID)
	assert.Equal(t, 1, updated.RatingCount)
}

func TestCreateReviewBothDirections(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	customer := createTestUser(t, "Ayesha", models.UserTypeCustomer)
	worker := createTestUser(t, "Bilal", models.UserTypeWorker)
	service := createTestService(t, "Electrical Work")
	job := completedJob(t, customer, worker, service)

	w := doRequest(router, http.MethodPost, "/api/reviews", gin.H{
		"job_id":      job.ID,
		"reviewee_id": worker.ID,
		"rating":      5,
		"comment":     "Excellent work, finished ahead of schedule",
	}, tokenFor(t, customer))
	assert.Equal(t, http.StatusCreated, w.Code)

	// The assigned worker reviews the customer on the same job
	w = doRequest(router, http.MethodPost, "/api/reviews", gin.H{
		"job_id":      job.ID,
		"reviewee_id": customer.ID,
		"rating":      4,
		"comment":     "Clear instructions and prompt payment",
	}, tokenFor(t, worker))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGetUserReviews(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	customer := createTestUser(t, "Ayesha", models.UserTypeCustomer)
	other := createTestUser(t, "Dania", models.UserTypeCustomer)
	worker := createTestUser(t, "Bilal", models.UserTypeWorker)
	service := createTestService(t, "Electrical Work")

	first := completedJob(t, customer, worker, service)
	second := completedJob(t, other, worker, service)

	w := doRequest(router, http.MethodPost, "/api/reviews", gin.H{
		"job_id":      first.ID,
		"reviewee_id": worker.ID,
		"rating":      4,
		"comment":     "Good work overall, a little late on day two",
		"aspects":     gin.H{"quality": 4, "punctuality": 3},
	}, tokenFor(t, customer))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodPost, "/api/reviews", gin.H{
		"job_id":      second.ID,
		"reviewee_id": worker.ID,
		"rating":      5,
		"comment":     "Excellent work, finished ahead of schedule",
		"aspects":     gin.H{"quality": 5},
	}, tokenFor(t, other))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodGet, fmt.Sprintf("/api/reviews/user/%d", worker.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	reviews := body["reviews"].([]interface{})
	assert.Len(t, reviews, 2)

	// Newest first
	newest := reviews[0].(map[string]interface{})
	assert.Equal(t, float64(5), newest["rating"])

	// Aspect means ignore reviews where the aspect is absent
	averages := body["averages"].(map[string]interface{})
	assert.InDelta(t, 4.5, averages["avg_rating"].(float64), 1e-9)
	assert.InDelta(t, 4.5, averages["avg_quality"].(float64), 1e-9)
	assert.InDelta(t, 3.0, averages["avg_punctuality"].(float64), 1e-9)
	assert.Nil(t, averages["avg_communication"])
	assert.Nil(t, averages["avg_professionalism"])
}

func TestGetUserReviewsEmpty(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	worker := createTestUser(t, "Bilal", models.UserTypeWorker)

	w := doRequest(router, http.MethodGet, fmt.Sprintf("/api/reviews/user/%d", worker.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	assert.Len(t, body["reviews"].([]interface{}), 0)

	averages := body["averages"].(map[string]interface{})
	assert.Nil(t, averages["avg_rating"])
}
