package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"rozzgari-server/database"
	"rozzgari-server/models"
)

func TestListWorkers(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	createTestUser(t, "Ayesha", models.UserTypeCustomer)

	top := createTestUser(t, "Bilal", models.UserTypeWorker)
	database.DB.Model(&top).Updates(map[string]interface{}{
		"rating_average": 4.8,
		"rating_count":   12,
		"location_city":  "Karachi",
	})

	low := createTestUser(t, "Chaudhry", models.UserTypeWorker)
	database.DB.Model(&low).Updates(map[string]interface{}{
		"rating_average": 3.1,
		"rating_count":   4,
		"location_city":  "Lahore",
	})

	// Customers never show up in worker discovery
	w := doRequest(router, http.MethodGet, "/api/users/workers", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	workers := body["workers"].([]interface{})
	assert.Len(t, workers, 2)

	// Default sort is rating, best first
	best := workers[0].(map[string]interface{})
	assert.Equal(t, float64(top.ID), best["id"])

	// Rating floor
	w = doRequest(router, http.MethodGet, "/api/users/workers?minRating=4", nil, "")
	body = parseBody(t, w)
	assert.Len(t, body["workers"].([]interface{}), 1)

	// City match is case-insensitive
	w = doRequest(router, http.MethodGet, "/api/users/workers?city=karachi", nil, "")
	body = parseBody(t, w)
	assert.Len(t, body["workers"].([]interface{}), 1)
}

func TestListWorkersFilterByAvailability(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	available := createTestUser(t, "Bilal", models.UserTypeWorker)

	busy := createTestUser(t, "Chaudhry", models.UserTypeWorker)
	database.DB.Model(&busy).Update("availability", models.AvailabilityBusy)

	w := doRequest(router, http.MethodGet, "/api/users/workers?availability=available", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	workers := body["workers"].([]interface{})
	if assert.Len(t, workers, 1) {
		assert.Equal(t, float64(available.ID), workers[0].(map[string]interface{})["id"])
	}
}

func TestGetWorkerProfile(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	customer := createTestUser(t, "Ayesha", models.UserTypeCustomer)
	worker := createTestUser(t, "Bilal", models.UserTypeWorker)

	w := doRequest(router, http.MethodGet, fmt.Sprintf("/api/users/worker/%d", worker.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	profile := body["worker"].(map[string]interface{})
	assert.Equal(t, float64(worker.ID), profile["id"])

	// Customers have no worker profile page
	w = doRequest(router, http.MethodGet, fmt.Sprintf("/api/users/worker/%d", customer.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	worker := createTestUser(t, "Bilal", models.UserTypeWorker)

	form := url.Values{}
	form.Set("bio", "Licensed electrician, fifteen years on residential jobs")
	form.Set("hourly_rate", "850")
	form.Set("location_city", "Karachi")

	req := httptest.NewRequest(http.MethodPut, "/api/users/profile", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, worker))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	database.DB.First(&updated, worker.ID)
	assert.Equal(t, 850.0, updated.HourlyRate)
	assert.Equal(t, "Karachi", updated.LocationCity)
	assert.Equal(t, "Licensed electrician, fifteen years on residential jobs", updated.Bio)
}

func TestUpdateAvailability(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	worker := createTestUser(t, "Bilal", models.UserTypeWorker)
	customer := createTestUser(t, "Ayesha", models.UserTypeCustomer)

	w := doRequest(router, http.MethodPatch, "/api/users/availability",
		gin.H{"availability": "busy"}, tokenFor(t, worker))
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	database.DB.First(&updated, worker.ID)
	assert.Equal(t, models.AvailabilityBusy, updated.Availability)

	// Bad enum value
	w = doRequest(router, http.MethodPatch, "/api/users/availability",
		gin.H{"availability": "sleeping"}, tokenFor(t, worker))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Customers have no availability
	w = doRequest(router, http.MethodPatch, "/api/users/availability",
		gin.H{"availability": "busy"}, tokenFor(t, customer))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
