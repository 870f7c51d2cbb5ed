package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rozzgari-server/config"
	"rozzgari-server/database"
	"rozzgari-server/middleware"
	"rozzgari-server/models"
	"rozzgari-server/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUserSeq int

// setupTestDB opens an in-memory database, migrates the schema and
// points the handlers at it
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying SQL database: %v", err)
	}
	// A second connection would get its own empty in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	database.SetDB(db)

	config.AppConfig = &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			ExpiryHours: 1,
		},
	}

	return db
}

// newTestRouter builds a router with the same route layout as main
func newTestRouter() *gin.Engine {
	router := gin.New()

	api := router.Group("/api")

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())

	RegisterAuthRoutes(api.Group("/auth"))
	RegisterMeRoute(protected)
	RegisterServiceRoutes(api)
	RegisterUserRoutes(api, protected)
	RegisterJobRoutes(api, protected)
	RegisterReviewRoutes(api, protected)
	RegisterMessageRoutes(protected)

	return router
}

func createTestUser(t *testing.T, name string, userType models.UserType) models.User {
	t.Helper()

	testUserSeq++
	user := models.User{
		Name:         name,
		Email:        fmt.Sprintf("user%d@example.com", testUserSeq),
		PasswordHash: "not-a-real-hash",
		Phone:        "0123456789",
		UserType:     userType,
		Availability: models.AvailabilityAvailable,
		IsActive:     true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestService(t *testing.T, name string) models.Service {
	t.Helper()

	service := models.Service{
		Name:        name,
		Description: "Test service",
		Category:    models.CategoryElectrical,
		IsActive:    true,
	}
	if err := database.DB.Create(&service).Error; err != nil {
		t.Fatalf("failed to create test service: %v", err)
	}
	return service
}

func createTestJob(t *testing.T, customer models.User, service models.Service, status models.JobStatus) models.Job {
	t.Helper()

	job := models.Job{
		Title:           "Fix the kitchen wiring",
		Description:     "Two sockets are dead and the main light flickers constantly",
		CustomerID:      customer.ID,
		ServiceID:       service.ID,
		LocationAddress: "12 Harbor Street",
		LocationCity:    "Karachi",
		BudgetMin:       500,
		BudgetMax:       1500,
		BudgetType:      models.BudgetHourly,
		Urgency:         models.UrgencyMedium,
		Status:          status,
	}
	if err := database.DB.Create(&job).Error; err != nil {
		t.Fatalf("failed to create test job: %v", err)
	}
	return job
}

func assignWorker(t *testing.T, job *models.Job, worker models.User, status models.JobStatus) {
	t.Helper()

	if err := database.DB.Model(job).Updates(map[string]interface{}{
		"status":             status,
		"assigned_worker_id": worker.ID,
	}).Error; err != nil {
		t.Fatalf("failed to assign worker: %v", err)
	}
	job.Status = status
	job.AssignedWorkerID = &worker.ID
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := utils.GenerateToken(user.ID, string(user.UserType))
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

// doRequest performs a JSON request against the test router
func doRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return body
}
