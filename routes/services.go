package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rozzgari-server/database"
	"rozzgari-server/models"
)

// RegisterServiceRoutes registers the public service catalog routes
func RegisterServiceRoutes(router *gin.RouterGroup) {
	services := router.Group("/services")
	services.GET("", listServices)
	services.GET("/category/:category", listServicesByCategory)
}

// listServices returns all active services sorted by name
func listServices(c *gin.Context) {
	var services []models.Service
	if err := database.DB.
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

// listServicesByCategory returns active services in one category
func listServicesByCategory(c *gin.Context) {
	category := models.ServiceCategory(c.Param("category"))
	if !models.IsValidServiceCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service category"})
		return
	}

	var services []models.Service
	if err := database.DB.
		Where("category = ? AND is_active = ?", category, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}
