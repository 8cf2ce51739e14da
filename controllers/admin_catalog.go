package controllers

import (
	"net/http"
	"strconv"

	"github.com/stoupi/mmvd-sub000/services"

	"github.com/gin-gonic/gin"
)

type mainAreaRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type centreRequest struct {
	Name    string  `json:"name" binding:"required"`
	City    *string `json:"city"`
	Country *string `json:"country"`
}

// GetMainAreas lists classification topics for any authenticated user.
func GetMainAreas(c *gin.Context) {
	areas, err := services.NewCatalogService(nil).ListMainAreas()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"main_areas": areas,
		"total":      len(areas),
	})
}

// CreateMainArea inserts a classification topic.
func CreateMainArea(c *gin.Context) {
	var req mainAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area, err := services.NewCatalogService(nil).CreateMainArea(req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"main_area": area,
	})
}

// UpdateMainArea patches a classification topic.
func UpdateMainArea(c *gin.Context) {
	mainAreaID, err := strconv.Atoi(c.Param("id"))
	if err != nil || mainAreaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid main area ID"})
		return
	}

	var req mainAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area, err := services.NewCatalogService(nil).UpdateMainArea(mainAreaID, req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"main_area": area,
	})
}

// DeleteMainArea soft-deletes an unreferenced classification topic.
func DeleteMainArea(c *gin.Context) {
	mainAreaID, err := strconv.Atoi(c.Param("id"))
	if err != nil || mainAreaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid main area ID"})
		return
	}

	if err := services.NewCatalogService(nil).DeleteMainArea(mainAreaID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Main area deleted",
	})
}

// GetCategories lists study-type categories.
func GetCategories(c *gin.Context) {
	categories, err := services.NewCatalogService(nil).ListCategories()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
		"total":      len(categories),
	})
}

// CreateCategory inserts a study-type category.
func CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := services.NewCatalogService(nil).CreateCategory(req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"category": category,
	})
}

// DeleteCategory soft-deletes an unreferenced category.
func DeleteCategory(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil || categoryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if err := services.NewCatalogService(nil).DeleteCategory(categoryID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted",
	})
}

// GetCentres lists participating centres.
func GetCentres(c *gin.Context) {
	centres, err := services.NewCatalogService(nil).ListCentres()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"centres": centres,
		"total":   len(centres),
	})
}

// CreateCentre inserts a participating centre.
func CreateCentre(c *gin.Context) {
	var req centreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	centre, err := services.NewCatalogService(nil).CreateCentre(req.Name, req.City, req.Country)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"centre":  centre,
	})
}

// DeleteCentre soft-deletes an unreferenced centre.
func DeleteCentre(c *gin.Context) {
	centreID, err := strconv.Atoi(c.Param("id"))
	if err != nil || centreID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid centre ID"})
		return
	}

	if err := services.NewCatalogService(nil).DeleteCentre(centreID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Centre deleted",
	})
}
