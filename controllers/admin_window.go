package controllers

import (
	"net/http"
	"strconv"

	"github.com/stoupi/mmvd-sub000/services"

	"github.com/gin-gonic/gin"
)

// GetWindows lists submission windows for any authenticated user.
func GetWindows(c *gin.Context) {
	windows, err := services.NewWindowService(nil).List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"windows": windows,
		"total":   len(windows),
	})
}

// GetCurrentWindow returns the window currently open for submissions.
func GetCurrentWindow(c *gin.Context) {
	window, err := services.NewWindowService(nil).Current()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"window":  window,
	})
}

// CreateWindow inserts a submission window.
func CreateWindow(c *gin.Context) {
	var input services.WindowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	window, err := services.NewWindowService(nil).Create(&input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Window created",
		"window":  window,
	})
}

// UpdateWindow patches window name and dates.
func UpdateWindow(c *gin.Context) {
	windowID, err := strconv.Atoi(c.Param("id"))
	if err != nil || windowID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window ID"})
		return
	}

	var input services.WindowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	window, err := services.NewWindowService(nil).Update(windowID, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Window updated",
		"window":  window,
	})
}

// SetWindowStatus moves a window to a new admin-chosen status.
func SetWindowStatus(c *gin.Context) {
	windowID, err := strconv.Atoi(c.Param("id"))
	if err != nil || windowID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	window, err := services.NewWindowService(nil).SetStatus(windowID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Window status updated",
		"window":  window,
	})
}

// DeleteWindow soft-deletes a window that has no proposals.
func DeleteWindow(c *gin.Context) {
	windowID, err := strconv.Atoi(c.Param("id"))
	if err != nil || windowID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window ID"})
		return
	}

	if err := services.NewWindowService(nil).Delete(windowID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Window deleted",
	})
}
