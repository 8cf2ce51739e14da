package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stoupi/mmvd-sub000/config"
	"github.com/stoupi/mmvd-sub000/models"
	"github.com/stoupi/mmvd-sub000/services"
	"github.com/stoupi/mmvd-sub000/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var knownPermissions = map[string]bool{
	models.PermissionSubmission: true,
	models.PermissionReviewing:  true,
	models.PermissionAdmin:      true,
}

type createUserRequest struct {
	Prefix          *string  `json:"prefix"`
	FirstName       string   `json:"first_name" binding:"required"`
	LastName        string   `json:"last_name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Permissions     []string `json:"permissions" binding:"required"`
	CentreID        *int     `json:"centre_id"`
	ReviewTopics    []int    `json:"review_topics"`
	SkipInviteEmail bool     `json:"skip_invite_email"`
}

type updateUserRequest struct {
	Prefix       *string  `json:"prefix"`
	FirstName    string   `json:"first_name" binding:"required"`
	LastName     string   `json:"last_name" binding:"required"`
	Permissions  []string `json:"permissions" binding:"required"`
	CentreID     *int     `json:"centre_id"`
	ReviewTopics []int    `json:"review_topics"`
	IsActive     *bool    `json:"is_active"`
}

func normalizePermissions(perms []string) (string, bool) {
	seen := make(map[string]bool, len(perms))
	cleaned := make([]string, 0, len(perms))
	for _, p := range perms {
		upper := strings.ToUpper(strings.TrimSpace(p))
		if upper == "" || seen[upper] {
			continue
		}
		if !knownPermissions[upper] {
			return "", false
		}
		seen[upper] = true
		cleaned = append(cleaned, upper)
	}
	return strings.Join(cleaned, ","), true
}

// GetUsers lists all live accounts for administrators.
func GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Preload("Centre").Preload("ReviewTopics.MainArea").
		Where("delete_at IS NULL").
		Order("last_name ASC, first_name ASC").
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}

// CreateUser provisions an account with a temporary password and sends the
// invite email.
func CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	permissions, ok := normalizePermissions(req.Permissions)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown permission kind"})
		return
	}

	var existing models.User
	err := config.DB.Where("email = ? AND delete_at IS NULL", req.Email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
		return
	}
	if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check email"})
		return
	}

	tempPassword := uuid.NewString()[:12]
	hashed, err := HashPassword(tempPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	user := models.User{
		Prefix:      req.Prefix,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    hashed,
		Permissions: permissions,
		IsActive:    true,
		CentreID:    req.CentreID,
		CreateAt:    &now,
		UpdateAt:    &now,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return replaceReviewTopics(tx, user.UserID, req.ReviewTopics)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	if !req.SkipInviteEmail {
		subject, html := services.BuildWelcomeEmail(&user, tempPassword)
		if err := sendMailFunc([]string{user.Email}, subject, html); err != nil {
			// Account exists either way; report the email failure only.
			log.Printf("Failed to send invite email to %s: %v", user.Email, err)
			c.JSON(http.StatusCreated, gin.H{
				"success":    true,
				"message":    "User created, but the invite email could not be sent",
				"email_sent": false,
				"user":       user,
			})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "User created",
		"email_sent": !req.SkipInviteEmail,
		"user":       user,
	})
}

// UpdateUser patches identity, permissions, centre and review topics.
func UpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	permissions, ok := normalizePermissions(req.Permissions)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown permission kind"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"prefix":      req.Prefix,
		"first_name":  req.FirstName,
		"last_name":   req.LastName,
		"permissions": permissions,
		"centre_id":   req.CentreID,
		"update_at":   now,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("user_id = ?", user.UserID).
			Updates(updates).Error; err != nil {
			return err
		}
		return replaceReviewTopics(tx, user.UserID, req.ReviewTopics)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	var updated models.User
	if err := config.DB.Preload("Centre").Preload("ReviewTopics.MainArea").
		First(&updated, user.UserID).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User updated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated",
		"user":    updated,
	})
}

// DeactivateUser disables an account without deleting its history.
func DeactivateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{
			"is_active": false,
			"update_at": now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deactivated",
	})
}

func replaceReviewTopics(tx *gorm.DB, userID int, mainAreaIDs []int) error {
	if err := tx.Where("user_id = ?", userID).
		Delete(&models.ReviewerTopic{}).Error; err != nil {
		return err
	}
	seen := make(map[int]bool, len(mainAreaIDs))
	for _, id := range mainAreaIDs {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		topic := models.ReviewerTopic{UserID: userID, MainAreaID: id}
		if err := tx.Create(&topic).Error; err != nil {
			return err
		}
	}
	return nil
}
