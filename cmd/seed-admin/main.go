// Bootstrap tool that provisions the first administrator account.
// cmd/seed-admin/main.go
package main

import (
	"flag"
	"log"
	"time"

	"github.com/stoupi/mmvd-sub000/config"
	"github.com/stoupi/mmvd-sub000/models"
	"github.com/stoupi/mmvd-sub000/utils"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password")
	firstName := flag.String("first-name", "Portal", "admin first name")
	lastName := flag.String("last-name", "Administrator", "admin last name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Both -email and -password are required")
	}
	if !utils.ValidateEmail(*email) {
		log.Fatal("Invalid email address")
	}
	if ok, message := utils.ValidatePassword(*password); !ok {
		log.Fatal(message)
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	var existing models.User
	err := config.DB.Where("email = ? AND delete_at IS NULL", *email).First(&existing).Error
	if err == nil {
		log.Fatalf("A user with email %s already exists", *email)
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatal("Failed to check existing users:", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now()
	admin := models.User{
		FirstName:   *firstName,
		LastName:    *lastName,
		Email:       *email,
		Password:    string(hashed),
		Permissions: models.PermissionAdmin,
		IsActive:    true,
		CreateAt:    &now,
		UpdateAt:    &now,
	}

	if err := config.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Printf("Admin account %s created (user_id=%d)", admin.Email, admin.UserID)
}
