package config

import (
	"log"
	"tradehub_backend/models"
	"tradehub_backend/utils"

	"gorm.io/gorm"
)

func SeedCategories(db *gorm.DB) {
	categories := []models.Category{
		{Name: "Electronics", Slug: "electronics"},
		{Name: "Automotive", Slug: "automotive"},
		{Name: "Furniture", Slug: "furniture"},
		{Name: "Clothing", Slug: "clothing"},
		{Name: "Other", Slug: "other"},
	}

	for _, category := range categories {
		var existing models.Category
		if err := db.Where("slug = ?", category.Slug).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Failed to seed category %s: %v", category.Name, err)
			}
		}
	}
}

func SeedUsers(db *gorm.DB) {
	log.Println("Seeding users...")

	password, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			Username: "alice",
			Email:    "alice@example.com",
			Password: password,
			FullName: "Alice Seller",
			Role:     "user",
		},
		{
			Username: "bob",
			Email:    "bob@example.com",
			Password: password,
			FullName: "Bob Buyer",
			Role:     "user",
		},
	}

	for _, user := range users {
		var existingUser models.User
		if err := db.Where("email = ?", user.Email).First(&existingUser).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&user).Error; err != nil {
					log.Printf("Failed to seed user %s: %v", user.Username, err)
				} else {
					log.Printf("User seeded: %s (ID: %d)", user.Username, user.ID)
				}
			}
		} else {
			log.Printf("User already exists: %s", user.Username)
		}
	}

	log.Println("Seeding complete.")
}
