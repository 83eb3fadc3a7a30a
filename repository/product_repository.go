package repository

import (
	"tradehub_backend/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Create(product *models.Product) error {
	return r.DB.Create(product).Error
}

func (r *ProductRepository) FindByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.Preload("Seller", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, username, full_name, image_url, email")
	}).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Exists reports whether a listing with the given id is present. Used only as
// an advisory check when attaching a product tag to a message.
func (r *ProductRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// FindAvailable lists available products, optionally filtered by category or a
// title search, newest first.
func (r *ProductRepository) FindAvailable(category, query string) ([]models.Product, error) {
	q := r.DB.Preload("Seller", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, username, full_name, image_url")
	}).Where("status = ?", "available")

	if category != "" {
		q = q.Where("category = ?", category)
	}
	if query != "" {
		q = q.Where("title LIKE ?", "%"+query+"%")
	}

	var products []models.Product
	err := q.Order("created_at desc").Find(&products).Error
	return products, err
}
