package repository

import (
	"strconv"
	"tradehub_backend/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Resolve looks a user up by an opaque identity key: a numeric id or a login
// email. Both forms resolve to the same account.
func (r *UserRepository) Resolve(key string) (*models.User, error) {
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		return r.FindByID(uint(id))
	}
	return r.FindByEmail(key)
}

// FindSummaries loads public summaries for the given user ids, preserving the
// order of the input slice.
func (r *UserRepository) FindSummaries(ids []uint) ([]models.UserSummary, error) {
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}

	var users []models.User
	if err := r.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	summaries := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			summaries = append(summaries, u.Summary())
		}
	}
	return summaries, nil
}

// Search finds users whose username or email matches the query, excluding the
// requesting user.
func (r *UserRepository) Search(query string, excludeID uint, limit int) ([]models.UserSummary, error) {
	var users []models.User
	err := r.DB.
		Where("(username LIKE ? OR email LIKE ?) AND id != ?", "%"+query+"%", "%"+query+"%", excludeID).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, nil
}
