package repositories

import (
	"github.com/1711821-sketch/PTW-sub001/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsersByRole(role models.Role) ([]models.User, error)
	GetApprovedByRole(role models.Role) ([]models.User, error)
	ListFirmaer() ([]string, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUsersByRole(role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role = ?", role).Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetApprovedByRole returns the approved users holding a role; the drift
// reminder broadcast is resolved through this.
func (r *PostgresUserRepository) GetApprovedByRole(role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role = ? AND approved = ?", role, true).Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListFirmaer returns the distinct entreprenør firms, for UI filter options.
func (r *PostgresUserRepository) ListFirmaer() ([]string, error) {
	var firmaer []string
	err := r.db.Model(&models.User{}).
		Where("firma <> ''").
		Distinct("firma").
		Order("firma ASC").
		Pluck("firma", &firmaer).Error
	return firmaer, err
}

func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}
