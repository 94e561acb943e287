package repo

import (
	"gorm.io/gorm"

	"github.com/lobami/campaign-analytics/internal/models"
)

// UserRepo is the credential store: users and the companies that own them.
type UserRepo struct{ DB *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) ByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Create(user *models.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepo) CountInCompany(companyID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.User{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

func (r *UserRepo) CompanyByName(name string) (*models.Company, error) {
	var company models.Company
	if err := r.DB.Where("name = ?", name).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *UserRepo) CreateCompany(name string) (*models.Company, error) {
	company := models.Company{Name: name}
	if err := r.DB.Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}
