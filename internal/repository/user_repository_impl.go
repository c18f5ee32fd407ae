package repository

import (
	"beauty-center-backend/internal/domain/entity"
	domainRepo "beauty-center-backend/internal/domain/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

// Create inserts the user and links the already existing roles.
func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Omit("Roles.*").Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return r.findOne(db.Where("id = ?", id))
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	return r.findOne(db.Where("LOWER(email) = LOWER(?)", email))
}

func (r *userRepository) FindByUsername(db *gorm.DB, username string) (*entity.User, error) {
	return r.findOne(db.Where("username = ?", username))
}

func (r *userRepository) findOne(query *gorm.DB) (*entity.User, error) {
	var user entity.User
	found, err := first(query.Preload("Roles"), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(db *gorm.DB, filter entity.UserFilter) ([]entity.User, int64, error) {
	cond := sq.And{}
	if filter.CompanyID != nil {
		cond = append(cond, sq.Eq{"users.company_id": filter.CompanyID.String()})
	}
	if filter.RoleID != nil {
		cond = append(cond, sq.Expr("EXISTS (SELECT 1 FROM user_roles ur WHERE ur.user_id = users.id AND ur.role_id = ?)", *filter.RoleID))
	}

	query, err := where(db.Model(&entity.User{}), cond)
	if err != nil {
		return nil, 0, err
	}

	var users []entity.User
	total, err := paginate(query, filter.Page, "username ASC", &users, "Roles")
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Update(db *gorm.DB, user *entity.User) error {
	return db.Omit(clause.Associations).Save(user).Error
}

func (r *userRepository) AddRole(db *gorm.DB, userID uuid.UUID, role *entity.Role) error {
	return db.Model(&entity.User{ID: userID}).Omit("Roles.*").Association("Roles").Append(role)
}

func (r *userRepository) RemoveRole(db *gorm.DB, userID uuid.UUID, role *entity.Role) error {
	return db.Model(&entity.User{ID: userID}).Association("Roles").Delete(role)
}

func (r *userRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	if err := db.Model(&entity.User{ID: id}).Association("Roles").Clear(); err != nil {
		return 0, err
	}
	result := db.Where("id = ?", id).Delete(&entity.User{})
	return result.RowsAffected, result.Error
}
