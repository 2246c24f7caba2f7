package repository

import (
	"context"
	"errors"
	"strings"

	"disasterprep/domain"
	"disasterprep/model"

	"gorm.io/gorm"
)

// UserRepository stores accounts in the relational database.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Migrate creates or updates the users table.
func (r *UserRepository) Migrate() error {
	return r.db.AutoMigrate(&model.User{})
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = model.RoleUser
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.Conflict("email %s is already registered", u.Email)
		}
		return tx.Create(u).Error
	})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("user %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context, role model.Role) ([]model.User, error) {
	q := r.db.WithContext(ctx).Order("user_id")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	users := make([]model.User, 0)
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role model.Role) (*model.User, error) {
	return r.update(ctx, id, map[string]any{"role": role})
}

func (r *UserRepository) SetActive(ctx context.Context, id uint, active bool) (*model.User, error) {
	return r.update(ctx, id, map[string]any{"is_active": active})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uint, name string) (*model.User, error) {
	return r.update(ctx, id, map[string]any{"name": strings.TrimSpace(name)})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hashed string) (*model.User, error) {
	return r.update(ctx, id, map[string]any{"hashed_password": hashed})
}

func (r *UserRepository) update(ctx context.Context, id uint, fields map[string]any) (*model.User, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
