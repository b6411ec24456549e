package repository

import (
	"errors"
	"time"

	"block-builder-backend/internal/authorization"
	"block-builder-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Upsert(identity models.UserIdentity) (*models.User, error)
	GetByID(id uint) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert creates the user or updates only the fields present in identity.
// When nothing but the open id is supplied, the last sign-in time is refreshed.
func (r *userRepository) Upsert(identity models.UserIdentity) (*models.User, error) {
	var result models.User

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("open_id = ?", identity.OpenID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user := newUserFromIdentity(identity)
			created := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "open_id"}},
				DoNothing: true,
			}).Create(&user)
			if created.Error != nil {
				return created.Error
			}
			if created.RowsAffected > 0 {
				result = user
				return nil
			}
			// A concurrent sign-in inserted the row first.
			err = tx.Where("open_id = ?", identity.OpenID).First(&existing).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if identity.Name != nil {
			updates["name"] = *identity.Name
		}
		if identity.Email != nil {
			updates["email"] = *identity.Email
		}
		if identity.LoginMethod != nil {
			updates["login_method"] = *identity.LoginMethod
		}
		if identity.Role != nil {
			updates["role"] = *identity.Role
		}
		if identity.LastSignedIn != nil {
			updates["last_signed_in"] = *identity.LastSignedIn
		}
		if len(updates) == 0 {
			updates["last_signed_in"] = time.Now().UTC()
		}

		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&result, existing.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func newUserFromIdentity(identity models.UserIdentity) models.User {
	user := models.User{
		OpenID:       identity.OpenID,
		Name:         identity.Name,
		Email:        identity.Email,
		LoginMethod:  identity.LoginMethod,
		Role:         authorization.RoleUser,
		LastSignedIn: time.Now().UTC(),
	}
	if identity.Role != nil {
		user.Role = *identity.Role
	}
	if identity.LastSignedIn != nil {
		user.LastSignedIn = *identity.LastSignedIn
	}
	return user
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
