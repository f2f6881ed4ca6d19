package user

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	GetByID(id string) (*User, error)
	GetByUsername(username string) (*User, error)
	GetByEmail(email string) (*User, error)
	Count() (int64, error)
	UpdateLevel(userID string, level Level) error
	UpdateAvatar(userID string, avatarURL string) error
	// TouchLoginCount increments login_count at most once per calendar day.
	// Returns true when the counter was actually bumped.
	TouchLoginCount(userID string, today string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(id string) (*User, error) {
	var user User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByUsername(username string) (*User, error) {
	var user User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByEmail(email string) (*User, error) {
	var user User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&User{}).Count(&count).Error
	return count, err
}

func (r *repository) UpdateLevel(userID string, level Level) error {
	return r.db.Model(&User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"level":      level,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) UpdateAvatar(userID string, avatarURL string) error {
	return r.db.Model(&User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"avatar_url": avatarURL,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) TouchLoginCount(userID string, today string) (bool, error) {
	res := r.db.Exec(`
        UPDATE users
        SET login_count = login_count + 1,
            last_login_date = ?,
            updated_at = NOW()
        WHERE id = ? AND (last_login_date IS NULL OR last_login_date <> ?)
    `, today, userID, today)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
