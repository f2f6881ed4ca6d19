package invitation

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(code *InvitationCode) error
	GetByCode(code string) (*InvitationCode, error)
	GetByCodeTx(tx *gorm.DB, code string) (*InvitationCode, error)
	CountActive(creatorID string, now time.Time) (int64, error)
	ListByCreator(creatorID string) ([]CodeInfo, error)
	// MarkUsed flips the code to used inside the caller's transaction.
	// The update is conditional on is_used and expiry at the SQL level, so
	// of two concurrent redemptions exactly one sees a row affected.
	MarkUsed(tx *gorm.DB, code, userID string, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(code *InvitationCode) error {
	return r.db.Create(code).Error
}

func (r *repository) GetByCode(code string) (*InvitationCode, error) {
	var invite InvitationCode
	err := r.db.Where("code = ?", code).First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) GetByCodeTx(tx *gorm.DB, code string) (*InvitationCode, error) {
	var invite InvitationCode
	err := tx.Where("code = ?", code).First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) MarkUsed(tx *gorm.DB, code, userID string, now time.Time) (int64, error) {
	res := tx.Exec(`
        UPDATE invitation_codes
        SET is_used = TRUE, used_by_user_id = ?, used_at = ?
        WHERE code = ? AND is_used = FALSE AND expires_at > ?
    `, userID, now, code, now)
	return res.RowsAffected, res.Error
}

func (r *repository) CountActive(creatorID string, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&InvitationCode{}).
		Where("created_by_user_id = ? AND is_used = FALSE AND expires_at > ?", creatorID, now).
		Count(&count).Error
	return count, err
}

func (r *repository) ListByCreator(creatorID string) ([]CodeInfo, error) {
	var codes []CodeInfo
	err := r.db.Table("invitation_codes").
		Select(`
			invitation_codes.code,
			invitation_codes.created_at,
			invitation_codes.expires_at,
			invitation_codes.is_used as used,
			invitation_codes.used_at,
			users.username as used_by_username
		`).
		Joins("LEFT JOIN users ON users.id = invitation_codes.used_by_user_id").
		Where("invitation_codes.created_by_user_id = ?", creatorID).
		Order("invitation_codes.created_at DESC").
		Find(&codes).Error
	return codes, err
}
