package favorite

import (
	"context"
	"errors"

	"backend/internal/apperr"

	"gorm.io/gorm"
)

type Service interface {
	Toggle(ctx context.Context, userID, topicID string) (bool, error)
}

type service struct {
	dbConn *gorm.DB
}

func NewService(dbConn *gorm.DB) Service {
	return &service{dbConn: dbConn}
}

func (s *service) Toggle(ctx context.Context, userID, topicID string) (bool, error) {
	var isFavorite bool
	err := s.dbConn.Transaction(func(tx *gorm.DB) error {
		var existing Favorite
		err := tx.Where("user_id = ? AND topic_id = ?", userID, topicID).First(&existing).Error
		switch {
		case err == nil:
			isFavorite = false
			return tx.Delete(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			isFavorite = true
			return tx.Create(&Favorite{UserID: userID, TopicID: topicID}).Error
		default:
			return err
		}
	})
	if err != nil {
		return false, apperr.Dependency(err)
	}
	return isFavorite, nil
}
