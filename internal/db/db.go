package db

import (
	"backend/internal/app/board"
	"backend/internal/app/comment"
	"backend/internal/app/favorite"
	"backend/internal/app/invitation"
	"backend/internal/app/topic"
	"backend/internal/app/user"
	"backend/internal/app/vote"
	"backend/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.PostgresDSN()
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	logger.Info("Connected to PostgreSQL",
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName),
	)

	return db, nil
}

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	err := db.AutoMigrate(
		&user.User{},
		&invitation.InvitationCode{},
		&board.BoardRequirement{},
		&topic.Topic{},
		&topic.PollOption{},
		&topic.PollVote{},
		&topic.DailyTopicTracking{},
		&comment.Comment{},
		&vote.Vote{},
		&favorite.Favorite{},
	)
	if err != nil {
		return err
	}

	logger.Info("Database migrations applied")
	return nil
}
