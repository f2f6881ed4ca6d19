package seeder

import (
	"time"

	"backend/internal/app/board"
	"backend/internal/app/topic"
	"backend/internal/app/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

func (s *Seeder) Seed() error {
	s.logger.Info("Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		return err
	}
	if err := s.seedBoardRequirements(); err != nil {
		return err
	}
	if err := s.seedTopics(); err != nil {
		return err
	}

	s.logger.Info("Database seeders completed successfully")
	return nil
}

func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&user.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), 10)
	if err != nil {
		return err
	}

	avatar := "https://api.dicebear.com/7.x/avataaars/svg?seed=admin"
	admin := &user.User{
		ID:           "u_admin",
		Username:     "admin",
		Email:        "admin@truthboard.local",
		PasswordHash: string(hash),
		AvatarURL:    &avatar,
		Level:        user.LevelAdmin,
		IsVerified:   true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded default admin user")
	return nil
}

func (s *Seeder) seedBoardRequirements() error {
	var count int64
	s.db.Model(&board.BoardRequirement{}).Count(&count)
	if count > 0 {
		s.logger.Info("Board requirements already exist, skipping seed")
		return nil
	}

	requirements := []board.BoardRequirement{
		{BoardCategory: "Politics", MinLoginCount: intPtr(30), MinReputation: intPtr(10)},
		{BoardCategory: "Finance", MinReputation: intPtr(20)},
		{BoardCategory: "Moderation", MinLevel: strPtr(string(user.LevelModerator))},
	}

	if err := s.db.Create(&requirements).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded board requirements", zap.Int("count", len(requirements)))
	return nil
}

func (s *Seeder) seedTopics() error {
	var count int64
	s.db.Model(&topic.Topic{}).Count(&count)
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	topics := []topic.Topic{
		{
			ID:          "t_seed_brain",
			Title:       "Do humans really use only 10% of their brains?",
			Description: "A long-lived claim popularized by movies. Does neuroimaging support the idea that most of the brain sits idle?",
			Category:    "Science",
			AuthorID:    "u_admin",
			AuthorName:  "admin",
			Type:        topic.TypeDiscussion,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "t_seed_cardio",
			Title:       "Which exercise is best for cardiovascular health?",
			Description: "Cast your vote.",
			Category:    "Health",
			AuthorID:    "u_admin",
			AuthorName:  "admin",
			Type:        topic.TypePoll,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	if err := s.db.Create(&topics).Error; err != nil {
		return err
	}

	options := []topic.PollOption{
		{ID: "opt_seed_run", TopicID: "t_seed_cardio", Text: "Running"},
		{ID: "opt_seed_swim", TopicID: "t_seed_cardio", Text: "Swimming"},
		{ID: "opt_seed_hiit", TopicID: "t_seed_cardio", Text: "HIIT"},
		{ID: "opt_seed_weights", TopicID: "t_seed_cardio", Text: "Weight training"},
	}
	if err := s.db.Create(&options).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded sample topics", zap.Int("count", len(topics)))
	return nil
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}
