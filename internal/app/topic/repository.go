package topic

import "gorm.io/gorm"

type Repository interface {
	ListAll() ([]*Topic, error)
	GetByID(id string) (*Topic, error)
	ListPollOptions() ([]*PollOption, error)
	StoreAnalysis(topicID, analysis string) error
	UserPollVotes(userID string) (map[string]string, error)
	UserFavorites(userID string) (map[string]bool, error)
	Transaction(fn func(tx *gorm.DB) error) error
	// DailyCountForUpdate locks the author's tracking row for the day so
	// two near-limit creations serialize instead of both slipping under
	// the cap. A missing row reads as zero.
	DailyCountForUpdate(tx *gorm.DB, userID, date string) (int, error)
	InsertTopic(tx *gorm.DB, t *Topic, options []PollOption) error
	BumpDailyCount(tx *gorm.DB, userID, date string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAll() ([]*Topic, error) {
	var topics []*Topic
	err := r.db.Order("created_at DESC").Find(&topics).Error
	return topics, err
}

func (r *repository) GetByID(id string) (*Topic, error) {
	var topic Topic
	err := r.db.Where("id = ?", id).First(&topic).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *repository) ListPollOptions() ([]*PollOption, error) {
	var options []*PollOption
	err := r.db.Find(&options).Error
	return options, err
}

func (r *repository) StoreAnalysis(topicID, analysis string) error {
	return r.db.Model(&Topic{}).
		Where("id = ?", topicID).
		Updates(map[string]interface{}{
			"ai_analysis":  analysis,
			"is_analyzing": false,
		}).Error
}

func (r *repository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *repository) DailyCountForUpdate(tx *gorm.DB, userID, date string) (int, error) {
	var count int
	err := tx.Raw(`
        SELECT topic_count FROM daily_topic_tracking
        WHERE user_id = ? AND date = ?
        FOR UPDATE
    `, userID, date).Scan(&count).Error
	return count, err
}

func (r *repository) InsertTopic(tx *gorm.DB, t *Topic, options []PollOption) error {
	if err := tx.Create(t).Error; err != nil {
		return err
	}
	if len(options) > 0 {
		return tx.Create(&options).Error
	}
	return nil
}

func (r *repository) BumpDailyCount(tx *gorm.DB, userID, date string) error {
	return tx.Exec(`
        INSERT INTO daily_topic_tracking (user_id, date, topic_count)
        VALUES (?, ?, 1)
        ON CONFLICT (user_id, date) DO UPDATE SET
            topic_count = daily_topic_tracking.topic_count + 1
    `, userID, date).Error
}

func (r *repository) UserPollVotes(userID string) (map[string]string, error) {
	var votes []PollVote
	if err := r.db.Where("user_id = ?", userID).Find(&votes).Error; err != nil {
		return nil, err
	}
	byTopic := make(map[string]string, len(votes))
	for _, v := range votes {
		byTopic[v.TopicID] = v.OptionID
	}
	return byTopic, nil
}

func (r *repository) UserFavorites(userID string) (map[string]bool, error) {
	var topicIDs []string
	err := r.db.Table("favorites").
		Where("user_id = ?", userID).
		Pluck("topic_id", &topicIDs).Error
	if err != nil {
		return nil, err
	}
	favs := make(map[string]bool, len(topicIDs))
	for _, id := range topicIDs {
		favs[id] = true
	}
	return favs, nil
}
