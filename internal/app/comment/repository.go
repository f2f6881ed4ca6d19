package comment

import "gorm.io/gorm"

type Repository interface {
	ListAll() ([]*Comment, error)
	// UserVotes maps comment ID to the caller's vote type for annotations.
	UserVotes(userID string) (map[string]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAll() ([]*Comment, error) {
	var comments []*Comment
	err := r.db.Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *repository) UserVotes(userID string) (map[string]string, error) {
	var rows []struct {
		CommentID string
		VoteType  string
	}
	err := r.db.Table("votes").
		Select("comment_id, vote_type").
		Where("user_id = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	votes := make(map[string]string, len(rows))
	for _, row := range rows {
		votes[row.CommentID] = row.VoteType
	}
	return votes, nil
}
