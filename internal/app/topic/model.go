package topic

import (
	"time"

	"backend/internal/app/comment"
)

const (
	TypeDiscussion = "discussion"
	TypePoll       = "poll"
)

type Topic struct {
	ID                 string  `gorm:"primaryKey;size:255"`
	Title              string  `gorm:"type:text;not null"`
	Description        string  `gorm:"type:text;not null"`
	Category           string  `gorm:"size:50;not null"`
	AuthorID           string  `gorm:"size:255;not null;index"`
	AuthorName         string  `gorm:"size:100;not null"`
	AIAnalysis         *string `gorm:"column:ai_analysis;type:text"`
	IsAnalyzing        bool    `gorm:"not null;default:false"`
	CredibleVotes      int     `gorm:"not null;default:0"`
	ControversialVotes int     `gorm:"not null;default:0"`
	Type               string  `gorm:"size:20;not null;default:'discussion'"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type PollOption struct {
	ID        string `gorm:"primaryKey;size:255"`
	TopicID   string `gorm:"size:255;not null;index"`
	Text      string `gorm:"type:text;not null"`
	VoteCount int    `gorm:"not null;default:0"`
}

type PollVote struct {
	UserID   string `gorm:"primaryKey;size:255"`
	TopicID  string `gorm:"primaryKey;size:255"`
	OptionID string `gorm:"size:255;not null"`
}

// DailyTopicTracking counts topics created per user per calendar day. The
// date component of the key is what resets the counter.
type DailyTopicTracking struct {
	UserID     string `gorm:"primaryKey;size:255"`
	Date       string `gorm:"primaryKey;type:date"`
	TopicCount int    `gorm:"not null;default:0"`
}

func (DailyTopicTracking) TableName() string {
	return "daily_topic_tracking"
}

type CreateTopicRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description" binding:"required"`
	Category    string              `json:"category" binding:"required"`
	Type        string              `json:"type"`
	Options     []PollOptionRequest `json:"options"`
}

type PollOptionRequest struct {
	Text string `json:"text" binding:"required"`
}

type PollVoteRequest struct {
	TopicID  string `json:"topicId" binding:"required"`
	OptionID string `json:"optionId" binding:"required"`
}

type AnalysisRequest struct {
	Analysis string `json:"analysis" binding:"required"`
}

type PollOptionResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"voteCount"`
}

type TopicResponse struct {
	ID                 string                     `json:"id"`
	Title              string                     `json:"title"`
	Description        string                     `json:"description"`
	Category           string                     `json:"category"`
	AuthorName         string                     `json:"authorName"`
	Timestamp          int64                      `json:"timestamp"`
	AIAnalysis         *string                    `json:"aiAnalysis,omitempty"`
	IsAnalyzing        bool                       `json:"isAnalyzing"`
	CredibleVotes      int                        `json:"credibleVotes"`
	ControversialVotes int                        `json:"controversialVotes"`
	Type               string                     `json:"type"`
	Options            []PollOptionResponse       `json:"options"`
	UserPollVoteID     *string                    `json:"userPollVoteId,omitempty"`
	Comments           []*comment.CommentResponse `json:"comments"`
	IsFavorite         bool                       `json:"isFavorite"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
