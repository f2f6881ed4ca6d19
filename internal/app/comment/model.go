package comment

import "time"

const (
	StanceSupport = "support"
	StanceOppose  = "oppose"
	StanceNeutral = "neutral"

	TypeGeneral    = "general"
	TypeSupplement = "supplement"
	TypeRefutation = "refutation"
)

// Comments are immutable once created: stance tallies are applied exactly
// once at insert time and never re-evaluated.
type Comment struct {
	ID            string  `gorm:"primaryKey;size:255"`
	TopicID       string  `gorm:"size:255;not null;index"`
	AuthorID      string  `gorm:"size:255;not null;index"`
	AuthorName    string  `gorm:"size:255;not null"`
	AuthorAvatar  *string `gorm:"type:text"`
	Content       string  `gorm:"type:text;not null"`
	Upvotes       int     `gorm:"not null;default:0"`
	Downvotes     int     `gorm:"not null;default:0"`
	ParentID      *string `gorm:"size:255"`
	Type          string  `gorm:"size:20;not null;default:'general'"`
	Stance        string  `gorm:"size:20;not null;default:'neutral'"`
	AuthorCountry *string `gorm:"size:64"`
	CreatedAt     time.Time
}

type CreateCommentRequest struct {
	TopicID  string  `json:"topicId" binding:"required"`
	Content  string  `json:"content" binding:"required"`
	ParentID *string `json:"parentId"`
	Type     string  `json:"type"`
	Stance   string  `json:"stance"`
}

type CommentResponse struct {
	ID            string  `json:"id"`
	TopicID       string  `json:"topicId"`
	AuthorID      string  `json:"authorId"`
	AuthorName    string  `json:"authorName"`
	AuthorAvatar  *string `json:"authorAvatar,omitempty"`
	Content       string  `json:"content"`
	Upvotes       int     `json:"upvotes"`
	Downvotes     int     `json:"downvotes"`
	Timestamp     int64   `json:"timestamp"`
	ParentID      *string `json:"parentId,omitempty"`
	Type          string  `json:"type"`
	Stance        string  `json:"stance"`
	AuthorCountry *string `json:"authorCountry,omitempty"`
	UserVote      *string `json:"userVote,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (c *Comment) ToResponse() *CommentResponse {
	return &CommentResponse{
		ID:            c.ID,
		TopicID:       c.TopicID,
		AuthorID:      c.AuthorID,
		AuthorName:    c.AuthorName,
		AuthorAvatar:  c.AuthorAvatar,
		Content:       c.Content,
		Upvotes:       c.Upvotes,
		Downvotes:     c.Downvotes,
		Timestamp:     c.CreatedAt.UnixMilli(),
		ParentID:      c.ParentID,
		Type:          c.Type,
		Stance:        c.Stance,
		AuthorCountry: c.AuthorCountry,
	}
}
