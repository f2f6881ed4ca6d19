package vote

const (
	TypeUp   = "up"
	TypeDown = "down"
)

// Vote is one voter's current vote on one comment. Absence of a row means
// NoVote; re-clicking the same type deletes the row.
type Vote struct {
	UserID    string `gorm:"primaryKey;size:255"`
	CommentID string `gorm:"primaryKey;size:255"`
	VoteType  string `gorm:"size:10;not null"`
}

type CastVoteRequest struct {
	CommentID string `json:"commentId" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=up down"`
}

type CastVoteResponse struct {
	Success   bool `json:"success"`
	Upvotes   int  `json:"upvotes"`
	Downvotes int  `json:"downvotes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
