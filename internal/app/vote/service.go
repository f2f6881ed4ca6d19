package vote

import (
	"context"
	"errors"

	"backend/internal/apperr"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	// Cast applies one transition of the NoVote/Up/Down state machine for
	// (voterID, commentID) and settles the author's reputation.
	Cast(ctx context.Context, voterID string, req *CastVoteRequest) (*CastVoteResponse, error)
}

type service struct {
	dbConn *gorm.DB
	logger *zap.SugaredLogger
}

func NewService(dbConn *gorm.DB, logger *zap.Logger) Service {
	return &service{dbConn: dbConn, logger: logger.Sugar()}
}

type commentRow struct {
	ID        string
	AuthorID  string
	Upvotes   int
	Downvotes int
}

func (s *service) Cast(ctx context.Context, voterID string, req *CastVoteRequest) (*CastVoteResponse, error) {
	var resp CastVoteResponse

	err := s.dbConn.Transaction(func(tx *gorm.DB) error {
		// The comment row is the serialization point: concurrent voters on
		// the same comment queue here instead of losing increments.
		var target commentRow
		err := tx.Raw(`
            SELECT id, author_id, upvotes, downvotes FROM comments
            WHERE id = ?
            FOR UPDATE
        `, req.CommentID).Scan(&target).Error
		if err != nil {
			return err
		}
		if target.ID == "" {
			return apperr.New(apperr.KindNotFound, "NotFound", "comment not found")
		}

		var existing Vote
		prior := ""
		err = tx.Where("user_id = ? AND comment_id = ?", voterID, req.CommentID).First(&existing).Error
		switch {
		case err == nil:
			prior = existing.VoteType
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		upDelta, downDelta, repDelta := transition(prior, req.Type)

		if prior != "" {
			if err := tx.Exec(
				"DELETE FROM votes WHERE user_id = ? AND comment_id = ?",
				voterID, req.CommentID,
			).Error; err != nil {
				return err
			}
		}
		if prior != req.Type {
			if err := tx.Create(&Vote{
				UserID:    voterID,
				CommentID: req.CommentID,
				VoteType:  req.Type,
			}).Error; err != nil {
				return err
			}
		}

		if upDelta != 0 || downDelta != 0 {
			if err := tx.Exec(
				"UPDATE comments SET upvotes = upvotes + ?, downvotes = downvotes + ? WHERE id = ?",
				upDelta, downDelta, req.CommentID,
			).Error; err != nil {
				return err
			}
		}

		if repDelta != 0 {
			// GREATEST keeps a retraction racing an administrative reset
			// from driving reputation negative.
			if err := tx.Exec(
				"UPDATE users SET reputation = GREATEST(reputation + ?, 0) WHERE id = ?",
				repDelta, target.AuthorID,
			).Error; err != nil {
				return err
			}
		}

		resp = CastVoteResponse{
			Success:   true,
			Upvotes:   target.Upvotes + upDelta,
			Downvotes: target.Downvotes + downDelta,
		}
		return nil
	})
	if err != nil {
		if _, ok := apperr.From(err); ok {
			return nil, err
		}
		return nil, apperr.Dependency(err)
	}

	return &resp, nil
}

// transition returns the upvote, downvote and author-reputation deltas for
// one vote request given the voter's prior state. Reputation only ever
// moves with upvotes gained or retracted; downvotes never touch it.
func transition(prior, requested string) (upDelta, downDelta, repDelta int) {
	switch {
	case prior == "" && requested == TypeUp:
		return 1, 0, 1
	case prior == "" && requested == TypeDown:
		return 0, 1, 0
	case prior == TypeUp && requested == TypeUp:
		return -1, 0, -1
	case prior == TypeUp && requested == TypeDown:
		return -1, 1, -1
	case prior == TypeDown && requested == TypeDown:
		return 0, -1, 0
	case prior == TypeDown && requested == TypeUp:
		return 1, -1, 1
	default:
		return 0, 0, 0
	}
}
