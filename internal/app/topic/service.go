package topic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/apperr"
	"backend/internal/app/board"
	"backend/internal/app/comment"
	"backend/internal/app/user"
	"backend/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Service interface {
	// Create runs the full admission sequence: board gate, then the daily
	// limiter, then the insert plus tracking upsert in one transaction.
	Create(ctx context.Context, authorID string, req *CreateTopicRequest) (*Topic, error)
	List(ctx context.Context, currentUserID string) ([]*TopicResponse, error)
	StoreAnalysis(topicID, analysis string) error
	CastPollVote(ctx context.Context, userID string, req *PollVoteRequest) error
}

type service struct {
	repo       Repository
	boardSvc   board.Service
	commentSvc comment.Service
	userRepo   user.Repository
	userSvc    user.Service
	eventBus   *utils.EventBus
	dailyLimit int
	logger     *zap.SugaredLogger
}

func NewService(
	repo Repository,
	boardSvc board.Service,
	commentSvc comment.Service,
	userRepo user.Repository,
	userSvc user.Service,
	eventBus *utils.EventBus,
	dailyLimit int,
	logger *zap.Logger,
) Service {
	return &service{
		repo:       repo,
		boardSvc:   boardSvc,
		commentSvc: commentSvc,
		userRepo:   userRepo,
		userSvc:    userSvc,
		eventBus:   eventBus,
		dailyLimit: dailyLimit,
		logger:     logger.Sugar(),
	}
}

func (s *service) Create(ctx context.Context, authorID string, req *CreateTopicRequest) (*Topic, error) {
	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, apperr.New(apperr.KindNotFound, "NotFound", "user not found")
	}

	now := time.Now().UTC()
	author, err = s.userSvc.Reconcile(author, now)
	if err != nil {
		return nil, apperr.Dependency(err)
	}

	access, err := s.boardSvc.CheckAccess(author, req.Category)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess {
		appErr := apperr.New(apperr.KindPermission, "InsufficientPermission",
			fmt.Sprintf("posting to %q requires additional qualifications", req.Category)).
			With("missingRequirements", access.MissingRequirements)
		return nil, appErr
	}

	topicType := req.Type
	if topicType == "" {
		topicType = TypeDiscussion
	}
	if topicType == TypePoll && len(req.Options) < 2 {
		return nil, apperr.New(apperr.KindValidation, "InvalidPoll", "a poll needs at least 2 options")
	}

	newTopic := &Topic{
		ID:          "t_" + uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		AuthorID:    author.ID,
		AuthorName:  author.Username,
		Type:        topicType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var options []PollOption
	if topicType == TypePoll {
		options = make([]PollOption, 0, len(req.Options))
		for _, opt := range req.Options {
			options = append(options, PollOption{
				ID:      "opt_" + uuid.NewString(),
				TopicID: newTopic.ID,
				Text:    opt.Text,
			})
		}
	}

	today := now.Format(dateLayout)
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		count, err := s.repo.DailyCountForUpdate(tx, author.ID, today)
		if err != nil {
			return err
		}

		if count >= s.dailyLimit {
			return apperr.New(apperr.KindRateLimit, "DailyLimitExceeded",
				"daily topic creation limit reached").
				With("current", count).
				With("limit", s.dailyLimit)
		}

		if err := s.repo.InsertTopic(tx, newTopic, options); err != nil {
			return err
		}

		return s.repo.BumpDailyCount(tx, author.ID, today)
	})
	if err != nil {
		if _, ok := apperr.From(err); ok {
			return nil, err
		}
		return nil, apperr.Dependency(err)
	}

	if s.eventBus != nil {
		s.eventBus.Publish("topic_created", map[string]interface{}{
			"topic_id":  newTopic.ID,
			"category":  newTopic.Category,
			"author_id": author.ID,
			"type":      newTopic.Type,
			"timestamp": now.Unix(),
		})
	}

	s.logger.Infow("Topic created",
		"topic_id", newTopic.ID, "author_id", author.ID, "category", newTopic.Category)

	return newTopic, nil
}

func (s *service) List(ctx context.Context, currentUserID string) ([]*TopicResponse, error) {
	topics, err := s.repo.ListAll()
	if err != nil {
		return nil, apperr.Dependency(err)
	}

	options, err := s.repo.ListPollOptions()
	if err != nil {
		return nil, apperr.Dependency(err)
	}
	optionsByTopic := make(map[string][]PollOptionResponse)
	for _, opt := range options {
		optionsByTopic[opt.TopicID] = append(optionsByTopic[opt.TopicID], PollOptionResponse{
			ID:        opt.ID,
			Text:      opt.Text,
			VoteCount: opt.VoteCount,
		})
	}

	commentsByTopic, err := s.commentSvc.ListGroupedByTopic(currentUserID)
	if err != nil {
		return nil, err
	}

	var pollVotes map[string]string
	var favorites map[string]bool
	if currentUserID != "" {
		if pollVotes, err = s.repo.UserPollVotes(currentUserID); err != nil {
			s.logger.Warnw("Failed to load poll votes for annotation", "error", err)
		}
		if favorites, err = s.repo.UserFavorites(currentUserID); err != nil {
			s.logger.Warnw("Failed to load favorites for annotation", "error", err)
		}
	}

	result := make([]*TopicResponse, 0, len(topics))
	for _, t := range topics {
		resp := &TopicResponse{
			ID:                 t.ID,
			Title:              t.Title,
			Description:        t.Description,
			Category:           t.Category,
			AuthorName:         t.AuthorName,
			Timestamp:          t.CreatedAt.UnixMilli(),
			AIAnalysis:         t.AIAnalysis,
			IsAnalyzing:        t.IsAnalyzing,
			CredibleVotes:      t.CredibleVotes,
			ControversialVotes: t.ControversialVotes,
			Type:               t.Type,
			Options:            optionsByTopic[t.ID],
			Comments:           commentsByTopic[t.ID],
			IsFavorite:         favorites[t.ID],
		}
		if resp.Options == nil {
			resp.Options = []PollOptionResponse{}
		}
		if resp.Comments == nil {
			resp.Comments = []*comment.CommentResponse{}
		}
		if optID, ok := pollVotes[t.ID]; ok {
			id := optID
			resp.UserPollVoteID = &id
		}
		result = append(result, resp)
	}
	return result, nil
}

func (s *service) StoreAnalysis(topicID, analysis string) error {
	if _, err := s.repo.GetByID(topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.KindNotFound, "NotFound", "topic not found")
		}
		return apperr.Dependency(err)
	}
	if err := s.repo.StoreAnalysis(topicID, analysis); err != nil {
		return apperr.Dependency(err)
	}
	return nil
}

func (s *service) CastPollVote(ctx context.Context, userID string, req *PollVoteRequest) error {
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		var existing PollVote
		err := tx.Raw(`
            SELECT user_id, topic_id, option_id FROM poll_votes
            WHERE user_id = ? AND topic_id = ?
            FOR UPDATE
        `, userID, req.TopicID).Scan(&existing).Error
		if err != nil {
			return err
		}

		if existing.OptionID == req.OptionID {
			return nil
		}

		if existing.OptionID != "" {
			if err := tx.Exec(
				"UPDATE poll_options SET vote_count = vote_count - 1 WHERE id = ?",
				existing.OptionID,
			).Error; err != nil {
				return err
			}
			if err := tx.Exec(
				"UPDATE poll_votes SET option_id = ? WHERE user_id = ? AND topic_id = ?",
				req.OptionID, userID, req.TopicID,
			).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Create(&PollVote{
				UserID:   userID,
				TopicID:  req.TopicID,
				OptionID: req.OptionID,
			}).Error; err != nil {
				return err
			}
		}

		return tx.Exec(
			"UPDATE poll_options SET vote_count = vote_count + 1 WHERE id = ?",
			req.OptionID,
		).Error
	})
	if err != nil {
		return apperr.Dependency(err)
	}
	return nil
}
