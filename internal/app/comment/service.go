package comment

import (
	"context"
	"fmt"
	"time"

	"backend/internal/apperr"
	"backend/internal/app/user"
	"backend/internal/providers/geoip"
	"backend/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, authorID, clientIP string, req *CreateCommentRequest) (*Comment, error)
	// ListGroupedByTopic returns every comment keyed by topic with the
	// caller's vote annotated, for the combined topics listing.
	ListGroupedByTopic(currentUserID string) (map[string][]*CommentResponse, error)
}

type service struct {
	repo     Repository
	userRepo user.Repository
	dbConn   *gorm.DB
	geoP     *geoip.Provider
	eventBus *utils.EventBus
	logger   *zap.SugaredLogger
}

func NewService(
	repo Repository,
	userRepo user.Repository,
	dbConn *gorm.DB,
	geoP *geoip.Provider,
	eventBus *utils.EventBus,
	logger *zap.Logger,
) Service {
	return &service{
		repo:     repo,
		userRepo: userRepo,
		dbConn:   dbConn,
		geoP:     geoP,
		eventBus: eventBus,
		logger:   logger.Sugar(),
	}
}

func (s *service) Create(ctx context.Context, authorID, clientIP string, req *CreateCommentRequest) (*Comment, error) {
	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, apperr.New(apperr.KindNotFound, "NotFound", "user not found")
	}

	stance := req.Stance
	switch stance {
	case StanceSupport, StanceOppose, StanceNeutral:
	case "":
		stance = StanceNeutral
	default:
		return nil, apperr.New(apperr.KindValidation, "InvalidStance",
			fmt.Sprintf("unknown stance %q", req.Stance))
	}

	commentType := req.Type
	switch commentType {
	case TypeGeneral, TypeSupplement, TypeRefutation:
	case "":
		commentType = TypeGeneral
	default:
		return nil, apperr.New(apperr.KindValidation, "InvalidCommentType",
			fmt.Sprintf("unknown comment type %q", req.Type))
	}

	newComment := &Comment{
		ID:           "c_" + uuid.NewString(),
		TopicID:      req.TopicID,
		AuthorID:     author.ID,
		AuthorName:   author.Username,
		AuthorAvatar: author.AvatarURL,
		Content:      req.Content,
		ParentID:     req.ParentID,
		Type:         commentType,
		Stance:       stance,
		CreatedAt:    time.Now().UTC(),
	}

	// Geolocation is advisory moderator context; a lookup failure must
	// never block comment creation.
	if s.geoP != nil && clientIP != "" {
		if country, err := s.geoP.CountryName(clientIP); err == nil && country != "" {
			newComment.AuthorCountry = &country
		}
	}

	err = s.dbConn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newComment).Error; err != nil {
			return err
		}

		switch stance {
		case StanceSupport:
			return tx.Exec(
				"UPDATE topics SET credible_votes = credible_votes + 1 WHERE id = ?",
				req.TopicID,
			).Error
		case StanceOppose:
			return tx.Exec(
				"UPDATE topics SET controversial_votes = controversial_votes + 1 WHERE id = ?",
				req.TopicID,
			).Error
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Dependency(err)
	}

	if s.eventBus != nil {
		s.eventBus.Publish("comment_created", map[string]interface{}{
			"comment_id": newComment.ID,
			"topic_id":   newComment.TopicID,
			"author_id":  newComment.AuthorID,
			"stance":     newComment.Stance,
			"timestamp":  newComment.CreatedAt.Unix(),
		})
	}

	return newComment, nil
}

func (s *service) ListGroupedByTopic(currentUserID string) (map[string][]*CommentResponse, error) {
	comments, err := s.repo.ListAll()
	if err != nil {
		return nil, apperr.Dependency(err)
	}

	var userVotes map[string]string
	if currentUserID != "" {
		userVotes, err = s.repo.UserVotes(currentUserID)
		if err != nil {
			s.logger.Warnw("Failed to load user votes for annotation", "user_id", currentUserID, "error", err)
			userVotes = nil
		}
	}

	grouped := make(map[string][]*CommentResponse)
	for _, c := range comments {
		resp := c.ToResponse()
		if vote, ok := userVotes[c.ID]; ok {
			v := vote
			resp.UserVote = &v
		}
		grouped[c.TopicID] = append(grouped[c.TopicID], resp)
	}
	return grouped, nil
}
