package board

import (
	"errors"

	"backend/internal/apperr"
	"backend/internal/app/user"

	"gorm.io/gorm"
)

type Service interface {
	// CheckAccess evaluates every configured threshold for the category and
	// reports all failures together. The advisory endpoint and the topic
	// admission path both go through this single implementation.
	CheckAccess(u *user.User, category string) (*AccessResult, error)
	ListRequirements() ([]*BoardRequirement, error)
}

type service struct {
	repo                Repository
	legacyAdminUsername string
}

func NewService(repo Repository, legacyAdminUsername string) Service {
	return &service{repo: repo, legacyAdminUsername: legacyAdminUsername}
}

func (s *service) CheckAccess(u *user.User, category string) (*AccessResult, error) {
	if user.IsAdmin(u, s.legacyAdminUsername) {
		return &AccessResult{CanAccess: true}, nil
	}

	req, err := s.repo.GetByCategory(category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &AccessResult{CanAccess: true}, nil
		}
		return nil, apperr.Dependency(err)
	}

	var missing []MissingRequirement

	if req.MinLoginCount != nil && u.LoginCount < *req.MinLoginCount {
		missing = append(missing, MissingRequirement{
			Type:     "loginCount",
			Required: *req.MinLoginCount,
			Current:  u.LoginCount,
		})
	}
	if req.MinReputation != nil && u.Reputation < *req.MinReputation {
		missing = append(missing, MissingRequirement{
			Type:     "reputation",
			Required: *req.MinReputation,
			Current:  u.Reputation,
		})
	}
	if req.MinLevel != nil && user.LevelRank(u.Level) < user.LevelRank(user.Level(*req.MinLevel)) {
		missing = append(missing, MissingRequirement{
			Type:     "level",
			Required: *req.MinLevel,
			Current:  string(u.Level),
		})
	}

	return &AccessResult{
		CanAccess:           len(missing) == 0,
		MissingRequirements: missing,
	}, nil
}

func (s *service) ListRequirements() ([]*BoardRequirement, error) {
	reqs, err := s.repo.List()
	if err != nil {
		return nil, apperr.Dependency(err)
	}
	return reqs, nil
}
