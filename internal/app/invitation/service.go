package invitation

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/internal/apperr"
	"backend/internal/app/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	codeValidityDays      = 30
	generateMinReputation = 5
	codeByteLength        = 6
	maxMintAttempts       = 5
)

type Service interface {
	Generate(callerID string) (*GenerateResponse, error)
	Validate(code string) (*ValidateResponse, error)
	ListFor(callerID string) ([]CodeInfo, error)
	// Redeem marks the code used inside the caller's transaction. Exactly
	// one concurrent redemption can win because the update is conditional
	// on is_used at the SQL level.
	Redeem(tx *gorm.DB, code, newUserID string, now time.Time) (*InvitationCode, error)
}

type service struct {
	repo                Repository
	userSvc             user.Service
	userRepo            user.Repository
	legacyAdminUsername string
	logger              *zap.SugaredLogger
}

func NewService(repo Repository, userRepo user.Repository, userSvc user.Service, legacyAdminUsername string, logger *zap.Logger) Service {
	return &service{
		repo:                repo,
		userRepo:            userRepo,
		userSvc:             userSvc,
		legacyAdminUsername: legacyAdminUsername,
		logger:              logger.Sugar(),
	}
}

func (s *service) Generate(callerID string) (*GenerateResponse, error) {
	caller, err := s.userRepo.GetByID(callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "NotFound", "user not found")
		}
		return nil, apperr.Dependency(err)
	}

	now := time.Now().UTC()
	caller, err = s.userSvc.Reconcile(caller, now)
	if err != nil {
		return nil, apperr.Dependency(err)
	}

	if caller.Reputation < generateMinReputation {
		return nil, apperr.New(apperr.KindPermission, "InsufficientReputation",
			fmt.Sprintf("reputation >= %d required to generate invitation codes", generateMinReputation)).
			With("currentReputation", caller.Reputation).
			With("requiredReputation", generateMinReputation)
	}

	if caller.Level == user.LevelTrainee {
		return nil, apperr.New(apperr.KindPermission, "LevelTooLow",
			"trainee accounts cannot issue invitations; accounts upgrade to member automatically after 3 days")
	}

	maxCodes, bounded := QuotaFor(caller.Level)
	if user.IsAdmin(caller, s.legacyAdminUsername) {
		bounded = false
	}

	active, err := s.repo.CountActive(callerID, now)
	if err != nil {
		return nil, apperr.Dependency(err)
	}

	if bounded && int(active) >= maxCodes {
		return nil, apperr.New(apperr.KindPermission, "QuotaExceeded",
			"active invitation code quota reached").
			With("activeCodes", int(active)).
			With("maxCodes", maxCodes)
	}

	invite, err := s.mint(callerID, now)
	if err != nil {
		return nil, apperr.Dependency(err)
	}

	s.logger.Infow("Invitation code generated",
		"user_id", callerID, "code", invite.Code, "expires_at", invite.ExpiresAt)

	return &GenerateResponse{
		Code:        invite.Code,
		ExpiresAt:   invite.ExpiresAt,
		ActiveCodes: int(active) + 1,
		MaxCodes:    maxCodes,
	}, nil
}

func (s *service) mint(creatorID string, now time.Time) (*InvitationCode, error) {
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return nil, err
		}
		invite := &InvitationCode{
			Code:            code,
			CreatedByUserID: creatorID,
			CreatedAt:       now,
			ExpiresAt:       now.AddDate(0, 0, codeValidityDays),
		}
		err = s.repo.Create(invite)
		if err == nil {
			return invite, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to persist invitation code: %w", err)
		}
		// collision, roll a new code
	}
	return nil, fmt.Errorf("failed to mint a unique invitation code after %d attempts", maxMintAttempts)
}

func randomCode() (string, error) {
	buf := make([]byte, codeByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

func (s *service) Validate(code string) (*ValidateResponse, error) {
	invite, err := s.repo.GetByCode(strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidateResponse{Valid: false, Reason: ReasonNotFound, Error: "invitation code not found"}, nil
		}
		return nil, apperr.Dependency(err)
	}

	if invite.IsUsed {
		return &ValidateResponse{Valid: false, Reason: ReasonUsed, Error: "invitation code already used"}, nil
	}
	if time.Now().UTC().After(invite.ExpiresAt) {
		return &ValidateResponse{Valid: false, Reason: ReasonExpired, Error: "invitation code expired"}, nil
	}
	return &ValidateResponse{Valid: true}, nil
}

func (s *service) ListFor(callerID string) ([]CodeInfo, error) {
	codes, err := s.repo.ListByCreator(callerID)
	if err != nil {
		return nil, apperr.Dependency(err)
	}
	return codes, nil
}

func (s *service) Redeem(tx *gorm.DB, code, newUserID string, now time.Time) (*InvitationCode, error) {
	normalized := strings.ToUpper(code)

	affected, err := s.repo.MarkUsed(tx, normalized, newUserID, now)
	if err != nil {
		return nil, apperr.Dependency(err)
	}
	if affected != 1 {
		return nil, apperr.New(apperr.KindConflict, "InvitationCodeUnavailable",
			"invitation code is already used or expired")
	}

	invite, err := s.repo.GetByCodeTx(tx, normalized)
	if err != nil {
		return nil, apperr.Dependency(err)
	}
	return invite, nil
}
