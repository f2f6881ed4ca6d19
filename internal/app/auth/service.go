package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/apperr"
	"backend/internal/app/invitation"
	"backend/internal/app/user"
	"backend/internal/config"
	"backend/internal/middleware"
	"backend/internal/providers/redis"
	"backend/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost     = 10
	statusCacheKey = "auth:registration-status"
	statusCacheTTL = 30 * time.Second
	dateLayout     = "2006-01-02"
)

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*user.User, error)
	Login(ctx context.Context, username, password string) (string, *user.Profile, error)
	Me(ctx context.Context, userID string) (*user.Profile, error)
	RegistrationStatus(ctx context.Context) (*RegistrationStatus, error)
}

type service struct {
	userRepo  user.Repository
	userSvc   user.Service
	inviteSvc invitation.Service
	dbConn    *gorm.DB
	redisP    *redis.RedisProvider
	eventBus  *utils.EventBus
	cfg       *config.Config
	logger    *zap.SugaredLogger
}

func NewService(
	userRepo user.Repository,
	userSvc user.Service,
	inviteSvc invitation.Service,
	dbConn *gorm.DB,
	redisP *redis.RedisProvider,
	eventBus *utils.EventBus,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &service{
		userRepo:  userRepo,
		userSvc:   userSvc,
		inviteSvc: inviteSvc,
		dbConn:    dbConn,
		redisP:    redisP,
		eventBus:  eventBus,
		cfg:       cfg,
		logger:    logger.Sugar(),
	}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*user.User, error) {
	total, err := s.userRepo.Count()
	if err != nil {
		return nil, apperr.Dependency(err)
	}
	isEarlyAccess := total < int64(s.cfg.EarlyAccessLimit)

	if req.InvitationCode == "" && !isEarlyAccess {
		return nil, apperr.New(apperr.KindPermission, "InvitationRequired",
			"registration requires a valid invitation code")
	}

	if req.InvitationCode != "" {
		check, err := s.inviteSvc.Validate(req.InvitationCode)
		if err != nil {
			return nil, err
		}
		if !check.Valid {
			// A spent code is a conflict with the earlier redemption, not
			// a malformed request.
			if check.Reason == invitation.ReasonUsed {
				return nil, apperr.New(apperr.KindConflict, "InvitationCodeUnavailable", check.Error)
			}
			return nil, apperr.New(apperr.KindValidation, "InvalidInvitationCode", check.Error)
		}
	}

	if _, err := s.userRepo.GetByEmail(req.Email); err == nil {
		return nil, apperr.New(apperr.KindConflict, "DuplicateEmail", "email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Dependency(err)
	}

	if _, err := s.userRepo.GetByUsername(req.Username); err == nil {
		return nil, apperr.New(apperr.KindConflict, "DuplicateUsername", "username is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Dependency(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	avatarURL := fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", req.Username)
	newUser := &user.User{
		ID:           "u_" + uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		AvatarURL:    &avatarURL,
		Level:        user.LevelTrainee,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Account creation and code redemption commit together or not at all;
	// the conditional redemption update is what makes a concurrently
	// double-spent code lose with a conflict instead of a double redeem.
	err = s.dbConn.Transaction(func(tx *gorm.DB) error {
		if req.InvitationCode != "" {
			invite, err := s.inviteSvc.Redeem(tx, req.InvitationCode, newUser.ID, now)
			if err != nil {
				return err
			}
			newUser.InvitedByUserID = &invite.CreatedByUserID
		}
		return tx.Create(newUser).Error
	})
	if err != nil {
		if _, ok := apperr.From(err); ok {
			return nil, err
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.New(apperr.KindConflict, "DuplicateUsername", "username or email is already taken")
		}
		return nil, apperr.Dependency(err)
	}

	s.invalidateStatusCache(ctx)
	if s.eventBus != nil {
		s.eventBus.Publish("user_registered", map[string]interface{}{
			"user_id":   newUser.ID,
			"username":  newUser.Username,
			"invited":   newUser.InvitedByUserID != nil,
			"timestamp": now.Unix(),
		})
	}

	s.logger.Infow("User registered",
		"user_id", newUser.ID, "username", newUser.Username, "early_access", isEarlyAccess)

	return newUser, nil
}

func (s *service) Login(ctx context.Context, username, password string) (string, *user.Profile, error) {
	u, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperr.New(apperr.KindValidation, "InvalidCredentials", "invalid username or password")
		}
		return "", nil, apperr.Dependency(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, apperr.New(apperr.KindValidation, "InvalidCredentials", "invalid username or password")
	}

	now := time.Now().UTC()
	today := now.Format(dateLayout)
	bumped, err := s.userRepo.TouchLoginCount(u.ID, today)
	if err != nil {
		return "", nil, apperr.Dependency(err)
	}
	if bumped {
		u.LoginCount++
		u.LastLoginDate = &today
	}

	u, err = s.userSvc.Reconcile(u, now)
	if err != nil {
		return "", nil, apperr.Dependency(err)
	}
	s.userSvc.InvalidateProfileCache(ctx, u.ID)

	token, err := middleware.SignToken(s.cfg.JWTSecret, u.ID, u.Username, s.cfg.JWTTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, u.ToProfile(), nil
}

func (s *service) Me(ctx context.Context, userID string) (*user.Profile, error) {
	profile, err := s.userSvc.GetProfile(ctx, userID)
	if err != nil {
		return nil, apperr.New(apperr.KindNotFound, "NotFound", "user not found")
	}
	return profile, nil
}

func (s *service) RegistrationStatus(ctx context.Context) (*RegistrationStatus, error) {
	if s.redisP != nil {
		cached, err := s.redisP.Get(ctx, statusCacheKey).Result()
		if err == nil && cached != "" {
			var status RegistrationStatus
			if json.Unmarshal([]byte(cached), &status) == nil {
				return &status, nil
			}
		}
	}

	total, err := s.userRepo.Count()
	if err != nil {
		return nil, apperr.Dependency(err)
	}

	remaining := s.cfg.EarlyAccessLimit - int(total)
	if remaining < 0 {
		remaining = 0
	}
	status := &RegistrationStatus{
		InvitationRequired: remaining == 0,
		RemainingSlots:     remaining,
		IsEarlyAccess:      remaining > 0,
	}

	if s.redisP != nil {
		if data, err := json.Marshal(status); err == nil {
			s.redisP.SetEX(ctx, statusCacheKey, data, statusCacheTTL)
		}
	}
	return status, nil
}

func (s *service) invalidateStatusCache(ctx context.Context) {
	if s.redisP == nil {
		return
	}
	if err := s.redisP.Del(ctx, statusCacheKey).Err(); err != nil {
		s.logger.Warnw("Failed to invalidate registration status cache", "error", err)
	}
}
