package user

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"time"

	"backend/internal/providers/minio"
	"backend/internal/providers/redis"

	"go.uber.org/zap"
)

const profileCacheTTL = 5 * time.Minute

type Service interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	// Reconcile recomputes the derived tier and persists it when the cached
	// column drifted. Returns the user with the authoritative level set.
	Reconcile(u *User, now time.Time) (*User, error)
	UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (string, error)
	InvalidateProfileCache(ctx context.Context, userID string)
}

type service struct {
	repo   Repository
	redisP *redis.RedisProvider
	minioP *minio.MinioProvider
	logger *zap.SugaredLogger
}

func NewService(repo Repository, redisP *redis.RedisProvider, minioP *minio.MinioProvider, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		redisP: redisP,
		minioP: minioP,
		logger: logger.Sugar(),
	}
}

func (s *service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	cacheKey := fmt.Sprintf("user:profile:%s", userID)

	if s.redisP != nil {
		cached, err := s.redisP.Get(ctx, cacheKey).Result()
		if err == nil && cached != "" {
			var profile Profile
			if json.Unmarshal([]byte(cached), &profile) == nil {
				profile.Reclassify(time.Now().UTC())
				return &profile, nil
			}
		}
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	u, err = s.Reconcile(u, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	profile := u.ToProfile()
	if s.redisP != nil {
		if data, err := json.Marshal(profile); err == nil {
			s.redisP.SetEX(ctx, cacheKey, data, profileCacheTTL)
		}
	}
	return profile, nil
}

func (s *service) Reconcile(u *User, now time.Time) (*User, error) {
	derived := Classify(u, now)
	if derived == u.Level {
		return u, nil
	}
	if err := s.repo.UpdateLevel(u.ID, derived); err != nil {
		return nil, fmt.Errorf("failed to persist level: %w", err)
	}
	u.Level = derived
	return u, nil
}

func (s *service) UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (string, error) {
	if s.minioP == nil {
		return "", fmt.Errorf("avatar storage is not configured")
	}

	url, err := s.minioP.UploadAvatar(ctx, userID, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.repo.UpdateAvatar(userID, url); err != nil {
		return "", fmt.Errorf("failed to save avatar url: %w", err)
	}

	s.InvalidateProfileCache(ctx, userID)
	return url, nil
}

func (s *service) InvalidateProfileCache(ctx context.Context, userID string) {
	if s.redisP == nil {
		return
	}
	cacheKey := fmt.Sprintf("user:profile:%s", userID)
	if err := s.redisP.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Warnw("Failed to invalidate profile cache", "user_id", userID, "error", err)
	}
}
