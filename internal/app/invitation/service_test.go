package invitation

import (
	"context"
	"mime/multipart"
	"net/http"
	"regexp"
	"testing"
	"time"

	"backend/internal/apperr"
	"backend/internal/app/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(code *InvitationCode) error {
	return m.Called(code).Error(0)
}

func (m *mockRepo) GetByCode(code string) (*InvitationCode, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*InvitationCode), args.Error(1)
}

func (m *mockRepo) GetByCodeTx(tx *gorm.DB, code string) (*InvitationCode, error) {
	args := m.Called(tx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*InvitationCode), args.Error(1)
}

func (m *mockRepo) MarkUsed(tx *gorm.DB, code, userID string, now time.Time) (int64, error) {
	args := m.Called(tx, code, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) CountActive(creatorID string, now time.Time) (int64, error) {
	args := m.Called(creatorID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) ListByCreator(creatorID string) ([]CodeInfo, error) {
	args := m.Called(creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CodeInfo), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(id string) (*user.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(username string) (*user.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(email string) (*user.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) UpdateLevel(userID string, level user.Level) error {
	return m.Called(userID, level).Error(0)
}

func (m *mockUserRepo) UpdateAvatar(userID string, avatarURL string) error {
	return m.Called(userID, avatarURL).Error(0)
}

func (m *mockUserRepo) TouchLoginCount(userID string, today string) (bool, error) {
	args := m.Called(userID, today)
	return args.Bool(0), args.Error(1)
}

type mockUserSvc struct {
	mock.Mock
}

func (m *mockUserSvc) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Profile), args.Error(1)
}

// Reconcile is a passthrough so tests control the level via the stored user.
func (m *mockUserSvc) Reconcile(u *user.User, now time.Time) (*user.User, error) {
	return u, nil
}

func (m *mockUserSvc) UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, userID, file)
	return args.String(0), args.Error(1)
}

func (m *mockUserSvc) InvalidateProfileCache(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

func newTestService(repo Repository, userRepo user.Repository, userSvc user.Service) Service {
	return NewService(repo, userRepo, userSvc, "admin", zap.NewNop())
}

func TestGenerateRejectsLowReputation(t *testing.T) {
	repo := new(mockRepo)
	userRepo := new(mockUserRepo)
	userSvc := new(mockUserSvc)

	userRepo.On("GetByID", "u_1").Return(&user.User{
		ID: "u_1", Username: "carol", Level: user.LevelMember, Reputation: 4,
	}, nil)

	svc := newTestService(repo, userRepo, userSvc)
	resp, err := svc.Generate("u_1")

	require.Error(t, err)
	assert.Nil(t, resp)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "InsufficientReputation", appErr.Code)
	assert.Equal(t, apperr.KindPermission, appErr.Kind)
	assert.Equal(t, 4, appErr.Details["currentReputation"])
	assert.Equal(t, 5, appErr.Details["requiredReputation"])
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestGenerateRejectsTraineeRegardlessOfReputation(t *testing.T) {
	repo := new(mockRepo)
	userRepo := new(mockUserRepo)
	userSvc := new(mockUserSvc)

	// fresh account that somehow collected reputation is still locked out
	userRepo.On("GetByID", "u_1").Return(&user.User{
		ID: "u_1", Username: "carol", Level: user.LevelTrainee, Reputation: 50,
	}, nil)

	svc := newTestService(repo, userRepo, userSvc)
	_, err := svc.Generate("u_1")

	require.Error(t, err)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "LevelTooLow", appErr.Code)
}

func TestGenerateQuotaExceeded(t *testing.T) {
	repo := new(mockRepo)
	userRepo := new(mockUserRepo)
	userSvc := new(mockUserSvc)

	userRepo.On("GetByID", "u_1").Return(&user.User{
		ID: "u_1", Username: "carol", Level: user.LevelMember, Reputation: 20,
	}, nil)
	repo.On("CountActive", "u_1", mock.Anything).Return(int64(3), nil)

	svc := newTestService(repo, userRepo, userSvc)
	_, err := svc.Generate("u_1")

	require.Error(t, err)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "QuotaExceeded", appErr.Code)
	assert.Equal(t, 3, appErr.Details["activeCodes"])
	assert.Equal(t, 3, appErr.Details["maxCodes"])
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestGenerateMintsCodeUnderQuota(t *testing.T) {
	repo := new(mockRepo)
	userRepo := new(mockUserRepo)
	userSvc := new(mockUserSvc)

	userRepo.On("GetByID", "u_1").Return(&user.User{
		ID: "u_1", Username: "dave", Level: user.LevelExpert, Reputation: 150,
	}, nil)
	repo.On("CountActive", "u_1", mock.Anything).Return(int64(2), nil)
	repo.On("Create", mock.Anything).Return(nil)

	svc := newTestService(repo, userRepo, userSvc)
	resp, err := svc.Generate("u_1")

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{12}$`), resp.Code)
	assert.Equal(t, 3, resp.ActiveCodes)
	assert.Equal(t, 10, resp.MaxCodes)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), resp.ExpiresAt, time.Minute)
}

func TestGenerateRetriesOnCodeCollision(t *testing.T) {
	repo := new(mockRepo)
	userRepo := new(mockUserRepo)
	userSvc := new(mockUserSvc)

	userRepo.On("GetByID", "u_1").Return(&user.User{
		ID: "u_1", Username: "dave", Level: user.LevelExpert, Reputation: 150,
	}, nil)
	repo.On("CountActive", "u_1", mock.Anything).Return(int64(0), nil)
	repo.On("Create", mock.Anything).Return(gorm.ErrDuplicatedKey).Once()
	repo.On("Create", mock.Anything).Return(nil).Once()

	svc := newTestService(repo, userRepo, userSvc)
	resp, err := svc.Generate("u_1")

	require.NoError(t, err)
	assert.Len(t, resp.Code, 12)
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestGenerateAdminIsUnbounded(t *testing.T) {
	repo := new(mockRepo)
	userRepo := new(mockUserRepo)
	userSvc := new(mockUserSvc)

	userRepo.On("GetByID", "u_admin").Return(&user.User{
		ID: "u_admin", Username: "root", Level: user.LevelAdmin, Reputation: 9,
	}, nil)
	repo.On("CountActive", "u_admin", mock.Anything).Return(int64(500), nil)
	repo.On("Create", mock.Anything).Return(nil)

	svc := newTestService(repo, userRepo, userSvc)
	resp, err := svc.Generate("u_admin")

	require.NoError(t, err)
	assert.Equal(t, 501, resp.ActiveCodes)
}

func TestGenerateLegacyAdminUsernameIsUnbounded(t *testing.T) {
	repo := new(mockRepo)
	userRepo := new(mockUserRepo)
	userSvc := new(mockUserSvc)

	// member-level account carrying the legacy admin username skips the quota
	userRepo.On("GetByID", "u_1").Return(&user.User{
		ID: "u_1", Username: "admin", Level: user.LevelMember, Reputation: 10,
	}, nil)
	repo.On("CountActive", "u_1", mock.Anything).Return(int64(40), nil)
	repo.On("Create", mock.Anything).Return(nil)

	svc := newTestService(repo, userRepo, userSvc)
	_, err := svc.Generate("u_1")

	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name       string
		stored     *InvitationCode
		storedErr  error
		wantValid  bool
		wantReason string
		wantError  string
	}{
		{
			name:       "unknown code",
			storedErr:  gorm.ErrRecordNotFound,
			wantValid:  false,
			wantReason: ReasonNotFound,
			wantError:  "invitation code not found",
		},
		{
			name:       "already used",
			stored:     &InvitationCode{Code: "AABBCCDDEEFF", IsUsed: true, ExpiresAt: now.Add(time.Hour)},
			wantValid:  false,
			wantReason: ReasonUsed,
			wantError:  "invitation code already used",
		},
		{
			name:       "expired",
			stored:     &InvitationCode{Code: "AABBCCDDEEFF", ExpiresAt: now.Add(-time.Minute)},
			wantValid:  false,
			wantReason: ReasonExpired,
			wantError:  "invitation code expired",
		},
		{
			name:      "valid",
			stored:    &InvitationCode{Code: "AABBCCDDEEFF", ExpiresAt: now.Add(24 * time.Hour)},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			if tt.stored != nil {
				repo.On("GetByCode", "AABBCCDDEEFF").Return(tt.stored, nil)
			} else {
				repo.On("GetByCode", "AABBCCDDEEFF").Return(nil, tt.storedErr)
			}

			svc := newTestService(repo, new(mockUserRepo), new(mockUserSvc))
			resp, err := svc.Validate("aabbccddeeff")

			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, resp.Valid)
			assert.Equal(t, tt.wantReason, resp.Reason)
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}

func TestRedeemLoserGetsConflict(t *testing.T) {
	now := time.Now().UTC()
	repo := new(mockRepo)
	// the conditional update touched no row: another redemption won, or the
	// code expired between validation and redemption
	repo.On("MarkUsed", mock.Anything, "AABBCCDDEEFF", "u_new", now).Return(int64(0), nil)

	svc := newTestService(repo, new(mockUserRepo), new(mockUserSvc))
	invite, err := svc.Redeem(nil, "aabbccddeeff", "u_new", now)

	require.Error(t, err)
	assert.Nil(t, invite)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindConflict, appErr.Kind)
	assert.Equal(t, "InvitationCodeUnavailable", appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus())
	repo.AssertNotCalled(t, "GetByCodeTx", mock.Anything, mock.Anything)
}

func TestRedeemWinnerGetsTheCode(t *testing.T) {
	now := time.Now().UTC()
	repo := new(mockRepo)
	repo.On("MarkUsed", mock.Anything, "AABBCCDDEEFF", "u_new", now).Return(int64(1), nil)
	repo.On("GetByCodeTx", mock.Anything, "AABBCCDDEEFF").Return(&InvitationCode{
		Code:            "AABBCCDDEEFF",
		CreatedByUserID: "u_creator",
		IsUsed:          true,
	}, nil)

	svc := newTestService(repo, new(mockUserRepo), new(mockUserSvc))
	invite, err := svc.Redeem(nil, "aabbccddeeff", "u_new", now)

	require.NoError(t, err)
	assert.Equal(t, "u_creator", invite.CreatedByUserID)
}

func TestQuotaFor(t *testing.T) {
	quota, bounded := QuotaFor(user.LevelTrainee)
	assert.True(t, bounded)
	assert.Equal(t, 0, quota)

	quota, bounded = QuotaFor(user.LevelMember)
	assert.True(t, bounded)
	assert.Equal(t, 3, quota)

	quota, bounded = QuotaFor(user.LevelExpert)
	assert.True(t, bounded)
	assert.Equal(t, 10, quota)

	quota, bounded = QuotaFor(user.LevelModerator)
	assert.True(t, bounded)
	assert.Equal(t, 20, quota)

	_, bounded = QuotaFor(user.LevelAdmin)
	assert.False(t, bounded)
}
