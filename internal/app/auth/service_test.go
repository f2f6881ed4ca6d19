package auth

import (
	"context"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"backend/internal/apperr"
	"backend/internal/app/invitation"
	"backend/internal/app/user"
	"backend/internal/config"
	"backend/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

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

type mockInviteSvc struct {
	mock.Mock
}

func (m *mockInviteSvc) Generate(callerID string) (*invitation.GenerateResponse, error) {
	args := m.Called(callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invitation.GenerateResponse), args.Error(1)
}

func (m *mockInviteSvc) Validate(code string) (*invitation.ValidateResponse, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invitation.ValidateResponse), args.Error(1)
}

func (m *mockInviteSvc) ListFor(callerID string) ([]invitation.CodeInfo, error) {
	args := m.Called(callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invitation.CodeInfo), args.Error(1)
}

func (m *mockInviteSvc) Redeem(tx *gorm.DB, code, newUserID string, now time.Time) (*invitation.InvitationCode, error) {
	args := m.Called(tx, code, newUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invitation.InvitationCode), args.Error(1)
}

type authFixture struct {
	userRepo  *mockUserRepo
	userSvc   *mockUserSvc
	inviteSvc *mockInviteSvc
	cfg       *config.Config
	svc       Service
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userRepo:  new(mockUserRepo),
		userSvc:   new(mockUserSvc),
		inviteSvc: new(mockInviteSvc),
		cfg: &config.Config{
			EarlyAccessLimit: 50,
			JWTSecret:        "test_secret",
			JWTTTL:           time.Hour,
		},
	}
	f.svc = NewService(f.userRepo, f.userSvc, f.inviteSvc, nil, nil, nil, f.cfg, zap.NewNop())
	return f
}

func TestRegisterRequiresInvitationAfterEarlyAccess(t *testing.T) {
	f := newAuthFixture()
	f.userRepo.On("Count").Return(int64(50), nil)

	_, err := f.svc.Register(context.Background(), &RegisterRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "hunter42",
	})

	require.Error(t, err)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "InvitationRequired", appErr.Code)
	assert.Equal(t, apperr.KindPermission, appErr.Kind)
	f.inviteSvc.AssertNotCalled(t, "Validate", mock.Anything)
}

func TestRegisterRejectsInvalidInvitationCode(t *testing.T) {
	f := newAuthFixture()
	f.userRepo.On("Count").Return(int64(120), nil)
	f.inviteSvc.On("Validate", "AABBCCDDEEFF").Return(&invitation.ValidateResponse{
		Valid:  false,
		Error:  "invitation code expired",
		Reason: invitation.ReasonExpired,
	}, nil)

	_, err := f.svc.Register(context.Background(), &RegisterRequest{
		Username:       "carol",
		Email:          "carol@example.com",
		Password:       "hunter42",
		InvitationCode: "AABBCCDDEEFF",
	})

	require.Error(t, err)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "InvalidInvitationCode", appErr.Code)
	assert.Equal(t, "invitation code expired", appErr.Message)
}

func TestRegisterUsedInvitationCodeConflicts(t *testing.T) {
	f := newAuthFixture()
	f.userRepo.On("Count").Return(int64(120), nil)
	f.inviteSvc.On("Validate", "AABBCCDDEEFF").Return(&invitation.ValidateResponse{
		Valid:  false,
		Error:  "invitation code already used",
		Reason: invitation.ReasonUsed,
	}, nil)

	_, err := f.svc.Register(context.Background(), &RegisterRequest{
		Username:       "carol",
		Email:          "carol@example.com",
		Password:       "hunter42",
		InvitationCode: "AABBCCDDEEFF",
	})

	require.Error(t, err)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "InvitationCodeUnavailable", appErr.Code)
	assert.Equal(t, apperr.KindConflict, appErr.Kind)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus())
}

func TestRegisterValidatesCodeEvenDuringEarlyAccess(t *testing.T) {
	f := newAuthFixture()
	f.userRepo.On("Count").Return(int64(3), nil)
	f.inviteSvc.On("Validate", "AABBCCDDEEFF").Return(&invitation.ValidateResponse{
		Valid:  false,
		Error:  "invitation code not found",
		Reason: invitation.ReasonNotFound,
	}, nil)

	_, err := f.svc.Register(context.Background(), &RegisterRequest{
		Username:       "carol",
		Email:          "carol@example.com",
		Password:       "hunter42",
		InvitationCode: "AABBCCDDEEFF",
	})

	require.Error(t, err)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "InvalidInvitationCode", appErr.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.userRepo.On("Count").Return(int64(3), nil)
	f.userRepo.On("GetByEmail", "carol@example.com").Return(&user.User{ID: "u_0"}, nil)

	_, err := f.svc.Register(context.Background(), &RegisterRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "hunter42",
	})

	require.Error(t, err)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "DuplicateEmail", appErr.Code)
	assert.Equal(t, apperr.KindConflict, appErr.Kind)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newAuthFixture()
	f.userRepo.On("Count").Return(int64(3), nil)
	f.userRepo.On("GetByEmail", "carol@example.com").Return(nil, gorm.ErrRecordNotFound)
	f.userRepo.On("GetByUsername", "carol").Return(&user.User{ID: "u_0"}, nil)

	_, err := f.svc.Register(context.Background(), &RegisterRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "hunter42",
	})

	require.Error(t, err)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "DuplicateUsername", appErr.Code)
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter42"), bcrypt.MinCost)
	require.NoError(t, err)

	f.userRepo.On("GetByUsername", "carol").Return(&user.User{
		ID:           "u_1",
		Username:     "carol",
		Email:        "carol@example.com",
		PasswordHash: string(hash),
		Level:        user.LevelMember,
		LoginCount:   4,
		CreatedAt:    time.Now().UTC().AddDate(0, 0, -10),
	}, nil)
	f.userRepo.On("TouchLoginCount", "u_1", mock.Anything).Return(true, nil)
	f.userSvc.On("InvalidateProfileCache", mock.Anything, "u_1").Return()

	token, profile, err := f.svc.Login(context.Background(), "carol", "hunter42")

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "u_1", profile.ID)
	assert.Equal(t, 5, profile.LoginCount)

	claims := &middleware.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test_secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "u_1", claims.UserID)
	assert.Equal(t, "carol", claims.Username)
}

func TestLoginCountBumpedOncePerDay(t *testing.T) {
	f := newAuthFixture()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter42"), bcrypt.MinCost)
	require.NoError(t, err)

	f.userRepo.On("GetByUsername", "carol").Return(&user.User{
		ID:           "u_1",
		Username:     "carol",
		PasswordHash: string(hash),
		Level:        user.LevelMember,
		LoginCount:   4,
	}, nil)
	// second login of the day, the conditional update did not fire
	f.userRepo.On("TouchLoginCount", "u_1", mock.Anything).Return(false, nil)
	f.userSvc.On("InvalidateProfileCache", mock.Anything, "u_1").Return()

	_, profile, err := f.svc.Login(context.Background(), "carol", "hunter42")

	require.NoError(t, err)
	assert.Equal(t, 4, profile.LoginCount)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAuthFixture()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter42"), bcrypt.MinCost)
	require.NoError(t, err)

	f.userRepo.On("GetByUsername", "carol").Return(&user.User{
		ID:           "u_1",
		Username:     "carol",
		PasswordHash: string(hash),
	}, nil)
	f.userRepo.On("GetByUsername", "nobody").Return(nil, gorm.ErrRecordNotFound)

	_, _, err = f.svc.Login(context.Background(), "carol", "wrong")
	require.Error(t, err)
	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "InvalidCredentials", appErr.Code)

	// unknown usernames produce the same error, no account enumeration
	_, _, err = f.svc.Login(context.Background(), "nobody", "whatever")
	require.Error(t, err)
	appErr, ok = apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, "InvalidCredentials", appErr.Code)
}

func TestRegistrationStatus(t *testing.T) {
	tests := []struct {
		name          string
		total         int64
		wantRequired  bool
		wantRemaining int
	}{
		{"fresh install", 0, false, 50},
		{"slots left", 10, false, 40},
		{"exactly full", 50, true, 0},
		{"over the cap", 80, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			f.userRepo.On("Count").Return(tt.total, nil)

			status, err := f.svc.RegistrationStatus(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.wantRequired, status.InvitationRequired)
			assert.Equal(t, tt.wantRemaining, status.RemainingSlots)
			assert.Equal(t, !tt.wantRequired, status.IsEarlyAccess)
		})
	}
}
