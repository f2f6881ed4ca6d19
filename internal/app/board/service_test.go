package board

import (
	"testing"

	"backend/internal/app/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByCategory(category string) (*BoardRequirement, error) {
	args := m.Called(category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BoardRequirement), args.Error(1)
}

func (m *mockRepo) List() ([]*BoardRequirement, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*BoardRequirement), args.Error(1)
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func politicsRequirement() *BoardRequirement {
	return &BoardRequirement{
		BoardCategory: "politics",
		MinLoginCount: intPtr(30),
		MinReputation: intPtr(10),
	}
}

func TestCheckAccessUnrestrictedCategory(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetByCategory", "general").Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(repo, "admin")
	res, err := svc.CheckAccess(&user.User{Level: user.LevelTrainee}, "general")

	require.NoError(t, err)
	assert.True(t, res.CanAccess)
	assert.Empty(t, res.MissingRequirements)
}

func TestCheckAccessReportsShortfallWithNumbers(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetByCategory", "politics").Return(politicsRequirement(), nil)

	svc := NewService(repo, "admin")
	res, err := svc.CheckAccess(&user.User{
		Username:   "carol",
		Level:      user.LevelMember,
		LoginCount: 29,
		Reputation: 50,
	}, "politics")

	require.NoError(t, err)
	assert.False(t, res.CanAccess)
	require.Len(t, res.MissingRequirements, 1)
	assert.Equal(t, "loginCount", res.MissingRequirements[0].Type)
	assert.Equal(t, 30, res.MissingRequirements[0].Required)
	assert.Equal(t, 29, res.MissingRequirements[0].Current)
}

func TestCheckAccessThresholdsAreInclusive(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetByCategory", "politics").Return(politicsRequirement(), nil)

	svc := NewService(repo, "admin")
	res, err := svc.CheckAccess(&user.User{
		Username:   "carol",
		Level:      user.LevelMember,
		LoginCount: 30,
		Reputation: 10,
	}, "politics")

	require.NoError(t, err)
	assert.True(t, res.CanAccess)
}

func TestCheckAccessReportsAllFailuresTogether(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetByCategory", "moderation").Return(&BoardRequirement{
		BoardCategory: "moderation",
		MinLevel:      strPtr(string(user.LevelModerator)),
		MinReputation: intPtr(20),
		MinLoginCount: intPtr(10),
	}, nil)

	svc := NewService(repo, "admin")
	res, err := svc.CheckAccess(&user.User{
		Username:   "carol",
		Level:      user.LevelMember,
		LoginCount: 2,
		Reputation: 3,
	}, "moderation")

	require.NoError(t, err)
	assert.False(t, res.CanAccess)
	require.Len(t, res.MissingRequirements, 3)

	types := make([]string, 0, len(res.MissingRequirements))
	for _, m := range res.MissingRequirements {
		types = append(types, m.Type)
	}
	assert.ElementsMatch(t, []string{"loginCount", "reputation", "level"}, types)
}

func TestCheckAccessMinLevel(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetByCategory", "moderation").Return(&BoardRequirement{
		BoardCategory: "moderation",
		MinLevel:      strPtr(string(user.LevelModerator)),
	}, nil)

	svc := NewService(repo, "admin")

	res, err := svc.CheckAccess(&user.User{Username: "e", Level: user.LevelExpert}, "moderation")
	require.NoError(t, err)
	assert.False(t, res.CanAccess)

	res, err = svc.CheckAccess(&user.User{Username: "m", Level: user.LevelModerator}, "moderation")
	require.NoError(t, err)
	assert.True(t, res.CanAccess)
}

func TestCheckAccessAdminBypassesEverything(t *testing.T) {
	repo := new(mockRepo)

	svc := NewService(repo, "admin")

	res, err := svc.CheckAccess(&user.User{Username: "root", Level: user.LevelAdmin}, "politics")
	require.NoError(t, err)
	assert.True(t, res.CanAccess)

	// legacy username shim
	res, err = svc.CheckAccess(&user.User{Username: "admin", Level: user.LevelTrainee}, "politics")
	require.NoError(t, err)
	assert.True(t, res.CanAccess)

	repo.AssertNotCalled(t, "GetByCategory", mock.Anything)
}
