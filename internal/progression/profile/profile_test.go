package profile_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Majdiscode/calinode/internal/docstore"
	"github.com/Majdiscode/calinode/internal/progression/profile"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) docstore.Store {
	t.Helper()
	store, err := docstore.NewDisk(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestClassify(t *testing.T) {
	for name, tc := range map[string]struct {
		result   profile.AssessmentResult
		expected profile.FitnessLevel
	}{
		"all zero": {
			result:   profile.AssessmentResult{},
			expected: profile.LevelBeginner,
		},
		"just below every lowest breakpoint": {
			result:   profile.AssessmentResult{PushUps: 4, PullUps: 0, PlankSeconds: 29, Squats: 9},
			expected: profile.LevelBeginner,
		},
		"exactly at lowest breakpoints": {
			// subscores 1,1,1,1 -> avg 1.0
			result:   profile.AssessmentResult{PushUps: 5, PullUps: 1, PlankSeconds: 30, Squats: 10},
			expected: profile.LevelNovice,
		},
		"two low subscores average to novice": {
			// subscores 1,1,0,0 -> avg 0.5, inclusive boundary
			result:   profile.AssessmentResult{PushUps: 5, PullUps: 1},
			expected: profile.LevelNovice,
		},
		"mid breakpoints": {
			// subscores 2,2,2,2 -> avg 2.0
			result:   profile.AssessmentResult{PushUps: 15, PullUps: 3, PlankSeconds: 60, Squats: 25},
			expected: profile.LevelIntermediate,
		},
		"intermediate boundary": {
			// subscores 2,2,1,1 -> avg 1.5, inclusive boundary
			result:   profile.AssessmentResult{PushUps: 15, PullUps: 3, PlankSeconds: 30, Squats: 10},
			expected: profile.LevelIntermediate,
		},
		"advanced boundary": {
			// subscores 3,3,2,2 -> avg 2.5, inclusive boundary
			result:   profile.AssessmentResult{PushUps: 30, PullUps: 10, PlankSeconds: 60, Squats: 25},
			expected: profile.LevelAdvanced,
		},
		"all maxed": {
			result:   profile.AssessmentResult{PushUps: 80, PullUps: 25, PlankSeconds: 300, Squats: 100},
			expected: profile.LevelAdvanced,
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, profile.Classify(tc.result))
		})
	}
}

func TestService_CompleteAssessment(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	questsMock := NewMockquestRefresher(ctrl)

	repo := profile.NewRepo(newTestStore(t))
	service := profile.NewService(repo, questsMock)

	questsMock.EXPECT().CompleteAssessmentQuest(gomock.Any(), "user-a").Return(nil)
	questsMock.EXPECT().Regenerate(gomock.Any(), "user-a").Return(nil)

	p, err := service.CompleteAssessment(ctx, "user-a", profile.AssessmentResult{
		PushUps: 20, PullUps: 5, PlankSeconds: 90, Squats: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, profile.LevelIntermediate, p.FitnessLevel)
	assert.Equal(t, 20, p.MaxPushUps)
	assert.Equal(t, profile.DefaultWeeklyGoalMultiplier, p.WeeklyGoalMultiplier)
	assert.WithinDuration(t, time.Now(), p.LastAssessment, time.Minute)

	stored, err := repo.Get(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, p.FitnessLevel, stored.FitnessLevel)
	assert.Equal(t, p.MaxPushUps, stored.MaxPushUps)
}

func TestService_CompleteAssessment_keepsGoalMultiplier(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	questsMock := NewMockquestRefresher(ctrl)

	repo := profile.NewRepo(newTestStore(t))
	require.NoError(t, repo.Save(ctx, "user-a", &profile.CapabilityProfile{
		MaxPushUps:           10,
		FitnessLevel:         profile.LevelNovice,
		WeeklyGoalMultiplier: 1.2,
	}))

	service := profile.NewService(repo, questsMock)
	questsMock.EXPECT().CompleteAssessmentQuest(gomock.Any(), "user-a").Return(nil)
	questsMock.EXPECT().Regenerate(gomock.Any(), "user-a").Return(nil)

	p, err := service.CompleteAssessment(ctx, "user-a", profile.AssessmentResult{PushUps: 12})
	require.NoError(t, err)
	assert.Equal(t, 1.2, p.WeeklyGoalMultiplier)
}

func TestRepo_GetNotFound(t *testing.T) {
	repo := profile.NewRepo(newTestStore(t))
	_, err := repo.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}
