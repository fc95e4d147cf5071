package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

func completedGoal(cat internal.Category, start, done, target time.Time) *internal.Goal {
	return &internal.Goal{
		Category:      cat,
		StartingValue: floatPtr(80),
		CurrentValue:  70,
		TargetValue:   70,
		StartDate:     start,
		TargetDate:    target,
		CompletedDate: &done,
		Status:        internal.StatusCompleted,
	}
}

func TestAwardPointsFullBreakdown(t *testing.T) {
	done := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	g := completedGoal(internal.CategoryWeightLoss, done.AddDate(0, 0, -65), done, done.AddDate(0, 0, 10))
	g.Milestones = []internal.Milestone{{Value: 78, Achieved: true}, {Value: 75, Achieved: true}, {Value: 72}}

	b, err := AwardPoints(g)
	require.NoError(t, err)
	assert.Equal(t, Breakdown{
		Base:                 100,
		EarlyCompletionBonus: 50,
		CategoryBonus:        50,
		ProgressBonus:        25,
		CommitmentBonus:      40,
		MilestoneBonus:       20,
		Total:                285,
	}, b)
}

func TestAwardPointsEarlyTiers(t *testing.T) {
	done := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		early time.Duration
		want  int
	}{
		{"a week early", 7 * internal.Day, 50},
		{"three days early", 3 * internal.Day, 30},
		{"partial day rounds up", 2*internal.Day + time.Hour, 30},
		{"one hour early", time.Hour, 20},
		{"on the deadline", 0, 0},
		{"late", -2 * internal.Day, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := completedGoal(internal.CategoryOther, done, done, done.Add(tt.early))
			b, err := AwardPoints(g)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.EarlyCompletionBonus)
		})
	}
}

func TestAwardPointsCommitmentTiers(t *testing.T) {
	done := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		days int
		want int
	}{
		{60, 40}, {59, 25}, {30, 25}, {14, 15}, {13, 0}, {0, 0},
	}
	for _, tt := range tests {
		g := completedGoal(internal.CategoryOther, done.AddDate(0, 0, -tt.days), done, done)
		b, err := AwardPoints(g)
		require.NoError(t, err)
		assert.Equal(t, tt.want, b.CommitmentBonus, "days=%d", tt.days)
	}
}

func TestAwardPointsCategoryTable(t *testing.T) {
	want := map[internal.Category]int{
		internal.CategoryWeightLoss:       50,
		internal.CategoryWeightGain:       50,
		internal.CategoryMuscleBuilding:   45,
		internal.CategoryCardio:           40,
		internal.CategoryStressManagement: 40,
		internal.CategorySleep:            35,
		internal.CategoryFlexibility:      30,
		internal.CategoryNutrition:        30,
		internal.CategoryHydration:        25,
		internal.CategorySteps:            25,
		internal.CategoryGeneralFitness:   20,
		internal.CategoryOther:            15,
	}
	for _, c := range internal.Categories {
		bonus, err := CategoryBonus(c)
		require.NoError(t, err)
		assert.Equal(t, want[c], bonus, string(c))
	}

	_, err := CategoryBonus("Underwater Basket Weaving")
	assert.ErrorIs(t, err, internal.ErrInvalidInput)
}

func TestAwardPointsProgressBonus(t *testing.T) {
	g := &internal.Goal{Category: internal.CategorySteps, StartingValue: floatPtr(0), CurrentValue: 9999, TargetValue: 10000}
	b, err := AwardPoints(g)
	require.NoError(t, err)
	assert.Equal(t, 0, b.ProgressBonus)
	assert.Equal(t, 125, b.Total)

	g.CurrentValue = 10000
	b, err = AwardPoints(g)
	require.NoError(t, err)
	assert.Equal(t, 25, b.ProgressBonus)

	flat := &internal.Goal{Category: internal.CategorySteps, StartingValue: floatPtr(5), CurrentValue: 5, TargetValue: 5}
	b, err = AwardPoints(flat)
	require.NoError(t, err)
	assert.Equal(t, 0, b.ProgressBonus)
}
