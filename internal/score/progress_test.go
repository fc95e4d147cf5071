package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name                      string
		starting, current, target float64
		want                      int
	}{
		{"reduction halfway", 80, 75, 70, 50},
		{"reduction reached", 80, 70, 70, 100},
		{"reduction overshoot clamps", 80, 65, 70, 100},
		{"reduction gained weight clamps", 80, 85, 70, 0},
		{"increase reached", 0, 10000, 10000, 100},
		{"increase partial", 0, 2500, 10000, 25},
		{"increase rounds half up", 0, 1, 200, 1},
		{"increase below start clamps", 10, 5, 20, 0},
		{"zero range", 5, 5, 5, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Progress(tt.starting, tt.current, tt.target))
		})
	}
}

func newGoal(starting, current, target float64) *internal.Goal {
	return &internal.Goal{
		Category:      internal.CategorySteps,
		StartingValue: floatPtr(starting),
		CurrentValue:  current,
		TargetValue:   target,
		Status:        internal.StatusNotStarted,
	}
}

func TestRecomputeTransitions(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	g := newGoal(0, 0, 10000)
	assert.False(t, Recompute(g, now))
	assert.Equal(t, internal.StatusNotStarted, g.Status)

	g.CurrentValue = 4000
	assert.False(t, Recompute(g, now))
	assert.Equal(t, internal.StatusInProgress, g.Status)
	assert.Equal(t, 40, g.Progress)

	g.CurrentValue = 10000
	assert.True(t, Recompute(g, now))
	assert.Equal(t, internal.StatusCompleted, g.Status)
	require.NotNil(t, g.CompletedDate)
	assert.Equal(t, now, *g.CompletedDate)
}

func TestRecomputeIsIdempotentOnceCompleted(t *testing.T) {
	first := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newGoal(0, 10000, 10000)
	require.True(t, Recompute(g, first))

	later := first.Add(48 * time.Hour)
	assert.False(t, Recompute(g, later))
	assert.False(t, Recompute(g, later))
	assert.Equal(t, first, *g.CompletedDate)
	assert.Equal(t, internal.StatusCompleted, g.Status)
}

func TestRecomputeNeverLeavesAbandoned(t *testing.T) {
	g := newGoal(0, 0, 100)
	g.Status = internal.StatusAbandoned
	g.CurrentValue = 100

	assert.False(t, Recompute(g, time.Now()))
	assert.Equal(t, internal.StatusAbandoned, g.Status)
	assert.Nil(t, g.CompletedDate)
	assert.Equal(t, 100, g.Progress)
}

func TestRecomputeWithoutStartingValueUsesCurrent(t *testing.T) {
	g := &internal.Goal{CurrentValue: 40, TargetValue: 100}
	Recompute(g, time.Now())
	assert.Equal(t, 0, g.Progress)
	assert.Equal(t, internal.StatusNotStarted, g.Status)
}

func TestForceComplete(t *testing.T) {
	now := time.Now()
	g := newGoal(80, 78, 70)
	ForceComplete(g, now)
	assert.Equal(t, 70.0, g.CurrentValue)
	assert.Equal(t, 100, g.Progress)
	assert.Equal(t, internal.StatusCompleted, g.Status)
	assert.Equal(t, now, *g.CompletedDate)
}

func TestMarkMilestones(t *testing.T) {
	now := time.Now()

	up := newGoal(0, 6000, 10000)
	up.Milestones = []internal.Milestone{{Value: 2500}, {Value: 5000}, {Value: 7500}}
	assert.Equal(t, 2, MarkMilestones(up, now))
	assert.True(t, up.Milestones[0].Achieved)
	assert.True(t, up.Milestones[1].Achieved)
	assert.False(t, up.Milestones[2].Achieved)
	assert.Equal(t, 0, MarkMilestones(up, now))

	down := newGoal(80, 76, 70)
	down.Milestones = []internal.Milestone{{Value: 78}, {Value: 75}}
	assert.Equal(t, 1, MarkMilestones(down, now))
	assert.True(t, down.Milestones[0].Achieved)
	assert.False(t, down.Milestones[1].Achieved)
}
