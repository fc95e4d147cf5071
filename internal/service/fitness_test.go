package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balasutharsan1247/student-fitness-app/internal"
	"github.com/balasutharsan1247/student-fitness-app/internal/storage"
)

func setupFitness(t *testing.T) (*FitnessService, *storage.Repositories) {
	repos := setupRepos(t)
	seedUser(t, repos, "u1", 0)
	seedUser(t, repos, "u2", 0)
	s := NewFitnessService(repos.Logs, repos.Users, internal.NewNopLogger())
	s.now = fixedClock
	return s, repos
}

func steps(n int) *int { return &n }

func TestUpsertCreatesThenMerges(t *testing.T) {
	s, _ := setupFitness(t)
	ctx := context.Background()

	log, created, err := s.Upsert(ctx, "u1", &FitnessLogRequest{Steps: steps(10000)})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, internal.StartOfDay(testNow), log.Date)
	assert.Equal(t, 100, log.LifestyleScore)

	again, created, err := s.Upsert(ctx, "u1", &FitnessLogRequest{WaterIntake: float(1)})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, log.ID, again.ID)
	require.NotNil(t, again.Steps)
	assert.Equal(t, 10000, *again.Steps)
	// (20 + 7.5) / (20 + 15)
	assert.Equal(t, 79, again.LifestyleScore)

	today, err := s.Today(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 79, today.LifestyleScore)

	_, err = s.Today(ctx, "u2")
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestUpsertValidation(t *testing.T) {
	s, _ := setupFitness(t)
	ctx := context.Background()

	level := 11
	_, _, err := s.Upsert(ctx, "u1", &FitnessLogRequest{StressLevel: &level})
	assert.ErrorIs(t, err, internal.ErrValidationFailed)

	_, _, err = s.Upsert(ctx, "u1", &FitnessLogRequest{Mood: "Ecstatic"})
	assert.ErrorIs(t, err, internal.ErrValidationFailed)

	_, _, err = s.Upsert(ctx, "u1", &FitnessLogRequest{Workouts: []internal.Workout{{Type: "Running"}}})
	assert.ErrorIs(t, err, internal.ErrValidationFailed)

	_, _, err = s.Upsert(ctx, "u1", &FitnessLogRequest{Date: "yesterday"})
	assert.ErrorIs(t, err, internal.ErrInvalidInput)
}

func TestFitnessLogQueries(t *testing.T) {
	s, _ := setupFitness(t)
	ctx := context.Background()

	for _, d := range []string{"2025-05-30", "2025-05-31", "2025-06-01"} {
		_, _, err := s.Upsert(ctx, "u1", &FitnessLogRequest{Date: d, Steps: steps(5000)})
		require.NoError(t, err)
	}

	byDate, err := s.ByDate(ctx, "u1", "2025-05-31")
	require.NoError(t, err)
	assert.Equal(t, 5000, *byDate.Steps)

	logs, err := s.Range(ctx, "u1", "2025-05-30", "2025-05-31")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].Date.Before(logs[1].Date))

	_, err = s.Range(ctx, "u1", "2025-06-01", "2025-05-01")
	assert.ErrorIs(t, err, internal.ErrInvalidInput)
	_, err = s.Range(ctx, "u1", "", "2025-05-01")
	assert.ErrorIs(t, err, internal.ErrInvalidInput)

	page, err := s.Page(ctx, "u1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, internal.StartOfDay(testNow), page.Logs[0].Date)

	page, err = s.Page(ctx, "u1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.Count)
}

func TestFitnessLogUpdateAndDelete(t *testing.T) {
	s, _ := setupFitness(t)
	ctx := context.Background()

	first, _, err := s.Upsert(ctx, "u1", &FitnessLogRequest{Date: "2025-05-31", Steps: steps(2000)})
	require.NoError(t, err)
	_, _, err = s.Upsert(ctx, "u1", &FitnessLogRequest{Steps: steps(3000)})
	require.NoError(t, err)

	_, err = s.Update(ctx, "u2", first.ID, &FitnessLogRequest{Steps: steps(1)})
	assert.ErrorIs(t, err, internal.ErrForbidden)

	_, err = s.Update(ctx, "u1", first.ID, &FitnessLogRequest{Date: "2025-06-01"})
	assert.ErrorIs(t, err, internal.ErrConflict)

	updated, err := s.Update(ctx, "u1", first.ID, &FitnessLogRequest{Steps: steps(10000)})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.LifestyleScore)

	assert.ErrorIs(t, s.Delete(ctx, "u2", first.ID), internal.ErrForbidden)
	require.NoError(t, s.Delete(ctx, "u1", first.ID))
	_, err = s.ByDate(ctx, "u1", "2025-05-31")
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestWeeklyAndMonthlyStats(t *testing.T) {
	s, _ := setupFitness(t)
	ctx := context.Background()

	weekly, err := s.Weekly(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, weekly.TotalDays)
	assert.Equal(t, 0, weekly.AverageSteps)
	assert.NotNil(t, weekly.DailyData)
	assert.Empty(t, weekly.DailyData)

	// Outside the week, inside the month.
	_, _, err = s.Upsert(ctx, "u1", &FitnessLogRequest{Date: "2025-05-20", Steps: steps(2000)})
	require.NoError(t, err)
	_, _, err = s.Upsert(ctx, "u1", &FitnessLogRequest{Date: "2025-05-28", Steps: steps(8000), WaterIntake: float(2)})
	require.NoError(t, err)
	_, _, err = s.Upsert(ctx, "u1", &FitnessLogRequest{Date: "2025-06-01", Steps: steps(4000)})
	require.NoError(t, err)

	weekly, err = s.Weekly(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, weekly.TotalDays)
	assert.Equal(t, 12000, weekly.TotalSteps)
	assert.Equal(t, 6000, weekly.AverageSteps)
	assert.Equal(t, 1.0, weekly.AverageWaterIntake)
	require.Len(t, weekly.DailyData, 2)
	assert.Equal(t, 8000, weekly.DailyData[0].Steps)

	monthly, err := s.Monthly(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, monthly.TotalDays)
	require.NotNil(t, monthly.BestDay)
	require.NotNil(t, monthly.WorstDay)
	// steps and water on 05-28: (16 + 15) / 35
	assert.Equal(t, 89, monthly.BestDay.LifestyleScore)
	assert.Equal(t, 20, monthly.WorstDay.LifestyleScore)
}

func TestDashboard(t *testing.T) {
	s, repos := setupFitness(t)
	ctx := context.Background()
	_, err := repos.Users.UpdateUser(ctx, "u1", func(u *internal.User) error {
		u.TargetSteps = 8000
		u.Points = 650
		u.Level = 2
		u.Badges = []string{"Cardio Champion"}
		return nil
	})
	require.NoError(t, err)

	d, err := s.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, d.Today)
	assert.Equal(t, "Test User", d.User.Name)
	assert.Equal(t, 2, d.User.Level)
	assert.Equal(t, 0, d.WeekSummary.ActiveDays)

	_, _, err = s.Upsert(ctx, "u1", &FitnessLogRequest{Steps: steps(6000)})
	require.NoError(t, err)
	_, _, err = s.Upsert(ctx, "u1", &FitnessLogRequest{Date: "2025-05-26", Steps: steps(10000)})
	require.NoError(t, err)
	// Seven days back is outside the week.
	_, _, err = s.Upsert(ctx, "u1", &FitnessLogRequest{Date: "2025-05-25", Steps: steps(2000)})
	require.NoError(t, err)

	d, err = s.Dashboard(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, d.Today)
	assert.Equal(t, 8000, d.Today.StepsGoal)
	assert.Equal(t, 75, d.Today.StepsProgress)
	assert.Equal(t, 2, d.WeekSummary.ActiveDays)
	assert.Equal(t, 80, d.WeekSummary.AverageScore)
	require.Len(t, d.WeekSummary.Trend, 2)
	assert.Equal(t, time.Date(2025, 5, 26, 0, 0, 0, 0, time.Local), d.WeekSummary.Trend[0].Date)
	assert.Equal(t, 100, d.WeekSummary.Trend[0].LifestyleScore)

	weekly, err := s.Weekly(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, weekly.TotalDays, d.WeekSummary.ActiveDays)
}
