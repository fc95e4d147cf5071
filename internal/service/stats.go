package service

import (
	"sort"
	"time"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WeekWindow covers the last seven calendar days including today.
func WeekWindow(now time.Time) Period {
	return Period{
		Start: internal.StartOfDay(now.AddDate(0, 0, -6)),
		End:   internal.EndOfDay(now),
	}
}

// MonthWindow covers the last thirty calendar days including today.
func MonthWindow(now time.Time) Period {
	return Period{
		Start: internal.StartOfDay(now.AddDate(0, 0, -29)),
		End:   internal.EndOfDay(now),
	}
}

// FitnessTotals are sums over the logs in a window and averages over the
// days that have a log. Days without one do not count as zero.
type FitnessTotals struct {
	Period                Period  `json:"period"`
	TotalDays             int     `json:"total_days"`
	TotalSteps            int     `json:"total_steps"`
	AverageSteps          int     `json:"average_steps"`
	TotalCaloriesBurned   int     `json:"total_calories_burned"`
	AverageCaloriesBurned int     `json:"average_calories_burned"`
	TotalActiveMinutes    int     `json:"total_active_minutes"`
	AverageActiveMinutes  int     `json:"average_active_minutes"`
	AverageWaterIntake    float64 `json:"average_water_intake"`
	AverageSleepHours     float64 `json:"average_sleep_hours"`
	AverageLifestyleScore int     `json:"average_lifestyle_score"`
	WorkoutDays           int     `json:"workout_days"`
}

type DailyData struct {
	Date           time.Time `json:"date"`
	Steps          int       `json:"steps"`
	CaloriesBurned float64   `json:"calories_burned"`
	ActiveMinutes  int       `json:"active_minutes"`
	LifestyleScore int       `json:"lifestyle_score"`
	Workouts       int       `json:"workouts"`
}

type DayScore struct {
	Date           time.Time `json:"date"`
	LifestyleScore int       `json:"lifestyle_score"`
}

type WeeklyStats struct {
	FitnessTotals
	DailyData []DailyData `json:"daily_data"`
}

type MonthlyStats struct {
	FitnessTotals
	BestDay  *DayScore `json:"best_day"`
	WorstDay *DayScore `json:"worst_day"`
}

// SummarizeLogs folds logs into totals and averages for period.
func SummarizeLogs(period Period, logs []internal.FitnessLog) FitnessTotals {
	t := FitnessTotals{Period: period, TotalDays: len(logs)}
	if len(logs) == 0 {
		return t
	}

	var calories, water, sleep float64
	var score int
	for i := range logs {
		l := &logs[i]
		if l.Steps != nil {
			t.TotalSteps += *l.Steps
		}
		if l.CaloriesBurned != nil {
			calories += *l.CaloriesBurned
		}
		if l.ActiveMinutes != nil {
			t.TotalActiveMinutes += *l.ActiveMinutes
		}
		if l.WaterIntake != nil {
			water += *l.WaterIntake
		}
		if l.Sleep != nil && l.Sleep.Hours != nil {
			sleep += *l.Sleep.Hours
		}
		if len(l.Workouts) > 0 {
			t.WorkoutDays++
		}
		score += l.LifestyleScore
	}

	n := float64(len(logs))
	t.TotalCaloriesBurned = internal.RoundHalfUp(calories)
	t.AverageSteps = internal.RoundHalfUp(float64(t.TotalSteps) / n)
	t.AverageCaloriesBurned = internal.RoundHalfUp(calories / n)
	t.AverageActiveMinutes = internal.RoundHalfUp(float64(t.TotalActiveMinutes) / n)
	t.AverageWaterIntake = internal.RoundTo(water/n, 2)
	t.AverageSleepHours = internal.RoundTo(sleep/n, 1)
	t.AverageLifestyleScore = internal.RoundHalfUp(float64(score) / n)
	return t
}

func BuildWeeklyStats(period Period, logs []internal.FitnessLog) *WeeklyStats {
	logs = sortedByDate(logs)
	stats := &WeeklyStats{
		FitnessTotals: SummarizeLogs(period, logs),
		DailyData:     make([]DailyData, 0, len(logs)),
	}
	for i := range logs {
		l := &logs[i]
		d := DailyData{
			Date:           l.Date,
			LifestyleScore: l.LifestyleScore,
			Workouts:       len(l.Workouts),
		}
		if l.Steps != nil {
			d.Steps = *l.Steps
		}
		if l.CaloriesBurned != nil {
			d.CaloriesBurned = *l.CaloriesBurned
		}
		if l.ActiveMinutes != nil {
			d.ActiveMinutes = *l.ActiveMinutes
		}
		stats.DailyData = append(stats.DailyData, d)
	}
	return stats
}

// BuildMonthlyStats also picks the best and worst day in one forward pass.
// Ties keep the earlier day, and a zero score never counts as the worst.
func BuildMonthlyStats(period Period, logs []internal.FitnessLog) *MonthlyStats {
	logs = sortedByDate(logs)
	stats := &MonthlyStats{FitnessTotals: SummarizeLogs(period, logs)}
	for i := range logs {
		l := &logs[i]
		if stats.BestDay == nil || l.LifestyleScore > stats.BestDay.LifestyleScore {
			stats.BestDay = &DayScore{Date: l.Date, LifestyleScore: l.LifestyleScore}
		}
		if l.LifestyleScore > 0 && (stats.WorstDay == nil || l.LifestyleScore < stats.WorstDay.LifestyleScore) {
			stats.WorstDay = &DayScore{Date: l.Date, LifestyleScore: l.LifestyleScore}
		}
	}
	return stats
}

func sortedByDate(logs []internal.FitnessLog) []internal.FitnessLog {
	out := append([]internal.FitnessLog(nil), logs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

type DeadlineEntry struct {
	GoalID        string    `json:"goal_id"`
	Title         string    `json:"title"`
	TargetDate    time.Time `json:"target_date"`
	DaysRemaining int       `json:"days_remaining"`
}

type OverdueEntry struct {
	GoalID      string    `json:"goal_id"`
	Title       string    `json:"title"`
	TargetDate  time.Time `json:"target_date"`
	DaysOverdue int       `json:"days_overdue"`
}

type GoalStats struct {
	Total             int                       `json:"total"`
	NotStarted        int                       `json:"not_started"`
	InProgress        int                       `json:"in_progress"`
	Completed         int                       `json:"completed"`
	Abandoned         int                       `json:"abandoned"`
	Active            int                       `json:"active"`
	AverageProgress   int                       `json:"average_progress"`
	TotalPointsEarned int                       `json:"total_points_earned"`
	CompletionRate    int                       `json:"completion_rate"`
	CategoryCounts    map[internal.Category]int `json:"category_counts"`
	UpcomingDeadlines []DeadlineEntry           `json:"upcoming_deadlines"`
	OverdueGoals      []OverdueEntry            `json:"overdue_goals"`
}

// BuildGoalStats summarises a user's goals as of now.
func BuildGoalStats(goals []internal.Goal, now time.Time) *GoalStats {
	stats := &GoalStats{
		Total:             len(goals),
		CategoryCounts:    make(map[internal.Category]int),
		UpcomingDeadlines: []DeadlineEntry{},
		OverdueGoals:      []OverdueEntry{},
	}
	if len(goals) == 0 {
		return stats
	}

	progress := 0
	for i := range goals {
		g := &goals[i]
		switch g.Status {
		case internal.StatusNotStarted:
			stats.NotStarted++
		case internal.StatusInProgress:
			stats.InProgress++
		case internal.StatusCompleted:
			stats.Completed++
			stats.TotalPointsEarned += g.Points
		case internal.StatusAbandoned:
			stats.Abandoned++
		}
		stats.CategoryCounts[g.Category]++
		progress += g.Progress

		if days := g.DaysRemaining(now); days >= 0 && days <= 7 && g.Status != internal.StatusCompleted {
			stats.UpcomingDeadlines = append(stats.UpcomingDeadlines, DeadlineEntry{
				GoalID: g.ID, Title: g.Title, TargetDate: g.TargetDate, DaysRemaining: days,
			})
		}
		if g.IsOverdue(now) {
			stats.OverdueGoals = append(stats.OverdueGoals, OverdueEntry{
				GoalID: g.ID, Title: g.Title, TargetDate: g.TargetDate,
				DaysOverdue: internal.CeilDays(now.Sub(g.TargetDate)),
			})
		}
	}
	stats.Active = stats.NotStarted + stats.InProgress
	stats.AverageProgress = internal.RoundHalfUp(float64(progress) / float64(len(goals)))
	stats.CompletionRate = internal.RoundHalfUp(float64(stats.Completed) / float64(len(goals)) * 100)

	sort.SliceStable(stats.UpcomingDeadlines, func(i, j int) bool {
		return stats.UpcomingDeadlines[i].DaysRemaining < stats.UpcomingDeadlines[j].DaysRemaining
	})
	return stats
}
