package score

import (
	"math"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

const (
	stepGoal          = 10000
	sleepGoalHours    = 8
	waterGoalLiters   = 2
	activeGoalMinutes = 30

	stepsWeight   = 20
	sleepWeight   = 20
	waterWeight   = 15
	activeWeight  = 15
	workoutWeight = 15
	stressWeight  = 10
	moodWeight    = 5

	sleepPenaltyPerHour = 3
)

var moodScores = map[internal.Mood]float64{
	internal.MoodVeryBad:   0,
	internal.MoodBad:       1,
	internal.MoodNeutral:   2.5,
	internal.MoodGood:      4,
	internal.MoodExcellent: 5,
}

// LifestyleScore rates a day's log on a 0-100 scale. Only metrics present in
// the log count towards either the achieved or the possible total, so logs
// with partial data stay comparable.
func LifestyleScore(log *internal.FitnessLog) int {
	var achieved, possible float64

	if log.Steps != nil {
		possible += stepsWeight
		achieved += math.Min(float64(*log.Steps)/stepGoal*stepsWeight, stepsWeight)
	}
	if log.Sleep != nil && log.Sleep.Hours != nil {
		possible += sleepWeight
		off := math.Abs(*log.Sleep.Hours - sleepGoalHours)
		achieved += math.Max(sleepWeight-off*sleepPenaltyPerHour, 0)
	}
	if log.WaterIntake != nil {
		possible += waterWeight
		achieved += math.Min(*log.WaterIntake/waterGoalLiters*waterWeight, waterWeight)
	}
	if log.ActiveMinutes != nil {
		possible += activeWeight
		achieved += math.Min(float64(*log.ActiveMinutes)/activeGoalMinutes*activeWeight, activeWeight)
	}
	if len(log.Workouts) > 0 {
		possible += workoutWeight
		achieved += workoutWeight
	}
	if log.StressLevel != nil {
		possible += stressWeight
		achieved += math.Max(float64(stressWeight-*log.StressLevel), 0)
	}
	if log.Mood != "" {
		possible += moodWeight
		achieved += moodScores[log.Mood]
	}

	if possible == 0 {
		return 0
	}
	return clamp(roundHalfUp(achieved/possible*100), 0, 100)
}

// ApplyLifestyleScore stores the score on the log. Call it after every
// change to a log's metrics and before the log is persisted.
func ApplyLifestyleScore(log *internal.FitnessLog) int {
	log.LifestyleScore = LifestyleScore(log)
	return log.LifestyleScore
}
