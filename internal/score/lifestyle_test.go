package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func sleepFor(h float64) *internal.Sleep {
	return &internal.Sleep{Hours: floatPtr(h)}
}

func TestLifestyleScore(t *testing.T) {
	tests := []struct {
		name string
		log  internal.FitnessLog
		want int
	}{
		{name: "no metrics", log: internal.FitnessLog{}, want: 0},
		{name: "perfect steps only", log: internal.FitnessLog{Steps: intPtr(10000)}, want: 100},
		{name: "half steps only", log: internal.FitnessLog{Steps: intPtr(5000)}, want: 50},
		{name: "zero steps counts as logged", log: internal.FitnessLog{Steps: intPtr(0), WaterIntake: floatPtr(2)}, want: 43},
		{name: "sleep two hours short", log: internal.FitnessLog{Sleep: sleepFor(6)}, want: 70},
		{name: "sleep far off floors at zero", log: internal.FitnessLog{Sleep: sleepFor(0), Steps: intPtr(10000)}, want: 50},
		{name: "sleep without hours is ignored", log: internal.FitnessLog{Sleep: &internal.Sleep{Quality: "Good"}, Steps: intPtr(10000)}, want: 100},
		{name: "empty workouts excluded", log: internal.FitnessLog{Workouts: []internal.Workout{}, Steps: intPtr(5000)}, want: 50},
		{name: "stress ten", log: internal.FitnessLog{StressLevel: intPtr(10)}, want: 0},
		{name: "neutral mood", log: internal.FitnessLog{Mood: internal.MoodNeutral}, want: 50},
		{
			name: "full day",
			log: internal.FitnessLog{
				Steps:         intPtr(12000),
				Sleep:         sleepFor(8),
				WaterIntake:   floatPtr(2),
				ActiveMinutes: intPtr(40),
				Workouts:      []internal.Workout{{Type: "Running", Duration: 30}},
				StressLevel:   intPtr(2),
				Mood:          internal.MoodGood,
			},
			want: 97,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LifestyleScore(&tt.log)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestApplyLifestyleScoreStoresResult(t *testing.T) {
	log := &internal.FitnessLog{Steps: intPtr(10000), LifestyleScore: 12}
	assert.Equal(t, 100, ApplyLifestyleScore(log))
	assert.Equal(t, 100, log.LifestyleScore)
}
