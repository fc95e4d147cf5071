package score

import (
	"time"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

// Progress is the percentage of the distance from starting to target that
// current has covered, clamped to [0, 100]. Reduction goals (target below
// start) count down, everything else counts up.
func Progress(starting, current, target float64) int {
	if target < starting {
		totalToLose := starting - target
		lost := starting - current
		return clamp(roundHalfUp(lost/totalToLose*100), 0, 100)
	}

	totalToGain := target - starting
	gained := current - starting
	switch {
	case totalToGain > 0:
		return clamp(roundHalfUp(gained/totalToGain*100), 0, 100)
	case totalToGain == 0:
		return 100
	default:
		return 0
	}
}

// Recompute refreshes the goal's progress from its values and advances its
// status. It returns true only on the call that moves the goal into
// Completed; a goal already Completed or Abandoned keeps its status,
// completion date and points.
func Recompute(g *internal.Goal, now time.Time) bool {
	g.Progress = Progress(g.Baseline(), g.CurrentValue, g.TargetValue)

	if g.Status == "" {
		g.Status = internal.StatusNotStarted
	}
	if g.Status.Terminal() {
		return false
	}
	switch {
	case g.Progress >= 100:
		g.Status = internal.StatusCompleted
		completed := now
		g.CompletedDate = &completed
		return true
	case g.Progress > 0 && g.Status == internal.StatusNotStarted:
		g.Status = internal.StatusInProgress
	}
	return false
}

// ForceComplete marks the goal as reached regardless of its values.
func ForceComplete(g *internal.Goal, now time.Time) {
	g.CurrentValue = g.TargetValue
	g.Progress = 100
	g.Status = internal.StatusCompleted
	completed := now
	g.CompletedDate = &completed
}

// MarkMilestones flags every milestone the current value has reached,
// honouring the goal's direction, and returns how many were newly achieved.
func MarkMilestones(g *internal.Goal, now time.Time) int {
	reduction := g.IsReduction()
	n := 0
	for i := range g.Milestones {
		m := &g.Milestones[i]
		if m.Achieved {
			continue
		}
		reached := g.CurrentValue >= m.Value
		if reduction {
			reached = g.CurrentValue <= m.Value
		}
		if reached {
			m.Achieved = true
			at := now
			m.Date = &at
			n++
		}
	}
	return n
}
