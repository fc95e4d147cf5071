package score

import (
	"fmt"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

const (
	basePoints            = 100
	progressBonusPoints   = 25
	pointsPerMilestone    = 10
	uncommonCategoryBonus = 15
)

var categoryBonus = map[internal.Category]int{
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
	internal.CategoryOther:            uncommonCategoryBonus,
}

type tier struct {
	minDays int
	bonus   int
}

// Tiers are ordered from the highest threshold down; the first match wins.
var (
	earlyTiers = []tier{{7, 50}, {3, 30}, {1, 20}}

	commitmentTiers = []tier{{60, 40}, {30, 25}, {14, 15}}
)

func tierBonus(tiers []tier, days int) int {
	for _, t := range tiers {
		if days >= t.minDays {
			return t.bonus
		}
	}
	return 0
}

type Breakdown struct {
	Base                 int `json:"base"`
	EarlyCompletionBonus int `json:"early_completion_bonus"`
	CategoryBonus        int `json:"category_bonus"`
	ProgressBonus        int `json:"progress_bonus"`
	CommitmentBonus      int `json:"commitment_bonus"`
	MilestoneBonus       int `json:"milestone_bonus"`
	Total                int `json:"total"`
}

// CategoryBonus looks up the fixed bonus for c. Unknown categories are an
// error, never a silent fallback.
func CategoryBonus(c internal.Category) (int, error) {
	bonus, ok := categoryBonus[c]
	if !ok {
		return 0, fmt.Errorf("%w: unknown goal category %q", internal.ErrInvalidInput, c)
	}
	return bonus, nil
}

// AwardPoints itemises the points earned by a goal at the moment it is
// completed. It reads the goal only; the caller stores the total.
func AwardPoints(g *internal.Goal) (Breakdown, error) {
	cat, err := CategoryBonus(g.Category)
	if err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{
		Base:           basePoints,
		CategoryBonus:  cat,
		ProgressBonus:  progressBonus(g),
		MilestoneBonus: pointsPerMilestone * g.AchievedMilestones(),
	}

	if g.CompletedDate != nil {
		done := *g.CompletedDate
		if !g.TargetDate.IsZero() && done.Before(g.TargetDate) {
			b.EarlyCompletionBonus = tierBonus(earlyTiers, internal.CeilDays(g.TargetDate.Sub(done)))
		}
		if !g.StartDate.IsZero() {
			b.CommitmentBonus = tierBonus(commitmentTiers, internal.CeilDays(done.Sub(g.StartDate)))
		}
	}

	b.Total = b.Base + b.EarlyCompletionBonus + b.CategoryBonus + b.ProgressBonus + b.CommitmentBonus + b.MilestoneBonus
	return b, nil
}

// progressBonus pays out when the full distance was covered. Comparing the
// ratio rather than the rounded percentage keeps float noise from granting it.
func progressBonus(g *internal.Goal) int {
	start := g.Baseline()
	span := abs(g.TargetValue - start)
	if span == 0 {
		return 0
	}
	if abs(g.CurrentValue-start)/span >= 1 {
		return progressBonusPoints
	}
	return 0
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
