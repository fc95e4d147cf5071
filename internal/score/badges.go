package score

import "github.com/balasutharsan1247/student-fitness-app/internal"

const (
	BadgeMilestoneMaster = "Milestone Master"

	milestoneMasterThreshold = 3
)

var categoryBadges = map[internal.Category]string{
	internal.CategoryWeightLoss:       "Weight Loss Champion",
	internal.CategoryWeightGain:       "Weight Gain Champion",
	internal.CategoryMuscleBuilding:   "Muscle Building Champion",
	internal.CategoryCardio:           "Cardio Champion",
	internal.CategoryFlexibility:      "Flexibility Champion",
	internal.CategorySleep:            "Sleep Champion",
	internal.CategoryNutrition:        "Nutrition Champion",
	internal.CategoryHydration:        "Hydration Champion",
	internal.CategorySteps:            "Steps Champion",
	internal.CategoryStressManagement: "Stress Management Champion",
}

// BadgeFor names the badge a completed goal earns, or "" when none applies.
func BadgeFor(g *internal.Goal) string {
	if b, ok := categoryBadges[g.Category]; ok {
		return b
	}
	if g.AchievedMilestones() >= milestoneMasterThreshold {
		return BadgeMilestoneMaster
	}
	return ""
}
