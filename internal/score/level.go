package score

const pointsPerLevel = 500

// Level derives the gamification level from a points total. It is the only
// place the level formula lives; every points mutation reconciles through it.
func Level(points int) int {
	if points < 0 {
		points = 0
	}
	return points/pointsPerLevel + 1
}
