package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

func TestLevel(t *testing.T) {
	cases := map[int]int{
		-20:  1,
		0:    1,
		499:  1,
		500:  2,
		999:  2,
		1250: 3,
	}
	for points, want := range cases {
		assert.Equal(t, want, Level(points), "points=%d", points)
	}
}

func TestBadgeFor(t *testing.T) {
	assert.Equal(t, "Cardio Champion", BadgeFor(&internal.Goal{Category: internal.CategoryCardio}))
	assert.Equal(t, "", BadgeFor(&internal.Goal{Category: internal.CategoryGeneralFitness}))

	g := &internal.Goal{
		Category:   internal.CategoryOther,
		Milestones: []internal.Milestone{{Achieved: true}, {Achieved: true}, {Achieved: true}},
	}
	assert.Equal(t, BadgeMilestoneMaster, BadgeFor(g))
}
