package job

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func fixedRobot(reach float64) *Robot {
	return NewRobot("arm", reach, 3, 0.7, 2, 0.0001, 0.7, 0)
}

func TestRobotReachabilityBand(t *testing.T) {
	robot := fixedRobot(1.0)
	standing := NewPOI(StandingPOI, "base", 0, 0, 0)

	// Below the 5% floor.
	tooClose := NewPOI(HandPOI, "close", 0, 0, 0.02)
	assert.False(t, standing.Reachable(tooClose, robot))

	// Inside the band.
	inBand := NewPOI(HandPOI, "mid", 0, 0, 0.5)
	assert.True(t, standing.Reachable(inBand, robot))

	// Beyond the reach radius.
	tooFar := NewPOI(HandPOI, "far", 1.5, 0, 0)
	assert.False(t, standing.Reachable(tooFar, robot))
}

func TestHumanReachabilityBendsDown(t *testing.T) {
	human := NewHuman("worker")
	standing := NewPOI(StandingPOI, "spot", 0, 0, 0)

	// At or below shoulder height only the horizontal distance
	// counts, so a low point straight down is reachable.
	low := NewPOI(HandPOI, "floor", 0.5, 0, 0.1)
	assert.True(t, standing.Reachable(low, human))

	// Horizontally out of reach even though it is low.
	lowFar := NewPOI(HandPOI, "floor-far", human.Reach+0.1, 0, 0.1)
	assert.False(t, standing.Reachable(lowFar, human))

	// Above the shoulder the full distance from the shoulder counts.
	overhead := NewPOI(HandPOI, "overhead", 0, 0, human.AcromialHeight+human.Reach+0.2)
	assert.False(t, standing.Reachable(overhead, human))
	justUp := NewPOI(HandPOI, "just-up", 0, 0, human.AcromialHeight+human.Reach-0.05)
	assert.True(t, standing.Reachable(justUp, human))
}

func TestTravelability(t *testing.T) {
	human := NewHuman("worker")
	fixed := fixedRobot(1.0)
	mobile := NewRobot("cart", 1.0, 3, 0.7, 2, 0.0001, 0.7, 0.5)

	a := NewPOI(StandingPOI, "a", 0, 0, 0)
	b := NewPOI(StandingPOI, "b", 3, 0, 0)
	raised := NewPOI(StandingPOI, "raised", 3, 0, 0.5)

	assert.True(t, a.Travelable(b, human))
	assert.False(t, a.Travelable(b, fixed), "immobile robots cannot travel")
	assert.True(t, a.Travelable(b, mobile))
	assert.False(t, raised.Travelable(b, mobile), "mobile robots cannot step down half a metre")

	hand := NewPOI(HandPOI, "h", 1, 0, 0)
	assert.False(t, a.Travelable(hand, human), "travel is between standing POIs only")
}

// TestReachabilityLikeKindsAlwaysFalse checks that reachability is
// strict about POI kinds: two standing or two hand POIs never reach.
func TestReachabilityLikeKindsAlwaysFalse(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	coord := gen.Float64Range(-3, 3)
	properties.Property("like kinds never reach", prop.ForAll(
		func(x1, y1, z1, x2, y2, z2 float64, standingPair bool) bool {
			kind := HandPOI
			if standingPair {
				kind = StandingPOI
			}
			a := NewPOI(kind, "a", x1, y1, z1)
			b := NewPOI(kind, "b", x2, y2, z2)
			robot := fixedRobot(5)
			human := NewHuman("w")
			return !a.Reachable(b, robot) && !b.Reachable(a, robot) &&
				!a.Reachable(b, human) && !b.Reachable(a, human)
		},
		coord, coord, coord, coord, coord, coord, gen.Bool(),
	))
	properties.TestingRun(t)
}

// TestReachabilitySymmetric checks that the predicate reads the same
// regardless of argument order for a standing/hand pair.
func TestReachabilitySymmetric(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	coord := gen.Float64Range(-2, 2)
	properties.Property("reach(s,h) == reach(h,s)", prop.ForAll(
		func(x1, y1, z1, x2, y2, z2 float64, humanAgent bool) bool {
			s := NewPOI(StandingPOI, "s", x1, y1, z1)
			h := NewPOI(HandPOI, "h", x2, y2, z2)
			var agent Agent = fixedRobot(1.2)
			if humanAgent {
				agent = NewHuman("w")
			}
			return s.Reachable(h, agent) == h.Reachable(s, agent)
		},
		coord, coord, coord, coord, coord, coord, gen.Bool(),
	))
	properties.TestingRun(t)
}

func TestRatingOrder(t *testing.T) {
	assert.True(t, Low.Less(Medium))
	assert.True(t, Low.Less(High))
	assert.True(t, Medium.Less(High))
	assert.False(t, High.Less(Medium))
	assert.False(t, High.Less(Low))
	assert.False(t, Medium.Less(Low))
	assert.False(t, Low.Less(Low))
}
