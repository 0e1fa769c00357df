package arena

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/Garsondee/Algo-Arena/internal/geom"
)

// spawnPoint is a placement result.
type spawnPoint struct {
	X, Y    float64
	Heading float64
	// Separated is false when the retry cap was hit and the point is only
	// the best candidate found.
	Separated bool
}

// placeVehicles picks n spawn points inside the placement margin, each at
// least MinSeparation from every earlier point. When a point cannot be found
// within PlacementAttempts tries the candidate furthest from its neighbours
// is used instead.
func placeVehicles(rng *rand.Rand, s Settings, n int) []spawnPoint {
	out := make([]spawnPoint, 0, n)
	minX, maxX := s.PlacementMargin, s.Width-s.PlacementMargin
	minY, maxY := s.PlacementMargin, s.Height-s.PlacementMargin

	for i := 0; i < n; i++ {
		var best spawnPoint
		bestGap := -1.0
		for attempt := 0; attempt < s.PlacementAttempts; attempt++ {
			x := minX + rng.Float64()*(maxX-minX)
			y := minY + rng.Float64()*(maxY-minY)
			gap := nearestGap(out, x, y)
			if gap > bestGap {
				bestGap = gap
				best = spawnPoint{X: x, Y: y}
			}
			if gap >= s.MinSeparation {
				best.Separated = true
				break
			}
		}
		best.Heading = geom.NormalizeAngle(rng.Float64()*360 - 180)
		out = append(out, best)
	}
	return out
}

func nearestGap(points []spawnPoint, x, y float64) float64 {
	gap := math.Inf(1)
	for _, p := range points {
		gap = math.Min(gap, geom.DistanceTo(p.X, p.Y, x, y))
	}
	return gap
}

// newVehicleID draws a UUID from the seeded RNG so IDs repeat run to run.
func newVehicleID(rng *rand.Rand) (string, error) {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return "", fmt.Errorf("generate vehicle id: %w", err)
	}
	return id.String(), nil
}

// resolveSpec fills unset fields of an entry's spec from the defaults.
func resolveSpec(override *VehicleSpec) VehicleSpec {
	return DefaultVehicleSpec().Overlay(override)
}
