package catalog

import (
	"fmt"
	"math/rand"

	"warespace/internal/models"
)

// Generate produces a synthetic warehouse dataset: three racked areas, a
// flex grid, oversize two-slot flex groups, dock doors and yard pads. This
// is a fixture for development and tests, not part of the registry contract.
func Generate(rng *rand.Rand) []*models.Location {
	var locs []*models.Location

	addRacked := func(areaID string, aisles, baysPerAisle, levels, positionsPerLevel int) {
		for a := 1; a <= aisles; a++ {
			letters := aisleLetters(a)
			for b := 1; b <= baysPerAisle; b++ {
				for l := 1; l <= levels; l++ {
					for p := 1; p <= positionsPerLevel; p++ {
						locs = append(locs, &models.Location{
							ID:          fmt.Sprintf("W1%s-%02d-%s", letters, b, levelLetter(l)),
							AreaID:      areaID,
							AreaType:    models.AreaRacked,
							Aisle:       intPtr(a),
							Bay:         intPtr(b),
							Level:       intPtr(l),
							Position:    intPtr(p),
							LengthMM:    pick(rng, 1200, 1200, 1000),
							WidthMM:     pick(rng, 800, 1000),
							HeightMM:    pick(rng, 1500, 1600, 1700),
							MaxWeightKG: pick(rng, 800, 1000, 1200, 1500),
							Status:      weightedStatus(rng, []int{65, 25, 5, 3, 2}),
						})
					}
				}
			}
		}
	}

	addRacked("RACK-01", 12, 10, 3, 1)
	addRacked("RACK-02", 10, 10, 3, 1)
	addRacked("RACK-03", 8, 10, 3, 1)

	// FLEX-01 10x10 grid
	for i := 1; i <= 100; i++ {
		locs = append(locs, &models.Location{
			ID:          fmt.Sprintf("FLEX-01-G%03d", i),
			AreaID:      "FLEX-01",
			AreaType:    models.AreaFlex,
			LengthMM:    1000,
			WidthMM:     1000,
			HeightMM:    2000,
			MaxWeightKG: 2000,
			Status:      weightedStatus(rng, []int{70, 20, 5, 3, 2}),
		})
	}

	// FLEX-02 oversize pairs
	for g := 1; g <= 25; g++ {
		gid := fmt.Sprintf("FLEX-02-OVR-%02d", g)
		for s := 1; s <= 2; s++ {
			length := 1000
			if s == 1 {
				length = 2000
			}
			locs = append(locs, &models.Location{
				ID:          fmt.Sprintf("%s-S%d", gid, s),
				AreaID:      "FLEX-02",
				AreaType:    models.AreaFlex,
				LengthMM:    length,
				WidthMM:     1000,
				HeightMM:    2200,
				MaxWeightKG: 2500,
				Status:      weightedStatus(rng, []int{60, 25, 7, 5, 3}),
				GroupID:     gid,
			})
		}
	}

	// Dock doors
	for d := 1; d <= 4; d++ {
		locs = append(locs, &models.Location{
			ID:          fmt.Sprintf("DOCK-D%02d", d),
			AreaID:      "DOCK",
			AreaType:    models.AreaDock,
			LengthMM:    2500,
			WidthMM:     2200,
			HeightMM:    2500,
			MaxWeightKG: 3000,
			Status:      pickStatus(rng, models.StatusFree, models.StatusOccupied),
		})
	}

	// Yard pads
	for y := 1; y <= 20; y++ {
		locs = append(locs, &models.Location{
			ID:          fmt.Sprintf("YARD-PAD-%02d", y),
			AreaID:      "YARD",
			AreaType:    models.AreaYard,
			LengthMM:    3000,
			WidthMM:     3000,
			HeightMM:    0,
			MaxWeightKG: 5000,
			Status:      pickStatus(rng, models.StatusFree, models.StatusOccupied, models.StatusReserved),
		})
	}

	return locs
}

// aisleLetters maps an aisle number to a two-letter code:
// 1 -> AA, 2 -> AB, ... 26 -> AZ, 27 -> BA
func aisleLetters(n int) string {
	n0 := n - 1
	return string(rune('A'+n0/26)) + string(rune('A'+n0%26))
}

// levelLetter maps a level number to a letter: 1 -> a, 2 -> b, ...
func levelLetter(level int) string {
	return string(rune('a' + level - 1))
}

// generatorStatuses is the order the weighted distributions refer to
var generatorStatuses = []models.LocationStatus{
	models.StatusFree, models.StatusOccupied, models.StatusReserved,
	models.StatusBlocked, models.StatusMaint,
}

func weightedStatus(rng *rand.Rand, weights []int) models.LocationStatus {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := rng.Intn(total)
	for i, w := range weights {
		if n < w {
			return generatorStatuses[i]
		}
		n -= w
	}
	return generatorStatuses[len(generatorStatuses)-1]
}

func pick(rng *rand.Rand, choices ...int) int {
	return choices[rng.Intn(len(choices))]
}

func pickStatus(rng *rand.Rand, choices ...models.LocationStatus) models.LocationStatus {
	return choices[rng.Intn(len(choices))]
}

func intPtr(v int) *int {
	return &v
}
