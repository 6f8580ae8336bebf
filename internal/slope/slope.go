// Package slope implements the slope profiler (C3): per-radius (max,
// weighted-mean) slope angles to neighbouring columns.
package slope

import "github.com/chewxy/math32"

// RadiusStats holds the slope statistics accumulated at one radius.
type RadiusStats struct {
	MaxAngle        float32 // degrees, monotone non-decreasing over radius
	WeightedAverage float32 // degrees, in [0, MaxAngle]
}

// ColumnKey identifies a column by its world coordinates.
type ColumnKey struct {
	X, Z int32
}

// Profile computes the slope profile for column (x, z) with known height,
// against the immutable columns map, for radii 1..maxRadius. Visits every
// lattice neighbour on the Chebyshev ring at each radius, weighting by
// inverse Euclidean distance. Returns an empty profile when maxRadius <= 0.
func Profile(x, z, height int32, columns map[ColumnKey]int32, maxRadius int) []RadiusStats {
	if maxRadius <= 0 {
		return nil
	}
	stats := make([]RadiusStats, 0, maxRadius)
	var maxAngle float32
	for r := 1; r <= maxRadius; r++ {
		var weightedSum, weightTotal float64
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if dx == 0 && dz == 0 {
					continue
				}
				if maxInt(absInt(dx), absInt(dz)) != r {
					continue
				}
				neighbor, ok := columns[ColumnKey{X: x + int32(dx), Z: z + int32(dz)}]
				if !ok {
					continue
				}
				horizontal := math32.Sqrt(float32(dx*dx + dz*dz))
				if horizontal == 0 {
					continue
				}
				diff := math32.Abs(float32(height - neighbor))
				angle := math32.Atan(diff/horizontal) * (180 / math32.Pi)
				if angle > maxAngle {
					maxAngle = angle
				}
				weight := 1.0 / float64(horizontal)
				weightedSum += float64(angle) * weight
				weightTotal += weight
			}
		}
		weightedAverage := float32(0)
		if weightTotal > 0 {
			weightedAverage = float32(weightedSum / weightTotal)
		}
		stats = append(stats, RadiusStats{MaxAngle: maxAngle, WeightedAverage: weightedAverage})
	}
	return stats
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// At returns the stats at min(requestedRadius, len(profile)), or the zero
// value if the profile is empty.
func At(profile []RadiusStats, requestedRadius int) RadiusStats {
	if len(profile) == 0 || requestedRadius <= 0 {
		return RadiusStats{}
	}
	idx := requestedRadius
	if idx > len(profile) {
		idx = len(profile)
	}
	return profile[idx-1]
}

// Mix blends a radius's max and weighted-mean angle with factor in [0, 1]:
// max + factor*(mean - max).
func Mix(stats RadiusStats, factor float32) float32 {
	return stats.MaxAngle + factor*(stats.WeightedAverage-stats.MaxAngle)
}
