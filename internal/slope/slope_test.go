package slope

import (
	"context"
	"testing"
)

func TestProfileEmptyWhenRadiusZero(t *testing.T) {
	profile := Profile(0, 0, 10, map[ColumnKey]int32{}, 0)
	if profile != nil {
		t.Errorf("expected nil/empty profile, got %v", profile)
	}
	if at := At(profile, 3); at != (RadiusStats{}) {
		t.Errorf("At on empty profile = %+v, want zero value", at)
	}
}

func TestProfileMaxAngleMonotoneNonDecreasing(t *testing.T) {
	columns := map[ColumnKey]int32{
		{X: 1, Z: 0}:  20,
		{X: -1, Z: 0}: 10,
		{X: 2, Z: 0}:  100,
		{X: 0, Z: 2}:  5,
	}
	profile := Profile(0, 0, 10, columns, 2)
	if len(profile) != 2 {
		t.Fatalf("expected 2 radii, got %d", len(profile))
	}
	if profile[1].MaxAngle < profile[0].MaxAngle {
		t.Errorf("max angle decreased: r1=%v r2=%v", profile[0].MaxAngle, profile[1].MaxAngle)
	}
}

func TestProfileWeightedAverageWithinBounds(t *testing.T) {
	columns := map[ColumnKey]int32{
		{X: 1, Z: 0}: 50,
		{X: 0, Z: 1}: 5,
	}
	profile := Profile(0, 0, 10, columns, 1)
	stats := profile[0]
	if stats.WeightedAverage < 0 || stats.WeightedAverage > stats.MaxAngle {
		t.Errorf("weighted average %v out of [0, %v]", stats.WeightedAverage, stats.MaxAngle)
	}
}

func TestComputeAllFoldsAllColumns(t *testing.T) {
	columns := map[ColumnKey]int32{
		{X: 0, Z: 0}: 10,
		{X: 1, Z: 0}: 12,
		{X: 0, Z: 1}: 8,
	}
	results, err := ComputeAll(context.Background(), columns, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(columns) {
		t.Fatalf("got %d results, want %d", len(results), len(columns))
	}
}
