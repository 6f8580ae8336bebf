package lidar

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeLASFixture assembles a minimal, valid LAS 1.2 point-format-0 file
// with the given points, scale 0.01 and offset 0 on every axis.
func writeLASFixture(t *testing.T, points []Point) string {
	t.Helper()
	const headerSize = 227
	const recordLen = 20

	header := make([]byte, headerSize)
	copy(header[0:4], "LASF")
	binary.LittleEndian.PutUint32(header[96:100], uint32(headerSize))
	header[104] = 0 // point data format 0
	binary.LittleEndian.PutUint16(header[105:107], uint16(recordLen))
	binary.LittleEndian.PutUint32(header[107:111], uint32(len(points)))
	putF64 := func(off int, v float64) {
		binary.LittleEndian.PutUint64(header[off:off+8], math.Float64bits(v))
	}
	putF64(131, 0.01) // scale x
	putF64(139, 0.01) // scale y
	putF64(147, 0.01) // scale z
	putF64(155, 0)    // offset x
	putF64(163, 0)    // offset y
	putF64(171, 0)    // offset z

	body := make([]byte, 0, recordLen*len(points))
	for _, p := range points {
		rec := make([]byte, recordLen)
		binary.LittleEndian.PutUint32(rec[0:4], uint32(int32(math.Round(p.X/0.01))))
		binary.LittleEndian.PutUint32(rec[4:8], uint32(int32(math.Round(p.Y/0.01))))
		binary.LittleEndian.PutUint32(rec[8:12], uint32(int32(math.Round(p.Z/0.01))))
		rec[15] = p.Classification
		body = append(body, rec...)
	}

	path := filepath.Join(t.TempDir(), "fixture.las")
	if err := os.WriteFile(path, append(header, body...), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFileRoundTripsPoints(t *testing.T) {
	want := []Point{
		{X: 100.5, Y: 200.25, Z: 10, Classification: 6},
		{X: -5, Y: 0, Z: 3.14, Classification: 2},
	}
	path := writeLASFixture(t, want)

	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i].X-want[i].X) > 0.01 || math.Abs(got[i].Y-want[i].Y) > 0.01 || math.Abs(got[i].Z-want[i].Z) > 0.01 {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
		if got[i].Classification != want[i].Classification {
			t.Errorf("point %d classification = %d, want %d", i, got[i].Classification, want[i].Classification)
		}
	}
}

func TestIsBuildingMatchesClassificationSix(t *testing.T) {
	if !IsBuilding(Point{Classification: 6}) {
		t.Error("expected classification 6 to be a building point")
	}
	if IsBuilding(Point{Classification: 2}) {
		t.Error("did not expect classification 2 (ground) to be a building point")
	}
}

func TestReadFileRejectsLAZExtension(t *testing.T) {
	if _, err := ReadFile("tile.laz"); err == nil {
		t.Fatal("expected an error for a .laz file")
	}
}

func TestCollectFilesFindsLASAndLAZ(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.las", "b.laz", "c.copc.laz", "ignore.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := CollectFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d files, want 3: %v", len(got), got)
	}
}
