package driver

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/mzsim/internal/spectral"
	"github.com/san-kum/mzsim/internal/zone"
)

// recordingZone logs every driver call so tests can assert ordering.
type recordingZone struct {
	log         *[]int
	sources     int
	advanceErr  error
	output      zone.Quantity
	input       zone.Quantity
	lastDRows   int
	lastDZone   int
}

func (z *recordingZone) Advance(ctx context.Context, zoneIndex int) error {
	*z.log = append(*z.log, zoneIndex)
	if z.advanceErr != nil {
		return z.advanceErr
	}
	z.output = zone.Quantity{float64(zoneIndex)}
	return nil
}

func (z *recordingZone) CouplingQuantity() zone.Quantity     { return z.output }
func (z *recordingZone) SetCouplingQuantity(q zone.Quantity) { z.input = q.Clone() }

func (z *recordingZone) ApplySpectralSource(d [][]float64, zoneIndex int) error {
	z.sources++
	z.lastDRows = len(d)
	z.lastDZone = zoneIndex
	return nil
}

type flatGeometry struct {
	velocityWrites int
}

func (g *flatGeometry) NodalHistory(zoneIndex int) [][]float64 {
	return [][]float64{{0, 0}}
}

func (g *flatGeometry) SetMeshVelocity(zoneIndex int, vel [][]float64) {
	g.velocityWrites++
}

func (g *flatGeometry) DeformMesh(zoneIndex int, d zone.Quantity) error { return nil }

func makeZones(t *testing.T, n int, log *[]int) ([]*zone.Container, []*recordingZone) {
	t.Helper()
	zones := make([]*zone.Container, n)
	impls := make([]*recordingZone, n)
	for i := 0; i < n; i++ {
		impls[i] = &recordingZone{log: log}
		z, err := zone.NewContainer(i, impls[i], impls[i])
		if err != nil {
			t.Fatalf("zone %d: %v", i, err)
		}
		zones[i] = z
	}
	return zones, impls
}

func TestSingleZoneRun(t *testing.T) {
	var log []int
	zones, _ := makeZones(t, 1, &log)

	d, err := New(SingleZone, zones, nil, Options{})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(log) != 1 || log[0] != 0 {
		t.Errorf("expected one advance of zone 0, got %v", log)
	}
}

func TestMultiZoneOrdering(t *testing.T) {
	var log []int
	zones, _ := makeZones(t, 4, &log)

	d, err := New(MultiZone, zones, nil, Options{})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	for step := 0; step < 3; step++ {
		if err := d.Run(context.Background()); err != nil {
			t.Fatalf("step %d failed: %v", step, err)
		}
	}

	want := []int{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}
	if len(log) != len(want) {
		t.Fatalf("advance log %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("advance log %v, want %v", log, want)
		}
	}
}

func TestMultiZoneStopsOnFailure(t *testing.T) {
	var log []int
	zones, impls := makeZones(t, 3, &log)
	impls[1].advanceErr = zone.ErrNumericalFailure

	d, err := New(MultiZone, zones, nil, Options{})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	err = d.Run(context.Background())
	if !errors.Is(err, zone.ErrNumericalFailure) {
		t.Fatalf("expected ErrNumericalFailure, got %v", err)
	}

	var advErr *zone.AdvanceError
	if !errors.As(err, &advErr) || advErr.Zone != 1 {
		t.Errorf("failure not attributed to zone 1: %v", err)
	}
	// Zone 2 must not have been advanced after the failure.
	if len(log) != 2 {
		t.Errorf("expected advances [0 1], got %v", log)
	}
}

func TestSpectralRunInjectsSourcesAndAdvances(t *testing.T) {
	var log []int
	zones, impls := makeZones(t, 4, &log)
	geo := &flatGeometry{}

	d, err := New(Spectral, zones, geo, Options{
		Spectral: spectral.Params{NZone: 4, Period: 2 * math.Pi},
	})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i, impl := range impls {
		if impl.sources != 1 {
			t.Errorf("zone %d: expected 1 source injection, got %d", i, impl.sources)
		}
		if impl.lastDRows != 4 {
			t.Errorf("zone %d: operator had %d rows, want 4", i, impl.lastDRows)
		}
		if impl.lastDZone != i {
			t.Errorf("zone %d: source injected with index %d", i, impl.lastDZone)
		}
	}
	if len(log) != 4 {
		t.Errorf("expected 4 advances, got %v", log)
	}
}

func TestSpectralOperatorCachedAcrossSteps(t *testing.T) {
	var log []int
	zones, _ := makeZones(t, 4, &log)
	geo := &flatGeometry{}

	d, err := New(Spectral, zones, geo, Options{
		Spectral: spectral.Params{NZone: 4, Period: 2 * math.Pi},
	})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	sd := d.(*spectralDriver)

	for step := 0; step < 5; step++ {
		if err := d.Run(context.Background()); err != nil {
			t.Fatalf("step %d failed: %v", step, err)
		}
	}
	if sd.Rebuilds() != 1 {
		t.Errorf("expected 1 operator build over 5 steps, got %d", sd.Rebuilds())
	}
	// Mesh velocities only follow a rebuild: 4 zone writes, once.
	if geo.velocityWrites != 4 {
		t.Errorf("expected 4 velocity writes, got %d", geo.velocityWrites)
	}

	// A period change invalidates the cache on the next step.
	sd.SetPeriod(math.Pi)
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("post-change step failed: %v", err)
	}
	if sd.Rebuilds() != 2 {
		t.Errorf("expected rebuild after period change, got %d builds", sd.Rebuilds())
	}
	if geo.velocityWrites != 8 {
		t.Errorf("expected velocity transform after rebuild, got %d writes", geo.velocityWrites)
	}
}

func TestFSIDriverReportsResult(t *testing.T) {
	var log []int
	zones, _ := makeZones(t, 2, &log)
	geo := &flatGeometry{}

	d, err := New(FSI, zones, geo, Options{
		Relaxation:    0.5,
		Tolerance:     1e-9,
		MaxIterations: 6,
	})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	fd := d.(*fsiDriver)

	if fd.LastResult() != nil {
		t.Error("expected nil result before the first step")
	}
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	res := fd.LastResult()
	if res == nil {
		t.Fatal("expected a coupling result")
	}
	if res.Iterations < 1 || res.Iterations > 6 {
		t.Errorf("iteration count %d outside [1, 6]", res.Iterations)
	}

	// A before B, every iteration.
	for i := 0; i+1 < len(log); i += 2 {
		if log[i] != 0 || log[i+1] != 1 {
			t.Fatalf("advance order %v violates A-then-B", log)
		}
	}
}

func TestNewValidation(t *testing.T) {
	var log []int
	one, _ := makeZones(t, 1, &log)
	two, _ := makeZones(t, 2, &log)
	three, _ := makeZones(t, 3, &log)
	geo := &flatGeometry{}

	tests := []struct {
		name  string
		kind  Kind
		zones []*zone.Container
		geo   zone.Geometry
		opts  Options
	}{
		{"no zones", MultiZone, nil, nil, Options{}},
		{"single with many zones", SingleZone, three, nil, Options{}},
		{"fsi with one zone", FSI, one, geo, Options{Relaxation: 0.5, Tolerance: 1e-9, MaxIterations: 5}},
		{"fsi with three zones", FSI, three, geo, Options{Relaxation: 0.5, Tolerance: 1e-9, MaxIterations: 5}},
		{"fsi without geometry", FSI, two, nil, Options{Relaxation: 0.5, Tolerance: 1e-9, MaxIterations: 5}},
		{"fsi bad relaxation", FSI, two, geo, Options{Relaxation: 0, Tolerance: 1e-9, MaxIterations: 5}},
		{"fsi bad cap", FSI, two, geo, Options{Relaxation: 0.5, Tolerance: 1e-9, MaxIterations: 0}},
		{"spectral size mismatch", Spectral, three, geo, Options{Spectral: spectral.Params{NZone: 4, Period: 1}}},
		{"spectral bad period", Spectral, three, geo, Options{Spectral: spectral.Params{NZone: 3, Period: 0}}},
		{"spectral bad harmonics", Spectral, three, geo, Options{
			Spectral: spectral.Params{NZone: 3, Period: 1, Omega: []float64{0, 1, 2}},
		}},
		{"spectral without geometry", Spectral, three, nil, Options{Spectral: spectral.Params{NZone: 3, Period: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.kind, tt.zones, tt.geo, tt.opts)
			if !errors.Is(err, zone.ErrConfigInconsistency) {
				t.Errorf("expected ErrConfigInconsistency, got %v", err)
			}
		})
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{SingleZone, MultiZone, Spectral, FSI} {
		got, err := KindFromString(k.String())
		if err != nil {
			t.Fatalf("%v: %v", k, err)
		}
		if got != k {
			t.Errorf("round trip %v -> %q -> %v", k, k.String(), got)
		}
	}

	if _, err := KindFromString("warp"); !errors.Is(err, zone.ErrConfigInconsistency) {
		t.Errorf("expected ErrConfigInconsistency for unknown kind, got %v", err)
	}
}
