package models

import (
	"math"

	"github.com/san-kum/mzsim/internal/zone"
)

// RingGeometry is a small in-memory mesh: nPoints nodes per zone instance
// on a unit circle, radially offset per instance so the nodal position
// history is periodic in the zone index. It records the mesh velocities
// the spectral driver derives and accumulates interface deformations.
type RingGeometry struct {
	positions  [][][]float64 // zone -> point -> xy
	velocities [][][]float64
	deforms    int
}

// NewRingGeometry places nPoints nodes per instance, breathing radially
// with the instance phase: r = 1 + amp*cos(2*pi*i/nZone).
func NewRingGeometry(nZone, nPoints int, amp float64) *RingGeometry {
	g := &RingGeometry{
		positions:  make([][][]float64, nZone),
		velocities: make([][][]float64, nZone),
	}
	for i := 0; i < nZone; i++ {
		r := 1 + amp*math.Cos(2*math.Pi*float64(i)/float64(nZone))
		pts := make([][]float64, nPoints)
		for p := 0; p < nPoints; p++ {
			theta := 2 * math.Pi * float64(p) / float64(nPoints)
			pts[p] = []float64{r * math.Cos(theta), r * math.Sin(theta)}
		}
		g.positions[i] = pts
	}
	return g
}

func (g *RingGeometry) NodalHistory(zoneIndex int) [][]float64 {
	return g.positions[zoneIndex]
}

func (g *RingGeometry) SetMeshVelocity(zoneIndex int, vel [][]float64) {
	g.velocities[zoneIndex] = vel
}

// DeformMesh displaces every node of the zone radially by the first
// component of the displacement field.
func (g *RingGeometry) DeformMesh(zoneIndex int, displacement zone.Quantity) error {
	g.deforms++
	if len(displacement) == 0 {
		return nil
	}
	dr := displacement[0]
	for _, pt := range g.positions[zoneIndex] {
		norm := math.Hypot(pt[0], pt[1])
		if norm == 0 {
			continue
		}
		scale := (norm + dr) / norm
		pt[0] *= scale
		pt[1] *= scale
	}
	return nil
}

// MeshVelocity returns the stored velocity field for a zone, or nil if
// the spectral transform has not run.
func (g *RingGeometry) MeshVelocity(zoneIndex int) [][]float64 {
	return g.velocities[zoneIndex]
}

// Deformations reports how many DeformMesh calls the geometry received.
func (g *RingGeometry) Deformations() int { return g.deforms }
