package spectral

import (
	"fmt"

	"github.com/san-kum/mzsim/internal/zone"
)

// MeshVelocities applies the coupling operator to every mesh point's
// position history across the zone instances and writes the resulting
// per-zone velocities back into the geometry:
//
//	vel[i][p][dim] = sum_j D[i][j] * pos[j][p][dim]
//
// Must run after every operator rebuild and whenever the mesh deforms.
// Each point is independent of every other point.
func MeshVelocities(d [][]float64, geo zone.Geometry) error {
	nZone := len(d)
	histories := make([][][]float64, nZone)
	for j := 0; j < nZone; j++ {
		histories[j] = geo.NodalHistory(j)
	}

	nPoints := len(histories[0])
	for j := 1; j < nZone; j++ {
		if len(histories[j]) != nPoints {
			return fmt.Errorf("%w: zone %d has %d mesh points, zone 0 has %d",
				zone.ErrConfigInconsistency, j, len(histories[j]), nPoints)
		}
	}

	for i := 0; i < nZone; i++ {
		vel := make([][]float64, nPoints)
		for p := 0; p < nPoints; p++ {
			nDim := len(histories[0][p])
			vp := make([]float64, nDim)
			for j := 0; j < nZone; j++ {
				dij := d[i][j]
				if dij == 0 {
					continue
				}
				pos := histories[j][p]
				for dim := 0; dim < nDim; dim++ {
					vp[dim] += dij * pos[dim]
				}
			}
			vel[p] = vp
		}
		geo.SetMeshVelocity(i, vel)
	}
	return nil
}
