// Package zone defines the per-zone method containers and the collaborator
// interfaces the driver layer orchestrates.
//
// A simulation is split into nZone zones. Each zone owns one [Container]
// bundling its iteration strategy, solver set, and the opaque integrator and
// numerics bundles its physics uses internally. The driver layer only ever
// calls the operations declared here:
//
//   - [IterationStrategy]: advance one zone by one sub-iteration
//   - [SolverSet]: read/write interface coupling quantities, inject
//     spectral source terms
//   - [Geometry]: nodal position history, mesh velocities, deformation
//
// Zone count is fixed at construction. Containers are addressed by zone
// index in [0, nZone) and are never destroyed mid-run.
package zone
