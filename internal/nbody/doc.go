// Package nbody provides the point-mass primitives of the gravity simulation.
//
// The package defines the state that the integrator mutates and the renderer
// reads:
//
//   - [Body]: one point mass, split into a [Physical] sub-state (position,
//     velocity, mass) and a [Display] sub-state (radius, colour, wrap offset)
//   - [Ensemble]: the fixed, ordered set of bodies simulated together
//
// Positions are absolute and unbounded. Wrapping onto the bounded canvas is
// purely a display concern handled by [Body.DisplayTransform], which only ever
// mutates the display offset.
//
// # Example
//
//	sun, _ := nbody.NewBody(30, 300, mgl64.Vec3{750, 450, 0}, mgl64.Vec3{}, nbody.White)
//	ens, _ := nbody.NewEnsemble([]nbody.Body{sun}, nbody.DefaultMaxBodies)
//	x, y, r := ens.At(0).DisplayTransform(1500, 900)
//
// # Thread Safety
//
// Bodies and ensembles are NOT thread-safe. A simulation owns its ensemble
// and mutates it in place once per tick.
package nbody
