// Package kinetic is the event-driven collision kernel for rigid spheres in a box.
//
// Instead of stepping every body by a fixed dt and repairing overlaps after
// the fact, the kernel solves for the exact time of the next contact and lets
// the caller advance straight to it:
//
//   - [PairTime]: time until two spheres touch (quadratic in relative motion)
//   - [WallTime]: time until a sphere center reaches a boundary plane
//   - [NextEvent]: globally earliest pair or wall event
//   - [Resolve]: elastic impulse exchange along the line of centers
//   - [Reflect]: velocity flip for bodies at a wall moving outward
//
// Dimensionality is carried by [Bounds]: a zero depth collapses the box to
// the XY plane and every per-axis loop stops at [Bounds.Dim].
//
// # Example
//
//	arena := kinetic.NewArena()
//	arena.Add(mgl64.Vec3{10, 50, 0}, mgl64.Vec3{1, 0, 0}, 1, 1)
//	arena.Add(mgl64.Vec3{90, 50, 0}, mgl64.Vec3{-1, 0, 0}, 1, 1)
//	ev := kinetic.NextEvent(arena.Bodies(), box, 1000)
//
// Nothing in this package allocates goroutines or blocks; degenerate
// geometry is absorbed into [Never] or a no-op rather than an error.
package kinetic
