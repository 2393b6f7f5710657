// Package analysis provides statistics for recorded and live collision runs.
//
// The package includes tools for characterizing a hard-sphere gas:
//
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [Speeds], [SpeedHistogram] and [EquilibriumDeviation]: distance of the
//     speed distribution from Maxwell-Boltzmann
//   - [CollisionSeries] and [DominantPeriod]: periodicity of collisions
//   - [MeanFreeTime]: mean time between collisions of the same body
//   - [NewOccupancy]: where body centers spend their time
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	d, err := analysis.LyapunovExponent(box, bodies, cfg, 1e-9, 2000, 40)
//	if err == nil && d.Exponent > 0 {
//	    // System is chaotic
//	}
package analysis
