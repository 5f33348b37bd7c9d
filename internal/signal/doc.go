// Package signal provides scalar input sources for driving a plant:
// reference trajectories, force commands and disturbances expressed as
// functions of simulated time.
//
//   - [Generator]: periodic / step / random waveforms with amplitude,
//     frequency and offset
//   - [Constant]: fixed value
//   - [Func]: adapter for a plain func(t) float64
//
// # Usage
//
//	force := signal.Generator{Amplitude: 0.025, Frequency: 0.01}
//	src := force.Source(signal.KindSquare, nil)
//	u := src.Value(t)
package signal
