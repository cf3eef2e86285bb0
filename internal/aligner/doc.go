// Package aligner resamples irregular time-indexed rows onto a uniform
// time grid. Time values are parsed across multiple formats (epoch
// seconds, ISO date-time, bare date), a grid is built from the observed
// range at the configured interval, and every non-time column is resampled
// independently: linear interpolation when both bracketing samples parse
// as numbers, nearest-neighbor raw copy otherwise.
//
// Dependent and independent column roles are accepted and validated but do
// not alter resampling; both groups are interpolated identically. The
// asymmetry is preserved from the original design rather than fixed
// silently.
//
// SolverMethod names more than it delivers: only linear interpolation is
// implemented. The Runge-Kutta, Heun, and cubic-spline variants are
// configuration-visible stubs that fall back to linear with a warning.
// TODO: implement the cubic-spline coefficients so the spline variant
// stops aliasing linear.
package aligner
