// Package numkit collects numerical and statistical helpers built on
// gonum: smooth extensions of log, exp and power functions that stay
// twice differentiable outside their natural domains, Gauss-Hermite and
// Gauss-Legendre quadrature with Gaussian expectation helpers, distance
// covariance and partial distance covariance with bootstrap tests of
// independence, and assorted array, density and regression utilities.
//
// The subpackages are:
//
//   - tensor: a small n-dimensional array with shape validators and
//     gonum interop at the 1-D/2-D boundary
//   - numutil: smooth C2 extensions (Log, Exp, Pow, XLogX), padding and
//     grid helpers, positive-definite square roots, polynomials
//   - quad: Gauss-Hermite and Gauss-Legendre rules and expectations of
//     functions of an N(0,1) variate
//   - dcov: distance covariance, distance correlation and their partial
//     variants, with bootstrap p-values
//   - stats: empirical CDFs and quantiles, density estimation, linear
//     projections and two-stage least squares
package numkit
