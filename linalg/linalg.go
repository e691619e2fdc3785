// Package linalg holds the small dense linear algebra needed to fit oriented
// boxes: guarded normalisation, the area-weighted covariance of a triangle
// soup and a cyclic Jacobi eigen-solver for symmetric 3x3 matrices.
package linalg

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxSweeps bounds the number of cyclic Jacobi sweeps.
	MaxSweeps = 50
	// Epsilon is the off-diagonal magnitude, relative to the largest entry,
	// under which the matrix is considered diagonal.
	Epsilon = 1e-5
	// NormalizeThreshold is the length under which a vector is treated as
	// zero by SafeNormalize.
	NormalizeThreshold = 1e-6
)

// ErrNotConverged is returned by Jacobi when MaxSweeps sweeps did not
// diagonalise the matrix.
var ErrNotConverged = errors.New("linalg: jacobi solver did not converge")

// SafeNormalize returns v scaled to unit length. When v is shorter than
// NormalizeThreshold, fallback is returned and ok is false.
func SafeNormalize(v, fallback mgl64.Vec3) (n mgl64.Vec3, ok bool) {
	l := v.Len()
	if l < NormalizeThreshold || math.IsNaN(l) || math.IsInf(l, 0) {
		return fallback, false
	}

	return v.Mul(1 / l), true
}

// Perpendicular returns a unit vector orthogonal to the unit vector n.
func Perpendicular(n mgl64.Vec3) mgl64.Vec3 {
	// Cross with the world axis least aligned with n
	ax, ay, az := math.Abs(n.X()), math.Abs(n.Y()), math.Abs(n.Z())
	axis := mgl64.Vec3{0, 0, 1}
	if ax <= ay && ax <= az {
		axis = mgl64.Vec3{1, 0, 0}
	} else if ay <= az {
		axis = mgl64.Vec3{0, 1, 0}
	}

	p, _ := SafeNormalize(n.Cross(axis), mgl64.Vec3{0, 1, 0})
	return p
}

// TriangleArea returns the area of the triangle abc.
func TriangleArea(a, b, c mgl64.Vec3) float64 {
	return 0.5 * b.Sub(a).Cross(c.Sub(a)).Len()
}

// Covariance computes the covariance matrix of the surface of a triangle
// soup, each triangle weighted by its area. verts holds consecutive
// triangles. It also returns the area-weighted centroid of the surface and
// its total area. A soup with zero total area yields a zero matrix.
func Covariance(verts []mgl64.Vec3) (cov mgl64.Mat3, centroid mgl64.Vec3, area float64) {
	triangles := len(verts) / 3
	areas := make([]float64, triangles)
	centroids := make([]mgl64.Vec3, triangles)

	for t := 0; t < triangles; t++ {
		a, b, c := verts[3*t], verts[3*t+1], verts[3*t+2]
		areas[t] = TriangleArea(a, b, c)
		centroids[t] = a.Add(b).Add(c).Mul(1.0 / 3.0)
		area += areas[t]
		centroid = centroid.Add(centroids[t].Mul(areas[t]))
	}

	if area <= 0 {
		return mgl64.Mat3{}, centroid, 0
	}
	centroid = centroid.Mul(1 / area)

	invTotArea := 1 / (12 * area)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			var sum float64
			for t := 0; t < triangles; t++ {
				c := centroids[t]
				p := verts[3*t : 3*t+3]
				term := 9*c[i]*c[j] + p[0][i]*p[0][j] + p[1][i]*p[1][j] + p[2][i]*p[2][j]
				sum += areas[t] * invTotArea * term
			}
			sum -= centroid[i] * centroid[j]

			cov.Set(i, j, sum)
			cov.Set(j, i, sum)
		}
	}

	return cov, centroid, area
}
