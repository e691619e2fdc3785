package linalg

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Jacobi diagonalises the symmetric matrix m with cyclic Jacobi rotations.
// Eigenvalues are returned unsorted; the eigenvector for values[i] is column
// i of vectors. When MaxSweeps is exhausted the current estimate is
// returned together with ErrNotConverged.
func Jacobi(m mgl64.Mat3) (values mgl64.Vec3, vectors mgl64.Mat3, err error) {
	var a, v [3][3]float64
	var scale float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a[i][j] = m.At(i, j)
			scale = math.Max(scale, math.Abs(a[i][j]))
		}
		v[i][i] = 1
	}

	d := [3]float64{a[0][0], a[1][1], a[2][2]}
	b := d
	var z [3]float64

	result := func() (mgl64.Vec3, mgl64.Mat3) {
		return mgl64.Vec3{d[0], d[1], d[2]}, mgl64.Mat3FromCols(
			mgl64.Vec3{v[0][0], v[1][0], v[2][0]},
			mgl64.Vec3{v[0][1], v[1][1], v[2][1]},
			mgl64.Vec3{v[0][2], v[1][2], v[2][2]},
		)
	}

	tolerance := Epsilon * scale
	for sweep := 0; sweep < MaxSweeps; sweep++ {
		off := math.Abs(a[0][1]) + math.Abs(a[0][2]) + math.Abs(a[1][2])
		if off <= tolerance {
			values, vectors = result()
			return values, vectors, nil
		}

		// Skip small rotations during the first sweeps
		threshold := 0.0
		if sweep < 3 {
			threshold = 0.2 * off / 9
		}

		for p := 0; p < 2; p++ {
			for q := p + 1; q < 3; q++ {
				g := 100 * math.Abs(a[p][q])
				if sweep > 3 && math.Abs(d[p])+g == math.Abs(d[p]) && math.Abs(d[q])+g == math.Abs(d[q]) {
					a[p][q] = 0
					continue
				}
				if math.Abs(a[p][q]) <= threshold {
					continue
				}

				h := d[q] - d[p]
				var t float64
				if math.Abs(h)+g == math.Abs(h) {
					t = a[p][q] / h
				} else {
					theta := 0.5 * h / a[p][q]
					t = 1 / (math.Abs(theta) + math.Sqrt(1+theta*theta))
					if theta < 0 {
						t = -t
					}
				}

				c := 1 / math.Sqrt(1+t*t)
				s := t * c
				tau := s / (1 + c)
				h = t * a[p][q]
				z[p] -= h
				z[q] += h
				d[p] -= h
				d[q] += h
				a[p][q] = 0

				for j := 0; j < p; j++ {
					rotate(&a, s, tau, j, p, j, q)
				}
				for j := p + 1; j < q; j++ {
					rotate(&a, s, tau, p, j, j, q)
				}
				for j := q + 1; j < 3; j++ {
					rotate(&a, s, tau, p, j, q, j)
				}
				for j := 0; j < 3; j++ {
					rotate(&v, s, tau, j, p, j, q)
				}
			}
		}

		for i := 0; i < 3; i++ {
			b[i] += z[i]
			d[i] = b[i]
			z[i] = 0
		}
	}

	values, vectors = result()
	if math.Abs(a[0][1])+math.Abs(a[0][2])+math.Abs(a[1][2]) <= tolerance {
		return values, vectors, nil
	}

	return values, vectors, ErrNotConverged
}

func rotate(a *[3][3]float64, s, tau float64, i, j, k, l int) {
	g := a[i][j]
	h := a[k][l]
	a[i][j] = g - s*(h+g*tau)
	a[k][l] = h + s*(g-h*tau)
}
