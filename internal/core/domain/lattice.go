package domain

import (
	"fmt"
	"math"
)

// FracCoord is a fractional coordinate within a lattice.
type FracCoord [3]float64

// CartCoord is a Cartesian coordinate in angstroms.
type CartCoord [3]float64

// Lattice represents a periodic simulation cell.
// Rows of Matrix are the lattice vectors a, b, c in angstroms.
type Lattice struct {
	Matrix [3][3]float64
}

// CubicLattice returns a cubic lattice with edge length a.
func CubicLattice(a float64) Lattice {
	return Lattice{Matrix: [3][3]float64{
		{a, 0, 0},
		{0, a, 0},
		{0, 0, a},
	}}
}

// Vector returns lattice vector i (0, 1 or 2).
func (l Lattice) Vector(i int) CartCoord {
	return CartCoord{l.Matrix[i][0], l.Matrix[i][1], l.Matrix[i][2]}
}

// Volume returns the cell volume in cubic angstroms.
func (l Lattice) Volume() float64 {
	return math.Abs(l.determinant())
}

func (l Lattice) determinant() float64 {
	m := l.Matrix
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns the inverse of the lattice matrix.
// Fails with ErrInvalidInput for a degenerate cell.
func (l Lattice) Inverse() ([3][3]float64, error) {
	det := l.determinant()
	if math.Abs(det) < 1e-12 {
		return [3][3]float64{}, fmt.Errorf("degenerate lattice: %w", ErrInvalidInput)
	}
	m := l.Matrix
	var inv [3][3]float64
	inv[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) / det
	inv[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) / det
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) / det
	inv[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) / det
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) / det
	inv[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) / det
	inv[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) / det
	inv[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) / det
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) / det
	return inv, nil
}

// Reciprocal returns the reciprocal lattice (rows are b1, b2, b3,
// including the 2*pi factor).
func (l Lattice) Reciprocal() (Lattice, error) {
	inv, err := l.Inverse()
	if err != nil {
		return Lattice{}, err
	}
	var r Lattice
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.Matrix[i][j] = 2 * math.Pi * inv[j][i]
		}
	}
	return r, nil
}

// FracToCart converts a fractional coordinate to Cartesian.
func (l Lattice) FracToCart(f FracCoord) CartCoord {
	var c CartCoord
	for i := 0; i < 3; i++ {
		c[i] = f[0]*l.Matrix[0][i] + f[1]*l.Matrix[1][i] + f[2]*l.Matrix[2][i]
	}
	return c
}

// CartToFrac converts a Cartesian coordinate to fractional.
func (l Lattice) CartToFrac(c CartCoord) (FracCoord, error) {
	inv, err := l.Inverse()
	if err != nil {
		return FracCoord{}, err
	}
	var f FracCoord
	for i := 0; i < 3; i++ {
		f[i] = c[0]*inv[0][i] + c[1]*inv[1][i] + c[2]*inv[2][i]
	}
	return f, nil
}

// PerpendicularWidths returns, for each lattice direction, the distance
// between the opposing cell faces. The largest sphere that fits inside
// the cell has diameter equal to the smallest of the three.
func (l Lattice) PerpendicularWidths() [3]float64 {
	v := l.Volume()
	a, b, c := l.Vector(0), l.Vector(1), l.Vector(2)
	return [3]float64{
		v / vecNorm(vecCross(b, c)),
		v / vecNorm(vecCross(c, a)),
		v / vecNorm(vecCross(a, b)),
	}
}

// ApproxEqual reports whether two lattices agree element-wise within tol.
func (l Lattice) ApproxEqual(o Lattice, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(l.Matrix[i][j]-o.Matrix[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// MinImageVector returns the shortest Cartesian vector from f1 to f2
// under periodic boundary conditions (minimum-image convention over the
// 27 neighbouring images).
func (l Lattice) MinImageVector(f1, f2 FracCoord) CartCoord {
	df := FracCoord{f2[0] - f1[0], f2[1] - f1[1], f2[2] - f1[2]}
	for i := 0; i < 3; i++ {
		df[i] -= math.Round(df[i])
	}
	best := l.FracToCart(df)
	bestN := vecNorm(best)
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			for dk := -1; dk <= 1; dk++ {
				cand := l.FracToCart(FracCoord{df[0] + float64(di), df[1] + float64(dj), df[2] + float64(dk)})
				if n := vecNorm(cand); n < bestN {
					best, bestN = cand, n
				}
			}
		}
	}
	return best
}

// MinImageDistance returns the minimum-image distance between two
// fractional coordinates.
func (l Lattice) MinImageDistance(f1, f2 FracCoord) float64 {
	return vecNorm(l.MinImageVector(f1, f2))
}

func vecCross(a, b CartCoord) CartCoord {
	return CartCoord{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func vecDot(a, b CartCoord) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func vecNorm(a CartCoord) float64 {
	return math.Sqrt(vecDot(a, a))
}
