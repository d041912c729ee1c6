package domain

import "math"

// DielectricTensor is the 3x3 symmetric dielectric response tensor of
// the host material. A nil *DielectricTensor at the merge boundary means
// no finite-size correction is possible for that pair.
type DielectricTensor [3][3]float64

// IsotropicDielectric returns eps times the identity tensor.
func IsotropicDielectric(eps float64) *DielectricTensor {
	return &DielectricTensor{
		{eps, 0, 0},
		{0, eps, 0},
		{0, 0, eps},
	}
}

// Trace returns the sum of the diagonal elements.
func (d DielectricTensor) Trace() float64 {
	return d[0][0] + d[1][1] + d[2][2]
}

// Isotropic returns the isotropic average, one third of the trace.
func (d DielectricTensor) Isotropic() float64 {
	return d.Trace() / 3
}

// InPlane returns the average of the two in-plane diagonal components,
// used by the 2-D correction.
func (d DielectricTensor) InPlane() float64 {
	return (d[0][0] + d[1][1]) / 2
}

// OutOfPlane returns the out-of-plane diagonal component.
func (d DielectricTensor) OutOfPlane() float64 {
	return d[2][2]
}

// IsSymmetric reports whether the tensor is symmetric within tol.
func (d DielectricTensor) IsSymmetric(tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if math.Abs(d[i][j]-d[j][i]) > tol {
				return false
			}
		}
	}
	return true
}
