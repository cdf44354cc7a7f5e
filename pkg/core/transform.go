package core

import "math"

// Epsilon is the smallest magnitude treated as non-zero by geometric code
const Epsilon = 1e-7

// TranslationMatrix creates a 4x4 homogeneous translation
func TranslationMatrix(t Vec3) *Matrix {
	m := Identity(4)
	m.data[0*4+3] = t.X
	m.data[1*4+3] = t.Y
	m.data[2*4+3] = t.Z
	return m
}

// RotationXMatrix rotates counter-clockwise around the X axis by theta radians
func RotationXMatrix(theta float64) *Matrix {
	m := Identity(4)
	cos, sin := math.Cos(theta), math.Sin(theta)
	m.data[1*4+1] = cos
	m.data[1*4+2] = -sin
	m.data[2*4+1] = sin
	m.data[2*4+2] = cos
	return m
}

// RotationYMatrix rotates counter-clockwise around the Y axis by theta radians
func RotationYMatrix(theta float64) *Matrix {
	m := Identity(4)
	cos, sin := math.Cos(theta), math.Sin(theta)
	m.data[0*4+0] = cos
	m.data[0*4+2] = sin
	m.data[2*4+0] = -sin
	m.data[2*4+2] = cos
	return m
}

// RotationZMatrix rotates counter-clockwise around the Z axis by theta radians
func RotationZMatrix(theta float64) *Matrix {
	m := Identity(4)
	cos, sin := math.Cos(theta), math.Sin(theta)
	m.data[0*4+0] = cos
	m.data[0*4+1] = -sin
	m.data[1*4+0] = sin
	m.data[1*4+1] = cos
	return m
}

// ScalingMatrix creates a per-axis scale
func ScalingMatrix(scale Vec3) *Matrix {
	m := Identity(4)
	m.data[0*4+0] = scale.X
	m.data[1*4+1] = scale.Y
	m.data[2*4+2] = scale.Z
	return m
}

// UniformScalingMatrix scales all three axes by s
func UniformScalingMatrix(s float64) *Matrix {
	return ScalingMatrix(NewVec3(s, s, s))
}

// CompositeTransform scales, then rotates around X, Y and Z (in that order),
// then translates. Rotation angles are in radians; near-zero angles are skipped.
func CompositeTransform(translate, scale, rotate Vec3) *Matrix {
	result := ScalingMatrix(scale)

	rotations := []struct {
		angle float64
		build func(float64) *Matrix
	}{
		{rotate.X, RotationXMatrix},
		{rotate.Y, RotationYMatrix},
		{rotate.Z, RotationZMatrix},
	}
	for _, r := range rotations {
		if math.Abs(r.angle) <= Epsilon {
			continue
		}
		// 4x4 * 4x4 cannot mismatch
		result, _ = r.build(r.angle).Multiply(result)
	}

	result, _ = TranslationMatrix(translate).Multiply(result)
	return result
}

// TransformPoint applies a 4x4 homogeneous transform to a point
func TransformPoint(m *Matrix, p Vec3) (Vec3, error) {
	out, err := m.Multiply(p.ToMatrix())
	if err != nil {
		return Vec3{}, err
	}
	return Vec3FromMatrix(out)
}
