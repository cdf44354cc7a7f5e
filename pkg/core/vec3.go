package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Divide returns the vector divided by a scalar.
// Dividing by zero is rejected rather than producing infinities.
func (v Vec3) Divide(divisor float64) (Vec3, error) {
	if divisor == 0 {
		return v, ErrDivideByZero
	}
	inv := 1.0 / divisor
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}, nil
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the right-handed cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Normalize returns a unit vector in the same direction.
// The zero vector is returned unchanged, so the result is not guaranteed
// to have unit length.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	inv := 1.0 / length
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// IsNaN reports whether any component is NaN
func (v Vec3) IsNaN() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}

// Equals compares components exactly
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// NearlyEqual compares components within an absolute tolerance
func (v Vec3) NearlyEqual(other Vec3, tolerance float64) bool {
	return scalar.EqualWithinAbs(v.X, other.X, tolerance) &&
		scalar.EqualWithinAbs(v.Y, other.Y, tolerance) &&
		scalar.EqualWithinAbs(v.Z, other.Z, tolerance)
}

// ComponentMin returns the component-wise minimum of two vectors
func (v Vec3) ComponentMin(other Vec3) Vec3 {
	return Vec3{math.Min(v.X, other.X), math.Min(v.Y, other.Y), math.Min(v.Z, other.Z)}
}

// ComponentMax returns the component-wise maximum of two vectors
func (v Vec3) ComponentMax(other Vec3) Vec3 {
	return Vec3{math.Max(v.X, other.X), math.Max(v.Y, other.Y), math.Max(v.Z, other.Z)}
}

// Axis returns the component for axis 0=X, 1=Y, 2=Z
func (v Vec3) Axis(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// ToMatrix returns the vector as a 4x1 homogeneous column matrix
func (v Vec3) ToMatrix() *Matrix {
	m := NewMatrix(4, 1)
	m.data[0] = v.X
	m.data[1] = v.Y
	m.data[2] = v.Z
	m.data[3] = 1.0
	return m
}

// Vec3FromMatrix reads the first column of a matrix with at least 3 rows
func Vec3FromMatrix(m *Matrix) (Vec3, error) {
	if m.Rows() < 3 || m.Cols() < 1 {
		return Vec3{}, &DimensionError{Op: "vec3 from matrix", Rows: m.Rows(), Cols: m.Cols(), OtherRows: 3, OtherCols: 1}
	}
	return Vec3{m.At(0, 0), m.At(1, 0), m.At(2, 0)}, nil
}

// R3 converts to a gonum spatial vector
func (v Vec3) R3() r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// Vec3FromR3 converts from a gonum spatial vector
func Vec3FromR3(v r3.Vec) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// ParseVec3 parses three whitespace separated numbers
func ParseVec3(s string) (Vec3, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var c [3]float64
	for i, f := range fields {
		val, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Vec3{}, fmt.Errorf("invalid component %q: %w", f, err)
		}
		c[i] = val
	}
	return Vec3{c[0], c[1], c[2]}, nil
}

// String formats the vector as [x, y, z]
func (v Vec3) String() string {
	return fmt.Sprintf("[%g, %g, %g]", v.X, v.Y, v.Z)
}

// Ray represents a ray with an origin and direction.
// Direction does not need to be unit length.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// PointAt returns the point at parameter t along the ray
func (r Ray) PointAt(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
