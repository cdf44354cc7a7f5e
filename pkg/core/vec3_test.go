package core

import (
	"errors"
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	one23 := NewVec3(1, 2, 3)

	if got := one23.Multiply(4); !got.Equals(NewVec3(4, 8, 12)) {
		t.Errorf("Multiply: expected [4, 8, 12], got %v", got)
	}

	diff := one23.Subtract(NewVec3(0.5, 1, 1.5))
	if !diff.NearlyEqual(NewVec3(0.5, 1, 1.5), 1e-12) {
		t.Errorf("Subtract: expected [0.5, 1, 1.5], got %v", diff)
	}

	if got := one23.Add(NewVec3(1, 1, 1)); !got.Equals(NewVec3(2, 3, 4)) {
		t.Errorf("Add: expected [2, 3, 4], got %v", got)
	}

	if !NewVec3(1, 2, 3).Equals(NewVec3(1.0, 2.0, 3.0)) {
		t.Error("Expected exact equality for identical components")
	}
	for _, other := range []Vec3{NewVec3(2, 2, 3), NewVec3(1, 5, 3), NewVec3(1, 2, 4)} {
		if one23.Equals(other) {
			t.Errorf("Expected %v != %v", one23, other)
		}
	}
}

func TestVec3_Divide(t *testing.T) {
	got, err := NewVec3(2, 4, 6).Divide(2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !got.Equals(NewVec3(1, 2, 3)) {
		t.Errorf("Expected [1, 2, 3], got %v", got)
	}

	if _, err := NewVec3(1, 1, 1).Divide(0); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("Expected ErrDivideByZero, got %v", err)
	}
}

func TestVec3_DotAndCross(t *testing.T) {
	a := NewVec3(1, 1, 0).Normalize()
	b := a
	b.Z = a.Length()
	cos45 := a.Dot(b) / b.Length()
	if math.Abs(cos45-1/math.Sqrt2) > 1e-9 {
		t.Errorf("Expected cos45 %v, got %v", 1/math.Sqrt2, cos45)
	}

	tests := []struct {
		name     string
		a, b     Vec3
		expected Vec3
	}{
		{"X cross Y", NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(0, 0, 1)},
		{"Y cross Z", NewVec3(0, 1, 0), NewVec3(0, 0, 1), NewVec3(1, 0, 0)},
		{"Z cross X", NewVec3(0, 0, 1), NewVec3(1, 0, 0), NewVec3(0, 1, 0)},
		{"Y cross X", NewVec3(0, 1, 0), NewVec3(1, 0, 0), NewVec3(0, 0, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cross(tt.b); !got.NearlyEqual(tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestVec3_Normalize(t *testing.T) {
	unit := NewVec3(4, 8, 12).Normalize()
	if math.Abs(unit.Length()-1) > 1e-9 {
		t.Errorf("Expected unit length, got %v", unit.Length())
	}

	again := unit.Normalize()
	if math.Abs(again.Length()-1) > 1e-9 {
		t.Errorf("Normalize should be idempotent on unit vectors, got length %v", again.Length())
	}

	zero := NewVec3(0, 0, 0)
	if zero.IsNaN() {
		t.Error("Zero vector should not be NaN")
	}
	normalized := zero.Normalize()
	if normalized.IsNaN() || !normalized.Equals(zero) {
		t.Errorf("Normalizing zero vector should leave it unchanged, got %v", normalized)
	}
}

func TestVec3_IsNaN(t *testing.T) {
	if !NewVec3(0, math.NaN(), 0).IsNaN() {
		t.Error("Expected NaN component to be detected")
	}
	if NewVec3(math.Inf(1), 0, 0).IsNaN() {
		t.Error("Infinity is not NaN")
	}
}

func TestVec3_MatrixRoundTrip(t *testing.T) {
	v := NewVec3(4, 5, 6)
	m := v.ToMatrix()

	if m.Rows() != 4 || m.Cols() != 1 {
		t.Fatalf("Expected 4x1 matrix, got %dx%d", m.Rows(), m.Cols())
	}
	expected := []float64{4, 5, 6, 1}
	for i, e := range expected {
		if got := m.At(i, 0); got != e {
			t.Errorf("Row %d: expected %v, got %v", i, e, got)
		}
	}

	back, err := Vec3FromMatrix(m)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !back.Equals(v) {
		t.Errorf("Expected %v, got %v", v, back)
	}

	if _, err := Vec3FromMatrix(NewMatrix(2, 1)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch for 2x1 matrix, got %v", err)
	}
}

func TestParseVec3(t *testing.T) {
	for _, s := range []string{"0 1 2", "0 1 2 ", " 0 1 2 ", " 0 1 2 \n", "0\t1\t2"} {
		v, err := ParseVec3(s)
		if err != nil {
			t.Errorf("%q: unexpected error %v", s, err)
			continue
		}
		if !v.Equals(NewVec3(0, 1, 2)) {
			t.Errorf("%q: expected [0, 1, 2], got %v", s, v)
		}
	}

	for _, s := range []string{"", "1 2", "1 2 3 4", "1 x 3"} {
		if _, err := ParseVec3(s); err == nil {
			t.Errorf("%q: expected error", s)
		}
	}
}

func TestVec3_String(t *testing.T) {
	if got := NewVec3(1, 2, 3).String(); got != "[1, 2, 3]" {
		t.Errorf("Expected [1, 2, 3], got %s", got)
	}
}

func TestVec3_R3RoundTrip(t *testing.T) {
	v := NewVec3(-1.5, 2, 7)
	if got := Vec3FromR3(v.R3()); !got.Equals(v) {
		t.Errorf("Expected %v, got %v", v, got)
	}
}

func TestRay_PointAt(t *testing.T) {
	ray := NewRay(NewVec3(1, 0, 0), NewVec3(0, 2, 0))
	if got := ray.PointAt(1.5); !got.Equals(NewVec3(1, 3, 0)) {
		t.Errorf("Expected [1, 3, 0], got %v", got)
	}
	if got := ray.PointAt(0); !got.Equals(ray.Origin) {
		t.Errorf("Expected origin at t=0, got %v", got)
	}
}
