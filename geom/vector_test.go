package geom

import (
	"testing"
)

func TestVector2(t *testing.T) {
	zero := NewVector2(0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("len != 0")
	}

	if *zero.Normalize() != *NewVector2(1, 0) {
		t.Error("Normalize shoud returns unit vector.", zero.Normalize())
	}

	if *NewVector2(1, 0).Add(NewVector2(0, 1)) != *NewVector2(1, 1) {
		t.Error("Vector.Add()")
	}

	if NewVector2(1, 0).Cross(NewVector2(0, 1)) != 1 || Cross2D(NewVector2(0, 1), NewVector2(1, 0)) != -1 {
		t.Error("Cross should be positive for counter-clockwise turn")
	}
}

func TestVector3(t *testing.T) {
	zero := NewVector3(0, 0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("len != 0")
	}

	if _, ok := zero.Unit(); ok {
		t.Error("Unit of zero vector")
	}

	if *zero.Normalize() != *NewVector3(1, 0, 0) {
		t.Error("Normalize shoud returns unit vector.", zero.Normalize())
	}

	if *NewVector3(1, 0, 0).Add(NewVector3(0, 1, 0)) != *NewVector3(1, 1, 0) {
		t.Error("Vector.Add()")
	}

	if *NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0)) != *NewVector3(0, 0, 1) {
		t.Error("Vector.Cross()")
	}

	u, ok := NewVector3(0, 3, 4).Unit()
	if !ok || *u != *NewVector3(0, 0.6, 0.8) {
		t.Error("Vector.Unit()", u)
	}
}
