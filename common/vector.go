package common

import (
	"errors"

	"github.com/jakecoffman/cp"
)

var ErrDegenerateVector = errors.New("common: cannot normalize zero-length vector")

// Vector is a 2D value type. Add, Mult, Length and LengthSq come from cp.
type Vector = cp.Vector

func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Normalize returns v scaled to unit length.
func Normalize(v Vector) (Vector, error) {
	l := v.Length()
	if l == 0 {
		return Vector{}, ErrDegenerateVector
	}
	return v.Mult(1 / l), nil
}

func IsFinite(v Vector) bool {
	return Finite(v.X) && Finite(v.Y)
}
