// Package logmath provides arithmetic on natural-log probabilities.
//
// Every probability stored by the chart engine is a natural-log probability.
// Keeping the base in one place avoids mixing conventions between scoring
// strategies and display code.
package logmath

import "math"

// Zero is the log-space representation of probability zero.
var Zero = math.Inf(-1)

// Log converts an ordinary probability to log space. Zero (or anything
// below it, from floating error upstream) maps to Zero.
func Log(p float64) float64 {
	if p <= 0 {
		return Zero
	}
	return math.Log(p)
}

// Exp converts a log probability back to an ordinary probability.
func Exp(lp float64) float64 {
	if lp == Zero {
		return 0
	}
	return math.Exp(lp)
}

// Add returns ln(e^x + e^y) without leaving log space.
func Add(x, y float64) float64 {
	if x == Zero {
		return y
	}
	if y == Zero {
		return x
	}
	if x < y {
		x, y = y, x
	}
	return x + math.Log1p(math.Exp(y-x))
}
