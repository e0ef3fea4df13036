package llm

import "math"

// normEpsilon guards the division for all-zero vectors while leaving
// normal vectors unaffected within floating-point tolerance.
const normEpsilon = 1e-8

// Normalize L2-normalizes v in place and returns it. Idempotent:
// normalizing a unit vector again leaves it unchanged within tolerance.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum) + normEpsilon
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

// NormalizeMatrix row-normalizes every embedding in place. Loaded
// index files are passed through here so indexes written by older
// builds search the same as fresh ones.
func NormalizeMatrix(m [][]float32) [][]float32 {
	for i := range m {
		Normalize(m[i])
	}
	return m
}
