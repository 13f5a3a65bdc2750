package network

import "math"

// Vector holds one scalar per neuron: a drive, activation or activity.
type Vector []float64

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func (v Vector) Add(other Vector) Vector {
	result := make(Vector, len(v))
	for i := range v {
		if i < len(other) {
			result[i] = v[i] + other[i]
		} else {
			result[i] = v[i]
		}
	}
	return result
}

func (v Vector) Sub(other Vector) Vector {
	result := make(Vector, len(v))
	for i := range v {
		if i < len(other) {
			result[i] = v[i] - other[i]
		} else {
			result[i] = v[i]
		}
	}
	return result
}

func (v Vector) Scale(factor float64) Vector {
	result := make(Vector, len(v))
	for i := range v {
		result[i] = v[i] * factor
	}
	return result
}

// Max returns the largest element, or 0 for an empty vector.
func (v Vector) Max() float64 {
	if len(v) == 0 {
		return 0
	}
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Mean returns the arithmetic mean, or 0 for an empty vector.
func (v Vector) Mean() float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// Matrix is a dense row-major matrix.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix allocates a zero rows×cols matrix.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows < 0 {
		return nil, &DimensionError{What: "matrix rows", Got: rows, Want: 0}
	}
	if cols < 0 {
		return nil, &DimensionError{What: "matrix cols", Got: cols, Want: 0}
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}, nil
}

func (m *Matrix) Dims() (rows, cols int) { return m.rows, m.cols }

func (m *Matrix) At(i, j int) float64 { return m.data[i*m.cols+j] }

func (m *Matrix) Set(i, j int, v float64) { m.data[i*m.cols+j] = v }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) Vector {
	r := make(Vector, m.cols)
	copy(r, m.data[i*m.cols:(i+1)*m.cols])
	return r
}

// Rows returns the matrix as a slice of row copies.
func (m *Matrix) Rows() [][]float64 {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// IsSymmetric reports whether m equals its transpose within tol.
func (m *Matrix) IsSymmetric(tol float64) bool {
	if m.rows != m.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for j := i + 1; j < m.cols; j++ {
			if math.Abs(m.At(i, j)-m.At(j, i)) > tol {
				return false
			}
		}
	}
	return true
}

// MulVecTo writes m·v into dst. dst must not alias v.
func (m *Matrix) MulVecTo(dst, v Vector) error {
	if len(v) != m.cols {
		return &DimensionError{What: "vector", Got: len(v), Want: m.cols}
	}
	if len(dst) != m.rows {
		return &DimensionError{What: "destination", Got: len(dst), Want: m.rows}
	}
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.cols : (i+1)*m.cols]
		sum := 0.0
		for j, w := range row {
			sum += w * v[j]
		}
		dst[i] = sum
	}
	return nil
}

// MulVec returns m·v.
func (m *Matrix) MulVec(v Vector) (Vector, error) {
	dst := make(Vector, m.rows)
	if err := m.MulVecTo(dst, v); err != nil {
		return nil, err
	}
	return dst, nil
}
