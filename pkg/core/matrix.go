package core

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense row-major matrix of arbitrary size.
// The arithmetic itself is delegated to gonum; Matrix adds shape checking
// that reports errors instead of panicking.
type Matrix struct {
	rows, cols int
	data       []float64 // len == rows*cols
}

// NewMatrix creates a zero-filled rows x cols matrix
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic("core: negative matrix dimension")
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewMatrixFromRows creates a matrix from a slice of equal-length rows
func NewMatrixFromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for i, row := range rows {
		if err := m.SetRow(i, row); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Identity creates an n x n identity matrix
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// Zero creates an n x n zero matrix
func Zero(n int) *Matrix {
	return NewMatrix(n, n)
}

// Rows returns the number of rows
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns
func (m *Matrix) Cols() int { return m.cols }

// SetSize changes the dimensions. Existing contents are discarded
// (zeroed) unless the dimensions are unchanged.
func (m *Matrix) SetSize(rows, cols int) {
	if rows == m.rows && cols == m.cols && m.data != nil {
		return
	}
	*m = *NewMatrix(rows, cols)
}

func (m *Matrix) checkIndex(row, col int) error {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return fmt.Errorf("element (%d,%d) of %dx%d matrix: %w", row, col, m.rows, m.cols, ErrIndexOutOfRange)
	}
	return nil
}

// Get returns the element at (row, col)
func (m *Matrix) Get(row, col int) (float64, error) {
	if err := m.checkIndex(row, col); err != nil {
		return 0, err
	}
	return m.data[row*m.cols+col], nil
}

// Set assigns the element at (row, col)
func (m *Matrix) Set(row, col int, val float64) error {
	if err := m.checkIndex(row, col); err != nil {
		return err
	}
	m.data[row*m.cols+col] = val
	return nil
}

// At returns the element at (row, col) and panics when out of range.
// Use it where the shape is known, such as inside transform construction.
func (m *Matrix) At(row, col int) float64 {
	if err := m.checkIndex(row, col); err != nil {
		panic(err)
	}
	return m.data[row*m.cols+col]
}

// Row returns a copy of the given row
func (m *Matrix) Row(row int) ([]float64, error) {
	if row < 0 || row >= m.rows {
		return nil, fmt.Errorf("row %d of %dx%d matrix: %w", row, m.rows, m.cols, ErrIndexOutOfRange)
	}
	out := make([]float64, m.cols)
	copy(out, m.data[row*m.cols:(row+1)*m.cols])
	return out, nil
}

// SetRow assigns an entire row
func (m *Matrix) SetRow(row int, vals []float64) error {
	if row < 0 || row >= m.rows {
		return fmt.Errorf("row %d of %dx%d matrix: %w", row, m.rows, m.cols, ErrIndexOutOfRange)
	}
	if len(vals) != m.cols {
		return &DimensionError{Op: "set row", Rows: 1, Cols: len(vals), OtherRows: 1, OtherCols: m.cols}
	}
	copy(m.data[row*m.cols:], vals)
	return nil
}

// SetAll assigns every element from a row-major slice
func (m *Matrix) SetAll(vals []float64) error {
	if len(vals) != len(m.data) {
		return &DimensionError{Op: "set all", Rows: len(vals), Cols: 1, OtherRows: m.rows * m.cols, OtherCols: 1}
	}
	copy(m.data, vals)
	return nil
}

// Clone returns a deep copy
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

func (m *Matrix) isEmpty() bool {
	return m.rows == 0 || m.cols == 0
}

// dense wraps the buffer in a gonum view; writes through the view land in m
func (m *Matrix) dense() *mat.Dense {
	return mat.NewDense(m.rows, m.cols, m.data)
}

// Multiply returns m * b
func (m *Matrix) Multiply(b *Matrix) (*Matrix, error) {
	if m.cols != b.rows {
		return nil, &DimensionError{Op: "multiply", Rows: m.rows, Cols: m.cols, OtherRows: b.rows, OtherCols: b.cols}
	}
	out := NewMatrix(m.rows, b.cols)
	if m.isEmpty() || b.isEmpty() {
		return out, nil
	}
	out.dense().Mul(m.dense(), b.dense())
	return out, nil
}

// Scale returns m * s
func (m *Matrix) Scale(s float64) *Matrix {
	out := NewMatrix(m.rows, m.cols)
	if m.isEmpty() {
		return out
	}
	out.dense().Scale(s, m.dense())
	return out
}

// DivideScalar returns m / s
func (m *Matrix) DivideScalar(s float64) (*Matrix, error) {
	if s == 0 {
		return nil, ErrDivideByZero
	}
	return m.Scale(1.0 / s), nil
}

// Add returns m + b
func (m *Matrix) Add(b *Matrix) (*Matrix, error) {
	if m.rows != b.rows || m.cols != b.cols {
		return nil, &DimensionError{Op: "add", Rows: m.rows, Cols: m.cols, OtherRows: b.rows, OtherCols: b.cols}
	}
	out := NewMatrix(m.rows, m.cols)
	if m.isEmpty() {
		return out, nil
	}
	out.dense().Add(m.dense(), b.dense())
	return out, nil
}

// Subtract returns m - b
func (m *Matrix) Subtract(b *Matrix) (*Matrix, error) {
	if m.rows != b.rows || m.cols != b.cols {
		return nil, &DimensionError{Op: "subtract", Rows: m.rows, Cols: m.cols, OtherRows: b.rows, OtherCols: b.cols}
	}
	out := NewMatrix(m.rows, m.cols)
	if m.isEmpty() {
		return out, nil
	}
	out.dense().Sub(m.dense(), b.dense())
	return out, nil
}

// Transpose returns the cols x rows transpose
func (m *Matrix) Transpose() *Matrix {
	out := NewMatrix(m.cols, m.rows)
	if m.isEmpty() {
		return out
	}
	out.dense().Copy(m.dense().T())
	return out
}

// MultiplyInPlace replaces m with m * b
func (m *Matrix) MultiplyInPlace(b *Matrix) error {
	r, err := m.Multiply(b)
	if err != nil {
		return err
	}
	*m = *r
	return nil
}

// ScaleInPlace replaces m with m * s
func (m *Matrix) ScaleInPlace(s float64) {
	*m = *m.Scale(s)
}

// AddInPlace replaces m with m + b
func (m *Matrix) AddInPlace(b *Matrix) error {
	r, err := m.Add(b)
	if err != nil {
		return err
	}
	*m = *r
	return nil
}

// SubtractInPlace replaces m with m - b
func (m *Matrix) SubtractInPlace(b *Matrix) error {
	r, err := m.Subtract(b)
	if err != nil {
		return err
	}
	*m = *r
	return nil
}

// Equals compares shape and elements exactly
func (m *Matrix) Equals(b *Matrix) bool {
	if m.rows != b.rows || m.cols != b.cols {
		return false
	}
	if m.isEmpty() {
		return true
	}
	return mat.Equal(m.dense(), b.dense())
}

// String formats one bracketed row per line
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.cols+j])
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
