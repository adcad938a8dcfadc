// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package sparse provides compressed column-major sparse matrices as used by
// the canonicalization passes.  Matrices are immutable once constructed, and
// within every column entries are stored in strictly increasing row order.
package sparse

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Triplet identifies a single (row, column, value) entry used when building a
// matrix.  Triplets addressing the same entry have their values summed.
type Triplet struct {
	Row   int
	Col   int
	Value float64
}

// Matrix is a compressed sparse matrix in column-major (CSC) form.  The
// entries of column j are values[colPtr[j]:colPtr[j+1]], with their row
// indices in rowIdx at the same positions.
type Matrix struct {
	rows   int
	cols   int
	colPtr []int
	rowIdx []int
	values []float64
}

// NewMatrix constructs an empty (all zero) matrix of the given shape.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}
	//
	return &Matrix{rows, cols, make([]int, cols+1), nil, nil}, nil
}

// FromTriplets builds a matrix of the given shape from a list of triplets.
// Duplicate entries are summed.
func FromTriplets(rows, cols int, triplets []Triplet) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}
	// Validate entries
	for _, t := range triplets {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, t.Row, t.Col, rows, cols)
		}
	}
	// Bucket triplets by column
	var (
		counts = make([]int, cols+1)
		order  = make([]int, len(triplets))
	)
	//
	for _, t := range triplets {
		counts[t.Col+1]++
	}
	//
	for j := 0; j < cols; j++ {
		counts[j+1] += counts[j]
	}
	// counts[j] now gives the next free slot for column j.
	next := make([]int, cols)
	copy(next, counts[:cols])
	//
	for i, t := range triplets {
		order[next[t.Col]] = i
		next[t.Col]++
	}
	// Within each column, sort by row and merge duplicates.
	var (
		colPtr = make([]int, cols+1)
		rowIdx = make([]int, 0, len(triplets))
		values = make([]float64, 0, len(triplets))
	)
	//
	for j := 0; j < cols; j++ {
		slot := order[counts[j]:counts[j+1]]
		sort.Slice(slot, func(a, b int) bool {
			return triplets[slot[a]].Row < triplets[slot[b]].Row
		})
		//
		for _, i := range slot {
			t := triplets[i]
			if n := len(rowIdx); n > colPtr[j] && rowIdx[n-1] == t.Row {
				values[n-1] += t.Value
			} else {
				rowIdx = append(rowIdx, t.Row)
				values = append(values, t.Value)
			}
		}
		//
		colPtr[j+1] = len(rowIdx)
	}
	//
	return &Matrix{rows, cols, colPtr, rowIdx, values}, nil
}

// Identity constructs the n x n identity matrix.
func Identity(n int) *Matrix {
	return Scalar(1, n)
}

// Scalar constructs s times the n x n identity matrix.
func Scalar(s float64, n int) *Matrix {
	var (
		colPtr = make([]int, n+1)
		rowIdx = make([]int, n)
		values = make([]float64, n)
	)
	//
	for i := 0; i < n; i++ {
		colPtr[i+1] = i + 1
		rowIdx[i] = i
		values[i] = s
	}
	//
	return &Matrix{n, n, colPtr, rowIdx, values}
}

// Ones constructs an r x c matrix whose every entry is one.
func Ones(r, c int) *Matrix {
	var (
		colPtr = make([]int, c+1)
		rowIdx = make([]int, r*c)
		values = make([]float64, r*c)
	)
	//
	for j := 0; j < c; j++ {
		colPtr[j+1] = (j + 1) * r
		//
		for i := 0; i < r; i++ {
			rowIdx[j*r+i] = i
			values[j*r+i] = 1
		}
	}
	//
	return &Matrix{r, c, colPtr, rowIdx, values}
}

// ToVector flattens a dense matrix column-major into an n x 1 sparse column,
// where n is the number of entries of the matrix.  Zero entries are dropped.
func ToVector(d *mat.Dense) *Matrix {
	var (
		rows, cols = d.Dims()
		rowIdx     []int
		values     []float64
	)
	//
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			if v := d.At(i, j); v != 0 {
				rowIdx = append(rowIdx, j*rows+i)
				values = append(values, v)
			}
		}
	}
	//
	return &Matrix{rows * cols, 1, []int{0, len(rowIdx)}, rowIdx, values}
}

// Rows returns the number of rows of this matrix.
func (p *Matrix) Rows() int { return p.rows }

// Cols returns the number of columns of this matrix.
func (p *Matrix) Cols() int { return p.cols }

// Dims returns the shape of this matrix.
func (p *Matrix) Dims() (int, int) { return p.rows, p.cols }

// NonZeros returns the number of stored entries of this matrix.  Entries
// whose value happens to be zero (e.g. through cancellation) are counted.
func (p *Matrix) NonZeros() int { return len(p.values) }

// At returns the entry at the given position, or zero when no entry is
// stored there.
func (p *Matrix) At(r, c int) float64 {
	var (
		lo = p.colPtr[c]
		hi = p.colPtr[c+1]
	)
	// Binary search within the column.
	k := lo + sort.SearchInts(p.rowIdx[lo:hi], r)
	if k < hi && p.rowIdx[k] == r {
		return p.values[k]
	}
	//
	return 0
}

// Col visits every stored entry of column j in increasing row order.
func (p *Matrix) Col(j int, fn func(row int, value float64)) {
	for k := p.colPtr[j]; k < p.colPtr[j+1]; k++ {
		fn(p.rowIdx[k], p.values[k])
	}
}

// Each visits every stored entry in column-major order.
func (p *Matrix) Each(fn func(row, col int, value float64)) {
	for j := 0; j < p.cols; j++ {
		for k := p.colPtr[j]; k < p.colPtr[j+1]; k++ {
			fn(p.rowIdx[k], j, p.values[k])
		}
	}
}

// ToDense expands this matrix into a dense gonum matrix.
func (p *Matrix) ToDense() *mat.Dense {
	// gonum cannot represent an empty matrix; callers must check the shape
	// before expanding.
	if p.rows == 0 || p.cols == 0 {
		panic(fmt.Sprintf("cannot densify empty %dx%d matrix", p.rows, p.cols))
	}
	//
	d := mat.NewDense(p.rows, p.cols, nil)
	p.Each(func(r, c int, v float64) { d.Set(r, c, v) })
	//
	return d
}

// String returns a short human-readable summary of this matrix.
func (p *Matrix) String() string {
	return fmt.Sprintf("%dx%d sparse, %d nnz", p.rows, p.cols, len(p.values))
}
