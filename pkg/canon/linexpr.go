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
package canon

import (
	"github.com/consensys/go-canon/pkg/expr"
	"github.com/consensys/go-canon/pkg/sparse"
)

// A coefficient builder produces, for an affine atom, one sparse block per
// argument.  Block i has shape (dim(expr), dim(expr.Arg(i))) and is the
// Jacobian of the atom with respect to argument i under the column-major
// vectorization.
type coefficientBuilder func(e *expr.Expr) []*sparse.Matrix

// coefficientBuilders dispatches affine atoms to their builder.  CONST, VAR
// and MUL are handled directly by the extraction driver; a kind absent from
// this table is fatal there.
var coefficientBuilders = map[expr.Kind]coefficientBuilder{
	expr.KindAdd:        addCoefficients,
	expr.KindDiagMat:    diagMatCoefficients,
	expr.KindDiagVec:    diagVecCoefficients,
	expr.KindHStack:     hstackCoefficients,
	expr.KindIndex:      indexCoefficients,
	expr.KindNeg:        negCoefficients,
	expr.KindReshape:    reshapeCoefficients,
	expr.KindSumEntries: sumEntriesCoefficients,
	expr.KindTranspose:  transposeCoefficients,
	expr.KindVStack:     vstackCoefficients,
}

func mustTriplets(rows, cols int, triplets []sparse.Triplet) *sparse.Matrix {
	m, err := sparse.FromTriplets(rows, cols, triplets)
	if err != nil {
		panic(err)
	}
	//
	return m
}

// Scalar arguments broadcast through a ones column; all others pass through
// the identity.
func addCoefficients(e *expr.Expr) []*sparse.Matrix {
	var (
		n      = expr.Dim(e)
		coeffs = make([]*sparse.Matrix, e.NumArgs())
	)
	//
	for i, arg := range e.Args() {
		if expr.Dim(arg) == 1 {
			coeffs[i] = sparse.Ones(n, 1)
		} else {
			coeffs[i] = sparse.Identity(n)
		}
	}
	//
	return coeffs
}

func negCoefficients(e *expr.Expr) []*sparse.Matrix {
	return []*sparse.Matrix{sparse.Scalar(-1, expr.Dim(e))}
}

func sumEntriesCoefficients(e *expr.Expr) []*sparse.Matrix {
	return []*sparse.Matrix{sparse.Ones(1, expr.Dim(e.Arg(0)))}
}

// Reshape relies on equal entry counts under the column-major flattening.
func reshapeCoefficients(e *expr.Expr) []*sparse.Matrix {
	return []*sparse.Matrix{sparse.Identity(expr.Dim(e))}
}

func vstackCoefficients(e *expr.Expr) []*sparse.Matrix {
	return stackCoefficients(e, true)
}

func hstackCoefficients(e *expr.Expr) []*sparse.Matrix {
	return stackCoefficients(e, false)
}

// Each argument's block scatters its entries into their positions in the
// stacked result.  Vertically stacked arguments interleave their columns
// (stride by the result's row count); horizontal arguments lay out in order.
func stackCoefficients(e *expr.Expr, vertical bool) []*sparse.Matrix {
	var (
		coeffs  = make([]*sparse.Matrix, e.NumArgs())
		rows, _ = expr.Size(e)
		offset  = 0
	)
	//
	for i, arg := range e.Args() {
		argRows, argCols := expr.Size(arg)
		//
		var columnOffset, offsetIncrement int
		if vertical {
			columnOffset = rows
			offsetIncrement = argRows
		} else {
			columnOffset = argRows
			offsetIncrement = argRows * argCols
		}
		//
		triplets := make([]sparse.Triplet, 0, argRows*argCols)
		//
		for r := 0; r < argRows; r++ {
			for c := 0; c < argCols; c++ {
				triplets = append(triplets, sparse.Triplet{
					Row:   r + c*columnOffset + offset,
					Col:   r + c*argRows,
					Value: 1,
				})
			}
		}
		//
		coeffs[i] = mustTriplets(expr.Dim(e), expr.Dim(arg), triplets)
		offset += offsetIncrement
	}
	//
	return coeffs
}

// One row per selected entry, enumerating the column selection in the outer
// loop.  Negative bounds resolve modulo the axis length; each loop halts on
// leaving the axis, or once the next index passes the stop bound in the
// direction of step.
func indexCoefficients(e *expr.Expr) []*sparse.Matrix {
	var (
		attr       = expr.Attr[*expr.IndexAttributes](e)
		rows, cols = expr.Size(e.Arg(0))
		outDim     = expr.Dim(e)
	)
	// An empty selection keeps the correct column count.
	if outDim == 0 {
		return []*sparse.Matrix{mustTriplets(0, rows*cols, nil)}
	}
	//
	var (
		rs       = attr.Rows.Resolve(rows)
		cs       = attr.Cols.Resolve(cols)
		triplets = make([]sparse.Triplet, 0, outDim)
		counter  = 0
	)
	//
	col := cs.Start
	//
	for {
		if col < 0 || col >= cols {
			break
		}
		//
		row := rs.Start
		//
		for {
			if row < 0 || row >= rows {
				break
			}
			//
			triplets = append(triplets, sparse.Triplet{Row: counter, Col: col*rows + row, Value: 1})
			counter++
			//
			row += rs.Step
			if (rs.Step > 0 && row >= rs.Stop) || (rs.Step < 0 && row < rs.Stop) {
				break
			}
		}
		//
		col += cs.Step
		if (cs.Step > 0 && col >= cs.Stop) || (cs.Step < 0 && col < cs.Stop) {
			break
		}
	}
	//
	return []*sparse.Matrix{mustTriplets(outDim, rows*cols, triplets)}
}

// Permutation mapping column-major index i*cols+j of the argument to
// rows*j+i of the transposed result.
func transposeCoefficients(e *expr.Expr) []*sparse.Matrix {
	var (
		rows, cols = expr.Size(e)
		triplets   = make([]sparse.Triplet, 0, rows*cols)
	)
	//
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			triplets = append(triplets, sparse.Triplet{Row: rows*j + i, Col: i*cols + j, Value: 1})
		}
	}
	//
	return []*sparse.Matrix{mustTriplets(rows*cols, rows*cols, triplets)}
}

// Vector entry i lands on the diagonal position (i, i) of the result.
func diagVecCoefficients(e *expr.Expr) []*sparse.Matrix {
	var (
		rows, _  = expr.Size(e)
		triplets = make([]sparse.Triplet, 0, rows)
	)
	//
	for i := 0; i < rows; i++ {
		triplets = append(triplets, sparse.Triplet{Row: i*rows + i, Col: i, Value: 1})
	}
	//
	return []*sparse.Matrix{mustTriplets(rows*rows, rows, triplets)}
}

// Diagonal entry (i, i) of the argument lands at position i of the extracted
// vector.
func diagMatCoefficients(e *expr.Expr) []*sparse.Matrix {
	var (
		rows, _  = expr.Size(e)
		triplets = make([]sparse.Triplet, 0, rows)
	)
	//
	for i := 0; i < rows; i++ {
		triplets = append(triplets, sparse.Triplet{Row: i, Col: i*rows + i, Value: 1})
	}
	//
	return []*sparse.Matrix{mustTriplets(rows, rows*rows, triplets)}
}

// The multiplication builders receive the constant side as the flattened
// column produced by coefficient extraction, and rebuild its (p, q) layout
// from the corresponding argument's shape.

// Left-constant multiplication C*X with C of shape (p, q): block-diagonal,
// one copy of C per column of the result.
func leftMulCoefficients(e *expr.Expr, constCol *sparse.Matrix) *sparse.Matrix {
	var (
		p, q     = expr.Size(e.Arg(0))
		_, n     = expr.Size(e)
		triplets = make([]sparse.Triplet, 0, n*constCol.NonZeros())
	)
	//
	constCol.Col(0, func(flat int, v float64) {
		var (
			r = flat % p
			c = flat / p
		)
		//
		for blk := 0; blk < n; blk++ {
			triplets = append(triplets, sparse.Triplet{Row: blk*p + r, Col: blk*q + c, Value: v})
		}
	})
	//
	return mustTriplets(p*n, q*n, triplets)
}

// Right-constant multiplication X*C with X of shape (m, p) and C of shape
// (p, q): each non-zero C[r, c] = v contributes v times the m x m identity
// at block position (c, r).
func rightMulCoefficients(e *expr.Expr, constCol *sparse.Matrix) *sparse.Matrix {
	var (
		p, q     = expr.Size(e.Arg(1))
		m, _     = expr.Size(e)
		triplets = make([]sparse.Triplet, 0, m*constCol.NonZeros())
	)
	//
	constCol.Col(0, func(flat int, v float64) {
		var (
			r = flat % p
			c = flat / p
		)
		//
		for i := 0; i < m; i++ {
			triplets = append(triplets, sparse.Triplet{Row: c*m + i, Col: r*m + i, Value: v})
		}
	})
	//
	return mustTriplets(m*q, m*p, triplets)
}
