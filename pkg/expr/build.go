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
package expr

import (
	"fmt"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
)

// Variable identifiers are handed out by a process-wide counter, so that
// epigraph variables introduced during canonicalization never collide with
// caller-assigned identifiers.
var varCounter atomic.Int64

func nextVarID() int {
	return int(varCounter.Add(1))
}

// noteVarID advances the counter past an externally assigned identifier.
func noteVarID(id int) {
	for {
		cur := varCounter.Load()
		if int64(id) <= cur || varCounter.CompareAndSwap(cur, int64(id)) {
			return
		}
	}
}

// Constant constructs a scalar constant.
func Constant(value float64) *Expr {
	return ConstantMatrix(mat.NewDense(1, 1, []float64{value}))
}

// ConstantMatrix constructs a constant with a dense matrix payload.
func ConstantMatrix(dense *mat.Dense) *Expr {
	return New(KindConst, nil, &ConstAttributes{Dense: dense})
}

// Variable constructs a reference to the free variable with the given shape
// and caller-assigned identifier.  Identifiers must be positive.
func Variable(rows, cols, id int) *Expr {
	if id <= 0 {
		panic(fmt.Sprintf("variable identifiers must be positive, got %d", id))
	}
	//
	noteVarID(id)
	//
	return New(KindVar, nil, &VarAttributes{ID: id, Rows: rows, Cols: cols})
}

// NewVar constructs a fresh free variable of the given shape.
func NewVar(rows, cols int) *Expr {
	return Variable(rows, cols, nextVarID())
}

// EpiVar constructs a fresh epigraph variable with the same shape as the
// expression it bounds.  The tag keeps diagnostic names stable.
func EpiVar(parent *Expr, tag string) *Expr {
	rows, cols := Size(parent)
	return epiVar(rows, cols, tag)
}

// ScalarEpiVar constructs a fresh scalar epigraph variable.
func ScalarEpiVar(parent *Expr, tag string) *Expr {
	return epiVar(1, 1, tag)
}

func epiVar(rows, cols int, tag string) *Expr {
	id := nextVarID()
	attr := &VarAttributes{
		ID:   id,
		Rows: rows,
		Cols: cols,
		Name: fmt.Sprintf("%s:%d", tag, id),
	}
	//
	return New(KindVar, nil, attr)
}

// Add sums one or more expressions elementwise, broadcasting scalars.
func Add(args ...*Expr) *Expr {
	return New(KindAdd, args, nil)
}

// Neg negates an expression elementwise.
func Neg(e *Expr) *Expr {
	return New(KindNeg, []*Expr{e}, nil)
}

// Sub subtracts b from a.
func Sub(a, b *Expr) *Expr {
	return Add(a, Neg(b))
}

// Mul multiplies two expressions.  Scalar operands promote; otherwise this is
// matrix multiplication.
func Mul(a, b *Expr) *Expr {
	return New(KindMul, []*Expr{a, b}, nil)
}

// SumEntries sums every entry of an expression into a scalar.
func SumEntries(e *Expr) *Expr {
	return New(KindSumEntries, []*Expr{e}, nil)
}

// Reshape reinterprets an expression under a new shape of equal size.
func Reshape(e *Expr, rows, cols int) *Expr {
	if rows*cols != Dim(e) {
		panic(fmt.Sprintf("cannot reshape %d entries to %dx%d", Dim(e), rows, cols))
	}
	//
	return New(KindReshape, []*Expr{e}, &ReshapeAttributes{Rows: rows, Cols: cols})
}

// HStack stacks one or more expressions horizontally.
func HStack(args ...*Expr) *Expr {
	return New(KindHStack, args, nil)
}

// VStack stacks one or more expressions vertically.
func VStack(args ...*Expr) *Expr {
	return New(KindVStack, args, nil)
}

// Transpose transposes an expression.
func Transpose(e *Expr) *Expr {
	return New(KindTranspose, []*Expr{e}, nil)
}

// DiagVec embeds a column vector as the diagonal of a square matrix.
func DiagVec(e *Expr) *Expr {
	return New(KindDiagVec, []*Expr{e}, nil)
}

// DiagMat extracts the diagonal of a square matrix as a column vector.
func DiagMat(e *Expr) *Expr {
	return New(KindDiagMat, []*Expr{e}, nil)
}

// Index selects a rectangular strided slice of an expression.
func Index(e *Expr, rows, cols Slice) *Expr {
	return New(KindIndex, []*Expr{e}, &IndexAttributes{Rows: rows, Cols: cols})
}

// Abs is the elementwise absolute value of an expression.
func Abs(e *Expr) *Expr {
	return New(KindAbs, []*Expr{e}, nil)
}

// PNorm is the p-norm of the flattened expression.
func PNorm(e *Expr, p float64) *Expr {
	return New(KindPNorm, []*Expr{e}, &PNormAttributes{P: p})
}

// QuadOverLin is the sum of squares of x divided by the positive scalar y.
func QuadOverLin(x, y *Expr) *Expr {
	return New(KindQuadOverLin, []*Expr{x, y}, nil)
}

// Leq constrains lhs <= rhs elementwise.
func Leq(lhs, rhs *Expr) *Expr {
	return New(KindLeq, []*Expr{lhs, rhs}, nil)
}

// Eq constrains lhs == rhs elementwise.
func Eq(lhs, rhs *Expr) *Expr {
	return New(KindEq, []*Expr{lhs, rhs}, nil)
}

// Soc constrains the Euclidean norm of a column vector by a scalar bound.
func Soc(vector, bound *Expr) *Expr {
	return New(KindSoc, []*Expr{vector, bound}, nil)
}
