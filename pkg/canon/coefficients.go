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

// Package canon implements the two canonicalization passes: the linear cone
// transform, which rewrites the supported non-linear convex atoms into affine
// expressions constrained by cones, and linear coefficient extraction, which
// maps a purely affine expression to sparse per-variable coefficient
// matrices.
package canon

import (
	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-canon/pkg/expr"
	"github.com/consensys/go-canon/pkg/sparse"
)

// ConstCoefficientID is the reserved identifier keying the constant column of
// a coefficient map.  It is negative, distinct from every variable id.
const ConstCoefficientID = -1

// CoeffMap maps a variable identifier (or ConstCoefficientID) to a sparse
// coefficient matrix.  For an expression e, the flattened value of e equals
// the sum of C[id] times the flattened value of each variable, plus the
// constant column.
type CoeffMap map[int]*sparse.Matrix

// IsConstant reports whether the map holds exactly the constant column.
func (p CoeffMap) IsConstant() bool {
	_, ok := p[ConstCoefficientID]
	return ok && len(p) == 1
}

// Coefficients computes the coefficient map of a purely affine expression by
// post-order recursion.  Encountering a non-affine atom, a multiplication of
// two non-constants, or a shape-inconsistent composition is fatal.
func Coefficients(e *expr.Expr) CoeffMap {
	log.Tracef("coefficients: %s", expr.Format(e))
	//
	coeffs := CoeffMap{}
	//
	switch e.Kind() {
	case expr.KindConst:
		coeffs[ConstCoefficientID] = sparse.ToVector(expr.Attr[*expr.ConstAttributes](e).Dense)
	case expr.KindVar:
		coeffs[expr.Attr[*expr.VarAttributes](e).ID] = sparse.Identity(expr.Dim(e))
	case expr.KindMul:
		// Binary multiplication is guaranteed by DCP discipline to have a
		// constant operand; when both are constant the left one is used.
		if e.NumArgs() != 2 {
			fatal(NonAffineMul, e)
		}
		//
		var (
			lhs = Coefficients(e.Arg(0))
			rhs = Coefficients(e.Arg(1))
		)
		//
		switch {
		case lhs.IsConstant():
			coeffs.accumulate(mulBlock(e, lhs[ConstCoefficientID], true), rhs, e)
		case rhs.IsConstant():
			coeffs.accumulate(mulBlock(e, rhs[ConstCoefficientID], false), lhs, e)
		default:
			fatal(NonAffineMul, e)
		}
	default:
		builder, ok := coefficientBuilders[e.Kind()]
		if !ok {
			fatal(UnknownAtom, e)
		}
		//
		blocks := builder(e)
		//
		for i, arg := range e.Args() {
			coeffs.accumulate(blocks[i], Coefficients(arg), e)
		}
	}
	//
	return coeffs
}

// mulBlock selects the coefficient block for the constant side of a
// multiplication.  A scalar constant against a non-scalar operand broadcasts
// as a scalar multiple of the identity; otherwise the side determines the
// block-diagonal (left) or per-entry block (right) layout.
func mulBlock(e *expr.Expr, constCol *sparse.Matrix, left bool) *sparse.Matrix {
	if r, _ := constCol.Dims(); r == 1 {
		return sparse.Scalar(constCol.At(0, 0), expr.Dim(e))
	}
	//
	if left {
		return leftMulCoefficients(e, constCol)
	}
	//
	return rightMulCoefficients(e, constCol)
}

// accumulate composes a per-argument block with the argument's coefficient
// map, summing into entries already present.
func (p CoeffMap) accumulate(block *sparse.Matrix, arg CoeffMap, at *expr.Expr) {
	for id, m := range arg {
		product, err := sparse.Mul(block, m)
		if err != nil {
			fatalCause(ShapeMismatch, at, err, "composing coefficient blocks")
		}
		//
		if prev, ok := p[id]; ok {
			sum, err := sparse.Add(prev, product)
			if err != nil {
				fatalCause(ShapeMismatch, at, err, "accumulating coefficient blocks")
			}
			//
			p[id] = sum
		} else {
			p[id] = product
		}
	}
}
