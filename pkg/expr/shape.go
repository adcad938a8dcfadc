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

import "fmt"

// Size infers the (rows, cols) shape of an expression.  Scalars are (1, 1).
// Operand shapes are assumed consistent with each atom's shape rule; this is
// the caller's discipline and is not validated here.
func Size(e *Expr) (int, int) {
	switch e.Kind() {
	case KindConst:
		return Attr[*ConstAttributes](e).Dense.Dims()
	case KindVar:
		a := Attr[*VarAttributes](e)
		return a.Rows, a.Cols
	case KindAdd, KindLeq, KindEq:
		// Scalar arguments broadcast to the shape of the rest.
		for _, arg := range e.Args() {
			if r, c := Size(arg); r*c != 1 {
				return r, c
			}
		}
		//
		return 1, 1
	case KindNeg, KindAbs:
		return Size(e.Arg(0))
	case KindMul:
		var (
			lr, lc = Size(e.Arg(0))
			rr, rc = Size(e.Arg(1))
		)
		// Scalar multiplication promotes to the other operand's shape.
		if lr*lc == 1 {
			return rr, rc
		} else if rr*rc == 1 {
			return lr, lc
		}
		//
		return lr, rc
	case KindSumEntries, KindPNorm, KindQuadOverLin, KindSoc:
		return 1, 1
	case KindReshape:
		a := Attr[*ReshapeAttributes](e)
		return a.Rows, a.Cols
	case KindIndex:
		var (
			a      = Attr[*IndexAttributes](e)
			ar, ac = Size(e.Arg(0))
		)
		//
		return a.Rows.Count(ar), a.Cols.Count(ac)
	case KindDiagVec:
		n := Dim(e.Arg(0))
		return n, n
	case KindDiagMat:
		r, _ := Size(e.Arg(0))
		return r, 1
	case KindTranspose:
		r, c := Size(e.Arg(0))
		return c, r
	case KindHStack:
		var (
			rows, _ = Size(e.Arg(0))
			cols    = 0
		)
		//
		for _, arg := range e.Args() {
			_, c := Size(arg)
			cols += c
		}
		//
		return rows, cols
	case KindVStack:
		var (
			_, cols = Size(e.Arg(0))
			rows    = 0
		)
		//
		for _, arg := range e.Args() {
			r, _ := Size(arg)
			rows += r
		}
		//
		return rows, cols
	default:
		panic(fmt.Sprintf("no shape rule for %s", e.Kind()))
	}
}

// Dim returns the number of entries of an expression (rows times cols).
func Dim(e *Expr) int {
	r, c := Size(e)
	return r * c
}

// Resolve interprets negative slice bounds modulo the axis length.
func (s Slice) Resolve(length int) Slice {
	r := s
	if r.Start < 0 {
		r.Start += length
	}
	//
	if r.Stop < 0 {
		r.Stop += length
	}
	//
	return r
}

// Count returns the number of indices the slice selects from an axis of the
// given length.  The enumeration rule matches the coefficient builder: walk
// from the resolved start, halt on leaving [0, length), or once the next
// index passes the resolved stop in the direction of step.
func (s Slice) Count(length int) int {
	var (
		r     = s.Resolve(length)
		count = 0
	)
	//
	for idx := r.Start; idx >= 0 && idx < length; {
		count++
		idx += r.Step
		//
		if (r.Step > 0 && idx >= r.Stop) || (r.Step < 0 && idx < r.Stop) {
			break
		}
	}
	//
	return count
}
