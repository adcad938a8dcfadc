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

// Package expr defines the immutable expression trees which the
// canonicalization passes operate over.  Every node carries a kind drawn from
// a closed set, an ordered list of children, and a kind-specific attribute
// record.  Nodes are values shared freely between trees; nothing in this
// package ever mutates a node after construction.
package expr

import "fmt"

// Kind identifies the atom an expression node represents.
type Kind uint

const (
	// KindConst is a constant with a dense matrix payload.
	KindConst Kind = iota
	// KindVar is a reference to a free variable.
	KindVar
	// KindAdd is elementwise addition with scalar broadcast.
	KindAdd
	// KindNeg is elementwise negation.
	KindNeg
	// KindMul is matrix multiplication; at least one side must reduce to a
	// constant under coefficient extraction.
	KindMul
	// KindSumEntries sums all entries of its argument into a scalar.
	KindSumEntries
	// KindHStack stacks its arguments horizontally.
	KindHStack
	// KindVStack stacks its arguments vertically.
	KindVStack
	// KindReshape reinterprets its argument under a new shape of equal size.
	KindReshape
	// KindIndex selects a rectangular strided slice of its argument.
	KindIndex
	// KindDiagMat extracts the diagonal of a square matrix as a vector.
	KindDiagMat
	// KindDiagVec embeds a vector as the diagonal of a square matrix.
	KindDiagVec
	// KindTranspose transposes its argument.
	KindTranspose
	// KindAbs is the elementwise absolute value.
	KindAbs
	// KindPNorm is the p-norm of the flattened argument.
	KindPNorm
	// KindQuadOverLin is sum of squares over a positive scalar.
	KindQuadOverLin
	// KindLeq is the elementwise constraint lhs <= rhs.
	KindLeq
	// KindEq is the elementwise constraint lhs == rhs.
	KindEq
	// KindSoc constrains the Euclidean norm of a vector by a scalar bound.
	KindSoc
)

// String returns the symbol used for this kind in formatted expressions.
func (k Kind) String() string {
	switch k {
	case KindConst:
		return "const"
	case KindVar:
		return "var"
	case KindAdd:
		return "+"
	case KindNeg:
		return "neg"
	case KindMul:
		return "*"
	case KindSumEntries:
		return "sum_entries"
	case KindHStack:
		return "hstack"
	case KindVStack:
		return "vstack"
	case KindReshape:
		return "reshape"
	case KindIndex:
		return "index"
	case KindDiagMat:
		return "diag_mat"
	case KindDiagVec:
		return "diag_vec"
	case KindTranspose:
		return "transpose"
	case KindAbs:
		return "abs"
	case KindPNorm:
		return "p_norm"
	case KindQuadOverLin:
		return "quad_over_lin"
	case KindLeq:
		return "<="
	case KindEq:
		return "=="
	case KindSoc:
		return "soc"
	default:
		panic(fmt.Sprintf("unknown expression kind %d", uint(k)))
	}
}

// Expr is a single immutable expression node.
type Expr struct {
	kind Kind
	args []*Expr
	attr Attributes
}

// New constructs an expression node of the given kind, children and attribute
// record.  The attribute record may be nil for kinds which carry none.
func New(kind Kind, args []*Expr, attr Attributes) *Expr {
	return &Expr{kind, args, attr}
}

// Kind returns the atom this node represents.
func (e *Expr) Kind() Kind { return e.kind }

// Args returns the ordered children of this node.  The returned slice must
// not be mutated.
func (e *Expr) Args() []*Expr { return e.args }

// NumArgs returns the number of children of this node.
func (e *Expr) NumArgs() int { return len(e.args) }

// Arg returns the i'th child of this node.
func (e *Expr) Arg(i int) *Expr { return e.args[i] }

// Attributes returns the attribute record of this node, or nil.
func (e *Expr) Attributes() Attributes { return e.attr }

// WithArgs constructs a copy of this node with the same kind and attribute
// record but different children.
func (e *Expr) WithArgs(args []*Expr) *Expr {
	return &Expr{e.kind, args, e.attr}
}

// Attr returns the attribute record of an expression under its concrete
// type, and panics if the node carries a record of a different type.
func Attr[T Attributes](e *Expr) T {
	return e.attr.(T)
}
