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
	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-canon/pkg/expr"
)

// A transform rule rewrites one non-linear atom into an affine replacement,
// appending the cone constraints which preserve its semantics.
type transformRule func(e *expr.Expr, constraints *[]*expr.Expr) *expr.Expr

var transformRules = map[expr.Kind]transformRule{
	expr.KindAbs:         transformAbs,
	expr.KindPNorm:       transformPNorm,
	expr.KindQuadOverLin: transformQuadOverLin,
}

// |x| <= t becomes x <= t and -x <= t on a fresh epigraph variable t.
func transformAbs(e *expr.Expr, constraints *[]*expr.Expr) *expr.Expr {
	var (
		x = e.Arg(0)
		t = expr.EpiVar(e, "abs")
	)
	//
	*constraints = append(*constraints,
		expr.Leq(x, t),
		expr.Leq(expr.Neg(x), t))
	//
	return t
}

// The 1-norm is the sum of entries of the elementwise absolute value; other
// orders are not representable here and are fatal.
func transformPNorm(e *expr.Expr, constraints *[]*expr.Expr) *expr.Expr {
	if p := expr.Attr[*expr.PNormAttributes](e).P; p != 1 {
		fatal(UnsupportedPNorm, e)
	}
	//
	return expr.SumEntries(transformAbs(expr.Abs(e.Arg(0)), constraints))
}

// quad_over_lin(x, y) <= t holds exactly when || (y - t, 2x) ||_2 <= y + t
// with y >= 0, which is a second-order cone on a fresh scalar t.  The cone is
// only well-defined for scalar y and column-vector x.
func transformQuadOverLin(e *expr.Expr, constraints *[]*expr.Expr) *expr.Expr {
	var (
		x = e.Arg(0)
		y = e.Arg(1)
	)
	//
	if _, xc := expr.Size(x); expr.Dim(y) != 1 || xc != 1 {
		fatal(ShapeMismatch, e)
	}
	//
	t := expr.ScalarEpiVar(e, "qol")
	//
	*constraints = append(*constraints,
		expr.Soc(
			expr.VStack(
				expr.Add(y, expr.Neg(t)),
				expr.Mul(expr.Constant(2), x)),
			expr.Add(y, t)),
		expr.Leq(expr.Constant(0), y))
	//
	return t
}

// TransformExpression rewrites an expression bottom-up, replacing every
// non-linear atom by its affine counterpart and appending the emitted cone
// constraints.  Nodes are rebuilt with their transformed children; the rule
// (if any) applies to the rebuilt node.
func TransformExpression(e *expr.Expr, constraints *[]*expr.Expr) *expr.Expr {
	args := make([]*expr.Expr, e.NumArgs())
	for i, arg := range e.Args() {
		args[i] = TransformExpression(arg, constraints)
	}
	//
	output := e.WithArgs(args)
	//
	if rule, ok := transformRules[e.Kind()]; ok {
		log.Tracef("transform: %s", expr.Format(e))
		output = rule(output, constraints)
	}
	//
	return output
}

// LinearConeTransform rewrites problems into an equivalent affine-only form
// whose non-linearities live entirely in cone constraints.
type LinearConeTransform struct{}

// Transform canonicalizes a problem.  The input problem's constraint list is
// iterated as a snapshot: constraints emitted by rules are appended to the
// output list only, and are never themselves transformed.
func (p LinearConeTransform) Transform(problem expr.Problem) expr.Problem {
	var constraints []*expr.Expr
	//
	objective := TransformExpression(problem.Objective, &constraints)
	//
	for _, constraint := range problem.Constraints {
		transformed := TransformExpression(constraint, &constraints)
		constraints = append(constraints, transformed)
	}
	//
	return expr.Problem{
		Sense:       problem.Sense,
		Objective:   objective,
		Constraints: constraints,
	}
}
