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
	"strings"
	"testing"

	"github.com/consensys/go-canon/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// exprEqual checks two expressions for structural equality: same kinds, same
// attribute records, same children.  Rebuilt nodes forward their attribute
// records, so a transformed affine tree compares equal to its source.
func exprEqual(a, b *expr.Expr) bool {
	if a.Kind() != b.Kind() || a.NumArgs() != b.NumArgs() || a.Attributes() != b.Attributes() {
		return false
	}
	//
	for i := range a.Args() {
		if !exprEqual(a.Arg(i), b.Arg(i)) {
			return false
		}
	}
	//
	return true
}

func varName(e *expr.Expr) string {
	return expr.Attr[*expr.VarAttributes](e).Name
}

// ===================================================================
// Rules
// ===================================================================

func TestTransform_SumOfAbs(t *testing.T) {
	// minimize sum_entries(|x|) becomes minimize sum_entries(t) with
	// x <= t and -x <= t.
	x := expr.NewVar(3, 1)
	problem := expr.Problem{
		Sense:     expr.Minimize,
		Objective: expr.SumEntries(expr.Abs(x)),
	}
	//
	out := LinearConeTransform{}.Transform(problem)
	//
	require.Equal(t, expr.KindSumEntries, out.Objective.Kind())
	//
	tvar := out.Objective.Arg(0)
	require.Equal(t, expr.KindVar, tvar.Kind())
	require.Equal(t, 3, expr.Dim(tvar))
	assert.True(t, strings.HasPrefix(varName(tvar), "abs:"))
	//
	require.Len(t, out.Constraints, 2)
	// x <= t
	c0 := out.Constraints[0]
	require.Equal(t, expr.KindLeq, c0.Kind())
	assert.True(t, exprEqual(x, c0.Arg(0)))
	assert.True(t, exprEqual(tvar, c0.Arg(1)))
	// -x <= t
	c1 := out.Constraints[1]
	require.Equal(t, expr.KindLeq, c1.Kind())
	require.Equal(t, expr.KindNeg, c1.Arg(0).Kind())
	assert.True(t, exprEqual(x, c1.Arg(0).Arg(0)))
	//
	// Extraction on the rewritten objective sums the epigraph variable.
	coeffs := Coefficients(out.Objective)
	require.Len(t, coeffs, 1)
	assertMatrix(t, [][]float64{{1, 1, 1}}, coeffs[varID(tvar)])
}

func TestTransform_PNorm(t *testing.T) {
	// The 1-norm lowers to sum_entries over an absolute-value epigraph.
	x := expr.NewVar(3, 1)
	//
	var constraints []*expr.Expr
	out := TransformExpression(expr.PNorm(x, 1), &constraints)
	//
	require.Equal(t, expr.KindSumEntries, out.Kind())
	require.Equal(t, expr.KindVar, out.Arg(0).Kind())
	require.Equal(t, 3, expr.Dim(out.Arg(0)))
	require.Len(t, constraints, 2)
}

func TestTransform_PNorm_UnsupportedOrder(t *testing.T) {
	x := expr.NewVar(3, 1)
	//
	var constraints []*expr.Expr
	//
	mustPanicKind(t, UnsupportedPNorm, func() {
		TransformExpression(expr.PNorm(x, 2), &constraints)
	})
}

func TestTransform_QuadOverLin(t *testing.T) {
	var (
		x = expr.NewVar(2, 1)
		y = expr.NewVar(1, 1)
	)
	//
	problem := expr.Problem{
		Sense:     expr.Minimize,
		Objective: expr.QuadOverLin(x, y),
	}
	//
	out := LinearConeTransform{}.Transform(problem)
	//
	tvar := out.Objective
	require.Equal(t, expr.KindVar, tvar.Kind())
	require.Equal(t, 1, expr.Dim(tvar))
	assert.True(t, strings.HasPrefix(varName(tvar), "qol:"))
	//
	require.Len(t, out.Constraints, 2)
	// soc(vstack(y - t, 2x), y + t)
	soc := out.Constraints[0]
	require.Equal(t, expr.KindSoc, soc.Kind())
	//
	vec := soc.Arg(0)
	require.Equal(t, expr.KindVStack, vec.Kind())
	require.Equal(t, 3, expr.Dim(vec))
	require.Equal(t, expr.KindAdd, vec.Arg(0).Kind())
	require.Equal(t, expr.KindMul, vec.Arg(1).Kind())
	//
	bound := soc.Arg(1)
	require.Equal(t, expr.KindAdd, bound.Kind())
	assert.True(t, exprEqual(y, bound.Arg(0)))
	assert.True(t, exprEqual(tvar, bound.Arg(1)))
	// 0 <= y
	leq := out.Constraints[1]
	require.Equal(t, expr.KindLeq, leq.Kind())
	require.Equal(t, expr.KindConst, leq.Arg(0).Kind())
	assert.True(t, exprEqual(y, leq.Arg(1)))
}

func TestTransform_QuadOverLin_BadShapes(t *testing.T) {
	var constraints []*expr.Expr
	//
	// non-scalar denominator
	mustPanicKind(t, ShapeMismatch, func() {
		TransformExpression(expr.QuadOverLin(expr.NewVar(2, 1), expr.NewVar(2, 1)), &constraints)
	})
	// matrix numerator
	mustPanicKind(t, ShapeMismatch, func() {
		TransformExpression(expr.QuadOverLin(expr.NewVar(2, 2), expr.NewVar(1, 1)), &constraints)
	})
}

// ===================================================================
// Driver
// ===================================================================

func TestTransform_AffineIdempotent(t *testing.T) {
	// A problem with no non-linear atoms is returned unchanged, up to node
	// reconstruction.
	var (
		a = expr.ConstantMatrix(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
		x = expr.NewVar(2, 1)
	)
	//
	problem := expr.Problem{
		Sense:       expr.Maximize,
		Objective:   expr.Add(expr.Mul(a, x), expr.Constant(5)),
		Constraints: []*expr.Expr{expr.Leq(x, expr.Constant(1))},
	}
	//
	out := LinearConeTransform{}.Transform(problem)
	//
	assert.Equal(t, expr.Maximize, out.Sense)
	assert.True(t, exprEqual(problem.Objective, out.Objective))
	require.Len(t, out.Constraints, 1)
	assert.True(t, exprEqual(problem.Constraints[0], out.Constraints[0]))
}

func TestTransform_NonLinearConstraint(t *testing.T) {
	// |x| <= 3: the epigraph constraints precede the rewritten source
	// constraint.
	x := expr.NewVar(2, 1)
	problem := expr.Problem{
		Sense:       expr.Minimize,
		Objective:   expr.SumEntries(x),
		Constraints: []*expr.Expr{expr.Leq(expr.Abs(x), expr.Constant(3))},
	}
	//
	out := LinearConeTransform{}.Transform(problem)
	//
	require.Len(t, out.Constraints, 3)
	//
	last := out.Constraints[2]
	require.Equal(t, expr.KindLeq, last.Kind())
	require.Equal(t, expr.KindVar, last.Arg(0).Kind())
	assert.True(t, strings.HasPrefix(varName(last.Arg(0)), "abs:"))
}

func TestTransform_NestedAtom(t *testing.T) {
	// The rule applies to the rebuilt node: the epigraph constraints refer
	// to the transformed child.
	x := expr.NewVar(2, 1)
	inner := expr.Add(x, expr.Constant(1))
	//
	var constraints []*expr.Expr
	out := TransformExpression(expr.SumEntries(expr.Abs(inner)), &constraints)
	//
	require.Equal(t, expr.KindSumEntries, out.Kind())
	require.Len(t, constraints, 2)
	assert.True(t, exprEqual(inner, constraints[0].Arg(0)))
}
