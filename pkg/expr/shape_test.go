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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func checkSize(t *testing.T, e *Expr, rows, cols int) {
	t.Helper()
	//
	r, c := Size(e)
	require.Equal(t, rows, r)
	require.Equal(t, cols, c)
}

// ===================================================================
// Atom shape rules
// ===================================================================

func TestSize_Leaves(t *testing.T) {
	checkSize(t, Constant(5), 1, 1)
	checkSize(t, ConstantMatrix(mat.NewDense(2, 3, nil)), 2, 3)
	checkSize(t, NewVar(4, 2), 4, 2)
}

func TestSize_AddBroadcast(t *testing.T) {
	x := NewVar(3, 1)
	//
	checkSize(t, Add(x, Constant(5)), 3, 1)
	checkSize(t, Add(Constant(5), x), 3, 1)
	checkSize(t, Add(Constant(1), Constant(2)), 1, 1)
}

func TestSize_MulPromotion(t *testing.T) {
	var (
		a = ConstantMatrix(mat.NewDense(2, 3, nil))
		x = NewVar(3, 4)
	)
	//
	checkSize(t, Mul(a, x), 2, 4)
	checkSize(t, Mul(Constant(2), x), 3, 4)
	checkSize(t, Mul(x, Constant(2)), 3, 4)
}

func TestSize_Affine(t *testing.T) {
	var (
		x = NewVar(2, 3)
		v = NewVar(4, 1)
	)
	//
	checkSize(t, Neg(x), 2, 3)
	checkSize(t, SumEntries(x), 1, 1)
	checkSize(t, Transpose(x), 3, 2)
	checkSize(t, Reshape(x, 3, 2), 3, 2)
	checkSize(t, Reshape(x, 6, 1), 6, 1)
	checkSize(t, DiagVec(v), 4, 4)
	checkSize(t, DiagMat(NewVar(4, 4)), 4, 1)
	checkSize(t, VStack(x, NewVar(1, 3)), 3, 3)
	checkSize(t, HStack(x, NewVar(2, 2)), 2, 5)
}

func TestSize_NonLinear(t *testing.T) {
	var (
		x = NewVar(3, 1)
		y = NewVar(1, 1)
	)
	//
	checkSize(t, Abs(x), 3, 1)
	checkSize(t, PNorm(x, 1), 1, 1)
	checkSize(t, QuadOverLin(x, y), 1, 1)
	checkSize(t, Soc(x, y), 1, 1)
	checkSize(t, Leq(x, NewVar(3, 1)), 3, 1)
}

func TestReshape_BadDim(t *testing.T) {
	require.Panics(t, func() { Reshape(NewVar(2, 3), 2, 2) })
}

// ===================================================================
// Slices
// ===================================================================

func intp(v int) *int { return &v }

func TestNewSlice_Defaults(t *testing.T) {
	assert.Equal(t, Slice{0, 5, 1}, NewSlice(nil, nil, 1, 5))
	assert.Equal(t, Slice{4, -6, -1}, NewSlice(nil, nil, -1, 5))
	assert.Equal(t, Slice{0, 5, 1}, All(5))
}

func TestNewSlice_NegativeBounds(t *testing.T) {
	// start -1 on an axis of 5 is index 4.
	assert.Equal(t, Slice{4, 5, 1}, NewSlice(intp(-1), nil, 1, 5))
	// stop -2 on an axis of 5 is the exclusive bound 3.
	assert.Equal(t, Slice{0, 3, 1}, NewSlice(nil, intp(-2), 1, 5))
}

func TestNewSlice_Clamps(t *testing.T) {
	assert.Equal(t, Slice{4, 5, 1}, NewSlice(intp(10), intp(10), 1, 5))
}

func TestSlice_Count(t *testing.T) {
	// 0:5:1 on axis 5 selects everything.
	assert.Equal(t, 5, All(5).Count(5))
	// 0:2:1 selects two.
	assert.Equal(t, 2, Slice{0, 2, 1}.Count(5))
	// full reverse selects everything.
	assert.Equal(t, 3, NewSlice(nil, nil, -1, 3).Count(3))
	// stepped.
	assert.Equal(t, 3, Slice{0, 5, 2}.Count(5))
	assert.Equal(t, 2, Slice{4, 1, -2}.Count(5))
	// out-of-axis start selects nothing.
	assert.Equal(t, 0, Slice{5, 6, 1}.Count(3))
}

func TestSize_Index(t *testing.T) {
	x := NewVar(3, 3)
	//
	checkSize(t, Index(x, Slice{0, 2, 1}, NewSlice(nil, nil, -1, 3)), 2, 3)
	checkSize(t, Index(x, All(3), Slice{0, 1, 1}), 3, 1)
	checkSize(t, Index(x, Slice{5, 6, 1}, All(3)), 0, 3)
}

// ===================================================================
// Variable identifiers
// ===================================================================

func TestVariable_FreshAfterExplicit(t *testing.T) {
	x := Variable(2, 1, 1000)
	require.Equal(t, 1000, Attr[*VarAttributes](x).ID)
	//
	y := NewVar(2, 1)
	assert.Greater(t, Attr[*VarAttributes](y).ID, 1000)
}

func TestVariable_RejectsNonPositive(t *testing.T) {
	require.Panics(t, func() { Variable(1, 1, 0) })
	require.Panics(t, func() { Variable(1, 1, -3) })
}

func TestEpiVar_Shape(t *testing.T) {
	var (
		x = NewVar(3, 1)
		a = Abs(x)
		e = EpiVar(a, "abs")
		s = ScalarEpiVar(a, "qol")
	)
	//
	checkSize(t, e, 3, 1)
	checkSize(t, s, 1, 1)
	//
	assert.Contains(t, Attr[*VarAttributes](e).Name, "abs:")
	assert.Contains(t, Attr[*VarAttributes](s).Name, "qol:")
}
