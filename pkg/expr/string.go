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
	"strconv"
	"strings"
)

// Format renders an expression as a one-line s-expression, for example so it
// can be embedded in diagnostics.
func Format(e *Expr) string {
	switch e.Kind() {
	case KindConst:
		a := Attr[*ConstAttributes](e)
		if r, c := a.Dense.Dims(); r == 1 && c == 1 {
			return strconv.FormatFloat(a.Dense.At(0, 0), 'g', -1, 64)
		}
		//
		r, c := a.Dense.Dims()
		//
		return fmt.Sprintf("(const %dx%d)", r, c)
	case KindVar:
		return fmt.Sprintf("(var %s)", varName(e))
	case KindIndex:
		a := Attr[*IndexAttributes](e)
		return fmt.Sprintf("(index %s %s %s)", Format(e.Arg(0)), formatSlice(a.Rows), formatSlice(a.Cols))
	case KindPNorm:
		a := Attr[*PNormAttributes](e)
		return fmt.Sprintf("(p_norm %s %s)", strconv.FormatFloat(a.P, 'g', -1, 64), Format(e.Arg(0)))
	case KindReshape:
		a := Attr[*ReshapeAttributes](e)
		return fmt.Sprintf("(reshape %s %dx%d)", Format(e.Arg(0)), a.Rows, a.Cols)
	default:
		var sb strings.Builder
		//
		sb.WriteString("(")
		sb.WriteString(e.Kind().String())
		//
		for _, arg := range e.Args() {
			sb.WriteString(" ")
			sb.WriteString(Format(arg))
		}
		//
		sb.WriteString(")")
		//
		return sb.String()
	}
}

// TreeFormat renders an expression as an indented tree with one node per
// line, each annotated with its shape.
func TreeFormat(e *Expr) string {
	var sb strings.Builder
	treeFormat(&sb, e, 0)
	//
	return sb.String()
}

func treeFormat(sb *strings.Builder, e *Expr, depth int) {
	var (
		rows, cols = Size(e)
		head       = e.Kind().String()
	)
	//
	switch e.Kind() {
	case KindConst:
		a := Attr[*ConstAttributes](e)
		if rows == 1 && cols == 1 {
			head = fmt.Sprintf("const %s", strconv.FormatFloat(a.Dense.At(0, 0), 'g', -1, 64))
		}
	case KindVar:
		head = fmt.Sprintf("var %s", varName(e))
	case KindIndex:
		a := Attr[*IndexAttributes](e)
		head = fmt.Sprintf("index %s %s", formatSlice(a.Rows), formatSlice(a.Cols))
	case KindPNorm:
		a := Attr[*PNormAttributes](e)
		head = fmt.Sprintf("p_norm %s", strconv.FormatFloat(a.P, 'g', -1, 64))
	}
	//
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(fmt.Sprintf("%s %dx%d\n", head, rows, cols))
	//
	for _, arg := range e.Args() {
		treeFormat(sb, arg, depth+1)
	}
}

func varName(e *Expr) string {
	a := Attr[*VarAttributes](e)
	if a.Name != "" {
		return a.Name
	}
	//
	return fmt.Sprintf("x%d", a.ID)
}

func formatSlice(s Slice) string {
	return fmt.Sprintf("%d:%d:%d", s.Start, s.Stop, s.Step)
}
