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
package sparse

import (
	"fmt"
	"sort"
)

// Mul multiplies two conforming sparse matrices, producing a new matrix.
func Mul(a, b *Matrix) (*Matrix, error) {
	if a.cols != b.rows {
		return nil, fmt.Errorf("%w: %dx%d * %dx%d", ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols)
	}
	//
	var (
		colPtr = make([]int, b.cols+1)
		rowIdx []int
		values []float64
		// Dense accumulator for the column being assembled, with a marker
		// recording which column last touched each row.
		work = make([]float64, a.rows)
		mark = make([]int, a.rows)
	)
	//
	for i := range mark {
		mark[i] = -1
	}
	//
	for j := 0; j < b.cols; j++ {
		var touched []int
		//
		for k := b.colPtr[j]; k < b.colPtr[j+1]; k++ {
			var (
				inner = b.rowIdx[k]
				bv    = b.values[k]
			)
			//
			for q := a.colPtr[inner]; q < a.colPtr[inner+1]; q++ {
				i := a.rowIdx[q]
				if mark[i] != j {
					mark[i] = j
					work[i] = 0
					touched = append(touched, i)
				}
				//
				work[i] += a.values[q] * bv
			}
		}
		//
		sort.Ints(touched)
		//
		for _, i := range touched {
			rowIdx = append(rowIdx, i)
			values = append(values, work[i])
		}
		//
		colPtr[j+1] = len(rowIdx)
	}
	//
	return &Matrix{a.rows, b.cols, colPtr, rowIdx, values}, nil
}

// Add sums two matrices of identical shape, producing a new matrix.
func Add(a, b *Matrix) (*Matrix, error) {
	if a.rows != b.rows || a.cols != b.cols {
		return nil, fmt.Errorf("%w: %dx%d + %dx%d", ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols)
	}
	//
	var (
		colPtr = make([]int, a.cols+1)
		rowIdx []int
		values []float64
	)
	// Merge the (row sorted) columns pairwise.
	for j := 0; j < a.cols; j++ {
		var (
			ka, ea = a.colPtr[j], a.colPtr[j+1]
			kb, eb = b.colPtr[j], b.colPtr[j+1]
		)
		//
		for ka < ea || kb < eb {
			switch {
			case kb >= eb || (ka < ea && a.rowIdx[ka] < b.rowIdx[kb]):
				rowIdx = append(rowIdx, a.rowIdx[ka])
				values = append(values, a.values[ka])
				ka++
			case ka >= ea || b.rowIdx[kb] < a.rowIdx[ka]:
				rowIdx = append(rowIdx, b.rowIdx[kb])
				values = append(values, b.values[kb])
				kb++
			default:
				rowIdx = append(rowIdx, a.rowIdx[ka])
				values = append(values, a.values[ka]+b.values[kb])
				ka++
				kb++
			}
		}
		//
		colPtr[j+1] = len(rowIdx)
	}
	//
	return &Matrix{a.rows, a.cols, colPtr, rowIdx, values}, nil
}
