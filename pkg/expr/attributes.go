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
	"gonum.org/v1/gonum/mat"
)

// Attributes is the kind-specific payload of an expression node.  A record is
// created once, attached to a node, and thereafter forwarded verbatim when
// nodes are rebuilt with different children.
type Attributes interface {
	isAttributes()
}

// ConstAttributes carries the dense payload of a constant node.
type ConstAttributes struct {
	// Dense matrix value; scalars are stored as 1x1.
	Dense *mat.Dense
}

// VarAttributes identifies a free variable and fixes its shape.
type VarAttributes struct {
	// ID is a stable positive identifier, unique per free variable.
	ID int
	// Rows and Cols fix the variable's shape.
	Rows int
	Cols int
	// Name is an optional label used for diagnostics.  Epigraph variables
	// are named "<tag>:<id>" for naming stability across runs.
	Name string
}

// IndexAttributes carries the two per-axis slices of an index node.
type IndexAttributes struct {
	Rows Slice
	Cols Slice
}

// PNormAttributes carries the order of a p-norm node.
type PNormAttributes struct {
	P float64
}

// ReshapeAttributes fixes the target shape of a reshape node.
type ReshapeAttributes struct {
	Rows int
	Cols int
}

func (*ConstAttributes) isAttributes()   {}
func (*VarAttributes) isAttributes()     {}
func (*IndexAttributes) isAttributes()   {}
func (*PNormAttributes) isAttributes()   {}
func (*ReshapeAttributes) isAttributes() {}

// Slice selects every Step'th index from Start (inclusive) towards Stop
// (exclusive).  Negative Start or Stop values are interpreted modulo the
// axis length at the point of use; Step is non-zero and may be negative.
type Slice struct {
	Start int
	Stop  int
	Step  int
}

// NewSlice normalises optional python-style bounds against an axis of the
// given length.  A nil start defaults to the first index walked by step, and
// is clamped to the axis; a nil stop defaults to one past the last index
// walked by step.  For a negative step the default stop is encoded as
// -(length+1), so that modular resolution against the axis yields the
// exclusive bound just below zero.
func NewSlice(start, stop *int, step, length int) Slice {
	if step == 0 {
		panic("slice step cannot be zero")
	}
	//
	s := Slice{Step: step}
	// start
	switch {
	case start != nil:
		s.Start = *start
		if s.Start < 0 {
			s.Start += length
		}
		//
		s.Start = min(s.Start, length-1)
	case step < 0:
		s.Start = length - 1
	default:
		s.Start = 0
	}
	// stop
	switch {
	case stop != nil:
		s.Stop = *stop
		if s.Stop < 0 {
			s.Stop += length
		}
		//
		s.Stop = min(s.Stop, length)
	case step < 0:
		s.Stop = -(length + 1)
	default:
		s.Stop = length
	}
	//
	return s
}

// All returns the slice selecting an entire axis of the given length.
func All(length int) Slice {
	return NewSlice(nil, nil, 1, length)
}
