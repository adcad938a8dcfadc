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

import "errors"

// ErrBadShape is returned when a requested shape has a negative dimension.
var ErrBadShape = errors.New("sparse: invalid shape")

// ErrOutOfRange is returned when a triplet addresses an entry outside the
// matrix being constructed.
var ErrOutOfRange = errors.New("sparse: index out of range")

// ErrDimensionMismatch is returned when the operands of an arithmetic
// operation do not conform (e.g. multiplication where a.Cols() != b.Rows()).
var ErrDimensionMismatch = errors.New("sparse: dimension mismatch")
