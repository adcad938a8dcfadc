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
	"fmt"

	"github.com/consensys/go-canon/pkg/expr"
	"github.com/pkg/errors"
)

// ErrorKind classifies the fatal failures of the canonicalization passes.
type ErrorKind uint

const (
	// ShapeMismatch indicates block composition encountered matrices whose
	// inner dimensions disagree, or a cone rule's shape precondition failed.
	ShapeMismatch ErrorKind = iota
	// NonAffineMul indicates a multiplication with two non-constant operands.
	NonAffineMul
	// UnknownAtom indicates coefficient extraction saw a kind outside its
	// dispatch table.
	UnknownAtom
	// UnsupportedPNorm indicates a p-norm with p != 1.
	UnsupportedPNorm
)

// String implementation for the Stringer interface.
func (k ErrorKind) String() string {
	switch k {
	case ShapeMismatch:
		return "shape mismatch"
	case NonAffineMul:
		return "non-affine multiplication"
	case UnknownAtom:
		return "unknown atom"
	case UnsupportedPNorm:
		return "unsupported p-norm"
	default:
		panic("unreachable")
	}
}

// Error is the fatal diagnostic raised (via panic) when a pass encounters an
// expression it cannot process.  It names the offending expression; no pass
// ever recovers from one.
type Error struct {
	Kind ErrorKind
	// Expr is the offending expression.
	Expr *expr.Expr
	// Err is an optional underlying cause.
	Err error
}

// Error implementation for the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("canon: %s at %s", e.Kind, expr.Format(e.Expr))
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	//
	return msg
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// fatal aborts the current pass with a diagnostic naming the offending
// expression.
func fatal(kind ErrorKind, e *expr.Expr) {
	panic(&Error{Kind: kind, Expr: e})
}

// fatalCause aborts the current pass, wrapping an underlying error with the
// formatted offending expression.
func fatalCause(kind ErrorKind, e *expr.Expr, cause error, context string) {
	panic(&Error{Kind: kind, Expr: e, Err: errors.Wrap(cause, context)})
}
