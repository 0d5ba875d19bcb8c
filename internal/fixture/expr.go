// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package fixture

import (
	"math"

	"github.com/casbin/govaluate"

	"github.com/solidkit/xtree"
)

// Expr is a Field driven by a user-supplied arithmetic expression over
// x, y, z, parsed once via govaluate the way pk910/dynamic-ssz's
// specvals.go parses preset expressions (NewEvaluableExpression once,
// Evaluate(params) per sample) rather than hand-rolling a parser. Gradient
// is central-difference, since a govaluate expression carries no symbolic
// derivative; Expr never reports Ambiguous, since a finite-difference
// gradient is always single-valued even where the true field's isn't.
type Expr struct {
	expr *govaluate.EvaluableExpression
	h    float64
}

// NewExpr parses formula once; evaluation happens per sample in Value.
func NewExpr(formula string) (*Expr, error) {
	e, err := govaluate.NewEvaluableExpression(formula)
	if err != nil {
		return nil, err
	}
	return &Expr{expr: e, h: 1e-4}, nil
}

func (e *Expr) params(p [xtree.MaxDim]float64) map[string]interface{} {
	return map[string]interface{}{"x": p[0], "y": p[1], "z": p[2]}
}

func (e *Expr) Value(p [xtree.MaxDim]float64) float64 {
	v, err := e.expr.Evaluate(e.params(p))
	if err != nil {
		return math.NaN()
	}
	f, ok := v.(float64)
	if !ok {
		return math.NaN()
	}
	return f
}

func (e *Expr) Grad(p [xtree.MaxDim]float64) [xtree.MaxDim]float64 {
	var g [xtree.MaxDim]float64
	for i := 0; i < xtree.MaxDim; i++ {
		pp, pm := p, p
		pp[i] += e.h
		pm[i] -= e.h
		g[i] = (e.Value(pp) - e.Value(pm)) / (2 * e.h)
	}
	return g
}

func (e *Expr) Ambiguous(p [xtree.MaxDim]float64) bool { return false }

func (e *Expr) Features(p [xtree.MaxDim]float64) [][xtree.MaxDim]float64 {
	return [][xtree.MaxDim]float64{e.Grad(p)}
}

// Bounds treats the expression as 1-Lipschitz, which holds for the smooth
// low-order test formulas this fixture is meant for but is not checked;
// an expression with steep local slope could produce an unsafe bound.
// Acceptable for a test-only fixture, not for a production evaluator.
func (e *Expr) Bounds(r xtree.Region) (lo, hi float64) { return lipschitzBounds(e.Value, r) }

// Clone shares the parsed expression: govaluate.EvaluableExpression holds
// no mutable per-call state, so concurrent Evaluate calls against the
// same *EvaluableExpression are safe.
func (e *Expr) Clone() Field {
	return &Expr{expr: e.expr, h: e.h}
}
