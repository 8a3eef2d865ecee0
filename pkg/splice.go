package peitho

// Splice returns a tree where every placeholder leaf of expr is replaced by
// continuation. Sub-trees without placeholders are shared with expr, which is
// left unchanged.
func Splice(expr Expr, continuation Expr) Expr {
	return Rewrite(expr, func(e Expr) (Expr, bool) {
		if p, ok := e.(*Primitive); ok && p.IsPlaceholder() {
			return continuation, true
		}

		return nil, false
	})
}

// Rewrite walks expr bottom-up through every variant. Wherever fn reports a
// replacement the node is swapped and not descended into. Parents are only
// rebuilt when one of their children changed.
func Rewrite(expr Expr, fn func(Expr) (Expr, bool)) Expr {
	if expr == nil {
		return nil
	}

	if r, ok := fn(expr); ok {
		return r
	}

	switch e := expr.(type) {
	case *BinaryExpr:
		l, r := Rewrite(e.Left, fn), Rewrite(e.Right, fn)
		if l == e.Left && r == e.Right {
			return e
		}

		return &BinaryExpr{Operation: e.Operation, Left: l, Right: r}
	case *CompareExpr:
		l, r := Rewrite(e.Left, fn), Rewrite(e.Right, fn)
		if l == e.Left && r == e.Right {
			return e
		}

		return &CompareExpr{Left: l, Operand: e.Operand, Right: r}
	case *UnaryExpr:
		r := Rewrite(e.Right, fn)
		if r == e.Right {
			return e
		}

		return &UnaryExpr{Operand: e.Operand, Right: r}
	case *IfExpr:
		c, t, f := Rewrite(e.Condition, fn), Rewrite(e.Then, fn), Rewrite(e.Else, fn)
		if c == e.Condition && t == e.Then && f == e.Else {
			return e
		}

		return &IfExpr{Condition: c, Then: t, Else: f}
	case *LetExpr:
		changed := false
		bindings := make([]Binding, len(e.Bindings))
		for i, b := range e.Bindings {
			v := Rewrite(b.Value, fn)
			changed = changed || v != b.Value
			bindings[i] = Binding{Name: b.Name, Value: v}
		}

		scope := Rewrite(e.Scope, fn)
		if !changed && scope == e.Scope {
			return e
		}

		return &LetExpr{Bindings: bindings, Scope: scope}
	case *AssignExpr:
		v := Rewrite(e.Value, fn)
		if v == e.Value {
			return e
		}

		return &AssignExpr{Name: e.Name, Value: v}
	case *ForExpr:
		from, to, body := Rewrite(e.From, fn), Rewrite(e.To, fn), Rewrite(e.Body, fn)
		if from == e.From && to == e.To && body == e.Body {
			return e
		}

		return &ForExpr{Variable: e.Variable, From: from, To: to, Body: body}
	case *PrintExpr:
		v := Rewrite(e.Expr, fn)
		if v == e.Expr {
			return e
		}

		return &PrintExpr{Expr: v}
	case *ChainExpr:
		l, r := Rewrite(e.Left, fn), Rewrite(e.Right, fn)
		if l == e.Left && r == e.Right {
			return e
		}

		return &ChainExpr{Left: l, Right: r}
	case *DeriveStateExpr:
		v := Rewrite(e.Expr, fn)
		if v == e.Expr {
			return e
		}

		return &DeriveStateExpr{Expr: v}
	case *GroupExpr:
		v := Rewrite(e.Inner, fn)
		if v == e.Inner {
			return e
		}

		return &GroupExpr{Inner: v}
	}

	// Leaves: primitives, use, empty
	return expr
}
