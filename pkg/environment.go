package peitho

import "github.com/benbjohnson/immutable"

// Environment maps variable names to unevaluated expressions. It is
// persistent: Set returns a new snapshot and leaves the receiver untouched, so
// a snapshot held by a sibling scope never observes later bindings.
//
// A nil *Environment is the absent environment. Reads on it find nothing and
// Set on it starts a fresh one.
type Environment struct {
	entries *immutable.SortedMap[string, Expr]
}

func NewEnvironment() *Environment {
	return &Environment{
		entries: immutable.NewSortedMap[string, Expr](nil),
	}
}

func (e *Environment) Get(name string) (Expr, bool) {
	if e == nil {
		return nil, false
	}

	return e.entries.Get(name)
}

func (e *Environment) Set(name string, expr Expr) *Environment {
	if e == nil {
		e = NewEnvironment()
	}

	return &Environment{
		entries: e.entries.Set(name, expr),
	}
}

func (e *Environment) Len() int {
	if e == nil {
		return 0
	}

	return e.entries.Len()
}

// Each calls fn for every binding in name order and stops at the first error.
func (e *Environment) Each(fn func(name string, expr Expr) error) error {
	if e == nil {
		return nil
	}

	itr := e.entries.Iterator()
	for !itr.Done() {
		name, expr, _ := itr.Next()
		if err := fn(name, expr); err != nil {
			return err
		}
	}

	return nil
}

func (e *Environment) Names() []string {
	names := make([]string, 0, e.Len())
	_ = e.Each(func(name string, _ Expr) error {
		names = append(names, name)
		return nil
	})

	return names
}
