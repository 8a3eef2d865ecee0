package peitho

import (
	"fmt"
	"sort"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// LoweringError reports a construct the native backend cannot express.
type LoweringError struct {
	Construct string
	Reason    string
}

func (e *LoweringError) Error() string {
	return fmt.Sprintf("cannot lower %s: %s", e.Construct, e.Reason)
}

type loweredKind int

const (
	kindUnit loweredKind = iota
	kindInt
	kindFloat
	kindBool
	kindString
	kindState
)

type lowered struct {
	kind  loweredKind
	val   value.Value
	scope *ValueLookup
}

var unit = &lowered{kind: kindUnit}

// irBinding is what a name stands for while lowering: let bindings keep the
// expression and are lowered again at every use, assignments keep the value
// computed at the point of assignment.
type irBinding struct {
	expr Expr
	val  *lowered
}

// ValueLookup is the lowering counterpart of Environment. A nil lookup is the
// absent environment.
type ValueLookup struct {
	vals map[string]irBinding
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]irBinding),
	}
}

func (l *ValueLookup) Inherit(t2 *ValueLookup) {
	if t2 == nil {
		return
	}

	for k, v := range t2.vals {
		l.Set(k, v)
	}
}

func (l *ValueLookup) Get(id string) (irBinding, bool) {
	if l == nil {
		return irBinding{}, false
	}

	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val irBinding) {
	l.vals[id] = val
}

// With returns a copy of the lookup holding one more binding.
func (l *ValueLookup) With(id string, val irBinding) *ValueLookup {
	next := NewValueLookup()
	next.Inherit(l)
	next.Set(id, val)

	return next
}

type LLVMIRBuilder struct {
	mod     *ir.Module
	fn      *ir.Func
	block   *ir.Block
	printf  *ir.Func
	prints  map[loweredKind]*ir.Func
	strings map[string]constant.Constant
	blocks  int
}

func NewLLVMIRBuilder() *LLVMIRBuilder {
	builder := &LLVMIRBuilder{
		mod:     ir.NewModule(),
		prints:  make(map[loweredKind]*ir.Func),
		strings: make(map[string]constant.Constant),
	}

	defineBuiltins(builder)
	return builder
}

// Lower compiles a program into a module whose main function runs it.
func Lower(expr Expr) (*ir.Module, error) {
	b := NewLLVMIRBuilder()

	b.fn = b.mod.NewFunc("main", types.I32)
	b.block = b.fn.NewBlock("entry")

	if _, err := b.lower(expr, NewValueLookup()); err != nil {
		return nil, err
	}

	b.block.NewRet(constant.NewInt(types.I32, 0))
	return b.mod, nil
}

func (b *LLVMIRBuilder) newBlock(prefix string) *ir.Block {
	b.blocks++
	return b.fn.NewBlock(fmt.Sprintf("%s.%d", prefix, b.blocks))
}

// globalString returns an i8* to a NUL terminated copy of s, shared between
// identical strings.
func (b *LLVMIRBuilder) globalString(s string) constant.Constant {
	if ptr, ok := b.strings[s]; ok {
		return ptr
	}

	data := constant.NewCharArrayFromString(s + "\x00")
	glob := b.mod.NewGlobalDef(fmt.Sprintf(".str.%d", len(b.strings)), data)

	zero := constant.NewInt(types.I32, 0)
	ptr := constant.NewGetElementPtr(types.NewArray(uint64(len(s)+1), types.I8), glob, zero, zero)
	b.strings[s] = ptr

	return ptr
}

func (b *LLVMIRBuilder) lower(expr Expr, scope *ValueLookup) (*lowered, error) {
	switch e := expr.(type) {
	case *EmptyExpr:
		return unit, nil
	case *Primitive:
		return b.loadLiteral(e)
	case *BinaryExpr:
		return b.binaryExpression(e, scope)
	case *CompareExpr:
		return b.compareExpression(e, scope)
	case *UnaryExpr:
		return b.unaryExpression(e, scope)
	case *IfExpr:
		return b.ifExpression(e, scope)
	case *LetExpr:
		inner := scope
		if inner == nil {
			inner = NewValueLookup()
		}

		for _, binding := range e.Bindings {
			inner = inner.With(binding.Name, irBinding{expr: binding.Value})
		}

		return b.lower(e.Scope, inner)
	case *UseExpr:
		binding, ok := scope.Get(e.Name)
		if !ok {
			return nil, &UndefinedVariableError{Name: e.Name}
		}

		if binding.val != nil {
			return binding.val, nil
		}

		return b.lower(binding.expr, scope)
	case *AssignExpr:
		if scope == nil {
			return nil, &UndefinedVariableError{Name: e.Name}
		}

		v, err := b.lower(e.Value, scope)
		if err != nil {
			return nil, err
		}

		if v.kind == kindUnit || v.kind == kindState {
			return nil, &LoweringError{"assignment to " + e.Name, "value has no literal form"}
		}

		return &lowered{kind: kindState, scope: scope.With(e.Name, irBinding{val: v})}, nil
	case *ForExpr:
		return b.loop(e, scope)
	case *PrintExpr:
		return b.print(e, scope)
	case *ChainExpr:
		left, err := b.lower(e.Left, scope)
		if err != nil {
			return nil, err
		}

		if left.kind == kindState {
			return b.lower(e.Right, left.scope)
		}

		return b.lower(e.Right, scope)
	case *DeriveStateExpr:
		if _, err := b.lower(e.Expr, scope); err != nil {
			return nil, err
		}

		return &lowered{kind: kindState, scope: scope}, nil
	case *GroupExpr:
		return b.lower(e.Inner, scope)
	}

	return nil, &LoweringError{fmt.Sprintf("%T", expr), "unknown expression"}
}

func (b *LLVMIRBuilder) loadLiteral(expr *Primitive) (*lowered, error) {
	switch expr.Typ {
	case PrimitiveInteger:
		return &lowered{kind: kindInt, val: constant.NewInt(types.I32, int64(expr.Int))}, nil
	case PrimitiveFloat:
		return &lowered{kind: kindFloat, val: constant.NewFloat(types.Double, expr.Float)}, nil
	case PrimitiveBoolean:
		return &lowered{kind: kindBool, val: constant.NewBool(expr.Bool)}, nil
	case PrimitiveString:
		return &lowered{kind: kindString, val: b.globalString(expr.Str)}, nil
	}

	return nil, &LoweringError{"placeholder", "continuation was never spliced"}
}

func (b *LLVMIRBuilder) integers(construct string, left, right Expr, scope *ValueLookup) (value.Value, value.Value, error) {
	l, err := b.lower(left, scope)
	if err != nil {
		return nil, nil, err
	}

	r, err := b.lower(right, scope)
	if err != nil {
		return nil, nil, err
	}

	if l.kind != kindInt || r.kind != kindInt {
		return nil, nil, &LoweringError{construct, "operands must be integers"}
	}

	return l.val, r.val, nil
}

func (b *LLVMIRBuilder) binaryExpression(expr *BinaryExpr, scope *ValueLookup) (*lowered, error) {
	v1, v2, err := b.integers(expr.Operation.Name(), expr.Left, expr.Right, scope)
	if err != nil {
		return nil, err
	}

	switch expr.Operation {
	case BinarySum:
		return &lowered{kind: kindInt, val: b.block.NewAdd(v1, v2)}, nil
	case BinarySubtract:
		return &lowered{kind: kindInt, val: b.block.NewSub(v1, v2)}, nil
	case BinaryProduct:
		return &lowered{kind: kindInt, val: b.block.NewMul(v1, v2)}, nil
	case BinaryDivide:
		if c, ok := v2.(*constant.Int); ok && c.X.Sign() == 0 {
			return nil, invalidValues("Division with 0", IntegerValue(0))
		}

		l := b.block.NewSIToFP(v1, types.Double)
		r := b.block.NewSIToFP(v2, types.Double)
		return &lowered{kind: kindFloat, val: b.block.NewFDiv(l, r)}, nil
	}

	return nil, &LoweringError{string(expr.Operation), "unknown binary operation"}
}

var comparePredicates = map[Operand]enum.IPred{
	OperandEquals:      enum.IPredEQ,
	OperandLessThan:    enum.IPredSLT,
	OperandGreaterThan: enum.IPredSGT,
}

func (b *LLVMIRBuilder) compareExpression(expr *CompareExpr, scope *ValueLookup) (*lowered, error) {
	pred, ok := comparePredicates[expr.Operand]
	if !ok {
		return nil, &InvalidOperandError{Operand: expr.Operand}
	}

	v1, v2, err := b.integers("Compare", expr.Left, expr.Right, scope)
	if err != nil {
		return nil, err
	}

	return &lowered{kind: kindBool, val: b.block.NewICmp(pred, v1, v2)}, nil
}

func (b *LLVMIRBuilder) unaryExpression(expr *UnaryExpr, scope *ValueLookup) (*lowered, error) {
	v, err := b.lower(expr.Right, scope)
	if err != nil {
		return nil, err
	}

	zero := constant.NewInt(types.I32, 0)
	switch {
	case v.kind == kindInt && expr.Operand == OperandNegate:
		return &lowered{kind: kindInt, val: b.block.NewSub(zero, v.val)}, nil
	case v.kind == kindInt && expr.Operand == OperandNot:
		return &lowered{kind: kindBool, val: b.block.NewICmp(enum.IPredEQ, v.val, zero)}, nil
	case v.kind == kindBool && expr.Operand == OperandNot:
		return &lowered{kind: kindBool, val: b.block.NewXor(v.val, constant.True)}, nil
	}

	return nil, &LoweringError{"unary " + expr.Operand.String(), "unsupported operand type"}
}

func (b *LLVMIRBuilder) ifExpression(expr *IfExpr, scope *ValueLookup) (*lowered, error) {
	cond, err := b.lower(expr.Condition, scope)
	if err != nil {
		return nil, err
	}

	if cond.kind != kindBool {
		return nil, &LoweringError{"if", "condition must be a boolean"}
	}

	thenBlock, elseBlock, merge := b.newBlock("if.then"), b.newBlock("if.else"), b.newBlock("if.end")
	b.block.NewCondBr(cond.val, thenBlock, elseBlock)

	branch := func(start *ir.Block, body Expr) (*lowered, *ir.Block, error) {
		b.block = start
		v, err := b.lower(body, scope)
		if err != nil {
			return nil, nil, err
		}

		if v.kind == kindState {
			return nil, nil, &LoweringError{"if", "assignments cannot escape a branch"}
		}

		end := b.block
		end.NewBr(merge)
		return v, end, nil
	}

	tv, thenEnd, err := branch(thenBlock, expr.Then)
	if err != nil {
		return nil, err
	}

	ev, elseEnd, err := branch(elseBlock, expr.Else)
	if err != nil {
		return nil, err
	}

	b.block = merge
	if tv.kind != ev.kind || tv.kind == kindUnit {
		return unit, nil
	}

	phi := merge.NewPhi(ir.NewIncoming(tv.val, thenEnd), ir.NewIncoming(ev.val, elseEnd))
	return &lowered{kind: tv.kind, val: phi}, nil
}

// loop lowers an inclusive range loop with the counter carried in a phi.
func (b *LLVMIRBuilder) loop(expr *ForExpr, scope *ValueLookup) (*lowered, error) {
	from, to, err := b.integers("For", expr.From, expr.To, scope)
	if err != nil {
		return nil, err
	}

	pre := b.block
	cond, body, exit := b.newBlock("for.cond"), b.newBlock("for.body"), b.newBlock("for.end")
	pre.NewBr(cond)

	counter := cond.NewPhi(ir.NewIncoming(from, pre))
	cond.NewCondBr(cond.NewICmp(enum.IPredSLE, counter, to), body, exit)

	b.block = body
	inner := scope
	if inner == nil {
		inner = NewValueLookup()
	}

	result, err := b.lower(expr.Body, inner.With(expr.Variable, irBinding{val: &lowered{kind: kindInt, val: counter}}))
	if err != nil {
		return nil, err
	}

	if result.kind == kindState {
		return nil, &LoweringError{"for", "assignments cannot be carried between iterations"}
	}

	latch := b.block
	next := latch.NewAdd(counter, constant.NewInt(types.I32, 1))
	counter.Incs = append(counter.Incs, ir.NewIncoming(next, latch))
	latch.NewBr(cond)

	b.block = exit
	return unit, nil
}

func (b *LLVMIRBuilder) print(expr *PrintExpr, scope *ValueLookup) (*lowered, error) {
	v, err := b.lower(expr.Expr, scope)
	if err != nil {
		return nil, err
	}

	switch v.kind {
	case kindUnit:
		b.block.NewCall(b.prints[kindString], b.globalString(""))
	case kindState:
		if err := b.printState(v.scope, scope); err != nil {
			return nil, err
		}
	default:
		b.block.NewCall(b.prints[v.kind], v.val)
	}

	return unit, nil
}

// printState prints "name = value" for every binding of state, in name order.
func (b *LLVMIRBuilder) printState(state, caller *ValueLookup) error {
	if state == nil {
		return nil
	}

	names := make([]string, 0, len(state.vals))
	for name := range state.vals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		binding := state.vals[name]

		v := binding.val
		if v == nil {
			var err error
			if v, err = b.lower(binding.expr, caller); err != nil {
				return err
			}
		}

		if v.kind == kindUnit || v.kind == kindState {
			return &LoweringError{"print", "binding " + name + " has no printable value"}
		}

		b.block.NewCall(b.printf, b.globalString(name+" = "+printfVerbs[v.kind]+"\n"), b.boolText(v))
	}

	return nil
}

var printfVerbs = map[loweredKind]string{
	kindInt:    "%d",
	kindFloat:  "%g",
	kindBool:   "%s",
	kindString: "%s",
}

// boolText maps booleans to their text so they can go through %s.
func (b *LLVMIRBuilder) boolText(v *lowered) value.Value {
	if v.kind != kindBool {
		return v.val
	}

	return b.block.NewSelect(v.val, b.globalString("true"), b.globalString("false"))
}
