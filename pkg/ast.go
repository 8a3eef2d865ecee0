package peitho

// Expr is a node of the expression tree. Trees are never mutated once built;
// rewrites such as Splice build new nodes and share the untouched ones.
type Expr interface {
	exprNode()
}

type PrimitiveType int

const (
	PrimitiveInteger PrimitiveType = iota
	PrimitiveString
	PrimitiveBoolean
	PrimitiveFloat
	// PrimitivePlaceholder marks where a continuation gets spliced in.
	PrimitivePlaceholder
)

type Primitive struct {
	Typ   PrimitiveType
	Int   int32
	Float float64
	Str   string
	Bool  bool
}

func NewInteger(v int32) *Primitive { return &Primitive{Typ: PrimitiveInteger, Int: v} }
func NewString(v string) *Primitive { return &Primitive{Typ: PrimitiveString, Str: v} }
func NewBoolean(v bool) *Primitive  { return &Primitive{Typ: PrimitiveBoolean, Bool: v} }
func NewFloat(v float64) *Primitive { return &Primitive{Typ: PrimitiveFloat, Float: v} }
func NewPlaceholder() *Primitive    { return &Primitive{Typ: PrimitivePlaceholder} }

func (p *Primitive) IsPlaceholder() bool {
	return p.Typ == PrimitivePlaceholder
}

type BinaryOp string

const (
	BinarySum      BinaryOp = "+"
	BinarySubtract BinaryOp = "-"
	BinaryProduct  BinaryOp = "*"
	BinaryDivide   BinaryOp = "/"
)

// Name is the label used in error reports.
func (op BinaryOp) Name() string {
	switch op {
	case BinarySum:
		return "Sum"
	case BinarySubtract:
		return "Subtract"
	case BinaryProduct:
		return "Product"
	case BinaryDivide:
		return "Divide"
	}

	return string(op)
}

type BinaryExpr struct {
	Operation BinaryOp
	Left      Expr
	Right     Expr
}

type Operand int

const (
	OperandEquals Operand = iota
	OperandLessThan
	OperandGreaterThan
	OperandNot
	OperandNegate
)

func (o Operand) String() string {
	switch o {
	case OperandEquals:
		return "Equals"
	case OperandLessThan:
		return "LessThan"
	case OperandGreaterThan:
		return "GreaterThan"
	case OperandNot:
		return "Not"
	case OperandNegate:
		return "Negate"
	}

	return "Operand(?)"
}

type CompareExpr struct {
	Left    Expr
	Operand Operand
	Right   Expr
}

type UnaryExpr struct {
	Operand Operand
	Right   Expr
}

type IfExpr struct {
	Condition Expr
	Then      Expr
	Else      Expr
}

type Binding struct {
	Name  string
	Value Expr
}

type LetExpr struct {
	Bindings []Binding
	Scope    Expr
}

type UseExpr struct {
	Name string
}

type AssignExpr struct {
	Name  string
	Value Expr
}

type ForExpr struct {
	Variable string
	From     Expr
	To       Expr
	Body     Expr
}

type PrintExpr struct {
	Expr Expr
}

type ChainExpr struct {
	Left  Expr
	Right Expr
}

type DeriveStateExpr struct {
	Expr Expr
}

type GroupExpr struct {
	Inner Expr
}

type EmptyExpr struct{}

func (*Primitive) exprNode()       {}
func (*BinaryExpr) exprNode()      {}
func (*CompareExpr) exprNode()     {}
func (*UnaryExpr) exprNode()       {}
func (*IfExpr) exprNode()          {}
func (*LetExpr) exprNode()         {}
func (*UseExpr) exprNode()         {}
func (*AssignExpr) exprNode()      {}
func (*ForExpr) exprNode()         {}
func (*PrintExpr) exprNode()       {}
func (*ChainExpr) exprNode()       {}
func (*DeriveStateExpr) exprNode() {}
func (*GroupExpr) exprNode()       {}
func (*EmptyExpr) exprNode()       {}
