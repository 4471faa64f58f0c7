package lang

import "sync/atomic"

// Node is a node of an expression tree. The set of implementations is
// closed: [*Const], [*Variable], [*BinaryOp], [*UnaryOp], and [*Call].
//
// Trees are immutable once built and every node owns its children, so a
// tree may be evaluated by concurrent callers.
type Node interface {
	// IsConstant reports whether the value of the node never depends on the
	// evaluation environment.
	IsConstant() bool

	// String renders the node as expression text with minimal parentheses.
	String() string

	node()
}

// Const is a numeric literal.
type Const struct {
	Value float64
	Pos   Position
}

// Variable is a reference to a value in the evaluation environment.
type Variable struct {
	Name string
	Pos  Position
}

// BinaryOp applies an infix operator to two operands.
type BinaryOp struct {
	Op    *Operator
	Left  Node
	Right Node

	policy Policy
	memo
}

// UnaryOp applies a prefix operator to its operand.
type UnaryOp struct {
	Op      *Operator
	Operand Node

	policy Policy
	memo
}

// Call applies a named function to its arguments, which are evaluated left
// to right.
type Call struct {
	Name string
	Args []Node
	Pos  Position

	fn     *Function // nil if Name was not registered when the tree was built
	policy Policy
	memo
}

func (*Const) node()    {}
func (*Variable) node() {}
func (*BinaryOp) node() {}
func (*UnaryOp) node()  {}
func (*Call) node()     {}

// IsConstant always returns true.
func (*Const) IsConstant() bool { return true }

// IsConstant always returns false.
func (*Variable) IsConstant() bool { return false }

// memo is the write-once value cache of a composite node. Only nodes built
// constant ever populate it, and nothing clears it.
type memo struct {
	constant bool
	value    atomic.Pointer[float64]
}

// IsConstant reports whether every operand is constant and, for calls, the
// function is pure.
func (m *memo) IsConstant() bool { return m.constant }

// cached returns the memoized value, if any.
func (m *memo) cached() (float64, bool) {
	if v := m.value.Load(); v != nil {
		return *v, true
	}

	return 0, false
}

// store memoizes v if the node is constant and returns the value every
// caller observes. Concurrent stores of the same constant agree, and the
// first one wins.
func (m *memo) store(v float64) float64 {
	if !m.constant {
		return v
	}

	m.value.CompareAndSwap(nil, &v)

	return *m.value.Load()
}

func newBinaryOp(op *Operator, left, right Node, policy Policy) *BinaryOp {
	n := &BinaryOp{Op: op, Left: left, Right: right, policy: policy}
	n.constant = left.IsConstant() && right.IsConstant()

	return n
}

func newUnaryOp(op *Operator, operand Node, policy Policy) *UnaryOp {
	n := &UnaryOp{Op: op, Operand: operand, policy: policy}
	n.constant = operand.IsConstant()

	return n
}

func newCall(
	name string,
	args []Node,
	pos Position,
	fn *Function,
	policy Policy,
) *Call {
	n := &Call{Name: name, Args: args, Pos: pos, fn: fn, policy: policy}
	n.constant = fn != nil && fn.Pure

	for _, arg := range args {
		n.constant = n.constant && arg.IsConstant()
	}

	return n
}

// Walk visits n and its descendants in depth-first, left-to-right order,
// stopping early if visit returns false.
func Walk(n Node, visit func(Node) bool) bool {
	if !visit(n) {
		return false
	}

	switch n := n.(type) {
	case *BinaryOp:
		return Walk(n.Left, visit) && Walk(n.Right, visit)

	case *UnaryOp:
		return Walk(n.Operand, visit)

	case *Call:
		for _, arg := range n.Args {
			if !Walk(arg, visit) {
				return false
			}
		}
	}

	return true
}
