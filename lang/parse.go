package lang

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/readahead"
)

// ParseNode is a node of the generic parse tree built by the parse engine.
// A leaf holds the shifted Token. An internal node holds the nonterminal
// and rule of a reduction, with one child per right-hand side symbol.
type ParseNode struct {
	Token    *Token
	Symbol   Nonterminal
	Rule     Rule
	Children []*ParseNode

	depth int // levels in the subtree rooted here, leaves count as one
}

// IsLeaf reports whether n holds a token.
func (n *ParseNode) IsLeaf() bool { return n.Token != nil }

// Print writes an indented outline of the tree rooted at n.
func (n *ParseNode) Print(w io.Writer) error {
	return n.print(w, 0)
}

func (n *ParseNode) print(w io.Writer, depth int) error {
	prefix := strings.Repeat("  ", depth)

	if n.IsLeaf() {
		_, err := io.WriteString(w, prefix+n.Token.String()+"\n")

		return err
	}

	if _, err := io.WriteString(w, prefix+n.Rule.String()+"\n"); err != nil {
		return err
	}

	for _, child := range n.Children {
		if err := child.print(w, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// ParseReader parses an expression read from r.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Expr, error) {
	// Wrap reader with async read-ahead so reading overlaps with setup.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseString(ctx, strings.TrimSpace(string(data)), opts...)
}

// ParseString parses an expression. On error no part of the tree is
// returned.
func ParseString(ctx context.Context, s string, opts ...Option) (*Expr, error) {
	e := newExpr(s, opts...)

	e.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(s)),
		slog.String("policy", e.opts.policy.String()),
	)

	tree, stats, err := parse(NewLexer(s), e.opts.maxDepth)
	if err != nil {
		e.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	root, err := e.condense(tree)
	if err != nil {
		e.logger.TraceContext(ctx, "condense failed", slog.Any("error", err))

		return nil, err
	}

	e.Root = root

	e.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", stats.tokens),
		slog.Int("reduction_count", stats.reductions),
		slog.Bool("constant", root.IsConstant()),
	)

	return e, nil
}

// ParseTree runs the parse engine over s and returns the generic parse
// tree without condensing it. The tree is limited to [DefaultMaxDepth]
// levels.
func ParseTree(s string) (*ParseNode, error) {
	tree, _, err := parse(NewLexer(s), DefaultMaxDepth)
	if err != nil {
		return nil, err
	}

	return tree, nil
}

// frame is an entry of the parse stack.
type frame struct {
	state state
	node  *ParseNode
}

type parseStats struct {
	tokens     int
	reductions int
}

// parse drives the automaton over the tokens of lx. A reduction producing
// a subtree deeper than maxDepth levels is a syntax error, unless maxDepth
// is not positive.
func parse(lx *Lexer, maxDepth int) (*ParseNode, parseStats, error) {
	var stats parseStats

	stack := make([]frame, 1, 32)
	stack[0] = frame{state: initialState}

	tok, err := lx.Next()
	if err != nil {
		return nil, stats, err
	}

	for {
		top := stack[len(stack)-1]
		act := actionTable[top.state][tok.Kind]

		switch act.kind {
		case actAccept:
			stats.tokens++ // end

			if len(stack) != 2 || top.node == nil {
				return nil, stats, ErrInternal.WithPosition(tok.Pos).
					Wrapf("accept with %d stack entries", len(stack))
			}

			return top.node, stats, nil

		case actShift:
			leaf := tok

			stack = append(stack, frame{
				state: state(act.operand),
				node:  &ParseNode{Token: &leaf, depth: 1},
			})
			stats.tokens++

			tok, err = lx.Next()
			if err != nil {
				return nil, stats, err
			}

		case actReduce:
			node, err := popRule(&stack, Rule(act.operand))
			if err != nil {
				return nil, stats, WrapError(err).WithPosition(tok.Pos)
			}

			if maxDepth > 0 && node.depth > maxDepth {
				return nil, stats, ErrSyntax.WithPosition(tok.Pos).
					Wrapf("expression nested deeper than %d levels", maxDepth).
					With(slog.Int("max_depth", maxDepth))
			}

			stats.reductions++

			exposed := stack[len(stack)-1].state
			next := gotoTable[exposed][node.Symbol]

			if next == initialState {
				return nil, stats, ErrInternal.WithPosition(tok.Pos).
					Wrapf("no transition from state %d on %s", exposed, node.Symbol)
			}

			stack = append(stack, frame{state: next, node: node})

		default:
			return nil, stats, syntaxError(top.state, tok)
		}
	}
}

// popRule pops the right-hand side of rule r from the stack and returns the
// node for its left-hand side. The caller pushes the node.
func popRule(stack *[]frame, r Rule) (*ParseNode, error) {
	if r < 0 || int(r) >= len(rules) {
		return nil, ErrInternal.Wrapf("reduce by unknown rule %d", r)
	}

	prod := rules[r]
	n := len(prod.rhs)

	if len(*stack)-1 < n {
		return nil, ErrInternal.Wrapf("reduce %s with %d stack entries",
			r, len(*stack))
	}

	base := len(*stack) - n
	children := make([]*ParseNode, n)
	depth := 0

	for i, f := range (*stack)[base:] {
		children[i] = f.node
		depth = max(depth, f.node.depth)
	}

	*stack = (*stack)[:base]

	return &ParseNode{
		Symbol:   prod.lhs,
		Rule:     r,
		Children: children,
		depth:    depth + 1,
	}, nil
}

// syntaxError reports tok as unexpected in state s, listing the terminals
// the action table accepts there.
func syntaxError(s state, tok Token) *Error {
	expected := expectedTerminals(s)

	names := make([]string, len(expected))
	for i, k := range expected {
		names[i] = k.String()
	}

	return ErrSyntax.WithPosition(tok.Pos).
		Wrapf("%s, expected one of %s", tok, strings.Join(names, " ")).
		With(
			slog.String("token", tok.String()),
			slog.Any("expected", names),
		)
}

// expectedTerminals returns the terminals with an action in state s, in
// [Kind] order.
func expectedTerminals(s state) []Kind {
	var kinds []Kind

	for k := range Kind(numTerminals) {
		if actionTable[s][k].kind != actError {
			kinds = append(kinds, k)
		}
	}

	return kinds
}
