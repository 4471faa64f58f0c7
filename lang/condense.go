package lang

import (
	"errors"
	"log/slog"
	"strconv"
)

// condense builds the expression tree for the parse tree rooted at n.
// Passthrough rules and parentheses produce no node of their own.
func (e *Expr) condense(n *ParseNode) (Node, error) {
	if err := checkShape(n); err != nil {
		return nil, err
	}

	c := n.Children

	switch n.Rule {
	case ruleAdd, ruleSub, ruleMul, ruleDiv, ruleMod, rulePow:
		left, err := e.condense(c[0])
		if err != nil {
			return nil, err
		}

		right, err := e.condense(c[2])
		if err != nil {
			return nil, err
		}

		op, ok := binaryOperators[c[1].Token.Kind]
		if !ok {
			return nil, ErrInternal.WithPosition(c[1].Token.Pos).
				Wrapf("no binary operator %s", c[1].Token)
		}

		return newBinaryOp(op, left, right, e.opts.policy), nil

	case ruleTerm, ruleFactor, ruleBase, rulePrimary:
		return e.condense(c[0])

	case rulePlus, ruleNeg:
		operand, err := e.condense(c[1])
		if err != nil {
			return nil, err
		}

		op, ok := unaryOperators[c[0].Token.Kind]
		if !ok {
			return nil, ErrInternal.WithPosition(c[0].Token.Pos).
				Wrapf("no unary operator %s", c[0].Token)
		}

		return newUnaryOp(op, operand, e.opts.policy), nil

	case ruleCall0:
		return e.call(c[0].Token, nil), nil

	case ruleCallN:
		args, err := e.condenseArgs(c[2])
		if err != nil {
			return nil, err
		}

		return e.call(c[0].Token, args), nil

	case ruleVar:
		return &Variable{Name: c[0].Token.Lexeme, Pos: c[0].Token.Pos}, nil

	case ruleParen:
		return e.condense(c[1])

	case ruleNumber:
		return parseNumber(c[0].Token)

	default:
		// ruleStart is never reduced, and argument lists only appear under
		// calls.
		return nil, ErrInternal.Wrapf("condense %s", n.Rule)
	}
}

// condenseArgs flattens an argument list, preserving source order.
func (e *Expr) condenseArgs(n *ParseNode) ([]Node, error) {
	if err := checkShape(n); err != nil {
		return nil, err
	}

	switch n.Rule {
	case ruleArg:
		arg, err := e.condense(n.Children[0])
		if err != nil {
			return nil, err
		}

		return []Node{arg}, nil

	case ruleArgs:
		args, err := e.condenseArgs(n.Children[0])
		if err != nil {
			return nil, err
		}

		arg, err := e.condense(n.Children[2])
		if err != nil {
			return nil, err
		}

		return append(args, arg), nil

	default:
		return nil, ErrInternal.Wrapf("condense arguments %s", n.Rule)
	}
}

func (e *Expr) call(name *Token, args []Node) *Call {
	return newCall(
		name.Lexeme,
		args,
		name.Pos,
		e.lookupFunction(name.Lexeme),
		e.opts.policy,
	)
}

// checkShape verifies that n is an internal node whose children match the
// right-hand side of its rule.
func checkShape(n *ParseNode) error {
	if n == nil || n.IsLeaf() {
		return ErrInternal.Wrapf("condense leaf or missing node")
	}

	if n.Rule < 0 || int(n.Rule) >= len(rules) {
		return ErrInternal.Wrapf("condense unknown rule %d", n.Rule)
	}

	rhs := rules[n.Rule].rhs
	if len(n.Children) != len(rhs) {
		return ErrInternal.Wrapf("%s has %d children", n.Rule, len(n.Children))
	}

	for i, sym := range rhs {
		if child := n.Children[i]; child == nil || child.IsLeaf() != sym.terminal {
			return ErrInternal.Wrapf("%s child %d has the wrong shape", n.Rule, i)
		}
	}

	return nil
}

// parseNumber validates a numeric lexeme. Only decimal literals with an
// optional fraction and exponent are accepted.
func parseNumber(tok *Token) (*Const, error) {
	if !isDecimalLiteral(tok.Lexeme) {
		return nil, ErrNumberFormat.WithPosition(tok.Pos).
			Wrapf("%q", tok.Lexeme).
			With(slog.String("lexeme", tok.Lexeme))
	}

	v, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) {
			err = ne.Err
		}

		return nil, ErrNumberFormat.WithPosition(tok.Pos).
			Wrapf("%q: %w", tok.Lexeme, err).
			With(slog.String("lexeme", tok.Lexeme))
	}

	return &Const{Value: v, Pos: tok.Pos}, nil
}

// isDecimalLiteral matches digits [ '.' digits ] [ ('e'|'E') [sign] digits ]
// where at least one mantissa digit is present.
func isDecimalLiteral(s string) bool {
	i, digits := 0, 0

	for i < len(s) && isDigit(rune(s[i])) {
		i++
		digits++
	}

	if i < len(s) && s[i] == '.' {
		i++

		for i < len(s) && isDigit(rune(s[i])) {
			i++
			digits++
		}
	}

	if digits == 0 {
		return false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++

		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}

		start := i
		for i < len(s) && isDigit(rune(s[i])) {
			i++
		}

		if i == start {
			return false
		}
	}

	return i == len(s)
}
