package lang

import (
	"strconv"
	"strings"
)

// This file holds the grammar of the expression language and the LALR(1)
// automaton that recognizes it. The tables are static data: the parse engine
// consults them and never regenerates them.
//
//	 0  Start -> E end           10  N -> '+' P
//	 1  E -> E '+' T             11  N -> '-' P
//	 2  E -> E '-' T             12  N -> P
//	 3  E -> T                   13  P -> ident '(' ')'
//	 4  T -> T '*' F             14  P -> ident '(' L ')'
//	 5  T -> T '/' F             15  P -> ident
//	 6  T -> T '%' F             16  P -> '(' E ')'
//	 7  T -> F                   17  P -> number
//	 8  F -> N '^' F             18  L -> E
//	 9  F -> N                   19  L -> L ',' E
//
// Precedence and associativity follow from the table: '^' recurses right
// through F, so it is right-associative and binds tighter than the
// left-recursive '*', '/', '%' (T) and '+', '-' (E). A sign applies to a
// primary (N), so it binds tighter than every binary operator including the
// '^' that follows it: -2^2 is (-2)^2.

// Nonterminal is a grammar symbol produced by reducing a rule.
type Nonterminal int

const (
	symStart Nonterminal = iota
	symE
	symT
	symF
	symN
	symP
	symL
)

const numNonterminals = int(symL) + 1

// String returns the grammar name of n.
func (n Nonterminal) String() string {
	switch n {
	case symStart:
		return "Start"

	case symE:
		return "E"

	case symT:
		return "T"

	case symF:
		return "F"

	case symN:
		return "N"

	case symP:
		return "P"

	case symL:
		return "L"

	default:
		return "?"
	}
}

// Rule identifies a production by its index in rules.
type Rule int

const (
	ruleStart Rule = iota
	ruleAdd
	ruleSub
	ruleTerm
	ruleMul
	ruleDiv
	ruleMod
	ruleFactor
	rulePow
	ruleBase
	rulePlus
	ruleNeg
	rulePrimary
	ruleCall0
	ruleCallN
	ruleVar
	ruleParen
	ruleNumber
	ruleArg
	ruleArgs
)

// String returns the production of r, e.g. "E -> E '+' T".
func (r Rule) String() string {
	if r < 0 || int(r) >= len(rules) {
		return "rule " + strconv.Itoa(int(r))
	}

	return rules[r].String()
}

// production describes the shape of a rule: the nonterminal it reduces to
// and the number of symbols on its right-hand side.
type production struct {
	lhs Nonterminal
	rhs []symbol
}

// symbol is a grammar symbol on the right-hand side of a production.
// Exactly one of term or nonterm is meaningful, selected by terminal.
type symbol struct {
	terminal bool
	term     Kind
	nonterm  Nonterminal
}

func (p production) String() string {
	parts := make([]string, 0, len(p.rhs)+2)
	parts = append(parts, p.lhs.String(), "->")

	for _, sym := range p.rhs {
		if sym.terminal {
			parts = append(parts, sym.term.String())
		} else {
			parts = append(parts, sym.nonterm.String())
		}
	}

	return strings.Join(parts, " ")
}

func term(k Kind) symbol           { return symbol{terminal: true, term: k} }
func nonterm(s Nonterminal) symbol { return symbol{nonterm: s} }

var rules = [...]production{
	ruleStart:   {symStart, []symbol{nonterm(symE), term(End)}},
	ruleAdd:     {symE, []symbol{nonterm(symE), term(Plus), nonterm(symT)}},
	ruleSub:     {symE, []symbol{nonterm(symE), term(Minus), nonterm(symT)}},
	ruleTerm:    {symE, []symbol{nonterm(symT)}},
	ruleMul:     {symT, []symbol{nonterm(symT), term(Star), nonterm(symF)}},
	ruleDiv:     {symT, []symbol{nonterm(symT), term(Slash), nonterm(symF)}},
	ruleMod:     {symT, []symbol{nonterm(symT), term(Percent), nonterm(symF)}},
	ruleFactor:  {symT, []symbol{nonterm(symF)}},
	rulePow:     {symF, []symbol{nonterm(symN), term(Caret), nonterm(symF)}},
	ruleBase:    {symF, []symbol{nonterm(symN)}},
	rulePlus:    {symN, []symbol{term(Plus), nonterm(symP)}},
	ruleNeg:     {symN, []symbol{term(Minus), nonterm(symP)}},
	rulePrimary: {symN, []symbol{nonterm(symP)}},
	ruleCall0:   {symP, []symbol{term(Ident), term(LParen), term(RParen)}},
	ruleCallN:   {symP, []symbol{term(Ident), term(LParen), nonterm(symL), term(RParen)}},
	ruleVar:     {symP, []symbol{term(Ident)}},
	ruleParen:   {symP, []symbol{term(LParen), nonterm(symE), term(RParen)}},
	ruleNumber:  {symP, []symbol{term(Number)}},
	ruleArg:     {symL, []symbol{nonterm(symE)}},
	ruleArgs:    {symL, []symbol{nonterm(symL), term(Comma), nonterm(symE)}},
}

// state is a row of the action and goto tables.
type state int8

// initialState is the state on the bottom of every parse stack.
const initialState state = 0

const numStates = 34

type actionKind uint8

const (
	actError actionKind = iota // absent entry: syntax error
	actShift
	actReduce
	actAccept
)

// action is an entry of the action table. Its operand is the target state of
// a shift or the rule of a reduce.
type action struct {
	kind    actionKind
	operand int8
}

func shift(s state) action { return action{kind: actShift, operand: int8(s)} }
func reduce(r Rule) action { return action{kind: actReduce, operand: int8(r)} }

var accept = action{kind: actAccept}

// actionTable is indexed by (state, terminal).
var actionTable = [numStates][numTerminals]action{
	0: {
		Plus:   shift(1),
		Minus:  shift(2),
		LParen: shift(3),
		Ident:  shift(4),
		Number: shift(5),
	},
	1: {
		LParen: shift(3),
		Ident:  shift(4),
		Number: shift(5),
	},
	2: {
		LParen: shift(3),
		Ident:  shift(4),
		Number: shift(5),
	},
	3: {
		Plus:   shift(1),
		Minus:  shift(2),
		LParen: shift(3),
		Ident:  shift(4),
		Number: shift(5),
	},
	4: {
		Plus:    reduce(ruleVar),
		Minus:   reduce(ruleVar),
		Star:    reduce(ruleVar),
		Slash:   reduce(ruleVar),
		Percent: reduce(ruleVar),
		Caret:   reduce(ruleVar),
		LParen:  shift(14),
		RParen:  reduce(ruleVar),
		Comma:   reduce(ruleVar),
		End:     reduce(ruleVar),
	},
	5: {
		Plus:    reduce(ruleNumber),
		Minus:   reduce(ruleNumber),
		Star:    reduce(ruleNumber),
		Slash:   reduce(ruleNumber),
		Percent: reduce(ruleNumber),
		Caret:   reduce(ruleNumber),
		RParen:  reduce(ruleNumber),
		Comma:   reduce(ruleNumber),
		End:     reduce(ruleNumber),
	},
	6: {
		Plus:  shift(15),
		Minus: shift(16),
		End:   accept,
	},
	7: {
		Plus:    reduce(ruleTerm),
		Minus:   reduce(ruleTerm),
		Star:    shift(17),
		Slash:   shift(18),
		Percent: shift(19),
		RParen:  reduce(ruleTerm),
		Comma:   reduce(ruleTerm),
		End:     reduce(ruleTerm),
	},
	8: {
		Plus:    reduce(ruleFactor),
		Minus:   reduce(ruleFactor),
		Star:    reduce(ruleFactor),
		Slash:   reduce(ruleFactor),
		Percent: reduce(ruleFactor),
		RParen:  reduce(ruleFactor),
		Comma:   reduce(ruleFactor),
		End:     reduce(ruleFactor),
	},
	9: {
		Plus:    reduce(ruleBase),
		Minus:   reduce(ruleBase),
		Star:    reduce(ruleBase),
		Slash:   reduce(ruleBase),
		Percent: reduce(ruleBase),
		Caret:   shift(20),
		RParen:  reduce(ruleBase),
		Comma:   reduce(ruleBase),
		End:     reduce(ruleBase),
	},
	10: {
		Plus:    reduce(rulePrimary),
		Minus:   reduce(rulePrimary),
		Star:    reduce(rulePrimary),
		Slash:   reduce(rulePrimary),
		Percent: reduce(rulePrimary),
		Caret:   reduce(rulePrimary),
		RParen:  reduce(rulePrimary),
		Comma:   reduce(rulePrimary),
		End:     reduce(rulePrimary),
	},
	11: {
		Plus:    reduce(rulePlus),
		Minus:   reduce(rulePlus),
		Star:    reduce(rulePlus),
		Slash:   reduce(rulePlus),
		Percent: reduce(rulePlus),
		Caret:   reduce(rulePlus),
		RParen:  reduce(rulePlus),
		Comma:   reduce(rulePlus),
		End:     reduce(rulePlus),
	},
	12: {
		Plus:    reduce(ruleNeg),
		Minus:   reduce(ruleNeg),
		Star:    reduce(ruleNeg),
		Slash:   reduce(ruleNeg),
		Percent: reduce(ruleNeg),
		Caret:   reduce(ruleNeg),
		RParen:  reduce(ruleNeg),
		Comma:   reduce(ruleNeg),
		End:     reduce(ruleNeg),
	},
	13: {
		Plus:   shift(15),
		Minus:  shift(16),
		RParen: shift(21),
	},
	14: {
		Plus:   shift(1),
		Minus:  shift(2),
		LParen: shift(3),
		RParen: shift(22),
		Ident:  shift(4),
		Number: shift(5),
	},
	15: {
		Plus:   shift(1),
		Minus:  shift(2),
		LParen: shift(3),
		Ident:  shift(4),
		Number: shift(5),
	},
	16: {
		Plus:   shift(1),
		Minus:  shift(2),
		LParen: shift(3),
		Ident:  shift(4),
		Number: shift(5),
	},
	17: {
		Plus:   shift(1),
		Minus:  shift(2),
		LParen: shift(3),
		Ident:  shift(4),
		Number: shift(5),
	},
	18: {
		Plus:   shift(1),
		Minus:  shift(2),
		LParen: shift(3),
		Ident:  shift(4),
		Number: shift(5),
	},
	19: {
		Plus:   shift(1),
		Minus:  shift(2),
		LParen: shift(3),
		Ident:  shift(4),
		Number: shift(5),
	},
	20: {
		Plus:   shift(1),
		Minus:  shift(2),
		LParen: shift(3),
		Ident:  shift(4),
		Number: shift(5),
	},
	21: {
		Plus:    reduce(ruleParen),
		Minus:   reduce(ruleParen),
		Star:    reduce(ruleParen),
		Slash:   reduce(ruleParen),
		Percent: reduce(ruleParen),
		Caret:   reduce(ruleParen),
		RParen:  reduce(ruleParen),
		Comma:   reduce(ruleParen),
		End:     reduce(ruleParen),
	},
	22: {
		Plus:    reduce(ruleCall0),
		Minus:   reduce(ruleCall0),
		Star:    reduce(ruleCall0),
		Slash:   reduce(ruleCall0),
		Percent: reduce(ruleCall0),
		Caret:   reduce(ruleCall0),
		RParen:  reduce(ruleCall0),
		Comma:   reduce(ruleCall0),
		End:     reduce(ruleCall0),
	},
	23: {
		Plus:   shift(15),
		Minus:  shift(16),
		RParen: reduce(ruleArg),
		Comma:  reduce(ruleArg),
	},
	24: {
		RParen: shift(31),
		Comma:  shift(32),
	},
	25: {
		Plus:    reduce(ruleAdd),
		Minus:   reduce(ruleAdd),
		Star:    shift(17),
		Slash:   shift(18),
		Percent: shift(19),
		RParen:  reduce(ruleAdd),
		Comma:   reduce(ruleAdd),
		End:     reduce(ruleAdd),
	},
	26: {
		Plus:    reduce(ruleSub),
		Minus:   reduce(ruleSub),
		Star:    shift(17),
		Slash:   shift(18),
		Percent: shift(19),
		RParen:  reduce(ruleSub),
		Comma:   reduce(ruleSub),
		End:     reduce(ruleSub),
	},
	27: {
		Plus:    reduce(ruleMul),
		Minus:   reduce(ruleMul),
		Star:    reduce(ruleMul),
		Slash:   reduce(ruleMul),
		Percent: reduce(ruleMul),
		RParen:  reduce(ruleMul),
		Comma:   reduce(ruleMul),
		End:     reduce(ruleMul),
	},
	28: {
		Plus:    reduce(ruleDiv),
		Minus:   reduce(ruleDiv),
		Star:    reduce(ruleDiv),
		Slash:   reduce(ruleDiv),
		Percent: reduce(ruleDiv),
		RParen:  reduce(ruleDiv),
		Comma:   reduce(ruleDiv),
		End:     reduce(ruleDiv),
	},
	29: {
		Plus:    reduce(ruleMod),
		Minus:   reduce(ruleMod),
		Star:    reduce(ruleMod),
		Slash:   reduce(ruleMod),
		Percent: reduce(ruleMod),
		RParen:  reduce(ruleMod),
		Comma:   reduce(ruleMod),
		End:     reduce(ruleMod),
	},
	30: {
		Plus:    reduce(rulePow),
		Minus:   reduce(rulePow),
		Star:    reduce(rulePow),
		Slash:   reduce(rulePow),
		Percent: reduce(rulePow),
		RParen:  reduce(rulePow),
		Comma:   reduce(rulePow),
		End:     reduce(rulePow),
	},
	31: {
		Plus:    reduce(ruleCallN),
		Minus:   reduce(ruleCallN),
		Star:    reduce(ruleCallN),
		Slash:   reduce(ruleCallN),
		Percent: reduce(ruleCallN),
		Caret:   reduce(ruleCallN),
		RParen:  reduce(ruleCallN),
		Comma:   reduce(ruleCallN),
		End:     reduce(ruleCallN),
	},
	32: {
		Plus:   shift(1),
		Minus:  shift(2),
		LParen: shift(3),
		Ident:  shift(4),
		Number: shift(5),
	},
	33: {
		Plus:   shift(15),
		Minus:  shift(16),
		RParen: reduce(ruleArgs),
		Comma:  reduce(ruleArgs),
	},
}

// gotoTable is indexed by (state, nonterminal). A zero entry is absent:
// the initial state is never the target of a goto.
var gotoTable = [numStates][numNonterminals]state{
	0:  {symE: 6, symT: 7, symF: 8, symN: 9, symP: 10},
	1:  {symP: 11},
	2:  {symP: 12},
	3:  {symE: 13, symT: 7, symF: 8, symN: 9, symP: 10},
	14: {symE: 23, symT: 7, symF: 8, symN: 9, symP: 10, symL: 24},
	15: {symT: 25, symF: 8, symN: 9, symP: 10},
	16: {symT: 26, symF: 8, symN: 9, symP: 10},
	17: {symF: 27, symN: 9, symP: 10},
	18: {symF: 28, symN: 9, symP: 10},
	19: {symF: 29, symN: 9, symP: 10},
	20: {symF: 30, symN: 9, symP: 10},
	32: {symE: 33, symT: 7, symF: 8, symN: 9, symP: 10},
}
