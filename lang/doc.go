// Package lang implements a small arithmetic expression language: a lexer,
// a table-driven LALR(1) parse engine, a condenser that turns parse trees
// into typed expression trees, and an evaluator that memoizes constant
// subtrees.
//
// # Grammar
//
//	Start → E end
//	E     → E ('+' | '-') T | T
//	T     → T ('*' | '/' | '%') F | F
//	F     → N '^' F | N
//	N     → ('+' | '-') P | P
//	P     → ident '(' ')' | ident '(' L ')' | ident | '(' E ')' | number
//	L     → E | L ',' E
//
// '^' is right-associative and the other binary operators associate left.
// A sign applies to the primary that follows it, so -2^2 is (-2)^2 and
// 2^-2 is 2^(-2). A sign cannot follow another sign without parentheses.
//
// # Pipeline
//
//	text → [Lexer] → tokens → parse engine → [ParseNode] → condense → [Node]
//
// [ParseString] runs the whole pipeline and returns an [Expr]. [ParseTree]
// stops after the parse engine. [ParseCached] shares trees between callers.
//
// # Evaluation
//
// [Expr.Evaluate] computes a value given an [Env]. A subtree is constant
// when it contains no variables and calls only pure functions; its value is
// cached the first time it is computed and never recomputed. [Compile]
// lowers a tree to an expr-lang program with the same semantics.
//
// Division or remainder by zero, and any other non-finite result from
// finite arguments, fail with an [ArithmeticError] under [PolicyStrict].
// [PolicyIEEE] returns IEEE-754 infinities and NaN instead. The policy is
// bound into the tree at parse time.
//
// # Errors
//
// Every error returned by this package is an [*Error] whose [ErrorKind]
// can be matched with [errors.Is] against the sentinels, e.g.
//
//	if errors.Is(err, lang.ErrSyntax) { ... }
package lang
