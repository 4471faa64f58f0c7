package repl

import (
	"slices"
	"strings"

	"github.com/ardnew/calc/lang"
)

// functionCall describes the innermost call whose argument list contains
// the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall tokenizes input up to cursor and tracks open argument
// lists. Parentheses not preceded by an identifier group subexpressions and
// are tracked only to keep the nesting balanced, so the cursor inside a
// grouped argument still belongs to the enclosing call.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	type frame struct {
		name string
		args int
	}

	var (
		stack []frame
		prev  lang.Token
	)

	for tok, err := range lang.Tokenize(input[:cursor]) {
		if err != nil {
			break
		}

		switch tok.Kind {
		case lang.LParen:
			name := ""
			if prev.Kind == lang.Ident && prev.Lexeme != "" {
				name = prev.Lexeme
			}

			stack = append(stack, frame{name: name})

		case lang.RParen:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case lang.Comma:
			if len(stack) > 0 {
				stack[len(stack)-1].args++
			}
		}

		prev = tok
	}

	for _, f := range slices.Backward(stack) {
		if f.name != "" {
			return functionCall{name: f.name, argIndex: f.args, inCall: true}
		}
	}

	return functionCall{}
}

// renderSignatureHint renders the signature of fn with the parameter at
// argIndex emphasized. Every argument of a variadic function matches its
// single "..." parameter. Arguments past the end are flagged.
func renderSignatureHint(fn lang.Function, argIndex int) string {
	sig := fn.Signature()

	open := strings.IndexByte(sig, '(')
	if open < 0 || !strings.HasSuffix(sig, ")") {
		return signatureStyle.Render(sig)
	}

	var params []string
	if inner := sig[open+1 : len(sig)-1]; inner != "" {
		params = strings.Split(inner, ", ")
	}

	current := argIndex
	if fn.Arity == lang.Variadic {
		current = 0
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(fn.Name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == current {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if fn.Arity != lang.Variadic && len(params) > 0 && argIndex >= len(params) {
		b.WriteString(errorStyle.Render("  too many arguments"))
	}

	return b.String()
}
