package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// String renders e in canonical form: single spaces around infix operators
// and only the parentheses the grammar requires.
func (e *Expr) String() string {
	if e == nil || e.Root == nil {
		return ""
	}

	return e.Root.String()
}

// Format writes the canonical form of e followed by a newline.
func (e *Expr) Format(_ context.Context, w io.Writer) error {
	_, err := fmt.Fprintln(w, e.String())

	return err
}

// FormatJSON writes the tree of e as JSON to the writer.
func (e *Expr) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(e, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(e)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the tree of e as YAML to the writer.
func (e *Expr) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, e.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

func (n *Const) String() string {
	return FormatResult(n.Value)
}

func (n *Variable) String() string { return n.Name }

func (n *BinaryOp) String() string {
	var sb strings.Builder

	leftMin, rightMin := n.Op.Prec, n.Op.Prec+1
	if n.Op.Assoc == AssocRight {
		leftMin, rightMin = n.Op.Prec+1, n.Op.Prec
	}

	writeOperand(&sb, n.Left, leftMin)
	sb.WriteString(" " + n.Op.Symbol + " ")
	writeOperand(&sb, n.Right, rightMin)

	return sb.String()
}

func (n *UnaryOp) String() string {
	var sb strings.Builder

	sb.WriteString(n.Op.Symbol)
	writeOperand(&sb, n.Operand, precAtom)

	return sb.String()
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.String()
	}

	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

// writeOperand writes n, parenthesized if it binds looser than minPrec.
func writeOperand(sb *strings.Builder, n Node, minPrec int) {
	if precedence(n) < minPrec {
		sb.WriteString("(" + n.String() + ")")

		return
	}

	sb.WriteString(n.String())
}

// precedence returns the binding strength of the text rendered for n.
func precedence(n Node) int {
	switch n := n.(type) {
	case *BinaryOp:
		return n.Op.Prec

	case *UnaryOp:
		return n.Op.Prec

	case *Const:
		if strings.HasPrefix(n.String(), "-") {
			return precUnary
		}

		return precAtom

	default:
		return precAtom
	}
}

// MarshalJSON implements json.Marshaler for Expr.
func (e *Expr) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToMap())
}

// ToMap converts e to native Go maps and slices describing its tree.
func (e *Expr) ToMap() map[string]any {
	result := map[string]any{
		"source":   e.Source,
		"policy":   e.opts.policy.String(),
		"constant": e.IsConstant(),
	}

	if e.Root != nil {
		result["canonical"] = e.String()
		result["tree"] = nodeMap(e.Root)
	}

	if vars := e.Variables(); len(vars) > 0 {
		result["variables"] = vars
	}

	return result
}

func nodeMap(n Node) map[string]any {
	switch n := n.(type) {
	case *Const:
		return map[string]any{"const": n.Value}

	case *Variable:
		return map[string]any{"var": n.Name}

	case *BinaryOp:
		return map[string]any{
			"op":       n.Op.Symbol,
			"left":     nodeMap(n.Left),
			"right":    nodeMap(n.Right),
			"constant": n.IsConstant(),
		}

	case *UnaryOp:
		return map[string]any{
			"op":       n.Op.Symbol,
			"operand":  nodeMap(n.Operand),
			"constant": n.IsConstant(),
		}

	case *Call:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = nodeMap(arg)
		}

		return map[string]any{
			"call":     n.Name,
			"args":     args,
			"constant": n.IsConstant(),
		}

	default:
		return map[string]any{"unknown": fmt.Sprintf("%T", n)}
	}
}
