package ast

import "strings"

// Print renders an Expression back to FEEL source text. It is the canonical
// pretty-printer referenced by spec.md §8's round-trip property:
// parse(Print(ast)) must reproduce an equivalent ast. Print is total over
// every node this package defines.
func Print(e Expression) string {
	var sb strings.Builder
	write(&sb, e)
	return sb.String()
}

func write(sb *strings.Builder, e Expression) {
	switch n := e.(type) {
	case nil:
		sb.WriteString("null")
	case *NullLiteral:
		sb.WriteString("null")
	case *BoolLiteral:
		if n.Value {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case *NumberLiteral:
		sb.WriteString(n.Value)
	case *StringLiteral:
		sb.WriteByte('"')
		sb.WriteString(escapeString(n.Value))
		sb.WriteByte('"')
	case *InputValue:
		sb.WriteByte('?')
	case *Ref:
		sb.WriteString(quoteIfNeeded(n.Name))
	case *ListLiteral:
		sb.WriteByte('[')
		for i, el := range n.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			write(sb, el)
		}
		sb.WriteByte(']')
	case *ContextLiteral:
		sb.WriteByte('{')
		for i, entry := range n.Entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(entry.Key)
			sb.WriteString(": ")
			write(sb, entry.Value)
		}
		sb.WriteByte('}')
	case *UnaryMinus:
		sb.WriteByte('-')
		write(sb, n.Operand)
	case *BinaryOp:
		write(sb, n.Left)
		sb.WriteByte(' ')
		sb.WriteString(n.Op)
		sb.WriteByte(' ')
		write(sb, n.Right)
	case *Between:
		write(sb, n.Value)
		sb.WriteString(" between ")
		write(sb, n.Lower)
		sb.WriteString(" and ")
		write(sb, n.Upper)
	case *InstanceOf:
		write(sb, n.Value)
		sb.WriteString(" instance of ")
		sb.WriteString(n.TypeName)
	case *InExpr:
		write(sb, n.Value)
		sb.WriteString(" in ")
		writeTests(sb, n.Tests)
	case *IfExpr:
		sb.WriteString("if ")
		write(sb, n.Cond)
		sb.WriteString(" then ")
		write(sb, n.Then)
		sb.WriteString(" else ")
		write(sb, n.Else)
	case *ForExpr:
		sb.WriteString("for ")
		writeIterators(sb, n.Iterators)
		sb.WriteString(" return ")
		write(sb, n.Body)
	case *QuantExpr:
		if n.Kind == QuantSome {
			sb.WriteString("some ")
		} else {
			sb.WriteString("every ")
		}
		writeIterators(sb, n.Iterators)
		sb.WriteString(" satisfies ")
		write(sb, n.Satisfies)
	case *FunctionDefinition:
		sb.WriteString("function(")
		sb.WriteString(strings.Join(n.Params, ", "))
		sb.WriteString(") ")
		write(sb, n.Body)
	case *FunctionInvocation:
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		writeArgs(sb, n.Args)
		sb.WriteByte(')')
	case *QualifiedFunctionInvocation:
		write(sb, n.Target)
		sb.WriteByte('.')
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		writeArgs(sb, n.Args)
		sb.WriteByte(')')
	case *PathExpression:
		write(sb, n.Source)
		sb.WriteByte('.')
		sb.WriteString(n.Name)
	case *FilterExpression:
		write(sb, n.Source)
		sb.WriteByte('[')
		write(sb, n.Predicate)
		sb.WriteByte(']')
	case *RangeLiteral:
		writeRange(sb, n)
	case *AnyTest:
		sb.WriteByte('-')
	case *InputCompare:
		if n.Op != "=" {
			sb.WriteString(n.Op)
			sb.WriteByte(' ')
		}
		write(sb, n.Value)
	case *InputInRange:
		writeRange(sb, n.Range)
	case *UnaryTestExpression:
		write(sb, n.Expr)
	case *AtLeastOne:
		writeTests(sb, n.Tests)
	case *Not:
		sb.WriteString("not(")
		writeTests(sb, n.Tests)
		sb.WriteByte(')')
	default:
		sb.WriteString("<?>")
	}
}

func writeRange(sb *strings.Builder, r *RangeLiteral) {
	if r.LowerClosed {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	write(sb, r.Lower)
	sb.WriteString("..")
	write(sb, r.Upper)
	if r.UpperClosed {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
}

func writeIterators(sb *strings.Builder, its []Iterator) {
	for i, it := range its {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(it.Name)
		sb.WriteString(" in ")
		write(sb, it.Source)
	}
}

func writeArgs(sb *strings.Builder, args []Arg) {
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if a.Name != "" {
			sb.WriteString(a.Name)
			sb.WriteString(": ")
		}
		write(sb, a.Value)
	}
}

func writeTests(sb *strings.Builder, tests []Expression) {
	for i, t := range tests {
		if i > 0 {
			sb.WriteString(", ")
		}
		write(sb, t)
	}
}

func quoteIfNeeded(name string) string {
	for _, r := range name {
		if r == ' ' {
			return "`" + name + "`"
		}
	}
	return name
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}
