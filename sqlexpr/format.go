package sqlexpr

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Format renders n as deterministic, SQL-like debug text. Structurally equal
// trees always format identically.
func Format(n Node) string {
	var sb strings.Builder
	write(&sb, n)
	return sb.String()
}

// Hash returns a hash consistent with DeepEqual.
func Hash(n Node) uint64 {
	d := xxhash.New()
	write(d, n)
	return d.Sum64()
}

func write(w io.StringWriter, n Node) {
	switch n := n.(type) {
	case nil:
		_, _ = w.WriteString("<nil>")
	case *FunctionCall:
		_, _ = w.WriteString(n.Name)
		_, _ = w.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				_, _ = w.WriteString(", ")
			}
			write(w, a)
		}
		_, _ = w.WriteString(")")
	case *Fragment:
		_, _ = w.WriteString(n.Text)
	case *Cast:
		_, _ = w.WriteString("CAST(")
		write(w, n.Operand)
		_, _ = w.WriteString(" AS " + n.StoreType + ")")
	case *Convert:
		_, _ = w.WriteString("convert<" + string(n.TargetType) + ">(")
		write(w, n.Operand)
		_, _ = w.WriteString(")")
	case *NullCompensated:
		_, _ = w.WriteString("compensate(")
		write(w, n.Operand)
		_, _ = w.WriteString(")")
	case *Like:
		_, _ = w.WriteString("(")
		write(w, n.Subject)
		_, _ = w.WriteString(" LIKE ")
		write(w, n.Pattern)
		if n.Escape != nil {
			_, _ = w.WriteString(" ESCAPE ")
			write(w, n.Escape)
		}
		_, _ = w.WriteString(")")
	case *Case:
		_, _ = w.WriteString("CASE")
		for _, when := range n.Whens {
			_, _ = w.WriteString(" WHEN ")
			write(w, when.Condition)
			_, _ = w.WriteString(" THEN ")
			write(w, when.Result)
		}
		if n.Else != nil {
			_, _ = w.WriteString(" ELSE ")
			write(w, n.Else)
		}
		_, _ = w.WriteString(" END")
	case *Constant:
		_, _ = w.WriteString(FormatValue(n.Value))
	case *Parameter:
		_, _ = w.WriteString("@" + n.Name)
	case *Column:
		if n.Table != "" {
			_, _ = w.WriteString(n.Table + ".")
		}
		_, _ = w.WriteString(n.Name)
	case *Binary:
		_, _ = w.WriteString("(")
		write(w, n.Left)
		_, _ = w.WriteString(" " + string(n.Op) + " ")
		write(w, n.Right)
		_, _ = w.WriteString(")")
	case *Unary:
		switch n.Op {
		case OpIsNull, OpIsNotNull:
			_, _ = w.WriteString("(")
			write(w, n.Operand)
			_, _ = w.WriteString(" " + string(n.Op) + ")")
		case OpNot:
			_, _ = w.WriteString("(NOT ")
			write(w, n.Operand)
			_, _ = w.WriteString(")")
		default:
			_, _ = w.WriteString("(" + string(n.Op))
			write(w, n.Operand)
			_, _ = w.WriteString(")")
		}
	case *ClientEval:
		_, _ = w.WriteString("client(" + n.Description + ")")
	default:
		_, _ = w.WriteString(fmt.Sprintf("<%T>", n))
	}
}

// FormatValue renders a constant value as SQL-like literal text.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case []rune:
		parts := make([]string, len(v))
		for i, r := range v {
			parts[i] = strconv.QuoteRune(r)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []byte:
		return "X'" + strings.ToUpper(hex.EncodeToString(v)) + "'"
	case decimal.Decimal:
		return v.String()
	case uuid.UUID:
		return "'" + v.String() + "'"
	case time.Time:
		return "TIMESTAMP '" + v.UTC().Format("2006-01-02 15:04:05.999999999Z07:00") + "'"
	case time.Duration:
		return "INTERVAL '" + v.String() + "'"
	default:
		return fmt.Sprintf("%v", v)
	}
}
