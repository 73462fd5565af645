package rules

import (
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// dateDiffMethods lists the DbFunctions date difference methods in unit order.
var dateDiffMethods = []string{
	"DateDiffYear", "DateDiffMonth", "DateDiffDay", "DateDiffHour", "DateDiffMinute", "DateDiffSecond",
}

// TemporalPair matches two-argument calls over temporal operands.
func TemporalPair(site translate.Site) bool {
	c, ok := asCall(site)
	if !ok || len(c.Args) != 2 {
		return false
	}
	for _, a := range c.Args {
		if a == nil || !a.Type().IsTemporal() {
			return false
		}
	}
	return true
}

// dateDiffRules translates DbFunctions.DateDiffXxx(start, end). Every unit
// below a day is derived from the day interval by repeated scaling, and the
// DAY field of the scaled interval is the whole number of target units.
func dateDiffRules(cfg Config) []translate.Entry {
	b := DiffBuilder{TimestampStoreType: cfg.TimestampStoreType, IntegerStoreType: cfg.IntegerStoreType}

	units := map[string]func(start, end sqlexpr.Node, ret types.Tag) sqlexpr.Node{
		"DateDiffYear":   b.Years,
		"DateDiffMonth":  b.Months,
		"DateDiffDay":    b.Days,
		"DateDiffHour":   b.Hours,
		"DateDiffMinute": b.Minutes,
		"DateDiffSecond": b.Seconds,
	}

	out := make([]translate.Entry, 0, len(dateDiffMethods))
	for _, method := range dateDiffMethods {
		build := units[method]
		out = append(out, entry("DbFunctions."+method,
			[]translate.Key{translate.AnyCall(types.DbFunctions, method)},
			TemporalPair,
			func(site translate.Site) translate.Result {
				c, _ := asCall(site)
				return translate.Translated(build(c.Args[0], c.Args[1], DiffType(c)))
			}))
	}
	return out
}

// DiffType is the declared return type, or int32 (nullable when an operand is).
func DiffType(c *translate.CallSite) types.Tag {
	if c.ReturnType != types.Invalid {
		return c.ReturnType
	}
	for _, a := range c.Args {
		if a.Type().IsNullable() {
			return types.Nullable(types.Int32)
		}
	}
	return types.Int32
}

// DiffBuilder composes date difference expressions in the Oracle style
type DiffBuilder struct {
	TimestampStoreType string
	IntegerStoreType   string
}

// Years subtracts calendar years; elapsed time is ignored.
func (b DiffBuilder) Years(start, end sqlexpr.Node, ret types.Tag) sqlexpr.Node {
	diff := sqlexpr.Subtract(Extract("YEAR", end, types.Int32), Extract("YEAR", start, types.Int32))
	return sqlexpr.CastTo(diff, b.IntegerStoreType, ret)
}

// Months truncates MONTHS_BETWEEN toward zero.
func (b DiffBuilder) Months(start, end sqlexpr.Node, ret types.Tag) sqlexpr.Node {
	return sqlexpr.Fn("TRUNC", ret, sqlexpr.Fn("MONTHS_BETWEEN", types.Float64, end, start))
}

// DayInterval is end - start as an interval of timestamps. Operands that are
// implicit conversions are truncated to midnight first.
func (b DiffBuilder) DayInterval(start, end sqlexpr.Node) sqlexpr.Node {
	return sqlexpr.Subtract(b.timestamp(end), b.timestamp(start))
}

func (b DiffBuilder) timestamp(n sqlexpr.Node) sqlexpr.Node {
	if conv, ok := n.(*sqlexpr.Convert); ok {
		n = sqlexpr.Fn("TRUNC", types.Unwrap(conv.Type()), conv)
	}
	return sqlexpr.CastTo(n, b.TimestampStoreType, types.DateTime)
}

func (b DiffBuilder) Days(start, end sqlexpr.Node, ret types.Tag) sqlexpr.Node {
	return Extract("DAY", b.DayInterval(start, end), ret)
}

func (b DiffBuilder) Hours(start, end sqlexpr.Node, ret types.Tag) sqlexpr.Node {
	return Extract("DAY", b.hourInterval(start, end), ret)
}

func (b DiffBuilder) Minutes(start, end sqlexpr.Node, ret types.Tag) sqlexpr.Node {
	return Extract("DAY", b.minuteInterval(start, end), ret)
}

func (b DiffBuilder) Seconds(start, end sqlexpr.Node, ret types.Tag) sqlexpr.Node {
	return Extract("DAY", sqlexpr.Multiply(b.minuteInterval(start, end), i32(60)), ret)
}

func (b DiffBuilder) hourInterval(start, end sqlexpr.Node) sqlexpr.Node {
	return sqlexpr.Multiply(b.DayInterval(start, end), i32(24))
}

func (b DiffBuilder) minuteInterval(start, end sqlexpr.Node) sqlexpr.Node {
	return sqlexpr.Multiply(b.hourInterval(start, end), i32(60))
}
