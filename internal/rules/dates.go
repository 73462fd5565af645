package rules

import (
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

var temporalTypes = []types.Tag{types.DateTime, types.DateTimeOffset, types.Date}

// Extract builds EXTRACT(part FROM operand).
func Extract(part string, operand sqlexpr.Node, ret types.Tag) *sqlexpr.FunctionCall {
	return sqlexpr.Fn("EXTRACT", ret, sqlexpr.Frag(part, types.String), operand)
}

// dateMemberRules translates component reads, .Date and the clock members.
func dateMemberRules(cfg Config) []translate.Entry {
	var out []translate.Entry
	for _, row := range cfg.DateParts.Entries() {
		part := row.Token
		keys := make([]translate.Key, 0, len(temporalTypes))
		for _, t := range temporalTypes {
			if t == types.Date && isTimeOfDay(row.Key) {
				continue
			}
			keys = append(keys, translate.MemberKey(t, row.Key))
		}
		out = append(out, entry("date."+row.Key, keys, hasReceiver, func(site translate.Site) translate.Result {
			m, _ := asMember(site)
			return translate.Translated(Extract(part, m.Receiver, resultType(m.DeclaredType, types.Int32)))
		}))
	}

	out = append(out,
		entry("date.DayOfYear", memberKeys("DayOfYear", temporalTypes...), hasReceiver, func(site translate.Site) translate.Result {
			r := site.ReceiverNode()
			return translate.Translated(sqlexpr.Fn("TO_NUMBER", types.Int32, sqlexpr.Fn("TO_CHAR", types.String, r, str("DDD"))))
		}),
		entry("date.Date", memberKeys("Date", types.DateTime, types.DateTimeOffset), hasReceiver, func(site translate.Site) translate.Result {
			m, _ := asMember(site)
			return translate.Translated(sqlexpr.Fn("TRUNC", types.Unwrap(m.Receiver.Type()), m.Receiver))
		}),
	)

	out = append(out, clockRules(cfg)...)
	return out
}

func isTimeOfDay(member string) bool {
	return member == "Hour" || member == "Minute" || member == "Second"
}

func memberKeys(member string, declaring ...types.Tag) []translate.Key {
	keys := make([]translate.Key, len(declaring))
	for i, t := range declaring {
		keys[i] = translate.MemberKey(t, member)
	}
	return keys
}

// clockRules translates the static Now, UtcNow and Today members.
func clockRules(cfg Config) []translate.Entry {
	static := func(site translate.Site) bool { return site.ReceiverNode() == nil }

	clock := func(text string) translateFunc {
		return func(site translate.Site) translate.Result {
			m, _ := asMember(site)
			return translate.Translated(clockValue(cfg, text, resultType(m.DeclaredType, m.DeclaringType)))
		}
	}

	return []translate.Entry{
		entry("date.Now", memberKeys("Now", types.DateTime, types.DateTimeOffset), static, clock(cfg.Clock.Now)),
		entry("date.UtcNow", memberKeys("UtcNow", types.DateTime, types.DateTimeOffset), static, clock(cfg.Clock.UtcNow)),
		entry("date.Today", memberKeys("Today", types.DateTime), static, func(translate.Site) translate.Result {
			return translate.Translated(sqlexpr.Fn("TRUNC", types.DateTime, sqlexpr.Frag(cfg.Clock.Now, types.DateTime)))
		}),
	}
}

// clockValue wraps a clock fragment in a time-zone cast when the declared
// type carries an offset the fragment lacks.
func clockValue(cfg Config, text string, declared types.Tag) sqlexpr.Node {
	frag := sqlexpr.Frag(text, types.Unwrap(declared))
	if declared.HasTimeZone() && !cfg.Clock.TimeZoneAware {
		return sqlexpr.CastTo(frag, cfg.TimeZoneStoreType, types.Unwrap(declared))
	}
	return frag
}

// AddMonths builds ADD_MONTHS(date, months).
func AddMonths(date, months sqlexpr.Node) *sqlexpr.FunctionCall {
	return sqlexpr.Fn("ADD_MONTHS", types.Unwrap(date.Type()), date, months)
}

// AddYears reuses AddMonths with the offset scaled to months.
func AddYears(date, years sqlexpr.Node) *sqlexpr.FunctionCall {
	return AddMonths(date, sqlexpr.Multiply(years, i32(12)))
}

var intervalUnits = []struct {
	method  string
	unit    string
	divisor int
}{
	{"AddDays", "DAY", 1},
	{"AddHours", "HOUR", 1},
	{"AddMinutes", "MINUTE", 1},
	{"AddSeconds", "SECOND", 1},
	{"AddMilliseconds", "SECOND", 1000},
}

// dateAddRules translates AddYears, AddMonths and the interval-based Add methods.
func dateAddRules() []translate.Entry {
	unary := all(hasReceiver, argCount(1))
	anyOverload := func(method string) []translate.Key {
		keys := make([]translate.Key, len(temporalTypes))
		for i, t := range temporalTypes {
			keys[i] = translate.AnyCall(t, method)
		}
		return keys
	}

	out := []translate.Entry{
		entry("date.AddMonths", anyOverload("AddMonths"), unary, func(site translate.Site) translate.Result {
			c, _ := asCall(site)
			return translate.Translated(AddMonths(c.Receiver, c.Args[0]))
		}),
		entry("date.AddYears", anyOverload("AddYears"), unary, func(site translate.Site) translate.Result {
			c, _ := asCall(site)
			return translate.Translated(AddYears(c.Receiver, c.Args[0]))
		}),
	}

	for _, u := range intervalUnits {
		out = append(out, entry("date."+u.method, anyOverload(u.method), unary, func(site translate.Site) translate.Result {
			c, _ := asCall(site)
			amount := c.Args[0]
			if u.divisor != 1 {
				amount = sqlexpr.Divide(amount, i32(u.divisor))
			}
			interval := sqlexpr.Fn("NUMTODSINTERVAL", types.TimeSpan, amount, str(u.unit))
			return translate.Translated(sqlexpr.Add(c.Receiver, interval))
		}))
	}
	return out
}
