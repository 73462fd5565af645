package dialect

import (
	"github.com/nlstn/go-sqltranslate/internal/rules"
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

var sqliteTemporal = []types.Tag{types.DateTime, types.DateTimeOffset, types.Date}

func sqliteConfig() rules.Config {
	cfg := rules.OracleConfig()
	cfg.Convert = rules.NewConvertTable(
		map[types.Tag]string{
			types.Bool:    "INTEGER",
			types.Byte:    "INTEGER",
			types.Int16:   "INTEGER",
			types.Int32:   "INTEGER",
			types.Int64:   "INTEGER",
			types.Decimal: "NUMERIC",
			types.Float64: "REAL",
			types.String:  "TEXT",
		},
		[]types.Tag{
			types.Bool, types.Byte, types.Decimal, types.Float64, types.Float32,
			types.Int16, types.Int32, types.Int64, types.String,
		},
	)
	toString := make(map[types.Tag]string)
	for _, row := range cfg.ToString.Entries() {
		toString[row.Key] = "TEXT"
	}
	cfg.ToString = rules.NewTable(toString)
	cfg.Math = rules.NewTable(map[string]string{
		"Abs":   "ABS",
		"Round": "ROUND",
		"Sign":  "SIGN",
		"Max":   "MAX",
		"Min":   "MIN",
	})
	cfg.Clock = rules.Clock{
		Now:           "datetime('now', 'localtime')",
		UtcNow:        "datetime('now')",
		TimeZoneAware: true,
	}
	cfg.TimestampStoreType = "TEXT"
	cfg.TimeZoneStoreType = "TEXT"
	cfg.IntegerStoreType = "INTEGER"
	return cfg
}

// sqliteExtensions prepends strftime-based date rules over the shared
// EXTRACT/ADD_MONTHS rules and declines what SQLite cannot express.
func sqliteExtensions(rules.Config) []translate.Extension {
	return []translate.Extension{
		{Name: "sqlite dates", Position: translate.Prepend, Entries: sqliteDateRules()},
		{Name: "sqlite math", Position: translate.Prepend, Entries: sqliteMathRules()},
		{Name: "sqlite declines", Position: translate.Prepend, Entries: []translate.Entry{
			rules.Decline("DbFunctions.DateDiffMonth unsupported", translate.AnyCall(types.DbFunctions, "DateDiffMonth")),
		}},
		{Name: "sqlite functions", Position: translate.Append, Entries: sqliteFunctionRules()},
	}
}

func strftime(format string, operand sqlexpr.Node) sqlexpr.Node {
	return sqlexpr.CastTo(
		sqlexpr.Fn("STRFTIME", types.String, sqlexpr.ConstOf(format, types.String), operand),
		"INTEGER", types.Int32)
}

var sqliteParts = []struct {
	member string
	format string
	date   bool
}{
	{"Year", "%Y", true},
	{"Month", "%m", true},
	{"Day", "%d", true},
	{"Hour", "%H", false},
	{"Minute", "%M", false},
	{"Second", "%S", false},
	{"DayOfYear", "%j", true},
}

func sqliteDateRules() []translate.Entry {
	hasReceiver := func(site translate.Site) bool { return site.ReceiverNode() != nil }
	var out []translate.Entry

	for _, p := range sqliteParts {
		var keys []translate.Key
		for _, t := range sqliteTemporal {
			if t == types.Date && !p.date {
				continue
			}
			keys = append(keys, translate.MemberKey(t, p.member))
		}
		out = append(out, rules.Guarded("sqlite date."+p.member, keys, hasReceiver, func(site translate.Site) translate.Result {
			return translate.Translated(strftime(p.format, site.ReceiverNode()))
		}))
	}

	out = append(out,
		rules.Guarded("sqlite date.Date",
			[]translate.Key{translate.MemberKey(types.DateTime, "Date"), translate.MemberKey(types.DateTimeOffset, "Date")},
			hasReceiver,
			func(site translate.Site) translate.Result {
				r := site.ReceiverNode()
				return translate.Translated(sqlexpr.Fn("DATETIME", types.Unwrap(r.Type()), r, sqlexpr.ConstOf("start of day", types.String)))
			}),
		rules.Guarded("sqlite date.Today",
			[]translate.Key{translate.MemberKey(types.DateTime, "Today")},
			func(site translate.Site) bool { return site.ReceiverNode() == nil },
			func(translate.Site) translate.Result {
				return translate.Translated(sqlexpr.Fn("DATETIME", types.DateTime,
					sqlexpr.ConstOf("now", types.String),
					sqlexpr.ConstOf("localtime", types.String),
					sqlexpr.ConstOf("start of day", types.String)))
			}),
	)

	out = append(out, sqliteDateAddRules()...)
	out = append(out, sqliteDateDiffRules()...)
	return out
}

// sqliteAddMonths builds DATETIME(date, CAST(months AS TEXT) || ' months').
func sqliteAddMonths(date, months sqlexpr.Node) sqlexpr.Node {
	return sqliteModify(date, months, " months")
}

func sqliteModify(date, amount sqlexpr.Node, unit string) sqlexpr.Node {
	modifier := sqlexpr.Concat(sqlexpr.CastTo(amount, "TEXT", types.String), sqlexpr.ConstOf(unit, types.String))
	return sqlexpr.Fn("DATETIME", types.Unwrap(date.Type()), date, modifier)
}

func sqliteDateAddRules() []translate.Entry {
	anyOverload := func(method string) []translate.Key {
		keys := make([]translate.Key, len(sqliteTemporal))
		for i, t := range sqliteTemporal {
			keys[i] = translate.AnyCall(t, method)
		}
		return keys
	}
	out := []translate.Entry{
		rules.Guarded("sqlite date.AddMonths", anyOverload("AddMonths"), withReceiver(1), func(site translate.Site) translate.Result {
			c := call(site)
			return translate.Translated(sqliteAddMonths(c.Receiver, c.Args[0]))
		}),
		rules.Guarded("sqlite date.AddYears", anyOverload("AddYears"), withReceiver(1), func(site translate.Site) translate.Result {
			c := call(site)
			return translate.Translated(sqliteAddMonths(c.Receiver, sqlexpr.Multiply(c.Args[0], sqlexpr.ConstOf(12, types.Int32))))
		}),
	}
	for _, u := range []struct{ method, unit string }{
		{"AddDays", " days"},
		{"AddHours", " hours"},
		{"AddMinutes", " minutes"},
		{"AddSeconds", " seconds"},
	} {
		out = append(out, rules.Guarded("sqlite date."+u.method, anyOverload(u.method), withReceiver(1), func(site translate.Site) translate.Result {
			c := call(site)
			return translate.Translated(sqliteModify(c.Receiver, c.Args[0], u.unit))
		}))
	}
	out = append(out, rules.Guarded("sqlite date.AddMilliseconds", anyOverload("AddMilliseconds"), withReceiver(1), func(site translate.Site) translate.Result {
		c := call(site)
		seconds := sqlexpr.Divide(c.Args[0], sqlexpr.ConstOf(1000.0, types.Float64))
		return translate.Translated(sqliteModify(c.Receiver, seconds, " seconds"))
	}))
	return out
}

// epochSeconds reads a timestamp as whole seconds since the Unix epoch.
// Implicit conversions are truncated to the date first.
func epochSeconds(n sqlexpr.Node) sqlexpr.Node {
	if conv, ok := n.(*sqlexpr.Convert); ok {
		n = sqlexpr.Fn("DATE", types.Unwrap(conv.Type()), conv)
	}
	return sqlexpr.CastTo(
		sqlexpr.Fn("STRFTIME", types.String, sqlexpr.ConstOf("%s", types.String), n),
		"INTEGER", types.Int64)
}

// sqliteDateDiffRules derives every unit below a year from the elapsed whole
// seconds with truncating integer division.
func sqliteDateDiffRules() []translate.Entry {
	out := []translate.Entry{
		rules.Guarded("sqlite DbFunctions.DateDiffYear",
			[]translate.Key{translate.AnyCall(types.DbFunctions, "DateDiffYear")},
			rules.TemporalPair,
			func(site translate.Site) translate.Result {
				c := call(site)
				diff := sqlexpr.Subtract(strftime("%Y", c.Args[1]), strftime("%Y", c.Args[0]))
				return translate.Translated(sqlexpr.CastTo(diff, "INTEGER", rules.DiffType(c)))
			}),
	}
	for _, u := range []struct {
		method  string
		seconds int
	}{
		{"DateDiffDay", 86400},
		{"DateDiffHour", 3600},
		{"DateDiffMinute", 60},
		{"DateDiffSecond", 1},
	} {
		out = append(out, rules.Guarded("sqlite DbFunctions."+u.method,
			[]translate.Key{translate.AnyCall(types.DbFunctions, u.method)},
			rules.TemporalPair,
			func(site translate.Site) translate.Result {
				c := call(site)
				elapsed := sqlexpr.Subtract(epochSeconds(c.Args[1]), epochSeconds(c.Args[0]))
				if u.seconds != 1 {
					elapsed = sqlexpr.Divide(elapsed, sqlexpr.ConstOf(u.seconds, types.Int64))
				}
				return translate.Translated(sqlexpr.CastTo(elapsed, "INTEGER", rules.DiffType(c)))
			}))
	}
	return out
}

// sqliteMathRules builds CEIL and FLOOR from integer casts; the core SQLite
// build has no math functions.
func sqliteMathRules() []translate.Entry {
	round := func(up bool) func(translate.Site) translate.Result {
		return func(site translate.Site) translate.Result {
			c := call(site)
			x := c.Args[0]
			ret := c.ReturnType
			if ret == types.Invalid {
				ret = x.Type()
			}
			truncated := sqlexpr.CastTo(x, "INTEGER", types.Int64)
			one, zero := sqlexpr.ConstOf(1, types.Int32), sqlexpr.ConstOf(0, types.Int32)

			var adjust sqlexpr.Node
			if up {
				adjust = sqlexpr.Add(truncated, sqlexpr.CaseOf(
					[]sqlexpr.When{{Condition: sqlexpr.GreaterThan(x, zero), Result: one}}, zero))
			} else {
				adjust = sqlexpr.Subtract(truncated, sqlexpr.CaseOf(
					[]sqlexpr.When{{Condition: sqlexpr.LessThan(x, zero), Result: one}}, zero))
			}
			return translate.Translated(sqlexpr.CaseOf(
				[]sqlexpr.When{{Condition: sqlexpr.Equal(x, truncated), Result: sqlexpr.Implicit(x, ret)}},
				sqlexpr.Implicit(adjust, ret)))
		}
	}
	return []translate.Entry{
		rules.Guarded("sqlite Math.Ceiling", []translate.Key{translate.AnyCall(types.Math, "Ceiling")}, argCount(1), round(true)),
		rules.Guarded("sqlite Math.Floor", []translate.Key{translate.AnyCall(types.Math, "Floor")}, argCount(1), round(false)),
	}
}

func sqliteFunctionRules() []translate.Entry {
	return []translate.Entry{
		rules.Guarded("DbFunctions.Glob",
			[]translate.Key{translate.CallKey(types.DbFunctions, "Glob", types.String, types.String)},
			argCount(2),
			func(site translate.Site) translate.Result {
				c := call(site)
				return translate.Translated(sqlexpr.Fn("GLOB", types.Bool, c.Args[1], c.Args[0]))
			}),
		rules.Guarded("DbFunctions.Hex",
			[]translate.Key{translate.AnyCall(types.DbFunctions, "Hex")},
			argCount(1),
			func(site translate.Site) translate.Result {
				return translate.Translated(sqlexpr.Fn("HEX", types.String, call(site).Args[0]))
			}),
	}
}
