package dialect

import (
	"github.com/nlstn/go-sqltranslate/internal/rules"
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// XuGu shares the Oracle tables and adds its own DbFunctions.
func xuguExtensions(cfg rules.Config) []translate.Extension {
	diff := rules.DiffBuilder{TimestampStoreType: cfg.TimestampStoreType, IntegerStoreType: cfg.IntegerStoreType}

	numeric := func(name string) func(translate.Site) translate.Result {
		return func(site translate.Site) translate.Result {
			c := call(site)
			return translate.Translated(sqlexpr.Fn(name, types.Float64, c.Args[0]))
		}
	}

	entries := []translate.Entry{
		rules.Guarded("DbFunctions.DateDiffQuarter",
			[]translate.Key{translate.AnyCall(types.DbFunctions, "DateDiffQuarter")},
			rules.TemporalPair,
			func(site translate.Site) translate.Result {
				c := call(site)
				months := sqlexpr.Fn("MONTHS_BETWEEN", types.Float64, c.Args[1], c.Args[0])
				return translate.Translated(sqlexpr.Fn("TRUNC", rules.DiffType(c), sqlexpr.Divide(months, sqlexpr.ConstOf(3, types.Int32))))
			}),
		rules.Guarded("DbFunctions.DateDiffWeek",
			[]translate.Key{translate.AnyCall(types.DbFunctions, "DateDiffWeek")},
			rules.TemporalPair,
			func(site translate.Site) translate.Result {
				c := call(site)
				days := diff.Days(c.Args[0], c.Args[1], types.Int32)
				return translate.Translated(sqlexpr.Fn("TRUNC", rules.DiffType(c), sqlexpr.Divide(days, sqlexpr.ConstOf(7, types.Int32))))
			}),
		rules.Guarded("DbFunctions.Hex",
			[]translate.Key{translate.AnyCall(types.DbFunctions, "Hex")},
			argCount(1),
			func(site translate.Site) translate.Result {
				return translate.Translated(sqlexpr.Fn("HEX", types.String, call(site).Args[0]))
			}),
		rules.Guarded("DbFunctions.Unhex",
			[]translate.Key{translate.CallKey(types.DbFunctions, "Unhex", types.String)},
			argCount(1),
			func(site translate.Site) translate.Result {
				return translate.Translated(sqlexpr.Fn("UNHEX", types.String, call(site).Args[0]))
			}),
		rules.Guarded("DbFunctions.Degrees", []translate.Key{translate.AnyCall(types.DbFunctions, "Degrees")}, argCount(1), numeric("DEGREES")),
		rules.Guarded("DbFunctions.Radians", []translate.Key{translate.AnyCall(types.DbFunctions, "Radians")}, argCount(1), numeric("RADIANS")),
		rules.Guarded("DbFunctions.IsMatch",
			[]translate.Key{translate.CallKey(types.DbFunctions, "IsMatch", types.String, types.String)},
			argCount(2),
			func(site translate.Site) translate.Result {
				c := call(site)
				return translate.Translated(sqlexpr.Fn("REGEXP_LIKE", types.Bool, c.Args[0], c.Args[1]))
			}),
	}
	return []translate.Extension{{Name: "xugu functions", Position: translate.Append, Entries: entries}}
}
