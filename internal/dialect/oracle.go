package dialect

import (
	"github.com/nlstn/go-sqltranslate/internal/rules"
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// spatialTolerance is the SDO_GEOM tolerance used for geodetic measurements
const spatialTolerance = 0.005

func oracleExtensions(rules.Config) []translate.Extension {
	return []translate.Extension{
		{Name: "oracle spatial", Position: translate.Append, Entries: spatialRules()},
		{Name: "oracle functions", Position: translate.Append, Entries: oracleFunctionRules()},
	}
}

func call(site translate.Site) *translate.CallSite {
	c, _ := site.(*translate.CallSite)
	return c
}

func argCount(n int) func(translate.Site) bool {
	return func(site translate.Site) bool {
		c, ok := site.(*translate.CallSite)
		return ok && len(c.Args) == n
	}
}

func withReceiver(n int) func(translate.Site) bool {
	return func(site translate.Site) bool {
		c, ok := site.(*translate.CallSite)
		return ok && c.Receiver != nil && len(c.Args) == n
	}
}

func tolerance() sqlexpr.Node {
	return sqlexpr.ConstOf(spatialTolerance, types.Float64)
}

func spatialRules() []translate.Entry {
	return []translate.Entry{
		rules.Guarded("geometry.Distance",
			[]translate.Key{translate.CallKey(types.Geometry, "Distance", types.Geometry)},
			withReceiver(1),
			func(site translate.Site) translate.Result {
				c := call(site)
				return translate.Translated(sqlexpr.Fn("SDO_GEOM.SDO_DISTANCE", types.Float64, c.Receiver, c.Args[0], tolerance()))
			}),
		rules.Guarded("geometry.Intersects",
			[]translate.Key{translate.CallKey(types.Geometry, "Intersects", types.Geometry)},
			withReceiver(1),
			func(site translate.Site) translate.Result {
				c := call(site)
				relate := sqlexpr.Fn("SDO_RELATE", types.String, c.Receiver, c.Args[0], sqlexpr.ConstOf("mask=ANYINTERACT", types.String))
				return translate.Translated(sqlexpr.Equal(relate, sqlexpr.ConstOf("TRUE", types.String)))
			}),
		rules.Guarded("geometry.Area",
			[]translate.Key{translate.MemberKey(types.Geometry, "Area")},
			func(site translate.Site) bool { return site.ReceiverNode() != nil },
			func(site translate.Site) translate.Result {
				return translate.Translated(sqlexpr.Fn("SDO_GEOM.SDO_AREA", types.Float64, site.ReceiverNode(), tolerance()))
			}),
	}
}

func oracleFunctionRules() []translate.Entry {
	return []translate.Entry{
		rules.Guarded("DbFunctions.Contains",
			[]translate.Key{translate.CallKey(types.DbFunctions, "Contains", types.String, types.String)},
			argCount(2),
			func(site translate.Site) translate.Result {
				c := call(site)
				score := sqlexpr.Fn("CONTAINS", types.Int32, c.Args[0], c.Args[1])
				return translate.Translated(sqlexpr.GreaterThan(score, sqlexpr.ConstOf(0, types.Int32)))
			}),
		rules.Guarded("DbFunctions.IsMatch",
			[]translate.Key{translate.CallKey(types.DbFunctions, "IsMatch", types.String, types.String)},
			argCount(2),
			func(site translate.Site) translate.Result {
				c := call(site)
				return translate.Translated(sqlexpr.Fn("REGEXP_LIKE", types.Bool, c.Args[0], c.Args[1]))
			}),
		rules.Guarded("guid.NewGuid",
			[]translate.Key{translate.CallKey(types.Guid, "NewGuid")},
			argCount(0),
			func(translate.Site) translate.Result {
				return translate.Translated(sqlexpr.FnWith("SYS_GUID", types.Guid, false, nil))
			}),
	}
}
