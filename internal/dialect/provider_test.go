package dialect

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlstn/go-sqltranslate/internal/rules"
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

var (
	ordered  = sqlexpr.Col("o", "OrderDate", types.DateTime)
	shipped  = sqlexpr.Col("o", "ShippedDate", types.DateTime)
	location = sqlexpr.Col("s", "Location", types.Geometry)
	area     = sqlexpr.Col("s", "Area", types.Geometry)
	price    = sqlexpr.Col("p", "Price", types.Decimal)
	title    = sqlexpr.Col("b", "Title", types.String)
)

func provider(t *testing.T, name string, extra ...translate.Extension) *Provider {
	t.Helper()
	p, err := New(name, extra...)
	require.NoError(t, err)
	return p
}

func translated(t *testing.T, p *Provider, site translate.Site) sqlexpr.Node {
	t.Helper()
	res := p.Translate(site)
	require.True(t, res.OK(), "%s: %s (%s)", res.Site(), res.Reason(), res.Detail())
	return res.Node()
}

func requireTree(t *testing.T, want, got sqlexpr.Node) {
	t.Helper()
	require.True(t, sqlexpr.DeepEqual(want, got), "want %s\n got %s", sqlexpr.Format(want), sqlexpr.Format(got))
}

func dbCall(method string, params []types.Tag, args ...sqlexpr.Node) *translate.CallSite {
	return translate.NewCallSite(types.DbFunctions, method, params, nil, args, types.Invalid)
}

func TestNewUnknownDialect(t *testing.T) {
	_, err := New("db2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownDialect))
	assert.Contains(t, err.Error(), "oracle, sqlite, xugu")
}

func TestNewIsCaseInsensitive(t *testing.T) {
	p := provider(t, "Oracle")
	assert.Equal(t, Oracle, p.Name())
	assert.Equal(t, "oracle", p.Flavor())
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{Oracle, SQLite, XuGu}, List())
}

func TestProvidersShareBuiltins(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			p := provider(t, name)
			site := translate.NewCallSite(types.String, "ToUpper", nil, title, nil, types.Invalid)
			requireTree(t, sqlexpr.Fn("UPPER", types.String, title), translated(t, p, site))
		})
	}
}

func TestProvidersAreIndependent(t *testing.T) {
	a := provider(t, Oracle)
	b := provider(t, Oracle)
	assert.NotSame(t, a.Registry(), b.Registry())
	assert.Equal(t, a.Registry().Len(), b.Registry().Len())
}

func TestAssemblyOrderIsStable(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			want := provider(t, name).Registry().Describe()
			for range 20 {
				require.Equal(t, want, provider(t, name).Registry().Describe())
			}
		})
	}
}

func TestSQLiteDateAddOrder(t *testing.T) {
	var names []string
	for _, e := range provider(t, SQLite).Registry().Entries() {
		if strings.HasPrefix(e.Name, "sqlite date.Add") {
			names = append(names, e.Name)
		}
	}
	assert.Equal(t, []string{
		"sqlite date.AddMonths", "sqlite date.AddYears", "sqlite date.AddDays", "sqlite date.AddHours",
		"sqlite date.AddMinutes", "sqlite date.AddSeconds", "sqlite date.AddMilliseconds",
	}, names)
}

func TestOracleSpatial(t *testing.T) {
	p := provider(t, Oracle)

	distance := translate.NewCallSite(types.Geometry, "Distance", []types.Tag{types.Geometry}, location, []sqlexpr.Node{area}, types.Invalid)
	requireTree(t,
		sqlexpr.Fn("SDO_GEOM.SDO_DISTANCE", types.Float64, location, area, sqlexpr.ConstOf(0.005, types.Float64)),
		translated(t, p, distance))

	intersects := translate.NewCallSite(types.Geometry, "Intersects", []types.Tag{types.Geometry}, location, []sqlexpr.Node{area}, types.Invalid)
	want := sqlexpr.Equal(
		sqlexpr.Fn("SDO_RELATE", types.String, location, area, sqlexpr.ConstOf("mask=ANYINTERACT", types.String)),
		sqlexpr.ConstOf("TRUE", types.String))
	requireTree(t, want, translated(t, p, intersects))

	member := translate.NewMemberSite(types.Geometry, "Area", location, types.Float64)
	requireTree(t,
		sqlexpr.Fn("SDO_GEOM.SDO_AREA", types.Float64, location, sqlexpr.ConstOf(0.005, types.Float64)),
		translated(t, p, member))
}

func TestOracleFunctions(t *testing.T) {
	p := provider(t, Oracle)
	q := sqlexpr.Param("q", types.String)

	contains := dbCall("Contains", []types.Tag{types.String, types.String}, title, q)
	requireTree(t,
		sqlexpr.GreaterThan(sqlexpr.Fn("CONTAINS", types.Int32, title, q), sqlexpr.ConstOf(0, types.Int32)),
		translated(t, p, contains))

	guid := translate.NewCallSite(types.Guid, "NewGuid", nil, nil, nil, types.Invalid)
	node := translated(t, p, guid)
	fn, ok := node.(*sqlexpr.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "SYS_GUID", fn.Name)
	assert.False(t, fn.Nullable)
}

func TestOracleDoesNotKnowXuGuFunctions(t *testing.T) {
	res := provider(t, Oracle).Translate(dbCall("Hex", []types.Tag{types.String}, title))
	assert.Equal(t, translate.ReasonNoRule, res.Reason())
	assert.ErrorIs(t, res.Err(), translate.ErrNotTranslatable)
}

func TestXuGuFunctions(t *testing.T) {
	p := provider(t, XuGu)
	pair := []types.Tag{types.DateTime, types.DateTime}

	quarter := translated(t, p, dbCall("DateDiffQuarter", pair, ordered, shipped))
	months := sqlexpr.Fn("MONTHS_BETWEEN", types.Float64, shipped, ordered)
	requireTree(t, sqlexpr.Fn("TRUNC", types.Int32, sqlexpr.Divide(months, sqlexpr.ConstOf(3, types.Int32))), quarter)

	week := translated(t, p, dbCall("DateDiffWeek", pair, ordered, shipped))
	diff := rules.DiffBuilder{TimestampStoreType: "TIMESTAMP", IntegerStoreType: "NUMBER(10)"}
	days := diff.Days(ordered, shipped, types.Int32)
	requireTree(t, sqlexpr.Fn("TRUNC", types.Int32, sqlexpr.Divide(days, sqlexpr.ConstOf(7, types.Int32))), week)

	requireTree(t, sqlexpr.Fn("HEX", types.String, title), translated(t, p, dbCall("Hex", []types.Tag{types.String}, title)))
	requireTree(t, sqlexpr.Fn("RADIANS", types.Float64, price), translated(t, p, dbCall("Radians", []types.Tag{types.Decimal}, price)))
}

func TestXuGuKeepsOracleDateDiff(t *testing.T) {
	xugu := translated(t, provider(t, XuGu), dbCall("DateDiffDay", []types.Tag{types.DateTime, types.DateTime}, ordered, shipped))
	oracle := translated(t, provider(t, Oracle), dbCall("DateDiffDay", []types.Tag{types.DateTime, types.DateTime}, ordered, shipped))
	requireTree(t, oracle, xugu)
}

func TestSQLiteDateMembers(t *testing.T) {
	p := provider(t, SQLite)
	tests := []struct {
		member string
		format string
	}{
		{"Year", "%Y"},
		{"Month", "%m"},
		{"Day", "%d"},
		{"Hour", "%H"},
		{"Minute", "%M"},
		{"Second", "%S"},
		{"DayOfYear", "%j"},
	}
	for _, tt := range tests {
		t.Run(tt.member, func(t *testing.T) {
			got := translated(t, p, translate.NewMemberSite(types.DateTime, tt.member, ordered, types.Int32))
			requireTree(t, strftime(tt.format, ordered), got)
		})
	}
}

func TestSQLiteDateOnlyHasNoTimeOfDay(t *testing.T) {
	d := sqlexpr.Col("e", "Birthday", types.Date)
	res := provider(t, SQLite).Translate(translate.NewMemberSite(types.Date, "Hour", d, types.Int32))
	assert.Equal(t, translate.ReasonNoRule, res.Reason())
}

func TestSQLiteClock(t *testing.T) {
	p := provider(t, SQLite)
	now := translated(t, p, translate.NewMemberSite(types.DateTimeOffset, "UtcNow", nil, types.DateTimeOffset))
	requireTree(t, sqlexpr.Frag("datetime('now')", types.DateTimeOffset), now)

	today := translated(t, p, translate.NewMemberSite(types.DateTime, "Today", nil, types.DateTime))
	fn, ok := today.(*sqlexpr.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "DATETIME", fn.Name)
	assert.Len(t, fn.Args, 3)
}

func TestSQLiteDateAdd(t *testing.T) {
	p := provider(t, SQLite)
	n := sqlexpr.Param("n", types.Int32)

	years := translated(t, p, translate.NewCallSite(types.DateTime, "AddYears", []types.Tag{types.Int32}, ordered, []sqlexpr.Node{n}, types.Invalid))
	requireTree(t, sqliteAddMonths(ordered, sqlexpr.Multiply(n, sqlexpr.ConstOf(12, types.Int32))), years)

	days := translated(t, p, translate.NewCallSite(types.DateTime, "AddDays", []types.Tag{types.Float64}, ordered, []sqlexpr.Node{n}, types.Invalid))
	want := sqlexpr.Fn("DATETIME", types.DateTime, ordered,
		sqlexpr.Concat(sqlexpr.CastTo(n, "TEXT", types.String), sqlexpr.ConstOf(" days", types.String)))
	requireTree(t, want, days)
}

func TestSQLiteDateDiff(t *testing.T) {
	p := provider(t, SQLite)
	pair := []types.Tag{types.DateTime, types.DateTime}

	hours := translated(t, p, dbCall("DateDiffHour", pair, ordered, shipped))
	elapsed := sqlexpr.Subtract(epochSeconds(shipped), epochSeconds(ordered))
	want := sqlexpr.CastTo(sqlexpr.Divide(elapsed, sqlexpr.ConstOf(3600, types.Int64)), "INTEGER", types.Int32)
	requireTree(t, want, hours)

	seconds := translated(t, p, dbCall("DateDiffSecond", pair, ordered, shipped))
	requireTree(t, sqlexpr.CastTo(elapsed, "INTEGER", types.Int32), seconds)

	res := p.Translate(dbCall("DateDiffMonth", pair, ordered, shipped))
	assert.False(t, res.OK())
	assert.Equal(t, translate.ReasonUnsupportedByDialect, res.Reason())
}

func TestSQLiteDateDiffTruncatesConversions(t *testing.T) {
	conv := sqlexpr.Implicit(sqlexpr.Col("e", "Birthday", types.Date), types.DateTime)
	node := epochSeconds(conv)
	var found bool
	sqlexpr.Inspect(node, func(n sqlexpr.Node) bool {
		if fn, ok := n.(*sqlexpr.FunctionCall); ok && fn.Name == "DATE" {
			found = true
		}
		return true
	})
	assert.True(t, found)
}

func TestSQLiteMath(t *testing.T) {
	p := provider(t, SQLite)
	ceil := translated(t, p, translate.NewCallSite(types.Math, "Ceiling", []types.Tag{types.Decimal}, nil, []sqlexpr.Node{price}, types.Invalid))
	c, ok := ceil.(*sqlexpr.Case)
	require.True(t, ok, "got %s", sqlexpr.Format(ceil))
	assert.Len(t, c.Whens, 1)
	assert.Equal(t, types.Decimal, c.Type())

	abs := translated(t, p, translate.NewCallSite(types.Math, "Abs", []types.Tag{types.Decimal}, nil, []sqlexpr.Node{price}, types.Invalid))
	requireTree(t, sqlexpr.Fn("ABS", types.Decimal, price), abs)

	res := p.Translate(translate.NewCallSite(types.Math, "Sqrt", []types.Tag{types.Float64}, nil, []sqlexpr.Node{price}, types.Invalid))
	assert.Equal(t, translate.ReasonNoRule, res.Reason())
}

func TestSQLiteConvert(t *testing.T) {
	p := provider(t, SQLite)
	s := sqlexpr.Param("s", types.String)
	got := translated(t, p, translate.NewCallSite(types.Convert, "ToInt32", []types.Tag{types.String}, nil, []sqlexpr.Node{s}, types.Invalid))
	requireTree(t, sqlexpr.CastTo(s, "INTEGER", types.Int32), got)

	str := translated(t, p, translate.NewCallSite(types.Int32, "ToString", nil, sqlexpr.Param("i", types.Int32), nil, types.Invalid))
	cast, ok := str.(*sqlexpr.Cast)
	require.True(t, ok)
	assert.Equal(t, "TEXT", cast.StoreType)
}

func TestSQLiteGlob(t *testing.T) {
	p := provider(t, SQLite)
	pat := sqlexpr.ConstOf("*.go", types.String)
	got := translated(t, p, dbCall("Glob", []types.Tag{types.String, types.String}, title, pat))
	requireTree(t, sqlexpr.Fn("GLOB", types.Bool, pat, title), got)
}

func TestExtraExtensionsComeLast(t *testing.T) {
	custom := translate.Extension{
		Name:     "custom",
		Position: translate.Prepend,
		Entries: []translate.Entry{
			rules.Decline("no upper", translate.CallKey(types.String, "ToUpper")),
		},
	}
	p := provider(t, Oracle, custom)
	res := p.Translate(translate.NewCallSite(types.String, "ToUpper", nil, title, nil, types.Invalid))
	assert.Equal(t, translate.ReasonUnsupportedByDialect, res.Reason())
	assert.Equal(t, provider(t, Oracle).Registry().Len()+1, p.Registry().Len())
}

func TestExtensionGuardsClientOperands(t *testing.T) {
	p := provider(t, Oracle)
	client := sqlexpr.Client("local()", types.Geometry)
	site := translate.NewCallSite(types.Geometry, "Distance", []types.Tag{types.Geometry}, location, []sqlexpr.Node{client}, types.Invalid)
	res := p.Translate(site)
	assert.Equal(t, translate.ReasonUntranslatedOperand, res.Reason())
}
