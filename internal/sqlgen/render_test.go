package sqlgen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlstn/go-sqltranslate/internal/dialect"
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

var (
	name    = sqlexpr.Col("c", "Name", types.String)
	active  = sqlexpr.Col("c", "Active", types.Bool)
	ordered = sqlexpr.Col("o", "OrderDate", types.DateTime)
	shipped = sqlexpr.Col("o", "ShippedDate", types.DateTime)
	p       = sqlexpr.Param("p", types.String)
)

func translateWith(t *testing.T, dialectName string, site translate.Site) sqlexpr.Node {
	t.Helper()
	prov, err := dialect.New(dialectName)
	require.NoError(t, err)
	res := prov.Translate(site)
	require.True(t, res.OK(), "%s: %s", res.Site(), res.Reason())
	return res.Node()
}

func stringCall(method string, recv, arg sqlexpr.Node) *translate.CallSite {
	return translate.NewCallSite(types.String, method, []types.Tag{types.String}, recv, []sqlexpr.Node{arg}, types.Invalid)
}

func golden(t *testing.T, expr fmt.Stringer) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, t.Name(), []byte(expr.String()))
}

type rendered struct {
	sql  string
	vars []any
}

func (r rendered) String() string {
	return r.sql + "\n" + fmt.Sprintf("%#v", r.vars) + "\n"
}

func render(t *testing.T, n sqlexpr.Node, opts Options) rendered {
	t.Helper()
	expr, err := Render(n, opts)
	require.NoError(t, err)
	return rendered{sql: expr.SQL, vars: expr.Vars}
}

func TestGoldenOracleStartsWithParameter(t *testing.T) {
	node := translateWith(t, dialect.Oracle, stringCall("StartsWith", name, p))
	golden(t, render(t, node, Options{Flavor: Oracle, Params: map[string]any{"p": "ab"}}))
}

func TestGoldenPostgresEndsWithParameter(t *testing.T) {
	node := translateWith(t, dialect.Oracle, stringCall("EndsWith", name, p))
	golden(t, render(t, node, Options{Flavor: Postgres, Params: map[string]any{"p": "lo"}}))
}

func TestGoldenSQLiteDateDiffHour(t *testing.T) {
	site := translate.NewCallSite(types.DbFunctions, "DateDiffHour",
		[]types.Tag{types.DateTime, types.DateTime}, nil, []sqlexpr.Node{ordered, shipped}, types.Invalid)
	node := translateWith(t, dialect.SQLite, site)
	golden(t, render(t, node, Options{Flavor: SQLite}))
}

func TestRender(t *testing.T) {
	one := sqlexpr.ConstOf(1, types.Int32)
	tests := []struct {
		name   string
		node   sqlexpr.Node
		flavor Flavor
		want   string
		vars   []any
	}{
		{"oracle true", sqlexpr.ConstOf(true, types.Bool), Oracle, "(1 = 1)", nil},
		{"oracle false", sqlexpr.ConstOf(false, types.Bool), Oracle, "(1 = 0)", nil},
		{"sqlite true", sqlexpr.ConstOf(true, types.Bool), SQLite, "?", []any{true}},
		{"oracle bool column", active, Oracle, `("c"."Active" = 1)`, nil},
		{"sqlite bool column", active, SQLite, `"c"."Active"`, nil},
		{"oracle predicate as value",
			sqlexpr.CastTo(sqlexpr.Equal(name, sqlexpr.ConstOf("x", types.String)), "NUMBER(1)", types.Int32), Oracle,
			`CAST(CASE WHEN ("c"."Name" = ?) THEN 1 ELSE 0 END AS NUMBER(1))`, []any{"x"}},
		{"extract", sqlexpr.Fn("EXTRACT", types.Int32, sqlexpr.Frag("YEAR", types.String), ordered), Oracle,
			`EXTRACT(YEAR FROM "o"."OrderDate")`, nil},
		{"oracle modulo", sqlexpr.Modulo(one, one), Oracle, "MOD(?, ?)", []any{1, 1}},
		{"sqlite modulo", sqlexpr.Modulo(one, one), SQLite, "(? % ?)", []any{1, 1}},
		{"null", sqlexpr.Null(types.String), SQLite, "NULL", nil},
		{"not is null", sqlexpr.Not(sqlexpr.IsNull(name)), SQLite, `(NOT ("c"."Name" IS NULL))`, nil},
		{"negate", sqlexpr.Negate(one), SQLite, "(-?)", []any{1}},
		{"concat", sqlexpr.Concat(name, name), SQLite, `("c"."Name" || "c"."Name")`, nil},
		{"postgres string constant", sqlexpr.Concat(name, sqlexpr.ConstOf("x", types.String)), Postgres,
			`("c"."Name" || CAST(? AS TEXT))`, []any{"x"}},
		{"postgres instr", sqlexpr.Fn("INSTR", types.Int32, name, name), Postgres, `STRPOS("c"."Name", "c"."Name")`, nil},
		{"postgres like", sqlexpr.LikeOf(name, name), Postgres, `("c"."Name" LIKE "c"."Name" ESCAPE '')`, nil},
		{"sqlite like", sqlexpr.LikeOf(name, name), SQLite, `("c"."Name" LIKE "c"."Name")`, nil},
		{"postgres right", sqlexpr.Fn("SUBSTR", types.String, name, sqlexpr.Negate(sqlexpr.Fn("LENGTH", types.Int32, name))), Postgres,
			`RIGHT("c"."Name", LENGTH("c"."Name"))`, nil},
		{"oracle negative substr", sqlexpr.Fn("SUBSTR", types.String, name, sqlexpr.Negate(one)), Oracle,
			`SUBSTR("c"."Name", (-?))`, []any{1}},
		{"no-arg function", sqlexpr.FnWith("SYS_GUID", types.Guid, false, nil), Oracle, "SYS_GUID()", nil},
		{"case", sqlexpr.CaseOf([]sqlexpr.When{{Condition: active, Result: one}}, sqlexpr.Null(types.Int32)), Oracle,
			`CASE WHEN ("c"."Active" = 1) THEN ? ELSE NULL END`, []any{1}},
		{"fragment", sqlexpr.Frag("SYSDATE", types.DateTime), Oracle, "SYSDATE", nil},
		{"implicit conversion", sqlexpr.Implicit(ordered, types.DateTimeOffset), Oracle, `"o"."OrderDate"`, nil},
		{"compensated", sqlexpr.Compensate(sqlexpr.Equal(name, p)), SQLite,
			`(("c"."Name" = ?) AND "c"."Name" IS NOT NULL AND ? IS NOT NULL)`, []any{"v", "v"}},
		{"column without table", sqlexpr.Col("", `we"ird`, types.Int32), SQLite, `"we""ird"`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, tt.node, Options{Flavor: tt.flavor, Params: map[string]any{"p": "v"}})
			assert.Equal(t, tt.want, got.sql)
			assert.Equal(t, tt.vars, got.vars)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		node   sqlexpr.Node
		flavor Flavor
		want   error
	}{
		{"client evaluation", sqlexpr.Equal(name, sqlexpr.Client("local()", types.String)), Oracle, ErrClientEvaluation},
		{"sqlite extract", sqlexpr.Fn("EXTRACT", types.Int32, sqlexpr.Frag("YEAR", types.String), ordered), SQLite, ErrUnsupportedFunction},
		{"oracle strftime", sqlexpr.Fn("STRFTIME", types.String, name, ordered), Oracle, ErrUnsupportedFunction},
		{"postgres spatial", sqlexpr.Fn("SDO_GEOM.SDO_AREA", types.Float64, name), Postgres, ErrUnsupportedFunction},
		{"missing parameter", sqlexpr.Equal(name, sqlexpr.Param("q", types.String)), SQLite, ErrMissingParameter},
		{"nil node", nil, SQLite, ErrUnknownNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.node, Options{Flavor: tt.flavor})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestRenderUnknownFlavor(t *testing.T) {
	_, err := Render(name, Options{Flavor: "db2"})
	var flavorErr *UnknownFlavorError
	require.True(t, errors.As(err, &flavorErr))
	assert.Equal(t, "db2", flavorErr.Name)
}

func TestRenderAllowUnbound(t *testing.T) {
	got := render(t, sqlexpr.Equal(name, sqlexpr.Param("q", types.String)), Options{Flavor: SQLite, AllowUnbound: true})
	assert.Equal(t, `("c"."Name" = ?)`, got.sql)
	assert.Equal(t, []any{Placeholder("q")}, got.vars)
	assert.Equal(t, "@q", Placeholder("q").String())
}

func TestFlavorFor(t *testing.T) {
	tests := map[string]Flavor{
		"sqlite":   SQLite,
		"postgres": Postgres,
		"Postgres": Postgres,
		"oracle":   Oracle,
	}
	for in, want := range tests {
		got, ok := FlavorFor(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := FlavorFor("mysql")
	assert.False(t, ok)
}

func TestParseFlavor(t *testing.T) {
	for _, f := range Flavors() {
		got, err := ParseFlavor(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFlavor("mysql")
	assert.Error(t, err)
}
