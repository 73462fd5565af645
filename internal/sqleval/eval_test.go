package sqleval

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlstn/go-sqltranslate/internal/dialect"
	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

var (
	start = sqlexpr.Param("start", types.DateTime)
	end   = sqlexpr.Param("end", types.DateTime)
	s     = sqlexpr.Param("s", types.String)
	p     = sqlexpr.Param("p", types.String)
)

func oracle(t *testing.T) *dialect.Provider {
	t.Helper()
	prov, err := dialect.New(dialect.Oracle)
	require.NoError(t, err)
	return prov
}

func translated(t *testing.T, site translate.Site) sqlexpr.Node {
	t.Helper()
	res := oracle(t).Translate(site)
	require.True(t, res.OK(), "%s: %s (%s)", res.Site(), res.Reason(), res.Detail())
	return res.Node()
}

func at(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse("2006-01-02 15:04:05", s)
	require.NoError(t, err)
	return v
}

func evalNumber(t *testing.T, n sqlexpr.Node, env Env) decimal.Decimal {
	t.Helper()
	v, err := Eval(n, env)
	require.NoError(t, err)
	d, ok := v.(decimal.Decimal)
	require.True(t, ok, "got %T %v", v, v)
	return d
}

func TestDateDiff(t *testing.T) {
	tests := []struct {
		method     string
		start, end string
		want       int64
	}{
		{"DateDiffDay", "2020-01-01 00:00:00", "2020-03-02 00:00:00", 61},
		{"DateDiffDay", "2020-03-02 00:00:00", "2020-01-01 00:00:00", -61},
		{"DateDiffDay", "2020-01-01 10:00:00", "2020-03-02 09:00:00", 60},
		{"DateDiffMonth", "2020-01-15 00:00:00", "2020-03-01 00:00:00", 1},
		{"DateDiffMonth", "2020-01-31 00:00:00", "2020-02-29 00:00:00", 1},
		{"DateDiffMonth", "2020-03-01 00:00:00", "2020-01-15 00:00:00", -1},
		{"DateDiffYear", "2019-12-31 00:00:00", "2020-01-01 00:00:00", 1},
		{"DateDiffHour", "2020-01-01 00:00:00", "2020-01-02 01:30:00", 25},
		{"DateDiffMinute", "2020-01-01 00:00:00", "2020-01-01 01:30:59", 90},
		{"DateDiffSecond", "2020-01-01 00:00:00", "2020-01-01 01:00:05", 3605},
		{"DateDiffSecond", "2020-01-01 00:00:00", "2020-01-03 00:00:00", 172800},
		{"DateDiffSecond", "2020-01-03 00:00:00", "2020-01-01 00:00:00", -172800},
		{"DateDiffMinute", "2020-01-01 00:00:00", "2020-06-01 00:00:00", 218880},
		{"DateDiffHour", "2000-01-01 00:00:00", "2020-01-01 00:00:00", 175320},
		{"DateDiffHour", "1900-01-01 00:00:00", "2200-01-01 06:00:00", 2629758},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.start+" "+tt.end, func(t *testing.T) {
			node := translated(t, translate.NewCallSite(types.DbFunctions, tt.method,
				[]types.Tag{types.DateTime, types.DateTime}, nil, []sqlexpr.Node{start, end}, types.Invalid))
			got := evalNumber(t, node, Env{Params: map[string]any{"start": at(t, tt.start), "end": at(t, tt.end)}})
			assert.True(t, decimal.NewFromInt(tt.want).Equal(got), "want %d, got %s", tt.want, got)
		})
	}
}

func TestIntervalFields(t *testing.T) {
	i := Between(at(t, "2020-03-02 04:05:06"), at(t, "2020-01-01 00:00:00"))
	assert.Equal(t, "+61 04:05:06", i.String())
	assert.Equal(t, "-61 04:05:06", i.Neg().String())
	assert.True(t, decimal.NewFromInt(61*86400+4*3600+5*60+6).Equal(i.Seconds()))

	for part, want := range map[string]int64{"DAY": 61, "HOUR": 4, "MINUTE": 5, "SECOND": 6} {
		got := evalNumber(t, sqlexpr.Fn("EXTRACT", types.Int32, sqlexpr.Frag(part, types.String),
			sqlexpr.Param("i", types.Object)), Env{Params: map[string]any{"i": i}})
		assert.True(t, decimal.NewFromInt(want).Equal(got), "%s: want %d, got %s", part, want, got)
	}
}

func TestDateDiffWithNull(t *testing.T) {
	node := translated(t, translate.NewCallSite(types.DbFunctions, "DateDiffDay",
		[]types.Tag{types.DateTime, types.DateTime}, nil, []sqlexpr.Node{start, end}, types.Invalid))
	v, err := Eval(node, Env{Params: map[string]any{"start": nil, "end": at(t, "2020-01-01 00:00:00")}})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDateAdd(t *testing.T) {
	tests := []struct {
		method string
		from   string
		amount any
		want   string
	}{
		{"AddMonths", "2020-01-31 08:00:00", 1, "2020-02-29 08:00:00"},
		{"AddMonths", "2020-01-15 00:00:00", -13, "2018-12-15 00:00:00"},
		{"AddYears", "2020-02-29 00:00:00", 1, "2021-02-28 00:00:00"},
		{"AddDays", "2020-02-28 12:00:00", 1.5, "2020-03-01 00:00:00"},
		{"AddHours", "2020-01-01 23:00:00", 2, "2020-01-02 01:00:00"},
		{"AddMinutes", "2020-01-01 00:00:00", 90, "2020-01-01 01:30:00"},
		{"AddSeconds", "2020-01-01 00:00:00", 61, "2020-01-01 00:01:01"},
		{"AddMilliseconds", "2020-01-01 00:00:00", 2500, "2020-01-01 00:00:02"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			amount := sqlexpr.Param("n", types.Float64)
			node := translated(t, translate.NewCallSite(types.DateTime, tt.method,
				[]types.Tag{types.Float64}, start, []sqlexpr.Node{amount}, types.Invalid))
			v, err := Eval(node, Env{Params: map[string]any{"start": at(t, tt.from), "n": tt.amount}})
			require.NoError(t, err)
			got, ok := v.(time.Time)
			require.True(t, ok, "got %T", v)
			assert.Equal(t, tt.want, got.Format("2006-01-02 15:04:05"))
		})
	}
}

func TestDateMembers(t *testing.T) {
	env := Env{Params: map[string]any{"start": at(t, "2020-03-02 09:41:07")}}
	for member, want := range map[string]int64{
		"Year": 2020, "Month": 3, "Day": 2, "Hour": 9, "Minute": 41, "Second": 7, "DayOfYear": 62,
	} {
		node := translated(t, translate.NewMemberSite(types.DateTime, member, start, types.Int32))
		assert.True(t, decimal.NewFromInt(want).Equal(evalNumber(t, node, env)), member)
	}

	node := translated(t, translate.NewMemberSite(types.DateTime, "Date", start, types.DateTime))
	v, err := Eval(node, env)
	require.NoError(t, err)
	got, ok := v.(time.Time)
	require.True(t, ok, "got %T", v)
	assert.True(t, at(t, "2020-03-02 00:00:00").Equal(got), "got %s", got)
}

func TestClock(t *testing.T) {
	now := time.Date(2021, 6, 1, 15, 4, 5, 0, time.UTC)
	env := Env{Now: func() time.Time { return now }}

	node := translated(t, translate.NewMemberSite(types.DateTime, "UtcNow", nil, types.DateTime))
	v, err := Eval(node, env)
	require.NoError(t, err)
	assert.True(t, now.Equal(v.(time.Time)))

	_, err = Eval(sqlexpr.Frag("CURRENT_DATE + 1", types.DateTime), env)
	assert.ErrorIs(t, err, ErrUnsupportedFunction)
}

func strPtr(v string) *string { return &v }

func nullable(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// TestAffixTruthTable checks the parameter and literal forms of StartsWith and
// EndsWith against Go's prefix and suffix tests.
func TestAffixTruthTable(t *testing.T) {
	subjects := []*string{nil, strPtr(""), strPtr("abc"), strPtr("ABC"), strPtr("a%c"), strPtr("a_c"), strPtr(`a\c`), strPtr("héllo")}
	patterns := []*string{nil, strPtr(""), strPtr("a"), strPtr("ab"), strPtr("abcd"), strPtr("A"), strPtr("%"), strPtr("_"),
		strPtr("a%"), strPtr(`\`), strPtr("c"), strPtr("bc"), strPtr("hé"), strPtr("llo")}

	for _, method := range []string{"StartsWith", "EndsWith"} {
		suffix := method == "EndsWith"
		for _, sv := range subjects {
			for _, pv := range patterns {
				want := pv != nil && *pv == ""
				if !want && sv != nil && pv != nil {
					if suffix {
						want = strings.HasSuffix(*sv, *pv)
					} else {
						want = strings.HasPrefix(*sv, *pv)
					}
				}

				site := translate.NewCallSite(types.String, method, []types.Tag{types.String}, s, []sqlexpr.Node{p}, types.Invalid)
				got, err := Holds(translated(t, site), Env{Params: map[string]any{"s": nullable(sv), "p": nullable(pv)}})
				require.NoError(t, err)
				assert.Equal(t, want, got, "%s param s=%v p=%v", method, nullable(sv), nullable(pv))

				if pv == nil {
					continue
				}
				site = translate.NewCallSite(types.String, method, []types.Tag{types.String}, s,
					[]sqlexpr.Node{sqlexpr.ConstOf(*pv, types.String)}, types.Invalid)
				got, err = Holds(translated(t, site), Env{Params: map[string]any{"s": nullable(sv)}})
				require.NoError(t, err)
				assert.Equal(t, want, got, "%s literal s=%v p=%q", method, nullable(sv), *pv)
			}
		}
	}
}

func TestStringFunctions(t *testing.T) {
	env := Env{Params: map[string]any{"s": "  hello  ", "p": "l", "e": ""}}
	call := func(method string, params []types.Tag, args ...sqlexpr.Node) sqlexpr.Node {
		return translated(t, translate.NewCallSite(types.String, method, params, s, args, types.Invalid))
	}
	i32 := func(v int) sqlexpr.Node { return sqlexpr.ConstOf(v, types.Int32) }

	trimmed := call("Trim", nil)
	v, err := Eval(trimmed, env)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	v, err = Eval(call("Substring", []types.Tag{types.Int32, types.Int32}, i32(2), i32(3)), env)
	require.NoError(t, err)
	assert.Equal(t, "hel", v)

	assert.True(t, decimal.NewFromInt(4).Equal(evalNumber(t, call("IndexOf", []types.Tag{types.String}, p), env)))
	assert.True(t, decimal.NewFromInt(4).Equal(evalNumber(t, call("IndexOf", []types.Tag{types.String}, sqlexpr.ConstOf("l", types.String)), env)))
	assert.True(t, decimal.NewFromInt(0).Equal(evalNumber(t, call("IndexOf", []types.Tag{types.String}, sqlexpr.Param("e", types.String)), env)))
	assert.True(t, decimal.NewFromInt(-1).Equal(evalNumber(t, call("IndexOf", []types.Tag{types.String}, sqlexpr.ConstOf("z", types.String)), env)))

	ok, err := Holds(call("Contains", []types.Tag{types.String}, sqlexpr.Param("e", types.String)), env)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubstr(t *testing.T) {
	tests := []struct {
		args []any
		want string
	}{
		{[]any{"hello", 1, 2}, "he"},
		{[]any{"hello", 0, 2}, "he"},
		{[]any{"hello", -3}, "llo"},
		{[]any{"hello", -9}, ""},
		{[]any{"hello", 9}, ""},
		{[]any{"hello", 2, 0}, ""},
		{[]any{"héllo", 2, 1}, "é"},
	}
	for _, tt := range tests {
		args := make([]any, len(tt.args))
		for i, a := range tt.args {
			v, err := normalize(a)
			require.NoError(t, err)
			args[i] = v
		}
		got, err := substr(args)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%v", tt.args)
	}
}

func TestThreeValuedLogic(t *testing.T) {
	null := sqlexpr.Null(types.Bool)
	yes := sqlexpr.ConstOf(true, types.Bool)
	no := sqlexpr.ConstOf(false, types.Bool)
	tests := []struct {
		name string
		node sqlexpr.Node
		want any
	}{
		{"null and false", sqlexpr.AndAlso(null, no), false},
		{"null and true", sqlexpr.AndAlso(null, yes), nil},
		{"null or true", sqlexpr.OrElse(null, yes), true},
		{"null or false", sqlexpr.OrElse(null, no), nil},
		{"not null", sqlexpr.Not(null), nil},
		{"null equals null", sqlexpr.Equal(sqlexpr.Null(types.String), sqlexpr.Null(types.String)), nil},
		{"is null", sqlexpr.IsNull(sqlexpr.Null(types.String)), true},
		{"compensated null", sqlexpr.Compensate(sqlexpr.Equal(sqlexpr.Null(types.String), sqlexpr.ConstOf("a", types.String))), false},
		{"empty string is not null", sqlexpr.IsNotNull(sqlexpr.ConstOf("", types.String)), true},
		{"concat null", sqlexpr.Concat(sqlexpr.Null(types.String), sqlexpr.ConstOf("a", types.String)), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.node, Env{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLike(t *testing.T) {
	tests := []struct {
		subject, pattern, escape string
		want                     bool
	}{
		{"abc", "a%", "", true},
		{"abc", "a_c", "", true},
		{"abc", "A%", "", false},
		{"a%c", `a\%c`, `\`, true},
		{"abc", `a\%c`, `\`, false},
		{"a\nb", "a%b", "", true},
		{"a.c", "a.c", "", true},
		{"abc", "a.c", "", false},
	}
	for _, tt := range tests {
		var node sqlexpr.Node = sqlexpr.LikeOf(sqlexpr.ConstOf(tt.subject, types.String), sqlexpr.ConstOf(tt.pattern, types.String))
		if tt.escape != "" {
			node = sqlexpr.LikeEscaped(sqlexpr.ConstOf(tt.subject, types.String), sqlexpr.ConstOf(tt.pattern, types.String),
				sqlexpr.ConstOf(tt.escape, types.String))
		}
		got, err := Holds(node, Env{})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q LIKE %q", tt.subject, tt.pattern)
	}
}

func TestConvertAndMath(t *testing.T) {
	env := Env{Params: map[string]any{"x": "41.6", "d": decimal.RequireFromString("-2.6")}}
	conv := translated(t, translate.NewCallSite(types.Convert, "ToInt32", []types.Tag{types.String}, nil,
		[]sqlexpr.Node{sqlexpr.Param("x", types.String)}, types.Invalid))
	assert.True(t, decimal.NewFromInt(42).Equal(evalNumber(t, conv, env)))

	d := sqlexpr.Param("d", types.Decimal)
	for method, want := range map[string]string{"Abs": "2.6", "Ceiling": "-2", "Floor": "-3", "Truncate": "-2", "Round": "-3"} {
		node := translated(t, translate.NewCallSite(types.Math, method, []types.Tag{types.Decimal}, nil, []sqlexpr.Node{d}, types.Invalid))
		assert.True(t, decimal.RequireFromString(want).Equal(evalNumber(t, node, env)), method)
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		node sqlexpr.Node
		want error
	}{
		{"client", sqlexpr.Client("local()", types.Int32), ErrClientEvaluation},
		{"unbound", sqlexpr.Param("missing", types.Int32), ErrUnboundParameter},
		{"column", sqlexpr.Col("t", "missing", types.Int32), ErrUnknownColumn},
		{"function", sqlexpr.Fn("STRFTIME", types.String, sqlexpr.ConstOf("%Y", types.String)), ErrUnsupportedFunction},
		{"division", sqlexpr.Divide(sqlexpr.ConstOf(1, types.Int32), sqlexpr.ConstOf(0, types.Int32)), ErrDivisionByZero},
		{"mismatch", sqlexpr.Add(sqlexpr.ConstOf(1, types.Int32), sqlexpr.ConstOf("a", types.String)), ErrInvalidConversion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Eval(tt.node, Env{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestColumns(t *testing.T) {
	env := Env{Columns: map[string]any{"o.Total": 10, "Qty": int64(3)}}
	node := sqlexpr.Multiply(sqlexpr.Col("o", "Total", types.Int32), sqlexpr.Col("o", "Qty", types.Int64))
	assert.True(t, decimal.NewFromInt(30).Equal(evalNumber(t, node, env)))
}
