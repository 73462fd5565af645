package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

func TestDateComponents(t *testing.T) {
	d := oracleDispatcher(t)
	for member, part := range map[string]string{
		"Year": "YEAR", "Month": "MONTH", "Day": "DAY", "Hour": "HOUR", "Minute": "MINUTE", "Second": "SECOND",
	} {
		t.Run(member, func(t *testing.T) {
			got := mustTranslate(t, d, translate.NewMemberSite(types.DateTime, member, ordered, types.Int32))
			requireTree(t, sqlexpr.Fn("EXTRACT", types.Int32, sqlexpr.Frag(part, types.String), ordered), got)
		})
	}

	res := d.Translate(translate.NewMemberSite(types.Date, "Hour", sqlexpr.Col("", "d", types.Date), types.Int32))
	assert.Equal(t, translate.ReasonNoRule, res.Reason())
}

func TestDateTruncationAndDayOfYear(t *testing.T) {
	d := oracleDispatcher(t)
	got := mustTranslate(t, d, translate.NewMemberSite(types.DateTime, "Date", ordered, types.DateTime))
	requireTree(t, sqlexpr.Fn("TRUNC", types.DateTime, ordered), got)

	got = mustTranslate(t, d, translate.NewMemberSite(types.DateTime, "DayOfYear", ordered, types.Int32))
	requireTree(t, sqlexpr.Fn("TO_NUMBER", types.Int32, sqlexpr.Fn("TO_CHAR", types.String, ordered, str("DDD"))), got)
}

func TestClockMembers(t *testing.T) {
	d := oracleDispatcher(t)
	tests := []struct {
		name string
		site *translate.MemberSite
		want sqlexpr.Node
	}{
		{"now", translate.NewMemberSite(types.DateTime, "Now", nil, types.DateTime),
			sqlexpr.Frag("SYSDATE", types.DateTime)},
		{"utc now", translate.NewMemberSite(types.DateTime, "UtcNow", nil, types.DateTime),
			sqlexpr.Frag("SYS_EXTRACT_UTC(SYSTIMESTAMP)", types.DateTime)},
		{"today", translate.NewMemberSite(types.DateTime, "Today", nil, types.DateTime),
			sqlexpr.Fn("TRUNC", types.DateTime, sqlexpr.Frag("SYSDATE", types.DateTime))},
		{"offset now", translate.NewMemberSite(types.DateTimeOffset, "Now", nil, types.DateTimeOffset),
			sqlexpr.CastTo(sqlexpr.Frag("SYSDATE", types.DateTimeOffset), "TIMESTAMP WITH TIME ZONE", types.DateTimeOffset)},
		{"offset utc now", translate.NewMemberSite(types.DateTimeOffset, "UtcNow", nil, types.DateTimeOffset),
			sqlexpr.CastTo(sqlexpr.Frag("SYS_EXTRACT_UTC(SYSTIMESTAMP)", types.DateTimeOffset), "TIMESTAMP WITH TIME ZONE", types.DateTimeOffset)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireTree(t, tt.want, mustTranslate(t, d, tt.site))
		})
	}
}

func TestAddYearsReusesAddMonths(t *testing.T) {
	d := oracleDispatcher(t)
	years := mustTranslate(t, d, callSite(types.DateTime, "AddYears", []types.Tag{types.Int32}, ordered, i32(3)))
	months := mustTranslate(t, d, callSite(types.DateTime, "AddMonths", []types.Tag{types.Int32}, ordered, i32(36)))

	y, ok := years.(*sqlexpr.FunctionCall)
	require.True(t, ok)
	m, ok := months.(*sqlexpr.FunctionCall)
	require.True(t, ok)

	assert.Equal(t, m.Name, y.Name)
	assert.Equal(t, "ADD_MONTHS", y.Name)
	assert.Len(t, y.Args, len(m.Args))
	assert.Equal(t, m.ReturnType, y.ReturnType)
	requireTree(t, m.Args[0], y.Args[0])
	requireTree(t, sqlexpr.Multiply(i32(3), i32(12)), y.Args[1])
}

func TestIntervalAdds(t *testing.T) {
	d := oracleDispatcher(t)
	n := sqlexpr.Param("n", types.Float64)
	tests := []struct {
		method string
		want   sqlexpr.Node
	}{
		{"AddDays", sqlexpr.Add(ordered, sqlexpr.Fn("NUMTODSINTERVAL", types.TimeSpan, n, str("DAY")))},
		{"AddHours", sqlexpr.Add(ordered, sqlexpr.Fn("NUMTODSINTERVAL", types.TimeSpan, n, str("HOUR")))},
		{"AddMilliseconds", sqlexpr.Add(ordered, sqlexpr.Fn("NUMTODSINTERVAL", types.TimeSpan, sqlexpr.Divide(n, i32(1000)), str("SECOND")))},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got := mustTranslate(t, d, callSite(types.DateTime, tt.method, []types.Tag{types.Float64}, ordered, n))
			requireTree(t, tt.want, got)
			assert.Equal(t, types.DateTime, got.Type())
		})
	}
}

func TestDateDiffTrees(t *testing.T) {
	d := oracleDispatcher(t)
	params := []types.Tag{types.DateTime, types.DateTime}
	b := DiffBuilder{TimestampStoreType: "TIMESTAMP", IntegerStoreType: "NUMBER(10)"}

	interval := sqlexpr.Subtract(
		sqlexpr.CastTo(shipped, "TIMESTAMP", types.DateTime),
		sqlexpr.CastTo(ordered, "TIMESTAMP", types.DateTime),
	)
	hours := sqlexpr.Multiply(interval, i32(24))
	minutes := sqlexpr.Multiply(hours, i32(60))
	seconds := sqlexpr.Multiply(minutes, i32(60))
	day := func(n sqlexpr.Node) sqlexpr.Node {
		return sqlexpr.Fn("EXTRACT", types.Nullable(types.Int32), sqlexpr.Frag("DAY", types.String), n)
	}

	tests := []struct {
		method string
		want   sqlexpr.Node
	}{
		{"DateDiffYear", sqlexpr.CastTo(
			sqlexpr.Subtract(
				sqlexpr.Fn("EXTRACT", types.Int32, sqlexpr.Frag("YEAR", types.String), shipped),
				sqlexpr.Fn("EXTRACT", types.Int32, sqlexpr.Frag("YEAR", types.String), ordered)),
			"NUMBER(10)", types.Nullable(types.Int32))},
		{"DateDiffMonth", sqlexpr.Fn("TRUNC", types.Nullable(types.Int32),
			sqlexpr.Fn("MONTHS_BETWEEN", types.Float64, shipped, ordered))},
		{"DateDiffDay", day(interval)},
		{"DateDiffHour", day(hours)},
		{"DateDiffMinute", day(minutes)},
		{"DateDiffSecond", day(seconds)},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got := mustTranslate(t, d, callSite(types.DbFunctions, tt.method, params, nil, ordered, shipped))
			requireTree(t, tt.want, got)
		})
	}

	requireTree(t, day(interval), b.Days(ordered, shipped, types.Nullable(types.Int32)))
}

func TestDateDiffTruncatesImplicitConversions(t *testing.T) {
	dateOnly := sqlexpr.Col("o", "Due", types.Date)
	conv := sqlexpr.Implicit(dateOnly, types.DateTime)
	got := mustTranslate(t, oracleDispatcher(t), callSite(types.DbFunctions, "DateDiffDay",
		[]types.Tag{types.DateTime, types.DateTime}, nil, ordered, conv))

	want := sqlexpr.Fn("EXTRACT", types.Int32, sqlexpr.Frag("DAY", types.String), sqlexpr.Subtract(
		sqlexpr.CastTo(sqlexpr.Fn("TRUNC", types.DateTime, conv), "TIMESTAMP", types.DateTime),
		sqlexpr.CastTo(ordered, "TIMESTAMP", types.DateTime),
	))
	requireTree(t, want, got)
}

func TestDateDiffRejectsNonTemporalOperands(t *testing.T) {
	res := oracleDispatcher(t).Translate(callSite(types.DbFunctions, "DateDiffDay",
		[]types.Tag{types.Int32, types.Int32}, nil, i32(1), i32(2)))
	assert.Equal(t, translate.ReasonNoRule, res.Reason())
}
