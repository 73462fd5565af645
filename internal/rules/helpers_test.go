package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

func oracleDispatcher(t *testing.T) *translate.Dispatcher {
	t.Helper()
	reg, err := translate.NewRegistry(Builtins(OracleConfig()))
	require.NoError(t, err)
	return translate.NewDispatcher(reg)
}

func callSite(decl types.Tag, method string, params []types.Tag, recv sqlexpr.Node, args ...sqlexpr.Node) *translate.CallSite {
	return translate.NewCallSite(decl, method, params, recv, args, types.Invalid)
}

func mustTranslate(t *testing.T, d *translate.Dispatcher, site translate.Site) sqlexpr.Node {
	t.Helper()
	res := d.Translate(site)
	require.True(t, res.OK(), "expected translation of %s, got %s (%s)", res.Site(), res.Reason(), res.Detail())
	return res.Node()
}

func requireTree(t *testing.T, want, got sqlexpr.Node) {
	t.Helper()
	require.True(t, sqlexpr.DeepEqual(want, got), "want %s\n got %s", sqlexpr.Format(want), sqlexpr.Format(got))
}

var (
	name    = sqlexpr.Col("c", "Name", types.String)
	pattern = sqlexpr.Param("pattern", types.String)
	ordered = sqlexpr.Col("o", "OrderDate", types.DateTime)
	shipped = sqlexpr.Col("o", "ShippedDate", types.Nullable(types.DateTime))
)
