package rules

import (
	"fmt"

	"github.com/nlstn/go-sqltranslate/internal/translate"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// convertMethods maps Convert.ToXxx method names to their target types.
var convertMethods = map[string]types.Tag{
	"ToBoolean": types.Bool,
	"ToByte":    types.Byte,
	"ToSByte":   types.SByte,
	"ToInt16":   types.Int16,
	"ToUInt16":  types.UInt16,
	"ToInt32":   types.Int32,
	"ToUInt32":  types.UInt32,
	"ToInt64":   types.Int64,
	"ToUInt64":  types.UInt64,
	"ToSingle":  types.Float32,
	"ToDouble":  types.Float64,
	"ToDecimal": types.Decimal,
	"ToString":  types.String,
	"ToChar":    types.Char,
}

// ConvertTarget returns the target type of a Convert.ToXxx method.
func ConvertTarget(method string) (types.Tag, bool) {
	t, ok := convertMethods[method]
	return t, ok
}

// convertRules registers one entry per Convert method whose target the table covers.
func convertRules(table ConvertTable) []translate.Entry {
	var out []translate.Entry
	for _, row := range table.Entries() {
		for method, target := range convertMethods {
			if target != row.Key {
				continue
			}
			out = append(out, entry("Convert."+method,
				[]translate.Key{translate.AnyCall(types.Convert, method)},
				argCount(1),
				convertTo(table, row.Key, row.Token)))
		}
	}
	return out
}

func convertTo(table ConvertTable, target types.Tag, storeType string) translateFunc {
	return func(site translate.Site) translate.Result {
		c, _ := asCall(site)
		arg := c.Args[0]
		source := arg.Type()
		if len(c.ParamTypes) == 1 {
			source = c.ParamTypes[0]
		}
		if !table.Accepts(source) {
			return translate.NotApplicable(translate.ReasonUnsupportedSourceType,
				fmt.Sprintf("%s cannot be converted to %s", source, target))
		}
		return translate.Translated(sqlexpr.CastTo(arg, storeType, resultType(c.ReturnType, target)))
	}
}

// toStringRules casts receivers of the table's types to sized text and
// declines every other ToString call.
func toStringRules(table Table[types.Tag]) []translate.Entry {
	rows := table.Entries()
	keys := make([]translate.Key, 0, 2*len(rows))
	for _, row := range rows {
		keys = append(keys,
			translate.CallKey(row.Key, "ToString"),
			translate.CallKey(types.Nullable(row.Key), "ToString"))
	}

	return []translate.Entry{
		entry("object.ToString", keys, hasReceiver, func(site translate.Site) translate.Result {
			c, _ := asCall(site)
			token, ok := table.Lookup(types.Unwrap(c.DeclaringType))
			if !ok {
				return translate.NotApplicable(translate.ReasonUnsupportedSourceType, string(c.DeclaringType))
			}
			return translate.Translated(sqlexpr.CastTo(c.Receiver, token, types.String))
		}),
	}
}

// unsupportedToString is a pattern rule that reports ToString on types no
// table covers. It belongs at the end of a registry.
func unsupportedToString() translate.Entry {
	return translate.Entry{
		Name: "object.ToString unsupported",
		Match: func(site translate.Site) bool {
			c, ok := asCall(site)
			return ok && c.Method == "ToString" && len(c.Args) == 0 && c.Receiver != nil
		},
		Translate: func(site translate.Site) translate.Result {
			c, _ := asCall(site)
			return translate.NotApplicable(translate.ReasonUnsupportedSourceType,
				fmt.Sprintf("no text conversion for %s", c.DeclaringType))
		},
	}
}
