package binder

import (
	"strings"

	"github.com/nlstn/go-sqltranslate/internal/rules"
	"github.com/nlstn/go-sqltranslate/sqlexpr"
	"github.com/nlstn/go-sqltranslate/types"
)

// staticTypes maps the names usable as static owners to their declaring types.
var staticTypes = map[string]types.Tag{
	"DateTime":       types.DateTime,
	"DateTimeOffset": types.DateTimeOffset,
	"DateOnly":       types.Date,
	"Convert":        types.Convert,
	"Math":           types.Math,
	"String":         types.String,
	"string":         types.String,
	"Guid":           types.Guid,
	"Functions":      types.DbFunctions,
	"DbFunctions":    types.DbFunctions,
}

var stringReturns = map[string]types.Tag{
	"Contains":           types.Bool,
	"StartsWith":         types.Bool,
	"EndsWith":           types.Bool,
	"IsNullOrEmpty":      types.Bool,
	"IsNullOrWhiteSpace": types.Bool,
	"Equals":             types.Bool,
	"IndexOf":            types.Int32,
	"Length":             types.Int32,
	"ToUpper":            types.String,
	"ToLower":            types.String,
	"Substring":          types.String,
	"Replace":            types.String,
	"Trim":               types.String,
	"TrimStart":          types.String,
	"TrimEnd":            types.String,
	"Concat":             types.String,
	"PadLeft":            types.String,
	"PadRight":           types.String,
}

var temporalComponents = map[string]bool{
	"Year": true, "Month": true, "Day": true, "Hour": true, "Minute": true,
	"Second": true, "Millisecond": true, "DayOfYear": true, "DayOfWeek": true,
}

// mathPreserving lists Math methods whose result has the type of their first argument.
var mathPreserving = map[string]bool{
	"Abs": true, "Ceiling": true, "Floor": true, "Round": true,
	"Truncate": true, "Max": true, "Min": true,
}

// returnType looks up the result type of a member read or method call on
// declaring. It returns types.Invalid for members the catalog does not know.
func returnType(declaring types.Tag, member string, args []sqlexpr.Node) types.Tag {
	if member == "ToString" {
		return types.String
	}

	base := types.Unwrap(declaring)
	switch {
	case base == types.String:
		return stringReturns[member]
	case base.IsTemporal():
		return temporalReturn(base, member)
	case base == types.DbFunctions:
		if strings.HasPrefix(member, "DateDiff") {
			return nullableIfAny(types.Int32, args)
		}
		if member == "Like" {
			return types.Bool
		}
	case base == types.Convert:
		if t, ok := rules.ConvertTarget(member); ok {
			return t
		}
	case base == types.Math:
		return mathReturn(member, args)
	case base == types.Guid && member == "NewGuid":
		return types.Guid
	}
	return types.Invalid
}

func temporalReturn(declaring types.Tag, member string) types.Tag {
	switch {
	case temporalComponents[member]:
		return types.Int32
	case member == "Date" || member == "Now" || member == "UtcNow" || member == "Today":
		return declaring
	case strings.HasPrefix(member, "Add"):
		return declaring
	}
	return types.Invalid
}

func mathReturn(method string, args []sqlexpr.Node) types.Tag {
	switch {
	case mathPreserving[method] && len(args) > 0:
		return types.Unwrap(args[0].Type())
	case method == "Sign":
		return types.Int32
	case method == "Power" || method == "Sqrt" || method == "Exp" || method == "Log" || method == "Log10":
		return types.Float64
	}
	return types.Invalid
}

// nullableIfAny makes t nullable when any argument is.
func nullableIfAny(t types.Tag, args []sqlexpr.Node) types.Tag {
	for _, a := range args {
		if a.Type().IsNullable() {
			return types.Nullable(t)
		}
	}
	return t
}
