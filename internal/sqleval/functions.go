package sqleval

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/nlstn/go-sqltranslate/sqlexpr"
)

type function func(args []any) (any, error)

var functions map[string]function

func init() {
	functions = map[string]function{
		"UPPER":           textFunc(strings.ToUpper),
		"LOWER":           textFunc(strings.ToLower),
		"LTRIM":           textFunc(func(s string) string { return strings.TrimLeft(s, " ") }),
		"RTRIM":           textFunc(func(s string) string { return strings.TrimRight(s, " ") }),
		"LENGTH":          length,
		"SUBSTR":          substr,
		"INSTR":           instr,
		"REPLACE":         replace,
		"EXTRACT":         extract,
		"TRUNC":           trunc,
		"MONTHS_BETWEEN":  monthsBetween,
		"ADD_MONTHS":      addMonths,
		"NUMTODSINTERVAL": numToDSInterval,
		"TO_CHAR":         toChar,
		"TO_NUMBER":       toNumber,
		"REGEXP_LIKE":     regexpLike,
		"ABS":             numberFunc(func(d decimal.Decimal) decimal.Decimal { return d.Abs() }),
		"CEIL":            numberFunc(func(d decimal.Decimal) decimal.Decimal { return d.Ceil() }),
		"FLOOR":           numberFunc(func(d decimal.Decimal) decimal.Decimal { return d.Floor() }),
		"SIGN":            numberFunc(func(d decimal.Decimal) decimal.Decimal { return decimal.NewFromInt(int64(d.Sign())) }),
		"SQRT":            floatFunc(math.Sqrt),
		"EXP":             floatFunc(math.Exp),
		"LN":              floatFunc(math.Log),
		"LOG":             logBase,
		"POWER":           power,
		"ROUND":           round,
		"MOD":             mod,
		"GREATEST":        extreme(1),
		"LEAST":           extreme(-1),
	}
}

// function evaluates a call. A NULL argument in a null-propagating position
// yields NULL without calling the function.
func (e *evaluator) function(n *sqlexpr.FunctionCall) (any, error) {
	name := strings.ToUpper(n.Name)
	fn, ok := functions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFunction, n.Name)
	}

	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		if frag, ok := a.(*sqlexpr.Fragment); ok && name == "EXTRACT" && i == 0 {
			args[i] = strings.ToUpper(frag.Text)
			continue
		}
		v, err := e.eval(a)
		if err != nil {
			return nil, err
		}
		if v == nil && (i >= len(n.PropagatesNull) || n.PropagatesNull[i]) {
			return nil, nil
		}
		args[i] = v
	}
	return fn(args)
}

func arity(args []any, min, max int) error {
	if len(args) < min || len(args) > max {
		return fmt.Errorf("%w: expected %d..%d arguments, got %d", ErrTypeMismatch, min, max, len(args))
	}
	return nil
}

func textFunc(f func(string) string) function {
	return func(args []any) (any, error) {
		if err := arity(args, 1, 1); err != nil {
			return nil, err
		}
		s, err := asString(args[0])
		if err != nil {
			return nil, err
		}
		return f(s), nil
	}
}

func numberFunc(f func(decimal.Decimal) decimal.Decimal) function {
	return func(args []any) (any, error) {
		if err := arity(args, 1, 1); err != nil {
			return nil, err
		}
		d, err := asNumber(args[0])
		if err != nil {
			return nil, err
		}
		return f(d), nil
	}
}

func floatFunc(f func(float64) float64) function {
	return numberFunc(func(d decimal.Decimal) decimal.Decimal {
		return decimal.NewFromFloat(f(d.InexactFloat64()))
	})
}

func length(args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	s, err := asString(args[0])
	if err != nil {
		return nil, err
	}
	return decimal.NewFromInt(int64(utf8.RuneCountInString(s))), nil
}

func integers(args []any) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		d, err := asNumber(a)
		if err != nil {
			return nil, err
		}
		out[i] = int(d.IntPart())
	}
	return out, nil
}

// substr is one-based; a start of 0 is treated as 1 and a negative start
// counts from the end. Out-of-range slices are empty.
func substr(args []any) (any, error) {
	if err := arity(args, 2, 3); err != nil {
		return nil, err
	}
	s, err := asString(args[0])
	if err != nil {
		return nil, err
	}
	nums, err := integers(args[1:])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	start := nums[0]
	switch {
	case start == 0:
		start = 1
	case start < 0:
		start = len(runes) + start + 1
		if start < 1 {
			return "", nil
		}
	}
	if start > len(runes) {
		return "", nil
	}
	end := len(runes)
	if len(nums) == 2 {
		if nums[1] < 1 {
			return "", nil
		}
		end = min(end, start-1+nums[1])
	}
	return string(runes[start-1 : end]), nil
}

// instr returns the one-based position of the first occurrence, or 0.
func instr(args []any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	s, err := asString(args[0])
	if err != nil {
		return nil, err
	}
	p, err := asString(args[1])
	if err != nil {
		return nil, err
	}
	i := strings.Index(s, p)
	if i < 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromInt(int64(utf8.RuneCountInString(s[:i]) + 1)), nil
}

func replace(args []any) (any, error) {
	if err := arity(args, 3, 3); err != nil {
		return nil, err
	}
	var parts [3]string
	for i, a := range args {
		s, err := asString(a)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	if parts[1] == "" {
		return parts[0], nil
	}
	return strings.ReplaceAll(parts[0], parts[1], parts[2]), nil
}

// extract reads a field of a timestamp, or the field of a day-second interval.
func extract(args []any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	part, _ := args[0].(string)
	switch v := args[1].(type) {
	case time.Time:
		switch part {
		case "YEAR":
			return decimal.NewFromInt(int64(v.Year())), nil
		case "MONTH":
			return decimal.NewFromInt(int64(v.Month())), nil
		case "DAY":
			return decimal.NewFromInt(int64(v.Day())), nil
		case "HOUR":
			return decimal.NewFromInt(int64(v.Hour())), nil
		case "MINUTE":
			return decimal.NewFromInt(int64(v.Minute())), nil
		case "SECOND":
			return decimal.NewFromInt(int64(v.Second())).Add(decimal.New(int64(v.Nanosecond()), -9)), nil
		}
	case Interval:
		days, hours, minutes, seconds := v.fields()
		switch part {
		case "DAY":
			return decimal.NewFromInt(days), nil
		case "HOUR":
			return decimal.NewFromInt(hours), nil
		case "MINUTE":
			return decimal.NewFromInt(minutes), nil
		case "SECOND":
			return seconds, nil
		}
	default:
		return nil, fmt.Errorf("%w: EXTRACT from %T", ErrTypeMismatch, args[1])
	}
	return nil, fmt.Errorf("%w: EXTRACT(%s)", ErrUnsupportedFunction, part)
}

// trunc truncates a timestamp to midnight or a number toward zero.
func trunc(args []any) (any, error) {
	if err := arity(args, 1, 2); err != nil {
		return nil, err
	}
	if t, ok := args[0].(time.Time); ok {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
	}
	d, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	places := int32(0)
	if len(args) == 2 {
		p, err := asNumber(args[1])
		if err != nil {
			return nil, err
		}
		places = int32(p.IntPart())
	}
	return d.Truncate(places), nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isLastDay(t time.Time) bool {
	return t.Day() == daysIn(t.Year(), t.Month())
}

// monthsBetween is whole when both dates share the day of month or both are
// month ends; otherwise the remainder is measured in 31-day months.
func monthsBetween(args []any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	a, err := asTime(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asTime(args[1])
	if err != nil {
		return nil, err
	}
	months := decimal.NewFromInt(int64((a.Year()-b.Year())*12 + int(a.Month()) - int(b.Month())))
	if a.Day() == b.Day() || (isLastDay(a) && isLastDay(b)) {
		return months, nil
	}
	clock := func(t time.Time) time.Duration {
		return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
	}
	days := decimal.NewFromInt(int64(a.Day() - b.Day())).Add(IntervalOf(clock(a) - clock(b)).Days())
	return months.Add(days.Div(decimal.NewFromInt(31))), nil
}

// addMonths keeps the day of month, clamped to the target month; month ends
// stay month ends.
func addMonths(args []any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	t, err := asTime(args[0])
	if err != nil {
		return nil, err
	}
	n, err := asNumber(args[1])
	if err != nil {
		return nil, err
	}
	total := int(t.Month()) - 1 + int(n.IntPart())
	year := t.Year() + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	target := time.Month(month + 1)
	dom := min(t.Day(), daysIn(year, target))
	if isLastDay(t) {
		dom = daysIn(year, target)
	}
	return time.Date(year, target, dom, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()), nil
}

// intervalUnits holds the length of each NUMTODSINTERVAL unit in seconds.
var intervalUnits = map[string]decimal.Decimal{
	"DAY":    secondsPerDay,
	"HOUR":   decimal.NewFromInt(3600),
	"MINUTE": decimal.NewFromInt(60),
	"SECOND": decimal.NewFromInt(1),
}

func numToDSInterval(args []any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	unit, err := asString(args[1])
	if err != nil {
		return nil, err
	}
	u, ok := intervalUnits[strings.ToUpper(unit)]
	if !ok {
		return nil, fmt.Errorf("%w: interval unit %q", ErrInvalidConversion, unit)
	}
	return intervalOf(n, u), nil
}

func toChar(args []any) (any, error) {
	if err := arity(args, 1, 2); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return asString(args[0])
	}
	t, err := asTime(args[0])
	if err != nil {
		return nil, err
	}
	format, err := asString(args[1])
	if err != nil {
		return nil, err
	}
	if strings.ToUpper(format) != "DDD" {
		return nil, fmt.Errorf("%w: TO_CHAR format %q", ErrUnsupportedFunction, format)
	}
	return fmt.Sprintf("%03d", t.YearDay()), nil
}

func toNumber(args []any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	return asNumber(args[0])
}

func regexpLike(args []any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	s, err := asString(args[0])
	if err != nil {
		return nil, err
	}
	p, err := asString(args[1])
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConversion, err)
	}
	return re.MatchString(s), nil
}

// logBase is LOG(base, x).
func logBase(args []any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	b, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	x, err := asNumber(args[1])
	if err != nil {
		return nil, err
	}
	return decimal.NewFromFloat(math.Log(x.InexactFloat64()) / math.Log(b.InexactFloat64())), nil
}

func power(args []any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	b, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	x, err := asNumber(args[1])
	if err != nil {
		return nil, err
	}
	if x.IsInteger() && x.Sign() >= 0 {
		return b.Pow(x), nil
	}
	return decimal.NewFromFloat(math.Pow(b.InexactFloat64(), x.InexactFloat64())), nil
}

func round(args []any) (any, error) {
	if err := arity(args, 1, 2); err != nil {
		return nil, err
	}
	d, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	places := int32(0)
	if len(args) == 2 {
		p, err := asNumber(args[1])
		if err != nil {
			return nil, err
		}
		places = int32(p.IntPart())
	}
	return d.Round(places), nil
}

func mod(args []any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	return arithmetic(sqlexpr.OpModulo, args[0], args[1])
}

func extreme(sign int) function {
	return func(args []any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: no arguments", ErrTypeMismatch)
		}
		best := args[0]
		for _, a := range args[1:] {
			c, err := compare(a, best)
			if err != nil {
				return nil, err
			}
			if c*sign > 0 {
				best = a
			}
		}
		return best, nil
	}
}
