package sqleval

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Interval is an exact day-to-second interval held as seconds, so scaling
// by unit factors cannot overflow.
type Interval struct {
	seconds decimal.Decimal
}

var (
	secondsPerDay = decimal.NewFromInt(86400)
	nanosPerSec   = decimal.NewFromInt(int64(time.Second))
)

// IntervalOf returns the interval spanning d.
func IntervalOf(d time.Duration) Interval {
	return Interval{seconds: decimal.New(int64(d), -9)}
}

// Between returns the exact interval from b to a.
func Between(a, b time.Time) Interval {
	secs := decimal.NewFromInt(a.Unix() - b.Unix())
	return Interval{seconds: secs.Add(decimal.New(int64(a.Nanosecond()-b.Nanosecond()), -9))}
}

func intervalOf(d decimal.Decimal, unit decimal.Decimal) Interval {
	return Interval{seconds: d.Mul(unit)}
}

// Seconds returns the interval in (fractional) seconds.
func (i Interval) Seconds() decimal.Decimal { return i.seconds }

// Days returns the interval in (fractional) days.
func (i Interval) Days() decimal.Decimal {
	return i.seconds.Div(secondsPerDay)
}

// Neg returns the interval with its sign flipped.
func (i Interval) Neg() Interval { return Interval{seconds: i.seconds.Neg()} }

// Add returns the sum of both intervals.
func (i Interval) Add(o Interval) Interval { return Interval{seconds: i.seconds.Add(o.seconds)} }

// Cmp compares two intervals like decimal.Decimal.Cmp.
func (i Interval) Cmp(o Interval) int { return i.seconds.Cmp(o.seconds) }

// fields splits the interval into day, hour, minute and second fields, each
// carrying the interval's sign.
func (i Interval) fields() (days, hours, minutes int64, seconds decimal.Decimal) {
	whole := i.seconds.Truncate(0)
	frac := i.seconds.Sub(whole)
	w := whole.IntPart()
	return w / 86400, w % 86400 / 3600, w % 3600 / 60, decimal.NewFromInt(w % 60).Add(frac)
}

// addTo shifts t by the interval; whole days move the calendar date.
func (i Interval) addTo(t time.Time) time.Time {
	days := i.seconds.Div(secondsPerDay).Truncate(0)
	rest := i.seconds.Sub(days.Mul(secondsPerDay))
	return t.AddDate(0, 0, int(days.IntPart())).Add(time.Duration(rest.Mul(nanosPerSec).Round(0).IntPart()))
}

func (i Interval) String() string {
	d, h, m, s := i.fields()
	sign := "+"
	if i.seconds.Sign() < 0 {
		sign = "-"
		d, h, m, s = -d, -h, -m, s.Neg()
	}
	sec := s.StringFixed(0)
	if !s.Equal(s.Truncate(0)) {
		sec = s.String()
	}
	if s.LessThan(decimal.NewFromInt(10)) {
		sec = "0" + sec
	}
	return fmt.Sprintf("%s%d %02d:%02d:%s", sign, d, h, m, sec)
}

// normalize maps Go values onto the evaluator's value domain: nil, bool,
// string, decimal.Decimal, time.Time, Interval and []byte.
func normalize(v any) (any, error) {
	switch v := v.(type) {
	case nil, bool, string, decimal.Decimal, time.Time, Interval, []byte:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int8:
		return decimal.NewFromInt(int64(v)), nil
	case int16:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint:
		return decimal.NewFromUint64(uint64(v)), nil
	case uint8:
		return decimal.NewFromInt(int64(v)), nil
	case uint16:
		return decimal.NewFromInt(int64(v)), nil
	case uint32:
		return decimal.NewFromInt(int64(v)), nil
	case uint64:
		return decimal.NewFromUint64(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case time.Duration:
		return IntervalOf(v), nil
	case uuid.UUID:
		return v.String(), nil
	case []rune:
		return string(v), nil
	case *string:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func asNumber(v any) (decimal.Decimal, error) {
	switch v := v.(type) {
	case decimal.Decimal:
		return v, nil
	case bool:
		if v {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidConversion, v)
		}
		return d, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %T is not a number", ErrTypeMismatch, v)
}

func asString(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case decimal.Decimal:
		return v.String(), nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case time.Time:
		return v.Format("2006-01-02 15:04:05"), nil
	case Interval:
		return v.String(), nil
	}
	return "", fmt.Errorf("%w: %T is not text", ErrTypeMismatch, v)
}

func asTime(v any) (time.Time, error) {
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %T is not a timestamp", ErrTypeMismatch, v)
	}
	return t, nil
}

func asBool(v any) (bool, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case decimal.Decimal:
		return !v.IsZero(), nil
	}
	return false, fmt.Errorf("%w: %T is not a boolean", ErrTypeMismatch, v)
}

// compare orders two non-null values of the same kind.
func compare(a, b any) (int, error) {
	switch a := a.(type) {
	case decimal.Decimal:
		bn, err := asNumber(b)
		if err != nil {
			return 0, err
		}
		return a.Cmp(bn), nil
	case string:
		bs, ok := b.(string)
		if !ok {
			return 0, fmt.Errorf("%w: string vs %T", ErrTypeMismatch, b)
		}
		switch {
		case a < bs:
			return -1, nil
		case a > bs:
			return 1, nil
		}
		return 0, nil
	case time.Time:
		bt, err := asTime(b)
		if err != nil {
			return 0, err
		}
		return a.Compare(bt), nil
	case Interval:
		bi, ok := b.(Interval)
		if !ok {
			return 0, fmt.Errorf("%w: interval vs %T", ErrTypeMismatch, b)
		}
		return a.Cmp(bi), nil
	case bool:
		bb, err := asBool(b)
		if err != nil {
			return 0, err
		}
		if a == bb {
			return 0, nil
		}
		if !a {
			return -1, nil
		}
		return 1, nil
	}
	return 0, fmt.Errorf("%w: cannot compare %T", ErrTypeMismatch, a)
}
