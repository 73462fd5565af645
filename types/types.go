// Package types names the source-language types that appear on call sites,
// member sites and SQL expression nodes.
package types

import (
	"fmt"
	"reflect"
	"strings"
)

// Tag identifies a source-language type (e.g. "int32", "datetime") or a static
// declaring type such as "Convert". A trailing "?" marks a nullable wrapper.
type Tag string

// Primitive and structured value types
const (
	Invalid        Tag = ""
	Bool           Tag = "bool"
	Byte           Tag = "byte"
	SByte          Tag = "sbyte"
	Int16          Tag = "int16"
	UInt16         Tag = "uint16"
	Int32          Tag = "int32"
	UInt32         Tag = "uint32"
	Int64          Tag = "int64"
	UInt64         Tag = "uint64"
	Float32        Tag = "float32"
	Float64        Tag = "float64"
	Decimal        Tag = "decimal"
	Char           Tag = "char"
	String         Tag = "string"
	CharArray      Tag = "char[]"
	DateTime       Tag = "datetime"
	DateTimeOffset Tag = "datetimeoffset"
	Date           Tag = "date"
	Time           Tag = "time"
	TimeSpan       Tag = "timespan"
	Guid           Tag = "guid"
	Binary         Tag = "binary"
	Geometry       Tag = "geometry"
	Object         Tag = "object"
)

// Static declaring types that only appear as the owner of a call site
const (
	Convert     Tag = "Convert"
	Math        Tag = "Math"
	DbFunctions Tag = "DbFunctions"
)

const nullableSuffix = "?"

// Nullable returns the nullable wrapper of t. Wrapping twice is a no-op.
func Nullable(t Tag) Tag {
	if t == Invalid || t.IsNullable() {
		return t
	}
	return t + nullableSuffix
}

// Unwrap strips a nullable wrapper, if any.
func Unwrap(t Tag) Tag {
	return Tag(strings.TrimSuffix(string(t), nullableSuffix))
}

// IsNullable reports whether t is a nullable wrapper.
func (t Tag) IsNullable() bool {
	return strings.HasSuffix(string(t), nullableSuffix)
}

// IsNumeric reports whether the unwrapped type is an integral or floating numeric type.
func (t Tag) IsNumeric() bool {
	switch Unwrap(t) {
	case Byte, SByte, Int16, UInt16, Int32, UInt32, Int64, UInt64, Float32, Float64, Decimal:
		return true
	}
	return false
}

// IsIntegral reports whether the unwrapped type is an integer type.
func (t Tag) IsIntegral() bool {
	switch Unwrap(t) {
	case Byte, SByte, Int16, UInt16, Int32, UInt32, Int64, UInt64:
		return true
	}
	return false
}

// IsTemporal reports whether the unwrapped type is a point-in-time or calendar type.
func (t Tag) IsTemporal() bool {
	switch Unwrap(t) {
	case DateTime, DateTimeOffset, Date:
		return true
	}
	return false
}

// HasTimeZone reports whether values of t carry an offset from UTC.
func (t Tag) HasTimeZone() bool {
	return Unwrap(t) == DateTimeOffset
}

// IsStatic reports whether t is a static declaring type that has no values.
func (t Tag) IsStatic() bool {
	switch t {
	case Convert, Math, DbFunctions:
		return true
	}
	return false
}

func (t Tag) String() string {
	return string(t)
}

// Join renders a parameter shape such as "string,int32".
func Join(tags []Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

var knownTags = map[string]Tag{}

func init() {
	for _, t := range []Tag{
		Bool, Byte, SByte, Int16, UInt16, Int32, UInt32, Int64, UInt64, Float32, Float64,
		Decimal, Char, String, CharArray, DateTime, DateTimeOffset, Date, Time, TimeSpan,
		Guid, Binary, Geometry, Object, Convert, Math, DbFunctions,
	} {
		knownTags[strings.ToLower(string(t))] = t
	}
}

// Parse resolves a type name such as "int32" or "DateTime?" into a Tag.
func Parse(name string) (Tag, error) {
	name = strings.TrimSpace(name)
	nullable := strings.HasSuffix(name, nullableSuffix)
	base, ok := knownTags[strings.ToLower(strings.TrimSuffix(name, nullableSuffix))]
	if !ok {
		return Invalid, fmt.Errorf("unknown type: %s", name)
	}
	if nullable {
		return Nullable(base), nil
	}
	return base, nil
}

// FromGoType infers the type tag of a Go type. Pointers map to nullable tags.
func FromGoType(goType reflect.Type) (Tag, error) {
	if goType == nil {
		return Invalid, fmt.Errorf("nil type")
	}

	if goType.Kind() == reflect.Ptr {
		inner, err := FromGoType(goType.Elem())
		if err != nil {
			return Invalid, err
		}
		return Nullable(inner), nil
	}

	if goType.PkgPath() == "time" && goType.Name() == "Time" {
		return DateTime, nil
	}
	if goType.PkgPath() == "time" && goType.Name() == "Duration" {
		return TimeSpan, nil
	}
	if goType.PkgPath() == "github.com/shopspring/decimal" && goType.Name() == "Decimal" {
		return Decimal, nil
	}
	if goType.PkgPath() == "github.com/google/uuid" && goType.Name() == "UUID" {
		return Guid, nil
	}

	if goType.Kind() == reflect.Slice && goType.Elem().Kind() == reflect.Uint8 {
		return Binary, nil
	}
	if goType.Kind() == reflect.Slice && goType.Elem().Kind() == reflect.Int32 {
		return CharArray, nil
	}

	switch goType.Kind() {
	case reflect.String:
		return String, nil
	case reflect.Bool:
		return Bool, nil
	case reflect.Int8:
		return SByte, nil
	case reflect.Uint8:
		return Byte, nil
	case reflect.Int16:
		return Int16, nil
	case reflect.Uint16:
		return UInt16, nil
	case reflect.Int32:
		return Int32, nil
	case reflect.Uint32:
		return UInt32, nil
	case reflect.Int, reflect.Int64:
		return Int64, nil
	case reflect.Uint, reflect.Uint64:
		return UInt64, nil
	case reflect.Float32:
		return Float32, nil
	case reflect.Float64:
		return Float64, nil
	default:
		return Invalid, fmt.Errorf("unsupported Go type: %s", goType.String())
	}
}

// FromValue infers the type tag of a Go value. A nil value yields Object.
func FromValue(v any) Tag {
	if v == nil {
		return Object
	}
	t, err := FromGoType(reflect.TypeOf(v))
	if err != nil {
		return Object
	}
	return t
}
