package rules

import "github.com/nlstn/go-sqltranslate/types"

// Clock holds the SQL fragments that read the database clock
type Clock struct {
	Now    string
	UtcNow string
	// TimeZoneAware reports whether the fragments already carry an offset
	TimeZoneAware bool
}

// Config holds the dialect tables captured by the built-in rules. A Config is
// read once when the rules are built; later changes to the maps it was built
// from have no effect.
type Config struct {
	Convert   ConvertTable
	ToString  Table[types.Tag]
	DateParts Table[string]
	Math      Table[string]
	Clock     Clock

	TimestampStoreType string
	TimeZoneStoreType  string
	IntegerStoreType   string
	LikeEscape         string
}

// OracleConfig returns the tables of the Oracle family of dialects.
func OracleConfig() Config {
	return Config{
		Convert: NewConvertTable(
			map[types.Tag]string{
				types.Byte:    "NUMBER(3)",
				types.Decimal: "DECIMAL(29,4)",
				types.Float64: "NUMBER",
				types.Int16:   "NUMBER(6)",
				types.Int32:   "NUMBER(10)",
				types.Int64:   "NUMBER(19)",
				types.String:  "NVARCHAR2(2000)",
			},
			[]types.Tag{
				types.Bool, types.Byte, types.Decimal, types.Float64, types.Float32,
				types.Int16, types.Int32, types.Int64, types.String,
			},
		),
		ToString: NewTable(map[types.Tag]string{
			types.Bool:           "VARCHAR2(5)",
			types.Byte:           "VARCHAR2(3)",
			types.SByte:          "VARCHAR2(4)",
			types.Int16:          "VARCHAR2(6)",
			types.UInt16:         "VARCHAR2(5)",
			types.Int32:          "VARCHAR2(11)",
			types.UInt32:         "VARCHAR2(10)",
			types.Int64:          "VARCHAR2(20)",
			types.UInt64:         "VARCHAR2(20)",
			types.Float32:        "VARCHAR2(100)",
			types.Float64:        "VARCHAR2(100)",
			types.Decimal:        "VARCHAR2(100)",
			types.Char:           "VARCHAR2(1)",
			types.DateTime:       "VARCHAR2(100)",
			types.DateTimeOffset: "VARCHAR2(100)",
			types.TimeSpan:       "VARCHAR2(48)",
			types.Guid:           "VARCHAR2(36)",
		}),
		DateParts: NewTable(map[string]string{
			"Year":   "YEAR",
			"Month":  "MONTH",
			"Day":    "DAY",
			"Hour":   "HOUR",
			"Minute": "MINUTE",
			"Second": "SECOND",
		}),
		Math: NewTable(map[string]string{
			"Abs":      "ABS",
			"Ceiling":  "CEIL",
			"Floor":    "FLOOR",
			"Round":    "ROUND",
			"Truncate": "TRUNC",
			"Power":    "POWER",
			"Sqrt":     "SQRT",
			"Sign":     "SIGN",
			"Exp":      "EXP",
			"Log":      "LN",
			"Log10":    "LOG",
			"Max":      "GREATEST",
			"Min":      "LEAST",
		}),
		Clock: Clock{
			Now:    "SYSDATE",
			UtcNow: "SYS_EXTRACT_UTC(SYSTIMESTAMP)",
		},
		TimestampStoreType: "TIMESTAMP",
		TimeZoneStoreType:  "TIMESTAMP WITH TIME ZONE",
		IntegerStoreType:   "NUMBER(10)",
		LikeEscape:         `\`,
	}
}
