package sqlgen

import (
	"strings"
)

// Flavor selects the SQL syntax a rendered expression targets
type Flavor string

const (
	Oracle   Flavor = "oracle"
	SQLite   Flavor = "sqlite"
	Postgres Flavor = "postgres"
)

// Flavors lists the supported flavors in a stable order.
func Flavors() []Flavor {
	return []Flavor{Oracle, Postgres, SQLite}
}

// FlavorFor maps a gorm dialector name onto a flavor.
func FlavorFor(dialector string) (Flavor, bool) {
	switch strings.ToLower(dialector) {
	case "sqlite", "sqlite3":
		return SQLite, true
	case "postgres", "postgresql", "pgx":
		return Postgres, true
	case "oracle", "godror":
		return Oracle, true
	}
	return "", false
}

// ParseFlavor validates a flavor name.
func ParseFlavor(name string) (Flavor, error) {
	f := Flavor(strings.ToLower(name))
	if _, ok := unsupported[f]; !ok {
		return "", &UnknownFlavorError{Name: name}
	}
	return f, nil
}

// unsupported lists the functions each flavor cannot execute. Names ending in
// "_" match by prefix.
var unsupported = map[Flavor][]string{
	Oracle: {"STRFTIME", "DATETIME", "DATE", "GLOB", "STRPOS", "HEX"},
	SQLite: {
		"EXTRACT", "MONTHS_BETWEEN", "ADD_MONTHS", "NUMTODSINTERVAL", "TO_NUMBER", "TO_CHAR",
		"TRUNC", "SYS_GUID", "CONTAINS", "REGEXP_LIKE", "GREATEST", "LEAST", "SDO_",
	},
	Postgres: {
		"STRFTIME", "DATETIME", "MONTHS_BETWEEN", "ADD_MONTHS", "NUMTODSINTERVAL", "SYS_GUID",
		"CONTAINS", "GLOB", "HEX", "UNHEX", "SDO_",
	},
}

func (f Flavor) supports(function string) bool {
	name := strings.ToUpper(function)
	for _, u := range unsupported[f] {
		if strings.HasSuffix(u, "_") && strings.HasPrefix(name, u) {
			return false
		}
		if name == u {
			return false
		}
	}
	return true
}
