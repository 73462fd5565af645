package sqlgen

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nlstn/go-sqltranslate/sqlexpr"
)

// DialectorFlavor returns the flavor of db's dialector. A nil dialector is
// treated as sqlite.
func DialectorFlavor(db *gorm.DB) (Flavor, error) {
	if db == nil || db.Dialector == nil {
		return SQLite, nil
	}
	f, ok := FlavorFor(db.Dialector.Name())
	if !ok {
		return "", &UnknownFlavorError{Name: db.Dialector.Name()}
	}
	return f, nil
}

// Expr renders n for the flavor of db.
func Expr(db *gorm.DB, n sqlexpr.Node, params map[string]any) (clause.Expr, error) {
	f, err := DialectorFlavor(db)
	if err != nil {
		return clause.Expr{}, err
	}
	return Render(n, Options{Flavor: f, Params: params})
}

// Where adds the predicate n to db's WHERE clause.
func Where(db *gorm.DB, n sqlexpr.Node, params map[string]any) (*gorm.DB, error) {
	expr, err := Expr(db, n, params)
	if err != nil {
		return db, fmt.Errorf("rendering filter: %w", err)
	}
	return db.Where(expr), nil
}
