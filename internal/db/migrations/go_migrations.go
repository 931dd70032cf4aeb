// Package migrations holds the Go migrations whose DDL differs per database
// driver. Plain SQL migrations live next to them and are embedded by the
// parent db package.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}
