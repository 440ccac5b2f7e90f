// Package migrations applies the embedded goose SQL migrations at startup.
package migrations

import (
	"embed"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

func Apply(db *sqlx.DB) error {
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db.DB, "sql")
}
