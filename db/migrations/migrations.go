package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var files embed.FS

// Run применяет все миграции из встроенной папки sql.
func Run(db *sql.DB) error {
	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations.Run: set dialect: %w", err)
	}
	if err := goose.Up(db, "sql"); err != nil {
		return fmt.Errorf("migrations.Run: %w", err)
	}
	return nil
}

// Reset откатывает все миграции. Используется интеграционными тестами.
func Reset(db *sql.DB) error {
	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations.Reset: set dialect: %w", err)
	}
	if err := goose.Reset(db, "sql"); err != nil {
		return fmt.Errorf("migrations.Reset: %w", err)
	}
	return nil
}
