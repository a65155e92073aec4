package database

import (
	"fmt"

	"peliculas-api/internal/domain/catalogo"
	"peliculas-api/internal/domain/usuarios"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the postgres handle and migrates the schema. The handle is
// returned to the caller; it is never stored as package state.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates/updates every table, including one table per reference
// kind over the shared Referencia row shape. Exported so tests can run the
// same schema against an in-memory store.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&usuarios.Usuario{},
		&catalogo.Media{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	for _, esq := range catalogo.Esquemas() {
		if err := db.Table(esq.Tabla).AutoMigrate(&catalogo.Referencia{}); err != nil {
			return fmt.Errorf("migrate %s: %w", esq.Tabla, err)
		}
	}

	return nil
}
