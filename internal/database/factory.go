package database

import (
	"fmt"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/database/mysql"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/database/postgres"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/database/sqlite"
)

func NewAdapter(provider string) (DatabaseAdapter, error) {
	switch provider {
	case "postgresql", "postgres":
		return postgres.New(), nil
	case "mysql":
		return mysql.New(), nil
	case "sqlite", "sqlite3":
		return sqlite.New(), nil
	default:
		return nil, fmt.Errorf("unsupported database provider: %s", provider)
	}
}
