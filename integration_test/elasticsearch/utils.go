//go:build integration

package elasticsearch

import (
	"database/sql"
	"fmt"
	"time"
)

func seedCatalog(path string, records int) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE products (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		description TEXT,
		created_at DATETIME NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}

	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= records; i++ {
		if _, err := db.Exec(
			"INSERT INTO products (id, name, price, description, created_at) VALUES (?, ?, ?, ?, ?)",
			i,
			fmt.Sprintf("Product %d", i),
			float64(i)+0.5,
			fmt.Sprintf("Description of product %d", i),
			createdAt.Add(time.Duration(i)*time.Hour),
		); err != nil {
			return fmt.Errorf("failed to insert product %d: %w", i, err)
		}
	}
	return nil
}
