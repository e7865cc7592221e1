package store

import (
	"context"
	"database/sql"

	"classtrack/internal/guestbook"
)

// Items is the Postgres-backed guestbook repository.
type Items struct {
	db *sql.DB
}

func NewItems(db *sql.DB) *Items {
	return &Items{db: db}
}

// List returns all items, newest first.
func (r *Items) List(ctx context.Context) ([]guestbook.Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, text FROM items ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []guestbook.Item
	for rows.Next() {
		var it guestbook.Item
		if err := rows.Scan(&it.ID, &it.Text); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts an item and returns it with its assigned id.
func (r *Items) Create(ctx context.Context, text string) (guestbook.Item, error) {
	it := guestbook.Item{Text: text}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO items (text) VALUES ($1) RETURNING id`, text,
	).Scan(&it.ID)
	if err != nil {
		return guestbook.Item{}, err
	}
	return it, nil
}
