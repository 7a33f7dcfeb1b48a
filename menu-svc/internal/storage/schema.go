package storage

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		restaurant_name TEXT,
		status TEXT NOT NULL DEFAULT 'DRAFT',
		menu_json JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		key TEXT NOT NULL,
		name TEXT NOT NULL,
		parent_id TEXT REFERENCES categories(id),
		type TEXT NOT NULL DEFAULT 'FOOD',
		sort INTEGER NOT NULL DEFAULT 0,
		is_hidden BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		category_id TEXT NOT NULL REFERENCES categories(id),
		category TEXT NOT NULL,
		sub_category TEXT,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(10,2),
		is_veg BOOLEAN NOT NULL DEFAULT FALSE,
		is_vegan BOOLEAN NOT NULL DEFAULT FALSE,
		is_drink BOOLEAN NOT NULL DEFAULT FALSE,
		is_hidden BOOLEAN NOT NULL DEFAULT FALSE,
		tags TEXT[] NOT NULL DEFAULT '{}',
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS menu_item_options (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
		label TEXT NOT NULL,
		meta_qty TEXT,
		price NUMERIC(10,2) NOT NULL,
		sort INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS menu_item_images (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		sort INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS bundles (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(10,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bundle_lines (
		id TEXT PRIMARY KEY,
		bundle_id TEXT NOT NULL REFERENCES bundles(id) ON DELETE CASCADE,
		label TEXT NOT NULL,
		qty INTEGER NOT NULL DEFAULT 1 CHECK (qty >= 1),
		note TEXT,
		sort INTEGER NOT NULL DEFAULT 0
	)`,
	"CREATE INDEX IF NOT EXISTS idx_categories_event ON categories(event_id)",
	"CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(parent_id)",
	"CREATE INDEX IF NOT EXISTS idx_menu_items_event ON menu_items(event_id)",
	"CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items(category_id)",
	"CREATE INDEX IF NOT EXISTS idx_bundles_event ON bundles(event_id)",
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}
