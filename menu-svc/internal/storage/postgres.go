package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"partyorder/menu-svc/internal/domain"
	"partyorder/menu-svc/internal/service"

	"github.com/jmoiron/sqlx"
)

// PostgresStore is the service.Store backed by PostgreSQL. Outside WithTx
// every call runs in its own implicit transaction.
type PostgresStore struct {
	*PostgresRepository
	DB *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{PostgresRepository: &PostgresRepository{ext: db}, DB: db}
}

func (s *PostgresStore) WithTx(ctx context.Context, fn func(repo service.MenuRepository) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&PostgresRepository{ext: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type PostgresRepository struct {
	ext sqlx.ExtContext
}

const (
	eventColumns    = "id, user_id, slug, title, restaurant_name, status, menu_json, created_at"
	categoryColumns = "id, event_id, key, name, parent_id, type, sort, is_hidden"
	itemColumns     = "id, event_id, category_id, category, sub_category, code, name, description, price, is_veg, is_vegan, is_drink, is_hidden, tags, sort_order"
	bundleColumns   = "id, event_id, code, name, description, price"
)

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateEvent(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, user_id, slug, title, restaurant_name, status, menu_json, created_at)
		VALUES (:id, :user_id, :slug, :title, :restaurant_name, :status, :menu_json, :created_at)`
	_, err := sqlx.NamedExecContext(ctx, r.ext, query, event)
	return err
}

func (r *PostgresRepository) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	var event domain.Event
	err := sqlx.GetContext(ctx, r.ext, &event, "SELECT "+eventColumns+" FROM events WHERE id = $1", eventID)
	if err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

func (r *PostgresRepository) UpdateEventMenu(ctx context.Context, eventID string, menuJSON []byte, restaurantName *string) error {
	res, err := r.ext.ExecContext(ctx,
		"UPDATE events SET menu_json = $1::jsonb, restaurant_name = COALESCE($2, restaurant_name) WHERE id = $3",
		string(menuJSON), restaurantName, eventID)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *PostgresRepository) WipeMenu(ctx context.Context, eventID string) error {
	statements := []string{
		"DELETE FROM bundle_lines WHERE bundle_id IN (SELECT id FROM bundles WHERE event_id = $1)",
		"DELETE FROM bundles WHERE event_id = $1",
		"DELETE FROM menu_item_options WHERE item_id IN (SELECT id FROM menu_items WHERE event_id = $1)",
		"DELETE FROM menu_item_images WHERE item_id IN (SELECT id FROM menu_items WHERE event_id = $1)",
		"DELETE FROM menu_items WHERE event_id = $1",
		"DELETE FROM categories WHERE event_id = $1",
	}
	for _, stmt := range statements {
		if _, err := r.ext.ExecContext(ctx, stmt, eventID); err != nil {
			return fmt.Errorf("wipe menu `%s`: %w", stmt, err)
		}
	}
	return nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, event_id, key, name, parent_id, type, sort, is_hidden)
		VALUES (:id, :event_id, :key, :name, :parent_id, :type, :sort, :is_hidden)`
	_, err := sqlx.NamedExecContext(ctx, r.ext, query, category)
	return err
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	err := sqlx.GetContext(ctx, r.ext, &category, "SELECT "+categoryColumns+" FROM categories WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (r *PostgresRepository) FindTopLevelCategoryByName(ctx context.Context, eventID, name, excludeID string) (*domain.Category, error) {
	var category domain.Category
	err := sqlx.GetContext(ctx, r.ext, &category, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE event_id = $1 AND name = $2 AND parent_id IS NULL AND id <> $3
		ORDER BY sort, id
		LIMIT 1`, eventID, name, excludeID)
	if err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context, eventID string) ([]domain.Category, error) {
	categories := []domain.Category{}
	err := sqlx.SelectContext(ctx, r.ext, &categories,
		"SELECT "+categoryColumns+" FROM categories WHERE event_id = $1 ORDER BY sort, name", eventID)
	return categories, err
}

func (r *PostgresRepository) ListChildCategories(ctx context.Context, parentID string) ([]domain.Category, error) {
	categories := []domain.Category{}
	err := sqlx.SelectContext(ctx, r.ext, &categories,
		"SELECT "+categoryColumns+" FROM categories WHERE parent_id = $1 ORDER BY sort, name", parentID)
	return categories, err
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = :name, parent_id = :parent_id, sort = :sort, is_hidden = :is_hidden
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, r.ext, query, category)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.ext.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	query := `
		INSERT INTO menu_items (` + itemColumns + `)
		VALUES (:id, :event_id, :category_id, :category, :sub_category, :code, :name, :description, :price,
			:is_veg, :is_vegan, :is_drink, :is_hidden, :tags, :sort_order)`
	_, err := sqlx.NamedExecContext(ctx, r.ext, query, item)
	return err
}

func (r *PostgresRepository) CreateMenuItemImages(ctx context.Context, images []domain.MenuItemImage) error {
	if len(images) == 0 {
		return nil
	}
	_, err := sqlx.NamedExecContext(ctx, r.ext,
		"INSERT INTO menu_item_images (id, item_id, url, sort) VALUES (:id, :item_id, :url, :sort)", images)
	return err
}

func (r *PostgresRepository) CreateMenuItemOptions(ctx context.Context, options []domain.MenuItemOption) error {
	if len(options) == 0 {
		return nil
	}
	_, err := sqlx.NamedExecContext(ctx, r.ext,
		"INSERT INTO menu_item_options (id, item_id, label, meta_qty, price, sort) VALUES (:id, :item_id, :label, :meta_qty, :price, :sort)",
		options)
	return err
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := sqlx.GetContext(ctx, r.ext, &item, "SELECT "+itemColumns+" FROM menu_items WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err)
	}
	items := []domain.MenuItem{item}
	if err := r.attachItemDetails(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, eventID string) ([]domain.MenuItem, error) {
	items := []domain.MenuItem{}
	err := sqlx.SelectContext(ctx, r.ext, &items,
		"SELECT "+itemColumns+" FROM menu_items WHERE event_id = $1 ORDER BY sort_order, name", eventID)
	if err != nil {
		return nil, err
	}
	if err := r.attachItemDetails(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachItemDetails loads images and options of items with one query each.
func (r *PostgresRepository) attachItemDetails(ctx context.Context, items []domain.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
		items[i].Images = []domain.MenuItemImage{}
		items[i].Options = []domain.MenuItemOption{}
	}

	query, args, err := sqlx.In("SELECT id, item_id, url, sort FROM menu_item_images WHERE item_id IN (?) ORDER BY sort", ids)
	if err != nil {
		return err
	}
	var images []domain.MenuItemImage
	if err := sqlx.SelectContext(ctx, r.ext, &images, r.ext.Rebind(query), args...); err != nil {
		return err
	}

	query, args, err = sqlx.In("SELECT id, item_id, label, meta_qty, price, sort FROM menu_item_options WHERE item_id IN (?) ORDER BY sort", ids)
	if err != nil {
		return err
	}
	var options []domain.MenuItemOption
	if err := sqlx.SelectContext(ctx, r.ext, &options, r.ext.Rebind(query), args...); err != nil {
		return err
	}

	index := make(map[string]int, len(items))
	for i := range items {
		index[items[i].ID] = i
	}
	for _, img := range images {
		if i, ok := index[img.ItemID]; ok {
			items[i].Images = append(items[i].Images, img)
		}
	}
	for _, opt := range options {
		if i, ok := index[opt.ItemID]; ok {
			items[i].Options = append(items[i].Options, opt)
		}
	}
	return nil
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	query := `
		UPDATE menu_items
		SET category_id = :category_id, category = :category, sub_category = :sub_category,
			code = :code, name = :name, description = :description, price = :price,
			is_veg = :is_veg, is_vegan = :is_vegan, is_drink = :is_drink, is_hidden = :is_hidden,
			tags = :tags, sort_order = :sort_order
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, r.ext, query, item)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id string) error {
	res, err := r.ext.ExecContext(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func (r *PostgresRepository) SetItemLabels(ctx context.Context, categoryID, category string, subCategory *string) (int64, error) {
	res, err := r.ext.ExecContext(ctx,
		"UPDATE menu_items SET category = $1, sub_category = $2 WHERE category_id = $3",
		category, subCategory, categoryID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) ReassignItems(ctx context.Context, fromCategoryIDs []string, targetID, targetName string) (int64, error) {
	if len(fromCategoryIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(
		"UPDATE menu_items SET category_id = ?, category = ?, sub_category = NULL WHERE category_id IN (?)",
		targetID, targetName, fromCategoryIDs)
	if err != nil {
		return 0, err
	}
	res, err := r.ext.ExecContext(ctx, r.ext.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) DeleteItemsInCategories(ctx context.Context, categoryIDs []string) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In("DELETE FROM menu_items WHERE category_id IN (?)", categoryIDs)
	if err != nil {
		return 0, err
	}
	res, err := r.ext.ExecContext(ctx, r.ext.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) CreateBundle(ctx context.Context, bundle *domain.Bundle) error {
	query := `
		INSERT INTO bundles (id, event_id, code, name, description, price)
		VALUES (:id, :event_id, :code, :name, :description, :price)`
	_, err := sqlx.NamedExecContext(ctx, r.ext, query, bundle)
	return err
}

func (r *PostgresRepository) CreateBundleLines(ctx context.Context, lines []domain.BundleLine) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := sqlx.NamedExecContext(ctx, r.ext,
		"INSERT INTO bundle_lines (id, bundle_id, label, qty, note, sort) VALUES (:id, :bundle_id, :label, :qty, :note, :sort)",
		lines)
	return err
}

func (r *PostgresRepository) ListBundles(ctx context.Context, eventID string) ([]domain.Bundle, error) {
	bundles := []domain.Bundle{}
	err := sqlx.SelectContext(ctx, r.ext, &bundles,
		"SELECT "+bundleColumns+" FROM bundles WHERE event_id = $1 ORDER BY code, name", eventID)
	if err != nil || len(bundles) == 0 {
		return bundles, err
	}

	var lines []domain.BundleLine
	err = sqlx.SelectContext(ctx, r.ext, &lines, `
		SELECT l.id, l.bundle_id, l.label, l.qty, l.note, l.sort
		FROM bundle_lines l
		JOIN bundles b ON b.id = l.bundle_id
		WHERE b.event_id = $1
		ORDER BY l.sort`, eventID)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(bundles))
	for i := range bundles {
		index[bundles[i].ID] = i
		bundles[i].Lines = []domain.BundleLine{}
	}
	for _, line := range lines {
		if i, ok := index[line.BundleID]; ok {
			bundles[i].Lines = append(bundles[i].Lines, line)
		}
	}
	return bundles, nil
}

var _ service.Store = (*PostgresStore)(nil)
