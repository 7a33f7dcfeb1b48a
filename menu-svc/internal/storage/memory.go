package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"partyorder/menu-svc/internal/domain"
	"partyorder/menu-svc/internal/service"
)

// MemoryStore keeps every table in process memory. WithTx works on a copy of
// the data and swaps it in only when fn succeeds, so a failed unit of work
// leaves nothing behind. Transactions are serialized.
type MemoryStore struct {
	*MemoryRepository
	mu sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.MemoryRepository = &MemoryRepository{data: &memoryData{}, mu: &s.mu}
	return s
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(repo service.MenuRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.data.clone()
	if err := fn(&MemoryRepository{data: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

type memoryData struct {
	events      []domain.Event
	categories  []domain.Category
	items       []domain.MenuItem
	images      []domain.MenuItemImage
	options     []domain.MenuItemOption
	bundles     []domain.Bundle
	bundleLines []domain.BundleLine
}

func (d *memoryData) clone() *memoryData {
	return &memoryData{
		events:      slices.Clone(d.events),
		categories:  slices.Clone(d.categories),
		items:       slices.Clone(d.items),
		images:      slices.Clone(d.images),
		options:     slices.Clone(d.options),
		bundles:     slices.Clone(d.bundles),
		bundleLines: slices.Clone(d.bundleLines),
	}
}

// MemoryRepository locks mu around each call when it is set. Inside a
// transaction the store lock is already held and mu is nil.
type MemoryRepository struct {
	data *memoryData
	mu   *sync.Mutex
}

func (r *MemoryRepository) lock() func() {
	if r.mu == nil {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *MemoryRepository) CreateEvent(_ context.Context, event *domain.Event) error {
	defer r.lock()()
	r.data.events = append(r.data.events, *event)
	return nil
}

func (r *MemoryRepository) GetEvent(_ context.Context, eventID string) (*domain.Event, error) {
	defer r.lock()()
	i := slices.IndexFunc(r.data.events, func(e domain.Event) bool { return e.ID == eventID })
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	event := r.data.events[i]
	return &event, nil
}

func (r *MemoryRepository) UpdateEventMenu(_ context.Context, eventID string, menuJSON []byte, restaurantName *string) error {
	defer r.lock()()
	i := slices.IndexFunc(r.data.events, func(e domain.Event) bool { return e.ID == eventID })
	if i < 0 {
		return domain.ErrNotFound
	}
	r.data.events[i].MenuJSON.JSONText = slices.Clone(menuJSON)
	r.data.events[i].MenuJSON.Valid = true
	if restaurantName != nil {
		name := *restaurantName
		r.data.events[i].RestaurantName = &name
	}
	return nil
}

func (r *MemoryRepository) WipeMenu(_ context.Context, eventID string) error {
	defer r.lock()()
	d := r.data

	bundleIDs := map[string]bool{}
	for _, b := range d.bundles {
		if b.EventID == eventID {
			bundleIDs[b.ID] = true
		}
	}
	itemIDs := map[string]bool{}
	for _, it := range d.items {
		if it.EventID == eventID {
			itemIDs[it.ID] = true
		}
	}

	d.bundleLines = slices.DeleteFunc(d.bundleLines, func(l domain.BundleLine) bool { return bundleIDs[l.BundleID] })
	d.bundles = slices.DeleteFunc(d.bundles, func(b domain.Bundle) bool { return b.EventID == eventID })
	d.options = slices.DeleteFunc(d.options, func(o domain.MenuItemOption) bool { return itemIDs[o.ItemID] })
	d.images = slices.DeleteFunc(d.images, func(img domain.MenuItemImage) bool { return itemIDs[img.ItemID] })
	d.items = slices.DeleteFunc(d.items, func(it domain.MenuItem) bool { return it.EventID == eventID })
	d.categories = slices.DeleteFunc(d.categories, func(c domain.Category) bool { return c.EventID == eventID })
	return nil
}

func (r *MemoryRepository) CreateCategory(_ context.Context, category *domain.Category) error {
	defer r.lock()()
	stored := *category
	stored.Children = nil
	r.data.categories = append(r.data.categories, stored)
	return nil
}

func (r *MemoryRepository) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	defer r.lock()()
	i := slices.IndexFunc(r.data.categories, func(c domain.Category) bool { return c.ID == id })
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	category := r.data.categories[i]
	return &category, nil
}

func (r *MemoryRepository) FindTopLevelCategoryByName(_ context.Context, eventID, name, excludeID string) (*domain.Category, error) {
	defer r.lock()()
	var found *domain.Category
	for _, c := range r.data.categories {
		if c.EventID != eventID || c.Name != name || c.ParentID != nil || c.ID == excludeID {
			continue
		}
		if found == nil || c.Sort < found.Sort || (c.Sort == found.Sort && c.ID < found.ID) {
			match := c
			found = &match
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

func (r *MemoryRepository) ListCategories(_ context.Context, eventID string) ([]domain.Category, error) {
	defer r.lock()()
	return r.categoriesWhere(func(c domain.Category) bool { return c.EventID == eventID }), nil
}

func (r *MemoryRepository) ListChildCategories(_ context.Context, parentID string) ([]domain.Category, error) {
	defer r.lock()()
	return r.categoriesWhere(func(c domain.Category) bool { return c.ParentID != nil && *c.ParentID == parentID }), nil
}

func (r *MemoryRepository) categoriesWhere(match func(domain.Category) bool) []domain.Category {
	out := []domain.Category{}
	for _, c := range r.data.categories {
		if match(c) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Category) int {
		return cmp.Or(cmp.Compare(a.Sort, b.Sort), cmp.Compare(a.Name, b.Name))
	})
	return out
}

func (r *MemoryRepository) UpdateCategory(_ context.Context, category *domain.Category) error {
	defer r.lock()()
	i := slices.IndexFunc(r.data.categories, func(c domain.Category) bool { return c.ID == category.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	stored := &r.data.categories[i]
	stored.Name = category.Name
	stored.ParentID = category.ParentID
	stored.Sort = category.Sort
	stored.IsHidden = category.IsHidden
	return nil
}

func (r *MemoryRepository) DeleteCategory(_ context.Context, id string) error {
	defer r.lock()()
	before := len(r.data.categories)
	r.data.categories = slices.DeleteFunc(r.data.categories, func(c domain.Category) bool { return c.ID == id })
	if len(r.data.categories) == before {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MemoryRepository) CreateMenuItem(_ context.Context, item *domain.MenuItem) error {
	defer r.lock()()
	stored := *item
	stored.Images, stored.Options = nil, nil
	r.data.items = append(r.data.items, stored)
	return nil
}

func (r *MemoryRepository) CreateMenuItemImages(_ context.Context, images []domain.MenuItemImage) error {
	defer r.lock()()
	r.data.images = append(r.data.images, images...)
	return nil
}

func (r *MemoryRepository) CreateMenuItemOptions(_ context.Context, options []domain.MenuItemOption) error {
	defer r.lock()()
	r.data.options = append(r.data.options, options...)
	return nil
}

func (r *MemoryRepository) GetMenuItem(_ context.Context, id string) (*domain.MenuItem, error) {
	defer r.lock()()
	i := slices.IndexFunc(r.data.items, func(it domain.MenuItem) bool { return it.ID == id })
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	item := r.withDetails(r.data.items[i])
	return &item, nil
}

func (r *MemoryRepository) ListMenuItems(_ context.Context, eventID string) ([]domain.MenuItem, error) {
	defer r.lock()()
	out := []domain.MenuItem{}
	for _, it := range r.data.items {
		if it.EventID == eventID {
			out = append(out, r.withDetails(it))
		}
	}
	slices.SortStableFunc(out, func(a, b domain.MenuItem) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (r *MemoryRepository) withDetails(item domain.MenuItem) domain.MenuItem {
	item.Images = []domain.MenuItemImage{}
	item.Options = []domain.MenuItemOption{}
	for _, img := range r.data.images {
		if img.ItemID == item.ID {
			item.Images = append(item.Images, img)
		}
	}
	for _, opt := range r.data.options {
		if opt.ItemID == item.ID {
			item.Options = append(item.Options, opt)
		}
	}
	slices.SortStableFunc(item.Images, func(a, b domain.MenuItemImage) int { return cmp.Compare(a.Sort, b.Sort) })
	slices.SortStableFunc(item.Options, func(a, b domain.MenuItemOption) int { return cmp.Compare(a.Sort, b.Sort) })
	return item
}

func (r *MemoryRepository) UpdateMenuItem(_ context.Context, item *domain.MenuItem) error {
	defer r.lock()()
	i := slices.IndexFunc(r.data.items, func(it domain.MenuItem) bool { return it.ID == item.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	stored := *item
	stored.Images, stored.Options = nil, nil
	r.data.items[i] = stored
	return nil
}

func (r *MemoryRepository) DeleteMenuItem(_ context.Context, id string) error {
	defer r.lock()()
	if r.deleteItems(func(it domain.MenuItem) bool { return it.ID == id }) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// deleteItems removes matching items together with their images and options.
func (r *MemoryRepository) deleteItems(match func(domain.MenuItem) bool) int64 {
	removed := map[string]bool{}
	r.data.items = slices.DeleteFunc(r.data.items, func(it domain.MenuItem) bool {
		if match(it) {
			removed[it.ID] = true
			return true
		}
		return false
	})
	r.data.images = slices.DeleteFunc(r.data.images, func(img domain.MenuItemImage) bool { return removed[img.ItemID] })
	r.data.options = slices.DeleteFunc(r.data.options, func(o domain.MenuItemOption) bool { return removed[o.ItemID] })
	return int64(len(removed))
}

func (r *MemoryRepository) SetItemLabels(_ context.Context, categoryID, category string, subCategory *string) (int64, error) {
	defer r.lock()()
	var n int64
	for i := range r.data.items {
		if r.data.items[i].CategoryID == categoryID {
			r.data.items[i].Category = category
			r.data.items[i].SubCategory = subCategory
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) ReassignItems(_ context.Context, fromCategoryIDs []string, targetID, targetName string) (int64, error) {
	defer r.lock()()
	var n int64
	for i := range r.data.items {
		if slices.Contains(fromCategoryIDs, r.data.items[i].CategoryID) {
			r.data.items[i].CategoryID = targetID
			r.data.items[i].Category = targetName
			r.data.items[i].SubCategory = nil
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) DeleteItemsInCategories(_ context.Context, categoryIDs []string) (int64, error) {
	defer r.lock()()
	return r.deleteItems(func(it domain.MenuItem) bool { return slices.Contains(categoryIDs, it.CategoryID) }), nil
}

func (r *MemoryRepository) CreateBundle(_ context.Context, bundle *domain.Bundle) error {
	defer r.lock()()
	stored := *bundle
	stored.Lines = nil
	r.data.bundles = append(r.data.bundles, stored)
	return nil
}

func (r *MemoryRepository) CreateBundleLines(_ context.Context, lines []domain.BundleLine) error {
	defer r.lock()()
	r.data.bundleLines = append(r.data.bundleLines, lines...)
	return nil
}

func (r *MemoryRepository) ListBundles(_ context.Context, eventID string) ([]domain.Bundle, error) {
	defer r.lock()()
	out := []domain.Bundle{}
	for _, b := range r.data.bundles {
		if b.EventID != eventID {
			continue
		}
		b.Lines = []domain.BundleLine{}
		for _, l := range r.data.bundleLines {
			if l.BundleID == b.ID {
				b.Lines = append(b.Lines, l)
			}
		}
		slices.SortStableFunc(b.Lines, func(x, y domain.BundleLine) int { return cmp.Compare(x.Sort, y.Sort) })
		out = append(out, b)
	}
	slices.SortStableFunc(out, func(a, b domain.Bundle) int {
		return cmp.Or(cmp.Compare(a.Code, b.Code), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

var _ service.Store = (*MemoryStore)(nil)
