package service

import (
	"context"
	"io"

	"partyorder/menu-svc/internal/domain"
)

// MenuRepository is the persistence surface of one unit of work. Lookups
// return domain.ErrNotFound when the row does not exist.
type MenuRepository interface {
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvent(ctx context.Context, eventID string) (*domain.Event, error)
	UpdateEventMenu(ctx context.Context, eventID string, menuJSON []byte, restaurantName *string) error

	// WipeMenu deletes bundle lines, bundles, item options, item images,
	// items and categories of an event, in that order.
	WipeMenu(ctx context.Context, eventID string) error

	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	// FindTopLevelCategoryByName skips the category with id excludeID.
	FindTopLevelCategoryByName(ctx context.Context, eventID, name, excludeID string) (*domain.Category, error)
	ListCategories(ctx context.Context, eventID string) ([]domain.Category, error)
	ListChildCategories(ctx context.Context, parentID string) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error

	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	CreateMenuItemImages(ctx context.Context, images []domain.MenuItemImage) error
	CreateMenuItemOptions(ctx context.Context, options []domain.MenuItemOption) error
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
	ListMenuItems(ctx context.Context, eventID string) ([]domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, id string) error

	// SetItemLabels rewrites the denormalized labels of every item in categoryID.
	SetItemLabels(ctx context.Context, categoryID, category string, subCategory *string) (int64, error)
	// ReassignItems moves every item of the given categories to target and clears SubCategory.
	ReassignItems(ctx context.Context, fromCategoryIDs []string, targetID, targetName string) (int64, error)
	DeleteItemsInCategories(ctx context.Context, categoryIDs []string) (int64, error)

	CreateBundle(ctx context.Context, bundle *domain.Bundle) error
	CreateBundleLines(ctx context.Context, lines []domain.BundleLine) error
	ListBundles(ctx context.Context, eventID string) ([]domain.Bundle, error)
}

// Store runs fn inside one transaction: either every write of fn becomes
// visible or none does.
type Store interface {
	MenuRepository
	WithTx(ctx context.Context, fn func(repo MenuRepository) error) error
}

type MenuCache interface {
	GetMenuJSON(ctx context.Context, eventID string) ([]byte, bool, error)
	SetMenuJSON(ctx context.Context, eventID string, menuJSON []byte) error
	Invalidate(ctx context.Context, eventID string) error
}

// Revalidator receives the "menu view is stale" signal.
type Revalidator interface {
	MenuStale(ctx context.Context, eventID, reason string) error
}

type TextExtractor interface {
	ExtractText(ctx context.Context, filename string, pdf io.Reader) (string, error)
}

type MenuServiceInterface interface {
	ImportDocument(ctx context.Context, userID, eventID string, raw []byte) (*domain.ImportResult, error)
	ImportText(ctx context.Context, userID, eventID, text string) (*domain.ImportResult, error)
	ImportPDF(ctx context.Context, userID, eventID, filename string, pdf io.Reader) (*domain.ImportResult, error)
	SaveMenuJSON(ctx context.Context, userID, eventID string, raw []byte) error
	GetMenuJSON(ctx context.Context, userID, eventID string) ([]byte, error)
	ExportMenu(ctx context.Context, userID, eventID string) (*domain.Document, error)
	DeleteAllMenuItems(ctx context.Context, userID, eventID string) error
	ListBundles(ctx context.Context, userID, eventID string) ([]domain.Bundle, error)
}

type CategoryServiceInterface interface {
	List(ctx context.Context, userID, eventID string) ([]domain.Category, error)
	Create(ctx context.Context, userID, eventID string, input domain.CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, userID, id string, patch domain.CategoryPatch) (*domain.Category, error)
	Delete(ctx context.Context, userID, id string, mode domain.DeleteMode) error
}

type ItemServiceInterface interface {
	List(ctx context.Context, userID, eventID string) ([]domain.MenuItem, error)
	Create(ctx context.Context, userID, eventID string, input domain.MenuItemInput) (*domain.MenuItem, error)
	Update(ctx context.Context, userID, id string, input domain.MenuItemInput) (*domain.MenuItem, error)
	Delete(ctx context.Context, userID, id string) error
}

type EventServiceInterface interface {
	Create(ctx context.Context, userID string, input domain.EventInput) (*domain.Event, error)
	Get(ctx context.Context, userID, eventID string) (*domain.Event, error)
	QRCode(ctx context.Context, userID, eventID string) ([]byte, error)
}

var (
	_ MenuServiceInterface     = (*MenuService)(nil)
	_ CategoryServiceInterface = (*CategoryService)(nil)
	_ ItemServiceInterface     = (*ItemService)(nil)
	_ EventServiceInterface    = (*EventService)(nil)
)
