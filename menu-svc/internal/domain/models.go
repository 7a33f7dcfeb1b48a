package domain

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type CategoryType string

const (
	CategoryFood  CategoryType = "FOOD"
	CategoryDrink CategoryType = "DRINK"
)

func (t CategoryType) Valid() bool {
	return t == CategoryFood || t == CategoryDrink
}

type EventStatus string

const (
	EventDraft     EventStatus = "DRAFT"
	EventPublished EventStatus = "PUBLISHED"
	EventLocked    EventStatus = "LOCKED"
)

type Event struct {
	ID             string             `db:"id" json:"id"`
	UserID         string             `db:"user_id" json:"user_id"`
	Slug           string             `db:"slug" json:"slug"`
	Title          string             `db:"title" json:"title"`
	RestaurantName *string            `db:"restaurant_name" json:"restaurant_name"`
	Status         EventStatus        `db:"status" json:"status"`
	MenuJSON       types.NullJSONText `db:"menu_json" json:"-"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
}

// Category is either top-level (ParentID nil) or a subcategory of a
// top-level category. Deeper nesting is rejected by the service layer.
type Category struct {
	ID       string       `db:"id" json:"id"`
	EventID  string       `db:"event_id" json:"event_id"`
	Key      string       `db:"key" json:"key"`
	Name     string       `db:"name" json:"name"`
	ParentID *string      `db:"parent_id" json:"parent_id"`
	Type     CategoryType `db:"type" json:"type"`
	Sort     int          `db:"sort" json:"sort"`
	IsHidden bool         `db:"is_hidden" json:"is_hidden"`

	Children []Category `db:"-" json:"children,omitempty"`
}

func (c *Category) IsSub() bool {
	return c.ParentID != nil
}

// MenuItem carries denormalized Category/SubCategory labels that mirror the
// category hierarchy. Only the category synchronizer writes them.
type MenuItem struct {
	ID          string              `db:"id" json:"id"`
	EventID     string              `db:"event_id" json:"event_id"`
	CategoryID  string              `db:"category_id" json:"category_id"`
	Category    string              `db:"category" json:"category"`
	SubCategory *string             `db:"sub_category" json:"sub_category"`
	Code        string              `db:"code" json:"code"`
	Name        string              `db:"name" json:"name"`
	Description *string             `db:"description" json:"description"`
	Price       decimal.NullDecimal `db:"price" json:"price"`
	IsVeg       bool                `db:"is_veg" json:"is_veg"`
	IsVegan     bool                `db:"is_vegan" json:"is_vegan"`
	IsDrink     bool                `db:"is_drink" json:"is_drink"`
	IsHidden    bool                `db:"is_hidden" json:"is_hidden"`
	Tags        pq.StringArray      `db:"tags" json:"tags"`
	SortOrder   int                 `db:"sort_order" json:"sort_order"`

	Images  []MenuItemImage  `db:"-" json:"images"`
	Options []MenuItemOption `db:"-" json:"options"`
}

type MenuItemOption struct {
	ID      string          `db:"id" json:"id"`
	ItemID  string          `db:"item_id" json:"item_id"`
	Label   string          `db:"label" json:"label"`
	MetaQty *string         `db:"meta_qty" json:"meta_qty"`
	Price   decimal.Decimal `db:"price" json:"price"`
	Sort    int             `db:"sort" json:"sort"`
}

type MenuItemImage struct {
	ID     string `db:"id" json:"id"`
	ItemID string `db:"item_id" json:"item_id"`
	URL    string `db:"url" json:"url"`
	Sort   int    `db:"sort" json:"sort"`
}

type Bundle struct {
	ID          string          `db:"id" json:"id"`
	EventID     string          `db:"event_id" json:"event_id"`
	Code        string          `db:"code" json:"code"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`

	Lines []BundleLine `db:"-" json:"lines"`
}

type BundleLine struct {
	ID       string  `db:"id" json:"id"`
	BundleID string  `db:"bundle_id" json:"bundle_id"`
	Label    string  `db:"label" json:"label"`
	Qty      int     `db:"qty" json:"qty"`
	Note     *string `db:"note" json:"note"`
	Sort     int     `db:"sort" json:"sort"`
}

// DeleteMode selects what happens to menu items when their category is removed.
type DeleteMode string

const (
	DeletePreserve DeleteMode = "preserve"
	DeleteWipe     DeleteMode = "wipe"
)

// Nullable distinguishes an absent JSON field from an explicit null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

type CategoryPatch struct {
	Name     *string          `json:"name"`
	ParentID Nullable[string] `json:"parentId"`
	Sort     *int             `json:"sort"`
	IsHidden *bool            `json:"isHidden"`
}

type CategoryInput struct {
	Name     string       `json:"name"`
	ParentID *string      `json:"parentId"`
	Type     CategoryType `json:"type"`
}

type MenuItemInput struct {
	CategoryID  string           `json:"categoryId"`
	Category    string           `json:"category"`
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	IsVeg       bool             `json:"isVeg"`
	IsVegan     bool             `json:"isVegan"`
	IsHidden    bool             `json:"isHidden"`
	Tags        []string         `json:"tags"`
	SortOrder   int              `json:"sortOrder"`
}

type EventInput struct {
	Title          string  `json:"title"`
	RestaurantName *string `json:"restaurantName"`
}

type ImportResult struct {
	Categories int `json:"categories"`
	Items      int `json:"items"`
	Bundles    int `json:"bundles"`
}

type MenuMessage struct {
	Type      string    `json:"type"`
	EventID   string    `json:"event_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

const MenuStaleMessage = "menu_stale"
