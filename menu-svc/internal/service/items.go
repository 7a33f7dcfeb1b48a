package service

import (
	"context"
	"errors"
	"strings"

	"partyorder/menu-svc/internal/domain"
	"partyorder/menu-svc/internal/parser"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ItemService struct {
	store    Store
	notifier notifier
	logger   *zap.Logger
}

func NewItemService(store Store, revalidator Revalidator, logger *zap.Logger) *ItemService {
	return &ItemService{
		store:    store,
		notifier: notifier{revalidator: revalidator, logger: logger},
		logger:   logger,
	}
}

func (s *ItemService) List(ctx context.Context, userID, eventID string) ([]domain.MenuItem, error) {
	if _, err := authorizeEvent(ctx, s.store, userID, eventID); err != nil {
		return nil, err
	}
	return s.store.ListMenuItems(ctx, eventID)
}

// Create adds one item. Without a categoryId the item lands in the top-level
// category named by input.Category, which is created when missing.
func (s *ItemService) Create(ctx context.Context, userID, eventID string, input domain.MenuItemInput) (*domain.MenuItem, error) {
	if err := validateItemInput(input, true); err != nil {
		return nil, err
	}

	var item *domain.MenuItem
	err := s.store.WithTx(ctx, func(repo MenuRepository) error {
		if _, err := authorizeEvent(ctx, repo, userID, eventID); err != nil {
			return err
		}
		category, parent, err := resolveItemCategory(ctx, repo, eventID, input)
		if err != nil {
			return err
		}

		item = &domain.MenuItem{ID: uuid.New().String(), EventID: eventID}
		applyItemInput(item, input, category, parent)
		return repo.CreateMenuItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("menu item created", zap.String("event_id", eventID), zap.String("item_id", item.ID))
	s.notifier.menuStale(eventID, "item_created")
	return item, nil
}

// Update replaces the editable fields of an item. Images and options are kept.
func (s *ItemService) Update(ctx context.Context, userID, id string, input domain.MenuItemInput) (*domain.MenuItem, error) {
	if err := validateItemInput(input, false); err != nil {
		return nil, err
	}

	var item *domain.MenuItem
	err := s.store.WithTx(ctx, func(repo MenuRepository) error {
		current, err := repo.GetMenuItem(ctx, id)
		if err != nil {
			return err
		}
		if _, err := authorizeEvent(ctx, repo, userID, current.EventID); err != nil {
			return err
		}

		if input.CategoryID == "" && strings.TrimSpace(input.Category) == "" {
			input.CategoryID = current.CategoryID
		}
		category, parent, err := resolveItemCategory(ctx, repo, current.EventID, input)
		if err != nil {
			return err
		}

		applyItemInput(current, input, category, parent)
		item = current
		return repo.UpdateMenuItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("menu item updated", zap.String("item_id", id))
	s.notifier.menuStale(item.EventID, "item_updated")
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, userID, id string) error {
	item, err := s.store.GetMenuItem(ctx, id)
	if err != nil {
		return err
	}
	if _, err := authorizeEvent(ctx, s.store, userID, item.EventID); err != nil {
		return err
	}
	if err := s.store.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	s.notifier.menuStale(item.EventID, "item_deleted")
	return nil
}

func validateItemInput(input domain.MenuItemInput, create bool) error {
	var violations []domain.Violation
	if strings.TrimSpace(input.Code) == "" {
		violations = append(violations, domain.Violation{Path: "code", Message: "required"})
	}
	if strings.TrimSpace(input.Name) == "" {
		violations = append(violations, domain.Violation{Path: "name", Message: "required"})
	}
	if create && input.CategoryID == "" && strings.TrimSpace(input.Category) == "" {
		violations = append(violations, domain.Violation{Path: "categoryId", Message: "required"})
	}
	if input.Price != nil && input.Price.IsNegative() {
		violations = append(violations, domain.Violation{Path: "price", Message: "price cannot be negative"})
	}
	if len(violations) > 0 {
		return &domain.SchemaInvalidError{Violations: violations}
	}
	return nil
}

// resolveItemCategory returns the item's category and, for a subcategory,
// its parent.
func resolveItemCategory(ctx context.Context, repo MenuRepository, eventID string, input domain.MenuItemInput) (*domain.Category, *domain.Category, error) {
	if input.CategoryID == "" {
		category, err := findOrCreateTopLevel(ctx, repo, eventID, strings.TrimSpace(input.Category))
		return category, nil, err
	}

	category, err := repo.GetCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, nil, err
	}
	if category.EventID != eventID {
		return nil, nil, domain.ErrNotFound
	}
	if !category.IsSub() {
		return category, nil, nil
	}
	parent, err := repo.GetCategory(ctx, *category.ParentID)
	if isNotFound(err) {
		return nil, nil, domain.ErrInconsistentState
	}
	if err != nil {
		return nil, nil, err
	}
	return category, parent, nil
}

func findOrCreateTopLevel(ctx context.Context, repo MenuRepository, eventID, name string) (*domain.Category, error) {
	category, err := repo.FindTopLevelCategoryByName(ctx, eventID, name, "")
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	category = &domain.Category{
		ID:      uuid.New().String(),
		EventID: eventID,
		Key:     parser.CategoryKey(name),
		Name:    name,
		Type:    domain.CategoryFood,
	}
	if err := repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func applyItemInput(item *domain.MenuItem, input domain.MenuItemInput, category, parent *domain.Category) {
	item.CategoryID = category.ID
	item.Category, item.SubCategory = categoryLabels(category, parent)
	item.Code = strings.TrimSpace(input.Code)
	item.Name = strings.TrimSpace(input.Name)
	item.Description = input.Description
	item.Price = decimal.NullDecimal{}
	if input.Price != nil {
		item.Price = decimal.NewNullDecimal(*input.Price)
	}
	item.IsVeg = input.IsVeg
	item.IsVegan = input.IsVegan
	item.IsHidden = input.IsHidden
	item.IsDrink = category.Type == domain.CategoryDrink
	item.Tags = append([]string{}, input.Tags...)
	item.SortOrder = input.SortOrder
}
