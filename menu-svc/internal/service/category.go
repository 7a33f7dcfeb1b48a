package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"partyorder/menu-svc/internal/domain"
	"partyorder/menu-svc/internal/parser"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	GeneralCategoryName = "General"
	GeneralCategoryKey  = "general"
	GeneralCategorySort = 999
)

type CategoryService struct {
	store    Store
	notifier notifier
	logger   *zap.Logger
}

func NewCategoryService(store Store, revalidator Revalidator, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		store:    store,
		notifier: notifier{revalidator: revalidator, logger: logger},
		logger:   logger,
	}
}

// List returns the top-level categories of an event with their children attached.
func (s *CategoryService) List(ctx context.Context, userID, eventID string) ([]domain.Category, error) {
	if _, err := authorizeEvent(ctx, s.store, userID, eventID); err != nil {
		return nil, err
	}
	all, err := s.store.ListCategories(ctx, eventID)
	if err != nil {
		return nil, err
	}

	children := map[string][]domain.Category{}
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}
	tree := make([]domain.Category, 0, len(all))
	for _, c := range all {
		if c.ParentID == nil {
			c.Children = children[c.ID]
			tree = append(tree, c)
		}
	}
	return tree, nil
}

func (s *CategoryService) Create(ctx context.Context, userID, eventID string, input domain.CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &domain.SchemaInvalidError{Violations: []domain.Violation{{Path: "name", Message: "required"}}}
	}
	categoryType := input.Type
	if categoryType == "" {
		categoryType = domain.CategoryFood
	}
	if !categoryType.Valid() {
		return nil, &domain.SchemaInvalidError{Violations: []domain.Violation{{
			Path:    "type",
			Message: fmt.Sprintf("invalid enum value, expected 'FOOD' | 'DRINK', received '%s'", categoryType),
		}}}
	}

	if _, err := authorizeEvent(ctx, s.store, userID, eventID); err != nil {
		return nil, err
	}
	if input.ParentID != nil {
		if _, err := s.topLevelParent(ctx, s.store, eventID, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category := &domain.Category{
		ID:       uuid.New().String(),
		EventID:  eventID,
		Key:      parser.CategoryKey(name),
		Name:     name,
		ParentID: input.ParentID,
		Type:     categoryType,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created", zap.String("event_id", eventID), zap.String("category_id", category.ID))
	s.notifier.menuStale(eventID, "category_created")
	return category, nil
}

// Update applies patch and keeps item labels in step with the new name or
// parent inside the same transaction.
func (s *CategoryService) Update(ctx context.Context, userID, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, &domain.SchemaInvalidError{Violations: []domain.Violation{{Path: "name", Message: "required"}}}
	}

	var (
		updated *domain.Category
		synced  int64
	)
	err := s.store.WithTx(ctx, func(repo MenuRepository) error {
		category, err := repo.GetCategory(ctx, id)
		if err != nil {
			return err
		}
		if _, err := authorizeEvent(ctx, repo, userID, category.EventID); err != nil {
			return err
		}

		renamed := false
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			renamed = name != category.Name
			category.Name = name
		}

		moved := false
		if patch.ParentID.Set && !sameParent(category.ParentID, patch.ParentID.Value) {
			if err := s.checkMove(ctx, repo, category, patch.ParentID.Value); err != nil {
				return err
			}
			category.ParentID = patch.ParentID.Value
			moved = true
		}

		if patch.Sort != nil {
			category.Sort = *patch.Sort
		}
		if patch.IsHidden != nil {
			category.IsHidden = *patch.IsHidden
		}

		if err := repo.UpdateCategory(ctx, category); err != nil {
			return err
		}
		updated = category

		if !renamed && !moved {
			return nil
		}

		var parent *domain.Category
		if category.ParentID != nil {
			if parent, err = repo.GetCategory(ctx, *category.ParentID); err != nil {
				return err
			}
		}
		synced, err = syncCategoryLabels(ctx, repo, category, parent, renamed)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category updated",
		zap.String("category_id", id),
		zap.Int64("items_synced", synced),
	)
	s.notifier.menuStale(updated.EventID, "category_updated")
	return updated, nil
}

// checkMove enforces the two-level hierarchy for a parent change.
func (s *CategoryService) checkMove(ctx context.Context, repo MenuRepository, category *domain.Category, parentID *string) error {
	if parentID == nil {
		return nil
	}
	if *parentID == category.ID {
		return fmt.Errorf("%w: category cannot be its own parent", domain.ErrInvalidHierarchy)
	}
	if _, err := s.topLevelParent(ctx, repo, category.EventID, *parentID); err != nil {
		return err
	}
	children, err := repo.ListChildCategories(ctx, category.ID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return fmt.Errorf("%w: category with subcategories cannot become a subcategory", domain.ErrInvalidHierarchy)
	}
	return nil
}

func (s *CategoryService) topLevelParent(ctx context.Context, repo MenuRepository, eventID, parentID string) (*domain.Category, error) {
	parent, err := repo.GetCategory(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.EventID != eventID {
		return nil, domain.ErrNotFound
	}
	if parent.IsSub() {
		return nil, fmt.Errorf("%w: parent %s is itself a subcategory", domain.ErrInvalidHierarchy, parentID)
	}
	return parent, nil
}

// Delete removes a category after resolving its items and subcategories
// according to mode.
func (s *CategoryService) Delete(ctx context.Context, userID, id string, mode domain.DeleteMode) error {
	if mode == "" {
		mode = domain.DeletePreserve
	}
	if mode != domain.DeletePreserve && mode != domain.DeleteWipe {
		return &domain.SchemaInvalidError{Violations: []domain.Violation{{
			Path:    "mode",
			Message: fmt.Sprintf("invalid enum value, expected 'preserve' | 'wipe', received '%s'", mode),
		}}}
	}

	var (
		eventID  string
		affected int64
	)
	err := s.store.WithTx(ctx, func(repo MenuRepository) error {
		category, err := repo.GetCategory(ctx, id)
		if err != nil {
			return err
		}
		if _, err := authorizeEvent(ctx, repo, userID, category.EventID); err != nil {
			return err
		}
		eventID = category.EventID

		children, err := repo.ListChildCategories(ctx, id)
		if err != nil {
			return err
		}
		scope := []string{id}
		for _, child := range children {
			scope = append(scope, child.ID)
		}

		switch {
		case mode == domain.DeleteWipe:
			affected, err = repo.DeleteItemsInCategories(ctx, scope)
		case category.IsSub():
			parent, perr := repo.GetCategory(ctx, *category.ParentID)
			if isNotFound(perr) {
				return fmt.Errorf("%w: subcategory %s has no parent", domain.ErrInconsistentState, id)
			}
			if perr != nil {
				return perr
			}
			affected, err = moveItems(ctx, repo, scope, parent)
		default:
			general, gerr := generalCategory(ctx, repo, category)
			if gerr != nil {
				return gerr
			}
			affected, err = moveItems(ctx, repo, scope, general)
		}
		if err != nil {
			return err
		}

		for _, child := range children {
			if err := repo.DeleteCategory(ctx, child.ID); err != nil {
				return err
			}
		}
		return repo.DeleteCategory(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("category deleted",
		zap.String("category_id", id),
		zap.String("mode", string(mode)),
		zap.Int64("items_affected", affected),
	)
	s.notifier.menuStale(eventID, "category_deleted")
	return nil
}

// generalCategory finds or creates the catch-all category for items whose
// top-level category is being removed. The category being removed never
// serves as its own fallback.
func generalCategory(ctx context.Context, repo MenuRepository, removing *domain.Category) (*domain.Category, error) {
	general, err := repo.FindTopLevelCategoryByName(ctx, removing.EventID, GeneralCategoryName, removing.ID)
	if err == nil {
		return general, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	general = &domain.Category{
		ID:      uuid.New().String(),
		EventID: removing.EventID,
		Key:     GeneralCategoryKey,
		Name:    GeneralCategoryName,
		Type:    domain.CategoryFood,
		Sort:    GeneralCategorySort,
	}
	if err := repo.CreateCategory(ctx, general); err != nil {
		return nil, fmt.Errorf("create fallback category: %w", err)
	}
	return general, nil
}

func sameParent(current, next *string) bool {
	if current == nil || next == nil {
		return current == nil && next == nil
	}
	return *current == *next
}
