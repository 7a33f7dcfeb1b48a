package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"partyorder/menu-svc/internal/domain"
	"partyorder/menu-svc/internal/parser"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrExtractorUnavailable = errors.New("text extraction service is not configured")

type MenuService struct {
	store     Store
	cache     MenuCache
	extractor TextExtractor
	notifier  notifier
	logger    *zap.Logger
}

func NewMenuService(store Store, cache MenuCache, extractor TextExtractor, revalidator Revalidator, logger *zap.Logger) *MenuService {
	return &MenuService{
		store:     store,
		cache:     cache,
		extractor: extractor,
		notifier:  notifier{revalidator: revalidator, logger: logger},
		logger:    logger,
	}
}

// ImportDocument validates raw JSON and replaces the event's whole menu with it.
func (s *MenuService) ImportDocument(ctx context.Context, userID, eventID string, raw []byte) (*domain.ImportResult, error) {
	doc, err := ValidateDocument(raw)
	if err != nil {
		return nil, err
	}
	return s.replaceMenu(ctx, userID, eventID, doc)
}

// ImportText converts tab-delimited lines into a document and imports it.
func (s *MenuService) ImportText(ctx context.Context, userID, eventID, text string) (*domain.ImportResult, error) {
	synthesized, err := parser.BuildDocument(parser.ParseLines(text), parser.ImportedRestaurant)
	if err != nil {
		return nil, err
	}
	doc, err := ValidateDocumentValue(synthesized)
	if err != nil {
		return nil, err
	}
	return s.replaceMenu(ctx, userID, eventID, doc)
}

func (s *MenuService) ImportPDF(ctx context.Context, userID, eventID, filename string, pdf io.Reader) (*domain.ImportResult, error) {
	if s.extractor == nil {
		return nil, ErrExtractorUnavailable
	}
	if _, err := authorizeEvent(ctx, s.store, userID, eventID); err != nil {
		return nil, err
	}

	text, err := s.extractor.ExtractText(ctx, filename, pdf)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	s.logger.Info("extracted menu text from pdf",
		zap.String("event_id", eventID),
		zap.String("filename", filename),
		zap.Int("chars", len(text)),
	)
	return s.ImportText(ctx, userID, eventID, text)
}

func (s *MenuService) replaceMenu(ctx context.Context, userID, eventID string, doc *domain.Document) (*domain.ImportResult, error) {
	if _, err := authorizeEvent(ctx, s.store, userID, eventID); err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode menu snapshot: %w", err)
	}

	result := &domain.ImportResult{}
	err = s.store.WithTx(ctx, func(repo MenuRepository) error {
		if err := repo.WipeMenu(ctx, eventID); err != nil {
			return fmt.Errorf("wipe menu: %w", err)
		}

		categories := make(map[string]*domain.Category, len(doc.Categories))
		for _, dc := range doc.Categories {
			category := &domain.Category{
				ID:      uuid.New().String(),
				EventID: eventID,
				Key:     dc.ID,
				Name:    dc.Name,
				Type:    dc.Type,
				Sort:    dc.Sort,
			}
			if err := repo.CreateCategory(ctx, category); err != nil {
				return fmt.Errorf("create category %q: %w", dc.ID, err)
			}
			categories[dc.ID] = category
		}
		result.Categories = len(categories)

		for i, di := range doc.Items {
			category, ok := categories[di.CategoryID]
			if !ok {
				return &domain.CategoryLinkError{CategoryID: di.CategoryID}
			}
			if err := createDocItem(ctx, repo, eventID, category, di, i); err != nil {
				return err
			}
			result.Items++
		}

		for _, db := range doc.Bundles {
			if err := createDocBundle(ctx, repo, eventID, db); err != nil {
				return err
			}
			result.Bundles++
		}

		var restaurant *string
		if doc.Restaurant != nil && *doc.Restaurant != "" {
			restaurant = doc.Restaurant
		}
		return repo.UpdateEventMenu(ctx, eventID, snapshot, restaurant)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("menu imported",
		zap.String("event_id", eventID),
		zap.Int("categories", result.Categories),
		zap.Int("items", result.Items),
		zap.Int("bundles", result.Bundles),
	)
	s.menuChanged(ctx, eventID, "import")
	return result, nil
}

func createDocItem(ctx context.Context, repo MenuRepository, eventID string, category *domain.Category, di domain.DocItem, position int) error {
	item := &domain.MenuItem{
		ID:          uuid.New().String(),
		EventID:     eventID,
		CategoryID:  category.ID,
		Code:        di.Code,
		Name:        di.Name,
		Description: di.Description,
		IsDrink:     category.Type == domain.CategoryDrink,
		Tags:        append([]string{}, di.Tags...),
		SortOrder:   position,
	}
	// Import is flat, so every item sits in a top-level category.
	item.Category, item.SubCategory = categoryLabels(category, nil)
	if di.Price != nil {
		item.Price = decimal.NewNullDecimal(decimal.NewFromFloat(*di.Price))
	}
	if di.Diet != nil {
		item.IsVeg = di.Diet.Veg
		item.IsVegan = di.Diet.Vegan
	}
	if err := repo.CreateMenuItem(ctx, item); err != nil {
		return fmt.Errorf("create item %q: %w", di.Code, err)
	}

	if len(di.Images) > 0 {
		images := make([]domain.MenuItemImage, len(di.Images))
		for i, url := range di.Images {
			images[i] = domain.MenuItemImage{ID: uuid.New().String(), ItemID: item.ID, URL: url, Sort: i}
		}
		if err := repo.CreateMenuItemImages(ctx, images); err != nil {
			return fmt.Errorf("create images for item %q: %w", di.Code, err)
		}
	}

	if len(di.Options) > 0 {
		options := make([]domain.MenuItemOption, len(di.Options))
		for i, opt := range di.Options {
			options[i] = domain.MenuItemOption{
				ID:      uuid.New().String(),
				ItemID:  item.ID,
				Label:   opt.Label,
				MetaQty: opt.MetaQty,
				Price:   decimal.NewFromFloat(opt.Price),
				Sort:    i,
			}
		}
		if err := repo.CreateMenuItemOptions(ctx, options); err != nil {
			return fmt.Errorf("create options for item %q: %w", di.Code, err)
		}
	}
	return nil
}

func createDocBundle(ctx context.Context, repo MenuRepository, eventID string, db domain.DocBundle) error {
	bundle := &domain.Bundle{
		ID:          uuid.New().String(),
		EventID:     eventID,
		Code:        db.Code,
		Name:        db.Name,
		Description: db.Description,
		Price:       decimal.NewFromFloat(db.Price),
	}
	if err := repo.CreateBundle(ctx, bundle); err != nil {
		return fmt.Errorf("create bundle %q: %w", db.Code, err)
	}
	if len(db.Lines) == 0 {
		return nil
	}

	lines := make([]domain.BundleLine, len(db.Lines))
	for i, raw := range db.Lines {
		parsed := parser.ParseBundleLine(raw)
		lines[i] = domain.BundleLine{
			ID:       uuid.New().String(),
			BundleID: bundle.ID,
			Label:    parsed.Label,
			Qty:      parsed.Qty,
			Note:     parsed.Note,
			Sort:     i,
		}
	}
	if err := repo.CreateBundleLines(ctx, lines); err != nil {
		return fmt.Errorf("create lines for bundle %q: %w", db.Code, err)
	}
	return nil
}

// SaveMenuJSON stores a validated snapshot without rebuilding the menu tables.
func (s *MenuService) SaveMenuJSON(ctx context.Context, userID, eventID string, raw []byte) error {
	doc, err := ValidateDocument(raw)
	if err != nil {
		return err
	}
	if _, err := authorizeEvent(ctx, s.store, userID, eventID); err != nil {
		return err
	}
	snapshot, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode menu snapshot: %w", err)
	}
	if err := s.store.UpdateEventMenu(ctx, eventID, snapshot, nil); err != nil {
		return err
	}
	s.menuChanged(ctx, eventID, "snapshot")
	return nil
}

// GetMenuJSON returns the last stored snapshot, or nil when none exists.
func (s *MenuService) GetMenuJSON(ctx context.Context, userID, eventID string) ([]byte, error) {
	event, err := authorizeEvent(ctx, s.store, userID, eventID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, ok, err := s.cache.GetMenuJSON(ctx, eventID)
		if err != nil {
			s.logger.Warn("menu cache read failed", zap.String("event_id", eventID), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	if !event.MenuJSON.Valid || len(event.MenuJSON.JSONText) == 0 {
		return nil, nil
	}
	snapshot := []byte(event.MenuJSON.JSONText)
	if s.cache != nil {
		if err := s.cache.SetMenuJSON(ctx, eventID, snapshot); err != nil {
			s.logger.Warn("menu cache write failed", zap.String("event_id", eventID), zap.Error(err))
		}
	}
	return snapshot, nil
}

func (s *MenuService) DeleteAllMenuItems(ctx context.Context, userID, eventID string) error {
	if _, err := authorizeEvent(ctx, s.store, userID, eventID); err != nil {
		return err
	}
	if err := s.store.WithTx(ctx, func(repo MenuRepository) error {
		return repo.WipeMenu(ctx, eventID)
	}); err != nil {
		return err
	}
	s.menuChanged(ctx, eventID, "wipe")
	return nil
}

func (s *MenuService) ListBundles(ctx context.Context, userID, eventID string) ([]domain.Bundle, error) {
	if _, err := authorizeEvent(ctx, s.store, userID, eventID); err != nil {
		return nil, err
	}
	return s.store.ListBundles(ctx, eventID)
}

func (s *MenuService) menuChanged(ctx context.Context, eventID, reason string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, eventID); err != nil {
			s.logger.Warn("menu cache invalidation failed", zap.String("event_id", eventID), zap.Error(err))
		}
	}
	s.notifier.menuStale(eventID, reason)
}
