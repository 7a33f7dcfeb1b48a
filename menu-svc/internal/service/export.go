package service

import (
	"context"
	"encoding/json"

	"partyorder/menu-svc/internal/domain"
	"partyorder/menu-svc/internal/parser"
)

// ExportMenu rebuilds an interchange document from the live menu tables, so
// admin edits made after the last import are included. Bundle images are
// not persisted and come back empty.
func (s *MenuService) ExportMenu(ctx context.Context, userID, eventID string) (*domain.Document, error) {
	event, err := authorizeEvent(ctx, s.store, userID, eventID)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx, eventID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListMenuItems(ctx, eventID)
	if err != nil {
		return nil, err
	}
	bundles, err := s.store.ListBundles(ctx, eventID)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		Restaurant: event.RestaurantName,
		Currency:   domain.DefaultCurrency,
		Categories: make([]domain.DocCategory, 0, len(categories)),
		Items:      make([]domain.DocItem, 0, len(items)),
		Bundles:    make([]domain.DocBundle, 0, len(bundles)),
	}
	if previous := snapshotHeader(event); previous != nil {
		doc.SourcePDF = previous.SourcePDF
		if previous.Currency != "" {
			doc.Currency = previous.Currency
		}
	}

	keys := exportKeys(categories)
	for _, c := range categories {
		doc.Categories = append(doc.Categories, domain.DocCategory{
			ID:   keys[c.ID],
			Name: c.Name,
			Sort: c.Sort,
			Type: c.Type,
		})
	}

	for _, it := range items {
		item := domain.DocItem{
			Code:        it.Code,
			Name:        it.Name,
			Description: it.Description,
			CategoryID:  keys[it.CategoryID],
			SubCategory: it.SubCategory,
			Diet:        &domain.DocDiet{Veg: it.IsVeg, Vegan: it.IsVegan},
			Images:      make([]string, 0, len(it.Images)),
			Tags:        append([]string{}, it.Tags...),
			Options:     make([]domain.DocOption, 0, len(it.Options)),
		}
		if it.Price.Valid {
			price := it.Price.Decimal.InexactFloat64()
			item.Price = &price
		}
		for _, img := range it.Images {
			item.Images = append(item.Images, img.URL)
		}
		for _, opt := range it.Options {
			item.Options = append(item.Options, domain.DocOption{
				Label:   opt.Label,
				MetaQty: opt.MetaQty,
				Price:   opt.Price.InexactFloat64(),
			})
		}
		doc.Items = append(doc.Items, item)
	}

	for _, b := range bundles {
		bundle := domain.DocBundle{
			Code:        b.Code,
			Name:        b.Name,
			Description: b.Description,
			Price:       b.Price.InexactFloat64(),
			Images:      []string{},
			Lines:       make([]string, 0, len(b.Lines)),
		}
		for _, line := range b.Lines {
			bundle.Lines = append(bundle.Lines, parser.FormatBundleLine(line.Label, line.Qty))
		}
		doc.Bundles = append(doc.Bundles, bundle)
	}

	return doc, nil
}

// exportKeys maps category ids to document-local ids. The stored key is
// used unless another category already claimed it.
func exportKeys(categories []domain.Category) map[string]string {
	keys := make(map[string]string, len(categories))
	used := make(map[string]bool, len(categories))
	for _, c := range categories {
		key := c.Key
		if key == "" || used[key] {
			key = c.ID
		}
		used[key] = true
		keys[c.ID] = key
	}
	return keys
}

func snapshotHeader(event *domain.Event) *domain.Document {
	if !event.MenuJSON.Valid || len(event.MenuJSON.JSONText) == 0 {
		return nil
	}
	var doc domain.Document
	if err := json.Unmarshal(event.MenuJSON.JSONText, &doc); err != nil {
		return nil
	}
	return &doc
}
