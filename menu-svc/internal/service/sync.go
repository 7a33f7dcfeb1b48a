package service

import (
	"context"
	"fmt"

	"partyorder/menu-svc/internal/domain"
)

// Every write of MenuItem.Category and MenuItem.SubCategory goes through this
// file. The labels mirror the hierarchy: the top-level name, plus the
// subcategory name when the item sits in a subcategory.

func categoryLabels(category, parent *domain.Category) (string, *string) {
	if parent == nil {
		return category.Name, nil
	}
	sub := category.Name
	return parent.Name, &sub
}

// syncCategoryLabels rewrites the labels of items in category and, when the
// category was renamed, of items in its children.
func syncCategoryLabels(ctx context.Context, repo MenuRepository, category, parent *domain.Category, renamed bool) (int64, error) {
	name, sub := categoryLabels(category, parent)
	total, err := repo.SetItemLabels(ctx, category.ID, name, sub)
	if err != nil {
		return 0, fmt.Errorf("sync items of category %s: %w", category.ID, err)
	}
	if !renamed || category.IsSub() {
		return total, nil
	}

	children, err := repo.ListChildCategories(ctx, category.ID)
	if err != nil {
		return 0, err
	}
	for i := range children {
		childName, childSub := categoryLabels(&children[i], category)
		n, err := repo.SetItemLabels(ctx, children[i].ID, childName, childSub)
		if err != nil {
			return 0, fmt.Errorf("sync items of category %s: %w", children[i].ID, err)
		}
		total += n
	}
	return total, nil
}

// moveItems reassigns every item of the given categories to a top-level target.
func moveItems(ctx context.Context, repo MenuRepository, fromIDs []string, target *domain.Category) (int64, error) {
	name, _ := categoryLabels(target, nil)
	n, err := repo.ReassignItems(ctx, fromIDs, target.ID, name)
	if err != nil {
		return 0, fmt.Errorf("reassign items to category %s: %w", target.ID, err)
	}
	return n, nil
}
