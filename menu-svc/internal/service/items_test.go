package service_test

import (
	"context"
	"errors"
	"testing"

	"partyorder/menu-svc/internal/domain"
	"partyorder/menu-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newItemService(store service.Store) *service.ItemService {
	return service.NewItemService(store, nil, zap.NewNop())
}

func TestItemService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		input     domain.MenuItemInput
		wantLabel labels
	}{
		{
			name:      "top-level category by id",
			input:     domain.MenuItemInput{Code: "1", Name: "Tea", CategoryID: "t"},
			wantLabel: labels{CategoryID: "t", Category: "T"},
		},
		{
			name:      "subcategory by id",
			input:     domain.MenuItemInput{Code: "2", Name: "Korma", CategoryID: "c1"},
			wantLabel: labels{CategoryID: "c1", Category: "P", SubCategory: ptr("C1")},
		},
		{
			name:      "existing top-level category by name",
			input:     domain.MenuItemInput{Code: "3", Name: "Rice", Category: "P"},
			wantLabel: labels{CategoryID: "p", Category: "P"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := seedTree(t)
			item, err := newItemService(store).Create(ctx, owner, eventID, testCase.input)
			require.NoError(t, err)

			got := itemLabels(t, store)[item.ID]
			assert.Equal(t, testCase.wantLabel, got)
		})
	}
}

func TestItemService_Create_NewCategoryByName(t *testing.T) {
	ctx := context.Background()
	store := seedTree(t)
	price := decimal.RequireFromString("4.20")

	item, err := newItemService(store).Create(ctx, owner, eventID, domain.MenuItemInput{
		Code:     " 9 ",
		Name:     "Mango Lassi",
		Category: "Cold Drinks",
		Price:    &price,
		IsVeg:    true,
		Tags:     []string{"sweet"},
	})
	require.NoError(t, err)
	assert.Equal(t, "9", item.Code)
	assert.Equal(t, "Cold Drinks", item.Category)
	assert.True(t, item.Price.Valid)
	assert.True(t, price.Equal(item.Price.Decimal))
	assert.True(t, item.IsVeg)
	assert.Equal(t, []string{"sweet"}, []string(item.Tags))

	created, err := store.GetCategory(ctx, item.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "cold-drinks", created.Key)
	assert.Nil(t, created.ParentID)
}

func TestItemService_Create_Rejections(t *testing.T) {
	negative := decimal.NewFromInt(-1)

	tests := []struct {
		name    string
		userID  string
		input   domain.MenuItemInput
		wantErr error
	}{
		{name: "unknown category", userID: owner, input: domain.MenuItemInput{Code: "1", Name: "X", CategoryID: "ghost"}, wantErr: domain.ErrNotFound},
		{name: "not the owner", userID: "intruder", input: domain.MenuItemInput{Code: "1", Name: "X", CategoryID: "p"}, wantErr: domain.ErrUnauthorized},
		{name: "missing fields", userID: owner, input: domain.MenuItemInput{}},
		{name: "negative price", userID: owner, input: domain.MenuItemInput{Code: "1", Name: "X", CategoryID: "p", Price: &negative}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := seedTree(t)
			_, err := newItemService(store).Create(context.Background(), testCase.userID, eventID, testCase.input)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				var schemaErr *domain.SchemaInvalidError
				assert.True(t, errors.As(err, &schemaErr), "got %v", err)
			}
			assert.Len(t, itemLabels(t, store), 4)
		})
	}
}

func TestItemService_Update(t *testing.T) {
	ctx := context.Background()
	store := seedTree(t)
	svc := newItemService(store)

	item, err := svc.Update(ctx, owner, "item-t", domain.MenuItemInput{Code: "t", Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", item.Name)
	assert.Equal(t, labels{CategoryID: "t", Category: "T"}, itemLabels(t, store)["item-t"], "category is kept")

	_, err = svc.Update(ctx, owner, "item-t", domain.MenuItemInput{Code: "t", Name: "Renamed", CategoryID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, labels{CategoryID: "c2", Category: "P", SubCategory: ptr("C2")}, itemLabels(t, store)["item-t"])

	_, err = svc.Update(ctx, "intruder", "item-t", domain.MenuItemInput{Code: "t", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Update(ctx, owner, "ghost", domain.MenuItemInput{Code: "t", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := seedTree(t)
	svc := newItemService(store)

	items, err := svc.List(ctx, owner, eventID)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	assert.ErrorIs(t, svc.Delete(ctx, "intruder", "item-p"), domain.ErrUnauthorized)
	require.NoError(t, svc.Delete(ctx, owner, "item-p"))
	assert.ErrorIs(t, svc.Delete(ctx, owner, "item-p"), domain.ErrNotFound)

	items, err = svc.List(ctx, owner, eventID)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}
