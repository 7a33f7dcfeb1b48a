package mocks

import (
	"context"
	"io"

	"partyorder/menu-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MenuServiceInterface struct {
	mock.Mock
}

func NewMenuServiceInterface(t testingT) *MenuServiceInterface {
	m := &MenuServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (_m *MenuServiceInterface) ImportDocument(ctx context.Context, userID, eventID string, raw []byte) (*domain.ImportResult, error) {
	ret := _m.Called(ctx, userID, eventID, raw)
	var r0 *domain.ImportResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.ImportResult)
	}
	return r0, ret.Error(1)
}

func (_m *MenuServiceInterface) ImportText(ctx context.Context, userID, eventID, text string) (*domain.ImportResult, error) {
	ret := _m.Called(ctx, userID, eventID, text)
	var r0 *domain.ImportResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.ImportResult)
	}
	return r0, ret.Error(1)
}

func (_m *MenuServiceInterface) ImportPDF(ctx context.Context, userID, eventID, filename string, pdf io.Reader) (*domain.ImportResult, error) {
	ret := _m.Called(ctx, userID, eventID, filename, pdf)
	var r0 *domain.ImportResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.ImportResult)
	}
	return r0, ret.Error(1)
}

func (_m *MenuServiceInterface) SaveMenuJSON(ctx context.Context, userID, eventID string, raw []byte) error {
	ret := _m.Called(ctx, userID, eventID, raw)
	return ret.Error(0)
}

func (_m *MenuServiceInterface) GetMenuJSON(ctx context.Context, userID, eventID string) ([]byte, error) {
	ret := _m.Called(ctx, userID, eventID)
	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

func (_m *MenuServiceInterface) ExportMenu(ctx context.Context, userID, eventID string) (*domain.Document, error) {
	ret := _m.Called(ctx, userID, eventID)
	var r0 *domain.Document
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Document)
	}
	return r0, ret.Error(1)
}

func (_m *MenuServiceInterface) DeleteAllMenuItems(ctx context.Context, userID, eventID string) error {
	ret := _m.Called(ctx, userID, eventID)
	return ret.Error(0)
}

func (_m *MenuServiceInterface) ListBundles(ctx context.Context, userID, eventID string) ([]domain.Bundle, error) {
	ret := _m.Called(ctx, userID, eventID)
	var r0 []domain.Bundle
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Bundle)
	}
	return r0, ret.Error(1)
}

type CategoryServiceInterface struct {
	mock.Mock
}

func NewCategoryServiceInterface(t testingT) *CategoryServiceInterface {
	m := &CategoryServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (_m *CategoryServiceInterface) List(ctx context.Context, userID, eventID string) ([]domain.Category, error) {
	ret := _m.Called(ctx, userID, eventID)
	var r0 []domain.Category
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Category)
	}
	return r0, ret.Error(1)
}

func (_m *CategoryServiceInterface) Create(ctx context.Context, userID, eventID string, input domain.CategoryInput) (*domain.Category, error) {
	ret := _m.Called(ctx, userID, eventID, input)
	var r0 *domain.Category
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Category)
	}
	return r0, ret.Error(1)
}

func (_m *CategoryServiceInterface) Update(ctx context.Context, userID, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	ret := _m.Called(ctx, userID, id, patch)
	var r0 *domain.Category
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Category)
	}
	return r0, ret.Error(1)
}

func (_m *CategoryServiceInterface) Delete(ctx context.Context, userID, id string, mode domain.DeleteMode) error {
	ret := _m.Called(ctx, userID, id, mode)
	return ret.Error(0)
}

type ItemServiceInterface struct {
	mock.Mock
}

func NewItemServiceInterface(t testingT) *ItemServiceInterface {
	m := &ItemServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (_m *ItemServiceInterface) List(ctx context.Context, userID, eventID string) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx, userID, eventID)
	var r0 []domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *ItemServiceInterface) Create(ctx context.Context, userID, eventID string, input domain.MenuItemInput) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, userID, eventID, input)
	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *ItemServiceInterface) Update(ctx context.Context, userID, id string, input domain.MenuItemInput) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, userID, id, input)
	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *ItemServiceInterface) Delete(ctx context.Context, userID, id string) error {
	ret := _m.Called(ctx, userID, id)
	return ret.Error(0)
}

type EventServiceInterface struct {
	mock.Mock
}

func NewEventServiceInterface(t testingT) *EventServiceInterface {
	m := &EventServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (_m *EventServiceInterface) Create(ctx context.Context, userID string, input domain.EventInput) (*domain.Event, error) {
	ret := _m.Called(ctx, userID, input)
	var r0 *domain.Event
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Event)
	}
	return r0, ret.Error(1)
}

func (_m *EventServiceInterface) Get(ctx context.Context, userID, eventID string) (*domain.Event, error) {
	ret := _m.Called(ctx, userID, eventID)
	var r0 *domain.Event
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Event)
	}
	return r0, ret.Error(1)
}

func (_m *EventServiceInterface) QRCode(ctx context.Context, userID, eventID string) ([]byte, error) {
	ret := _m.Called(ctx, userID, eventID)
	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}
