package httpapi_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpapi "partyorder/menu-svc/internal/api/http"
	"partyorder/menu-svc/internal/domain"
	"partyorder/menu-svc/internal/mocks"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testUser = "user-1"

type testServices struct {
	events     *mocks.EventServiceInterface
	menus      *mocks.MenuServiceInterface
	categories *mocks.CategoryServiceInterface
	items      *mocks.ItemServiceInterface
}

func setupTestRouter(t *testing.T) (*mux.Router, testServices) {
	svc := testServices{
		events:     mocks.NewEventServiceInterface(t),
		menus:      mocks.NewMenuServiceInterface(t),
		categories: mocks.NewCategoryServiceInterface(t),
		items:      mocks.NewItemServiceInterface(t),
	}
	handler := httpapi.NewHandler(svc.events, svc.menus, svc.categories, svc.items, zap.NewNop())
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r, svc
}

func newRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(httpapi.UserHeader, testUser)
	return req
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestHandler_healthCheck(t *testing.T) {
	router, _ := setupTestRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "menu-svc", decodeBody(t, recorder)["service"])
}

func TestHandler_requiresUser(t *testing.T) {
	router, _ := setupTestRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/events/event-1/items", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeBody(t, recorder)["errorType"])
}

func TestHandler_importMenu(t *testing.T) {
	router, svc := setupTestRouter(t)
	payload := `{"categories":[],"items":[]}`

	tests := []struct {
		name         string
		prepareMocks func()
		expectedCode int
		expectedType string
		check        func(t *testing.T, body map[string]interface{})
	}{
		{
			name: "success",
			prepareMocks: func() {
				svc.menus.On("ImportDocument", mock.Anything, testUser, "event-1", []byte(payload)).
					Return(&domain.ImportResult{Categories: 2, Items: 5, Bundles: 1}, nil).Once()
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.EqualValues(t, 5, body["items"])
			},
		},
		{
			name: "schema_invalid",
			prepareMocks: func() {
				svc.menus.On("ImportDocument", mock.Anything, testUser, "event-1", mock.Anything).
					Return(nil, &domain.SchemaInvalidError{Violations: []domain.Violation{{Path: "items[0].code", Message: "required"}}}).Once()
			},
			expectedCode: http.StatusUnprocessableEntity,
			expectedType: "SCHEMA",
			check: func(t *testing.T, body map[string]interface{}) {
				issues := body["issues"].([]interface{})
				require.Len(t, issues, 1)
				assert.Equal(t, "items[0].code", issues[0].(map[string]interface{})["path"])
			},
		},
		{
			name: "malformed_json",
			prepareMocks: func() {
				svc.menus.On("ImportDocument", mock.Anything, testUser, "event-1", mock.Anything).
					Return(nil, &domain.ParseError{Message: "unexpected EOF"}).Once()
			},
			expectedCode: http.StatusBadRequest,
			expectedType: "PARSE",
		},
		{
			name: "category_link",
			prepareMocks: func() {
				svc.menus.On("ImportDocument", mock.Anything, testUser, "event-1", mock.Anything).
					Return(nil, &domain.CategoryLinkError{CategoryID: "desserts"}).Once()
			},
			expectedCode: http.StatusUnprocessableEntity,
			expectedType: "CATEGORY_LINK",
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "desserts", body["categoryId"])
			},
		},
		{
			name: "event_not_found",
			prepareMocks: func() {
				svc.menus.On("ImportDocument", mock.Anything, testUser, "event-1", mock.Anything).
					Return(nil, domain.ErrNotFound).Once()
			},
			expectedCode: http.StatusNotFound,
			expectedType: "NOT_FOUND",
		},
		{
			name: "not_owner",
			prepareMocks: func() {
				svc.menus.On("ImportDocument", mock.Anything, testUser, "event-1", mock.Anything).
					Return(nil, domain.ErrUnauthorized).Once()
			},
			expectedCode: http.StatusForbidden,
			expectedType: "UNAUTHORIZED",
		},
		{
			name: "storage_failure",
			prepareMocks: func() {
				svc.menus.On("ImportDocument", mock.Anything, testUser, "event-1", mock.Anything).
					Return(nil, errors.New("connection reset")).Once()
			},
			expectedCode: http.StatusInternalServerError,
			expectedType: "INTERNAL",
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "operation failed", body["message"])
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.prepareMocks()
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, newRequest(http.MethodPost, "/api/events/event-1/menu/import", []byte(payload)))

			assert.Equal(t, testCase.expectedCode, recorder.Code)
			body := decodeBody(t, recorder)
			if testCase.expectedType != "" {
				assert.Equal(t, testCase.expectedType, body["errorType"])
			}
			if testCase.check != nil {
				testCase.check(t, body)
			}
		})
	}
}

func TestHandler_importMenuText(t *testing.T) {
	router, svc := setupTestRouter(t)
	text := "101\tButter Chicken\t14.50\tMains"

	svc.menus.On("ImportText", mock.Anything, testUser, "event-1", text).
		Return(&domain.ImportResult{Categories: 1, Items: 1}, nil).Once()
	svc.menus.On("ImportText", mock.Anything, testUser, "event-1", "nothing").
		Return(nil, domain.ErrNoValidItems).Once()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodPost, "/api/events/event-1/menu/import/text", []byte(text)))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodPost, "/api/events/event-1/menu/import/text", []byte("nothing")))
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Equal(t, "NO_VALID_ITEMS", decodeBody(t, recorder)["errorType"])
}

func TestHandler_importMenuPDF(t *testing.T) {
	router, svc := setupTestRouter(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "menu.pdf")
	require.NoError(t, err)
	part.Write([]byte("%PDF-1.4"))
	require.NoError(t, form.Close())

	svc.menus.On("ImportPDF", mock.Anything, testUser, "event-1", "menu.pdf", mock.Anything).
		Return(&domain.ImportResult{Items: 3}, nil).Once()

	req := newRequest(http.MethodPost, "/api/events/event-1/menu/import/pdf", body.Bytes())
	req.Header.Set("Content-Type", form.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)

	req = newRequest(http.MethodPost, "/api/events/event-1/menu/import/pdf", []byte("plain"))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "PARSE", decodeBody(t, recorder)["errorType"])
}

func TestHandler_menuJSON(t *testing.T) {
	router, svc := setupTestRouter(t)

	svc.menus.On("GetMenuJSON", mock.Anything, testUser, "empty").Return(nil, nil).Once()
	svc.menus.On("GetMenuJSON", mock.Anything, testUser, "event-1").Return([]byte(`{"currency":"EUR"}`), nil).Once()
	svc.menus.On("SaveMenuJSON", mock.Anything, testUser, "event-1", []byte(`{"items":[]}`)).Return(nil).Once()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodGet, "/api/events/empty/menu/json", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "null", recorder.Body.String())

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodGet, "/api/events/event-1/menu/json", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"currency":"EUR"}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodPut, "/api/events/event-1/menu/json", []byte(`{"items":[]}`)))
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestHandler_exportAndDeleteMenu(t *testing.T) {
	router, svc := setupTestRouter(t)

	svc.menus.On("ExportMenu", mock.Anything, testUser, "event-1").
		Return(&domain.Document{Currency: "EUR", Categories: []domain.DocCategory{}, Items: []domain.DocItem{}, Bundles: []domain.DocBundle{}}, nil).Once()
	svc.menus.On("DeleteAllMenuItems", mock.Anything, testUser, "event-1").Return(nil).Once()
	svc.menus.On("ListBundles", mock.Anything, testUser, "event-1").Return([]domain.Bundle{{Code: "B1"}}, nil).Once()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodGet, "/api/events/event-1/menu/export", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "EUR", decodeBody(t, recorder)["currency"])

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodDelete, "/api/events/event-1/menu", nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodGet, "/api/events/event-1/bundles", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"code":"B1"`)
}

func TestHandler_categories(t *testing.T) {
	router, svc := setupTestRouter(t)

	svc.categories.On("List", mock.Anything, testUser, "event-1").
		Return([]domain.Category{{ID: "c1", Name: "Mains"}}, nil).Once()
	svc.categories.On("Create", mock.Anything, testUser, "event-1", domain.CategoryInput{Name: "Drinks", Type: domain.CategoryDrink}).
		Return(&domain.Category{ID: "c2", Name: "Drinks"}, nil).Once()
	svc.categories.On("Update", mock.Anything, testUser, "c1", mock.MatchedBy(func(p domain.CategoryPatch) bool {
		return p.Name != nil && *p.Name == "Curries" && p.ParentID.Set && p.ParentID.Value == nil && p.Sort == nil
	})).Return(&domain.Category{ID: "c1", Name: "Curries"}, nil).Once()
	svc.categories.On("Update", mock.Anything, testUser, "c2", mock.Anything).
		Return(nil, fmt.Errorf("%w: parent is a subcategory", domain.ErrInvalidHierarchy)).Once()
	svc.categories.On("Delete", mock.Anything, testUser, "c1", domain.DeleteWipe).Return(nil).Once()
	svc.categories.On("Delete", mock.Anything, testUser, "c2", domain.DeleteMode("")).Return(nil).Once()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodGet, "/api/events/event-1/categories", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodPost, "/api/events/event-1/categories", []byte(`{"name":"Drinks","type":"DRINK"}`)))
	assert.Equal(t, http.StatusCreated, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodPatch, "/api/categories/c1", []byte(`{"name":"Curries","parentId":null}`)))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodPatch, "/api/categories/c2", []byte(`{"parentId":"c3"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Equal(t, "INVALID_HIERARCHY", decodeBody(t, recorder)["errorType"])

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodDelete, "/api/categories/c1?mode=wipe", nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodDelete, "/api/categories/c2", nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodPost, "/api/events/event-1/categories", []byte(`bad json`)))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_items(t *testing.T) {
	router, svc := setupTestRouter(t)

	svc.items.On("List", mock.Anything, testUser, "event-1").Return([]domain.MenuItem{}, nil).Once()
	svc.items.On("Create", mock.Anything, testUser, "event-1", mock.MatchedBy(func(in domain.MenuItemInput) bool {
		return in.Code == "7" && in.Category == "Sides" && in.Price != nil && in.Price.String() == "3.5"
	})).Return(&domain.MenuItem{ID: "i7", Code: "7"}, nil).Once()
	svc.items.On("Update", mock.Anything, testUser, "i7", mock.Anything).Return(&domain.MenuItem{ID: "i7"}, nil).Once()
	svc.items.On("Delete", mock.Anything, testUser, "i7").Return(nil).Once()
	svc.items.On("Delete", mock.Anything, testUser, "ghost").Return(domain.ErrNotFound).Once()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodGet, "/api/events/event-1/items", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "[]", strings.TrimSpace(recorder.Body.String()))

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodPost, "/api/events/event-1/items", []byte(`{"code":"7","name":"Raita","category":"Sides","price":3.5}`)))
	assert.Equal(t, http.StatusCreated, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodPut, "/api/items/i7", []byte(`{"code":"7","name":"Raita"}`)))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodDelete, "/api/items/i7", nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodDelete, "/api/items/ghost", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandler_events(t *testing.T) {
	router, svc := setupTestRouter(t)

	svc.events.On("Create", mock.Anything, testUser, mock.MatchedBy(func(in domain.EventInput) bool {
		return in.Title == "Party" && in.RestaurantName != nil && *in.RestaurantName == "Spice Route"
	})).Return(&domain.Event{ID: "event-1", Slug: "party-ab12c"}, nil).Once()
	svc.events.On("Get", mock.Anything, testUser, "event-1").Return(&domain.Event{ID: "event-1"}, nil).Once()
	svc.events.On("QRCode", mock.Anything, testUser, "event-1").Return([]byte("\x89PNG"), nil).Once()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodPost, "/api/events", []byte(`{"title":"Party","restaurantName":"Spice Route"}`)))
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "party-ab12c", decodeBody(t, recorder)["slug"])

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodGet, "/api/events/event-1", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newRequest(http.MethodGet, "/api/events/event-1/qrcode", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	svc := testServices{
		events:     mocks.NewEventServiceInterface(t),
		menus:      mocks.NewMenuServiceInterface(t),
		categories: mocks.NewCategoryServiceInterface(t),
		items:      mocks.NewItemServiceInterface(t),
	}
	handler := httpapi.NewRouter(httpapi.NewHandler(svc.events, svc.menus, svc.categories, svc.items, zap.NewNop()))

	req := httptest.NewRequest(http.MethodOptions, "/api/categories/c1", nil)
	req.Header.Set("Origin", "https://admin.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	req.Header.Set("Access-Control-Request-Headers", httpapi.UserHeader)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}
