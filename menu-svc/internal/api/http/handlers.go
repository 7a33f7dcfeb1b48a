package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"partyorder/menu-svc/internal/domain"
	"partyorder/menu-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	maxDocumentBytes = 5 << 20
	maxUploadBytes   = 20 << 20
)

type Handler struct {
	Events     service.EventServiceInterface
	Menus      service.MenuServiceInterface
	Categories service.CategoryServiceInterface
	Items      service.ItemServiceInterface
	Logger     *zap.Logger
}

func NewHandler(events service.EventServiceInterface, menus service.MenuServiceInterface, categories service.CategoryServiceInterface, items service.ItemServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{
		Events:     events,
		Menus:      menus,
		Categories: categories,
		Items:      items,
		Logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(RequireUser)

	api.HandleFunc("/events", h.createEvent).Methods("POST")
	api.HandleFunc("/events/{eventId}", h.getEvent).Methods("GET")
	api.HandleFunc("/events/{eventId}/qrcode", h.getEventQRCode).Methods("GET")

	api.HandleFunc("/events/{eventId}/menu/import", h.importMenu).Methods("POST")
	api.HandleFunc("/events/{eventId}/menu/import/text", h.importMenuText).Methods("POST")
	api.HandleFunc("/events/{eventId}/menu/import/pdf", h.importMenuPDF).Methods("POST")
	api.HandleFunc("/events/{eventId}/menu/json", h.getMenuJSON).Methods("GET")
	api.HandleFunc("/events/{eventId}/menu/json", h.saveMenuJSON).Methods("PUT")
	api.HandleFunc("/events/{eventId}/menu/export", h.exportMenu).Methods("GET")
	api.HandleFunc("/events/{eventId}/menu", h.deleteMenu).Methods("DELETE")

	api.HandleFunc("/events/{eventId}/categories", h.listCategories).Methods("GET")
	api.HandleFunc("/events/{eventId}/categories", h.createCategory).Methods("POST")
	api.HandleFunc("/categories/{id}", h.updateCategory).Methods("PATCH")
	api.HandleFunc("/categories/{id}", h.deleteCategory).Methods("DELETE")

	api.HandleFunc("/events/{eventId}/items", h.listItems).Methods("GET")
	api.HandleFunc("/events/{eventId}/items", h.createItem).Methods("POST")
	api.HandleFunc("/items/{id}", h.updateItem).Methods("PUT")
	api.HandleFunc("/items/{id}", h.deleteItem).Methods("DELETE")

	api.HandleFunc("/events/{eventId}/bundles", h.listBundles).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "menu-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes)).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{ErrorType: "PARSE", Message: err.Error()})
		return false
	}
	return true
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{ErrorType: "PARSE", Message: err.Error()})
		return nil, false
	}
	return body, true
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var input domain.EventInput
	if !h.decode(w, r, &input) {
		return
	}
	event, err := h.Events.Create(r.Context(), userFrom(r), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.Events.Get(r.Context(), userFrom(r), mux.Vars(r)["eventId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handler) getEventQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Events.QRCode(r.Context(), userFrom(r), mux.Vars(r)["eventId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) importMenu(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	result, err := h.Menus.ImportDocument(r.Context(), userFrom(r), mux.Vars(r)["eventId"], body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) importMenuText(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	result, err := h.Menus.ImportText(r.Context(), userFrom(r), mux.Vars(r)["eventId"], string(body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) importMenuPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{ErrorType: "PARSE", Message: "file too large or malformed upload"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{ErrorType: "PARSE", Message: "error retrieving the file"})
		return
	}
	defer file.Close()

	result, err := h.Menus.ImportPDF(r.Context(), userFrom(r), mux.Vars(r)["eventId"], header.Filename, file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getMenuJSON(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Menus.GetMenuJSON(r.Context(), userFrom(r), mux.Vars(r)["eventId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if snapshot == nil {
		snapshot = []byte("null")
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(snapshot)
}

func (h *Handler) saveMenuJSON(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	if err := h.Menus.SaveMenuJSON(r.Context(), userFrom(r), mux.Vars(r)["eventId"], body); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportMenu(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Menus.ExportMenu(r.Context(), userFrom(r), mux.Vars(r)["eventId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) deleteMenu(w http.ResponseWriter, r *http.Request) {
	if err := h.Menus.DeleteAllMenuItems(r.Context(), userFrom(r), mux.Vars(r)["eventId"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.List(r.Context(), userFrom(r), mux.Vars(r)["eventId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var input domain.CategoryInput
	if !h.decode(w, r, &input) {
		return
	}
	category, err := h.Categories.Create(r.Context(), userFrom(r), mux.Vars(r)["eventId"], input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var patch domain.CategoryPatch
	if !h.decode(w, r, &patch) {
		return
	}
	category, err := h.Categories.Update(r.Context(), userFrom(r), mux.Vars(r)["id"], patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	mode := domain.DeleteMode(r.URL.Query().Get("mode"))
	if err := h.Categories.Delete(r.Context(), userFrom(r), mux.Vars(r)["id"], mode); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.List(r.Context(), userFrom(r), mux.Vars(r)["eventId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var input domain.MenuItemInput
	if !h.decode(w, r, &input) {
		return
	}
	item, err := h.Items.Create(r.Context(), userFrom(r), mux.Vars(r)["eventId"], input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var input domain.MenuItemInput
	if !h.decode(w, r, &input) {
		return
	}
	item, err := h.Items.Update(r.Context(), userFrom(r), mux.Vars(r)["id"], input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Items.Delete(r.Context(), userFrom(r), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.Menus.ListBundles(r.Context(), userFrom(r), mux.Vars(r)["eventId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundles)
}
