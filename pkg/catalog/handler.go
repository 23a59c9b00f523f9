package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dancestudio/manager/internal/apperrors"
	"github.com/dancestudio/manager/pkg/money"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ItemDTO struct {
	Id       int    `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Price    string `json:"price"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListCategories godoc
// @Summary List catalog categories
// @Description Recommended categories merged with every category in use, sorted
// @Tags Catalog
// @Produce json
// @Success 200 {array} string
// @Router /api/catalog/category [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// ListItems godoc
// @Summary List catalog items
// @Description Items of one category sorted by name, or the whole catalog when no category is given
// @Tags Catalog
// @Produce json
// @Param category query string false "Category"
// @Success 200 {array} ItemDTO
// @Router /api/catalog/item [get]
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	var (
		items []Item
		err   error
	)
	if r.URL.Query().Has("category") {
		items, err = h.service.ListItems(r.Context(), r.URL.Query().Get("category"))
	} else {
		items, err = h.service.ListAll(r.Context())
	}
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ItemToDTO(item))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddItem godoc
// @Summary Add a catalog item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param item body ItemDTO true "Item"
// @Success 201 {object} ItemDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/catalog/item [post]
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var dto ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	price, err := money.Parse(dto.Price)
	if err != nil {
		apperrors.WriteHTTPError(w, apperrors.Invalid("price", err.Error()))
		return
	}

	item, err := h.service.AddItem(r.Context(), dto.Category, dto.Name, price)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ItemToDTO(item))
}

// UpdateItem godoc
// @Summary Update name and price of a catalog item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param itemId path int true "Item ID"
// @Param item body ItemDTO true "Item"
// @Success 200 {object} ItemDTO
// @Failure 404 {string} string "Item Not Found"
// @Router /api/catalog/item/{itemId} [put]
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemId, err := strconv.Atoi(mux.Vars(r)["itemId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var dto ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	price, err := money.Parse(dto.Price)
	if err != nil {
		apperrors.WriteHTTPError(w, apperrors.Invalid("price", err.Error()))
		return
	}

	item, err := h.service.UpdateItem(r.Context(), itemId, dto.Name, price)
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemToDTO(item))
}

// DeleteItem godoc
// @Summary Delete a catalog item
// @Description Plans created earlier keep their own copy of the item
// @Tags Catalog
// @Param itemId path int true "Item ID"
// @Success 204
// @Failure 404 {string} string "Item Not Found"
// @Router /api/catalog/item/{itemId} [delete]
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemId, err := strconv.Atoi(mux.Vars(r)["itemId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteItem(r.Context(), itemId); err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ItemToDTO(item Item) ItemDTO {
	return ItemDTO{
		Id:       item.Id,
		Category: item.Category,
		Name:     item.Name,
		Price:    money.Plain(item.Price),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
