package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"gamelounge/internal/models"
	"gamelounge/internal/repository"
	"gamelounge/internal/service"
)

// CatalogHandlers serves game, product and player CRUD.
type CatalogHandlers struct {
	svc    *service.CatalogService
	logger *zap.Logger
}

// NewCatalogHandlers builds handler set.
func NewCatalogHandlers(svc *service.CatalogService, logger *zap.Logger) *CatalogHandlers {
	return &CatalogHandlers{svc: svc, logger: logger}
}

func (h *CatalogHandlers) catalogError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrBadRate),
		errors.Is(err, service.ErrBadRateUnit):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrGameNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrGameInUse):
		writeError(w, http.StatusConflict, "cannot delete game: sessions exist for this game")
	default:
		h.logger.Error(action+" failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, action+" failed")
	}
}

// HandleGameCreate handles POST /games.
func (h *CatalogHandlers) HandleGameCreate(w http.ResponseWriter, r *http.Request) {
	var game models.Game
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.svc.CreateGame(r.Context(), &game); err != nil {
		h.catalogError(w, "create game", err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

// HandleGameList handles GET /games.
func (h *CatalogHandlers) HandleGameList(w http.ResponseWriter, r *http.Request) {
	games, err := h.svc.ListGames(r.Context())
	if err != nil {
		h.catalogError(w, "list games", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}

// HandleGameUpdate handles PUT /games/{id}.
func (h *CatalogHandlers) HandleGameUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	var game models.Game
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	game.ID = id
	if err := h.svc.UpdateGame(r.Context(), &game); err != nil {
		h.catalogError(w, "update game", err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// HandleGameDelete handles DELETE /games/{id}.
func (h *CatalogHandlers) HandleGameDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	if err := h.svc.DeleteGame(r.Context(), id); err != nil {
		h.catalogError(w, "delete game", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleProductCreate handles POST /products.
func (h *CatalogHandlers) HandleProductCreate(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.svc.CreateProduct(r.Context(), &product); err != nil {
		h.catalogError(w, "create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// HandleProductList handles GET /products.
func (h *CatalogHandlers) HandleProductList(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		h.catalogError(w, "list products", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// HandleProductUpdate handles PUT /products/{id}.
func (h *CatalogHandlers) HandleProductUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	product.ID = id
	if err := h.svc.UpdateProduct(r.Context(), &product); err != nil {
		h.catalogError(w, "update product", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// HandleProductDeactivate handles DELETE /products/{id} (soft delete).
func (h *CatalogHandlers) HandleProductDeactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.svc.DeactivateProduct(r.Context(), id); err != nil {
		h.catalogError(w, "deactivate product", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleUserCreate handles POST /users.
func (h *CatalogHandlers) HandleUserCreate(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.svc.CreateUser(r.Context(), &user); err != nil {
		h.catalogError(w, "create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleUserList handles GET /users.
func (h *CatalogHandlers) HandleUserList(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.catalogError(w, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
