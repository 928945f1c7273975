package handler

import (
	"errors"
	"net/http"

	mealcalldomain "mealcall-app-go/internal/domain/mealcall"
	"mealcall-app-go/internal/transport/httpserver/middleware"
)

type createMenuItemRequest struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Category string `json:"category"`
}

func (h *Handlers) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req createMenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	item, err := h.MealCalls.CreateMenu(r.Context(), user.FamilyID, req.Name, req.Icon, req.Category)
	if err != nil {
		if errors.Is(err, mealcalldomain.ErrUnknownCategory) {
			writeError(w, http.StatusBadRequest, "invalid_request", "unknown menu category")
			return
		}
		h.log.InternalError("menus.create: create failed", err, "family_id", user.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, toMenuItemDTO(*item))
}

func (h *Handlers) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	items, err := h.MealCalls.ListMenus(r.Context(), user.FamilyID)
	if err != nil {
		h.log.InternalError("menus.list: list failed", err, "family_id", user.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	dtos := make([]menuItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, toMenuItemDTO(item))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"menu_items": dtos})
}
