package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	mealcalldomain "mealcall-app-go/internal/domain/mealcall"
	"mealcall-app-go/internal/transport/httpserver/middleware"
)

type createMealCallRequest struct {
	MenuItemIDs []string `json:"menu_item_ids"`
	Message     string   `json:"message"`
}

func (h *Handlers) CreateMealCall(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req createMealCallRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	mc, err := h.MealCalls.Create(r.Context(), user.FamilyID, user.MemberID, user.Nickname, req.MenuItemIDs, req.Message)
	if err != nil {
		h.log.InternalError("mealcalls.create: create failed", err, "family_id", user.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, toMealCallDTO(mc))
}

// ActiveMealCall returns 200 with a null body when the family has no
// active call; clients poll this from the home screen.
func (h *Handlers) ActiveMealCall(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	mc, err := h.MealCalls.Active(r.Context(), user.FamilyID)
	if err != nil {
		if errors.Is(err, mealcalldomain.ErrCallNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		h.log.InternalError("mealcalls.active: lookup failed", err, "family_id", user.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toMealCallDTO(mc))
}

func (h *Handlers) GetMealCall(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	mc, err := h.loadFamilyCall(w, r, user)
	if err != nil {
		return
	}
	writeJSON(w, http.StatusOK, toMealCallDTO(mc))
}

func (h *Handlers) ListMealCalls(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
			return
		}
		limit = parsed
	}

	calls, err := h.MealCalls.History(r.Context(), user.FamilyID, limit)
	if err != nil {
		h.log.InternalError("mealcalls.list: history failed", err, "family_id", user.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	dtos := make([]mealCallDTO, 0, len(calls))
	for _, mc := range calls {
		dtos = append(dtos, toMealCallDTO(mc))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"meal_calls": dtos})
}

type respondRequest struct {
	Type          string `json:"type"`
	CustomMessage string `json:"custom_message"`
}

func (h *Handlers) RespondToMealCall(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req respondRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	mc, err := h.MealCalls.Respond(r.Context(), chi.URLParam(r, "id"), user.MemberID, req.Type, req.CustomMessage)
	if err != nil {
		switch {
		case errors.Is(err, mealcalldomain.ErrInvalidResponseType):
			writeError(w, http.StatusBadRequest, "invalid_request", "unknown response type")
		case errors.Is(err, mealcalldomain.ErrCallNotFound):
			writeError(w, http.StatusNotFound, "meal_call_not_found", "meal call not found")
		case errors.Is(err, mealcalldomain.ErrCallClosed):
			h.log.BusinessError("mealcalls.respond: call closed", err, "member_id", user.MemberID)
			writeError(w, http.StatusConflict, "meal_call_closed", "meal call is no longer active")
		default:
			h.log.InternalError("mealcalls.respond: respond failed", err, "member_id", user.MemberID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, toMealCallDTO(mc))
}

func (h *Handlers) RemindMealCall(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	pending, err := h.MealCalls.Remind(r.Context(), chi.URLParam(r, "id"), user.MemberID)
	if err != nil {
		switch {
		case errors.Is(err, mealcalldomain.ErrCallNotFound):
			writeError(w, http.StatusNotFound, "meal_call_not_found", "meal call not found")
		case errors.Is(err, mealcalldomain.ErrCallClosed):
			writeError(w, http.StatusConflict, "meal_call_closed", "meal call is no longer active")
		default:
			h.log.InternalError("mealcalls.remind: remind failed", err, "member_id", user.MemberID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pending_member_ids": pending})
}

func (h *Handlers) CompleteMealCall(w http.ResponseWriter, r *http.Request) {
	h.closeMealCall(w, r, h.MealCalls.Complete, "mealcalls.complete")
}

func (h *Handlers) CancelMealCall(w http.ResponseWriter, r *http.Request) {
	h.closeMealCall(w, r, h.MealCalls.Cancel, "mealcalls.cancel")
}

func (h *Handlers) closeMealCall(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*mealcalldomain.MealCall, error), tag string) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	mc, err := op(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, mealcalldomain.ErrCallNotFound):
			writeError(w, http.StatusNotFound, "meal_call_not_found", "meal call not found")
		case errors.Is(err, mealcalldomain.ErrCallClosed):
			h.log.BusinessError(tag+": call already closed", err, "member_id", user.MemberID)
			writeError(w, http.StatusConflict, "meal_call_closed", "meal call is no longer active")
		default:
			h.log.InternalError(tag+": transition failed", err, "member_id", user.MemberID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, toMealCallDTO(mc))
}

func (h *Handlers) loadFamilyCall(w http.ResponseWriter, r *http.Request, user middleware.CurrentUser) (*mealcalldomain.MealCall, error) {
	mc, err := h.MealCalls.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, mealcalldomain.ErrCallNotFound) {
			writeError(w, http.StatusNotFound, "meal_call_not_found", "meal call not found")
			return nil, err
		}
		h.log.InternalError("mealcalls.get: lookup failed", err, "member_id", user.MemberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return nil, err
	}
	if mc.FamilyID != user.FamilyID {
		writeError(w, http.StatusNotFound, "meal_call_not_found", "meal call not found")
		return nil, mealcalldomain.ErrCallNotFound
	}
	return mc, nil
}
