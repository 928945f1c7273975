package handler

import (
	"net/http"

	"mealcall-app-go/internal/transport/httpserver/middleware"
)

type registerDeviceRequest struct {
	PushToken string `json:"push_token"`
	Platform  string `json:"platform"`
}

func (h *Handlers) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req registerDeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.PushToken == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "push_token is required")
		return
	}

	reg, err := h.Notifications.RegisterDevice(r.Context(), user.MemberID, user.FamilyID, req.PushToken, req.Platform)
	if err != nil {
		h.log.InternalError("devices.register: save failed", err, "member_id", user.MemberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":         reg.ID,
		"push_token": reg.PushToken,
		"platform":   reg.Platform,
	})
}

func (h *Handlers) UnregisterDevice(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	if err := h.Notifications.UnregisterDevice(r.Context(), user.MemberID); err != nil {
		h.log.InternalError("devices.unregister: delete failed", err, "member_id", user.MemberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
