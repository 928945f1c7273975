package handler

import (
	"errors"
	"net/http"

	"mealcall-app-go/internal/auth"
	familydomain "mealcall-app-go/internal/domain/family"
)

type loginRequest struct {
	FamilyID string `json:"family_id"`
	Nickname string `json:"nickname"`
	PIN      string `json:"pin"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.FamilyID == "" || req.Nickname == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "family_id and nickname are required")
		return
	}
	if !validPIN(req.PIN) {
		writeError(w, http.StatusBadRequest, "invalid_request", "pin must be 4 digits")
		return
	}

	res, err := h.Families.Login(r.Context(), req.FamilyID, req.Nickname, req.PIN)
	if err != nil {
		if errors.Is(err, familydomain.ErrInvalidCredentials) || errors.Is(err, familydomain.ErrFamilyNotFound) {
			// One code for every miss so callers cannot probe which part
			// was wrong.
			h.log.BusinessError("auth.login: rejected", err, "family_id", req.FamilyID)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
			return
		}
		h.log.InternalError("auth.login: login failed", err, "family_id", req.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toAuthResultDTO(res))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "refresh_token is required")
		return
	}

	res, err := h.Families.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrTokenExpired) {
			h.log.BusinessError("auth.refresh: rejected", err)
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired refresh token")
			return
		}
		h.log.InternalError("auth.refresh: refresh failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toAuthResultDTO(res))
}
