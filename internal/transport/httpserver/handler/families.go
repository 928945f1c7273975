package handler

import (
	"errors"
	"net/http"
	"time"

	familydomain "mealcall-app-go/internal/domain/family"
	"mealcall-app-go/internal/transport/httpserver/middleware"
)

type createFamilyRequest struct {
	FamilyName string `json:"family_name"`
	Nickname   string `json:"nickname"`
	PIN        string `json:"pin"`
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.FamilyName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "family_name is required")
		return
	}
	if req.Nickname == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "nickname is required")
		return
	}
	if !validPIN(req.PIN) {
		writeError(w, http.StatusBadRequest, "invalid_request", "pin must be 4 digits")
		return
	}

	res, err := h.Families.CreateFamily(r.Context(), req.FamilyName, req.Nickname, req.PIN)
	if err != nil {
		h.log.InternalError("families.create: create family failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, toAuthResultDTO(res))
}

func (h *Handlers) GetMyFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	f, err := h.Families.GetFamily(r.Context(), user.FamilyID)
	if err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.get: family not found", err, "family_id", user.FamilyID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.get: get family failed", err, "family_id", user.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toFamilyDTO(f))
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	f, err := h.Families.GetFamily(r.Context(), user.FamilyID)
	if err != nil {
		h.log.InternalError("families.members: get family failed", err, "family_id", user.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	members := make([]memberDTO, 0, len(f.Members))
	for _, m := range f.Members {
		members = append(members, toMemberDTO(m))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

type createInviteLinkRequest struct {
	ExpiresAt time.Time `json:"expires_at"`
	MaxUses   int       `json:"max_uses"`
}

func (h *Handlers) CreateInviteLink(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req createInviteLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.ExpiresAt.IsZero() {
		req.ExpiresAt = time.Now().UTC().Add(24 * time.Hour)
	}

	link, err := h.Families.CreateInviteLink(r.Context(), user.FamilyID, user.MemberID, req.ExpiresAt, req.MaxUses)
	if err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("invites.create: family not found", err, "family_id", user.FamilyID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("invites.create: create invite failed", err, "family_id", user.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, toInviteLinkDTO(link))
}

func (h *Handlers) ValidateInvite(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	link, err := h.Families.ValidateInvite(r.Context(), token)
	if err != nil {
		if errors.Is(err, familydomain.ErrInviteNotFound) || errors.Is(err, familydomain.ErrInviteInvalid) {
			h.log.BusinessError("invites.validate: invite unusable", err)
			writeError(w, http.StatusNotFound, "invite_invalid", "invite link is invalid or expired")
			return
		}
		h.log.InternalError("invites.validate: validate failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	f, err := h.Families.GetFamily(r.Context(), link.FamilyID)
	if err != nil {
		h.log.InternalError("invites.validate: get family failed", err, "family_id", link.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"family_id":   f.ID,
		"family_name": f.Name,
		"expires_at":  link.ExpiresAt,
	})
}

type joinFamilyRequest struct {
	Token    string `json:"token"`
	Nickname string `json:"nickname"`
	PIN      string `json:"pin"`
}

func (h *Handlers) JoinFamily(w http.ResponseWriter, r *http.Request) {
	var req joinFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}
	if req.Nickname == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "nickname is required")
		return
	}
	if !validPIN(req.PIN) {
		writeError(w, http.StatusBadRequest, "invalid_request", "pin must be 4 digits")
		return
	}

	res, err := h.Families.Join(r.Context(), req.Token, req.Nickname, req.PIN)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrInviteNotFound), errors.Is(err, familydomain.ErrInviteInvalid):
			h.log.BusinessError("families.join: invite unusable", err)
			writeError(w, http.StatusGone, "invite_invalid", "invite link is invalid or expired")
		case errors.Is(err, familydomain.ErrNicknameTaken):
			h.log.BusinessError("families.join: nickname taken", err, "nickname", req.Nickname)
			writeError(w, http.StatusConflict, "nickname_taken", "nickname already used in this family")
		case errors.Is(err, familydomain.ErrFamilyFull):
			h.log.BusinessError("families.join: family full", err)
			writeError(w, http.StatusConflict, "family_full", "family already has the maximum number of members")
		default:
			h.log.InternalError("families.join: join failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, toAuthResultDTO(res))
}
