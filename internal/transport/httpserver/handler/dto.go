package handler

import (
	"time"

	familydomain "mealcall-app-go/internal/domain/family"
	mealcalldomain "mealcall-app-go/internal/domain/mealcall"
)

const inviteURLScheme = "babmeokja://invite/"

type memberDTO struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toMemberDTO(m familydomain.Member) memberDTO {
	return memberDTO{
		ID:        m.ID,
		Nickname:  m.Nickname,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

type familyDTO struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"created_at"`
	Members   []memberDTO `json:"members"`
}

func toFamilyDTO(f *familydomain.Family) familyDTO {
	members := make([]memberDTO, 0, len(f.Members))
	for _, m := range f.Members {
		members = append(members, toMemberDTO(m))
	}
	return familyDTO{
		ID:        f.ID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		Members:   members,
	}
}

type authResultDTO struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Member       memberDTO `json:"member"`
}

func toAuthResultDTO(res *familydomain.AuthResult) authResultDTO {
	return authResultDTO{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		Member:       toMemberDTO(res.Member),
	}
}

type inviteLinkDTO struct {
	Token     string    `json:"token"`
	InviteURL string    `json:"invite_url"`
	ExpiresAt time.Time `json:"expires_at"`
	MaxUses   int       `json:"max_uses"`
	UsedCount int       `json:"used_count"`
}

func toInviteLinkDTO(l *familydomain.InviteLink) inviteLinkDTO {
	return inviteLinkDTO{
		Token:     l.Token,
		InviteURL: inviteURLScheme + l.Token,
		ExpiresAt: l.ExpiresAt,
		MaxUses:   l.MaxUses,
		UsedCount: l.UsedCount,
	}
}

type menuItemDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Category string `json:"category"`
}

func toMenuItemDTO(item mealcalldomain.MenuItem) menuItemDTO {
	return menuItemDTO{
		ID:       item.ID,
		Name:     item.Name,
		Icon:     item.Icon,
		Category: string(item.Category),
	}
}

type mealResponseDTO struct {
	ID            string    `json:"id"`
	MemberID      string    `json:"member_id"`
	Type          string    `json:"type"`
	CustomMessage string    `json:"custom_message,omitempty"`
	RespondedAt   time.Time `json:"responded_at"`
}

type mealCallDTO struct {
	ID               string            `json:"id"`
	FamilyID         string            `json:"family_id"`
	CallerID         string            `json:"caller_id"`
	Message          string            `json:"message,omitempty"`
	Status           string            `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	Menus            []menuItemDTO     `json:"menus"`
	Responses        []mealResponseDTO `json:"responses"`
	PendingMemberIDs []string          `json:"pending_member_ids"`
}

func toMealCallDTO(mc *mealcalldomain.MealCall) mealCallDTO {
	menus := make([]menuItemDTO, 0, len(mc.Menus))
	for _, item := range mc.Menus {
		menus = append(menus, toMenuItemDTO(item))
	}
	responses := make([]mealResponseDTO, 0, len(mc.Responses))
	for _, resp := range mc.Responses {
		responses = append(responses, mealResponseDTO{
			ID:            resp.ID,
			MemberID:      resp.MemberID,
			Type:          string(resp.Type),
			CustomMessage: resp.CustomMessage,
			RespondedAt:   resp.RespondedAt,
		})
	}
	return mealCallDTO{
		ID:               mc.ID,
		FamilyID:         mc.FamilyID,
		CallerID:         mc.CallerID,
		Message:          mc.Message,
		Status:           string(mc.Status),
		CreatedAt:        mc.CreatedAt,
		CompletedAt:      mc.CompletedAt,
		Menus:            menus,
		Responses:        responses,
		PendingMemberIDs: mc.PendingMemberIDs(),
	}
}
