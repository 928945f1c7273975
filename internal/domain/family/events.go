package family

import "mealcall-app-go/internal/domain/event"

const (
	EventFamilyCreated     = "FamilyCreated"
	EventMemberJoined      = "MemberJoined"
	EventInviteLinkCreated = "InviteLinkCreated"
)

type FamilyCreated struct {
	event.Base
	FamilyID      string `json:"family_id"`
	FamilyName    string `json:"family_name"`
	OwnerID       string `json:"owner_id"`
	OwnerNickname string `json:"owner_nickname"`
}

func (FamilyCreated) EventType() string { return EventFamilyCreated }

type MemberJoined struct {
	event.Base
	FamilyID string `json:"family_id"`
	MemberID string `json:"member_id"`
	Nickname string `json:"nickname"`
}

func (MemberJoined) EventType() string { return EventMemberJoined }

type InviteLinkCreated struct {
	event.Base
	FamilyID     string `json:"family_id"`
	InviteLinkID string `json:"invite_link_id"`
	Token        string `json:"token"`
}

func (InviteLinkCreated) EventType() string { return EventInviteLinkCreated }
