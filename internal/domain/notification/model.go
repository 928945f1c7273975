package notification

import (
	"time"

	"github.com/google/uuid"
)

// DeviceRegistration binds a push token to a family member. A member
// holds at most one registration; re-registering replaces the token.
type DeviceRegistration struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	FamilyID  string    `json:"family_id"`
	PushToken string    `json:"push_token"`
	Platform  string    `json:"platform,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewDeviceRegistration(memberID, familyID, pushToken, platform string) *DeviceRegistration {
	return &DeviceRegistration{
		ID:        uuid.NewString(),
		MemberID:  memberID,
		FamilyID:  familyID,
		PushToken: pushToken,
		Platform:  platform,
		UpdatedAt: time.Now().UTC(),
	}
}
