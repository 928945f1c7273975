package notification

import "context"

type Repository interface {
	// Save upserts by member id so a member never holds two tokens.
	Save(ctx context.Context, reg *DeviceRegistration) error
	DeleteByMember(ctx context.Context, memberID string) error
	FindByMembers(ctx context.Context, memberIDs []string) ([]DeviceRegistration, error)
	FindByFamily(ctx context.Context, familyID string) ([]DeviceRegistration, error)
}

// Sender pushes a notification to a set of device tokens.
type Sender interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}
