package family

import "context"

type Repository interface {
	// Save upserts the family together with all members and invite links.
	Save(ctx context.Context, f *Family) error
	FindByID(ctx context.Context, familyID string) (*Family, error)
	// FindInviteLinkByToken resolves the owning family and the matching
	// link within it.
	FindInviteLinkByToken(ctx context.Context, token string) (*Family, *InviteLink, error)
	SaveInviteLink(ctx context.Context, link *InviteLink) error
	SaveMember(ctx context.Context, m *Member) error
}
