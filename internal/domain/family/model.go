package family

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"mealcall-app-go/internal/domain/event"
)

// MaxMembers caps the roster of a single family, owner included.
const MaxMembers = 10

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

type Member struct {
	ID        string
	FamilyID  string
	Nickname  string
	HashedPIN string
	Role      Role
	CreatedAt time.Time
}

func newMember(familyID, nickname, hashedPIN string, role Role) Member {
	return Member{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		Nickname:  nickname,
		HashedPIN: hashedPIN,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}

type InviteLink struct {
	ID        string
	FamilyID  string
	Token     string
	ExpiresAt time.Time
	MaxUses   int
	UsedCount int
	CreatedBy string
}

// IsValid is a pure function of the link's fields and the given clock
// reading. Validity is never stored.
func (l *InviteLink) IsValid(now time.Time) bool {
	return now.Before(l.ExpiresAt) && l.UsedCount < l.MaxUses
}

// Use re-checks validity at call time so a stale earlier read cannot
// push the link past its limits.
func (l *InviteLink) Use(now time.Time) error {
	if !l.IsValid(now) {
		return ErrInviteInvalid
	}
	l.UsedCount++
	return nil
}

// Family is the aggregate root for household identity. Members and
// invite links are owned exclusively by it and only mutated through its
// operations; join order of Members is insertion order.
type Family struct {
	event.Recorder

	ID          string
	Name        string
	CreatedAt   time.Time
	Members     []Member
	InviteLinks []InviteLink
}

// New creates a family together with its OWNER member. Exactly one owner
// exists per family and the role is never reassigned.
func New(name, ownerNickname, ownerHashedPIN string) *Family {
	id := uuid.NewString()
	owner := newMember(id, ownerNickname, ownerHashedPIN, RoleOwner)

	f := &Family{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Members:   []Member{owner},
	}
	f.Record(FamilyCreated{
		Base:          event.NewBase(),
		FamilyID:      id,
		FamilyName:    name,
		OwnerID:       owner.ID,
		OwnerNickname: ownerNickname,
	})
	return f
}

func (f *Family) AddMember(nickname, hashedPIN string) (*Member, error) {
	if len(f.Members) >= MaxMembers {
		return nil, ErrFamilyFull
	}
	if f.MemberByNickname(nickname) != nil {
		return nil, ErrNicknameTaken
	}

	f.Members = append(f.Members, newMember(f.ID, nickname, hashedPIN, RoleMember))
	member := &f.Members[len(f.Members)-1]
	f.Record(MemberJoined{
		Base:     event.NewBase(),
		FamilyID: f.ID,
		MemberID: member.ID,
		Nickname: nickname,
	})
	return member, nil
}

// CreateInviteLink always succeeds; an expires_at already in the past
// just yields a link that is never valid.
func (f *Family) CreateInviteLink(createdBy string, expiresAt time.Time, maxUses int) *InviteLink {
	f.InviteLinks = append(f.InviteLinks, InviteLink{
		ID:        uuid.NewString(),
		FamilyID:  f.ID,
		Token:     newInviteToken(),
		ExpiresAt: expiresAt,
		MaxUses:   maxUses,
		CreatedBy: createdBy,
	})
	link := &f.InviteLinks[len(f.InviteLinks)-1]
	f.Record(InviteLinkCreated{
		Base:         event.NewBase(),
		FamilyID:     f.ID,
		InviteLinkID: link.ID,
		Token:        link.Token,
	})
	return link
}

func (f *Family) MemberByID(id string) *Member {
	for i := range f.Members {
		if f.Members[i].ID == id {
			return &f.Members[i]
		}
	}
	return nil
}

// MemberByNickname matches case-sensitively.
func (f *Family) MemberByNickname(nickname string) *Member {
	for i := range f.Members {
		if f.Members[i].Nickname == nickname {
			return &f.Members[i]
		}
	}
	return nil
}

// MemberIDs returns the roster in join order.
func (f *Family) MemberIDs() []string {
	ids := make([]string, len(f.Members))
	for i := range f.Members {
		ids[i] = f.Members[i].ID
	}
	return ids
}

func newInviteToken() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
