package family

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"mealcall-app-go/internal/auth"
	"mealcall-app-go/internal/domain/event"
	"mealcall-app-go/pkg/logger"
)

type fakeFamilyRepo struct {
	families map[string]*Family
}

func newFakeFamilyRepo() *fakeFamilyRepo {
	return &fakeFamilyRepo{families: make(map[string]*Family)}
}

func (r *fakeFamilyRepo) Save(ctx context.Context, f *Family) error {
	r.families[f.ID] = f
	return nil
}

func (r *fakeFamilyRepo) FindByID(ctx context.Context, familyID string) (*Family, error) {
	f, ok := r.families[familyID]
	if !ok {
		return nil, ErrFamilyNotFound
	}
	return f, nil
}

func (r *fakeFamilyRepo) FindInviteLinkByToken(ctx context.Context, token string) (*Family, *InviteLink, error) {
	for _, f := range r.families {
		for i := range f.InviteLinks {
			if f.InviteLinks[i].Token == token {
				return f, &f.InviteLinks[i], nil
			}
		}
	}
	return nil, nil, ErrInviteNotFound
}

func (r *fakeFamilyRepo) SaveInviteLink(ctx context.Context, link *InviteLink) error {
	return nil
}

func (r *fakeFamilyRepo) SaveMember(ctx context.Context, m *Member) error {
	return nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(pin string) (string, error) { return "hashed:" + pin, nil }

func (fakeHasher) Verify(pin, hashed string) bool { return hashed == "hashed:"+pin }

type fakeTokens struct {
	refreshClaims *auth.Claims
	refreshErr    error
}

func (f *fakeTokens) Issue(memberID, familyID, nickname, role string) (auth.TokenPair, error) {
	return auth.TokenPair{
		AccessToken:  "access:" + memberID,
		RefreshToken: "refresh:" + memberID,
	}, nil
}

func (f *fakeTokens) VerifyRefresh(token string) (*auth.Claims, error) {
	return f.refreshClaims, f.refreshErr
}

type capturingBus struct {
	published []event.Event
}

func (b *capturingBus) PublishAll(ctx context.Context, events []event.Event) {
	b.published = append(b.published, events...)
}

func newTestService(repo *fakeFamilyRepo, bus *capturingBus) *Service {
	return NewService(repo, fakeHasher{}, &fakeTokens{}, bus, logger.New(io.Discard, slog.LevelError, "text"))
}

func TestCreateFamilyIssuesOwnerSession(t *testing.T) {
	repo := newFakeFamilyRepo()
	bus := &capturingBus{}
	svc := newTestService(repo, bus)

	result, err := svc.CreateFamily(context.Background(), "김씨 가족", "아빠", "1234")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Member.Role != RoleOwner {
		t.Fatalf("expected owner role, got %q", result.Member.Role)
	}
	if result.Member.HashedPIN != "hashed:1234" {
		t.Fatalf("expected hashed pin stored, got %q", result.Member.HashedPIN)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected both tokens issued")
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(bus.published))
	}
	created, ok := bus.published[0].(FamilyCreated)
	if !ok {
		t.Fatalf("expected FamilyCreated, got %T", bus.published[0])
	}
	if created.OwnerID != result.Member.ID {
		t.Fatalf("expected owner id %s, got %s", result.Member.ID, created.OwnerID)
	}

	saved, ok := repo.families[result.Member.FamilyID]
	if !ok {
		t.Fatal("expected family persisted")
	}
	if got := saved.Collect(); len(got) != 0 {
		t.Fatalf("expected aggregate drained after publish, got %d events", len(got))
	}
}

func TestJoinConsumesInviteUses(t *testing.T) {
	repo := newFakeFamilyRepo()
	bus := &capturingBus{}
	svc := newTestService(repo, bus)

	f := New("Fam", "owner", "hashed:0000")
	f.Collect()
	link := f.CreateInviteLink(f.Members[0].ID, time.Now().UTC().Add(time.Hour), 3)
	f.Collect()
	repo.families[f.ID] = f

	for i := 1; i <= 3; i++ {
		result, err := svc.Join(context.Background(), link.Token, fmt.Sprintf("cousin-%d", i), "1111")
		if err != nil {
			t.Fatalf("expected join %d to succeed, got %v", i, err)
		}
		if result.Member.Role != RoleMember {
			t.Fatalf("expected member role, got %q", result.Member.Role)
		}
	}
	if link.UsedCount != 3 {
		t.Fatalf("expected used count 3, got %d", link.UsedCount)
	}

	if _, err := svc.Join(context.Background(), link.Token, "cousin-4", "1111"); !errors.Is(err, ErrInviteInvalid) {
		t.Fatalf("expected ErrInviteInvalid on exhausted link, got %v", err)
	}
	if len(f.Members) != 4 {
		t.Fatalf("expected 4 members, got %d", len(f.Members))
	}
}

func TestJoinRejectsUnknownToken(t *testing.T) {
	svc := newTestService(newFakeFamilyRepo(), &capturingBus{})

	if _, err := svc.Join(context.Background(), "missing", "nick", "1111"); !errors.Is(err, ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound, got %v", err)
	}
}

func TestJoinRejectsExpiredLink(t *testing.T) {
	repo := newFakeFamilyRepo()
	svc := newTestService(repo, &capturingBus{})

	f := New("Fam", "owner", "hashed:0000")
	link := f.CreateInviteLink(f.Members[0].ID, time.Now().UTC().Add(-time.Minute), 5)
	f.Collect()
	repo.families[f.ID] = f

	if _, err := svc.Join(context.Background(), link.Token, "nick", "1111"); !errors.Is(err, ErrInviteInvalid) {
		t.Fatalf("expected ErrInviteInvalid for expired link, got %v", err)
	}
}

func TestJoinRejectsDuplicateNickname(t *testing.T) {
	repo := newFakeFamilyRepo()
	svc := newTestService(repo, &capturingBus{})

	f := New("Fam", "owner", "hashed:0000")
	link := f.CreateInviteLink(f.Members[0].ID, time.Now().UTC().Add(time.Hour), 5)
	f.Collect()
	repo.families[f.ID] = f

	if _, err := svc.Join(context.Background(), link.Token, "owner", "1111"); !errors.Is(err, ErrNicknameTaken) {
		t.Fatalf("expected ErrNicknameTaken, got %v", err)
	}
	if link.UsedCount != 0 {
		t.Fatalf("expected no use consumed on rejected join, got %d", link.UsedCount)
	}
}

func TestLoginVerifiesPIN(t *testing.T) {
	repo := newFakeFamilyRepo()
	svc := newTestService(repo, &capturingBus{})

	f := New("Fam", "아빠", "hashed:1234")
	f.Collect()
	repo.families[f.ID] = f

	result, err := svc.Login(context.Background(), f.ID, "아빠", "1234")
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if result.Member.Nickname != "아빠" {
		t.Fatalf("expected member 아빠, got %q", result.Member.Nickname)
	}

	if _, err := svc.Login(context.Background(), f.ID, "아빠", "9999"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong pin, got %v", err)
	}
	if _, err := svc.Login(context.Background(), f.ID, "없는사람", "1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown nickname, got %v", err)
	}
}

func TestRefreshRejectsStaleSubject(t *testing.T) {
	repo := newFakeFamilyRepo()
	bus := &capturingBus{}

	f := New("Fam", "owner", "hashed:0000")
	f.Collect()
	repo.families[f.ID] = f

	tokens := &fakeTokens{refreshClaims: &auth.Claims{FamilyID: f.ID}}
	tokens.refreshClaims.Subject = "gone-member"
	svc := NewService(repo, fakeHasher{}, tokens, bus, logger.New(io.Discard, slog.LevelError, "text"))

	if _, err := svc.Refresh(context.Background(), "whatever"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for vanished member, got %v", err)
	}
}

func TestCreateInviteLinkPublishesEvent(t *testing.T) {
	repo := newFakeFamilyRepo()
	bus := &capturingBus{}
	svc := newTestService(repo, bus)

	f := New("Fam", "owner", "hashed:0000")
	f.Collect()
	repo.families[f.ID] = f

	link, err := svc.CreateInviteLink(context.Background(), f.ID, f.Members[0].ID, time.Now().UTC().Add(time.Hour), 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if link.MaxUses != 1 {
		t.Fatalf("expected max uses defaulted to 1, got %d", link.MaxUses)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(bus.published))
	}
	if _, ok := bus.published[0].(InviteLinkCreated); !ok {
		t.Fatalf("expected InviteLinkCreated, got %T", bus.published[0])
	}
}
