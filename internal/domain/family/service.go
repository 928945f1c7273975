package family

import (
	"context"
	"strings"
	"time"

	"mealcall-app-go/internal/auth"
	"mealcall-app-go/internal/domain/event"
	"mealcall-app-go/pkg/logger"
)

type Hasher interface {
	Hash(pin string) (string, error)
	Verify(pin, hashed string) bool
}

type Tokens interface {
	Issue(memberID, familyID, nickname, role string) (auth.TokenPair, error)
	VerifyRefresh(token string) (*auth.Claims, error)
}

type Publisher interface {
	PublishAll(ctx context.Context, events []event.Event)
}

// AuthResult is returned by every operation that establishes a session.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	Member       Member
}

type Service struct {
	repo   Repository
	hasher Hasher
	tokens Tokens
	bus    Publisher
	log    logger.Logger
}

func NewService(repo Repository, hasher Hasher, tokens Tokens, bus Publisher, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		bus:    bus,
		log:    log,
	}
}

func (s *Service) CreateFamily(ctx context.Context, familyName, ownerNickname, ownerPIN string) (*AuthResult, error) {
	hashed, err := s.hasher.Hash(ownerPIN)
	if err != nil {
		return nil, err
	}

	f := New(strings.TrimSpace(familyName), ownerNickname, hashed)
	if err := s.repo.Save(ctx, f); err != nil {
		return nil, err
	}
	s.bus.PublishAll(ctx, f.Collect())

	owner := f.Members[0]
	pair, err := s.tokens.Issue(owner.ID, f.ID, owner.Nickname, string(owner.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Member:       owner,
	}, nil
}

// Join redeems an invite token: validity is re-checked by link.Use at
// mutation time, not just at this read.
func (s *Service) Join(ctx context.Context, token, nickname, pin string) (*AuthResult, error) {
	f, link, err := s.repo.FindInviteLinkByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !link.IsValid(now) {
		return nil, ErrInviteInvalid
	}

	hashed, err := s.hasher.Hash(pin)
	if err != nil {
		return nil, err
	}

	member, err := f.AddMember(nickname, hashed)
	if err != nil {
		return nil, err
	}
	if err := link.Use(now); err != nil {
		return nil, err
	}

	if err := s.repo.SaveMember(ctx, member); err != nil {
		return nil, err
	}
	if err := s.repo.SaveInviteLink(ctx, link); err != nil {
		return nil, err
	}
	s.bus.PublishAll(ctx, f.Collect())

	pair, err := s.tokens.Issue(member.ID, f.ID, member.Nickname, string(member.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Member:       *member,
	}, nil
}

func (s *Service) CreateInviteLink(ctx context.Context, familyID, createdBy string, expiresAt time.Time, maxUses int) (*InviteLink, error) {
	f, err := s.repo.FindByID(ctx, familyID)
	if err != nil {
		return nil, err
	}

	if maxUses <= 0 {
		maxUses = 1
	}
	link := f.CreateInviteLink(createdBy, expiresAt, maxUses)
	if err := s.repo.SaveInviteLink(ctx, link); err != nil {
		return nil, err
	}
	s.bus.PublishAll(ctx, f.Collect())
	return link, nil
}

func (s *Service) ValidateInvite(ctx context.Context, token string) (*InviteLink, error) {
	_, link, err := s.repo.FindInviteLinkByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !link.IsValid(time.Now().UTC()) {
		return nil, ErrInviteInvalid
	}
	return link, nil
}

func (s *Service) Login(ctx context.Context, familyID, nickname, pin string) (*AuthResult, error) {
	f, err := s.repo.FindByID(ctx, familyID)
	if err != nil {
		return nil, err
	}

	member := f.MemberByNickname(nickname)
	if member == nil || !s.hasher.Verify(pin, member.HashedPIN) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(member.ID, f.ID, member.Nickname, string(member.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Member:       *member,
	}, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	f, err := s.repo.FindByID(ctx, claims.FamilyID)
	if err != nil {
		// A token pointing at a family that no longer resolves is
		// indistinguishable from a forged one.
		return nil, auth.ErrInvalidToken
	}

	member := f.MemberByID(claims.Subject)
	if member == nil {
		return nil, auth.ErrInvalidToken
	}

	pair, err := s.tokens.Issue(member.ID, f.ID, member.Nickname, string(member.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Member:       *member,
	}, nil
}

func (s *Service) GetFamily(ctx context.Context, familyID string) (*Family, error) {
	return s.repo.FindByID(ctx, familyID)
}

// MemberIDs supplies the current roster; the meal-call service snapshots
// it at call-creation time.
func (s *Service) MemberIDs(ctx context.Context, familyID string) ([]string, error) {
	f, err := s.repo.FindByID(ctx, familyID)
	if err != nil {
		return nil, err
	}
	return f.MemberIDs(), nil
}
