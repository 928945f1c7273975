package inmemory

import (
	"context"
	"sync"

	familydomain "mealcall-app-go/internal/domain/family"
)

// FamilyRepository is a map-backed familydomain.Repository for tests
// and local development. Stored aggregates are cloned on the way in and
// out so callers never share mutable state with the store.
type FamilyRepository struct {
	mu       sync.RWMutex
	families map[string]*familydomain.Family
}

func NewFamilyRepository() *FamilyRepository {
	return &FamilyRepository{families: make(map[string]*familydomain.Family)}
}

func (r *FamilyRepository) Save(_ context.Context, f *familydomain.Family) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[f.ID] = cloneFamily(f)
	return nil
}

func (r *FamilyRepository) FindByID(_ context.Context, familyID string) (*familydomain.Family, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.families[familyID]
	if !ok {
		return nil, familydomain.ErrFamilyNotFound
	}
	return cloneFamily(f), nil
}

func (r *FamilyRepository) FindInviteLinkByToken(_ context.Context, token string) (*familydomain.Family, *familydomain.InviteLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.families {
		for i := range f.InviteLinks {
			if f.InviteLinks[i].Token == token {
				clone := cloneFamily(f)
				return clone, &clone.InviteLinks[i], nil
			}
		}
	}
	return nil, nil, familydomain.ErrInviteNotFound
}

func (r *FamilyRepository) SaveMember(_ context.Context, m *familydomain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.families[m.FamilyID]
	if !ok {
		return familydomain.ErrFamilyNotFound
	}
	for i := range f.Members {
		if f.Members[i].ID == m.ID {
			f.Members[i] = *m
			return nil
		}
	}
	f.Members = append(f.Members, *m)
	return nil
}

func (r *FamilyRepository) SaveInviteLink(_ context.Context, l *familydomain.InviteLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.families[l.FamilyID]
	if !ok {
		return familydomain.ErrFamilyNotFound
	}
	for i := range f.InviteLinks {
		if f.InviteLinks[i].ID == l.ID {
			f.InviteLinks[i] = *l
			return nil
		}
	}
	f.InviteLinks = append(f.InviteLinks, *l)
	return nil
}

func cloneFamily(f *familydomain.Family) *familydomain.Family {
	clone := &familydomain.Family{
		ID:        f.ID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
	}
	clone.Members = append(clone.Members, f.Members...)
	clone.InviteLinks = append(clone.InviteLinks, f.InviteLinks...)
	return clone
}
