package mealcall

import (
	"context"
	"errors"
	"time"

	"mealcall-app-go/internal/domain/event"
	"mealcall-app-go/pkg/logger"
)

const defaultHistoryLimit = 20

type Publisher interface {
	PublishAll(ctx context.Context, events []event.Event)
}

type Config struct {
	// StrictCategories rejects unknown menu categories instead of
	// coercing them to ETC.
	StrictCategories bool
	HistoryLimit     int
	ActiveCacheTTL   time.Duration
}

type Service struct {
	repo   Repository
	menus  MenuRepository
	roster Roster
	bus    Publisher
	cache  Cache
	cfg    Config
	log    logger.Logger
}

func NewService(repo Repository, menus MenuRepository, roster Roster, bus Publisher, cache Cache, cfg Config, log logger.Logger) *Service {
	if cache == nil {
		cache = NewNoopCache()
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	return &Service{
		repo:   repo,
		menus:  menus,
		roster: roster,
		bus:    bus,
		cache:  cache,
		cfg:    cfg,
		log:    log,
	}
}

// Create broadcasts a new meal call. The current family roster is read
// once here and frozen into the aggregate.
func (s *Service) Create(ctx context.Context, familyID, callerID, callerNickname string, menuItemIDs []string, message string) (*MealCall, error) {
	memberIDs, err := s.roster.MemberIDs(ctx, familyID)
	if err != nil {
		return nil, err
	}

	menus := make([]MenuItem, 0, len(menuItemIDs))
	for _, id := range menuItemIDs {
		item, err := s.menus.FindByID(ctx, id)
		if errors.Is(err, ErrMenuNotFound) {
			// Unknown menu ids are dropped, not fatal.
			continue
		}
		if err != nil {
			return nil, err
		}
		menus = append(menus, *item)
	}

	mc := New(familyID, callerID, callerNickname, memberIDs, menus, message)
	if err := s.repo.Save(ctx, mc); err != nil {
		return nil, err
	}
	s.cache.SetActiveID(ctx, familyID, mc.ID, s.cfg.ActiveCacheTTL)
	s.bus.PublishAll(ctx, mc.Collect())
	return mc, nil
}

// Respond records a member's answer. The response type is validated
// before the call is even loaded, so an invalid value mutates nothing.
func (s *Service) Respond(ctx context.Context, mealCallID, memberID, responseType, customMessage string) (*MealCall, error) {
	rt, err := ParseResponseType(responseType)
	if err != nil {
		return nil, err
	}

	mc, err := s.repo.FindByID(ctx, mealCallID)
	if err != nil {
		return nil, err
	}
	if _, err := mc.Respond(memberID, rt, customMessage); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, mc); err != nil {
		return nil, err
	}
	s.bus.PublishAll(ctx, mc.Collect())
	return mc, nil
}

func (s *Service) Remind(ctx context.Context, mealCallID, requesterID string) ([]string, error) {
	mc, err := s.repo.FindByID(ctx, mealCallID)
	if err != nil {
		return nil, err
	}
	pending, err := mc.RequestReminder(requesterID)
	if err != nil {
		return nil, err
	}
	s.bus.PublishAll(ctx, mc.Collect())
	return pending, nil
}

func (s *Service) Complete(ctx context.Context, mealCallID string) (*MealCall, error) {
	return s.close(ctx, mealCallID, (*MealCall).Complete)
}

func (s *Service) Cancel(ctx context.Context, mealCallID string) (*MealCall, error) {
	return s.close(ctx, mealCallID, (*MealCall).Cancel)
}

func (s *Service) close(ctx context.Context, mealCallID string, transition func(*MealCall) error) (*MealCall, error) {
	mc, err := s.repo.FindByID(ctx, mealCallID)
	if err != nil {
		return nil, err
	}
	if err := transition(mc); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, mc); err != nil {
		return nil, err
	}
	s.cache.DeleteActiveID(ctx, mc.FamilyID)
	return mc, nil
}

func (s *Service) Active(ctx context.Context, familyID string) (*MealCall, error) {
	if id, ok := s.cache.GetActiveID(ctx, familyID); ok {
		mc, err := s.repo.FindByID(ctx, id)
		if err == nil && mc.FamilyID == familyID && mc.IsActive() {
			return mc, nil
		}
		s.cache.DeleteActiveID(ctx, familyID)
	}

	mc, err := s.repo.FindActiveByFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	s.cache.SetActiveID(ctx, familyID, mc.ID, s.cfg.ActiveCacheTTL)
	return mc, nil
}

func (s *Service) Get(ctx context.Context, mealCallID string) (*MealCall, error) {
	return s.repo.FindByID(ctx, mealCallID)
}

func (s *Service) History(ctx context.Context, familyID string, limit int) ([]*MealCall, error) {
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	return s.repo.FindByFamily(ctx, familyID, limit)
}

func (s *Service) CreateMenu(ctx context.Context, familyID, name, icon, category string) (*MenuItem, error) {
	cat, err := ParseCategory(category, s.cfg.StrictCategories)
	if err != nil {
		return nil, err
	}

	item := NewMenuItem(familyID, name, icon, cat)
	if err := s.menus.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) ListMenus(ctx context.Context, familyID string) ([]MenuItem, error) {
	return s.menus.FindByFamily(ctx, familyID)
}
