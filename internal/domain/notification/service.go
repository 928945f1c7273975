package notification

import (
	"context"
	"errors"

	"mealcall-app-go/pkg/logger"
)

type Service struct {
	repo Repository
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// RegisterDevice stores the member's current push token, replacing any
// previous one.
func (s *Service) RegisterDevice(ctx context.Context, memberID, familyID, pushToken, platform string) (*DeviceRegistration, error) {
	reg := NewDeviceRegistration(memberID, familyID, pushToken, platform)
	if err := s.repo.Save(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// UnregisterDevice drops the member's registration, typically on
// logout. Unregistering a member without one is not an error.
func (s *Service) UnregisterDevice(ctx context.Context, memberID string) error {
	err := s.repo.DeleteByMember(ctx, memberID)
	if err != nil && !errors.Is(err, ErrDeviceNotFound) {
		return err
	}
	return nil
}
