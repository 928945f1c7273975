package inmemory

import (
	"context"
	"sync"

	notificationdomain "mealcall-app-go/internal/domain/notification"
)

type DeviceRepository struct {
	mu       sync.RWMutex
	byMember map[string]notificationdomain.DeviceRegistration
}

func NewDeviceRepository() *DeviceRepository {
	return &DeviceRepository{byMember: make(map[string]notificationdomain.DeviceRegistration)}
}

func (r *DeviceRepository) Save(_ context.Context, reg *notificationdomain.DeviceRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byMember[reg.MemberID] = *reg
	return nil
}

func (r *DeviceRepository) DeleteByMember(_ context.Context, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byMember[memberID]; !ok {
		return notificationdomain.ErrDeviceNotFound
	}
	delete(r.byMember, memberID)
	return nil
}

func (r *DeviceRepository) FindByMembers(_ context.Context, memberIDs []string) ([]notificationdomain.DeviceRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var regs []notificationdomain.DeviceRegistration
	for _, id := range memberIDs {
		if reg, ok := r.byMember[id]; ok {
			regs = append(regs, reg)
		}
	}
	return regs, nil
}

func (r *DeviceRepository) FindByFamily(_ context.Context, familyID string) ([]notificationdomain.DeviceRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var regs []notificationdomain.DeviceRegistration
	for _, reg := range r.byMember {
		if reg.FamilyID == familyID {
			regs = append(regs, reg)
		}
	}
	return regs, nil
}
