package handler

import (
	familydomain "mealcall-app-go/internal/domain/family"
	mealcalldomain "mealcall-app-go/internal/domain/mealcall"
	notificationdomain "mealcall-app-go/internal/domain/notification"
	"mealcall-app-go/pkg/logger"
)

type Handlers struct {
	Families      *familydomain.Service
	MealCalls     *mealcalldomain.Service
	Notifications *notificationdomain.Service

	log logger.Logger
}

func New(families *familydomain.Service, mealCalls *mealcalldomain.Service, notifications *notificationdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Families:      families,
		MealCalls:     mealCalls,
		Notifications: notifications,
		log:           log,
	}
}
