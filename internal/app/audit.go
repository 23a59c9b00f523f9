package app

import (
	"github.com/dancestudio/manager/internal/event_bus"
	"github.com/dancestudio/manager/pkg/money"
	log "github.com/sirupsen/logrus"
)

// SubscribeAuditLog records finalized plans and catalog deletions in the application log.
func SubscribeAuditLog(eventBus *event_bus.EventBus) {
	event_bus.SubscribeTyped(eventBus, event_bus.PlanFinalizedType, func(e event_bus.EventT[event_bus.PlanFinalized]) error {
		log.WithFields(log.Fields{
			"requestId":   RequestId(e.Context()),
			"planId":      e.Data.PlanId,
			"studentId":   e.Data.StudentId,
			"grandTotal":  money.Plain(e.Data.GrandTotal),
			"remaining":   money.Plain(e.Data.Remaining),
			"months":      e.Data.Months,
			"installment": money.Plain(e.Data.Installment),
		}).Info("payment plan finalized")
		return nil
	})

	event_bus.SubscribeTyped(eventBus, event_bus.CatalogItemDeletedType, func(e event_bus.EventT[event_bus.CatalogItemDeleted]) error {
		log.WithFields(log.Fields{
			"requestId": RequestId(e.Context()),
			"itemId":    e.Data.Id,
			"category":  e.Data.Category,
			"name":      e.Data.Name,
		}).Info("catalog item deleted")
		return nil
	})
}
