package event_bus

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PlanFinalizedType      EventType = "payment_plan.finalized"
	CatalogItemDeletedType EventType = "catalog.item.deleted"
)

type PlanFinalized struct {
	PlanId      int
	StudentId   int
	TemplateId  *int
	GrandTotal  decimal.Decimal
	TotalDown   decimal.Decimal
	Remaining   decimal.Decimal
	Months      int
	Installment decimal.Decimal
	CreatedAt   time.Time
}

type CatalogItemDeleted struct {
	Id       int
	Category string
	Name     string
}
