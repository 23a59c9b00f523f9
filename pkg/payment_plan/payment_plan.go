package payment_plan

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemType string

const (
	Credit  ItemType = "Credit"
	Expense ItemType = "Expense"
)

// DownPaymentType is the item type of the two down payment rows written with every plan.
// It can never be used as a category.
const DownPaymentType = "Down Payment"

const (
	DownPayment1Name = "Down Payment 1"
	DownPayment2Name = "Down Payment 2"
)

type PaymentTemplate struct {
	Id   int
	Name string `json:"name" validate:"notblank"`
}

type TemplateItem struct {
	Id         int
	TemplateId int
	Name       string `json:"name" validate:"notblank"`
	Price      decimal.Decimal
	ItemType   ItemType `json:"itemType" validate:"oneof=Credit Expense"`
}

// PlanRecord is one finalized plan. Records and their items are never updated or deleted.
type PlanRecord struct {
	Id         int
	StudentId  int
	TemplateId *int
	Months     int
	CreatedAt  time.Time
}

// PlanItem is one ledger line of a plan. ItemType holds the category of a selected item,
// or DownPaymentType for the down payment rows.
type PlanItem struct {
	Id       int
	PlanId   int
	Name     string `json:"name" validate:"notblank"`
	Price    decimal.Decimal
	ItemType string `json:"itemType" validate:"notblank"`
}

type SelectedItem struct {
	Name  string
	Price decimal.Decimal
}

type CategorySelection struct {
	Category string
	Items    []SelectedItem
}

type FinalizeRequest struct {
	StudentId  int
	TemplateId *int
	Selections []CategorySelection
	Down1      decimal.Decimal
	Down2      decimal.Decimal
	Months     int
}

type CategorySubtotal struct {
	Category string
	Subtotal decimal.Decimal
}

// Summary is the computed view of a plan. Amounts are kept at full precision; rounding happens
// only when they are displayed.
type Summary struct {
	PlanId      int
	StudentId   int
	TemplateId  *int
	CreatedAt   time.Time
	Subtotals   []CategorySubtotal
	GrandTotal  decimal.Decimal
	TotalDown   decimal.Decimal
	Remaining   decimal.Decimal
	Months      int
	Installment decimal.Decimal
	DueInFull   bool
	Items       []PlanItem
}
