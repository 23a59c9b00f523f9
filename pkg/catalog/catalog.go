package catalog

import "github.com/shopspring/decimal"

// RecommendedCategories are offered even before any item exists in them.
var RecommendedCategories = []string{
	"Tuition",
	"Solo/Duo/Trio",
	"Groups",
	"Competitions & Conventions",
	"Choreography",
	"Costume Fees",
	"Administrative Fees",
	"Miscellaneous Fees",
}

type Item struct {
	Id       int
	Category string `json:"category" validate:"notblank"`
	Name     string `json:"name" validate:"notblank"`
	Price    decimal.Decimal
}
