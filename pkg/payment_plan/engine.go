package payment_plan

import (
	"github.com/shopspring/decimal"
)

// installmentPrecision is the number of fractional digits kept when the remaining balance is split.
// Digits beyond it are truncated, so the installment is rounded only once, for display.
const installmentPrecision = 16

// MergeSelections joins repeated categories in first-appearance order and drops categories without items.
func MergeSelections(selections []CategorySelection) []CategorySelection {
	index := make(map[string]int, len(selections))
	merged := make([]CategorySelection, 0, len(selections))
	for _, selection := range selections {
		if len(selection.Items) == 0 {
			continue
		}
		if i, ok := index[selection.Category]; ok {
			merged[i].Items = append(merged[i].Items, selection.Items...)
			continue
		}
		index[selection.Category] = len(merged)
		items := make([]SelectedItem, len(selection.Items))
		copy(items, selection.Items)
		merged = append(merged, CategorySelection{Category: selection.Category, Items: items})
	}
	return merged
}

// ComputeSummary derives subtotals, totals and the installment from the selections, and lays out the
// ledger lines to persist: every selected item under its category, then both down payments.
// It has no side effects.
func ComputeSummary(selections []CategorySelection, down1, down2 decimal.Decimal, months int) Summary {
	summary := Summary{
		Subtotals:   make([]CategorySubtotal, 0, len(selections)),
		GrandTotal:  decimal.Zero,
		Months:      months,
		Installment: decimal.Zero,
	}

	for _, selection := range MergeSelections(selections) {
		subtotal := decimal.Zero
		for _, item := range selection.Items {
			subtotal = subtotal.Add(item.Price)
			summary.Items = append(summary.Items, PlanItem{
				Name:     item.Name,
				Price:    item.Price,
				ItemType: selection.Category,
			})
		}
		summary.Subtotals = append(summary.Subtotals, CategorySubtotal{Category: selection.Category, Subtotal: subtotal})
		summary.GrandTotal = summary.GrandTotal.Add(subtotal)
	}

	summary.Items = append(summary.Items,
		PlanItem{Name: DownPayment1Name, Price: down1, ItemType: DownPaymentType},
		PlanItem{Name: DownPayment2Name, Price: down2, ItemType: DownPaymentType},
	)
	summary.TotalDown = down1.Add(down2)
	summary.Remaining = summary.GrandTotal.Sub(summary.TotalDown)

	if months > 0 {
		summary.Installment, _ = summary.Remaining.QuoRem(decimal.NewFromInt(int64(months)), installmentPrecision)
	} else {
		summary.DueInFull = true
	}
	return summary
}

// selectionsFromLedger rebuilds the engine input from persisted plan items, so a stored plan
// summarizes exactly like it did when it was finalized.
func selectionsFromLedger(items []PlanItem) (selections []CategorySelection, down1, down2 decimal.Decimal) {
	down1, down2 = decimal.Zero, decimal.Zero
	for _, item := range items {
		if item.ItemType == DownPaymentType {
			if item.Name == DownPayment1Name {
				down1 = down1.Add(item.Price)
			} else {
				down2 = down2.Add(item.Price)
			}
			continue
		}
		selections = append(selections, CategorySelection{
			Category: item.ItemType,
			Items:    []SelectedItem{{Name: item.Name, Price: item.Price}},
		})
	}
	return MergeSelections(selections), down1, down2
}
