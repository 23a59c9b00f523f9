// Package report renders a payment plan summary as a downloadable document.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dancestudio/manager/pkg/money"
	"github.com/dancestudio/manager/pkg/payment_plan"
	"github.com/dancestudio/manager/pkg/student"
)

const DateLayout = "2006-01-02"

type PlanReport struct {
	StudentName string
	Date        time.Time
	Summary     payment_plan.Summary
}

// Line is one label/amount row of the printable summary.
type Line struct {
	Label  string
	Amount string
	Bold   bool
}

func NewPlanReport(s student.Student, date time.Time, summary payment_plan.Summary) PlanReport {
	return PlanReport{StudentName: s.DisplayName(), Date: date, Summary: summary}
}

func Title(r PlanReport) string {
	return "Payment Plan for " + r.StudentName
}

func DateLine(r PlanReport) string {
	return "Date: " + r.Date.Format(DateLayout)
}

// Lines lays out the amounts in print order: category subtotals, down payments, then the totals.
func Lines(r PlanReport, symbol string) []Line {
	s := r.Summary
	lines := make([]Line, 0, len(s.Subtotals)+4)
	for _, subtotal := range s.Subtotals {
		lines = append(lines, Line{Label: subtotal.Category, Amount: money.Format(subtotal.Subtotal, symbol)})
	}
	lines = append(lines,
		Line{Label: "Total Down Payments", Amount: money.Format(s.TotalDown.Neg(), symbol)},
		Line{Label: "Grand Total", Amount: money.Format(s.GrandTotal, symbol), Bold: true},
		Line{Label: "Remaining Balance", Amount: money.Format(s.Remaining, symbol), Bold: true},
	)
	if s.DueInFull {
		lines = append(lines, Line{Label: "Due in full", Amount: money.Format(s.Remaining, symbol), Bold: true})
	} else {
		lines = append(lines, Line{
			Label:  fmt.Sprintf("Installments (%d mo)", s.Months),
			Amount: money.Format(s.Installment, symbol),
			Bold:   true,
		})
	}
	return lines
}

// FileName builds the download name, e.g. PaymentPlan_Lopez_Ava_20250901.csv.
func FileName(s student.Student, date time.Time, ext string) string {
	return fmt.Sprintf("PaymentPlan_%s_%s_%s.%s", fileSafe(s.LastName), fileSafe(s.FirstName), date.Format("20060102"), ext)
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ',', ':', '"':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
}
