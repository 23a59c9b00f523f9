package payment_plan

import (
	"context"
	"testing"
	"time"

	"github.com/dancestudio/manager/internal/apperrors"
	"github.com/dancestudio/manager/internal/event_bus"
	"github.com/dancestudio/manager/internal/utils"
	"github.com/dancestudio/manager/pkg/student"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

var now = time.Date(2025, 9, 1, 17, 30, 0, 0, time.UTC)

type serviceFixture struct {
	service   *ServiceImpl
	repo      *RepositoryStub
	clock     *utils.MockClock
	eventBus  *event_bus.EventBus
	studentId int
}

func setupService(t *testing.T) serviceFixture {
	students := student.NewService(student.NewRepositoryStub())
	ava, err := students.AddStudent(ctx, student.Student{FirstName: "Ava", LastName: "Lopez"})
	require.NoError(t, err)

	repo := NewRepositoryStub()
	clock := &utils.MockClock{FixedNow: now}
	eventBus := event_bus.NewEventBus()
	return serviceFixture{
		service:   NewService(repo, students, clock, eventBus),
		repo:      repo,
		clock:     clock,
		eventBus:  eventBus,
		studentId: ava.Id,
	}
}

func scenarioA(studentId int) FinalizeRequest {
	return FinalizeRequest{
		StudentId: studentId,
		Selections: []CategorySelection{
			{Category: "Tuition", Items: []SelectedItem{{Name: "Monthly Tuition", Price: d("200.00")}}},
			{Category: "Costume Fees", Items: []SelectedItem{{Name: "Costume A", Price: d("85.50")}}},
		},
		Down1:  d("50"),
		Down2:  decimal.Zero,
		Months: 6,
	}
}

func TestServiceImpl_FinalizePlan(t *testing.T) {
	t.Run("should store the plan and its ledger", func(t *testing.T) {
		// given
		f := setupService(t)

		// when
		summary, err := f.service.FinalizePlan(ctx, scenarioA(f.studentId))

		// then
		require.NoError(t, err)
		assert.NotZero(t, summary.PlanId)
		assert.Equal(t, f.studentId, summary.StudentId)
		assert.Equal(t, now, summary.CreatedAt)
		assertAmount(t, "285.50", summary.GrandTotal)
		assertAmount(t, "39.25", summary.Installment)

		record, err := f.repo.GetPlan(ctx, summary.PlanId)
		require.NoError(t, err)
		assert.Equal(t, 6, record.Months)
		items, err := f.repo.GetPlanItems(ctx, summary.PlanId)
		require.NoError(t, err)
		assert.Len(t, items, 4)
		assert.Equal(t, items, summary.Items)
	})

	t.Run("should publish an event after storing", func(t *testing.T) {
		f := setupService(t)
		var received []event_bus.PlanFinalized
		event_bus.SubscribeTyped(f.eventBus, event_bus.PlanFinalizedType, func(e event_bus.EventT[event_bus.PlanFinalized]) error {
			received = append(received, e.Data)
			return nil
		})

		summary, err := f.service.FinalizePlan(ctx, scenarioA(f.studentId))

		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, summary.PlanId, received[0].PlanId)
		assertAmount(t, "235.50", received[0].Remaining)
	})

	t.Run("should not be idempotent", func(t *testing.T) {
		f := setupService(t)

		first, err := f.service.FinalizePlan(ctx, scenarioA(f.studentId))
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
		second, err := f.service.FinalizePlan(ctx, scenarioA(f.studentId))
		require.NoError(t, err)

		assert.NotEqual(t, first.PlanId, second.PlanId)
		plans, err := f.service.ListPlansForStudent(ctx, f.studentId)
		require.NoError(t, err)
		require.Len(t, plans, 2)
		assert.Equal(t, first.PlanId, plans[0].Id)
		assert.Equal(t, second.PlanId, plans[1].Id)
	})

	t.Run("should persist a due-in-full plan", func(t *testing.T) {
		f := setupService(t)
		req := FinalizeRequest{
			StudentId:  f.studentId,
			Selections: []CategorySelection{{Category: "Tuition", Items: []SelectedItem{{Name: "Year", Price: d("100")}}}},
		}

		summary, err := f.service.FinalizePlan(ctx, req)

		require.NoError(t, err)
		assert.True(t, summary.DueInFull)
		_, err = f.repo.GetPlan(ctx, summary.PlanId)
		assert.NoError(t, err)
	})

	t.Run("should reject an unknown student", func(t *testing.T) {
		f := setupService(t)

		_, err := f.service.FinalizePlan(ctx, scenarioA(999))

		assert.ErrorIs(t, err, student.ErrStudentNotFound)
	})

	t.Run("should reject an unknown template", func(t *testing.T) {
		f := setupService(t)
		req := scenarioA(f.studentId)
		missing := 77
		req.TemplateId = &missing

		_, err := f.service.FinalizePlan(ctx, req)

		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("should leave nothing behind when storing fails", func(t *testing.T) {
		f := setupService(t)
		f.repo.FailOnItem = "Costume A"

		_, err := f.service.FinalizePlan(ctx, scenarioA(f.studentId))

		require.Error(t, err)
		plans, err := f.service.ListPlansForStudent(ctx, f.studentId)
		require.NoError(t, err)
		assert.Empty(t, plans)
	})
}

func TestServiceImpl_FinalizePlan_Validation(t *testing.T) {
	f := setupService(t)

	cases := []struct {
		name   string
		mutate func(*FinalizeRequest)
		field  string
	}{
		{"negative first down payment", func(r *FinalizeRequest) { r.Down1 = d("-1") }, "downPayment1"},
		{"negative second down payment", func(r *FinalizeRequest) { r.Down2 = d("-0.01") }, "downPayment2"},
		{"negative months", func(r *FinalizeRequest) { r.Months = -1 }, "months"},
		{"blank category", func(r *FinalizeRequest) { r.Selections[0].Category = " " }, "selections[0].category"},
		{"reserved category", func(r *FinalizeRequest) { r.Selections[1].Category = "Down Payment" }, "selections[1].category"},
		{"blank item name", func(r *FinalizeRequest) { r.Selections[1].Items[0].Name = "" }, "selections[1].items[0].name"},
		{"item price with three decimals", func(r *FinalizeRequest) { r.Selections[1].Items[0].Price = d("85.505") }, "selections[1].items[0].price"},
		{"item price beyond range", func(r *FinalizeRequest) { r.Selections[0].Items[0].Price = decimal.New(1, 400) }, "selections[0].items[0].price"},
		{"huge negative credit", func(r *FinalizeRequest) { r.Selections[0].Items[0].Price = d("-1000000000000") }, "selections[0].items[0].price"},
		{"down payment beyond range", func(r *FinalizeRequest) { r.Down1 = d("1000000000000") }, "downPayment1"},
		{"down payment with three decimals", func(r *FinalizeRequest) { r.Down2 = d("0.001") }, "downPayment2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := scenarioA(f.studentId)
			tc.mutate(&req)

			_, err := f.service.FinalizePlan(ctx, req)

			require.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Len(t, vErr.Fields, 1)
			assert.Equal(t, tc.field, vErr.Fields[0].Field)
		})
	}

	t.Run("nothing is stored for invalid input", func(t *testing.T) {
		plans, err := f.service.ListPlansForStudent(ctx, f.studentId)
		require.NoError(t, err)
		assert.Empty(t, plans)
	})
}

func TestServiceImpl_GetPlanSummary(t *testing.T) {
	t.Run("should reconcile with the finalized summary", func(t *testing.T) {
		f := setupService(t)
		req := scenarioA(f.studentId)
		req.Down2 = d("12.25")
		finalized, err := f.service.FinalizePlan(ctx, req)
		require.NoError(t, err)

		summary, err := f.service.GetPlanSummary(ctx, finalized.PlanId)

		require.NoError(t, err)
		assert.Equal(t, finalized.PlanId, summary.PlanId)
		assert.Equal(t, finalized.CreatedAt, summary.CreatedAt)
		require.Len(t, summary.Subtotals, 2)
		assert.Equal(t, "Tuition", summary.Subtotals[0].Category)
		assertAmount(t, finalized.GrandTotal.String(), summary.GrandTotal)
		assertAmount(t, "62.25", summary.TotalDown)
		assertAmount(t, finalized.Remaining.String(), summary.Remaining)
		assertAmount(t, finalized.Installment.String(), summary.Installment)
		assert.Equal(t, 6, summary.Months)
	})

	t.Run("should return not found for an unknown plan", func(t *testing.T) {
		f := setupService(t)

		_, err := f.service.GetPlanSummary(ctx, 404)

		assert.ErrorIs(t, err, ErrPlanNotFound)
	})
}

func TestServiceImpl_Templates(t *testing.T) {
	t.Run("AddTemplate is insert-if-absent", func(t *testing.T) {
		f := setupService(t)

		first, err := f.service.AddTemplate(ctx, "Competition Season")
		require.NoError(t, err)
		second, err := f.service.AddTemplate(ctx, " Competition Season ")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		templates, err := f.service.ListTemplates(ctx)
		require.NoError(t, err)
		assert.Len(t, templates, 1)
	})

	t.Run("AddTemplate rejects a blank name", func(t *testing.T) {
		f := setupService(t)

		_, err := f.service.AddTemplate(ctx, "")

		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("AddTemplateItem validates", func(t *testing.T) {
		f := setupService(t)
		template, err := f.service.AddTemplate(ctx, "Recreational")
		require.NoError(t, err)

		_, err = f.service.AddTemplateItem(ctx, template.Id, "Fee", d("10"), ItemType("Refund"))
		assert.True(t, apperrors.IsValidation(err), "unknown item type")

		_, err = f.service.AddTemplateItem(ctx, template.Id, "Fee", d("-10"), Expense)
		assert.True(t, apperrors.IsValidation(err), "negative price")

		_, err = f.service.AddTemplateItem(ctx, template.Id, "Fee", d("10.005"), Expense)
		assert.True(t, apperrors.IsValidation(err), "price with three decimals")

		_, err = f.service.AddTemplateItem(ctx, 404, "Fee", d("10"), Expense)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("SeedSelections groups by type and negates credits", func(t *testing.T) {
		// given
		f := setupService(t)
		template, err := f.service.AddTemplate(ctx, "Competition Season")
		require.NoError(t, err)
		for _, item := range []TemplateItem{
			{Name: "Registration", Price: d("75"), ItemType: Expense},
			{Name: "Sibling Discount", Price: d("20"), ItemType: Credit},
			{Name: "Travel", Price: d("150"), ItemType: Expense},
		} {
			_, err := f.service.AddTemplateItem(ctx, template.Id, item.Name, item.Price, item.ItemType)
			require.NoError(t, err)
		}

		// when
		selections, err := f.service.SeedSelections(ctx, template.Id)

		// then
		require.NoError(t, err)
		require.Len(t, selections, 2)
		assert.Equal(t, "Expense", selections[0].Category)
		assert.Len(t, selections[0].Items, 2)
		assert.Equal(t, "Credit", selections[1].Category)
		assertAmount(t, "-20", selections[1].Items[0].Price)

		summary, err := f.service.FinalizePlan(ctx, FinalizeRequest{
			StudentId:  f.studentId,
			TemplateId: &template.Id,
			Selections: selections,
			Down1:      decimal.Zero,
			Down2:      decimal.Zero,
		})
		require.NoError(t, err)
		assertAmount(t, "205", summary.GrandTotal)
		require.NotNil(t, summary.TemplateId)
		assert.Equal(t, template.Id, *summary.TemplateId)
	})
}

func TestServiceImpl_CreatePlanAndAppendItem(t *testing.T) {
	f := setupService(t)

	planId, err := f.service.CreatePlan(ctx, f.studentId, nil)
	require.NoError(t, err)

	item, err := f.service.AppendPlanItem(ctx, planId, "Ballet", d("85"), "Tuition")
	require.NoError(t, err)
	assert.Equal(t, planId, item.PlanId)

	items, err := f.service.ListPlanItems(ctx, planId)
	require.NoError(t, err)
	assert.Equal(t, []PlanItem{item}, items)

	t.Run("unknown plan", func(t *testing.T) {
		_, err := f.service.AppendPlanItem(ctx, 404, "Ballet", d("85"), "Tuition")

		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("price outside range", func(t *testing.T) {
		_, err := f.service.AppendPlanItem(ctx, planId, "Ballet", decimal.New(1, 400), "Tuition")

		assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		items, err := f.service.ListPlanItems(ctx, planId)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := f.service.CreatePlan(ctx, 404, nil)

		assert.ErrorIs(t, err, student.ErrStudentNotFound)
	})
}
