package catalog

import (
	"context"
	"testing"

	"github.com/dancestudio/manager/internal/apperrors"
	"github.com/dancestudio/manager/internal/event_bus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServiceTest(t *testing.T) (context.Context, *ServiceImpl, *event_bus.EventBus) {
	eventBus := event_bus.NewEventBus()
	return context.Background(), NewService(NewRepositoryStub(), eventBus), eventBus
}

func TestServiceImpl_ListCategories(t *testing.T) {
	ctx, service, _ := setupServiceTest(t)

	t.Run("recommended categories are listed for an empty catalog", func(t *testing.T) {
		categories, err := service.ListCategories(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"Administrative Fees",
			"Choreography",
			"Competitions & Conventions",
			"Costume Fees",
			"Groups",
			"Miscellaneous Fees",
			"Solo/Duo/Trio",
			"Tuition",
		}, categories)
	})

	t.Run("custom categories are merged without duplicates", func(t *testing.T) {
		// given
		_, err := service.AddItem(ctx, "Tuition", "Ballet I", decimal.RequireFromString("85"))
		require.NoError(t, err)
		_, err = service.AddItem(ctx, "Recital", "Tickets", decimal.RequireFromString("20"))
		require.NoError(t, err)

		// when
		categories, err := service.ListCategories(ctx)

		// then
		require.NoError(t, err)
		assert.Len(t, categories, 9)
		assert.Equal(t, "Recital", categories[6])
		assert.IsNonDecreasing(t, categories)
	})
}

func TestServiceImpl_AddItem(t *testing.T) {
	ctx, service, _ := setupServiceTest(t)

	t.Run("trims and stores", func(t *testing.T) {
		item, err := service.AddItem(ctx, " Tuition ", " Ballet I ", decimal.RequireFromString("85.50"))

		require.NoError(t, err)
		assert.NotZero(t, item.Id)
		assert.Equal(t, "Tuition", item.Category)
		assert.Equal(t, "Ballet I", item.Name)
	})

	t.Run("duplicates are allowed", func(t *testing.T) {
		first, err := service.AddItem(ctx, "Groups", "Jazz Team", decimal.RequireFromString("40"))
		require.NoError(t, err)
		second, err := service.AddItem(ctx, "Groups", "Jazz Team", decimal.RequireFromString("40"))
		require.NoError(t, err)

		assert.NotEqual(t, first.Id, second.Id)
	})

	invalid := []struct {
		name     string
		category string
		itemName string
		price    string
	}{
		{"blank category", "  ", "Ballet I", "10"},
		{"blank name", "Tuition", "", "10"},
		{"negative price", "Tuition", "Ballet I", "-0.01"},
		{"price with three decimals", "Tuition", "Ballet I", "85.505"},
		{"price beyond range", "Tuition", "Ballet I", "1000000000000"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.AddItem(ctx, tc.category, tc.itemName, decimal.RequireFromString(tc.price))

			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestServiceImpl_UpdateItem(t *testing.T) {
	ctx, service, _ := setupServiceTest(t)
	item, err := service.AddItem(ctx, "Tuition", "Ballet I", decimal.RequireFromString("85"))
	require.NoError(t, err)

	t.Run("updates name and price", func(t *testing.T) {
		updated, err := service.UpdateItem(ctx, item.Id, "Ballet II", decimal.RequireFromString("95"))

		require.NoError(t, err)
		stored, err := service.GetItem(ctx, item.Id)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
		assert.Equal(t, "Tuition", stored.Category)
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := service.UpdateItem(ctx, 999, "Ballet II", decimal.RequireFromString("95"))

		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := service.UpdateItem(ctx, item.Id, "Ballet II", decimal.RequireFromString("-1"))

		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestServiceImpl_DeleteItem(t *testing.T) {
	// given
	ctx, service, eventBus := setupServiceTest(t)
	item, err := service.AddItem(ctx, "Costume Fees", "Recital Costume", decimal.RequireFromString("65"))
	require.NoError(t, err)

	var received []event_bus.CatalogItemDeleted
	event_bus.SubscribeTyped(eventBus, event_bus.CatalogItemDeletedType, func(e event_bus.EventT[event_bus.CatalogItemDeleted]) error {
		received = append(received, e.Data)
		return nil
	})

	// when
	err = service.DeleteItem(ctx, item.Id)

	// then
	require.NoError(t, err)
	_, err = service.GetItem(ctx, item.Id)
	assert.ErrorIs(t, err, ErrItemNotFound)
	require.Len(t, received, 1)
	assert.Equal(t, event_bus.CatalogItemDeleted{Id: item.Id, Category: "Costume Fees", Name: "Recital Costume"}, received[0])

	t.Run("deleting twice reports not found", func(t *testing.T) {
		err := service.DeleteItem(ctx, item.Id)

		assert.ErrorIs(t, err, ErrItemNotFound)
		assert.Len(t, received, 1)
	})
}
