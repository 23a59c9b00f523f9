package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/dancestudio/manager/internal/apperrors"
	"github.com/dancestudio/manager/internal/event_bus"
	"github.com/dancestudio/manager/pkg/money"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	ListCategories(ctx context.Context) ([]string, error)
	ListItems(ctx context.Context, category string) ([]Item, error)
	ListAll(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id int) (Item, error)
	AddItem(ctx context.Context, category, name string, price decimal.Decimal) (Item, error)
	UpdateItem(ctx context.Context, id int, name string, price decimal.Decimal) (Item, error)
	DeleteItem(ctx context.Context, id int) error
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) ListCategories(ctx context.Context) ([]string, error) {
	used, err := s.repo.GetUsedCategories(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(RecommendedCategories)+len(used))
	categories := make([]string, 0, len(RecommendedCategories)+len(used))
	for _, c := range append(append([]string{}, RecommendedCategories...), used...) {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *ServiceImpl) ListItems(ctx context.Context, category string) ([]Item, error) {
	return s.repo.GetByCategory(ctx, category)
}

func (s *ServiceImpl) ListAll(ctx context.Context) ([]Item, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) GetItem(ctx context.Context, id int) (Item, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) AddItem(ctx context.Context, category, name string, price decimal.Decimal) (Item, error) {
	item := Item{
		Category: strings.TrimSpace(category),
		Name:     strings.TrimSpace(name),
		Price:    price,
	}
	if err := validate(item); err != nil {
		return Item{}, err
	}

	id, err := s.repo.Store(ctx, item)
	if err != nil {
		return Item{}, err
	}
	item.Id = id
	log.Debugf("Added catalog item %d (%s / %s)", id, item.Category, item.Name)
	return item, nil
}

func (s *ServiceImpl) UpdateItem(ctx context.Context, id int, name string, price decimal.Decimal) (Item, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	existing.Name = strings.TrimSpace(name)
	existing.Price = price
	if err := validate(existing); err != nil {
		return Item{}, err
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return Item{}, err
	}
	if !updated {
		return Item{}, ErrItemNotFound
	}
	return existing, nil
}

// DeleteItem removes the item from the catalog. Plan items copied from it earlier are untouched.
func (s *ServiceImpl) DeleteItem(ctx context.Context, id int) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrItemNotFound
	}

	event := event_bus.NewEvent(ctx, event_bus.CatalogItemDeletedType, event_bus.CatalogItemDeleted{
		Id:       existing.Id,
		Category: existing.Category,
		Name:     existing.Name,
	})
	if err := s.eventBus.Publish(event); err != nil {
		log.Warnf("catalog item %d deleted, but event delivery failed: %v", id, err)
	}
	return nil
}

func validate(item Item) error {
	if err := apperrors.Struct(item); err != nil {
		return err
	}
	if item.Price.IsNegative() {
		return apperrors.Invalid("price", "must not be negative")
	}
	if err := money.Check(item.Price); err != nil {
		return apperrors.Invalid("price", err.Error())
	}
	return nil
}
