package catalog

import (
	"context"
	"sort"
)

type RepositoryStub struct {
	nextId int
	items  map[int]Item
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{items: map[int]Item{}}
}

func (s *RepositoryStub) Store(ctx context.Context, item Item) (int, error) {
	s.nextId++
	item.Id = s.nextId
	s.items[item.Id] = item
	return item.Id, nil
}

func (s *RepositoryStub) Get(ctx context.Context, id int) (Item, error) {
	item, ok := s.items[id]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return item, nil
}

func (s *RepositoryStub) GetByCategory(ctx context.Context, category string) ([]Item, error) {
	result := make([]Item, 0)
	for _, item := range s.sorted() {
		if item.Category == category {
			result = append(result, item)
		}
	}
	return result, nil
}

func (s *RepositoryStub) GetAll(ctx context.Context) ([]Item, error) {
	return s.sorted(), nil
}

func (s *RepositoryStub) GetUsedCategories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var categories []string
	for _, item := range s.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *RepositoryStub) Update(ctx context.Context, item Item) (bool, error) {
	if _, ok := s.items[item.Id]; !ok {
		return false, nil
	}
	s.items[item.Id] = item
	return true, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *RepositoryStub) sorted() []Item {
	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Id < items[j].Id
	})
	return items
}
