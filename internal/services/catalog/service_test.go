package catalog

import (
	"context"
	"errors"
	"testing"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

type fakeStore struct {
	items      map[string]*models.MenuItem
	categories []models.Category
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items: map[string]*models.MenuItem{
			"1": {ID: "1", Name: "Paneer Butter Masala", Price: 280, Category: "curries", Available: true, PrepMinutes: 20},
		},
		categories: []models.Category{{ID: "curries", Name: "Curries"}},
	}
}

func (f *fakeStore) List(_ context.Context) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*models.MenuItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeStore) Insert(_ context.Context, item *models.MenuItem) error {
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeStore) Update(_ context.Context, item *models.MenuItem) error {
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeStore) SetAvailability(_ context.Context, id string, available bool) error {
	f.items[id].Available = available
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeStore) Categories(_ context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, logger.New("catalog-test"))
}

func TestCreateAssignsID(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	created, err := svc.Create(context.Background(), &models.MenuItem{
		Name: "Masala Dosa", Price: 120, Category: "south-indian", Available: true, PrepMinutes: 18,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("Create must assign an id")
	}
	if _, ok := store.items[created.ID]; !ok {
		t.Error("created item not stored")
	}
}

func TestCreateRejectsInvalidItems(t *testing.T) {
	tests := []struct {
		name string
		item models.MenuItem
	}{
		{"missing name", models.MenuItem{Price: 100, Category: "curries", PrepMinutes: 10}},
		{"negative price", models.MenuItem{Name: "Dish", Price: -1, Category: "curries", PrepMinutes: 10}},
		{"missing category", models.MenuItem{Name: "Dish", Price: 100, PrepMinutes: 10}},
		{"zero prep time", models.MenuItem{Name: "Dish", Price: 100, Category: "curries"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeStore())
			if _, err := svc.Create(context.Background(), &tt.item); err == nil {
				t.Error("Create accepted an invalid item")
			}
		})
	}
}

func TestUpdateKeepsID(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	updated, err := svc.Update(context.Background(), "1", &models.MenuItem{
		ID: "ignored", Name: "Paneer Butter Masala", Price: 300, Category: "curries", Available: true, PrepMinutes: 20,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != "1" {
		t.Errorf("Update changed the id to %q", updated.ID)
	}
	if updated.Price != 300 {
		t.Errorf("Price = %d, want 300", updated.Price)
	}
}

func TestUpdateUnknownItem(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Update(context.Background(), "999", &models.MenuItem{
		Name: "Ghost Dish", Price: 100, Category: "curries", PrepMinutes: 10,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update unknown = %v, want ErrNotFound", err)
	}
}

func TestSetAvailability(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	item, err := svc.SetAvailability(context.Background(), "1", false)
	if err != nil {
		t.Fatalf("SetAvailability failed: %v", err)
	}
	if item.Available {
		t.Error("item should be unavailable")
	}

	if _, err := svc.SetAvailability(context.Background(), "999", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetAvailability unknown = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	if err := svc.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := store.items["1"]; ok {
		t.Error("item still present after delete")
	}

	if err := svc.Delete(context.Background(), "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete unknown = %v, want ErrNotFound", err)
	}
}
