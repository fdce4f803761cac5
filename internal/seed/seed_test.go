package seed

import (
	"context"
	"errors"
	"testing"

	"chopmate/internal/domain"
)

type stubWriter struct {
	vendors []domain.Vendor
	items   []domain.MenuItem
	itemErr error
}

func (s *stubWriter) Upsert(_ context.Context, v domain.Vendor) (*domain.Vendor, error) {
	s.vendors = append(s.vendors, v)
	return &v, nil
}

func (s *stubWriter) UpsertMenuItem(_ context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	if s.itemErr != nil {
		return nil, s.itemErr
	}
	s.items = append(s.items, item)
	return &item, nil
}

func TestApply(t *testing.T) {
	w := &stubWriter{}
	if err := Apply(context.Background(), w, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(w.vendors) != 2 || len(w.items) != 5 {
		t.Fatalf("expected 2 vendors and 5 items, got %d and %d", len(w.vendors), len(w.items))
	}
	for _, item := range w.items {
		if item.VendorID == "" {
			t.Fatalf("item %s has no vendor", item.Name)
		}
	}
}

func TestApply_PropagatesErrors(t *testing.T) {
	w := &stubWriter{itemErr: errors.New("db down")}
	if err := Apply(context.Background(), w, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSeedIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range vendors() {
		ids := []string{s.Vendor.ID}
		for _, item := range s.Menu {
			ids = append(ids, item.ID)
			for _, opt := range item.Customizations {
				ids = append(ids, opt.ID)
			}
		}
		for _, id := range ids {
			if seen[id] {
				t.Fatalf("duplicate seed id %s", id)
			}
			seen[id] = true
		}
	}
}
