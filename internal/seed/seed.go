package seed

import (
	"context"
	"fmt"

	"chopmate/internal/domain"
	"chopmate/internal/logging"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Writer interface {
	Upsert(ctx context.Context, v domain.Vendor) (*domain.Vendor, error)
	UpsertMenuItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
}

type vendorSeed struct {
	Vendor domain.Vendor
	Menu   []domain.MenuItem
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// vendors returns the demo catalog. Ids are fixed so reseeding updates rows in place.
func vendors() []vendorSeed {
	return []vendorSeed{
		{
			Vendor: domain.Vendor{
				ID:              "6f1c2a8e-0c1d-4f4e-9a51-1d2b9c7e0a01",
				Name:            "Mama Put Kitchen",
				Address:         "12 Allen Avenue, Ikeja",
				Cuisine:         "Nigerian",
				Rating:          4.6,
				DeliveryMinutes: 35,
				Active:          true,
			},
			Menu: []domain.MenuItem{
				{
					ID:          "6f1c2a8e-0c1d-4f4e-9a51-1d2b9c7e1001",
					Name:        "Jollof Rice",
					Description: "Smoky party jollof with fried plantain",
					Price:       price("25.50"),
					Category:    "Mains",
					Available:   true,
					Customizations: []domain.CustomizationOption{
						{ID: "6f1c2a8e-0c1d-4f4e-9a51-1d2b9c7e2001", Group: "Protein", Name: "Chicken", PriceDelta: price("4.00")},
						{ID: "6f1c2a8e-0c1d-4f4e-9a51-1d2b9c7e2002", Group: "Protein", Name: "Beef", PriceDelta: price("3.50")},
						{ID: "6f1c2a8e-0c1d-4f4e-9a51-1d2b9c7e2003", Group: "Sides", Name: "Extra plantain", PriceDelta: price("1.50")},
					},
				},
				{
					ID:          "6f1c2a8e-0c1d-4f4e-9a51-1d2b9c7e1002",
					Name:        "Egusi Soup & Pounded Yam",
					Description: "Melon seed soup with assorted meat",
					Price:       price("18.00"),
					Category:    "Mains",
					Available:   true,
				},
				{
					ID:          "6f1c2a8e-0c1d-4f4e-9a51-1d2b9c7e1003",
					Name:        "Zobo",
					Description: "Chilled hibiscus drink",
					Price:       price("3.00"),
					Category:    "Drinks",
					Available:   true,
				},
			},
		},
		{
			Vendor: domain.Vendor{
				ID:              "6f1c2a8e-0c1d-4f4e-9a51-1d2b9c7e0a02",
				Name:            "Suya Spot",
				Address:         "4 Admiralty Way, Lekki",
				Cuisine:         "Grill",
				Rating:          4.3,
				DeliveryMinutes: 25,
				Active:          true,
			},
			Menu: []domain.MenuItem{
				{
					ID:          "6f1c2a8e-0c1d-4f4e-9a51-1d2b9c7e1101",
					Name:        "Beef Suya",
					Description: "Spiced skewered beef with onions",
					Price:       price("12.00"),
					Category:    "Grill",
					Available:   true,
					Customizations: []domain.CustomizationOption{
						{ID: "6f1c2a8e-0c1d-4f4e-9a51-1d2b9c7e2101", Group: "Heat", Name: "Extra yaji", PriceDelta: decimal.Zero},
					},
				},
				{
					ID:          "6f1c2a8e-0c1d-4f4e-9a51-1d2b9c7e1102",
					Name:        "Kilishi",
					Description: "Dried spiced beef jerky",
					Price:       price("9.50"),
					Category:    "Grill",
					Available:   false,
				},
			},
		},
	}
}

// Apply inserts demo vendors and menus for manual testing. It is idempotent.
func Apply(ctx context.Context, w Writer, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	for _, s := range vendors() {
		v, err := w.Upsert(ctx, s.Vendor)
		if err != nil {
			return fmt.Errorf("upsert vendor %s: %w", s.Vendor.Name, err)
		}
		for _, item := range s.Menu {
			item.VendorID = v.ID
			if _, err := w.UpsertMenuItem(ctx, item); err != nil {
				return fmt.Errorf("upsert menu item %s: %w", item.Name, err)
			}
		}
		logger.Info("seeded vendor", zap.String("vendor_id", v.ID), zap.Int("items", len(s.Menu)))
	}
	return nil
}
