package cart

import (
	"sort"
	"strings"

	"chopmate/internal/domain"
)

// lineKey identifies a cart line by menu item and customization ids. Unless ordered is set the
// ids are sorted, so the same selections picked in a different order land on the same line.
func lineKey(menuItemID string, customizations []domain.CustomizationSelection, ordered bool) string {
	ids := make([]string, 0, len(customizations))
	for _, c := range customizations {
		ids = append(ids, c.ID)
	}
	if !ordered {
		sort.Strings(ids)
	}
	return menuItemID + "\x1f" + strings.Join(ids, "\x1e")
}

func (s *Service) findLine(c *domain.Cart, menuItemID string, customizations []domain.CustomizationSelection) int {
	want := lineKey(menuItemID, customizations, s.orderedMatching)
	for i, line := range c.Lines {
		if lineKey(line.Item.ID, line.Customizations, s.orderedMatching) == want {
			return i
		}
	}
	return -1
}

// Selections builds id-only selections, enough to address an existing line.
func Selections(ids ...string) []domain.CustomizationSelection {
	out := make([]domain.CustomizationSelection, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.CustomizationSelection{ID: id})
	}
	return out
}
