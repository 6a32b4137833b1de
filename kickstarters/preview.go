package kickstarters

import "time"

// RotationPeriod controls how often the empty-selection sample changes.
const RotationPeriod = 10 * time.Second

// ExampleForPreview returns the question shown in the page preview. With no
// selection it rotates through a small pool of default questions keyed by now;
// otherwise it renders the first selected item that still exists.
func ExampleForPreview(selected []string, catalog *Catalog, businessName string, now time.Time) string {
	for _, id := range selected {
		if it, ok := catalog.Get(id); ok {
			return Render(it, businessName)
		}
	}
	slot := now.Unix() / int64(RotationPeriod/time.Second)
	if slot < 0 {
		slot = -slot
	}
	id := previewPool[slot%int64(len(previewPool))]
	it, _ := catalog.Get(id)
	return Render(it, businessName)
}
