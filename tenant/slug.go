package tenant

import (
	"fmt"
	"strings"
	"time"

	"doceria/render"
)

const maxStoreIDLength = 50

// GenerateStoreID turns a display name into a URL-safe identifier:
// accents stripped, lowercase, runs of other characters collapsed to "-".
func GenerateStoreID(value string) string {
	if value == "" {
		return ""
	}
	folded := render.Fold(value)

	var b strings.Builder
	dash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	id := strings.Trim(b.String(), "-")
	if len(id) > maxStoreIDLength {
		id = id[:maxStoreIDLength]
	}
	if id == "" {
		return fmt.Sprintf("loja-%d", time.Now().UnixMilli())
	}
	return id
}
