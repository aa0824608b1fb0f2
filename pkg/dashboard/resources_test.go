package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResources(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Resources() {
		assert.True(t, strings.HasPrefix(r.URI, "chronograf://docs/"), r.URI)
		assert.False(t, seen[r.URI], "duplicate %s", r.URI)
		seen[r.URI] = true
		assert.NotEmpty(t, strings.TrimSpace(r.Text), r.URI)
		assert.NotEmpty(t, r.Name)
	}
	assert.Len(t, seen, 3)
}

func TestLayoutMatchesNamedRanges(t *testing.T) {
	for _, pair := range []string{"1h=1m", "24h=10m", "30d=6h"} {
		assert.Contains(t, Layout, pair)
	}
}
