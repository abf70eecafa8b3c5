package utils

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalTrade(t *testing.T) {
	got, ok := CanonicalTrade("  plumber ")
	assert.True(t, ok)
	assert.Equal(t, "Plumber", got)

	got, ok = CanonicalTrade("hvac technician")
	assert.True(t, ok)
	assert.Equal(t, "HVAC Technician", got)

	_, ok = CanonicalTrade("astronaut")
	assert.False(t, ok)
}

func TestAllTradesSortedAndComplete(t *testing.T) {
	all := AllTrades()
	assert.True(t, sort.StringsAreSorted(all))

	count := 0
	for _, c := range TradeTaxonomy() {
		count += len(c.Trades)
	}
	assert.Len(t, all, count)
}

func TestTradeTaxonomyReturnsCopy(t *testing.T) {
	first := TradeTaxonomy()
	first[0].Trades[0] = "Changed"

	assert.NotEqual(t, "Changed", TradeTaxonomy()[0].Trades[0])
}
