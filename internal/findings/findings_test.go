package findings

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector_ConcurrentAdd(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(Finding{Kind: UnmappedCategory, Message: "x"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
	assert.Equal(t, map[Kind]int{UnmappedCategory: 50}, CountByKind(c.All()))
}

func TestScoped_FillsMissingFields(t *testing.T) {
	c := NewCollector()
	s := Scoped{Sink: c, Dataset: "income", Source: "ci19.csv"}

	s.Add(Finding{Kind: SchemaDrift, Message: "m"})
	s.Add(Finding{Kind: SchemaDrift, Message: "m", Source: "other.csv"})

	got := c.All()
	assert.Equal(t, "income", got[0].Dataset)
	assert.Equal(t, "ci19.csv", got[0].Source)
	assert.Equal(t, "other.csv", got[1].Source)
}

func TestFinding_String(t *testing.T) {
	f := Finding{Kind: UnmappedCategory, Dataset: "assets", Column: "has_risky_assets", Message: "unmapped labels", Values: []string{"maybe"}}
	assert.Equal(t, "unmapped_category dataset=assets column=has_risky_assets: unmapped labels [maybe]", f.String())
}

func TestSortedValues(t *testing.T) {
	got := SortedValues(map[string]struct{}{"b": {}, "a": {}})
	assert.Equal(t, []string{"a", "b"}, got)
}
