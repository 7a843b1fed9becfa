package cache

import (
	"fmt"
	"testing"

	"github.com/hyperifyio/pagepeek/internal/extract"
)

func rec(title string) *extract.Record {
	return &extract.Record{Title: title}
}

func TestResults_PutAndGet(t *testing.T) {
	c := NewResults(3)
	c.Put("https://a", rec("a"))

	got, ok := c.Get("https://a")
	if !ok || got.Title != "a" {
		t.Fatalf("expected stored record, got %v ok=%v", got, ok)
	}
	if _, ok := c.Get("https://missing"); ok {
		t.Fatalf("did not expect a record for an unknown key")
	}
}

func TestResults_KeysAreExactStrings(t *testing.T) {
	c := NewResults(3)
	c.Put("http://x", rec("no slash"))
	c.Put("http://x/", rec("slash"))

	if c.Len() != 2 {
		t.Fatalf("equivalent URLs must remain distinct keys, got %d entries", c.Len())
	}
}

func TestResults_EvictsOldestInsertedKey(t *testing.T) {
	c := NewResults(50)
	for i := 0; i < 50; i++ {
		c.Put(fmt.Sprintf("https://site/%d", i), rec(fmt.Sprintf("r%d", i)))
	}
	if c.Len() != 50 {
		t.Fatalf("expected 50 entries at capacity, got %d", c.Len())
	}

	c.Put("https://site/50", rec("r50"))

	if c.Len() != 50 {
		t.Fatalf("expected capacity held at 50, got %d", c.Len())
	}
	if _, ok := c.Get("https://site/0"); ok {
		t.Fatalf("expected the first-ever inserted key to be evicted")
	}
	if _, ok := c.Get("https://site/1"); !ok {
		t.Fatalf("second-oldest key must survive")
	}
	if _, ok := c.Get("https://site/50"); !ok {
		t.Fatalf("newest key must be present")
	}
}

func TestResults_OverwriteAtCapacityDoesNotEvict(t *testing.T) {
	c := NewResults(3)
	c.Put("k1", rec("one"))
	c.Put("k2", rec("two"))
	c.Put("k3", rec("three"))

	c.Put("k1", rec("one again"))

	if c.Len() != 3 {
		t.Fatalf("overwrite must not change entry count, got %d", c.Len())
	}
	for _, k := range []string{"k1", "k2", "k3"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("key %q missing after overwrite", k)
		}
	}
	if got, _ := c.Get("k1"); got.Title != "one again" {
		t.Fatalf("expected overwritten value, got %q", got.Title)
	}
}

func TestResults_OverwriteKeepsEvictionPosition(t *testing.T) {
	c := NewResults(3)
	c.Put("k1", rec("one"))
	c.Put("k2", rec("two"))
	c.Put("k3", rec("three"))

	// Re-put does not refresh k1's position: it is still the oldest.
	c.Put("k1", rec("one again"))
	c.Put("k4", rec("four"))

	if _, ok := c.Get("k1"); ok {
		t.Fatalf("k1 must be evicted despite the recent overwrite")
	}
	if _, ok := c.Get("k2"); !ok {
		t.Fatalf("k2 must survive")
	}
}

func TestResults_ValuesInsertionOrder(t *testing.T) {
	c := NewResults(5)
	c.Put("k1", rec("one"))
	c.Put("k2", rec("two"))
	c.Put("k3", rec("three"))

	vals := c.Values()
	want := []string{"one", "two", "three"}
	if len(vals) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(vals))
	}
	for i, w := range want {
		if vals[i].Title != w {
			t.Fatalf("value %d: expected %q, got %q", i, w, vals[i].Title)
		}
	}
}

func TestResults_Clear(t *testing.T) {
	c := NewResults(5)
	c.Put("k1", rec("one"))
	c.Put("k2", rec("two"))

	c.Clear()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache after clear, got %d", c.Len())
	}
	if vals := c.Values(); len(vals) != 0 {
		t.Fatalf("expected no values after clear, got %d", len(vals))
	}
	// The cache remains usable after a clear.
	c.Put("k3", rec("three"))
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after re-insert, got %d", c.Len())
	}
}

func TestResults_DefaultCapacity(t *testing.T) {
	c := NewResults(0)
	for i := 0; i < DefaultCapacity+1; i++ {
		c.Put(fmt.Sprintf("k%d", i), rec("r"))
	}
	if c.Len() != DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", DefaultCapacity, c.Len())
	}
}
