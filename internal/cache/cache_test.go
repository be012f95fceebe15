package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vgauthier/recevo/internal/model"
)

func TestKey_Deterministic(t *testing.T) {
	meta := model.ClaimMetadata{Claimant: "SARL Exemple", PeriodStart: 2012, PeriodEnd: 2014}

	k1 := Key("réclamation CSPE", meta)
	k2 := Key("réclamation CSPE", meta)
	if k1 != k2 {
		t.Errorf("Expected identical keys, got %s and %s", k1, k2)
	}
	if !strings.HasPrefix(k1, "recevo:v1:") {
		t.Errorf("Expected recevo:v1: prefix, got %s", k1)
	}
}

func TestKey_SensitiveToTextAndMetadata(t *testing.T) {
	meta := model.ClaimMetadata{PeriodStart: 2012, PeriodEnd: 2014}

	base := Key("réclamation CSPE", meta)

	if Key("autre texte", meta) == base {
		t.Error("Expected different key for different text")
	}
	if Key("réclamation CSPE", model.ClaimMetadata{PeriodStart: 2013, PeriodEnd: 2014}) == base {
		t.Error("Expected different key for different metadata")
	}
	amount := model.ClaimMetadata{PeriodStart: 2012, PeriodEnd: 2014, ClaimedAmount: decimal.NewFromInt(500)}
	if Key("réclamation CSPE", amount) == base {
		t.Error("Expected different key for different claimed amount")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Hour)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for absent key")
	}

	if err := c.Set("k", []byte("analysis"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "analysis" {
		t.Errorf("Expected analysis, got %q (found=%v)", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	key := Key("réclamation", model.ClaimMetadata{})
	if err := c.Set(key, []byte("analysis"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get(key)
	if !found || string(val) != "analysis" {
		t.Errorf("Expected analysis, got %q (found=%v)", val, found)
	}
}

func TestDiskCache_Expiration(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	if err := c.Set("k", []byte("analysis"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed the disk layer directly, as a previous run would have
	disk := NewDiskCache(dir, time.Hour)
	if err := disk.Set("k", []byte("analysis"), time.Hour); err != nil {
		t.Fatalf("seed disk: %v", err)
	}

	layered := NewLayeredCache(time.Hour, dir, time.Hour)
	val, found := layered.Get("k")
	if !found || string(val) != "analysis" {
		t.Fatalf("Expected disk hit through the layered cache, got %q (found=%v)", val, found)
	}

	// The hit must now be served from memory even if disk is cleared
	if err := disk.Clear(); err != nil {
		t.Fatalf("clear disk: %v", err)
	}
	if _, found := layered.Get("k"); !found {
		t.Error("Expected promoted entry in the memory layer")
	}
}
