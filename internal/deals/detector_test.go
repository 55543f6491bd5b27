package deals

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shelfwatch/internal/domain"
	"shelfwatch/internal/history"
)

// buildFixture writes a three-day snapshot tree for one store and returns
// its root plus the built history. Item X is priced 10.00 on day one, absent
// on day two, and 7.00 (in stock) on day three: the worked example from the
// design discussion, a 30% drop.
func buildFixture(t *testing.T) (string, *history.Result) {
	t.Helper()
	root := t.TempDir()

	days := map[string]string{
		"2024-01-01": `[{"sku": "X", "title": "Kettle", "price_current": 10.00, "in_stock": true}]`,
		"2024-01-02": `[{"sku": "Y", "title": "Toaster", "price_current": 20.00, "in_stock": true}]`,
		"2024-01-03": `[
			{"sku": "X", "title": "Kettle", "price_current": 7.00, "in_stock": true},
			{"sku": "Y", "title": "Toaster", "price_current": 19.00, "in_stock": true},
			{"sku": "Z", "title": "Blender", "price_current": 1.00, "in_stock": true}
		]`,
	}
	for date, content := range days {
		dir := filepath.Join(root, date)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "shop.json"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	b := &history.Builder{Window: 30, Combined: "walmart_all.json"}
	res, err := b.Build(root, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return root, res
}

func TestDetectWorkedExample(t *testing.T) {
	root, res := buildFixture(t)

	d := &Detector{Threshold: 15.0, Combined: "walmart_all.json"}
	out, err := d.Detect(root, res.Today, res.Stores)
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}

	sd := out["shop"]
	if sd == nil {
		t.Fatal("shop missing from deals output")
	}
	if sd.Date != "2024-01-03" || sd.StoreSlug != "shop" {
		t.Errorf("deals doc = %+v, want date 2024-01-03, slug shop", sd)
	}

	// X dropped 30%, Y only 5%, Z is first seen today.
	if len(sd.Deals) != 1 {
		t.Fatalf("deals = %+v, want exactly the kettle", sd.Deals)
	}
	deal := sd.Deals[0]
	if deal.ItemKey != "sku:X" || deal.PriceToday != 7.00 || deal.Max30d != 10.00 {
		t.Errorf("deal = %+v", deal)
	}
	if deal.DropPct != 30.00 {
		t.Errorf("DropPct = %v, want 30.00", deal.DropPct)
	}
}

func TestDetectThresholdExcludes(t *testing.T) {
	root, res := buildFixture(t)

	d := &Detector{Threshold: 35.0, Combined: "walmart_all.json"}
	out, err := d.Detect(root, res.Today, res.Stores)
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}

	sd := out["shop"]
	if sd == nil {
		t.Fatal("store must still appear with an empty deal list")
	}
	if len(sd.Deals) != 0 {
		t.Errorf("deals = %+v, want none at threshold 35", sd.Deals)
	}
}

func TestDetectGuards(t *testing.T) {
	root := t.TempDir()
	for date, content := range map[string]string{
		"2024-01-01": `[
			{"sku": "OOS", "price_current": 10, "in_stock": true},
			{"sku": "NOPRICE", "price_current": 10, "in_stock": true},
			{"sku": "ZEROMAX", "price_current": 0, "in_stock": true},
			{"sku": "NEVERPRICED", "in_stock": true}
		]`,
		"2024-01-02": `[
			{"sku": "OOS", "price_current": 1, "in_stock": false},
			{"sku": "NOPRICE", "in_stock": true},
			{"sku": "ZEROMAX", "price_current": 0, "in_stock": true},
			{"sku": "NEVERPRICED", "price_current": 1, "in_stock": true},
			{"sku": "BRANDNEW", "price_current": 1, "in_stock": true}
		]`,
	} {
		dir := filepath.Join(root, date)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "shop.json"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	b := &history.Builder{Window: 30, Combined: "walmart_all.json"}
	res, err := b.Build(root, time.Now())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	d := &Detector{Threshold: 15.0, Combined: "walmart_all.json"}
	out, err := d.Detect(root, res.Today, res.Stores)
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}

	if got := len(out["shop"].Deals); got != 0 {
		t.Errorf("deals = %+v, want none: every record hits a guard", out["shop"].Deals)
	}
}

func TestDetectSortedDescendingStable(t *testing.T) {
	root := t.TempDir()
	for date, content := range map[string]string{
		"2024-01-01": `[
			{"sku": "A", "price_current": 100, "in_stock": true},
			{"sku": "B", "price_current": 100, "in_stock": true},
			{"sku": "C", "price_current": 100, "in_stock": true}
		]`,
		"2024-01-02": `[
			{"sku": "A", "price_current": 50, "in_stock": true},
			{"sku": "B", "price_current": 80, "in_stock": true},
			{"sku": "C", "price_current": 80, "in_stock": true}
		]`,
	} {
		dir := filepath.Join(root, date)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "shop.json"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	b := &history.Builder{Window: 30, Combined: "walmart_all.json"}
	res, err := b.Build(root, time.Now())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	d := &Detector{Threshold: 15.0, Combined: "walmart_all.json"}
	out, err := d.Detect(root, res.Today, res.Stores)
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}

	deals := out["shop"].Deals
	if len(deals) != 3 {
		t.Fatalf("deals = %+v, want 3", deals)
	}
	// A (50%) first, then B and C (20% tie) in encounter order.
	if deals[0].ItemKey != "sku:A" || deals[1].ItemKey != "sku:B" || deals[2].ItemKey != "sku:C" {
		t.Errorf("order = %s, %s, %s, want A, B, C",
			deals[0].ItemKey, deals[1].ItemKey, deals[2].ItemKey)
	}
}

func TestDetectEmptyFileStillListed(t *testing.T) {
	root, res := buildFixture(t)
	// Add an empty today-file for a second store.
	path := filepath.Join(root, "2024-01-03", "quiet-store.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}

	d := &Detector{Threshold: 15.0, Combined: "walmart_all.json"}
	out, err := d.Detect(root, res.Today, res.Stores)
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}

	sd := out["quiet-store"]
	if sd == nil {
		t.Fatal("quiet-store should appear with an empty deal list")
	}
	if len(sd.Deals) != 0 {
		t.Errorf("deals = %+v, want empty", sd.Deals)
	}
}

func TestDetectNoToday(t *testing.T) {
	d := &Detector{Threshold: 15.0, Combined: "walmart_all.json"}
	out, err := d.Detect(t.TempDir(), "", map[string]*domain.StoreHistory{})
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("out = %v, want empty for a zero-result build", out)
	}
}
