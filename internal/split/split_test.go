package split

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSplitGroupsAndStamps(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "2024-01-03")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	input := filepath.Join(dir, "walmart_all.json")
	content := `[
		{"sku": "A", "store": "Store #12", "color": "red"},
		{"sku": "B", "store_slug": "store-12", "captured_at": "2024-01-03T08:15:00Z"},
		{"sku": "C"}
	]`
	if err := os.WriteFile(input, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Split(input)
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	if res.Items != 3 || res.Stores != 2 {
		t.Errorf("Result = %+v, want 3 items across 2 stores", res)
	}

	var store12 []map[string]any
	data, err := os.ReadFile(filepath.Join(dir, "store-12.json"))
	if err != nil {
		t.Fatalf("store-12.json not written: %v", err)
	}
	if err := json.Unmarshal(data, &store12); err != nil {
		t.Fatal(err)
	}
	if len(store12) != 2 {
		t.Fatalf("store-12.json has %d items, want 2 (label variants merged)", len(store12))
	}
	if store12[0]["store_slug"] != "store-12" {
		t.Errorf("store_slug = %v, want store-12", store12[0]["store_slug"])
	}
	if store12[0]["captured_at"] != "2024-01-03T00:00:00Z" {
		t.Errorf("captured_at = %v, want midnight backfill", store12[0]["captured_at"])
	}
	if store12[1]["captured_at"] != "2024-01-03T08:15:00Z" {
		t.Errorf("captured_at = %v, want existing value kept", store12[1]["captured_at"])
	}
	if store12[0]["color"] != "red" {
		t.Error("unknown fields must survive the rewrite")
	}

	var unknown []map[string]any
	data, err = os.ReadFile(filepath.Join(dir, "unknown-store.json"))
	if err != nil {
		t.Fatalf("unknown-store.json not written: %v", err)
	}
	if err := json.Unmarshal(data, &unknown); err != nil {
		t.Fatal(err)
	}
	if len(unknown) != 1 || unknown[0]["sku"] != "C" {
		t.Errorf("unknown-store.json = %v, want the storeless item", unknown)
	}
}

func TestSplitRejectsUnsupportedShape(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "walmart_all.json")
	if err := os.WriteFile(input, []byte(`{"products": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Split(input); err == nil {
		t.Fatal("Split() should fail loudly on an unsupported container shape")
	}
}

func TestFindLatestCombined(t *testing.T) {
	root := t.TempDir()
	for _, date := range []string{"2024-01-01", "2024-01-03", "2024-01-02"} {
		dir := filepath.Join(root, date)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "walmart_all.json"), []byte("[]"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	path, err := FindLatestCombined(root, "walmart_all.json")
	if err != nil {
		t.Fatalf("FindLatestCombined() error: %v", err)
	}
	if filepath.Base(filepath.Dir(path)) != "2024-01-03" {
		t.Errorf("latest = %s, want the 2024-01-03 file", path)
	}

	if _, err := FindLatestCombined(t.TempDir(), "walmart_all.json"); err == nil {
		t.Error("FindLatestCombined() should fail when no combined dump exists")
	}
}
