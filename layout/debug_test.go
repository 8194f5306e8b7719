package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteDebugJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "plan.json")
	plans := []Plan{{FrameWidth: 10, FrameHeight: 8, Block: Block{Lines: []string{"hi"}}, Placement: Placement{Top: 3, Height: 5}}}
	if err := WriteDebugJSON(plans, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var doc DebugDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.FrameCount != 1 || doc.Frames[0].Placement.Top != 3 || doc.Frames[0].Block.Lines[0] != "hi" {
		t.Fatalf("unexpected document %+v", doc)
	}
}
