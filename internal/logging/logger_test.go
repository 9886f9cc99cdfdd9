package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfigure_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	Configure(Config{Level: "debug", Dir: dir, App: "kgm-test"})
	t.Cleanup(func() { Configure(Config{}) })

	Debug("debug line", Fields{"game_id": 3})
	Warn("warn line", errors.New("boom"), nil)
	Sync()

	f, err := os.Open(filepath.Join(dir, "kgm-test.log"))
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	defer f.Close()

	var lines []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]interface{}
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line is not JSON: %q", sc.Text())
		}
		lines = append(lines, m)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0]["msg"] != "debug line" || lines[0]["game_id"] != float64(3) {
		t.Fatalf("unexpected first line: %v", lines[0])
	}
	if lines[1]["level"] != "warn" || lines[1]["error"] != "boom" {
		t.Fatalf("unexpected second line: %v", lines[1])
	}
}

func TestConfigure_LevelFilters(t *testing.T) {
	dir := t.TempDir()
	Configure(Config{Level: "error", Dir: dir, App: "filtered"})
	t.Cleanup(func() { Configure(Config{}) })

	Info("dropped", nil)
	Sync()
	b, _ := os.ReadFile(filepath.Join(dir, "filtered.log"))
	if len(b) != 0 {
		t.Fatalf("info line written at error level: %s", b)
	}
}
