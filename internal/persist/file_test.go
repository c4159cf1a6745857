package persist

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperengineering/mindful/internal/journal"
)

func TestLoad_MissingFileReturnsEmptyDocument(t *testing.T) {
	a := NewFileAdapter(filepath.Join(t.TempDir(), "wellness_data.json"))

	doc, err := a.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Entries) != 0 || doc.Goals != nil {
		t.Errorf("Load() = %+v, want empty document", doc)
	}
}

func TestLoad_CorruptData(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed syntax", `{"2024-01-01": {"exercise": "10"`},
		{"top-level array", `[1, 2, 3]`},
		{"top-level string", `"hello"`},
		{"entry not object", `{"2024-01-01": 42}`},
		{"empty file", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "journal.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := NewFileAdapter(path).Load()
			if !errors.Is(err, ErrCorruptData) {
				t.Fatalf("Load() error = %v, want ErrCorruptData", err)
			}
			var cde *CorruptDataError
			if !errors.As(err, &cde) {
				t.Fatalf("error type = %T, want *CorruptDataError", err)
			}
			if cde.Path != path {
				t.Errorf("Path = %q, want %q", cde.Path, path)
			}
		})
	}
}

func TestLoad_LegacyFile(t *testing.T) {
	legacy := `{
    "2024-01-01": {
        "exercise": "30",
        "sleep": 7.5,
        "water": "",
        "calories": "2000",
        "mood": "😀 Happy",
        "sleep_tracker": {"hours": "7.5", "quality": "8", "bedtime": "22:45"}
    },
    "goals": {"exercise_goal": "30", "sleep_goal": "8", "water_goal": "", "calories_goal": ""}
}`
	path := filepath.Join(t.TempDir(), "wellness_data.json")
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := NewFileAdapter(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	e := doc.Entries["2024-01-01"]
	if e.Sleep != "7.5" {
		t.Errorf("Sleep = %q, want 7.5", e.Sleep)
	}
	if e.Mood != journal.MoodHappy {
		t.Errorf("Mood = %q, want happy", e.Mood)
	}
	if e.SleepDetail == nil || e.SleepDetail.Quality != "8" {
		t.Errorf("SleepDetail = %+v", e.SleepDetail)
	}
	if doc.Goals == nil || doc.Goals.Sleep != "8" {
		t.Errorf("Goals = %+v", doc.Goals)
	}
}

func TestLoad_KeepsForeignTopLevelKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wellness_data.json")
	content := `{"version": 2, "2024-01-01": {"exercise": "10"}, "tags": ["rest"]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	a := NewFileAdapter(path)

	doc, err := a.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Entries) != 1 || doc.Entries["2024-01-01"].Exercise != "10" {
		t.Errorf("Entries = %+v", doc.Entries)
	}

	if err := a.Save(doc); err != nil {
		t.Fatal(err)
	}
	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"version": 2`, `"tags": [`, `"rest"`} {
		if !strings.Contains(string(saved), want) {
			t.Errorf("saved file missing %s:\n%s", want, saved)
		}
	}
}

func TestSave_ThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "journal.json")
	a := NewFileAdapter(path)

	s := journal.NewStore(nil)
	d, _ := journal.ParseDate("2024-03-10")
	ex := journal.Quantity("25")
	s.UpsertEntry(d, journal.EntryUpdate{Exercise: &ex})
	s.UpsertSection(d, journal.Nutrition{Breakfast: "320", Snacks: "90"})
	s.SetGoals(journal.GoalSet{Exercise: "30"})

	if err := a.Save(s.Document()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	doc, err := a.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := doc.Entries["2024-03-10"]
	if got.Exercise != "25" || got.Nutrition == nil || got.Nutrition.Snacks != "90" {
		t.Errorf("reloaded entry = %+v", got)
	}
	if doc.Goals == nil || doc.Goals.Exercise != "30" {
		t.Errorf("reloaded goals = %+v", doc.Goals)
	}

	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".*.tmp"))
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestSave_RoundTripIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	seed := `{"2024-01-02":{"water":8,"mood":"😴 Tired"},"2024-01-01":{"exercise":"10","nutrition":{"lunch":"500"}},"goals":{"water_goal":"8"}}`
	if err := os.WriteFile(path, []byte(seed), 0644); err != nil {
		t.Fatal(err)
	}
	a := NewFileAdapter(path)

	var snapshots [][]byte
	for i := 0; i < 2; i++ {
		doc, err := a.Load()
		if err != nil {
			t.Fatalf("Load() #%d error = %v", i, err)
		}
		if err := a.Save(doc); err != nil {
			t.Fatalf("Save() #%d error = %v", i, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		snapshots = append(snapshots, data)
	}

	if !bytes.Equal(snapshots[0], snapshots[1]) {
		t.Errorf("save(load()) not idempotent:\n%s\n---\n%s", snapshots[0], snapshots[1])
	}
}

func TestEncode_Layout(t *testing.T) {
	doc := journal.NewDocument()
	doc.Entries["2024-01-02"] = journal.DayEntry{Water: "8"}
	doc.Entries["2024-01-01"] = journal.DayEntry{Exercise: "10"}

	data, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.HasSuffix(out, "\n") {
		t.Error("missing trailing newline")
	}
	if !strings.Contains(out, "\n    \"2024-01-01\": {") {
		t.Errorf("unexpected indentation:\n%s", out)
	}
	if strings.Index(out, "2024-01-01") > strings.Index(out, "2024-01-02") {
		t.Error("keys not sorted")
	}
}
