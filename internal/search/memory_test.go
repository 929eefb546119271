package search

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func seedMemory() *Memory {
	m := NewMemory()
	m.Replace([]Record{
		{ID: "1", Type: ResultCourse, Title: "Merchant Navy", Body: "IMU-CET और स्पॉन्सरशिप की तैयारी"},
		{ID: "2", Type: ResultCourse, Title: "SSC Batch", Body: "गणित और रीजनिंग पर फोकस"},
		{ID: "3", Type: ResultFaculty, Title: "Vikram Singh", Body: "Mathematics, 12 years of teaching"},
		{ID: "4", Type: ResultStudent, Title: "Rahul", Body: "SSC GD selection 2024"},
	})
	return m
}

func TestMemorySearch_CaseInsensitiveSubstring(t *testing.T) {
	m := seedMemory()

	results, total, err := m.Search(Query{Text: "merchant"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || len(results) != 1 {
		t.Fatalf("expected 1 hit, got %d", total)
	}
	if results[0].ID != "1" || results[0].Type != ResultCourse {
		t.Errorf("unexpected hit %+v", results[0])
	}
}

func TestMemorySearch_DevanagariQuery(t *testing.T) {
	m := seedMemory()

	results, total, err := m.Search(Query{Text: "गणित"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 hit, got %d", total)
	}
	if !utf8.ValidString(results[0].Snippet) {
		t.Errorf("snippet is not valid UTF-8: %q", results[0].Snippet)
	}
	if !strings.Contains(results[0].Snippet, "गणित") {
		t.Errorf("expected snippet around the match, got %q", results[0].Snippet)
	}
}

func TestMemorySearch_TypeFilter(t *testing.T) {
	m := seedMemory()

	results, total, err := m.Search(Query{Text: "ssc", FilterType: ResultStudent})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || results[0].ID != "4" {
		t.Fatalf("expected only the student hit, got %+v", results)
	}
}

func TestMemorySearch_EmptyQuery(t *testing.T) {
	m := seedMemory()

	results, total, err := m.Search(Query{Text: "   "})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 0 || len(results) != 0 {
		t.Errorf("expected no results for blank query, got %d", total)
	}
}

func TestMemorySearch_LimitAndTotal(t *testing.T) {
	m := NewMemory()
	records := make([]Record, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, Record{
			ID:    string(rune('a' + i)),
			Type:  ResultVideo,
			Title: "lecture",
			Body:  "maths lecture",
		})
	}
	m.Replace(records)

	results, total, err := m.Search(Query{Text: "lecture", Limit: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 30 {
		t.Errorf("expected total 30, got %d", total)
	}
	if len(results) != 5 {
		t.Errorf("expected 5 results, got %d", len(results))
	}
}

func TestMemoryIndexAndDelete(t *testing.T) {
	m := NewMemory()
	m.Index(Record{ID: "x", Type: ResultCourse, Title: "Navy", Body: ""})

	if _, total, _ := m.Search(Query{Text: "navy"}); total != 1 {
		t.Fatal("expected indexed record to be found")
	}

	m.Delete(ResultCourse, "x")
	if _, total, _ := m.Search(Query{Text: "navy"}); total != 0 {
		t.Error("expected record gone after delete")
	}
}
