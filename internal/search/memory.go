package search

import (
	"sort"
	"strings"
	"sync"
)

// Memory is the fallback engine: a case-insensitive substring match over
// the indexed records. It holds the full record set in memory, which is
// fine for a site with at most a few hundred content records.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record // keyed by type+"/"+id
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record)}
}

func (m *Memory) key(rtyp ResultType, id string) string {
	return string(rtyp) + "/" + id
}

// Replace swaps in a full record set, used on every reindex.
func (m *Memory) Replace(records []Record) {
	next := make(map[string]Record, len(records))
	for _, record := range records {
		next[m.key(record.Type, record.ID)] = record
	}
	m.mu.Lock()
	m.records = next
	m.mu.Unlock()
}

func (m *Memory) Index(record Record) {
	m.mu.Lock()
	m.records[m.key(record.Type, record.ID)] = record
	m.mu.Unlock()
}

func (m *Memory) Delete(rtyp ResultType, id string) {
	m.mu.Lock()
	delete(m.records, m.key(rtyp, id))
	m.mu.Unlock()
}

func (m *Memory) Healthy() bool {
	return true
}

func (m *Memory) Search(q Query) ([]Result, int, error) {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	if needle == "" {
		return []Result{}, 0, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	m.mu.RLock()
	matches := make([]Result, 0)
	for _, record := range m.records {
		if q.FilterType != "" && record.Type != q.FilterType {
			continue
		}
		haystack := strings.ToLower(record.Title + " " + record.Body)
		if !strings.Contains(haystack, needle) {
			continue
		}
		matches = append(matches, Result{
			Type:    record.Type,
			ID:      record.ID,
			Title:   record.Title,
			Snippet: snippet(record.Body, needle),
		})
	}
	m.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Type != matches[j].Type {
			return matches[i].Type < matches[j].Type
		}
		return matches[i].ID < matches[j].ID
	})

	total := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, total, nil
}

func snippet(body, needle string) string {
	lower := strings.ToLower(body)
	idx := strings.Index(lower, needle)
	if idx < 0 {
		if len(body) > 120 {
			return body[:120]
		}
		return body
	}
	start := idx - 40
	if start < 0 {
		start = 0
	}
	end := idx + len(needle) + 80
	if end > len(body) {
		end = len(body)
	}
	// Avoid splitting a multi-byte rune at the window edges.
	for start > 0 && !isRuneStart(body[start]) {
		start--
	}
	for end < len(body) && !isRuneStart(body[end]) {
		end++
	}
	return body[start:end]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
