package search

import (
	"log"

	"mdcsite/api/internal/content"
)

// Service is the facade that tries Meilisearch first and falls back to
// the in-memory engine. The memory engine is always kept in sync so the
// fallback answers from current data, not a stale index.
type Service struct {
	meili  *Meili
	memory *Memory
}

// NewService creates a search service. meili may be nil if Meilisearch
// is not configured.
func NewService(meili *Meili, memory *Memory) *Service {
	return &Service{meili: meili, memory: memory}
}

// Search tries Meilisearch if healthy, otherwise the in-memory engine.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to memory: %v", err)
	}

	results, total, err := s.memory.Search(q)
	if err != nil {
		log.Printf("search: memory engine error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// Reindex rebuilds both engines from the content store, called at
// bootstrap and after every content mutation. Meilisearch indexing is
// fire-and-forget; the memory engine updates synchronously.
func (s *Service) Reindex(store *content.Store) {
	records := CollectRecords(store)
	s.memory.Replace(records)

	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexRecords(records); err != nil {
			log.Printf("search: reindex: %v", err)
		}
	}()
}

// CollectRecords flattens the searchable collections into index records.
func CollectRecords(store *content.Store) []Record {
	var records []Record
	for _, course := range store.Courses() {
		records = append(records, Record{
			ID:    course.ID,
			Type:  ResultCourse,
			Title: course.Title,
			Body:  course.Description,
		})
	}
	for _, member := range store.Faculty() {
		records = append(records, Record{
			ID:    member.ID,
			Type:  ResultFaculty,
			Title: member.Name,
			Body:  member.Subject + " " + member.Description,
		})
	}
	for _, student := range store.Students() {
		records = append(records, Record{
			ID:    student.ID,
			Type:  ResultStudent,
			Title: student.Name,
			Body:  student.Exam + " " + student.Rank + " " + student.Story,
		})
	}
	for _, video := range store.Videos() {
		records = append(records, Record{
			ID:    video.ID,
			Type:  ResultVideo,
			Title: video.Title,
			Body:  video.Description,
		})
	}
	return records
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
