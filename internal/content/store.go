package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"mdcsite/api/internal/kv"
)

// Storage keys, one per collection/singleton. Kept stable so a published
// snapshot and a persisted store stay interchangeable across releases.
const (
	keyCourses  = "mdc_courses"
	keyStudents = "mdc_students"
	keyGallery  = "mdc_gallery"
	keySettings = "mdc_settings"
	keyFaculty  = "mdc_faculty"
	keyVideos   = "mdc_videos"
	keyAI       = "mdc_ai_settings"
)

var (
	ErrNotFound       = errors.New("content: record not found")
	ErrInvalidVideoID = errors.New("content: video id must be the 11-character YouTube id")
	ErrInvalidRecord  = errors.New("content: record is missing required fields")
)

// Store is the single source of truth for the running process. Every
// mutation is applied in memory first and then persisted; a capacity
// rejection from the kv backend is returned to the caller as a warning
// while the in-memory mutation stands. All other persistence errors are
// logged and swallowed here, once, rather than at each call site.
type Store struct {
	mu sync.RWMutex
	kv kv.Store

	courses  []Course
	students []StudentResult
	gallery  []GalleryImage
	faculty  []FacultyMember
	videos   []Video
	site     SiteSettings
	ai       AISettings
}

func NewStore(backend kv.Store) *Store {
	return &Store{kv: backend}
}

// Initialize loads every collection from the durable store. An absent or
// unparsable value falls back to the compiled-in defaults; the singletons
// merge partial payloads over the defaults so no field is ever empty.
// Initialize never fails.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loadSlice(ctx, s.kv, keyCourses, &s.courses, defaultCourses)
	loadSlice(ctx, s.kv, keyStudents, &s.students, defaultStudents)
	loadSlice(ctx, s.kv, keyGallery, &s.gallery, defaultGallery)
	loadSlice(ctx, s.kv, keyFaculty, &s.faculty, defaultFaculty)
	loadSlice(ctx, s.kv, keyVideos, &s.videos, defaultVideos)

	s.site = defaultSiteSettings()
	loadSingleton(ctx, s.kv, keySettings, &s.site)
	s.ai = defaultAISettings()
	loadSingleton(ctx, s.kv, keyAI, &s.ai)
}

func loadSlice[T any](ctx context.Context, backend kv.Store, key string, target *[]T, defaults func() []T) {
	raw, err := backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Printf("content: load %s: %v", key, err)
		}
		*target = defaults()
		return
	}
	var loaded []T
	if err := json.Unmarshal(raw, &loaded); err != nil {
		log.Printf("content: corrupt %s, using defaults: %v", key, err)
		*target = defaults()
		return
	}
	*target = loaded
}

// loadSingleton unmarshals onto a defaults-prefilled struct, so fields
// absent from the persisted payload keep their default value.
func loadSingleton(ctx context.Context, backend kv.Store, key string, target any) {
	raw, err := backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Printf("content: load %s: %v", key, err)
		}
		return
	}
	if err := json.Unmarshal(raw, target); err != nil {
		log.Printf("content: corrupt %s, using defaults: %v", key, err)
	}
}

// HasPersistedCourses reports whether a persisted courses collection
// exists. Its absence is the "first-ever visitor" signal that allows the
// remote snapshot load; see Service.Bootstrap. A partial wipe of the
// backend that leaves this one key behind would suppress the seed, so
// Reset always clears every key.
func (s *Store) HasPersistedCourses(ctx context.Context) bool {
	_, err := s.kv.Get(ctx, keyCourses)
	return err == nil
}

// persist writes one collection through to the kv store. ErrCapacity is
// passed to the caller (the mutation stands, the caller warns the
// operator); any other failure is logged and dropped.
func (s *Store) persist(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("content: marshal %s: %v", key, err)
		return nil
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		if errors.Is(err, kv.ErrCapacity) {
			return fmt.Errorf("persist %s: %w", key, err)
		}
		log.Printf("content: persist %s: %v", key, err)
	}
	return nil
}

// --- Courses (update only; the identifier set is fixed) ---

func (s *Store) Courses() []Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Course, len(s.courses))
	copy(out, s.courses)
	return out
}

func (s *Store) UpdateCourse(ctx context.Context, course Course) error {
	if course.ID == "" || course.Title == "" {
		return ErrInvalidRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for i := range s.courses {
		if s.courses[i].ID == course.ID {
			s.courses[i] = course
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}
	return s.persist(ctx, keyCourses, s.courses)
}

// --- Students (prepend on create) ---

func (s *Store) Students() []StudentResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StudentResult, len(s.students))
	copy(out, s.students)
	return out
}

func (s *Store) AddStudent(ctx context.Context, student StudentResult) error {
	if student.ID == "" || student.Name == "" || student.Exam == "" {
		return ErrInvalidRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = append([]StudentResult{student}, s.students...)
	return s.persist(ctx, keyStudents, s.students)
}

func (s *Store) UpdateStudent(ctx context.Context, student StudentResult) error {
	if student.ID == "" || student.Name == "" {
		return ErrInvalidRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.students {
		if s.students[i].ID == student.ID {
			s.students[i] = student
			return s.persist(ctx, keyStudents, s.students)
		}
	}
	return ErrNotFound
}

func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.students {
		if s.students[i].ID == id {
			s.students = append(s.students[:i], s.students[i+1:]...)
			return s.persist(ctx, keyStudents, s.students)
		}
	}
	return ErrNotFound
}

// --- Gallery (prepend on create) ---

func (s *Store) Gallery() []GalleryImage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]GalleryImage, len(s.gallery))
	copy(out, s.gallery)
	return out
}

func (s *Store) AddGalleryImage(ctx context.Context, image GalleryImage) error {
	if image.ID == "" || image.URL == "" {
		return ErrInvalidRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gallery = append([]GalleryImage{image}, s.gallery...)
	return s.persist(ctx, keyGallery, s.gallery)
}

func (s *Store) UpdateGalleryImage(ctx context.Context, image GalleryImage) error {
	if image.ID == "" || image.URL == "" {
		return ErrInvalidRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.gallery {
		if s.gallery[i].ID == image.ID {
			s.gallery[i] = image
			return s.persist(ctx, keyGallery, s.gallery)
		}
	}
	return ErrNotFound
}

func (s *Store) DeleteGalleryImage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.gallery {
		if s.gallery[i].ID == id {
			s.gallery = append(s.gallery[:i], s.gallery[i+1:]...)
			return s.persist(ctx, keyGallery, s.gallery)
		}
	}
	return ErrNotFound
}

// --- Faculty (append on create) ---

func (s *Store) Faculty() []FacultyMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FacultyMember, len(s.faculty))
	copy(out, s.faculty)
	return out
}

func (s *Store) AddFaculty(ctx context.Context, member FacultyMember) error {
	if member.ID == "" || member.Name == "" {
		return ErrInvalidRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faculty = append(s.faculty, member)
	return s.persist(ctx, keyFaculty, s.faculty)
}

func (s *Store) UpdateFaculty(ctx context.Context, member FacultyMember) error {
	if member.ID == "" || member.Name == "" {
		return ErrInvalidRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.faculty {
		if s.faculty[i].ID == member.ID {
			s.faculty[i] = member
			return s.persist(ctx, keyFaculty, s.faculty)
		}
	}
	return ErrNotFound
}

func (s *Store) DeleteFaculty(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.faculty {
		if s.faculty[i].ID == id {
			s.faculty = append(s.faculty[:i], s.faculty[i+1:]...)
			return s.persist(ctx, keyFaculty, s.faculty)
		}
	}
	return ErrNotFound
}

// --- Videos (prepend on create; ID validated before mutation) ---

func (s *Store) Videos() []Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Video, len(s.videos))
	copy(out, s.videos)
	return out
}

func (s *Store) AddVideo(ctx context.Context, video Video) error {
	if video.ID == "" || video.Title == "" {
		return ErrInvalidRecord
	}
	if len(video.VideoID) != videoIDLength {
		return ErrInvalidVideoID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos = append([]Video{video}, s.videos...)
	return s.persist(ctx, keyVideos, s.videos)
}

func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.videos {
		if s.videos[i].ID == id {
			s.videos = append(s.videos[:i], s.videos[i+1:]...)
			return s.persist(ctx, keyVideos, s.videos)
		}
	}
	return ErrNotFound
}

// --- Singletons ---

func (s *Store) SiteSettings() SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

func (s *Store) UpdateSiteSettings(ctx context.Context, settings SiteSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.site = settings
	return s.persist(ctx, keySettings, s.site)
}

func (s *Store) AISettings() AISettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ai
}

func (s *Store) UpdateAISettings(ctx context.Context, settings AISettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ai = settings
	return s.persist(ctx, keyAI, s.ai)
}

// GitHubCredentials returns the remote-storage credentials from the site
// settings; ok is false unless all three are present.
func (s *Store) GitHubCredentials() (token, owner, repo string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.site.GitHubToken == "" || s.site.GitHubOwner == "" || s.site.GitHubRepo == "" {
		return "", "", "", false
	}
	return s.site.GitHubToken, s.site.GitHubOwner, s.site.GitHubRepo, true
}

// --- Snapshot ---

// Snapshot serializes the full store into the published document shape.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	site, _ := json.Marshal(s.site)
	ai, _ := json.Marshal(s.ai)
	snap := Snapshot{
		Courses:       make([]Course, len(s.courses)),
		Students:      make([]StudentResult, len(s.students)),
		GalleryImages: make([]GalleryImage, len(s.gallery)),
		Faculty:       make([]FacultyMember, len(s.faculty)),
		Videos:        make([]Video, len(s.videos)),
		SiteSettings:  site,
		AISettings:    ai,
	}
	copy(snap.Courses, s.courses)
	copy(snap.Students, s.students)
	copy(snap.GalleryImages, s.gallery)
	copy(snap.Faculty, s.faculty)
	copy(snap.Videos, s.videos)
	return snap
}

// ApplySnapshot overwrites only the collections present in the document;
// absent keys keep their current value. Applied collections are persisted
// so the seed survives a restart. Singletons merge over the defaults, not
// over current state, matching load semantics.
func (s *Store) ApplySnapshot(ctx context.Context, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Courses != nil {
		s.courses = snap.Courses
		_ = s.persist(ctx, keyCourses, s.courses)
	}
	if snap.Students != nil {
		s.students = snap.Students
		_ = s.persist(ctx, keyStudents, s.students)
	}
	if snap.GalleryImages != nil {
		s.gallery = snap.GalleryImages
		_ = s.persist(ctx, keyGallery, s.gallery)
	}
	if snap.Faculty != nil {
		s.faculty = snap.Faculty
		_ = s.persist(ctx, keyFaculty, s.faculty)
	}
	if snap.Videos != nil {
		s.videos = snap.Videos
		_ = s.persist(ctx, keyVideos, s.videos)
	}
	if len(snap.SiteSettings) > 0 {
		merged := defaultSiteSettings()
		if err := json.Unmarshal(snap.SiteSettings, &merged); err == nil {
			s.site = merged
			_ = s.persist(ctx, keySettings, s.site)
		}
	}
	if len(snap.AISettings) > 0 {
		merged := defaultAISettings()
		if err := json.Unmarshal(snap.AISettings, &merged); err == nil {
			s.ai = merged
			_ = s.persist(ctx, keyAI, s.ai)
		}
	}
}

// Reset clears every persisted key and restores the compiled-in defaults.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := []string{keyCourses, keyStudents, keyGallery, keySettings, keyFaculty, keyVideos, keyAI}
	for _, key := range keys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}

	s.courses = defaultCourses()
	s.students = defaultStudents()
	s.gallery = defaultGallery()
	s.faculty = defaultFaculty()
	s.videos = defaultVideos()
	s.site = defaultSiteSettings()
	s.ai = defaultAISettings()
	return nil
}
