package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"mdcsite/api/internal/archive"
	"mdcsite/api/internal/assistant"
	"mdcsite/api/internal/auth"
	"mdcsite/api/internal/config"
	"mdcsite/api/internal/content"
	"mdcsite/api/internal/ghstore"
	"mdcsite/api/internal/images"
	"mdcsite/api/internal/kv"
	"mdcsite/api/internal/search"
)

// Session is one authenticated admin session. Tokens are stateless; a
// logout simply drops the token client-side.
type Session struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// ImageInput is the image field shared by the create/update payloads.
// Data (base64) wins over URL; both empty keeps the previous value.
type ImageInput struct {
	URL      string `json:"url,omitempty"`
	FileName string `json:"fileName,omitempty"`
	Data     string `json:"data,omitempty"`
}

type CourseInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Icon            string     `json:"icon"`
	Duration        string     `json:"duration"`
	Target          string     `json:"target"`
	Features        []string   `json:"features"`
	Subjects        []string   `json:"subjects"`
	JobRoles        []string   `json:"jobRoles"`
	AfterCompletion []string   `json:"afterCompletion"`
	Image           ImageInput `json:"image"`
}

type StudentInput struct {
	Name     string     `json:"name"`
	Exam     string     `json:"exam"`
	Rank     string     `json:"rank"`
	Badge    string     `json:"badge"`
	Category string     `json:"category"`
	Year     string     `json:"year"`
	Story    string     `json:"story"`
	Image    ImageInput `json:"image"`
}

type GalleryInput struct {
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Image    ImageInput `json:"image"`
}

type FacultyInput struct {
	Name        string     `json:"name"`
	Subject     string     `json:"subject"`
	Experience  string     `json:"experience"`
	Description string     `json:"description"`
	Image       ImageInput `json:"image"`
}

type VideoInput struct {
	Title       string `json:"title"`
	VideoURL    string `json:"videoUrl"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

var allowedResultCategories = map[string]struct{}{
	content.CategoryMerchantNavy: {},
	content.CategoryDefence:      {},
	content.CategorySSC:          {},
	content.CategoryCivil:        {},
}

var allowedVideoCategories = map[string]struct{}{
	content.VideoMotivation: {},
	content.VideoMaths:      {},
	content.VideoPhysics:    {},
	content.VideoUpdate:     {},
	content.VideoGeneral:    {},
}

// Warnings carries the non-fatal outcomes of a mutation: the durable
// store refusing the write, or a remote upload that fell back inline.
type Warnings struct {
	Capacity string          `json:"capacity,omitempty"`
	Upload   *images.Warning `json:"upload,omitempty"`
}

func (w Warnings) Empty() bool {
	return w.Capacity == "" && w.Upload == nil
}

const capacityMessage = "storage is full: the change is live but will not survive a restart"

// remoteStore is the slice of the remote content client the service
// uses for publish and uploads.
type remoteStore interface {
	GetFile(ctx context.Context, path string) ([]byte, string, error)
	PutFile(ctx context.Context, path string, content []byte, sha, message string) error
	RawURL(path string) string
}

type archiveKeeper interface {
	Record(payload []byte, author, message string) (archive.CommitInfo, error)
	History(limit int) ([]archive.CommitInfo, error)
	Snapshot(hash string) ([]byte, error)
}

type Service struct {
	cfg       config.Config
	store     *content.Store
	kv        kv.Store
	archive   archiveKeeper
	search    *search.Service
	assistant *assistant.Service

	// uploader is the standing object-storage backend (MinIO); nil means
	// uploads go to the GitHub repository from the site settings, or
	// inline when no credentials are set.
	uploader images.Uploader

	newRemote func(token, owner, repo string) remoteStore
	http      *http.Client
	now       func() time.Time

	publishMu sync.Mutex
}

func New(cfg config.Config, store *content.Store, backend kv.Store, archiveSvc archiveKeeper, searchSvc *search.Service, assistantSvc *assistant.Service, uploader images.Uploader) *Service {
	return &Service{
		cfg:       cfg,
		store:     store,
		kv:        backend,
		archive:   archiveSvc,
		search:    searchSvc,
		assistant: assistantSvc,
		uploader:  uploader,
		newRemote: func(token, owner, repo string) remoteStore {
			return ghstore.New(token, owner, repo, cfg.GitHubAPIBase, cfg.GitHubRawBase)
		},
		http: &http.Client{Timeout: 10 * time.Second},
		now:  time.Now,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// --- Session gate ---

func (s *Service) Login(passphrase string) (Session, error) {
	if !auth.CheckPassphrase(s.cfg.AdminPassphrase, passphrase) {
		return Session{}, domainError(http.StatusUnauthorized, "INVALID_PASSPHRASE", "Invalid passphrase", nil)
	}
	expiresAt := s.now().Add(s.cfg.SessionTTL)
	claims := auth.Claims{
		Sub: "admin",
		JTI: randomID(),
		Exp: expiresAt.Unix(),
	}
	token, err := auth.IssueToken([]byte(s.cfg.SessionSecret), claims)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, JTI: claims.JTI, ExpiresAt: expiresAt}, nil
}

func (s *Service) SessionFromToken(token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.SessionSecret), token)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, JTI: claims.JTI, ExpiresAt: time.Unix(claims.Exp, 0)}, nil
}

// --- Bootstrap ---

// Bootstrap loads the durable store and, for a process that has never
// persisted anything, seeds it from the published snapshot. Seed
// failures are logged and swallowed; the site must come up on the
// compiled-in defaults regardless.
func (s *Service) Bootstrap(ctx context.Context) error {
	s.store.Initialize(ctx)
	if !s.store.HasPersistedCourses(ctx) {
		s.seedFromSnapshot(ctx)
	}
	s.search.Reindex(s.store)
	return nil
}

func (s *Service) seedFromSnapshot(ctx context.Context) {
	url := strings.TrimSpace(s.cfg.SnapshotURL)
	if url == "" {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("bootstrap: build snapshot request: %v", err)
		return
	}
	resp, err := s.http.Do(req)
	if err != nil {
		log.Printf("bootstrap: fetch snapshot: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("bootstrap: fetch snapshot: status %d", resp.StatusCode)
		return
	}

	var snap content.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		log.Printf("bootstrap: decode snapshot: %v", err)
		return
	}
	s.store.ApplySnapshot(ctx, snap)
	log.Printf("bootstrap: seeded content from %s", url)
}

// --- Public site payload ---

// SitePayload is everything the public site renders in one response.
// The remote-storage token and the assistant API key never leave the
// server through this endpoint.
func (s *Service) SitePayload() map[string]any {
	site := s.store.SiteSettings()
	site.GitHubToken = ""
	ai := s.store.AISettings()
	return map[string]any{
		"courses":       s.store.Courses(),
		"students":      s.store.Students(),
		"galleryImages": s.store.Gallery(),
		"faculty":       s.store.Faculty(),
		"videos":        s.store.Videos(),
		"siteSettings":  site,
		"aiSettings": map[string]any{
			"welcomeMessage": ai.WelcomeMessage,
		},
	}
}

// --- Courses ---

func (s *Service) Courses() []content.Course {
	return s.store.Courses()
}

func (s *Service) UpdateCourse(ctx context.Context, id string, in CourseInput) (content.Course, Warnings, error) {
	var warnings Warnings

	previous := ""
	for _, existing := range s.store.Courses() {
		if existing.ID == id {
			previous = existing.Icon
		}
	}
	icon, uploadWarn, err := s.resolveImage(ctx, in.Image, previous)
	if err != nil {
		return content.Course{}, warnings, err
	}
	warnings.Upload = uploadWarn

	course := content.Course{
		ID:              id,
		Title:           in.Title,
		Description:     in.Description,
		Icon:            icon,
		Duration:        in.Duration,
		Target:          in.Target,
		Features:        in.Features,
		Subjects:        in.Subjects,
		JobRoles:        in.JobRoles,
		AfterCompletion: in.AfterCompletion,
	}
	if err := s.applyCapacity(&warnings, s.store.UpdateCourse(ctx, course)); err != nil {
		return content.Course{}, warnings, err
	}
	s.search.Reindex(s.store)
	return course, warnings, nil
}

// --- Students ---

func (s *Service) Students() []content.StudentResult {
	return s.store.Students()
}

func (s *Service) CreateStudent(ctx context.Context, in StudentInput) (content.StudentResult, Warnings, error) {
	var warnings Warnings

	if in.Category != "" {
		if _, ok := allowedResultCategories[in.Category]; !ok {
			return content.StudentResult{}, warnings, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Unknown result category", map[string]any{"category": in.Category})
		}
	}

	imageURL, uploadWarn, err := s.resolveImage(ctx, in.Image, "")
	if err != nil {
		return content.StudentResult{}, warnings, err
	}
	warnings.Upload = uploadWarn

	student := content.StudentResult{
		ID:       s.newRecordID(),
		Name:     in.Name,
		Exam:     in.Exam,
		Rank:     in.Rank,
		ImageURL: imageURL,
		Badge:    in.Badge,
		Category: in.Category,
		Year:     in.Year,
		Story:    in.Story,
	}
	if err := s.applyCapacity(&warnings, s.store.AddStudent(ctx, student)); err != nil {
		return content.StudentResult{}, warnings, err
	}
	s.search.Reindex(s.store)
	return student, warnings, nil
}

func (s *Service) UpdateStudent(ctx context.Context, id string, in StudentInput) (content.StudentResult, Warnings, error) {
	var warnings Warnings

	previous := ""
	for _, existing := range s.store.Students() {
		if existing.ID == id {
			previous = existing.ImageURL
		}
	}
	imageURL, uploadWarn, err := s.resolveImage(ctx, in.Image, previous)
	if err != nil {
		return content.StudentResult{}, warnings, err
	}
	warnings.Upload = uploadWarn

	student := content.StudentResult{
		ID:       id,
		Name:     in.Name,
		Exam:     in.Exam,
		Rank:     in.Rank,
		ImageURL: imageURL,
		Badge:    in.Badge,
		Category: in.Category,
		Year:     in.Year,
		Story:    in.Story,
	}
	if err := s.applyCapacity(&warnings, s.store.UpdateStudent(ctx, student)); err != nil {
		return content.StudentResult{}, warnings, err
	}
	s.search.Reindex(s.store)
	return student, warnings, nil
}

func (s *Service) DeleteStudent(ctx context.Context, id string) (Warnings, error) {
	var warnings Warnings
	if err := s.applyCapacity(&warnings, s.store.DeleteStudent(ctx, id)); err != nil {
		return warnings, err
	}
	s.search.Reindex(s.store)
	return warnings, nil
}

// --- Gallery ---

func (s *Service) Gallery() []content.GalleryImage {
	return s.store.Gallery()
}

func (s *Service) CreateGalleryImage(ctx context.Context, in GalleryInput) (content.GalleryImage, Warnings, error) {
	var warnings Warnings

	url, uploadWarn, err := s.resolveImage(ctx, in.Image, "")
	if err != nil {
		return content.GalleryImage{}, warnings, err
	}
	warnings.Upload = uploadWarn

	image := content.GalleryImage{
		ID:       s.newRecordID(),
		URL:      url,
		Title:    in.Title,
		Subtitle: in.Subtitle,
	}
	if err := s.applyCapacity(&warnings, s.store.AddGalleryImage(ctx, image)); err != nil {
		return content.GalleryImage{}, warnings, err
	}
	return image, warnings, nil
}

func (s *Service) UpdateGalleryImage(ctx context.Context, id string, in GalleryInput) (content.GalleryImage, Warnings, error) {
	var warnings Warnings

	previous := ""
	for _, existing := range s.store.Gallery() {
		if existing.ID == id {
			previous = existing.URL
		}
	}
	url, uploadWarn, err := s.resolveImage(ctx, in.Image, previous)
	if err != nil {
		return content.GalleryImage{}, warnings, err
	}
	warnings.Upload = uploadWarn

	image := content.GalleryImage{
		ID:       id,
		URL:      url,
		Title:    in.Title,
		Subtitle: in.Subtitle,
	}
	if err := s.applyCapacity(&warnings, s.store.UpdateGalleryImage(ctx, image)); err != nil {
		return content.GalleryImage{}, warnings, err
	}
	return image, warnings, nil
}

func (s *Service) DeleteGalleryImage(ctx context.Context, id string) (Warnings, error) {
	var warnings Warnings
	err := s.applyCapacity(&warnings, s.store.DeleteGalleryImage(ctx, id))
	return warnings, err
}

// --- Faculty ---

func (s *Service) Faculty() []content.FacultyMember {
	return s.store.Faculty()
}

func (s *Service) CreateFaculty(ctx context.Context, in FacultyInput) (content.FacultyMember, Warnings, error) {
	var warnings Warnings

	imageURL, uploadWarn, err := s.resolveImage(ctx, in.Image, "")
	if err != nil {
		return content.FacultyMember{}, warnings, err
	}
	warnings.Upload = uploadWarn

	member := content.FacultyMember{
		ID:          s.newRecordID(),
		Name:        in.Name,
		Subject:     in.Subject,
		Experience:  in.Experience,
		ImageURL:    imageURL,
		Description: in.Description,
	}
	if err := s.applyCapacity(&warnings, s.store.AddFaculty(ctx, member)); err != nil {
		return content.FacultyMember{}, warnings, err
	}
	s.search.Reindex(s.store)
	return member, warnings, nil
}

func (s *Service) UpdateFaculty(ctx context.Context, id string, in FacultyInput) (content.FacultyMember, Warnings, error) {
	var warnings Warnings

	previous := ""
	for _, existing := range s.store.Faculty() {
		if existing.ID == id {
			previous = existing.ImageURL
		}
	}
	imageURL, uploadWarn, err := s.resolveImage(ctx, in.Image, previous)
	if err != nil {
		return content.FacultyMember{}, warnings, err
	}
	warnings.Upload = uploadWarn

	member := content.FacultyMember{
		ID:          id,
		Name:        in.Name,
		Subject:     in.Subject,
		Experience:  in.Experience,
		ImageURL:    imageURL,
		Description: in.Description,
	}
	if err := s.applyCapacity(&warnings, s.store.UpdateFaculty(ctx, member)); err != nil {
		return content.FacultyMember{}, warnings, err
	}
	s.search.Reindex(s.store)
	return member, warnings, nil
}

func (s *Service) DeleteFaculty(ctx context.Context, id string) (Warnings, error) {
	var warnings Warnings
	if err := s.applyCapacity(&warnings, s.store.DeleteFaculty(ctx, id)); err != nil {
		return warnings, err
	}
	s.search.Reindex(s.store)
	return warnings, nil
}

// --- Videos ---

func (s *Service) Videos() []content.Video {
	return s.store.Videos()
}

func (s *Service) CreateVideo(ctx context.Context, in VideoInput) (content.Video, Warnings, error) {
	var warnings Warnings

	videoID := content.ExtractVideoID(in.VideoURL)
	if videoID == "" {
		return content.Video{}, warnings, domainError(http.StatusUnprocessableEntity, "INVALID_VIDEO_ID", "Could not extract a YouTube video id from the input", map[string]any{"videoUrl": in.VideoURL})
	}

	category := in.Category
	if category == "" {
		category = content.VideoGeneral
	}
	if _, ok := allowedVideoCategories[category]; !ok {
		return content.Video{}, warnings, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Unknown video category", map[string]any{"category": in.Category})
	}

	video := content.Video{
		ID:          s.newRecordID(),
		Title:       in.Title,
		VideoID:     videoID,
		Category:    category,
		Description: in.Description,
	}
	if err := s.applyCapacity(&warnings, s.store.AddVideo(ctx, video)); err != nil {
		return content.Video{}, warnings, err
	}
	s.search.Reindex(s.store)
	return video, warnings, nil
}

func (s *Service) DeleteVideo(ctx context.Context, id string) (Warnings, error) {
	var warnings Warnings
	if err := s.applyCapacity(&warnings, s.store.DeleteVideo(ctx, id)); err != nil {
		return warnings, err
	}
	s.search.Reindex(s.store)
	return warnings, nil
}

// --- Settings ---

func (s *Service) SiteSettings() content.SiteSettings {
	return s.store.SiteSettings()
}

func (s *Service) UpdateSiteSettings(ctx context.Context, settings content.SiteSettings) (content.SiteSettings, Warnings, error) {
	var warnings Warnings
	if err := s.applyCapacity(&warnings, s.store.UpdateSiteSettings(ctx, settings)); err != nil {
		return content.SiteSettings{}, warnings, err
	}
	return settings, warnings, nil
}

func (s *Service) AISettings() content.AISettings {
	return s.store.AISettings()
}

func (s *Service) UpdateAISettings(ctx context.Context, settings content.AISettings) (content.AISettings, Warnings, error) {
	var warnings Warnings
	if err := s.applyCapacity(&warnings, s.store.UpdateAISettings(ctx, settings)); err != nil {
		return content.AISettings{}, warnings, err
	}
	return settings, warnings, nil
}

// --- Images ---

// ResolveImage turns an image submission into a renderable URL without
// attaching it to any record, backing the standalone upload endpoint.
func (s *Service) ResolveImage(ctx context.Context, in ImageInput, previous string) (string, *images.Warning, error) {
	return s.resolveImage(ctx, in, previous)
}

func (s *Service) resolveImage(ctx context.Context, in ImageInput, previous string) (string, *images.Warning, error) {
	var data []byte
	if in.Data != "" {
		decoded, err := base64.StdEncoding.DecodeString(in.Data)
		if err != nil {
			return "", nil, domainError(http.StatusBadRequest, "INVALID_IMAGE", "Image data is not valid base64", nil)
		}
		data = decoded
	}

	url, warn, err := images.Resolve(ctx, images.Input{
		FileName: in.FileName,
		Data:     data,
		URL:      in.URL,
		Previous: previous,
	}, s.imageUploader())
	if err != nil {
		if errors.Is(err, images.ErrTooLarge) {
			return "", warn, domainError(http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error(), nil)
		}
		return "", warn, err
	}
	return url, warn, nil
}

// imageUploader picks the object-storage backend for this request:
// MinIO when deployed with one, otherwise the GitHub repository named
// in the site settings, otherwise nil (inline fallback only).
func (s *Service) imageUploader() images.Uploader {
	if s.uploader != nil {
		return s.uploader
	}
	token, owner, repo, ok := s.store.GitHubCredentials()
	if !ok {
		return nil
	}
	return images.NewGitHubUploader(s.newRemote(token, owner, repo))
}

// --- Publish ---

// PublishResult describes one successful publish.
type PublishResult struct {
	Path        string              `json:"path"`
	Bytes       int                 `json:"bytes"`
	Commit      *archive.CommitInfo `json:"commit,omitempty"`
	PublishedAt time.Time           `json:"publishedAt"`
}

// Publish serializes the full store and writes it to the remote
// repository, read-modify-write guarded by the current revision SHA.
// Concurrent publishes from other admins surface as a conflict, not a
// silent overwrite.
func (s *Service) Publish(ctx context.Context, message string) (PublishResult, error) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	token, owner, repo, ok := s.store.GitHubCredentials()
	if !ok {
		return PublishResult{}, domainError(http.StatusUnprocessableEntity, "MISSING_CREDENTIALS", "Set the repository token, owner and name in site settings before publishing", nil)
	}
	remote := s.newRemote(token, owner, repo)

	payload, err := json.MarshalIndent(s.store.Snapshot(), "", "  ")
	if err != nil {
		return PublishResult{}, fmt.Errorf("marshal snapshot: %w", err)
	}

	if message == "" {
		message = "Update site content"
	}
	path := s.cfg.SnapshotPath

	sha := ""
	_, currentSHA, err := remote.GetFile(ctx, path)
	switch {
	case err == nil:
		sha = currentSHA
	case errors.Is(err, ghstore.ErrNotFound):
		// First publish creates the file.
	default:
		return PublishResult{}, publishError(err)
	}

	if err := remote.PutFile(ctx, path, payload, sha, message); err != nil {
		return PublishResult{}, publishError(err)
	}

	result := PublishResult{
		Path:        path,
		Bytes:       len(payload),
		PublishedAt: s.now(),
	}
	if s.archive != nil {
		commit, err := s.archive.Record(payload, "admin", message)
		if err != nil {
			log.Printf("publish: archive record: %v", err)
		} else {
			result.Commit = &commit
		}
	}
	return result, nil
}

func publishError(err error) error {
	switch {
	case errors.Is(err, ghstore.ErrUnauthorized):
		return domainError(http.StatusUnauthorized, "PUBLISH_AUTH", "The repository rejected the token; check site settings", nil)
	case errors.Is(err, ghstore.ErrConflict):
		return domainError(http.StatusConflict, "PUBLISH_CONFLICT", "The published file changed underneath this publish; retry to pick up the new revision", nil)
	case errors.Is(err, ghstore.ErrNotFound):
		return domainError(http.StatusNotFound, "PUBLISH_TARGET_MISSING", "The repository or path does not exist", nil)
	default:
		return domainError(http.StatusBadGateway, "PUBLISH_FAILED", err.Error(), nil)
	}
}

func (s *Service) PublishHistory(limit int) ([]archive.CommitInfo, error) {
	if s.archive == nil {
		return []archive.CommitInfo{}, nil
	}
	return s.archive.History(limit)
}

func (s *Service) ArchivedSnapshot(hash string) ([]byte, error) {
	if s.archive == nil {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "No publish archive configured", nil)
	}
	payload, err := s.archive.Snapshot(hash)
	if err != nil {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "No archived snapshot for that hash", nil)
	}
	return payload, nil
}

// --- Assistant ---

func (s *Service) Chat(ctx context.Context, message string, history []assistant.Turn) (string, string) {
	settings := s.store.AISettings()
	reply := s.assistant.Chat(ctx, settings, message, history)
	return reply, settings.WelcomeMessage
}

// --- Search ---

func (s *Service) Search(q search.Query) search.Response {
	return s.search.Search(q)
}

// --- Reset ---

// Reset wipes every persisted key and restores the compiled-in
// defaults, the recovery path for corrupt or unwanted state.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.search.Reindex(s.store)
	return nil
}

// --- Helpers ---

// applyCapacity routes a capacity rejection into the warnings envelope;
// the mutation has already been applied in memory.
func (s *Service) applyCapacity(warnings *Warnings, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kv.ErrCapacity) {
		warnings.Capacity = capacityMessage
		return nil
	}
	return err
}

// newRecordID follows the snapshot's existing convention of
// millisecond-timestamp identifiers.
func (s *Service) newRecordID() string {
	return strconv.FormatInt(s.now().UnixMilli(), 10)
}

func randomID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
