package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"mdcsite/api/internal/archive"
	"mdcsite/api/internal/assistant"
	"mdcsite/api/internal/config"
	"mdcsite/api/internal/content"
	"mdcsite/api/internal/ghstore"
	"mdcsite/api/internal/kv"
	"mdcsite/api/internal/search"
)

// fakeKV is an in-memory kv.Store; failSet simulates a full backend and
// pingErr an unreachable one.
type fakeKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	failSet bool
	pingErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return value, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return kv.ErrCapacity
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeKV) Ping(context.Context) error { return f.pingErr }
func (f *fakeKV) Close() error               { return nil }

type putCall struct {
	path    string
	sha     string
	message string
	content []byte
}

// fakeRemote stands in for the GitHub contents client.
type fakeRemote struct {
	mu     sync.Mutex
	files  map[string][]byte
	shas   map[string]string
	rev    int
	getErr error
	putErr error
	puts   []putCall
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		files: make(map[string][]byte),
		shas:  make(map[string]string),
	}
}

func (f *fakeRemote) GetFile(_ context.Context, path string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, "", f.getErr
	}
	content, ok := f.files[path]
	if !ok {
		return nil, "", ghstore.ErrNotFound
	}
	return content, f.shas[path], nil
}

func (f *fakeRemote) PutFile(_ context.Context, path string, content []byte, sha, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	if current, exists := f.shas[path]; exists && sha != current {
		return ghstore.ErrConflict
	}
	f.puts = append(f.puts, putCall{path: path, sha: sha, message: message, content: content})
	f.files[path] = content
	f.rev++
	f.shas[path] = "rev" + string(rune('0'+f.rev))
	return nil
}

func (f *fakeRemote) RawURL(path string) string {
	return "https://raw.test/owner/repo/main/" + path
}

func testConfig() config.Config {
	return config.Config{
		AdminPassphrase: "letmein",
		SessionSecret:   "test-secret",
		SessionTTL:      time.Hour,
		SnapshotPath:    "public/data.json",
		ArchiveDir:      "",
	}
}

func newTestService(t *testing.T, cfg config.Config, backend *fakeKV) (*Service, *fakeRemote) {
	t.Helper()
	store := content.NewStore(backend)
	store.Initialize(context.Background())
	remote := newFakeRemote()

	svc := New(cfg, store, backend, nil, search.NewService(nil, search.NewMemory()), assistant.New(""), nil)
	svc.newRemote = func(token, owner, repo string) remoteStore { return remote }
	return svc, remote
}

func setGitHubCredentials(t *testing.T, svc *Service) {
	t.Helper()
	settings := svc.SiteSettings()
	settings.GitHubToken = "tok"
	settings.GitHubOwner = "owner"
	settings.GitHubRepo = "repo"
	if _, _, err := svc.UpdateSiteSettings(context.Background(), settings); err != nil {
		t.Fatalf("UpdateSiteSettings: %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), newFakeKV())

	if _, err := svc.Login("wrong"); err == nil {
		t.Error("expected wrong passphrase rejected")
	}

	session, err := svc.Login("letmein")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a token")
	}

	parsed, err := svc.SessionFromToken(session.Token)
	if err != nil {
		t.Fatalf("SessionFromToken: %v", err)
	}
	if parsed.JTI != session.JTI {
		t.Errorf("expected same session id, got %q and %q", parsed.JTI, session.JTI)
	}
}

func TestSessionFromToken_Garbage(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), newFakeKV())
	if _, err := svc.SessionFromToken("not-a-token"); err == nil {
		t.Error("expected garbage token rejected")
	}
}

func TestBootstrap_FirstVisitorSeedsFromSnapshot(t *testing.T) {
	fetches := 0
	snapshot := content.Snapshot{
		Courses:  []content.Course{{ID: "c1", Title: "Seeded Course"}},
		Students: []content.StudentResult{{ID: "s1", Name: "Seeded Student", Exam: "IMU-CET"}},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		_ = json.NewEncoder(w).Encode(snapshot)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.SnapshotURL = server.URL
	backend := newFakeKV()

	svc, _ := newTestService(t, cfg, backend)
	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	if fetches != 1 {
		t.Fatalf("expected 1 snapshot fetch, got %d", fetches)
	}
	students := svc.Students()
	if len(students) != 1 || students[0].Name != "Seeded Student" {
		t.Fatalf("expected seeded students, got %+v", students)
	}

	// A second process over the same backend sees persisted data and
	// must not refetch.
	svc2, _ := newTestService(t, cfg, backend)
	if err := svc2.Bootstrap(context.Background()); err != nil {
		t.Fatalf("second Bootstrap: %v", err)
	}
	if fetches != 1 {
		t.Errorf("expected no refetch for a seeded backend, got %d fetches", fetches)
	}
	if got := svc2.Students(); len(got) != 1 || got[0].ID != "s1" {
		t.Errorf("expected persisted students on restart, got %+v", got)
	}
}

func TestBootstrap_FetchFailureFallsBackToDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.SnapshotURL = server.URL

	svc, _ := newTestService(t, cfg, newFakeKV())
	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap must not fail on a seed error: %v", err)
	}
	if len(svc.Courses()) == 0 {
		t.Error("expected default courses after failed seed")
	}
}

func TestPublish_RequiresCredentials(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), newFakeKV())

	_, err := svc.Publish(context.Background(), "")
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "MISSING_CREDENTIALS" {
		t.Fatalf("expected MISSING_CREDENTIALS, got %v", err)
	}
}

func TestPublish_ReadModifyWrite(t *testing.T) {
	svc, remote := newTestService(t, testConfig(), newFakeKV())
	setGitHubCredentials(t, svc)

	remote.files["public/data.json"] = []byte("{}")
	remote.shas["public/data.json"] = "rev0"

	result, err := svc.Publish(context.Background(), "update hero copy")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if result.Path != "public/data.json" {
		t.Errorf("unexpected path %q", result.Path)
	}
	if len(remote.puts) != 1 {
		t.Fatalf("expected 1 write, got %d", len(remote.puts))
	}
	put := remote.puts[0]
	if put.sha != "rev0" {
		t.Errorf("expected write guarded by current sha, got %q", put.sha)
	}
	if put.message != "update hero copy" {
		t.Errorf("unexpected commit message %q", put.message)
	}

	var published content.Snapshot
	if err := json.Unmarshal(put.content, &published); err != nil {
		t.Fatalf("published payload is not a snapshot: %v", err)
	}
	if len(published.Courses) == 0 {
		t.Error("expected courses in the published payload")
	}
}

func TestPublish_FirstPublishCreatesFile(t *testing.T) {
	svc, remote := newTestService(t, testConfig(), newFakeKV())
	setGitHubCredentials(t, svc)

	if _, err := svc.Publish(context.Background(), ""); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(remote.puts) != 1 || remote.puts[0].sha != "" {
		t.Errorf("expected unguarded create, got %+v", remote.puts)
	}
	if remote.puts[0].message != "Update site content" {
		t.Errorf("expected default message, got %q", remote.puts[0].message)
	}
}

func TestPublish_TwiceWithoutChangesIsIdentical(t *testing.T) {
	svc, remote := newTestService(t, testConfig(), newFakeKV())
	setGitHubCredentials(t, svc)
	ctx := context.Background()

	if _, err := svc.Publish(ctx, ""); err != nil {
		t.Fatalf("first Publish: %v", err)
	}
	if _, err := svc.Publish(ctx, ""); err != nil {
		t.Fatalf("second Publish: %v", err)
	}

	if len(remote.puts) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(remote.puts))
	}
	if string(remote.puts[0].content) != string(remote.puts[1].content) {
		t.Error("expected identical payloads for back-to-back publishes with no edits")
	}
	if remote.puts[1].sha == remote.puts[0].sha {
		t.Error("expected the second publish to pick up the new revision sha")
	}
}

func TestPublish_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		putErr   error
		wantCode string
	}{
		{name: "unauthorized", putErr: ghstore.ErrUnauthorized, wantCode: "PUBLISH_AUTH"},
		{name: "conflict", putErr: ghstore.ErrConflict, wantCode: "PUBLISH_CONFLICT"},
		{name: "network", putErr: errors.New("dial tcp: timeout"), wantCode: "PUBLISH_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, remote := newTestService(t, testConfig(), newFakeKV())
			setGitHubCredentials(t, svc)
			remote.putErr = tt.putErr

			_, err := svc.Publish(context.Background(), "")
			var domainErr *DomainError
			if !errors.As(err, &domainErr) || domainErr.Code != tt.wantCode {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestPublish_RecordsArchiveCommit(t *testing.T) {
	backend := newFakeKV()
	store := content.NewStore(backend)
	store.Initialize(context.Background())
	remote := newFakeRemote()

	svc := New(testConfig(), store, backend, archive.New(t.TempDir()), search.NewService(nil, search.NewMemory()), assistant.New(""), nil)
	svc.newRemote = func(string, string, string) remoteStore { return remote }
	setGitHubCredentials(t, svc)

	result, err := svc.Publish(context.Background(), "archived publish")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if result.Commit == nil || len(result.Commit.Hash) != 7 {
		t.Fatalf("expected an archive commit, got %+v", result.Commit)
	}

	history, err := svc.PublishHistory(10)
	if err != nil {
		t.Fatalf("PublishHistory: %v", err)
	}
	if len(history) != 1 || history[0].Message != "archived publish" {
		t.Errorf("unexpected history %+v", history)
	}

	payload, err := svc.ArchivedSnapshot(result.Commit.Hash)
	if err != nil {
		t.Fatalf("ArchivedSnapshot: %v", err)
	}
	if string(payload) != string(remote.puts[0].content) {
		t.Error("expected archived payload to match the published one")
	}
}

func TestCreateVideo_ExtractsIDFromURL(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), newFakeKV())

	video, _, err := svc.CreateVideo(context.Background(), VideoInput{
		Title:    "Physics lecture",
		VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10s",
		Category: content.VideoPhysics,
	})
	if err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}
	if video.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("expected extracted id, got %q", video.VideoID)
	}
	if svc.Videos()[0].ID != video.ID {
		t.Error("expected new video prepended")
	}
}

func TestCreateVideo_RejectsBadURL(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), newFakeKV())

	_, _, err := svc.CreateVideo(context.Background(), VideoInput{Title: "t", VideoURL: "https://example.com/clip"})
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "INVALID_VIDEO_ID" {
		t.Errorf("expected INVALID_VIDEO_ID, got %v", err)
	}
}

func TestCreateStudent_IndexedForSearch(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), newFakeKV())

	student, warnings, err := svc.CreateStudent(context.Background(), StudentInput{
		Name:     "Priya Sharma",
		Exam:     "SSC CGL",
		Rank:     "AIR 45",
		Category: content.CategorySSC,
	})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if !warnings.Empty() {
		t.Errorf("unexpected warnings %+v", warnings)
	}
	if student.ID == "" {
		t.Error("expected a generated id")
	}

	resp := svc.Search(search.Query{Text: "priya"})
	if resp.Total != 1 || resp.Results[0].ID != student.ID {
		t.Errorf("expected the new student in search results, got %+v", resp)
	}
}

func TestCreateStudent_UnknownCategoryRejected(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), newFakeKV())

	_, _, err := svc.CreateStudent(context.Background(), StudentInput{Name: "n", Exam: "e", Category: "astronaut"})
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCapacityWarningOnFullBackend(t *testing.T) {
	backend := newFakeKV()
	svc, _ := newTestService(t, testConfig(), backend)
	backend.failSet = true

	student, warnings, err := svc.CreateStudent(context.Background(), StudentInput{Name: "Cap", Exam: "x"})
	if err != nil {
		t.Fatalf("expected the mutation to succeed with a warning, got %v", err)
	}
	if warnings.Capacity == "" {
		t.Error("expected a capacity warning")
	}
	if svc.Students()[0].ID != student.ID {
		t.Error("expected the in-memory mutation to stand")
	}
}

func TestResolveImage_UsesRepositoryWhenConfigured(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), newFakeKV())
	setGitHubCredentials(t, svc)

	url, warn, err := svc.ResolveImage(context.Background(), ImageInput{
		FileName: "photo.png",
		Data:     pngBase64(t),
	}, "")
	if err != nil {
		t.Fatalf("ResolveImage: %v", err)
	}
	if warn != nil {
		t.Errorf("unexpected warning %+v", warn)
	}
	if got, want := url[:22], "https://raw.test/owner"; got != want {
		t.Errorf("expected repository raw url, got %q", url)
	}
}

func TestResolveImage_InlineWithoutCredentials(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), newFakeKV())

	url, _, err := svc.ResolveImage(context.Background(), ImageInput{
		FileName: "photo.png",
		Data:     pngBase64(t),
	}, "")
	if err != nil {
		t.Fatalf("ResolveImage: %v", err)
	}
	if url[:23] != "data:image/jpeg;base64," {
		t.Errorf("expected inline data uri, got %q", url[:23])
	}
}

func pngBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestReset_RestoresDefaults(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), newFakeKV())
	ctx := context.Background()

	if _, _, err := svc.CreateStudent(ctx, StudentInput{Name: "Tmp", Exam: "x"}); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	for _, student := range svc.Students() {
		if student.Name == "Tmp" {
			t.Error("expected added student gone after reset")
		}
	}
}
