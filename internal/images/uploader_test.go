package images

import (
	"context"
	"testing"
	"time"
)

func TestUploadPath(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{name: "plain name", fileName: "photo.jpg", want: "public/uploads/1700000000000_photo.jpg"},
		{name: "spaces and unicode replaced", fileName: "मेरी फोटो.png", want: "public/uploads/1700000000000__________.png"},
		{name: "slashes stripped", fileName: "../evil/name.jpg", want: "public/uploads/1700000000000_..evil.name.jpg"},
		{name: "empty name", fileName: "", want: "public/uploads/1700000000000_upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uploadPath(tt.fileName, now); got != tt.want {
				t.Errorf("uploadPath(%q) = %q, want %q", tt.fileName, got, tt.want)
			}
		})
	}
}

type recordingObjectStore struct {
	path    string
	content []byte
	message string
	err     error
}

func (r *recordingObjectStore) PutFile(_ context.Context, path string, content []byte, _, message string) error {
	r.path = path
	r.content = content
	r.message = message
	return r.err
}

func (r *recordingObjectStore) RawURL(path string) string {
	return "https://raw.example.com/owner/repo/main/" + path
}

func TestGitHubUploader_Upload(t *testing.T) {
	store := &recordingObjectStore{}
	uploader := NewGitHubUploader(store)
	uploader.now = func() time.Time { return time.UnixMilli(1700000000000) }

	url, err := uploader.Upload(context.Background(), "photo.jpg", []byte("bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	wantPath := "public/uploads/1700000000000_photo.jpg"
	if store.path != wantPath {
		t.Errorf("expected path %q, got %q", wantPath, store.path)
	}
	if string(store.content) != "bytes" {
		t.Errorf("expected raw bytes stored, got %q", store.content)
	}
	if store.message == "" {
		t.Error("expected a commit message")
	}
	if url != "https://raw.example.com/owner/repo/main/"+wantPath {
		t.Errorf("unexpected url %q", url)
	}
}
