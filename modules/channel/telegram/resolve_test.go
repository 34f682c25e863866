package telegram

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFileRef(t *testing.T) {
	t.Parallel()

	ref := FileRef("abc123")
	if ref != "tg://file_id/abc123" {
		t.Errorf("FileRef = %q", ref)
	}
	if !IsFileRef(ref) {
		t.Error("IsFileRef(FileRef(...)) = false")
	}
	if IsFileRef("https://example.com/img.jpg") {
		t.Error("IsFileRef matched a plain URL")
	}
}

func TestFetchFile(t *testing.T) {
	t.Parallel()

	photo := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getFile"):
			writeJSON(t, w, APIResponse[File]{
				OK:     true,
				Result: File{FileID: "abc123", FilePath: "photos/file_1.jpg"},
			})
		case strings.HasSuffix(r.URL.Path, "/photos/file_1.jpg"):
			_, _ = w.Write(photo)
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tg := &Telegram{client: NewClient("123:ABC", srv.URL)}

	path, data, mime, err := tg.FetchFile(context.Background(), FileRef("abc123"))
	if err != nil {
		t.Fatalf("FetchFile: %v", err)
	}
	if path != "photos/file_1.jpg" {
		t.Errorf("path = %q", path)
	}
	if !bytes.Equal(data, photo) {
		t.Errorf("data = %v, want %v", data, photo)
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %q", mime)
	}
}

func TestFetchFile_BareFileID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/getFile") {
			writeJSON(t, w, APIResponse[File]{
				OK:     true,
				Result: File{FileID: "raw-id", FilePath: "documents/doc.png"},
			})
			return
		}
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	tg := &Telegram{client: NewClient("123:ABC", srv.URL)}

	path, _, mime, err := tg.FetchFile(context.Background(), "raw-id")
	if err != nil {
		t.Fatalf("FetchFile: %v", err)
	}
	if path != "documents/doc.png" {
		t.Errorf("path = %q", path)
	}
	if mime != "image/png" {
		t.Errorf("mime = %q", mime)
	}
}

func TestFetchFile_DownloadError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/getFile") {
			writeJSON(t, w, APIResponse[File]{
				OK:     true,
				Result: File{FileID: "abc123", FilePath: "photos/gone.jpg"},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	tg := &Telegram{client: NewClient("123:ABC", srv.URL)}

	path, _, _, err := tg.FetchFile(context.Background(), FileRef("abc123"))
	if err == nil {
		t.Fatal("expected download error")
	}
	if path != "photos/gone.jpg" {
		t.Errorf("path = %q, want the resolved path even on download failure", path)
	}
}

func TestGuessImageMIME(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"photos/file_1.jpg", "image/jpeg"},
		{"photos/file_2.jpeg", "image/jpeg"},
		{"photos/file_3.png", "image/png"},
		{"photos/file_4.gif", "image/gif"},
		{"photos/file_5.webp", "image/webp"},
		{"photos/file_6.bmp", ""},
		{"photos/file_7.JPG", "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got := guessImageMIME(tt.path)
			if got != tt.want {
				t.Errorf("guessImageMIME(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
