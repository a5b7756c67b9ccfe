package credential

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/morikuni/failure/v2"
	"github.com/spf13/afero"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{name: "host", baseURL: "https://api.getcloudapp.com", want: "api.getcloudapp.com"},
		{name: "host with port", baseURL: "http://127.0.0.1:8080/", want: "127.0.0.1_8080"},
		{name: "path ignored", baseURL: "https://api.example.com/v3", want: "api.example.com"},
		{name: "not a url", baseURL: "../../etc/passwd", want: "._._etc_passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeKey(tt.baseURL); got != tt.want {
				t.Errorf("normalizeKey(%q) = %q, want %q", tt.baseURL, got, tt.want)
			}
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(afero.NewOsFs(), filepath.Join(t.TempDir(), "nested"))
	entry := Entry{
		BaseURL:   "https://api.getcloudapp.com",
		Email:     "arthur@example.com",
		Token:     "abc123",
		CreatedAt: time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := store.Save(entry); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load("https://api.getcloudapp.com/")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(entry, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	info, err := store.fs.Stat(store.path(entry.BaseURL))
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %v, want 0600", perm)
	}

	if err := store.Delete(entry.BaseURL); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(entry.BaseURL); !failure.Is(err, ErrNotFound) {
		t.Errorf("Load() after Delete() error = %v, want NotFound", err)
	}
	if err := store.Delete(entry.BaseURL); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/config/cloudapp")
	if err := afero.WriteFile(fs, "/config/cloudapp/api.example.com.gob", []byte("not gob"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load("https://api.example.com"); !failure.Is(err, ErrStorage) {
		t.Errorf("Load() error = %v, want Storage", err)
	}
}

func TestSaveSetsCreatedAt(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "/config/cloudapp")
	if err := store.Save(Entry{BaseURL: "https://api.example.com", Token: "t"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load("https://api.example.com")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.CreatedAt.IsZero() {
		t.Errorf("CreatedAt not set")
	}
}

// failingCloseFs hands out files whose Close fails after the write.
type failingCloseFs struct {
	afero.Fs
}

type failingCloseFile struct {
	afero.File
}

func (f failingCloseFile) Close() error {
	f.File.Close()
	return errors.New("disk full")
}

func (fs failingCloseFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := fs.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return failingCloseFile{File: f}, nil
}

func TestSaveReportsCloseError(t *testing.T) {
	store := NewStore(failingCloseFs{Fs: afero.NewMemMapFs()}, "/config/cloudapp")
	err := store.Save(Entry{BaseURL: "https://api.example.com", Token: "t"})
	if !failure.Is(err, ErrStorage) {
		t.Errorf("Save() error = %v, want Storage", err)
	}
}
