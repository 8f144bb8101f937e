package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yaklabco/folio/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("returns content and info", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "post.md")
		if err := os.WriteFile(path, []byte("# Hi\n"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		content, info, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(content) != "# Hi\n" {
			t.Errorf("content = %q", content)
		}
		if info.Size != 5 || info.Path != path {
			t.Errorf("info = %+v", info)
		}
	})

	t.Run("missing file is ErrNotFound", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
		if !errors.Is(err, fsutil.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("directory is ErrIsDirectory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		if !errors.Is(err, fsutil.ErrIsDirectory) {
			t.Errorf("error = %v, want ErrIsDirectory", err)
		}
	})
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	setup := func(t *testing.T) (string, *fsutil.FileInfo) {
		t.Helper()

		path := filepath.Join(t.TempDir(), "post.md")
		if err := os.WriteFile(path, []byte("body"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		_, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		return path, info
	}

	tests := []struct {
		name   string
		mutate func(t *testing.T, path string)
		want   bool
	}{
		{
			name:   "untouched",
			mutate: func(*testing.T, string) {},
			want:   false,
		},
		{
			name: "touched without edit",
			mutate: func(t *testing.T, path string) {
				later := time.Now().Add(time.Hour)
				if err := os.Chtimes(path, later, later); err != nil {
					t.Fatalf("chtimes: %v", err)
				}
			},
			want: false,
		},
		{
			name: "same size edit",
			mutate: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("BODY"), 0o644); err != nil {
					t.Fatalf("write: %v", err)
				}
				later := time.Now().Add(time.Hour)
				if err := os.Chtimes(path, later, later); err != nil {
					t.Fatalf("chtimes: %v", err)
				}
			},
			want: true,
		},
		{
			name: "deleted",
			mutate: func(t *testing.T, path string) {
				if err := os.Remove(path); err != nil {
					t.Fatalf("remove: %v", err)
				}
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, info := setup(t)
			tt.mutate(t, path)

			got, err := fsutil.CheckModified(ctx, info)
			if err != nil {
				t.Fatalf("CheckModified() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckModified() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		if _, err := fsutil.CheckModified(ctx, nil); !errors.Is(err, fsutil.ErrNilFileInfo) {
			t.Errorf("error = %v, want ErrNilFileInfo", err)
		}
	})
}
