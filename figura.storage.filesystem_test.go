package figura

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFilesystemStorage(t *testing.T) {
	runStorageConformance(t, func(t *testing.T) TemplateStorage {
		s, err := NewFilesystemStorage(t.TempDir())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestFilesystemStorage_Layout(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewFilesystemStorage(root)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "greeting", Source: "Hello {name}", Tags: []string{"a"}}))
	require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "greeting", Source: "Hi {name}"}))

	data, err := os.ReadFile(filepath.Join(root, "greeting", "v2.yaml"))
	require.NoError(t, err)

	var onDisk StoredTemplate
	require.NoError(t, yaml.Unmarshal(data, &onDisk))
	assert.Equal(t, "Hi {name}", onDisk.Source)
	assert.Equal(t, 2, onDisk.Version)

	t.Run("stray files are ignored", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "greeting", "notes.txt"), []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "greeting", "vX.yaml"), []byte("x"), 0o644))

		versions, err := s.ListVersions(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1}, versions)
	})

	t.Run("hand-edited file is read back", func(t *testing.T) {
		edited := "id: tmpl_manual\nname: greeting\nsource: Yo {name}\nversion: 3\n"
		require.NoError(t, os.WriteFile(filepath.Join(root, "greeting", "v3.yaml"), []byte(edited), 0o644))

		latest, err := s.Get(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, "Yo {name}", latest.Source)
		assert.Equal(t, TemplateID("tmpl_manual"), latest.ID)
	})
}

func TestFilesystemStorage_RejectsUnsafeNames(t *testing.T) {
	ctx := context.Background()
	s, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	for _, name := range []string{"../escape", "a/b", `a\b`, "a:b", "what?", "x|y"} {
		t.Run(name, func(t *testing.T) {
			err := s.Save(ctx, &StoredTemplate{Name: name, Source: "x"})
			require.Error(t, err)
			var se *StorageError
			assert.True(t, errors.As(err, &se))

			_, err = s.Get(ctx, name)
			assert.Error(t, err)
		})
	}
}

func TestNewFilesystemStorage_EmptyRoot(t *testing.T) {
	_, err := NewFilesystemStorage("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgInvalidStorageRoot)
}

func TestParseVersionFile(t *testing.T) {
	tests := map[string]int{
		"v1.yaml":   1,
		"v42.yaml":  42,
		"v.yaml":    0,
		"v1.json":   0,
		"x1.yaml":   0,
		"v-1.yaml":  0,
		"v1a.yaml":  0,
		"v007.yaml": 7,
	}
	for name, want := range tests {
		assert.Equal(t, want, parseVersionFile(name), name)
	}
}
