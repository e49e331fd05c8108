package intent

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"igris/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeCatalogue(t *testing.T, path string, cat *config.Catalogue) {
	t.Helper()
	require.NoError(t, config.SaveCatalogue(path, cat))
}

func TestCatalogueStoreLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task_intents.json")
	writeCatalogue(t, path, &config.Catalogue{Tasks: []config.CatalogueEntry{
		{Task: "notepad", Phrases: []string{"open notepad"}, Action: "notepad.exe"},
	}})

	store := NewCatalogueStore(path)
	defer store.Close()

	cat, err := store.Load()
	require.NoError(t, err)
	require.Len(t, cat.Tasks, 1)
	assert.Equal(t, "notepad", cat.Tasks[0].Task)

	again, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cat.Tasks, again.Tasks)
}

func TestCatalogueStoreHotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task_intents.json")
	writeCatalogue(t, path, &config.Catalogue{Tasks: []config.CatalogueEntry{
		{Task: "one", Phrases: []string{"one"}, Action: "a"},
	}})

	store := NewCatalogueStore(path)
	defer store.Close()

	cat, err := store.Load()
	require.NoError(t, err)
	require.Len(t, cat.Tasks, 1)

	writeCatalogue(t, path, &config.Catalogue{Tasks: []config.CatalogueEntry{
		{Task: "one", Phrases: []string{"one"}, Action: "a"},
		{Task: "two", Phrases: []string{"two"}, Action: "b"},
	}})

	assert.Eventually(t, func() bool {
		cat, err := store.Load()
		return err == nil && len(cat.Tasks) == 2
	}, 3*time.Second, 20*time.Millisecond, "store never observed the rewritten catalogue")
}

func TestCatalogueStoreKeepsSnapshotOnBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task_intents.json")
	writeCatalogue(t, path, &config.Catalogue{Tasks: []config.CatalogueEntry{
		{Task: "one", Phrases: []string{"one"}, Action: "a"},
	}})

	store := NewCatalogueStore(path)
	defer store.Close()

	_, err := store.Load()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	// The previous snapshot keeps serving; a broken edit must not take the
	// matcher down.
	assert.Eventually(t, func() bool {
		cat, err := store.Load()
		return err == nil && len(cat.Tasks) == 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestCatalogueStoreLearnNewEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task_intents.json")
	writeCatalogue(t, path, &config.Catalogue{})

	store := NewCatalogueStore(path)
	defer store.Close()

	err := store.Learn(config.CatalogueEntry{
		Task: "reboot", Phrases: []string{"restart computer"}, Action: "shutdown /r", RequiresAdmin: true,
	})
	require.NoError(t, err)

	// Persisted, not just cached.
	onDisk, err := config.LoadCatalogue(path)
	require.NoError(t, err)
	require.Len(t, onDisk.Tasks, 1)
	assert.Equal(t, "reboot", onDisk.Tasks[0].Task)
}

func TestCatalogueStoreLearnMergesPhrases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task_intents.json")
	writeCatalogue(t, path, &config.Catalogue{Tasks: []config.CatalogueEntry{
		{Task: "reboot", Phrases: []string{"reboot"}, Action: "shutdown /r"},
	}})

	store := NewCatalogueStore(path)
	defer store.Close()

	err := store.Learn(config.CatalogueEntry{
		Task: "reboot", Phrases: []string{"restart computer", "reboot"}, Action: "shutdown /r",
	})
	require.NoError(t, err)

	cat, err := store.Load()
	require.NoError(t, err)
	require.Len(t, cat.Tasks, 1)
	assert.ElementsMatch(t, []string{"reboot", "restart computer"}, cat.Tasks[0].Phrases)
}
