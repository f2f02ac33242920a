package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveReadDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("cmp-1/report.csv", []byte("a;b"))
	require.NoError(t, err)
	require.Equal(t, "cmp-1/report.csv", rel)

	data, err := store.Read(rel)
	require.NoError(t, err)
	require.Equal(t, "a;b", string(data))

	require.NoError(t, store.Delete(rel))
	_, err = store.Read(rel)
	require.Error(t, err)
	require.NoError(t, store.Delete(rel))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../escape.txt", []byte("x"))
	require.Error(t, err)
	_, err = store.Open("/etc/passwd")
	require.Error(t, err)
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("old/report.xlsx", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("new/report.xlsx", []byte("new"))
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path("old/report.xlsx"), past, past))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	require.Equal(t, []string{"old/report.xlsx"}, deleted)

	_, err = os.Stat(store.Path("old"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(store.Path("new/report.xlsx"))
	require.NoError(t, err)
}
