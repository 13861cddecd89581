package spool

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrite_NamesAndContent(t *testing.T) {
	dir := t.TempDir()
	f, err := Write(dir, "leads.csv", strings.NewReader("FirstName,Phone\n"))
	require.NoError(t, err)

	require.Equal(t, dir, filepath.Dir(f.Path))
	require.Regexp(t, regexp.MustCompile(`^\d+-leads\.csv$`), filepath.Base(f.Path))
	require.EqualValues(t, 16, f.Size)

	r, err := f.Open()
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.Equal(t, "FirstName,Phone\n", string(b))
}

func TestRemove_Idempotent(t *testing.T) {
	f, err := Write(t.TempDir(), "a.csv", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, f.Remove())
	require.NoError(t, f.Remove())
	_, err = os.Stat(f.Path)
	require.True(t, os.IsNotExist(err))
}

func TestRemove_AlreadyGone(t *testing.T) {
	f, err := Write(t.TempDir(), "a.csv", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(f.Path))
	require.NoError(t, f.Remove())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWrite_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(dir, "a.csv", failingReader{})
	require.ErrorIs(t, err, ErrSource)
	require.ErrorContains(t, err, "connection reset")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWrite_DiskFailureIsNotSourceError(t *testing.T) {
	// dir apunta a un archivo regular: MkdirAll falla
	blocker := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := Write(blocker, "a.csv", strings.NewReader("FirstName,Phone\n"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrSource)
}

func TestSafeName(t *testing.T) {
	require.Equal(t, "leads.xlsx", safeName("../../etc/leads.xlsx"))
	require.Equal(t, "leads.xls", safeName(`C:\Users\me\leads.xls`))
	require.Equal(t, "upload", safeName(""))
	require.Equal(t, "upload", safeName(".."))
}
