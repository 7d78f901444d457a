package attach

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func newTestPicker(t *testing.T, dir string) *Picker {
	t.Helper()
	p, err := NewPicker(dir, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return p
}

func TestAllowedFilter(t *testing.T) {
	assert.True(t, Allowed("report.pdf"))
	assert.True(t, Allowed("SCAN.JPG"))
	assert.True(t, Allowed("letter.docx"))
	assert.False(t, Allowed("malware.exe"))
	assert.False(t, Allowed("notes.txt"))
	assert.False(t, Allowed("noext"))
}

func TestRefreshFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.pdf")
	write(t, dir, "a.jpg")
	write(t, dir, "skip.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755)) // dirs excluded

	p := newTestPicker(t, dir)
	files := p.Files()
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.pdf"), files[1])
}

func TestTogglePreservesPickOrder(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.pdf")
	b := write(t, dir, "b.pdf")
	c := write(t, dir, "c.pdf")

	p := newTestPicker(t, dir)

	// Pick in non-alphabetical order; upload order must follow picks.
	assert.True(t, p.Toggle(c))
	assert.True(t, p.Toggle(a))
	assert.True(t, p.Toggle(b))
	assert.Equal(t, []string{c, a, b}, p.Picked())

	// Toggling again unpicks without disturbing the rest.
	assert.False(t, p.Toggle(a))
	assert.Equal(t, []string{c, b}, p.Picked())
}

func TestToggleUnknownPathIgnored(t *testing.T) {
	dir := t.TempDir()
	p := newTestPicker(t, dir)
	assert.False(t, p.Toggle(filepath.Join(dir, "ghost.pdf")))
	assert.Empty(t, p.Picked())
}

func TestRefreshDropsRemovedPicks(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.pdf")
	b := write(t, dir, "b.pdf")

	p := newTestPicker(t, dir)
	p.Toggle(b)
	p.Toggle(a)

	require.NoError(t, os.Remove(b))
	require.NoError(t, p.Refresh())

	assert.Equal(t, []string{a}, p.Picked())
	assert.Len(t, p.Files(), 1)
}

func TestClearPicks(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.pdf")

	p := newTestPicker(t, dir)
	p.Toggle(a)
	p.ClearPicks()
	assert.Empty(t, p.Picked())
	assert.True(t, p.Toggle(a), "clearing picks keeps candidates selectable")
}
