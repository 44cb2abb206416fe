package geometry

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	w, h, x, y int
	maximised  bool
}

func (f fakeWindow) Size() (int, int)     { return f.w, f.h }
func (f fakeWindow) Position() (int, int) { return f.x, f.y }
func (f fakeWindow) IsMaximised() bool    { return f.maximised }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewStore(t.TempDir(), logger)
}

func intPtr(v int) *int { return &v }

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, Defaults(), s.Load())
}

func TestLoad_InvalidJSONReturnsDefaults(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{width: 800,"), 0644))
	assert.Equal(t, Defaults(), s.Load())
}

func TestLoad_NonObjectReturnsDefaults(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`[1,2,3]`), 0644))
	assert.Equal(t, Defaults(), s.Load())
}

func TestLoad_FullRecord(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(),
		[]byte(`{"width":800,"height":600,"x":10,"y":20,"isMaximized":true}`), 0644))

	rec := s.Load()
	assert.Equal(t, Record{Width: 800, Height: 600, X: intPtr(10), Y: intPtr(20), IsMaximized: true}, rec)
	assert.True(t, rec.HasPosition())
}

func TestLoad_PartialRecordMergesOverDefaults(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"width":1200}`), 0644))

	rec := s.Load()
	assert.Equal(t, 1200, rec.Width)
	assert.Equal(t, DefaultHeight, rec.Height)
	assert.False(t, rec.HasPosition())
	assert.False(t, rec.IsMaximized)
}

func TestLoad_InvalidFieldsAreDroppedIndividually(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(),
		[]byte(`{"width":"wide","height":-5,"x":30,"y":null,"isMaximized":"yes"}`), 0644))

	rec := s.Load()
	assert.Equal(t, DefaultWidth, rec.Width)
	assert.Equal(t, DefaultHeight, rec.Height)
	require.NotNil(t, rec.X)
	assert.Equal(t, 30, *rec.X)
	assert.Nil(t, rec.Y)
	assert.False(t, rec.HasPosition())
	assert.False(t, rec.IsMaximized)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	cases := []fakeWindow{
		{w: 1400, h: 900, x: 0, y: 0},
		{w: 800, h: 600, x: 10, y: 20, maximised: true},
		{w: 1920, h: 1080, x: -1920, y: 40},
	}
	for _, w := range cases {
		s := newTestStore(t)
		s.Save(w)

		want := Record{Width: w.w, Height: w.h, X: intPtr(w.x), Y: intPtr(w.y), IsMaximized: w.maximised}
		assert.Equal(t, want, s.Load())
	}
}

func TestSave_OverwritesPreviousFile(t *testing.T) {
	s := newTestStore(t)
	s.Save(fakeWindow{w: 1500, h: 1000, x: 5, y: 5, maximised: true})
	s.Save(fakeWindow{w: 1100, h: 700, x: 1, y: 2})

	rec := s.Load()
	assert.Equal(t, 1100, rec.Width)
	assert.False(t, rec.IsMaximized)
}

func TestSave_UnwritableDirIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not dir"), 0644))

	s := NewStore(blocker, slog.New(slog.NewTextHandler(os.Stdout, nil)))
	assert.NotPanics(t, func() { s.Save(fakeWindow{w: 1200, h: 800}) })
	assert.Equal(t, Defaults(), s.Load())
}

func TestClamp(t *testing.T) {
	rec := Record{Width: 640, Height: 480}.Clamp(MinWidth, MinHeight)
	assert.Equal(t, MinWidth, rec.Width)
	assert.Equal(t, MinHeight, rec.Height)

	rec = Record{Width: 1600, Height: 1000}.Clamp(MinWidth, MinHeight)
	assert.Equal(t, 1600, rec.Width)
	assert.Equal(t, 1000, rec.Height)
}
