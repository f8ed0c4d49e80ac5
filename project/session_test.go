package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSubscribersFireInRegistrationOrder(t *testing.T) {
	s := NewSession(zerolog.Nop())
	var calls []string
	for _, name := range []string{"first", "second", "third"} {
		s.OnLoaded(func(p *Project, path string) { calls = append(calls, "loaded:"+name) })
		s.OnUpdated(func(p *Project) { calls = append(calls, "updated:"+name) })
	}

	s.New("")
	require.NoError(t, s.Update(func(p *Project) error {
		p.Layouts = append(p.Layouts, NewLayout("Extra"))
		return nil
	}))
	assert.Equal(t, []string{
		"loaded:first", "loaded:second", "loaded:third",
		"updated:first", "updated:second", "updated:third",
	}, calls)
	assert.Len(t, s.Project().Layouts, 2)
}

func TestSessionFailedUpdateDoesNotNotify(t *testing.T) {
	s := NewSession(zerolog.Nop())
	s.New("")
	fired := false
	s.OnUpdated(func(*Project) { fired = true })
	err := s.Update(func(*Project) error { return errors.New("nope") })
	assert.Error(t, err)
	assert.False(t, fired)
}

func TestSessionOpenSaveAs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0o644))

	s := NewSession(zerolog.Nop())
	var loadedPath string
	s.OnLoaded(func(p *Project, path string) { loadedPath = path })
	require.NoError(t, s.Open(path))
	assert.Equal(t, path, loadedPath)

	newPath := filepath.Join(dir, "sub", "p.xml")
	require.NoError(t, os.Mkdir(filepath.Dir(newPath), 0o755))
	require.NoError(t, s.SaveAs(newPath))
	assert.Equal(t, newPath, s.Path())
	assert.Equal(t, "../data/heroes.csv", s.Project().Layouts[0].References[0].RelativePath)

	require.NoError(t, s.Save())
	data, err := os.ReadFile(newPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `RelativePath="../data/heroes.csv"`))
}

func TestSessionFailedSaveAsKeepsState(t *testing.T) {
	dir := t.TempDir()
	s := NewSession(zerolog.Nop())
	s.New(filepath.Join(dir, "p.xml"))
	before := s.Project()

	err := s.SaveAs(filepath.Join(dir, "missing", "p.xml"))
	require.Error(t, err)
	assert.Equal(t, filepath.Join(dir, "p.xml"), s.Path())
	assert.Same(t, before, s.Project())

	_, statErr := os.Stat(filepath.Join(dir, "p.xml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSessionOpenUndecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xml")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
	s := NewSession(zerolog.Nop())
	assert.ErrorIs(t, s.Open(path), ErrFormat)
	assert.Nil(t, s.Project())
}

func TestSessionSaveWithoutPath(t *testing.T) {
	s := NewSession(zerolog.Nop())
	s.New("")
	assert.ErrorIs(t, s.Save(), ErrNoPath)
}
