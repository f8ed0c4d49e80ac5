package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/cardcraft/layout"
	"github.com/ByLCY/cardcraft/project"
)

// writeSpellProject 在 dir 中写入一个两行数据的小项目并返回项目路径。
func writeSpellProject(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "spells.csv"),
		[]byte("name,cost\nFireball,3\nFrost Nova,2\n"), 0o644))

	p := &project.Project{
		Version: project.CurrentVersion,
		Layouts: []*project.Layout{{
			Name: "Spell", Width: 20, Height: 20, DPI: 127, Background: "white",
			Elements: []*project.Element{
				{Name: "Frame", Type: project.Shape, Enabled: true, Width: 20, Height: 20, Stroke: "black"},
				{Name: "Title", Type: project.FormattedText, Enabled: true, X: 1, Y: 1, Width: 18, Height: 8,
					Value: "<b>${name}</b> <fc:red>${cost}</fc>"},
				{Name: "Cost", Type: project.Text, Enabled: true, X: 1, Y: 10, Width: 18, Height: 8, Value: "${cost}"},
			},
			References: []*project.Reference{{RelativePath: "data/spells.csv", Default: true}},
		}},
	}
	path := filepath.Join(dir, "spells.xml")
	require.NoError(t, project.Write(p, path))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderPNG(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeSpellProject(t, dir)
	outDir := filepath.Join(dir, "cards")

	out, err := run(t, "render", path, "--out", outDir, "-j", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "已生成 2 张卡牌")

	for _, name := range []string{"Spell-001.png", "Spell-002.png"} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size())
	}
}

func TestRenderPDFFromConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeSpellProject(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cardcraft.toml"),
		[]byte("[output]\nformat = \"pdf\"\ndir = \"pdfs\"\n"), 0o644))

	_, err := run(t, "render", path)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "pdfs", "Spell.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeSpellProject(t, dir)

	_, err := run(t, "render", path, "--layout", "Missing")
	assert.Error(t, err)
	_, err = run(t, "render", path, "--format", "gif")
	assert.Error(t, err)
	_, err = run(t, "render", filepath.Join(dir, "nope.xml"))
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeSpellProject(t, dir)

	out, err := run(t, "inspect", path, "--element", "title", "--row", "1")
	require.NoError(t, err)
	var dump struct {
		Element string            `json:"element"`
		Lines   []json.RawMessage `json:"lines"`
		Tokens  []struct {
			Kind   string      `json:"kind"`
			Bounds layout.Rect `json:"bounds"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &dump))
	assert.Equal(t, "Title", dump.Element)
	assert.NotEmpty(t, dump.Tokens)
	assert.NotEmpty(t, dump.Lines)

	out, err = run(t, "inspect", path, "-e", "Title", "--text", "<nosuchtag>x")
	require.NoError(t, err, "markup errors fall back to plain text")
	require.NoError(t, json.Unmarshal([]byte(out), &dump))
	assert.NotEmpty(t, dump.Tokens)

	_, err = run(t, "inspect", path, "-e", "Frame")
	assert.Error(t, err)
	_, err = run(t, "inspect", path, "-e", "Ghost")
	assert.Error(t, err)
	_, err = run(t, "inspect", path, "-e", "Title", "--row", "5")
	assert.Error(t, err)
}

func TestNewAndSaveAs(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "fresh.xml")

	_, err := run(t, "new", path)
	require.NoError(t, err)
	p, err := project.Read(path, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, p.Layouts, 1)
	assert.Equal(t, "Default", p.Layouts[0].Name)

	_, err = run(t, "new", path)
	assert.Error(t, err, "existing files need --force")
	_, err = run(t, "new", path, "--force")
	assert.NoError(t, err)

	spells := writeSpellProject(t, dir)
	target := filepath.Join(dir, "copy", "spells.xml")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	out, err := run(t, "save-as", spells, target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	moved, err := project.Read(target, zerolog.Nop())
	require.NoError(t, err)
	ref := moved.Layouts[0].DefaultReference()
	require.NotNil(t, ref)
	assert.Equal(t, "../data/spells.csv", ref.RelativePath)
}

func TestTagsAndFonts(t *testing.T) {
	t.Chdir(t.TempDir())
	out, err := run(t, "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "bgcolor\n")
	assert.Contains(t, out, "img\n")

	out, err = run(t, "fonts")
	require.NoError(t, err)
	assert.Contains(t, out, "latin modern\n")
}
