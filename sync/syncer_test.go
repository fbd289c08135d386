package sync

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"catalogsync/catalog"
	"catalogsync/ci"
)

const expectedStubJSON = `{
	"params": [{"key": "max_tokens", "maxValue": 64000}],
	"type": {"primary": "chat", "supported": ["image", "pdf", "doc", "tools"]},
	"removeParams": ["top_p"]
}`

type syncFixture struct {
	dir    string
	cfg    catalog.Config
	syncer *Syncer
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "pricing"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "general"), 0755))

	cfg := catalog.DefaultConfig()
	cfg.PricingDir = filepath.Join(dir, "pricing")
	cfg.GeneralDir = filepath.Join(dir, "general")

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &syncFixture{
		dir:    dir,
		cfg:    cfg,
		syncer: NewSyncer(cfg, ci.NewAnnotator(out, errOut)),
		out:    out,
		errOut: errOut,
	}
}

func (f *syncFixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, rel)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (f *syncFixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.dir, rel))
	require.NoError(t, err)
	return string(data)
}

func TestSyncerRun_AddsMissingModels(t *testing.T) {
	f := newSyncFixture(t)
	pricing := f.write(t, "pricing/google.json", `{"gemini-pro": {"input": 1}, "gemini-flash": {"input": 2}}`)
	general := "{\n  \"name\": \"Google\",\n  \"gemini-pro\": {\n    \"params\": []\n  }\n}\n"
	f.write(t, "general/google.json", general)

	require.NoError(t, f.syncer.Run(pricing, ""))

	updated := f.read(t, "general/google.json")
	require.True(t, gjson.Valid(updated))

	// prefix bytes preserved exactly
	prefix := strings.TrimSuffix(general, "\n}\n")
	assert.True(t, strings.HasPrefix(updated, prefix+",\n"))

	// new model present with the fixed stub value
	root := gjson.Parse(updated)
	assert.JSONEq(t, expectedStubJSON, root.Get("gemini-flash").Raw)

	// existing entry untouched
	assert.Equal(t, `{
    "params": []
  }`, root.Get("gemini-pro").Raw)

	assert.Contains(t, f.out.String(), "Added missing models to")
	assert.Contains(t, f.out.String(), "  - gemini-flash")
	assert.Empty(t, f.errOut.String())
}

func TestSyncerRun_OpenAIAliasFanOut(t *testing.T) {
	f := newSyncFixture(t)
	pricing := f.write(t, "pricing/openai.json", `{"gpt-5": {}, "gpt-4": {}}`)
	general := "{\n  \"name\": \"OpenAI\",\n  \"gpt-4\": {\n    \"params\": []\n  }\n}\n"
	f.write(t, "general/openai.json", general)
	f.write(t, "general/open-ai.json", general)

	require.NoError(t, f.syncer.Run(pricing, ""))

	for _, rel := range []string{"general/openai.json", "general/open-ai.json"} {
		updated := f.read(t, rel)
		require.True(t, gjson.Valid(updated), rel)
		root := gjson.Parse(updated)
		assert.True(t, root.Get("name").Exists(), rel)
		assert.True(t, root.Get("gpt-4").Exists(), rel)
		assert.JSONEq(t, expectedStubJSON, root.Get("gpt-5").Raw, rel)
	}
}

func TestSyncerRun_SecondRunIsNoop(t *testing.T) {
	f := newSyncFixture(t)
	pricing := f.write(t, "pricing/google.json", `{"gemini-pro": {}, "gemini-flash": {}}`)
	f.write(t, "general/google.json", "{\n  \"gemini-pro\": {\n    \"params\": []\n  }\n}\n")

	require.NoError(t, f.syncer.Run(pricing, ""))
	afterFirst := f.read(t, "general/google.json")

	f.out.Reset()
	require.NoError(t, f.syncer.Run(pricing, ""))
	afterSecond := f.read(t, "general/google.json")

	assert.Equal(t, afterFirst, afterSecond)
	assert.Contains(t, f.out.String(), "All pricing models already present in")
}

func TestSyncerRun_NothingMissingLeavesFileAlone(t *testing.T) {
	f := newSyncFixture(t)
	pricing := f.write(t, "pricing/google.json", `{"gemini-pro": {}}`)
	general := "{\n  \"gemini-pro\": {}\n}\n"
	f.write(t, "general/google.json", general)

	require.NoError(t, f.syncer.Run(pricing, ""))

	assert.Equal(t, general, f.read(t, "general/google.json"))
	assert.Contains(t, f.out.String(), "All pricing models already present in")
}

func TestSyncerRun_ReservedKeysNeverAdded(t *testing.T) {
	f := newSyncFixture(t)
	pricing := f.write(t, "pricing/google.json", `{"name": {}, "description": {}, "default": {}, "gemini-pro": {}}`)
	general := "{\n  \"gemini-pro\": {}\n}\n"
	f.write(t, "general/google.json", general)

	require.NoError(t, f.syncer.Run(pricing, ""))

	updated := f.read(t, "general/google.json")
	assert.Equal(t, general, updated)
	root := gjson.Parse(updated)
	assert.False(t, root.Get("name").Exists())
	assert.False(t, root.Get("description").Exists())
	assert.False(t, root.Get("default").Exists())
}

func TestSyncerRun_FourSpaceIndentDetected(t *testing.T) {
	f := newSyncFixture(t)
	pricing := f.write(t, "pricing/google.json", `{"gemini-pro": {}, "gemini-flash": {}}`)
	f.write(t, "general/google.json", "{\n    \"gemini-pro\": {}\n}\n")

	require.NoError(t, f.syncer.Run(pricing, ""))

	updated := f.read(t, "general/google.json")
	assert.Contains(t, updated, "\n    \"gemini-flash\": {\n")
	assert.Contains(t, updated, "\n        \"params\": [\n")
}

func TestSyncerRun_MinifiedGeneralSkippedWithWarning(t *testing.T) {
	f := newSyncFixture(t)
	pricing := f.write(t, "pricing/google.json", `{"gemini-pro": {}, "gemini-flash": {}}`)
	minified := `{"gemini-pro":{}}`
	f.write(t, "general/google.json", minified)

	require.NoError(t, f.syncer.Run(pricing, ""))

	assert.Equal(t, minified, f.read(t, "general/google.json"))
	assert.Contains(t, f.errOut.String(), "::warning::Unexpected format before root brace in")
}

func TestSyncerRun_ArrayRootGeneralIsFatal(t *testing.T) {
	f := newSyncFixture(t)
	pricing := f.write(t, "pricing/google.json", `{"gemini-flash": {}}`)
	f.write(t, "general/google.json", "[\n  \"gemini-pro\"\n]\n")

	err := f.syncer.Run(pricing, "")
	require.Error(t, err)
	assert.Contains(t, f.errOut.String(), "General file is not a JSON object")
}

func TestSyncerRun_GeneralFileAbsentIsNotice(t *testing.T) {
	f := newSyncFixture(t)
	pricing := f.write(t, "pricing/google.json", `{"gemini-pro": {}}`)

	require.NoError(t, f.syncer.Run(pricing, ""))
	assert.Contains(t, f.out.String(), "::notice::No general file at")
	assert.Empty(t, f.errOut.String())
}

func TestSyncerRun_PricingFileMissingIsFatal(t *testing.T) {
	f := newSyncFixture(t)

	err := f.syncer.Run(filepath.Join(f.dir, "pricing", "nope.json"), "")
	require.Error(t, err)
	assert.Contains(t, f.errOut.String(), "::error file=")
	assert.Contains(t, f.errOut.String(), "Pricing file not found")
}

func TestSyncerRun_InvalidPricingIsFatal(t *testing.T) {
	f := newSyncFixture(t)
	pricing := f.write(t, "pricing/google.json", `not json`)

	err := f.syncer.Run(pricing, "")
	require.Error(t, err)
	assert.Contains(t, f.errOut.String(), "Pricing file is not a JSON object")
}

func TestSyncerRun_InvalidGeneralIsFatal(t *testing.T) {
	f := newSyncFixture(t)
	pricing := f.write(t, "pricing/google.json", `{"gemini-pro": {}}`)
	f.write(t, "general/google.json", `{{{{`)

	err := f.syncer.Run(pricing, "")
	require.Error(t, err)
	assert.Contains(t, f.errOut.String(), "General file is not a JSON object")
}

func TestSyncerRun_ExplicitGeneralPath(t *testing.T) {
	f := newSyncFixture(t)
	pricing := f.write(t, "pricing/openai.json", `{"gpt-5": {}}`)
	explicit := f.write(t, "custom.json", "{\n  \"gpt-4\": {}\n}\n")

	require.NoError(t, f.syncer.Run(pricing, explicit))

	// alias fan-out is bypassed, only the explicit target is written
	assert.True(t, gjson.Parse(f.read(t, "custom.json")).Get("gpt-5").Exists())
	assert.NoFileExists(t, filepath.Join(f.dir, "general", "openai.json"))
}
