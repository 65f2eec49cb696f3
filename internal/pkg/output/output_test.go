package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

func sampleMerged() *models.MergedResult {
	sequential := true
	container := models.NewContainer()
	container.Rules = []models.Rule{
		{
			ID:                   "r1",
			Name:                 "Page Load",
			Events:               []models.Module{{ModulePath: "core/pageBottom.js", Settings: models.Absent()}},
			SequentialProcessing: &sequential,
		},
		{ID: "r2", Name: "Click"},
	}
	container.DataElements["pageName"] = models.StringValue("home")

	return &models.MergedResult{
		ID:        "run-1",
		StartURL:  "https://example.com/",
		Sources:   []string{"https://example.com/launch-EN1.js"},
		Container: container,
		Scripts: []models.ScriptRecord{
			{URL: "https://example.com/launch-EN1.js", Success: true, RuleCount: 2},
			{URL: "https://example.com/launch-EN2.js", Error: "fetch failed"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{name: "json", want: FormatJSON},
		{name: "csv", want: FormatCSV},
		{name: "markdown", want: FormatMarkdown},
		{name: "md", want: FormatMarkdown},
		{name: "yaml", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseFormat(tc.name)
		if tc.wantErr {
			assert.Error(t, err, tc.name)
			continue
		}
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestRenderMergedJSON(t *testing.T) {
	w := NewWriter(afero.NewMemMapFs())

	data, err := w.RenderMerged(sampleMerged(), FormatJSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "https://example.com/", decoded["startUrl"])
}

func TestRenderMergedCSV(t *testing.T) {
	w := NewWriter(afero.NewMemMapFs())

	data, err := w.RenderMerged(sampleMerged(), FormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,events,conditions,actions,sequential", lines[0])
	assert.Equal(t, "r1,Page Load,1,0,0,true", lines[1])
	assert.Equal(t, "r2,Click,0,0,0,", lines[2])
}

func TestRenderMergedMarkdown(t *testing.T) {
	w := NewWriter(afero.NewMemMapFs())

	data, err := w.RenderMerged(sampleMerged(), FormatMarkdown)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "Start URL: https://example.com/")
	assert.Contains(t, text, "- Rules: 2")
	assert.Contains(t, text, "| https://example.com/launch-EN1.js | ok | 2 |")
	assert.Contains(t, text, "failed: fetch failed")
	assert.Contains(t, text, "| r1 | Page Load | 1 | 0 | 0 |")
}

func TestRenderExtraction(t *testing.T) {
	container := models.NewContainer()
	container.Rules = []models.Rule{{ID: "r1", Name: "Test"}}
	result := &models.ExtractionResult{
		ID:        "one",
		URL:       "https://example.com/launch-EN1.js",
		Container: container,
	}

	w := NewWriter(afero.NewMemMapFs())

	data, err := w.RenderExtraction(result, FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Script: https://example.com/launch-EN1.js")

	data, err = w.RenderExtraction(result, FormatJSON)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "https://example.com/launch-EN1.js", decoded["url"])
}

func TestWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs)

	require.NoError(t, w.WriteFile("result.json", []byte(`{"ok":true}`)))

	data, err := afero.ReadFile(fs, "result.json")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
}
