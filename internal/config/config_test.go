package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ScanFileInfo(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    FileInfo
		expectErr bool
	}{
		{
			name:   "format and type only",
			input:  "format = \"NUMWB\"\ntype = \"PRESET\"\n",
			expect: FileInfo{Format: "NUMWB", Type: "PRESET"},
		},
		{
			name:   "header followed by a table",
			input:  "format = \"NUMWB\"\ntype = \"PRESET\"\n\n[params]\nfrom = 0.0\n",
			expect: FileInfo{Format: "NUMWB", Type: "PRESET"},
		},
		{
			name:      "malformed header",
			input:     "format = \n",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ScanFileInfo([]byte(tc.input))
			if tc.expectErr {
				assert.Error(err)
				return
			}

			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_LoadPresetFile(t *testing.T) {
	dir := t.TempDir()

	defaultsPath := filepath.Join(dir, "defaults.toml")
	err := os.WriteFile(defaultsPath, []byte(
		"format = \"NUMWB\"\ntype = \"PRESET\"\nkind = \"golden\"\n\n[params]\nfrom = 0.0\nto = 1.0\ntol = 0.0001\n",
	), 0644)
	require.NoError(t, err)

	presetPath := filepath.Join(dir, "preset.toml")
	err = os.WriteFile(presetPath, []byte(
		"format = \"NUMWB\"\ntype = \"PRESET\"\ninclude = \"defaults.toml\"\nname = \"demo\"\nkind = \"golden\"\n\n[params]\nto = 2.0\n",
	), 0644)
	require.NoError(t, err)

	preset, err := LoadPresetFile(presetPath)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("demo", preset.Name)
	assert.Equal("golden", string(preset.Kind))
	assert.Equal(0.0, preset.Params["from"])
	assert.Equal(2.0, preset.Params["to"])
	assert.Equal(0.0001, preset.Params["tol"])
}

func Test_LoadPresetFile_circularInclude(t *testing.T) {
	dir := t.TempDir()

	aPath := filepath.Join(dir, "a.toml")
	bPath := filepath.Join(dir, "b.toml")

	err := os.WriteFile(aPath, []byte(
		"format = \"NUMWB\"\ntype = \"PRESET\"\ninclude = \"b.toml\"\nname = \"a\"\nkind = \"golden\"\n\n[params]\nx = 1\n",
	), 0644)
	require.NoError(t, err)

	err = os.WriteFile(bPath, []byte(
		"format = \"NUMWB\"\ntype = \"PRESET\"\ninclude = \"a.toml\"\nname = \"b\"\nkind = \"golden\"\n\n[params]\ny = 2\n",
	), 0644)
	require.NoError(t, err)

	preset, err := LoadPresetFile(aPath)
	require.NoError(t, err, "a circular include chain should be tolerated, not fail the whole load")
	assert.Equal(t, 1.0, preset.Params["x"])
}

func Test_LoadPresetFile_wrongType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notapreset.toml")
	err := os.WriteFile(path, []byte("format = \"NUMWB\"\ntype = \"SERVER\"\n"), 0644)
	require.NoError(t, err)

	_, err = LoadPresetFile(path)
	assert.Error(t, err)
}

func Test_LoadServerConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.toml")
	err := os.WriteFile(path, []byte(
		"format = \"NUMWB\"\ntype = \"SERVER\"\n\n[server]\naddr = \":9090\"\ndata_dir = \"/var/lib/numwb\"\njwt_secret = \"abc\"\napi_credential_hash = \"xyz\"\n",
	), 0644)
	require.NoError(t, err)

	cfg, err := LoadServerConfigFile(path)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(":9090", cfg.Addr)
	assert.Equal("/var/lib/numwb", cfg.DataDir)
	assert.Equal("abc", cfg.JWTSecret)
	assert.Equal("xyz", cfg.APICredentialB64)
}
