// Package config loads TOML-based problem-preset and server configuration
// files: a "format"/"type" header convention checked before a full parse
// (ScanFileInfo), a recursion-depth-limited single-level include chain (a
// preset may name one "defaults" file whose params are merged in before
// the preset's own, with the preset's values winning on conflict), all on
// top of github.com/BurntSushi/toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/halvardsen/numwb/internal/problems"
)

// MaxIncludeDepth bounds how many "include" hops a preset file chain may
// take before LoadPresetFile gives up.
const MaxIncludeDepth = 32

var (
	// ErrIncludeStackOverflow is returned when a preset's include chain is
	// more than MaxIncludeDepth files deep.
	ErrIncludeStackOverflow = errors.New("too many included files deep")

	// ErrIncludeCircularRef is returned when a preset's include chain
	// refers back to a file already in the chain.
	ErrIncludeCircularRef = errors.New("include chain refers back to itself")
)

// FileInfo is the common header every config/preset file must declare.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// ScanFileInfo reads just the top-level table of a TOML document (stopping
// at the first "[section]" header) and parses FileInfo out of it, avoiding
// a full parse of a file whose body may not even be well-formed yet.
func ScanFileInfo(data []byte) (FileInfo, error) {
	topLevelEnd := -1
	onNewLine := false
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}

// Preset is a decoded problem-preset file: a problem kind plus its literal
// parameter bundle, ready to hand to problems.Run.
type Preset struct {
	Name   string
	Kind   problems.Kind
	Params problems.Params
}

type rawPresetFile struct {
	Include string                 `toml:"include"`
	Name    string                 `toml:"name"`
	Kind    string                 `toml:"kind"`
	Params  map[string]interface{} `toml:"params"`
}

// LoadPresetFile loads and decodes a preset file at path, resolving its
// "include" chain (if any) first and merging each included file's [params]
// under the preset's own (the preset's own values win on key conflict).
func LoadPresetFile(path string) (Preset, error) {
	merged, name, kind, err := recursiveLoadPreset(path, nil)
	if err != nil {
		return Preset{}, err
	}
	if kind == "" {
		return Preset{}, fmt.Errorf("%q: preset does not name a problem kind", path)
	}
	return Preset{Name: name, Kind: problems.Kind(kind), Params: problems.Params(merged)}, nil
}

func recursiveLoadPreset(path string, stack []string) (params map[string]interface{}, name, kind string, err error) {
	path = filepath.Clean(path)

	data, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, "", "", fmt.Errorf("%q: reading from disk: %w", path, rerr)
	}

	info, ierr := ScanFileInfo(data)
	if ierr != nil {
		return nil, "", "", fmt.Errorf("%q: detecting file type: %w", path, ierr)
	}
	if strings.ToUpper(info.Format) != "NUMWB" {
		return nil, "", "", fmt.Errorf("%q: file does not have a format = \"NUMWB\" entry", path)
	}
	if strings.ToUpper(info.Type) != "PRESET" {
		return nil, "", "", fmt.Errorf("%q: file does not have type = \"PRESET\"", path)
	}

	var raw rawPresetFile
	if _, derr := toml.Decode(string(data), &raw); derr != nil {
		return nil, "", "", fmt.Errorf("%q: %w", path, derr)
	}

	merged := make(map[string]interface{})

	if raw.Include != "" {
		if len(stack) >= MaxIncludeDepth {
			return nil, "", "", fmt.Errorf("%q: %w", path, ErrIncludeStackOverflow)
		}
		for _, seen := range stack {
			if seen == path {
				return nil, "", "", fmt.Errorf("%q: %w", path, ErrIncludeCircularRef)
			}
		}

		includePath := filepath.Join(filepath.Dir(path), raw.Include)
		subStack := append(append([]string{}, stack...), path)
		includedParams, _, _, ierr := recursiveLoadPreset(includePath, subStack)
		if ierr != nil {
			if errors.Is(ierr, ErrIncludeCircularRef) {
				// a circular include is tolerated by simply not merging it
				// in rather than failing the whole load.
			} else {
				return nil, "", "", fmt.Errorf("included from %q: %w", path, ierr)
			}
		} else {
			for k, v := range includedParams {
				merged[k] = v
			}
		}
	}

	for k, v := range raw.Params {
		merged[k] = v
	}

	return merged, raw.Name, raw.Kind, nil
}

// ServerConfig is the server daemon's own configuration file (distinct
// from a problem preset). It carries a bcrypt hash of the single static
// API credential rather than the credential itself, so the config file is
// safe to commit or share.
type ServerConfig struct {
	Addr             string `toml:"addr"`
	DataDir          string `toml:"data_dir"`
	JWTSecret        string `toml:"jwt_secret"`
	APICredentialB64 string `toml:"api_credential_hash"`
}

type rawServerConfigFile struct {
	Server ServerConfig `toml:"server"`
}

// LoadServerConfigFile loads the server daemon's config file, checking the
// same "format"/"type" header convention as a preset file.
func LoadServerConfigFile(path string) (ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	info, err := ScanFileInfo(data)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}
	if strings.ToUpper(info.Format) != "NUMWB" {
		return ServerConfig{}, fmt.Errorf("%q: file does not have a format = \"NUMWB\" entry", path)
	}
	if strings.ToUpper(info.Type) != "SERVER" {
		return ServerConfig{}, fmt.Errorf("%q: file does not have type = \"SERVER\"", path)
	}

	var raw rawServerConfigFile
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return ServerConfig{}, fmt.Errorf("%q: %w", path, err)
	}
	return raw.Server, nil
}
