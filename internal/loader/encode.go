package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nvandessel/polisim/internal/models"
	"github.com/nvandessel/polisim/internal/pathutil"
	"github.com/nvandessel/polisim/internal/store"
)

// Encode serializes r in the given text format. The output parses back with
// Parse to an equal roster.
func Encode(r *models.Roster, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(r); err != nil {
			return nil, fmt.Errorf("encoding TOML roster: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("encoding YAML roster: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding YAML roster: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("encoding JSON roster: %w", err)
		}
	default:
		return nil, fmt.Errorf("cannot encode roster format %q", format)
	}
	return buf.Bytes(), nil
}

// WriteFile writes r to path in the format implied by its extension.
// Database targets have their stored roster replaced. Files are created
// with 0600 permissions and parent directories with 0700.
func WriteFile(ctx context.Context, path string, r *models.Roster) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating directory for %s: %w", pathutil.RedactPath(path), err)
	}

	if format == FormatSQLite {
		s, err := store.Open(path)
		if err != nil {
			return err
		}
		defer s.Close()
		return s.SaveRoster(ctx, r)
	}

	data, err := Encode(r, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing roster %s: %w", pathutil.RedactPath(path), err)
	}
	return nil
}
