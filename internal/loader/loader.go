// Package loader reads roster configuration files and builds validated
// influence graphs from them. All reference and dimension checks happen
// here, so a graph that leaves this package is safe to simulate.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/models"
	"github.com/nvandessel/polisim/internal/pathutil"
	"github.com/nvandessel/polisim/internal/store"
)

var (
	// ErrDimensionMismatch is returned when a member's ideal vector length
	// differs from the declared ideal_dimension.
	ErrDimensionMismatch = errors.New("ideal dimension mismatch")

	// ErrUnknownMember is returned when an edge or party names a member id
	// that is not in the roster.
	ErrUnknownMember = errors.New("unknown member")

	// ErrDuplicateMember is returned when two members share an id.
	ErrDuplicateMember = errors.New("duplicate member id")

	// ErrDuplicateParty is returned when two parties share an id.
	ErrDuplicateParty = errors.New("duplicate party id")
)

// Format identifies a roster encoding.
type Format string

const (
	FormatTOML   Format = "toml"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// FormatFromPath infers the roster format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unsupported roster file %q (use .toml, .yaml, .json or .db)", filepath.Base(path))
	}
}

// Parse decodes a roster from data. FormatSQLite is not a byte format and
// is rejected; use LoadFile for database rosters.
func Parse(data []byte, format Format) (*models.Roster, error) {
	r := &models.Roster{}
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), r)
		if err != nil {
			return nil, fmt.Errorf("parsing TOML roster: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("parsing TOML roster: unknown keys %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(r); err != nil {
			return nil, fmt.Errorf("parsing YAML roster: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(r); err != nil {
			return nil, fmt.Errorf("parsing JSON roster: %w", err)
		}
	default:
		return nil, fmt.Errorf("cannot parse roster format %q", format)
	}
	return r, nil
}

// LoadFile reads a roster from path, choosing the decoder by extension.
// The roster is not validated.
func LoadFile(path string) (*models.Roster, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	if format == FormatSQLite {
		return loadSQLite(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", pathutil.RedactPath(path), err)
	}
	return Parse(data, format)
}

func loadSQLite(path string) (*models.Roster, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening roster database %s: %w", pathutil.RedactPath(path), err)
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster database %s: %w", pathutil.RedactPath(path), err)
	}
	defer s.Close()

	r, err := s.LoadRoster(context.Background())
	if err != nil {
		return nil, fmt.Errorf("reading roster database %s: %w", pathutil.RedactPath(path), err)
	}
	return r, nil
}

// Build converts a roster into an influence graph. Members are added in
// declaration order, then edges, then parties. It fails on the first ideal
// vector whose length differs from IdealDimension and on any edge or party
// that names an unknown member.
func Build(r *models.Roster) (*congress.Graph, error) {
	g := congress.New()
	handles := make(map[string]congress.Handle, len(r.Members))

	for _, m := range r.Members {
		if len(m.Ideal) != r.IdealDimension {
			return nil, fmt.Errorf("%w: member %q has ideal length %d, but ideal_dimension = %d",
				ErrDimensionMismatch, m.ID, len(m.Ideal), r.IdealDimension)
		}
		handles[m.ID] = g.AddMember(congress.Member{
			ID:    m.ID,
			Ideal: append([]float64(nil), m.Ideal...),
			Bias:  m.Bias,
			Swing: m.Swing,
		})
	}

	for _, e := range r.Edges {
		from, ok := handles[e.From]
		if !ok {
			return nil, fmt.Errorf("%w: edge.from %q", ErrUnknownMember, e.From)
		}
		to, ok := handles[e.To]
		if !ok {
			return nil, fmt.Errorf("%w: edge.to %q", ErrUnknownMember, e.To)
		}
		g.AddEdge(from, to, e.Weight)
	}

	for _, p := range r.Parties {
		members := make([]congress.Handle, 0, len(p.Members))
		for _, id := range p.Members {
			h, ok := handles[id]
			if !ok {
				return nil, fmt.Errorf("%w: party %q refers to %q", ErrUnknownMember, p.ID, id)
			}
			members = append(members, h)
		}
		g.AddParty(congress.Party{ID: p.ID, Discipline: p.Discipline, Members: members})
	}

	return g, nil
}

// Load reads, validates and builds the roster at path.
func Load(path string) (*congress.Graph, *models.Roster, error) {
	r, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if err := Validate(r); err != nil {
		return nil, nil, err
	}
	g, err := Build(r)
	if err != nil {
		return nil, nil, err
	}
	return g, r, nil
}
