// Package save implements JSON snapshots of the world, optionally
// zstd-compressed, validated against an embedded schema on load.
package save

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nathoo/biorome/engine/state"
	"github.com/nathoo/biorome/types"
)

// FormatVersion is bumped whenever the snapshot layout changes.
const FormatVersion = 1

// CompressedExt marks snapshot files written through zstd.
const CompressedExt = ".zst"

//go:embed snapshot.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("snapshot.schema.json", schemaJSON)

// SaveData is the JSON-serializable snapshot format. Tiles refer to
// assemblies by id; the arena is stored once in Assemblies.
type SaveData struct {
	Version        int              `json:"version"`
	Farm           string           `json:"farm,omitempty"`
	ContentVersion string           `json:"content_version,omitempty"`
	Day            int              `json:"day"`
	Rows           int              `json:"rows"`
	Cols           int              `json:"cols"`
	Assemblies     []types.Assembly `json:"assemblies"`
	Tiles          []TileData       `json:"tiles"`
}

// TileData is one tile in a snapshot. Only tiles that differ from a fresh
// tile are written.
type TileData struct {
	Row        int           `json:"row"`
	Col        int           `json:"col"`
	Soil       *types.Soil   `json:"soil,omitempty"`
	Plant      *types.Plant  `json:"plant,omitempty"`
	Animal     *types.Animal `json:"animal,omitempty"`
	Assemblies []string      `json:"assemblies,omitempty"`
}

// Save serializes the world to indented JSON bytes.
func Save(w *state.World, defs *state.Defs) ([]byte, error) {
	sd := SaveData{
		Version:    FormatVersion,
		Day:        w.Day,
		Rows:       w.Rows(),
		Cols:       w.Cols(),
		Assemblies: []types.Assembly{},
		Tiles:      []TileData{},
	}
	if defs != nil {
		sd.Farm = defs.Farm.Title
		sd.ContentVersion = defs.Farm.Version
	}
	for _, a := range w.Assemblies() {
		sd.Assemblies = append(sd.Assemblies, *a)
	}
	for _, row := range w.Grid {
		for _, t := range row {
			td := TileData{Row: t.Row, Col: t.Col, Plant: t.Plant, Animal: t.Animal}
			if t.Soil != state.DefaultSoil {
				soil := t.Soil
				td.Soil = &soil
			}
			for _, a := range t.Assemblies {
				td.Assemblies = append(td.Assemblies, a.ID)
			}
			if td.Soil == nil && td.Plant == nil && td.Animal == nil && len(td.Assemblies) == 0 {
				continue
			}
			sd.Tiles = append(sd.Tiles, td)
		}
	}
	return json.MarshalIndent(sd, "", "  ")
}

// Load validates JSON bytes against the snapshot schema and decodes them.
func Load(data []byte) (*SaveData, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &sd, nil
}

// Restore rebuilds a world from snapshot data. Tile coordinates must lie in
// the grid and tile assembly references must name stored assemblies.
func Restore(sd *SaveData) (*state.World, error) {
	w := state.NewWorld(sd.Rows, sd.Cols)
	w.Day = sd.Day

	for i := range sd.Assemblies {
		a := sd.Assemblies[i]
		// Deployed is derived from tile placement below.
		a.Deployed = false
		if err := w.AddAssembly(&a); err != nil {
			return nil, fmt.Errorf("restoring assemblies: %w", err)
		}
	}

	for _, td := range sd.Tiles {
		t := w.Tile(td.Row, td.Col)
		if t == nil {
			return nil, fmt.Errorf("tile (%d,%d) is outside the %dx%d grid", td.Row, td.Col, sd.Rows, sd.Cols)
		}
		if td.Soil != nil {
			t.Soil = *td.Soil
		}
		t.Plant = td.Plant
		t.Animal = td.Animal
		for _, id := range td.Assemblies {
			if err := w.Place(id, td.Row, td.Col); err != nil {
				return nil, fmt.Errorf("restoring tile (%d,%d): %w", td.Row, td.Col, err)
			}
		}
	}
	return w, nil
}

// WriteFile writes snapshot bytes to path, compressing when the path ends
// in CompressedExt.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if !strings.HasSuffix(path, CompressedExt) {
		return os.WriteFile(path, data, 0o644)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("zstd encode: %w", err)
	}
	return enc.Close()
}

// ReadFile reads snapshot bytes from path, decompressing when the path ends
// in CompressedExt.
func ReadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, CompressedExt) {
		return raw, nil
	}

	dec, err := zstd.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return data, nil
}

// Path returns the snapshot path for a save name inside dir.
func Path(dir, name string, compress bool) string {
	if name == "" {
		name = "quicksave"
	}
	p := filepath.Join(dir, name+".json")
	if compress {
		p += CompressedExt
	}
	return p
}

// Find returns the snapshot file for a save name. A name is written in one
// format at a time, but when both files exist the newer one wins.
func Find(dir, name string) (string, error) {
	plain, packed := Path(dir, name, false), Path(dir, name, true)
	pi, perr := os.Stat(plain)
	ci, cerr := os.Stat(packed)
	switch {
	case perr != nil && cerr != nil:
		return "", fmt.Errorf("no snapshot %q in %s: %w", name, dir, perr)
	case cerr != nil:
		return plain, nil
	case perr != nil:
		return packed, nil
	case ci.ModTime().After(pi.ModTime()):
		return packed, nil
	default:
		return plain, nil
	}
}

// WriteSlot writes data as the named snapshot and removes the copy in the
// other format, so the slot always holds the latest save.
func WriteSlot(dir, name string, compress bool, data []byte) (string, error) {
	path := Path(dir, name, compress)
	if err := WriteFile(path, data); err != nil {
		return "", err
	}
	if err := os.Remove(Path(dir, name, !compress)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("removing stale snapshot: %w", err)
	}
	return path, nil
}
