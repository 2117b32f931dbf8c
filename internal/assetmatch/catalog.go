package assetmatch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"notegrader/internal/codes"
)

// Catalog maps canonical asset identifiers to their known names and
// aliases. It is read-only for the duration of a run.
type Catalog map[string][]string

// CatalogFileV1 is the on-disk reference-data shape, YAML or JSON.
type CatalogFileV1 struct {
	SchemaVersion int              `yaml:"schemaVersion" json:"schemaVersion"`
	Assets        []CatalogAssetV1 `yaml:"assets" json:"assets"`
}

type CatalogAssetV1 struct {
	ID    string   `yaml:"id" json:"id"`
	Names []string `yaml:"names" json:"names"`
}

// LoadCatalog parses a catalog file. A malformed catalog is a fatal
// configuration error; the engine refuses to evaluate against it.
func LoadCatalog(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file CatalogFileV1
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, codes.Newf(codes.ErrCatalogInvalid, "invalid catalog yaml: %v", err)
		}
	default:
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, codes.Newf(codes.ErrCatalogInvalid, "invalid catalog json: %v", err)
		}
	}
	if file.SchemaVersion == 0 {
		file.SchemaVersion = 1
	}
	if file.SchemaVersion != 1 {
		return nil, codes.Newf(codes.ErrCatalogInvalid, "unsupported catalog schemaVersion=%d", file.SchemaVersion)
	}
	if len(file.Assets) == 0 {
		return nil, codes.New(codes.ErrCatalogInvalid, "catalog has no assets")
	}

	catalog := make(Catalog, len(file.Assets))
	for _, asset := range file.Assets {
		id := strings.TrimSpace(asset.ID)
		if id == "" {
			return nil, codes.New(codes.ErrCatalogInvalid, "catalog asset with empty id")
		}
		if _, dup := catalog[id]; dup {
			return nil, codes.Newf(codes.ErrCatalogInvalid, "duplicate catalog asset id %q", id)
		}
		names := make([]string, 0, len(asset.Names))
		seen := map[string]bool{}
		for _, name := range asset.Names {
			name = strings.TrimSpace(name)
			if name == "" || seen[strings.ToLower(name)] {
				continue
			}
			seen[strings.ToLower(name)] = true
			names = append(names, name)
		}
		catalog[id] = names
	}
	return catalog, nil
}
