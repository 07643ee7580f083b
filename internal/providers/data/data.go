package data

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// Routes returns the embedded sample responses keyed by "ORIGIN-DESTINATION".
func Routes() (map[string][]byte, error) {
	entries, err := fs.ReadDir(fixtures, "fixtures")
	if err != nil {
		return nil, err
	}

	routes := make(map[string][]byte, len(entries))
	for _, e := range entries {
		raw, err := fixtures.ReadFile(path.Join("fixtures", e.Name()))
		if err != nil {
			return nil, err
		}
		routes[strings.TrimSuffix(e.Name(), ".json")] = raw
	}
	return routes, nil
}
