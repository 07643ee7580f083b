package airports

import (
	"bytes"
	_ "embed"
)

//go:embed data/airports.json
var embeddedCatalog []byte

// Embedded returns the bundled sample catalog, used when no catalog file
// is configured.
func Embedded() (*Catalog, error) {
	c, err := Load(bytes.NewReader(embeddedCatalog))
	if err != nil {
		return nil, err
	}
	c.sample = true
	return c, nil
}
