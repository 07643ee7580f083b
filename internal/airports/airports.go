package airports

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Airport types as published in the OurAirports data set.
const (
	TypeLarge  = "large_airport"
	TypeMedium = "medium_airport"
	TypeSmall  = "small_airport"
)

type Airport struct {
	IATACode     string  `json:"iata_code"`
	Name         string  `json:"name"`
	CountryCode  string  `json:"country_code"`
	Municipality string  `json:"municipality"`
	Latitude     float64 `json:"latitude_deg"`
	Longitude    float64 `json:"longitude_deg"`
	Type         string  `json:"type"`
}

// Label renders "Name, CC (IATA)".
func (a Airport) Label() string {
	return fmt.Sprintf("%s, %s (%s)", a.Name, a.CountryCode, a.IATACode)
}

// HasCoordinates reports whether the record can be placed on the map.
func (a Airport) HasCoordinates() bool {
	return a.Latitude != 0 && a.Longitude != 0
}

// Catalog is the read-only airport reference data.
type Catalog struct {
	airports []Airport
	byIATA   map[string]int
	sample   bool
}

func New(list []Airport) *Catalog {
	c := &Catalog{
		airports: make([]Airport, 0, len(list)),
		byIATA:   make(map[string]int, len(list)),
	}
	for _, a := range list {
		a.IATACode = strings.ToUpper(strings.TrimSpace(a.IATACode))
		c.airports = append(c.airports, a)
		if a.IATACode == "" {
			continue
		}
		if _, dup := c.byIATA[a.IATACode]; !dup {
			c.byIATA[a.IATACode] = len(c.airports) - 1
		}
	}
	return c
}

// Load decodes a JSON array of airport records.
func Load(r io.Reader) (*Catalog, error) {
	var list []Airport
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode airport catalog: %w", err)
	}
	return New(list), nil
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open airport catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Lookup finds an airport by IATA code, case-insensitively.
func (c *Catalog) Lookup(code string) (Airport, bool) {
	idx, ok := c.byIATA[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Airport{}, false
	}
	return c.airports[idx], true
}

// Sample reports whether the catalog is the bundled subset rather than a
// full airport data set. A code missing from a sample says nothing about
// whether the airport exists.
func (c *Catalog) Sample() bool {
	return c.sample
}

func (c *Catalog) All() []Airport {
	return c.airports
}

func (c *Catalog) Len() int {
	return len(c.airports)
}

// Municipalities returns the distinct non-empty municipality names, sorted.
func (c *Catalog) Municipalities() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range c.airports {
		if a.Municipality == "" {
			continue
		}
		if _, ok := seen[a.Municipality]; ok {
			continue
		}
		seen[a.Municipality] = struct{}{}
		out = append(out, a.Municipality)
	}
	sort.Strings(out)
	return out
}
