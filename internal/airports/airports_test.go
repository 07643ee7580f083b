package airports

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedded(t *testing.T) {
	c, err := Embedded()
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 10)

	jfk, ok := c.Lookup("jfk")
	require.True(t, ok)
	assert.Equal(t, "John F Kennedy International Airport, US (JFK)", jfk.Label())
	assert.Equal(t, TypeLarge, jfk.Type)
	assert.True(t, jfk.HasCoordinates())

	_, ok = c.Lookup("XXX")
	assert.False(t, ok)
	assert.True(t, c.Sample())
}

func TestLoad_DuplicateCodesKeepFirst(t *testing.T) {
	c, err := Load(strings.NewReader(`[
		{"iata_code":"abc","name":"First","country_code":"US","municipality":"Springfield","latitude_deg":1,"longitude_deg":2,"type":"small_airport"},
		{"iata_code":"ABC","name":"Second","country_code":"US","municipality":"Springfield","latitude_deg":3,"longitude_deg":4,"type":"small_airport"},
		{"iata_code":"","name":"Heliport","country_code":"US","municipality":"Shelbyville","latitude_deg":5,"longitude_deg":6,"type":"heliport"}
	]`))
	require.NoError(t, err)

	a, ok := c.Lookup("ABC")
	require.True(t, ok)
	assert.Equal(t, "First", a.Name)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"Shelbyville", "Springfield"}, c.Municipalities())
	assert.False(t, c.Sample())
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(strings.NewReader(`{"not":"an array"}`))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
