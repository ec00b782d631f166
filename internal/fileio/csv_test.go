package fileio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVCommaDelimited(t *testing.T) {
	in := "DESCRIPCION,MARCA,CONTADO\n205/55R16 91V CINTURATO P7,PIRELLI,184500\n175/65R14 82T,FATE,96000\n"

	rows, err := ReadAnyMaps(strings.NewReader(in), "lista.csv", 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "205/55R16 91V CINTURATO P7", rows[0]["DESCRIPCION"])
	assert.Equal(t, "PIRELLI", rows[0]["MARCA"])
	assert.Equal(t, "FATE", rows[1]["MARCA"])
}

func TestReadCSVSemicolonDetected(t *testing.T) {
	in := "DESCRIPCION;MARCA;CONTADO\n185/70R14 88T;FIRESTONE;112.300,00\n"

	rows, err := ReadAnyMaps(strings.NewReader(in), "lista.csv", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "185/70R14 88T", rows[0]["DESCRIPCION"])
	assert.Equal(t, "112.300,00", rows[0]["CONTADO"])
}

func TestReadCSVHeaderRowOffset(t *testing.T) {
	in := "LISTA DE PRECIOS AGOSTO\nvigencia,01/08/2026\nDESCRIPCION,MARCA\n205/55R16,PIRELLI\n"

	rows, err := ReadAnyMaps(strings.NewReader(in), "lista.csv", 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "205/55R16", rows[0]["DESCRIPCION"])
}

func TestReadCSVSkipsBlankRowsAndFillsHeaders(t *testing.T) {
	in := "DESCRIPCION,,CONTADO\n205/55R16,foo,100\n,,\n"

	rows, err := ReadAnyMaps(strings.NewReader(in), "lista.csv", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "foo", rows[0]["Column 2"])
}

func TestReadAnyMapsUnsupportedExtension(t *testing.T) {
	_, err := ReadAnyMaps(strings.NewReader("x"), "lista.pdf", 1)
	assert.Error(t, err)
}

func TestNormalizeCell(t *testing.T) {
	assert.Equal(t, "184 500", normalizeCell("184 500"))
	assert.Equal(t, "a b", normalizeCell("  a\nb "))
	assert.Equal(t, "", normalizeCell("\r\n"))
}
