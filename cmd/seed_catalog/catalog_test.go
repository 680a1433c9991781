package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const sample = `tipo,bodega,codigo,nombre,extra
warehouse,WH,,Bodega Central,Calle 10
location,WH,STK,Stock,
# comentario
product,,SKU-1,Tornillo D'Acero,ferretería
`

func TestParseCatalog_UTF8(t *testing.T) {
	cat, err := parseCatalog([]byte(sample), false)
	require.NoError(t, err)
	require.Len(t, cat.warehouses, 1)
	require.Len(t, cat.locations, 1)
	require.Len(t, cat.products, 1)
	assert.Equal(t, "ferretería", cat.products[0].category)

	var sb strings.Builder
	require.NoError(t, cat.writeSQL(&sb))
	sql := sb.String()
	assert.Contains(t, sql, "Tornillo D''Acero", "las comillas se escapan")
	assert.Contains(t, sql, "ON CONFLICT (sku)")
	assert.Contains(t, sql, "WHERE code = 'WH'")
}

func TestParseCatalog_Latin1SeDetecta(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String(sample)
	require.NoError(t, err)

	cat, err := parseCatalog([]byte(raw), false)
	require.NoError(t, err)
	assert.Equal(t, "ferretería", cat.products[0].category)
}

func TestParseCatalog_IDsEstables(t *testing.T) {
	a, err := parseCatalog([]byte(sample), false)
	require.NoError(t, err)
	b, err := parseCatalog([]byte(sample), false)
	require.NoError(t, err)
	assert.Equal(t, a.products[0].id, b.products[0].id)
	assert.NotEqual(t, a.warehouses[0].id, a.locations[0].id)
}

func TestParseCatalog_Errores(t *testing.T) {
	_, err := parseCatalog([]byte("location,XX,STK,Stock,\n"), false)
	assert.ErrorContains(t, err, "no está declarada")

	_, err = parseCatalog([]byte("cliente,,C1,Juan,\n"), false)
	assert.ErrorContains(t, err, "tipo desconocido")
}
