package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// namespace de los UUID deterministas: el mismo código genera siempre el mismo id.
var namespace = uuid.MustParse("6f1c8a52-3f7e-4b8e-9d1a-5b0c2e7d4a10")

type warehouse struct{ id, code, name, address string }
type location struct{ id, warehouseCode, code, name string }
type product struct{ id, sku, name, category string }

type catalog struct {
	warehouses []warehouse
	locations  []location
	products   []product
}

// parseCatalog lee el CSV. Si no es UTF-8 válido (o latin1 es true) se decodifica como ISO-8859-1.
func parseCatalog(raw []byte, latin1 bool) (*catalog, error) {
	var r io.Reader = bytes.NewReader(raw)
	if latin1 || !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	cat := &catalog{}
	known := map[string]bool{}
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		for len(rec) < 5 {
			rec = append(rec, "")
		}
		kind, wh, code, name, extra := strings.ToLower(strings.TrimSpace(rec[0])), strings.TrimSpace(rec[1]),
			strings.TrimSpace(rec[2]), strings.TrimSpace(rec[3]), strings.TrimSpace(rec[4])

		switch kind {
		case "tipo", "type":
			continue // encabezado
		case "warehouse", "bodega":
			if wh == "" || name == "" {
				return nil, fmt.Errorf("fila %d: bodega sin código o nombre", line)
			}
			known[wh] = true
			cat.warehouses = append(cat.warehouses, warehouse{id: stableID("warehouse", wh), code: wh, name: name, address: extra})
		case "location", "ubicacion", "ubicación":
			if !known[wh] {
				return nil, fmt.Errorf("fila %d: la bodega %q no está declarada antes", line, wh)
			}
			if code == "" || name == "" {
				return nil, fmt.Errorf("fila %d: ubicación sin código o nombre", line)
			}
			cat.locations = append(cat.locations, location{id: stableID("location", wh+"/"+code), warehouseCode: wh, code: code, name: name})
		case "product", "producto":
			if code == "" || name == "" {
				return nil, fmt.Errorf("fila %d: producto sin SKU o nombre", line)
			}
			cat.products = append(cat.products, product{id: stableID("product", code), sku: code, name: name, category: extra})
		default:
			return nil, fmt.Errorf("fila %d: tipo desconocido %q", line, rec[0])
		}
	}
	return cat, nil
}

func stableID(kind, key string) string {
	return uuid.NewSHA1(namespace, []byte(kind+":"+key)).String()
}

func (c *catalog) writeSQL(w io.Writer) error {
	var b strings.Builder
	b.WriteString("-- Catálogo generado por seed_catalog\n\n")
	for _, wh := range c.warehouses {
		fmt.Fprintf(&b, "INSERT INTO warehouses (id, code, name, address) VALUES ('%s', '%s', '%s', '%s')\n",
			wh.id, escapeSQL(wh.code), escapeSQL(wh.name), escapeSQL(wh.address))
		b.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address, updated_at = now();\n")
	}
	for _, l := range c.locations {
		fmt.Fprintf(&b, "INSERT INTO locations (id, warehouse_id, code, name)\n")
		fmt.Fprintf(&b, "SELECT '%s', id, '%s', '%s' FROM warehouses WHERE code = '%s'\n",
			l.id, escapeSQL(l.code), escapeSQL(l.name), escapeSQL(l.warehouseCode))
		b.WriteString("ON CONFLICT (warehouse_id, code) DO UPDATE SET name = EXCLUDED.name;\n")
	}
	for _, p := range c.products {
		fmt.Fprintf(&b, "INSERT INTO products (id, sku, name, category) VALUES ('%s', '%s', '%s', '%s')\n",
			p.id, escapeSQL(p.sku), escapeSQL(p.name), escapeSQL(p.category))
		b.WriteString("ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category, updated_at = now();\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
