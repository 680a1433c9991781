// seed_catalog genera un script SQL idempotente con bodegas, ubicaciones y productos
// a partir de un CSV (UTF-8 o ISO-8859-1, como lo exportan las hojas de cálculo locales).
//
// Formato por fila: tipo,bodega,codigo,nombre,extra
//
//	warehouse,WH,,Bodega Central,Calle 10 # 5-20
//	location,WH,STK,Stock,
//	product,,SKU-1,Tornillo 1/4,ferreteria
//
// Uso: go run ./cmd/seed_catalog [-latin1] [-o seed.sql] catalogo.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	latin1 := flag.Bool("latin1", false, "forzar lectura ISO-8859-1 (por defecto se detecta)")
	outPath := flag.String("o", "", "archivo de salida (por defecto stdout)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog [-latin1] [-o seed.sql] catalogo.csv")
		os.Exit(2)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	cat, err := parseCatalog(raw, *latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := cat.writeSQL(out); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d bodegas, %d ubicaciones, %d productos\n",
		len(cat.warehouses), len(cat.locations), len(cat.products))
}
