// seed_stores genera el script SQL para poblar kroger_stores a partir de un CSV
// (location_id,name,chain,state,zip). La cabecera es opcional.
//
// Uso: go run ./cmd/seed_stores [-latin1] [-out ruta.sql] [-sqlite egg_prices.db] stores.csv
// Por defecto escribe migrations/002_seed_stores.sql en la raíz del módulo.
// Con -sqlite además aplica las tiendas a la base local.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
	"github.com/jhoicas/egg-price-terminal/internal/infrastructure/sqlite"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	outPath := flag.String("out", "", "ruta del script SQL (por defecto migrations/002_seed_stores.sql)")
	sqlitePath := flag.String("sqlite", "", "aplicar también a esta base SQLite")
	flag.Parse()

	csvPath := "stores.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	stores, err := parseStores(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	if *outPath == "" {
		*outPath = filepath.Join(findModuleRoot(), "migrations", "002_seed_stores.sql")
	}
	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := writeSeed(out, stores, filepath.Base(csvPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d tiendas\n", *outPath, len(stores))

	if *sqlitePath != "" {
		ctx := context.Background()
		db, err := sqlite.Open(ctx, *sqlitePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Abrir SQLite: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.UpsertStores(ctx, stores); err != nil {
			fmt.Fprintf(os.Stderr, "Aplicar a SQLite: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Aplicadas %d tiendas a %s\n", len(stores), *sqlitePath)
	}
}

// parseStores lee el CSV, normaliza los IDs y descarta duplicados (gana la última fila).
// Devuelve las tiendas ordenadas por location_id.
func parseStores(r io.Reader) ([]entity.StoreLocation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	byID := make(map[string]entity.StoreLocation)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "location_id") {
			continue
		}
		id := entity.NormalizeLocationID(field(rec, 0))
		if id == "" {
			return nil, fmt.Errorf("línea %d: location_id vacío", line)
		}
		byID[id] = entity.StoreLocation{
			LocationID: id,
			Name:       field(rec, 1),
			Chain:      field(rec, 2),
			State:      strings.ToUpper(field(rec, 3)),
			ZipCode:    field(rec, 4),
		}
	}

	stores := make([]entity.StoreLocation, 0, len(byID))
	for _, s := range byID {
		stores = append(stores, s)
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].LocationID < stores[j].LocationID })
	return stores, nil
}

// writeSeed escribe un INSERT idempotente por tienda.
func writeSeed(w io.Writer, stores []entity.StoreLocation, source string) error {
	var b strings.Builder
	b.WriteString("-- Tiendas a consultar (kroger_stores)\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)
	for _, s := range stores {
		fmt.Fprintf(&b, "INSERT INTO kroger_stores (location_id, name, chain, state, zip_code)\n")
		fmt.Fprintf(&b, "VALUES (%s, %s, %s, %s, %s)\n",
			quote(s.LocationID), quote(s.Name), quote(s.Chain), quote(s.State), quote(s.ZipCode))
		b.WriteString("ON CONFLICT (location_id) DO UPDATE SET name = EXCLUDED.name, chain = EXCLUDED.chain,\n")
		b.WriteString("  state = EXCLUDED.state, zip_code = EXCLUDED.zip_code;\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// quote literal SQL; vacío → NULL.
func quote(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
