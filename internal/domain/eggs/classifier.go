// Package eggs contiene las reglas de dominio para reconocer huevos con cáscara en
// presentación de docena, extraer su precio y resumir los precios de una tienda.
// Todas las funciones son puras: no hacen I/O y se pueden probar de forma aislada.
package eggs

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

var (
	eggKeywordRe = regexp.MustCompile(`\beggs?\b|\bshell\b`)

	// Productos que mencionan huevo pero no son huevo con cáscara.
	nonEggRe = regexp.MustCompile(`\b(` + strings.Join([]string{
		`egg\s*whites?`, `egg\s*rolls?`, `egg\s*noodles?`, `eggnog`, `nog`,
		`sandwich(es)?`, `salad`, `noodles?`, `pasta`, `substitute`, `beaters`, `liquid`,
		`bites`, `patt(y|ies)`, `muffins?`, `bagels?`, `burritos?`, `wraps?`, `frittata`,
		`souffle`, `custard`, `tarts?`, `bread`, `cookies?`, `cakes?`, `candy`, `chocolate`,
		`easter`, `dye`, `plastic`, `toys?`, `filled`, `shampoo`, `conditioner`, `mask`,
		`serum`, `lotion`, `soap`, `cosmetics?`, `dog`, `cat`, `pet`, `treats?`, `taco`,
		`pies?`, `hard\s*boiled`, `peeled`, `deviled`, `scrambled`, `omelets?`, `powder(ed)?`,
		`dried`, `freeze`, `pasta\s*shells`, `sea\s*shells?`,
	}, "|") + `)\b`)

	// Marcadores de docena aceptados: 12 ct/pk/count/pack, dozen, doz, dz, "12 large eggs".
	dozenRe = regexp.MustCompile(`\b12\s*(ct|cnt|count|pk|pack|ea|each)\b|\b12\s+(?:[a-z]+\s+){0,3}eggs?\b|\b12\s*eggs?\b|\bdozen\b|\bdoz\b|\bdz\b`)

	// Conteo con unidad explícita: "18 ct", "24pk", "30 count".
	unitCountRe = regexp.MustCompile(`\b(\d+)\s*(?:ct|cnt|count|pk|pack|ea|each)\b`)
	// Número seguido de "eggs" ("18 large eggs"). Solo es conteo si supera la docena.
	eggCountRe = regexp.MustCompile(`\b(\d+)\s+(?:[a-z]+\s+){0,3}eggs\b|\b(\d+)\s*eggs\b`)
	// "omega 3" es un atributo nutricional, no un conteo.
	nutrientRe = regexp.MustCompile(`\bomega\s*\d+\b`)

	// Múltiplos de docena: "2 dozen", "2.5 doz", "5 dz".
	dozenMultipleRe = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(?:dozen|doz|dz)\b`)
	halfDozenRe     = regexp.MustCompile(`\bhalf\s*(?:a\s+)?(?:dozen|doz|dz)\b`)

	organicRe    = regexp.MustCompile(`\borganic\b`)
	nonOrganicRe = regexp.MustCompile(`\bnon\s*organic\b`)
)

// NormalizeText pasa a minúsculas, elimina diacríticos y compatibilidades Unicode
// (ligaduras, dígitos de ancho completo) y deja solo letras, dígitos, '.' y '/'.
func NormalizeText(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '/':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CombinedName nombre usado para clasificar: la descripción o, si está vacía, la marca.
func CombinedName(p entity.Product) string {
	if strings.TrimSpace(p.Description) != "" {
		return p.Description
	}
	return p.Brand
}

// FirstSize tamaño del primer ítem del producto ("" si no hay ítems).
func FirstSize(p entity.Product) string {
	if len(p.Items) == 0 {
		return ""
	}
	return p.Items[0].Size
}

// IsEggProduct indica si el texto describe huevo con cáscara. Los argumentos pueden venir
// sin normalizar.
func IsEggProduct(name, size string) bool {
	text := NormalizeText(name + " " + size)
	if !eggKeywordRe.MatchString(text) {
		return false
	}
	return !nonEggRe.MatchString(text)
}

// IsDozenPackaging indica si el empaque es de 12 unidades. Rechaza empaques con otro
// conteo explícito (18/24/30/36/48/60 ct, "2 dozen", "half dozen") aunque la palabra
// "dozen" aparezca en otra parte del texto. Un número suelto antes de "eggs" solo cuenta
// como empaque si es mayor que 12 ("Omega-3 Large Eggs" sigue siendo una docena).
func IsDozenPackaging(name, size string) bool {
	text := nutrientRe.ReplaceAllString(NormalizeText(name+" "+size), "omega")
	if halfDozenRe.MatchString(text) {
		return false
	}
	for _, m := range unitCountRe.FindAllStringSubmatch(text, -1) {
		if n := firstNumber(m[1:]); n != 1 && n != 12 {
			return false
		}
	}
	for _, m := range eggCountRe.FindAllStringSubmatch(text, -1) {
		if n := firstNumber(m[1:]); n > 12 {
			return false
		}
	}
	for _, m := range dozenMultipleRe.FindAllStringSubmatch(text, -1) {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil && f != 1 {
			return false
		}
	}
	return dozenRe.MatchString(text)
}

// IsOrganic indica si el nombre corresponde a huevo orgánico.
func IsOrganic(name string) bool {
	text := NormalizeText(name)
	return organicRe.MatchString(text) && !nonOrganicRe.MatchString(text)
}

// Matches aplica ambos filtros (huevo + docena) sobre el nombre combinado y el tamaño
// del primer ítem. Un producto que no pasa ambos se descarta por completo.
func Matches(p entity.Product) bool {
	name, size := CombinedName(p), FirstSize(p)
	return IsEggProduct(name, size) && IsDozenPackaging(name, size)
}

func firstNumber(groups []string) int {
	for _, g := range groups {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			return -1
		}
		return n
	}
	return -1
}
