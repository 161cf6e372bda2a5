package eggs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/egg-price-terminal/internal/domain/eggs"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

func product(desc, size string) entity.Product {
	return entity.Product{
		ProductID:   desc,
		Description: desc,
		Items:       []entity.ProductItem{{Size: size}},
	}
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "great value large eggs 12 ct", eggs.NormalizeText("Great Value Large Eggs, 12-ct"))
	assert.Equal(t, "oeufs frais 12 ct", eggs.NormalizeText("  Oéufs   Frais ｜ １２ ct "))
	assert.Equal(t, "1/2 dozen", eggs.NormalizeText("1/2 Dozen"))
}

func TestIsEggProduct(t *testing.T) {
	cases := []struct {
		name string
		size string
		want bool
	}{
		{"Great Value Large White Eggs", "12 ct", true},
		{"Kroger Grade A Shell Eggs", "", true},
		{"Organic Brown Egg", "1 dozen", true},
		{"Egg Salad Sandwich", "12 ct", false},
		{"Liquid Egg Whites", "16 oz", false},
		{"Easter Egg Dye Kit", "12 ct", false},
		{"Eggplant Parmesan", "12 oz", false},
		{"Hard Boiled Eggs", "12 ct", false},
		{"Egg Beaters Original", "32 oz", false},
		{"Milk 2% Reduced Fat", "1 gal", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eggs.IsEggProduct(tc.name, tc.size))
		})
	}
}

func TestIsDozenPackaging(t *testing.T) {
	cases := []struct {
		name string
		size string
		want bool
	}{
		{"Great Value Large Eggs, 12 ct", "", true},
		{"Large Eggs", "12 ct", true},
		{"Organic Grade A Eggs 1 Dozen", "", true},
		{"Large Eggs", "1 dozen", true},
		{"Large Eggs", "12ct", true},
		{"Grade A 12 Large Eggs", "", true},
		{"Large Eggs", "1 dz", true},
		{"Large Eggs", "18 ct", false},
		{"Large Eggs", "6 ct", false},
		{"Large Eggs", "2 dozen", false},
		{"Large Eggs", "1.5 dozen", false},
		{"Large Eggs Half Dozen", "", false},
		{"Large Eggs 1/2 Dozen", "", false},
		{"Large Eggs", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name+"|"+tc.size, func(t *testing.T) {
			assert.Equal(t, tc.want, eggs.IsDozenPackaging(tc.name, tc.size))
		})
	}
}

// Regresión: empaques grandes se rechazan aunque "dozen" aparezca en otra parte del texto.
func TestIsDozenPackaging_RechazaMultipacksConDozen(t *testing.T) {
	for _, count := range []string{"18", "24", "30", "36", "48", "60"} {
		t.Run(count, func(t *testing.T) {
			assert.False(t, eggs.IsDozenPackaging("Farm Fresh Large Eggs Dozen Value Pack "+count+" ct", ""))
			assert.False(t, eggs.IsDozenPackaging("Farm Fresh Large Eggs", count+" count dozen"))
			assert.False(t, eggs.IsDozenPackaging("Dozen Farms "+count+" Large Eggs", "1 dozen"))
		})
	}
}

// "Omega-3" y similares no son un conteo: la docena se conserva en su grupo.
func TestIsDozenPackaging_NumerosQueNoSonConteo(t *testing.T) {
	cases := []struct {
		name string
		size string
		want bool
	}{
		{"Kroger® Omega-3 Large Eggs", "12 ct", true},
		{"Land O Lakes Omega-3 All-Natural Eggs", "12 ct", true},
		{"Eggland's Best Omega 3 Large Brown Eggs", "1 dozen", true},
		{"Kroger® Grade A Large White Eggs", "12 ct", true},
		{"Kroger® Omega-3 Large Eggs", "18 ct", false},
		{"Kroger® Grade A Large White Eggs Dozen", "24 ct", false},
	}
	for _, tc := range cases {
		t.Run(tc.name+"|"+tc.size, func(t *testing.T) {
			assert.True(t, eggs.IsEggProduct(tc.name, tc.size))
			assert.Equal(t, tc.want, eggs.IsDozenPackaging(tc.name, tc.size))
		})
	}
}

func TestIsOrganic(t *testing.T) {
	assert.True(t, eggs.IsOrganic("Simple Truth Organic Large Brown Eggs"))
	assert.True(t, eggs.IsOrganic("ORGANIC Grade A Eggs"))
	assert.False(t, eggs.IsOrganic("Non-Organic Large Eggs"))
	assert.False(t, eggs.IsOrganic("Cage Free Large Eggs"))
}

func TestCombinedName_UsaMarcaSiNoHayDescripcion(t *testing.T) {
	assert.Equal(t, "Kroger Large Eggs", eggs.CombinedName(entity.Product{Brand: "Kroger", Description: "Kroger Large Eggs"}))
	assert.Equal(t, "Kroger", eggs.CombinedName(entity.Product{Brand: "Kroger", Description: "  "}))
}

// Un producto que cumple solo uno de los dos filtros no entra a ningún bucket.
func TestMatches_RequiereAmbosFiltros(t *testing.T) {
	assert.True(t, eggs.Matches(product("Large Eggs", "12 ct")))
	assert.False(t, eggs.Matches(product("Large Eggs", "18 ct")), "solo pasa el filtro de huevo")
	assert.False(t, eggs.Matches(product("Paper Towels", "12 ct")), "solo pasa el filtro de docena")
	assert.False(t, eggs.Matches(entity.Product{Description: "Large Eggs"}), "sin tamaño ni conteo")
}
