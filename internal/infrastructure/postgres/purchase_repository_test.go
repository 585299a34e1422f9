package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/compras-api/internal/domain/repository"
)

func TestBuildPurchaseFilter_SinFiltros(t *testing.T) {
	where, args := buildPurchaseFilter(repository.PurchaseFilter{Limit: 20})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildPurchaseFilter_Combinado(t *testing.T) {
	where, args := buildPurchaseFilter(repository.PurchaseFilter{
		Search:         " envío ",
		SupplierName:   "Norte",
		Date:           "2025-02",
		PurchaseNumber: "FAC",
	})
	assert.Equal(t,
		" WHERE (p.reference_number ILIKE $1 OR p.notes ILIKE $1 OR p.shipment_name ILIKE $1)"+
			" AND s.name ILIKE $2"+
			" AND to_char(p.date, 'YYYY-MM-DD') LIKE $3"+
			" AND p.reference_number ILIKE $4",
		where)
	assert.Equal(t, []any{"%envío%", "%Norte%", "2025-02%", "%FAC%"}, args)
}

func TestBuildPurchaseFilter_NumeracionSaltaVacios(t *testing.T) {
	where, args := buildPurchaseFilter(repository.PurchaseFilter{SupplierName: "   ", PurchaseNumber: "FAC"})
	assert.Equal(t, " WHERE p.reference_number ILIKE $1", where)
	assert.Equal(t, []any{"%FAC%"}, args)
}

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, `%50\%\_a\\b%`, likePattern(`50%_a\b`))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("3b9e6f20-0000-4000-8000-000000000001"))
	assert.False(t, isUUID("abc"))
	assert.False(t, isUUID(""))
	assert.False(t, isUUID("3B9E6F20-0000-4000-8000-000000000001"), "PostgreSQL devuelve minúsculas")
	assert.False(t, isUUID("{3b9e6f20-0000-4000-8000-000000000001}"))
	assert.False(t, isUUID("urn:uuid:3b9e6f20-0000-4000-8000-000000000001"))
}

func TestUUIDsOnly_DescartaIDsQueNoPuedenExistir(t *testing.T) {
	ids := []string{"abc", "3b9e6f20-0000-4000-8000-000000000001", "   ", "3b9e6f20-0000-4000-8000-000000000002"}
	assert.Equal(t, []string{
		"3b9e6f20-0000-4000-8000-000000000001",
		"3b9e6f20-0000-4000-8000-000000000002",
	}, uuidsOnly(ids))
	assert.Empty(t, uuidsOnly([]string{"abc"}))
}
