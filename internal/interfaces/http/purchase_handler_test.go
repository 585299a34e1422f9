package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/compras-api/internal/application/purchase"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/inventory"
	"github.com/jhoicas/compras-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/compras-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func buildPurchaseApp(t *testing.T, secret string) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	cat := "cat-granos"
	store.AddCategory(&entity.Category{ID: cat, Name: "Granos", SortOrder: 1})
	store.AddSupplier(&entity.Supplier{ID: "sup-1", Name: "Distribuidora Norte"})
	store.AddProduct(&entity.Product{ID: "P", CategoryID: &cat, Name: "Arroz",
		InStock: decimal.NewFromInt(10), Cost: decimal.RequireFromString("5.00")})
	store.AddProduct(&entity.Product{ID: "Z", CategoryID: &cat, Name: "Nuevo",
		InStock: decimal.Zero, Cost: decimal.Zero})

	commands := purchase.NewUseCase(store, store.Purchases(), store.Suppliers(),
		inventory.NewCostPolicy(inventory.DefaultCostScale), zerolog.Nop())
	queries := purchase.NewQueryUseCase(store.Purchases(), store.Products(), store.Categories(), store.Suppliers(),
		purchase.QueryConfig{PageSize: 20, CurrencySymbol: "$", PlaceholderImageURL: "/images/placeholder.png"})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Purchases:       commands,
		PurchaseQueries: queries,
		JWTSecret:       secret,
		Log:             zerolog.Nop(),
	})
	return app, store
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func purchaseBody(items ...map[string]any) map[string]any {
	return map[string]any{
		"supplier":         "sup-1",
		"reference_number": "FAC-100",
		"date":             "2025-02-16",
		"items":            items,
	}
}

func item(productID string, qty, cost float64) map[string]any {
	return map[string]any{"product_id": productID, "quantity": qty, "unit_cost": cost}
}

func stockAndCost(t *testing.T, store *memory.Store, id string) (string, string) {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.InStock.String(), p.Cost.StringFixed(2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escrituras
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseHandler_CreateGetUpdateDelete(t *testing.T) {
	app, store := buildPurchaseApp(t, "")

	resp, body := call(t, app, http.MethodPost, "/api/purchases", "", purchaseBody(item("P", 10, 7)))
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", body)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	id := data["id"].(string)
	require.NotEmpty(t, id)
	details := data["purchase_details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "70", details[0].(map[string]any)["line_total_cost"])

	stock, cost := stockAndCost(t, store, "P")
	assert.Equal(t, "20", stock)
	assert.Equal(t, "6.00", cost)

	resp, body = call(t, app, http.MethodGet, "/api/purchases/"+id, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "FAC-100", body["data"].(map[string]any)["reference_number"])

	resp, _ = call(t, app, http.MethodPut, "/api/purchases/"+id, "", purchaseBody(item("P", 5, 8)))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stock, cost = stockAndCost(t, store, "P")
	assert.Equal(t, "15", stock)
	assert.Equal(t, "6.00", cost)

	resp, body = call(t, app, http.MethodDelete, "/api/purchases/"+id, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	stock, cost = stockAndCost(t, store, "P")
	assert.Equal(t, "10", stock)
	assert.Equal(t, "5.00", cost)

	resp, body = call(t, app, http.MethodGet, "/api/purchases/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestPurchaseHandler_Errores(t *testing.T) {
	app, _ := buildPurchaseApp(t, "")

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"json inválido", http.MethodPost, "/api/purchases", `{"items": [`, http.StatusBadRequest, "VALIDATION"},
		{"cantidad no numérica", http.MethodPost, "/api/purchases", `{"date":"2025-02-16","items":[{"product_id":"P","quantity":"abc"}]}`, http.StatusBadRequest, "VALIDATION"},
		{"producto en blanco", http.MethodPost, "/api/purchases", purchaseBody(item("   ", 1, 1)), http.StatusBadRequest, "VALIDATION"},
		{"sin líneas", http.MethodPost, "/api/purchases", purchaseBody(), http.StatusBadRequest, "EMPTY_LINE_SET"},
		{"sin fecha", http.MethodPost, "/api/purchases", map[string]any{"items": []any{item("P", 1, 1)}}, http.StatusBadRequest, "VALIDATION"},
		{"producto inexistente", http.MethodPost, "/api/purchases", purchaseBody(item("P", 1, 1), item("NOPE", 1, 1)), http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"stock resultante cero", http.MethodPost, "/api/purchases", purchaseBody(item("Z", 0, 3)), http.StatusUnprocessableEntity, "INVALID_COST_RECALCULATION"},
		{"editar inexistente", http.MethodPut, "/api/purchases/nope", purchaseBody(item("P", 1, 1)), http.StatusNotFound, "NOT_FOUND"},
		{"borrar inexistente", http.MethodDelete, "/api/purchases/nope", nil, http.StatusNotFound, "NOT_FOUND"},
		{"página inválida", http.MethodGet, "/api/purchases?page=0", nil, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := call(t, app, tc.method, tc.path, "", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, "%v", body)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestPurchaseHandler_ProductoInexistenteIndicaLinea(t *testing.T) {
	app, _ := buildPurchaseApp(t, "")
	resp, body := call(t, app, http.MethodPost, "/api/purchases", "", purchaseBody(item("P", 1, 1), item("NOPE", 1, 1)))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOPE", body["product_id"])
	assert.Equal(t, float64(1), body["line"])
}

func TestPurchaseHandler_ValidacionDevuelveCampos(t *testing.T) {
	app, _ := buildPurchaseApp(t, "")
	req := purchaseBody(item("P", -1, 1))
	resp, body := call(t, app, http.MethodPost, "/api/purchases", "", req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields := body["fields"].(map[string]any)
	assert.Equal(t, "gte", fields["items[0].quantity"])

	resp, body = call(t, app, http.MethodPut, "/api/purchases/cualquiera", "",
		`{"date":"2025-02-16","items":[{"product_id":"P","unit_cost":"siete"}]}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "numeric", body["fields"].(map[string]any)["items[0].unit_cost"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseHandler_FormNoSeConfundeConID(t *testing.T) {
	app, _ := buildPurchaseApp(t, "")
	resp, body := call(t, app, http.MethodGet, "/api/purchases/create", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "$", data["currency"])
	assert.Len(t, data["suppliers"], 1)
	assert.Len(t, data["categories"], 1)
}

func TestPurchaseHandler_List(t *testing.T) {
	app, _ := buildPurchaseApp(t, "")
	resp, _ := call(t, app, http.MethodPost, "/api/purchases", "", purchaseBody(item("P", 10, 7)))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := call(t, app, http.MethodGet, "/api/purchases?supplier_name=norte&date=2025-02", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	groups := body["data"].([]any)
	require.Len(t, groups, 1)
	g := groups[0].(map[string]any)
	assert.Equal(t, "Granos", g["name"])
	assert.Equal(t, "/images/placeholder.png", g["image_url"])
	products := g["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "70", products[0].(map[string]any)["line_total_cost"])
	assert.Equal(t, float64(1), body["page"].(map[string]any)["total"])

	resp, body = call(t, app, http.MethodGet, "/api/purchases?supplier_name=otro", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["data"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseHandler_Roles(t *testing.T) {
	app, _ := buildPurchaseApp(t, testJWTSecret)

	resp, _ := call(t, app, http.MethodGet, "/api/purchases", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/purchases", tokenForRole(t, "vendedor"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := call(t, app, http.MethodPost, "/api/purchases", tokenForRole(t, "vendedor"), purchaseBody(item("P", 1, 1)))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body["code"])

	resp, _ = call(t, app, http.MethodPost, "/api/purchases", tokenForRole(t, "bodeguero"), purchaseBody(item("P", 1, 1)))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
