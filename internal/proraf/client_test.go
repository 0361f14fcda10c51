package proraf

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDeterministic(t *testing.T) {
	c := NewClient("https://proraf.cloud/api", "segredo-compartilhado", "")

	first := c.Hash("55996852212")
	second := c.Hash("55996852212")
	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // sha256 hex

	other := NewClient("https://proraf.cloud/api", "outro-segredo", "")
	assert.NotEqual(t, first, other.Hash("55996852212"))
}

func TestVerifyPhoneSendsHashAndAPIKey(t *testing.T) {
	var got map[string]any
	var apiKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/whatsapp/verify-phone", r.URL.Path)
		apiKey = r.Header.Get("X-API-Key")

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		json.NewEncoder(w).Encode(map[string]any{"exists": true, "nome": "Maria"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "segredo", "chave-api")
	result := c.VerifyPhone(context.Background(), "55996852212")

	assert.Equal(t, true, result["exists"])
	assert.Equal(t, "Maria", result["nome"])
	assert.Equal(t, "chave-api", apiKey)
	assert.Equal(t, "55996852212", got["telefone"])
	assert.Equal(t, c.Hash("55996852212"), got["hash"])
}

func TestVerifyPhoneConnectionErrorNeverRaises(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // conexão recusada

	c := NewClient(srv.URL, "segredo", "")
	result := c.VerifyPhone(context.Background(), "55996852212")

	assert.Equal(t, false, result["exists"])
	assert.NotEmpty(t, result["error"])
}

func TestVerifyPhoneNon2xxIsExistsFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{"detail": "hash inválido"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "segredo", "")
	result := c.VerifyPhone(context.Background(), "55996852212")

	assert.Equal(t, false, result["exists"])
	assert.Equal(t, "hash inválido", result["error"])
}

func TestRequestTimeoutBecomesFailurePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := NewClient(srv.URL, "segredo", "")

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()

	result := c.CreateBatch(ctx, BatchRequest{
		Telefone:      "55996852212",
		ProductID:     7,
		Talhao:        "Talhão A",
		Producao:      25,
		UnidadeMedida: "kg",
	})

	assert.Equal(t, false, result["success"])
	assert.Equal(t, "timeout na requisição", result["error"])
}

func TestCreateProductErrorDetailExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{"detail": "produto já cadastrado"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "segredo", "")
	result := c.CreateProduct(context.Background(), "55996852212", "Tomate", nil, nil)

	assert.Equal(t, false, result["success"])
	assert.Equal(t, "produto já cadastrado", result["error"])
	assert.Equal(t, 422, result["status_code"])
}

func TestCreateProductErrorFallsBackToRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "segredo", "")
	result := c.CreateProduct(context.Background(), "55996852212", "Tomate", nil, nil)

	assert.Equal(t, false, result["success"])
	assert.Equal(t, "internal server error", result["error"])
}

func TestCreateProductSendsNullOptionals(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		json.NewEncoder(w).Encode(map[string]any{"success": true, "product_id": 9})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "segredo", "")
	c.CreateProduct(context.Background(), "55996852212", "Tomate", nil, nil)

	// chaves presentes com null, não omitidas
	desc, ok := got["description"]
	assert.True(t, ok)
	assert.Nil(t, desc)
	variety, ok := got["variedade_cultivar"]
	assert.True(t, ok)
	assert.Nil(t, variety)
}

func TestListProductsAlwaysCarriesProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "segredo", "")
	result := c.ListProducts(context.Background(), "55996852212")

	assert.Equal(t, false, result["success"])
	assert.NotEmpty(t, result["error"])
	require.Contains(t, result, "products")
	assert.Empty(t, result["products"])
}

func TestUpdateProductOmitsEmptyOptionals(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/whatsapp/update-product", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "segredo", "")
	c.UpdateProduct(context.Background(), "55996852212", 12, "", "Tomate Italiano")

	assert.NotContains(t, got, "description")
	assert.Equal(t, "Tomate Italiano", got["comertial_name"])
	assert.Equal(t, float64(12), got["product_id"])
	assert.Equal(t, c.Hash("55996852212"), got["hash"])
}

func TestCreateBatchOmitsEmptyDates(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/whatsapp/create-batch", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		json.NewEncoder(w).Encode(map[string]any{"success": true, "batch_id": 42, "batch_number": "L-42"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "segredo", "")
	result := c.CreateBatch(context.Background(), BatchRequest{
		Telefone:      "55996852212",
		ProductID:     7,
		Talhao:        "Talhão A",
		Producao:      25,
		UnidadeMedida: "kg",
		DtColheita:    "2026-08-30",
	})

	assert.Equal(t, true, result["success"])
	assert.Equal(t, float64(42), result["batch_id"])
	assert.NotContains(t, got, "dt_plantio")
	assert.Equal(t, "2026-08-30", got["dt_colheita"])
	assert.Equal(t, float64(25), got["producao"])
}

func TestListPhonesUsesSentinelHash(t *testing.T) {
	var gotHash string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/whatsapp/phones", r.URL.Path)
		gotHash = r.URL.Query().Get("hash")
		json.NewEncoder(w).Encode([]string{"55996852212", "55991112233"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "segredo", "")
	result := c.ListPhones(context.Background())

	assert.Equal(t, c.Hash("PHONE_LIST"), gotHash)
	assert.Equal(t, []any{"55996852212", "55991112233"}, result)
}

func TestListPhonesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "segredo", "")
	result := c.ListPhones(context.Background())

	failure, ok := result.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, failure["error"])
	assert.Empty(t, failure["telefones"])
}
