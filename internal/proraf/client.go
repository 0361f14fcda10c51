package proraf

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Assunto fixo usado como credencial de listagem de telefones.
const phoneListSubject = "PHONE_LIST"

const (
	defaultTimeout = 30 * time.Second
	verifyTimeout  = 10 * time.Second
)

// BatchRequest — lote montado pelo executor a partir do plano; não é persistido.
type BatchRequest struct {
	Telefone      string
	ProductID     int
	Talhao        string
	Producao      float64
	UnidadeMedida string
	DtPlantio     string
	DtColheita    string
}

// Client fala com os endpoints WhatsApp do backend ProRAF.
// Toda operação autentica com hash HMAC-SHA256 (mesma secret dos dois lados).
// Falha de transporte nunca vira erro para o caller: vira payload
// {success:false, error:...} (ou exists:false na verificação).
type Client struct {
	baseURL   string
	secretKey string
	apiKey    string
	client    *http.Client
}

func NewClient(baseURL, secretKey, apiKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		apiKey:    apiKey,
		client:    &http.Client{Timeout: defaultTimeout},
	}
}

// Hash gera o HMAC-SHA256 hex do assunto (telefone ou sentinela de listagem).
func (c *Client) Hash(subject string) string {
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(subject))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) headers(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}

// VerifyPhone consulta se o telefone existe no ProRAF.
// Timeout mais curto: essa rota fica no caminho síncrono do webhook.
func (c *Client) VerifyPhone(ctx context.Context, telefone string) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	body := map[string]any{
		"telefone": telefone,
		"hash":     c.Hash(telefone),
	}

	result, err := c.postJSON(ctx, "/whatsapp/verify-phone", body)
	if err != nil {
		log.Println("[proraf] verify-phone error:", err)
		return map[string]any{"error": err.Error(), "exists": false}
	}
	// na verificação o contrato de falha é exists:false, não success:false
	if _, failed := result["status_code"]; failed {
		return map[string]any{"error": result["error"], "exists": false}
	}
	return result
}

// ListPhones devolve a lista crua de telefones cadastrados.
func (c *Client) ListPhones(ctx context.Context) any {
	endpoint := c.baseURL + "/whatsapp/phones?" + url.Values{
		"hash": {c.Hash(phoneListSubject)},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return map[string]any{"error": err.Error(), "telefones": []any{}}
	}
	c.headers(req)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Println("[proraf] list-phones error:", err)
		return map[string]any{"error": err.Error(), "telefones": []any{}}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return map[string]any{
			"error":     "proraf api error: " + resp.Status + " body=" + string(raw),
			"telefones": []any{},
		}
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{"error": err.Error(), "telefones": []any{}}
	}
	return out
}

// CreateProduct cadastra um produto para o usuário do telefone.
// description/variety nulos SÃO enviados como null (contrato do backend).
func (c *Client) CreateProduct(ctx context.Context, telefone, name string, description, variety *string) map[string]any {
	body := map[string]any{
		"telefone":           telefone,
		"hash":               c.Hash(telefone),
		"name":               name,
		"description":        description,
		"variedade_cultivar": variety,
	}

	result, err := c.postJSON(ctx, "/whatsapp/create-product", body)
	if err != nil {
		log.Println("[proraf] create-product error:", err)
		return map[string]any{"error": err.Error(), "success": false}
	}
	return result
}

// ListProducts sempre devolve a chave "products", mesmo em falha.
func (c *Client) ListProducts(ctx context.Context, telefone string) map[string]any {
	body := map[string]any{
		"telefone": telefone,
		"hash":     c.Hash(telefone),
	}

	result, err := c.postJSON(ctx, "/whatsapp/list-products", body)
	if err != nil {
		log.Println("[proraf] list-products error:", err)
		return map[string]any{"error": err.Error(), "success": false, "products": []any{}}
	}
	if _, ok := result["products"]; !ok {
		result["products"] = []any{}
	}
	return result
}

// UpdateProduct atualiza descrição e/ou nome comercial.
// Campos opcionais vazios são OMITIDOS do payload, não enviados em branco.
func (c *Client) UpdateProduct(ctx context.Context, telefone string, productID int, description, comertialName string) map[string]any {
	body := map[string]any{
		"telefone":   telefone,
		"hash":       c.Hash(telefone),
		"product_id": productID,
	}
	if description != "" {
		body["description"] = description
	}
	if comertialName != "" {
		body["comertial_name"] = comertialName
	}

	result, err := c.request(ctx, http.MethodPut, "/whatsapp/update-product", body)
	if err != nil {
		log.Println("[proraf] update-product error:", err)
		return map[string]any{"error": err.Error(), "success": false}
	}
	return result
}

// CreateBatch cria um lote; datas vazias são omitidas do payload.
func (c *Client) CreateBatch(ctx context.Context, req BatchRequest) map[string]any {
	body := map[string]any{
		"telefone":      req.Telefone,
		"hash":          c.Hash(req.Telefone),
		"product_id":    req.ProductID,
		"talhao":        req.Talhao,
		"producao":      req.Producao,
		"unidadeMedida": req.UnidadeMedida,
	}
	if req.DtPlantio != "" {
		body["dt_plantio"] = req.DtPlantio
	}
	if req.DtColheita != "" {
		body["dt_colheita"] = req.DtColheita
	}

	result, err := c.postJSON(ctx, "/whatsapp/create-batch", body)
	if err != nil {
		log.Println("[proraf] create-batch error:", err)
		return map[string]any{"error": err.Error(), "success": false}
	}
	return result
}

func (c *Client) postJSON(ctx context.Context, path string, body map[string]any) (map[string]any, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

// request faz a chamada e normaliza o retorno:
// >=400 vira {error: detail-ou-corpo, success:false, status_code} sem virar erro;
// erro de transporte (timeout, conexão) sobe como error para o wrapper converter.
func (c *Client) request(ctx context.Context, method, path string, body map[string]any) (map[string]any, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	c.headers(req)

	resp, err := c.client.Do(req)
	if err != nil {
		if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.New("timeout na requisição")
		}
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		return map[string]any{
			"error":       errorDetail(raw),
			"success":     false,
			"status_code": resp.StatusCode,
		}, nil
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.New("resposta inválida do ProRAF: " + err.Error())
	}
	return out, nil
}

// errorDetail tenta extrair "detail" do corpo JSON de erro; senão usa o texto cru.
func errorDetail(raw []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if detail, ok := parsed["detail"].(string); ok && detail != "" {
			return detail
		}
	}
	return string(raw)
}
