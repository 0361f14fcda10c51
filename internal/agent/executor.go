package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/proraf/whatsapp-ai-bridge/internal/proraf"
)

// executeCRUD despacha o api_method planejado para a chamada certa do
// backend, validando campos obrigatórios ANTES de qualquer requisição.
// Nada escapa daqui como panic: tudo vira {success:false, error:...}.
func (s *service) executeCRUD(ctx context.Context, apiMethod string, body map[string]any) (result map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			result = failure(fmt.Sprintf("Erro ao executar operação: %v", r))
		}
	}()

	switch apiMethod {

	case "verificar_telefone":
		telefone := stringify(body["telefone"])
		if telefone == "" {
			return failure("Telefone é obrigatório para verificar telefone.")
		}
		return s.backend.VerifyPhone(ctx, telefone)

	case "criar_produto":
		telefone := stringify(body["telefone"])
		name := stringify(body["name"])
		if telefone == "" || name == "" {
			return failure("Telefone e name são obrigatórios para criar produto.")
		}
		return s.backend.CreateProduct(ctx, telefone, name,
			optString(body, "description"),
			optString(body, "variedade_cultivar"),
		)

	case "listar_produtos":
		telefone := stringify(body["telefone"])
		if telefone == "" {
			return failure("Telefone é obrigatório para listar produtos.")
		}
		return s.backend.ListProducts(ctx, telefone)

	case "atualizar_produto":
		telefone := stringify(body["telefone"])
		productID, hasID := intify(body["product_id"])
		if telefone == "" || !hasID {
			return failure("Telefone e product_id são obrigatórios para atualizar produto.")
		}
		return s.backend.UpdateProduct(ctx, telefone, productID,
			stringify(body["description"]),
			stringify(body["comertial_name"]),
		)

	case "criar_lote":
		telefone := stringify(body["telefone"])
		talhao := stringify(body["talhao"])
		if talhao == "" {
			talhao = "Talhão A"
		}
		producao, hasProducao := floatify(body["producao"])
		unidade := stringify(body["unidadeMedida"])

		productID, hasID := intify(body["product_id"])
		if !hasID {
			productID, hasID = s.resolveProductIDByName(ctx, telefone, body)
		}

		if telefone == "" || !hasID || !hasProducao || unidade == "" {
			return failure("Telefone, produto (product_id ou name), producao e unidadeMedida são obrigatórios para criar lote.")
		}
		return s.backend.CreateBatch(ctx, proraf.BatchRequest{
			Telefone:      telefone,
			ProductID:     productID,
			Talhao:        talhao,
			Producao:      producao,
			UnidadeMedida: unidade,
			DtPlantio:     stringify(body["dt_plantio"]),
			DtColheita:    stringify(body["dt_colheita"]),
		})

	case "listar_telefones":
		return map[string]any{"success": true, "phones": s.backend.ListPhones(ctx)}

	default:
		return failure("api_method inválido: " + apiMethod)
	}
}

// resolveProductIDByName implementa o resolver em três passos:
// busca exata -> cria se ausente -> busca de novo. A segunda busca cobre
// o create que não devolve um product_id reutilizável. Pode falhar mesmo
// assim; aí o lote é rejeitado pela validação de campos.
func (s *service) resolveProductIDByName(ctx context.Context, telefone string, body map[string]any) (int, bool) {
	if telefone == "" {
		return 0, false
	}

	name := stringify(body["name"])
	if name == "" {
		name = stringify(body["product_name"])
	}
	if name == "" {
		return 0, false
	}

	if id, ok := findProductByName(s.backend.ListProducts(ctx, telefone), name); ok {
		return id, true
	}

	created := s.backend.CreateProduct(ctx, telefone, name,
		optString(body, "description"),
		optString(body, "variedade_cultivar"),
	)
	if id, ok := intify(created["product_id"]); ok {
		return id, true
	}

	return findProductByName(s.backend.ListProducts(ctx, telefone), name)
}

// match exato, case-insensitive, nome aparado dos dois lados
func findProductByName(listing map[string]any, name string) (int, bool) {
	products, _ := listing["products"].([]any)
	for _, item := range products {
		product, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if strings.EqualFold(stringify(product["name"]), strings.TrimSpace(name)) {
			return intify(product["id"])
		}
	}
	return 0, false
}

func failure(msg string) map[string]any {
	return map[string]any{"success": false, "error": msg}
}

// stringify — valores do request_body chegam frouxos do planner
// (string, número, null); tudo vira string aparada, null vira "".
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func intify(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

func floatify(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// optString — ponteiro para o valor quando presente e não-nulo;
// nil é enviado como null no payload de criação de produto.
func optString(body map[string]any, key string) *string {
	v, ok := body[key]
	if !ok || v == nil {
		return nil
	}
	s := stringify(v)
	return &s
}
