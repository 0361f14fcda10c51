package agent

import (
	"context"

	"github.com/proraf/whatsapp-ai-bridge/internal/proraf"
)

// OperationPlan — plano estruturado produzido pelo planner a partir da
// mensagem livre. Imutável depois de montado, com uma exceção: o executor
// pode injetar o telefone do contexto quando o body não traz um.
type OperationPlan struct {
	Operation   string         `json:"operation"`
	APIMethod   string         `json:"api_method"`
	RequestBody map[string]any `json:"request_body"`
	Reason      string         `json:"reason"`
}

// Result — resposta do core para o caller HTTP.
// O caminho "sentinela 0" (nenhuma intenção) não passa por aqui:
// ProcessMessage devolve ok=false.
type Result struct {
	Error            string         `json:"error,omitempty"`
	Operation        string         `json:"operation,omitempty"`
	Planner          map[string]any `json:"planner,omitempty"`
	APIResult        map[string]any `json:"api_result,omitempty"`
	AssistantMessage string         `json:"assistant_message,omitempty"`
}

// Interaction — linha do log de interações (auditoria write-only;
// nunca volta para contexto de modelo).
type Interaction struct {
	ID               int64  `json:"id"`
	Telefone         string `json:"telefone"`
	Message          string `json:"message"`
	Operation        string `json:"operation"`
	AssistantMessage string `json:"assistant_message"`
	Success          bool   `json:"success"`
	CreatedAt        int64  `json:"created_at"`
}

// Backend — as seis operações do ProRAF. Nenhuma devolve error:
// falha de transporte já chega convertida em payload.
type Backend interface {
	VerifyPhone(ctx context.Context, telefone string) map[string]any
	ListPhones(ctx context.Context) any
	CreateProduct(ctx context.Context, telefone, name string, description, variety *string) map[string]any
	ListProducts(ctx context.Context, telefone string) map[string]any
	UpdateProduct(ctx context.Context, telefone string, productID int, description, comertialName string) map[string]any
	CreateBatch(ctx context.Context, req proraf.BatchRequest) map[string]any
}

// Repo — persistence do log de interações
type Repo interface {
	SaveInteraction(ctx context.Context, in *Interaction) error
	RecentInteractions(ctx context.Context, limit int) ([]Interaction, error)
}

// Service — orquestração plano -> execução -> narração
type Service interface {
	ProcessMessage(ctx context.Context, message, telefone string) (*Result, bool)
	VerifyPhone(ctx context.Context, telefone string) map[string]any
	RecentInteractions(ctx context.Context, limit int) ([]Interaction, error)
}
