package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/proraf/whatsapp-ai-bridge/internal/ai"
)

const (
	fallbackNoIntent = "Não identifiquei uma ação de cadastro/consulta. Pode me dizer o que deseja fazer?"
	fallbackDone     = "Concluí a operação e já tenho o resultado da API."
)

type service struct {
	ai        ai.AI // nil quando OPENAI_API_KEY não está configurada
	backend   Backend
	repo      Repo // nil quando DATABASE_URL não está configurada
	hasSecret bool
}

func NewService(aiClient ai.AI, backend Backend, repo Repo, secretKey string) Service {
	return &service{
		ai:        aiClient,
		backend:   backend,
		repo:      repo,
		hasSecret: secretKey != "",
	}
}

// ProcessMessage roda o fluxo plano -> execução -> narração.
// ok=false é a sentinela "0": o planner não viu intenção estruturável.
func (s *service) ProcessMessage(ctx context.Context, message, telefone string) (*Result, bool) {
	log.Println("========== NOVA MENSAGEM ==========")
	log.Printf("[svc] telefone=%s mensagem=%q", telefone, message)

	if s.ai == nil {
		return &Result{
			Error: "OPENAI_API_KEY não configurada. Defina no arquivo .env para usar /mensagem.",
		}, true
	}
	if !s.hasSecret {
		return &Result{
			Error: "SECRET_KEY do ProRAF não configurada no .env. Defina PRORAF_SECRET_KEY ou SECRET_KEY.",
		}, true
	}

	plannerOutput, ok := s.planOperation(ctx, message, telefone)
	if !ok {
		return nil, false
	}

	operation, _ := plannerOutput["operation"].(string)
	if operation == "" {
		operation = "none"
	}
	apiMethod := stringify(plannerOutput["api_method"])

	requestBody, isMap := plannerOutput["request_body"].(map[string]any)
	if !isMap {
		requestBody = map[string]any{}
	}

	// injeção de contexto: nunca sobrescreve telefone escolhido pelo planner
	if telefone != "" && stringify(requestBody["telefone"]) == "" {
		requestBody["telefone"] = telefone
	}

	if operation == "none" || apiMethod == "" || apiMethod == "null" {
		human := s.narrate(ctx, map[string]any{
			"mensagem_usuario": message,
			"resultado_api":    map[string]any{"info": "Sem operação CRUD identificada"},
		})
		if human == "" {
			human = fallbackNoIntent
		}

		result := &Result{
			Operation:        "none",
			Planner:          plannerOutput,
			AssistantMessage: human,
		}
		s.logInteraction(ctx, telefone, message, result, nil)
		return result, true
	}

	apiResult := s.executeCRUD(ctx, apiMethod, requestBody)

	human := s.narrate(ctx, map[string]any{
		"mensagem_usuario": message,
		"operation":        operation,
		"request_body":     requestBody,
		"resultado_api":    apiResult,
	})
	if human == "" {
		human = fallbackDone
	}

	result := &Result{
		Operation:        operation,
		Planner:          plannerOutput,
		APIResult:        apiResult,
		AssistantMessage: human,
	}
	s.logInteraction(ctx, telefone, message, result, apiResult)
	return result, true
}

// planOperation — primeira ida ao modelo, temperatura 0.
// Qualquer falha (sem chamada, erro, saída não-JSON) vira "sem intenção".
func (s *service) planOperation(ctx context.Context, message, telefone string) (map[string]any, bool) {
	input := map[string]any{
		"mensagem_usuario":  message,
		"telefone_contexto": nil,
	}
	if telefone != "" {
		input["telefone_contexto"] = telefone
	}

	b, _ := json.Marshal(input)
	payload := fmt.Sprintf(UserMessageTemplate, string(b))

	raw, err := s.ai.GetReply(ctx, CrudPlannerPrompt, payload, 0)
	if err != nil {
		log.Println("[svc] planner error:", err)
		return nil, false
	}

	return parsePlannerOutput(raw)
}

// parsePlannerOutput normaliza a saída do planner: cerca de markdown é
// removida, "0" literal e qualquer coisa que não seja objeto JSON viram
// a sentinela sem-intenção.
func parsePlannerOutput(content string) (map[string]any, bool) {
	content = strings.TrimSpace(content)
	if content == "0" {
		return nil, false
	}

	cleaned := strings.ReplaceAll(content, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		log.Println("[svc] planner JSON error:", err)
		return nil, false
	}
	return parsed, true
}

// narrate — segunda ida ao modelo, temperatura 0.2.
// Falha vira string vazia; o caller decide o fallback.
func (s *service) narrate(ctx context.Context, payload map[string]any) string {
	b, _ := json.Marshal(payload)

	raw, err := s.ai.GetReply(ctx, CrudResultMessagePrompt, string(b), 0.2)
	if err != nil {
		log.Println("[svc] narrator error:", err)
		return ""
	}
	return strings.TrimSpace(raw)
}

func (s *service) VerifyPhone(ctx context.Context, telefone string) map[string]any {
	return s.backend.VerifyPhone(ctx, telefone)
}

func (s *service) RecentInteractions(ctx context.Context, limit int) ([]Interaction, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.RecentInteractions(ctx, limit)
}

// logInteraction — auditoria best-effort; nunca afeta a resposta.
func (s *service) logInteraction(ctx context.Context, telefone, message string, result *Result, apiResult map[string]any) {
	if s.repo == nil {
		return
	}

	success := result.Error == ""
	if apiResult != nil {
		if flag, ok := apiResult["success"].(bool); ok {
			success = flag
		}
	}

	_ = s.repo.SaveInteraction(ctx, &Interaction{
		Telefone:         telefone,
		Message:          message,
		Operation:        result.Operation,
		AssistantMessage: result.AssistantMessage,
		Success:          success,
	})
}
