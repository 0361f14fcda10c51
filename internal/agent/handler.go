package agent

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// normalizePhone tira o sufixo WhatsApp antes de a mensagem chegar no core.
// "55996852212@s.whatsapp.net" -> "55996852212"
func normalizePhone(telefone string) string {
	if strings.HasSuffix(telefone, "@s.whatsapp.net") {
		telefone = strings.SplitN(telefone, "@", 2)[0]
	}
	return strings.TrimSpace(telefone)
}

// HandleMensagem — rota principal de conversa: IA -> CRUD -> resposta natural.
// Quando o planner não vê intenção, a resposta é o literal 0.
func (h *Handler) HandleMensagem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message  string `json:"message"`
		Telefone string `json:"telefone"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if payload.Message == "" {
		http.Error(w, "missing message", http.StatusBadRequest)
		return
	}

	log.Printf("[http] mensagem recebida: %q", payload.Message)

	result, ok := h.svc.ProcessMessage(r.Context(), payload.Message, normalizePhone(payload.Telefone))

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.Write([]byte("0"))
		return
	}
	_ = json.NewEncoder(w).Encode(result)
}

// HandleVerificaTelefone consulta a existência do telefone no ProRAF.
func (h *Handler) HandleVerificaTelefone(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Telefone string `json:"telefone"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if payload.Telefone == "" {
		http.Error(w, "missing telefone", http.StatusBadRequest)
		return
	}

	telefone := normalizePhone(payload.Telefone)
	resultado := h.svc.VerifyPhone(r.Context(), telefone)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"telefone":  telefone,
		"resultado": resultado,
	})
}

// HandleEcho — utilitário de teste, devolve a mensagem recebida.
func (h *Handler) HandleEcho(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": "You sent: " + payload.Message,
	})
}

// HandleRecentInteractions expõe o log de auditoria para debug.
func (h *Handler) HandleRecentInteractions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	interactions, err := h.svc.RecentInteractions(r.Context(), limit)
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if interactions == nil {
		interactions = []Interaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(interactions)
}
