package agent

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/mensagem", h.HandleMensagem)
	r.Post("/chatbot", h.HandleMensagem) // alias antigo
	r.Post("/verificaTelefone", h.HandleVerificaTelefone)
	r.Post("/message", h.HandleEcho)
	r.Get("/interactions/recent", h.HandleRecentInteractions)
}
