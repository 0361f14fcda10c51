package ai

import "context"

// AI — inteligência externa, não sabe nada de ProRAF nem de HTTP.
// Temperature: 0 para planejamento determinístico, 0.2 para narração.
type AI interface {
	GetReply(
		ctx context.Context,
		systemPrompt string,
		inputJSON string,
		temperature float32,
	) (string, error)
}
