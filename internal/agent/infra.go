package agent

import (
	"context"
	"database/sql"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

func (r *repo) SaveInteraction(ctx context.Context, in *Interaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO interactions (telefone, message, operation, assistant_message, success)
		VALUES ($1, $2, $3, $4, $5)
	`,
		in.Telefone,
		in.Message,
		in.Operation,
		in.AssistantMessage,
		in.Success,
	)
	return err
}

func (r *repo) RecentInteractions(ctx context.Context, limit int) ([]Interaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, telefone, message, operation, assistant_message, success, extract(epoch from created_at)::bigint
		FROM interactions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var in Interaction
		if err := rows.Scan(
			&in.ID,
			&in.Telefone,
			&in.Message,
			&in.Operation,
			&in.AssistantMessage,
			&in.Success,
			&in.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, in)
	}

	return out, rows.Err()
}
