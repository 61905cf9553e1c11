package handlers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"videorec/application/commands"
	"videorec/application/ports"
	"videorec/domain/graph"
)

// CreateUserHandler applies a UserCreated event to the graph.
type CreateUserHandler struct {
	store  ports.GraphStore
	logger *zap.Logger
}

// NewCreateUserHandler creates a new create-user handler.
func NewCreateUserHandler(store ports.GraphStore, logger *zap.Logger) *CreateUserHandler {
	return &CreateUserHandler{store: store, logger: logger}
}

// Handle upserts the user vertex. Replayed events hit the same key and leave
// a single vertex behind.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd commands.CreateUserCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	_, err := h.store.UpsertVertex(ctx, graph.VertexUser, cmd.UserID, graph.Properties{
		graph.PropName:      strings.TrimSpace(cmd.FirstName + " " + cmd.LastName),
		graph.PropEmail:     cmd.Email,
		graph.PropAddedDate: cmd.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("upsert user vertex: %w", err)
	}

	h.logger.Debug("user vertex upserted",
		zap.String("userID", cmd.UserID),
		zap.String("email", cmd.Email),
	)
	return nil
}
