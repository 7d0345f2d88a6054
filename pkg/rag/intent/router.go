package intent

import (
	"context"

	"bayan-ai-be/pkg/store"
)

// Router classifies a message. Implementations may read but never modify st.
type Router interface {
	Route(ctx context.Context, text string, st *store.SessionState) (Decision, error)
}
