package port

import (
	"context"

	"github.com/nikolayk812/voiceshop/internal/domain"
)

type SessionStore interface {
	Get(ctx context.Context, sessionID string) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context, sessionID string) (bool, error)
}
