package port

import (
	"context"

	"github.com/nikolayk812/voiceshop/internal/domain"
)

type FraudCaseStore interface {
	FindByUserName(ctx context.Context, userName string) (domain.FraudCase, bool, error)
	Update(ctx context.Context, userName string, fields map[string]any) (bool, error)
}
