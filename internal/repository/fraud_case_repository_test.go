package repository_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/port"
	"github.com/nikolayk812/voiceshop/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fraudCasesJSON = `[
  {"userName": "John", "cardEnding": "4242", "transactionAmount": 129.5, "status": "pending_review"},
  {"userName": "Priya", "cardEnding": "1881", "status": "pending_review"}
]`

func TestFraudCases_FindByUserName(t *testing.T) {
	store := newFraudCases(t)

	tests := []struct {
		name       string
		userName   string
		wantFound  bool
		wantStatus string
		wantError  string
	}{
		{
			name:       "find ignores case: ok",
			userName:   "jOhN",
			wantFound:  true,
			wantStatus: "pending_review",
		},
		{
			name:     "unknown user: not found",
			userName: "Nobody",
		},
		{
			name:      "empty user name: error",
			userName:  "",
			wantError: "userName is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, found, err := store.FindByUserName(t.Context(), tt.userName)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantFound, found)
			if found {
				assert.Equal(t, tt.wantStatus, c.Status())
			}
		})
	}
}

func TestFraudCases_Update(t *testing.T) {
	ctx := t.Context()
	path := writeFraudCases(t)

	store, err := repository.NewFraudCases(path)
	require.NoError(t, err)

	updated, err := store.Update(ctx, "priya", map[string]any{
		domain.FraudFieldStatus: "confirmed_safe",
		domain.FraudFieldNote:   "customer recognised the purchase",
	})
	require.NoError(t, err)
	assert.True(t, updated)

	c, found, err := store.FindByUserName(ctx, "Priya")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "confirmed_safe", c.Status())
	assert.Equal(t, "1881", c["cardEnding"])

	// the untouched case keeps its original field order
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &entries))

	var first bytes.Buffer
	require.NoError(t, json.Compact(&first, entries[0]))
	assert.Equal(t, `{"userName":"John","cardEnding":"4242","transactionAmount":129.5,"status":"pending_review"}`, first.String())

	// the updated case keeps its field order, new fields go last
	var second bytes.Buffer
	require.NoError(t, json.Compact(&second, entries[1]))
	assert.Equal(t, `{"userName":"Priya","cardEnding":"1881","status":"confirmed_safe","outcomeNote":"customer recognised the purchase"}`, second.String())

	updated, err = store.Update(ctx, "PRIYA", map[string]any{domain.FraudFieldStatus: "closed"})
	require.NoError(t, err)
	assert.True(t, updated)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &entries))
	second.Reset()
	require.NoError(t, json.Compact(&second, entries[1]))
	assert.Equal(t, `{"userName":"Priya","cardEnding":"1881","status":"closed","outcomeNote":"customer recognised the purchase"}`, second.String())

	updated, err = store.Update(ctx, "Nobody", map[string]any{domain.FraudFieldStatus: "x"})
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestFraudCases_MissingFile(t *testing.T) {
	store, err := repository.NewFraudCases(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	_, found, err := store.FindByUserName(t.Context(), "John")
	require.NoError(t, err)
	assert.False(t, found)
}

func newFraudCases(t *testing.T) port.FraudCaseStore {
	t.Helper()

	store, err := repository.NewFraudCases(writeFraudCases(t))
	require.NoError(t, err)

	return store
}

func writeFraudCases(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fraud_cases.json")
	require.NoError(t, os.WriteFile(path, []byte(fraudCasesJSON), 0o644))

	return path
}
