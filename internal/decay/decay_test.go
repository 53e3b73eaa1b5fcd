package decay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RadicalxChange/lanna-edges/internal/models"
	"github.com/RadicalxChange/lanna-edges/internal/store"
)

func TestRunDepreciatesAllAccounts(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	high := models.Account{Name: "High", Email: "high@example.com", ValueCreation: 100}
	low := models.Account{Name: "Low", Email: "low@example.com", ValueCreation: 1}
	require.NoError(t, m.CreateAccount(ctx, &high))
	require.NoError(t, m.CreateAccount(ctx, &low))

	svc, err := New(m, 0.95)
	require.NoError(t, err)

	count, err := svc.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	gotHigh, _ := m.AccountByID(ctx, high.ID)
	gotLow, _ := m.AccountByID(ctx, low.ID)
	require.Equal(t, int64(95), gotHigh.ValueCreation)
	require.Equal(t, int64(0), gotLow.ValueCreation, "floor(0.95) drops to zero")
}

func TestNewRejectsBadRetention(t *testing.T) {
	m := store.NewMemory()
	for _, factor := range []float64{0, -0.5, 1.5} {
		_, err := New(m, factor)
		require.Error(t, err, "retention %v", factor)
	}
}
