package archive_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/accountability/internal/archive"
	"github.com/limbo/accountability/pkg/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRegistryStoresMoneyAsString(t *testing.T) {
	reg := archive.NewRegistry()
	window := entity.WeekWindowFor(time.Date(2026, time.January, 21, 0, 0, 0, 0, time.UTC))
	report := entity.NewEmptyReport(uuid.New(), window, time.Date(2026, time.January, 21, 18, 0, 0, 0, time.UTC))
	report.Cohort = "january 2026"
	report.Summary.TotalCharges = decimal.RequireFromString("3.50")
	report.PoolSummary.TopContributors = []entity.PoolContributor{{Name: "Lea", Amount: decimal.RequireFromString("3.50")}}

	data, err := bson.MarshalWithRegistry(reg, report)
	require.NoError(t, err)

	raw := bson.Raw(data)
	assert.Equal(t, "3.5", raw.Lookup("summary", "totalCharges").StringValue())
	assert.Equal(t, report.RunID.String(), raw.Lookup("runId").StringValue())

	var decoded entity.WeeklyAccountabilityReport
	require.NoError(t, bson.UnmarshalWithRegistry(reg, data, &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)
	assert.True(t, report.Summary.TotalCharges.Equal(decoded.Summary.TotalCharges))
	require.Len(t, decoded.PoolSummary.TopContributors, 1)
	assert.True(t, decimal.RequireFromString("3.5").Equal(decoded.PoolSummary.TopContributors[0].Amount))
	assert.Equal(t, report.WeekStart, decoded.WeekStart)
}

func TestRegistryRejectsBadMoney(t *testing.T) {
	reg := archive.NewRegistry()
	data, err := bson.Marshal(bson.M{"name": "Lea", "amount": "three"})
	require.NoError(t, err)
	var contributor entity.PoolContributor
	assert.Error(t, bson.UnmarshalWithRegistry(reg, data, &contributor))
}
