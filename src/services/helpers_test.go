package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/finansdefter/backend/src/database"
	"github.com/username/finansdefter/backend/src/model"
)

func newSQLStore(t *testing.T) *model.Store {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return model.NewStore(db)
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }
