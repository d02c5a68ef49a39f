// Package dbtest starts a disposable MongoDB for integration tests.
package dbtest

import (
	"context"
	"testing"

	"dishtalgia-backend/internal/config"
	"dishtalgia-backend/internal/database"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func Setup(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := database.Connect(ctx, &config.MongoConfig{URI: uri, Database: "testdb"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })

	return db
}
