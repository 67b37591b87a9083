package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds statements without executing them. The postgres driver
// opens its pool lazily, so no server is needed to render SQL.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "host=localhost user=postgres dbname=academy sslmode=disable",
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

// The serialized validate-and-commit paths depend on these lookups taking a
// row lock; a query without FOR UPDATE would let concurrent writers slip
// past each other.
func TestFindByIDForUpdate_EmitsRowLock(t *testing.T) {
	db := dryRunDB(t)

	var captured string
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
	}))

	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name string
		call func() error
	}{
		{"coach user", func() error {
			_, err := NewUserRepository(db).FindByIDForUpdate(ctx, db, id)
			return err
		}},
		{"program", func() error {
			_, err := NewProgramRepository(db).FindByIDForUpdate(ctx, db, id)
			return err
		}},
		{"branch", func() error {
			_, err := NewBranchRepository(db).FindByIDForUpdate(ctx, db, id)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured = ""
			require.NoError(t, tt.call())
			assert.Contains(t, captured, "FOR UPDATE", "lookup must lock the row it reads")
		})
	}
}
