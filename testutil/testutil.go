package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/camden-git/organizer/database"
)

// OpenTestDB opens a fresh store in a temporary directory and closes it
// when the test ends.
func OpenTestDB(t *testing.T) *database.Handle {
	t.Helper()

	h, err := database.OpenOrRecreate(filepath.Join(t.TempDir(), "organizer.db"), database.Options{
		GormLogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, h.Close()) })
	return h
}
