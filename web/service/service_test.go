package service

import (
	"path/filepath"
	"testing"

	"github.com/drinkrate/drinkrate/config"
	"github.com/drinkrate/drinkrate/database"

	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.InitDB(config.NewSQLiteConfig(filepath.Join(t.TempDir(), "drinkrate.db"))))
	t.Cleanup(func() { _ = database.CloseDB() })
}

func mustRegister(t *testing.T, username string) int {
	t.Helper()
	accountService := AccountService{}
	id, err := accountService.Register(username, username+"-pw")
	require.NoError(t, err)
	return id
}
