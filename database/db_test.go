package database

import (
	"path/filepath"
	"testing"

	"github.com/drinkrate/drinkrate/config"
	"github.com/drinkrate/drinkrate/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	require.NoError(t, InitDB(config.NewSQLiteConfig(dbPath)))
	t.Cleanup(func() { _ = CloseDB() })
}

func TestInitDBMigratesModels(t *testing.T) {
	setup(t)

	for _, table := range []string{"accounts", "drinks", "settings"} {
		assert.True(t, GetDB().Migrator().HasTable(table), table)
	}
	assert.True(t, IsSQLite())
	assert.NoError(t, Checkpoint())
}

func TestInitDBRejectsInvalidConfig(t *testing.T) {
	assert.Error(t, InitDB(config.NewSQLiteConfig("")))
}

func TestUniqueViolationIsTranslated(t *testing.T) {
	setup(t)

	db := GetDB()
	require.NoError(t, db.Create(&model.Account{Username: "alice", PasswordHash: "x"}).Error)
	err := db.Create(&model.Account{Username: "alice", PasswordHash: "y"}).Error
	assert.True(t, IsDuplicate(err))

	var account model.Account
	err = db.Where("username = ?", "bob").First(&account).Error
	assert.True(t, IsNotFound(err))
}

func TestDrinkRequiresExistingAccount(t *testing.T) {
	setup(t)

	err := GetDB().Create(&model.Drink{AccountId: 42, Name: "Orphan", Price: 1, Rating: 1}).Error
	assert.Error(t, err)
}
