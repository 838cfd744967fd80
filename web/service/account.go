package service

import (
	"fmt"

	"github.com/drinkrate/drinkrate/database"
	"github.com/drinkrate/drinkrate/database/model"
	"github.com/drinkrate/drinkrate/logger"
	"github.com/drinkrate/drinkrate/util/crypto"

	"gorm.io/gorm"
)

// AccountService registers accounts and verifies their credentials.
type AccountService struct{}

// Register creates an account and returns its id.
func (s *AccountService) Register(username string, password string) (int, error) {
	if username == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{Username: username, PasswordHash: hash}
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(model.Account{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: username already exists", ErrConflict)
		}
		return tx.Create(account).Error
	})
	if database.IsDuplicate(err) {
		return 0, fmt.Errorf("%w: username already exists", ErrConflict)
	}
	if err != nil {
		return 0, err
	}
	return account.Id, nil
}

// Verify returns the account matching the credentials, or nil. Unknown users,
// wrong passwords and store faults are indistinguishable to the caller.
func (s *AccountService) Verify(username string, password string) *model.Account {
	db := database.GetDB()

	account := &model.Account{}
	err := db.Model(model.Account{}).
		Where("username = ?", username).
		First(account).
		Error
	if database.IsNotFound(err) {
		return nil
	} else if err != nil {
		logger.Warning("verify account err:", err)
		return nil
	}

	if !crypto.CheckPassword(account.PasswordHash, password) {
		return nil
	}
	return account
}

// GetAccount loads an account by id.
func (s *AccountService) GetAccount(id int) (*model.Account, error) {
	account := &model.Account{}
	err := database.GetDB().Model(model.Account{}).Where("id = ?", id).First(account).Error
	if database.IsNotFound(err) {
		return nil, fmt.Errorf("%w: account %d", ErrNotFound, id)
	} else if err != nil {
		return nil, err
	}
	return account, nil
}
