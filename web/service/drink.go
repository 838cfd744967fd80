package service

import (
	"fmt"

	"github.com/drinkrate/drinkrate/database"
	"github.com/drinkrate/drinkrate/database/model"
	"github.com/drinkrate/drinkrate/web/entity"

	"gorm.io/gorm"
)

// DrinkService manages drinks. Every query is restricted to the drinks of the
// given account.
type DrinkService struct{}

func (s *DrinkService) List(accountId int) ([]model.Drink, error) {
	drinks := make([]model.Drink, 0)
	err := database.GetDB().Model(model.Drink{}).
		Where("account_id = ?", accountId).
		Order("id asc").
		Find(&drinks).
		Error
	if err != nil {
		return nil, fmt.Errorf("list drinks: %w", err)
	}
	return drinks, nil
}

func (s *DrinkService) Get(accountId int, drinkId int) (*model.Drink, error) {
	return s.getOwned(database.GetDB(), accountId, drinkId)
}

func (s *DrinkService) getOwned(tx *gorm.DB, accountId int, drinkId int) (*model.Drink, error) {
	drink := &model.Drink{}
	err := tx.Model(model.Drink{}).
		Where("id = ? AND account_id = ?", drinkId, accountId).
		First(drink).
		Error
	if database.IsNotFound(err) {
		return nil, fmt.Errorf("%w: drink %d", ErrNotFound, drinkId)
	} else if err != nil {
		return nil, err
	}
	return drink, nil
}

// nameTaken reports whether any drink other than exceptId already uses name.
func (s *DrinkService) nameTaken(tx *gorm.DB, name string, exceptId int) (bool, error) {
	var count int64
	err := tx.Model(model.Drink{}).
		Where("name = ? AND id <> ?", name, exceptId).
		Count(&count).
		Error
	return count > 0, err
}

// Create stores a new drink for accountId and returns its id.
func (s *DrinkService) Create(accountId int, form entity.DrinkForm) (int, error) {
	if !form.Complete() {
		return 0, fmt.Errorf("%w: name, price and rating are required", ErrInvalidInput)
	}

	drink := &model.Drink{
		AccountId:   accountId,
		Name:        *form.Name,
		Price:       *form.Price,
		Rating:      *form.Rating,
		Description: form.Description,
	}
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		taken, err := s.nameTaken(tx, drink.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: drink name already exists", ErrConflict)
		}
		return tx.Create(drink).Error
	})
	if database.IsDuplicate(err) {
		return 0, fmt.Errorf("%w: drink name already exists", ErrConflict)
	}
	if err != nil {
		return 0, err
	}
	return drink.Id, nil
}

// Update applies the present fields of patch. An empty patch only checks that
// the drink exists.
func (s *DrinkService) Update(accountId int, drinkId int, patch entity.DrinkPatch) error {
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		drink, err := s.getOwned(tx, accountId, drinkId)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			return nil
		}
		if patch.Name.Set && patch.Name.Value != drink.Name {
			taken, err := s.nameTaken(tx, patch.Name.Value, drink.Id)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: drink name already exists", ErrConflict)
			}
		}
		return tx.Model(drink).Updates(patch.Columns()).Error
	})
	if database.IsDuplicate(err) {
		return fmt.Errorf("%w: drink name already exists", ErrConflict)
	}
	return err
}

// Delete permanently removes a drink owned by accountId.
func (s *DrinkService) Delete(accountId int, drinkId int) error {
	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND account_id = ?", drinkId, accountId).Delete(&model.Drink{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: drink %d", ErrNotFound, drinkId)
		}
		return nil
	})
}
