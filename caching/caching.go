// Package caching keeps recently confirmed accounts in memory so that the
// session check does not hit the database on every request.
package caching

import (
	"strconv"
	"time"

	"github.com/drinkrate/drinkrate/database/model"

	"github.com/patrickmn/go-cache"
)

// AccountResolver loads an account by id.
type AccountResolver interface {
	GetAccount(id int) (*model.Account, error)
}

// AccountCache is an AccountResolver that remembers successful lookups for
// ttl. Failed lookups are never cached.
type AccountCache struct {
	resolver AccountResolver
	memory   *cache.Cache
}

func NewAccountCache(resolver AccountResolver, ttl time.Duration) *AccountCache {
	return &AccountCache{
		resolver: resolver,
		memory:   cache.New(ttl, 2*ttl),
	}
}

func (c *AccountCache) GetAccount(id int) (*model.Account, error) {
	key := strconv.Itoa(id)
	if v, ok := c.memory.Get(key); ok {
		account := v.(model.Account)
		return &account, nil
	}

	account, err := c.resolver.GetAccount(id)
	if err != nil {
		return nil, err
	}
	c.memory.SetDefault(key, *account)
	return account, nil
}
