// Package entity defines the request and response shapes used by the web layer.
package entity

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Msg is the body of every plain message response.
type Msg struct {
	Message string `json:"message"`
}

// CredentialsForm is the body of register and login requests.
type CredentialsForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// RegisterResult is returned after a successful registration.
type RegisterResult struct {
	Message string `json:"message"`
	Id      int    `json:"id"`
}

// LoginResult tells the client where to continue after login.
type LoginResult struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// DrinkForm is the body of a create request. A nil field was absent.
type DrinkForm struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Rating      *float64 `json:"rating"`
	Description *string  `json:"description"`
}

// Complete reports whether every required field is present.
func (f *DrinkForm) Complete() bool {
	return f.Name != nil && *f.Name != "" && f.Price != nil && f.Rating != nil
}

// DrinkView is a drink as returned by the list endpoint.
type DrinkView struct {
	Id          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Description *string `json:"description"`
}

// DrinkDetail is a drink as returned by the single-drink endpoint.
type DrinkDetail struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Description *string `json:"description"`
}

type DrinkList struct {
	Drinks []DrinkView `json:"drinks"`
}

type CreatedDrink struct {
	Id      int    `json:"id"`
	Message string `json:"message"`
}

// Optional distinguishes an absent field from a present zero value.
type Optional[T any] struct {
	Set   bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// DrinkPatch carries the fields of a partial update. Description may be set
// to nil, which clears the stored description.
type DrinkPatch struct {
	Name        Optional[string]
	Price       Optional[float64]
	Rating      Optional[float64]
	Description Optional[*string]
}

// IsEmpty reports whether the patch changes nothing.
func (p DrinkPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Price.Set && !p.Rating.Set && !p.Description.Set
}

// Columns returns the column updates described by the patch.
func (p DrinkPatch) Columns() map[string]any {
	cols := make(map[string]any)
	if p.Name.Set {
		cols["name"] = p.Name.Value
	}
	if p.Price.Set {
		cols["price"] = p.Price.Value
	}
	if p.Rating.Set {
		cols["rating"] = p.Rating.Value
	}
	if p.Description.Set {
		cols["description"] = p.Description.Value
	}
	return cols
}

var ErrMalformedPatch = errors.New("malformed drink patch")

var jsonNull = []byte("null")

// ParseDrinkPatch decodes a JSON object into a DrinkPatch. Unknown keys are
// ignored. Name, price and rating may not be null.
func ParseDrinkPatch(data []byte) (DrinkPatch, error) {
	var patch DrinkPatch
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return patch, fmt.Errorf("%w: body must be a JSON object", ErrMalformedPatch)
	}

	if v, ok := raw["name"]; ok {
		var name string
		if err := decodeRequired(v, &name); err != nil || name == "" {
			return patch, fmt.Errorf("%w: name", ErrMalformedPatch)
		}
		patch.Name = Some(name)
	}
	if v, ok := raw["price"]; ok {
		var price float64
		if err := decodeRequired(v, &price); err != nil {
			return patch, fmt.Errorf("%w: price", ErrMalformedPatch)
		}
		patch.Price = Some(price)
	}
	if v, ok := raw["rating"]; ok {
		var rating float64
		if err := decodeRequired(v, &rating); err != nil {
			return patch, fmt.Errorf("%w: rating", ErrMalformedPatch)
		}
		patch.Rating = Some(rating)
	}
	if v, ok := raw["description"]; ok {
		var description *string
		if err := json.Unmarshal(v, &description); err != nil {
			return patch, fmt.Errorf("%w: description", ErrMalformedPatch)
		}
		patch.Description = Some(description)
	}
	return patch, nil
}

func decodeRequired(v json.RawMessage, dst any) error {
	if bytes.Equal(bytes.TrimSpace(v), jsonNull) {
		return errors.New("null value")
	}
	return json.Unmarshal(v, dst)
}

// AllSetting is the runtime web configuration stored in the settings table.
type AllSetting struct {
	WebListen      string `json:"webListen"`
	WebPort        int    `json:"webPort"`
	WebCertFile    string `json:"webCertFile"`
	WebKeyFile     string `json:"webKeyFile"`
	WebBasePath    string `json:"webBasePath"`
	SessionMaxAge  int    `json:"sessionMaxAge"` // minutes
	TimeLocation   string `json:"timeLocation"`
	CheckpointCron string `json:"checkpointCron"`
}
