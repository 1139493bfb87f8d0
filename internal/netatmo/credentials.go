package netatmo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultCredentialsFile is where credentials are looked up when no
	// explicit path is configured.
	DefaultCredentialsFile = "authorization.json"

	// DefaultScope is requested when the credentials omit a scope.
	DefaultScope = "read_station"
)

// ErrNoCredentials signals that no credentials were available at all, as
// opposed to credentials that exist but are malformed.
var ErrNoCredentials = errors.New("netatmo credentials not found")

var validate = validator.New()

// Credentials holds the account secrets for the password grant.
type Credentials struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required"`
	Scope        string `json:"scope"`
}

// LoadCredentials reads a credentials JSON file. A missing file reports
// ErrNoCredentials so callers can tell configuration absence apart from a
// broken file.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: supply NETATMO_* environment variables or create %s", ErrNoCredentials, path)
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	return DecodeCredentials(data)
}

// DecodeCredentials parses and validates a credentials document.
func DecodeCredentials(data []byte) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Validate checks that all required fields are present. Scope stays optional;
// Connect falls back to DefaultScope.
func (c *Credentials) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("credentials: %w", err)
	}
	return nil
}
