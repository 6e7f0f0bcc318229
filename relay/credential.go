package relay

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	service = "kissbridge"
	user    = "mediaflow-api-password"
)

// SetPassword persists the relay password to the system keyring.
func SetPassword(password string) error {
	return keyring.Set(service, user, password)
}

// GetPassword retrieves the relay password from the system keyring.
func GetPassword() (string, error) {
	return keyring.Get(service, user)
}

// DeletePassword removes the relay password from the system keyring.
// Deleting a password that was never stored is not an error.
func DeletePassword() error {
	if err := keyring.Delete(service, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
