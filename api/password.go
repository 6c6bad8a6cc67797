package api

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/bcdev/ocdb-client/config"
)

var ErrNoPasswordKey = errors.New("password-key must be set: ocdb conf password-key [key].")

// Encrypt returns the hex HMAC-SHA512 of txt keyed with key.
func Encrypt(txt, key string) (string, error) {
	if key == "" {
		return "", ErrNoPasswordKey
	}
	mac := hmac.New(sha512.New, []byte(key))
	mac.Write([]byte(txt))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// HashPassword encrypts password with the configured password-key.
func (c *Client) HashPassword(password string) (string, error) {
	key, err := c.ConfigParam(config.PasswordKey)
	if err != nil {
		return "", err
	}
	return Encrypt(password, key)
}
