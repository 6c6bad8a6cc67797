package api

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/bcdev/ocdb-client/common"
)

type User struct {
	Name      string   `json:"name"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Password  string   `json:"password"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Roles     []string `json:"roles"`
}

func userPath(name string) string {
	return "/users/" + url.PathEscape(name)
}

func (c *Client) AddUser(ctx context.Context, u User) (json.RawMessage, error) {
	if u.Roles == nil {
		u.Roles = []string{}
	}
	return c.doJSON(ctx, "addUser", "POST", "/users", u)
}

func (c *Client) GetUser(ctx context.Context, name string) (json.RawMessage, error) {
	return c.do(ctx, "getUser", "GET", userPath(name), "", nil)
}

func (c *Client) DeleteUser(ctx context.Context, name string) (json.RawMessage, error) {
	return c.do(ctx, "deleteUser", "DELETE", userPath(name), "", nil)
}

// UpdateUser fetches the user, replaces the value of key and writes the
// record back. The key "roles" takes a comma separated list.
func (c *Client) UpdateUser(ctx context.Context, name, key, value string) (json.RawMessage, error) {
	if key == "" {
		return nil, errors.New("user key must be specified")
	}
	user, err := c.GetUser(ctx, name)
	if err != nil {
		return nil, err
	}
	if !gjson.ParseBytes(user).IsObject() {
		return nil, errors.Errorf("user %q: expected a JSON object, got %.200s", name, user)
	}
	var updated []byte
	if key == "roles" {
		roles := common.SplitCommaSep(value)
		if roles == nil {
			roles = []string{}
		}
		updated, err = sjson.SetBytes(user, key, roles)
	} else {
		updated, err = sjson.SetBytes(user, key, value)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "set %s of user %q", key, name)
	}
	log.Debugf("Updating user %q: %s -> %s", name, key, gjson.GetBytes(updated, key).Raw)
	return c.do(ctx, "updateUser", "PUT", userPath(name), "application/json", updated)
}

// ChangePassword replaces the password of a user. oldPassword is checked by
// logging in first.
func (c *Client) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) (json.RawMessage, error) {
	if _, err := c.LoginUser(ctx, name, oldPassword); err != nil {
		return nil, errors.Wrap(err, "old password check")
	}
	return c.UpdateUser(ctx, name, "password", newPassword)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) LoginUser(ctx context.Context, name, password string) (json.RawMessage, error) {
	return c.doJSON(ctx, "loginUser", "POST", "/users/login", credentials{Username: name, Password: password})
}
