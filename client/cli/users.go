package cli

/**
implements the command line entries of the user commands
*/

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bcdev/ocdb-client/api"
	"github.com/bcdev/ocdb-client/common/client"
)

// password returns pw, hashed with the configured password-key if encrypt is
// set.
func password(cl *client.SimpleClient, pw string, encrypt bool) (string, error) {
	if !encrypt {
		return pw, nil
	}
	return cl.API.HashPassword(pw)
}

type addUserCmd struct {
	user    api.User
	encrypt bool
}

func (c *addUserCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		Args:  cobra.NoArgs,
	}
	f := r.Flags()
	f.StringVarP(&c.user.Name, "username", "u", "", "Username")
	f.StringVarP(&c.user.Password, "password", "p", "", "Password")
	f.StringVar(&c.user.FirstName, "first-name", "", "First name")
	f.StringVar(&c.user.LastName, "last-name", "", "Last name")
	f.StringVar(&c.user.Email, "email", "", "Email")
	f.StringVar(&c.user.Phone, "phone", "", "Phone")
	f.StringArrayVarP(&c.user.Roles, "roles", "r", nil, "Role, may be repeated")
	f.BoolVar(&c.encrypt, "encrypt", false, "Hash the password with the configured password-key")
	return r
}

func (c *addUserCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	u := c.user
	switch {
	case u.Name == "":
		return fmt.Errorf("Please give --username <username>.")
	case u.Password == "":
		return fmt.Errorf("Please give --password <password>.")
	case u.Email == "":
		return fmt.Errorf("Please give a --email <email>.")
	case len(u.Roles) == 0:
		return fmt.Errorf("Please give -r <role1> [-r <role2>]")
	}
	var err error
	if u.Password, err = password(cl, u.Password, c.encrypt); err != nil {
		return err
	}
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return cl.API.AddUser(ctx, u)
	})
}

// userNameCmd is a user command addressing one user by --username.
type userNameCmd struct {
	use   string
	short string
	name  string
	op    func(cl *client.SimpleClient, ctx context.Context, name string) (json.RawMessage, error)
}

func (c *userNameCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   c.use,
		Short: c.short,
		Args:  cobra.NoArgs,
	}
	r.Flags().StringVarP(&c.name, "username", "u", "", "User name")
	r.MarkFlagRequired("username")
	return r
}

func (c *userNameCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return c.op(cl, ctx, c.name)
	})
}

func newGetUserCmd() *userNameCmd {
	return &userNameCmd{use: "get", short: "Get user --username <username>",
		op: func(cl *client.SimpleClient, ctx context.Context, name string) (json.RawMessage, error) {
			return cl.API.GetUser(ctx, name)
		}}
}

func newDeleteUserCmd() *userNameCmd {
	return &userNameCmd{use: "delete", short: "Delete user --username <username>",
		op: func(cl *client.SimpleClient, ctx context.Context, name string) (json.RawMessage, error) {
			return cl.API.DeleteUser(ctx, name)
		}}
}

type updateUserCmd struct {
	name  string
	key   string
	value string
}

func (c *updateUserCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "update",
		Short: "Update a field of an existing user",
		Args:  cobra.NoArgs,
	}
	r.Flags().StringVarP(&c.name, "username", "u", "", "Username")
	r.Flags().StringVarP(&c.key, "key", "k", "", "Key (e.g. email)")
	r.Flags().StringVarP(&c.value, "value", "v", "", "Value for the field. Key may be name, password, first_name, "+
		"last_name, email, phone or roles (comma separated)")
	return r
}

func (c *updateUserCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	switch {
	case c.name == "":
		return fmt.Errorf("Please give --username <username>.")
	case c.key == "":
		return fmt.Errorf("Please give --key <key>.")
	case c.value == "":
		return fmt.Errorf("Please give --value <value>.")
	}
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return cl.API.UpdateUser(ctx, c.name, c.key, c.value)
	})
}

type passwordUserCmd struct {
	name        string
	oldPassword string
	newPassword string
	encrypt     bool
}

func (c *passwordUserCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "password",
		Short: "Set the password of an existing user",
		Args:  cobra.NoArgs,
	}
	r.Flags().StringVarP(&c.name, "username", "u", "", "Username")
	r.Flags().StringVar(&c.oldPassword, "old-password", "", "Old password")
	r.Flags().StringVarP(&c.newPassword, "password", "p", "", "New password")
	r.Flags().BoolVar(&c.encrypt, "encrypt", false, "Hash both passwords with the configured password-key")
	return r
}

func (c *passwordUserCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	switch {
	case c.name == "":
		return fmt.Errorf("Please give --username <username>.")
	case c.newPassword == "":
		return fmt.Errorf("Please give a NEW <password>.")
	case c.oldPassword == "":
		return fmt.Errorf("Please give your OLD <password>.")
	}
	oldPw, err := password(cl, c.oldPassword, c.encrypt)
	if err != nil {
		return err
	}
	newPw, err := password(cl, c.newPassword, c.encrypt)
	if err != nil {
		return err
	}
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return cl.API.ChangePassword(ctx, c.name, oldPw, newPw)
	})
}

type loginUserCmd struct {
	name     string
	password string
	encrypt  bool
}

func (c *loginUserCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "login",
		Short: "Login a user, prompting for missing credentials",
		Args:  cobra.NoArgs,
	}
	r.Flags().StringVarP(&c.name, "username", "u", "", "Username")
	r.Flags().StringVarP(&c.password, "password", "p", "", "Password")
	r.Flags().BoolVar(&c.encrypt, "encrypt", false, "Hash the password with the configured password-key")
	return r
}

func (c *loginUserCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	name, pw := c.name, c.password
	prompt := client.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	var err error
	if name == "" {
		if name, err = prompt.Ask("User name:", false); err != nil {
			return err
		}
	}
	if pw == "" {
		if pw, err = prompt.Ask("Password:", true); err != nil {
			return err
		}
	}
	if pw, err = password(cl, pw, c.encrypt); err != nil {
		return err
	}
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return cl.API.LoginUser(ctx, name, pw)
	})
}
