package cli

/**
implements the command line entry for the configuration command
*/

import (
	"github.com/spf13/cobra"

	"github.com/bcdev/ocdb-client/common/client"
)

type confCmd struct{}

func (c *confCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "conf [name [value]]",
		Short: "Configuration management",
		Long: "Set configuration parameter NAME to VALUE, display configuration parameter NAME,\n" +
			"or display all configuration parameters.",
		Args: cobra.MaximumNArgs(2),
	}
}

func (c *confCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	if len(args) == 2 {
		return cl.API.SetConfigParam(args[0], args[1], true)
	}
	cfg, err := cl.API.Config()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg = map[string]interface{}{args[0]: cfg[args[0]]}
	}
	return cl.DumpValue(cmd.OutOrStdout(), cfg)
}
