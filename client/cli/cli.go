package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bcdev/ocdb-client/api"
	"github.com/bcdev/ocdb-client/common"
	commoncli "github.com/bcdev/ocdb-client/common/client"
	"github.com/bcdev/ocdb-client/common/errors"
	"github.com/bcdev/ocdb-client/common/resolver"
	"github.com/bcdev/ocdb-client/common/stats"
	"github.com/bcdev/ocdb-client/config"
	"github.com/bcdev/ocdb-client/config/jsonconfig"
)

const serverURLEnv = "EOCDB_SERVER_URL"

// OCDBCLIClient includes fields required for CLI client handling
type OCDBCLIClient struct {
	commoncli.SimpleClient
}

func (c *OCDBCLIClient) Exec() error {
	return c.RootCmd.Execute()
}

// NewCLIClient builds the command tree. A nil store selects the JSON file
// named by --config; a nil doer selects the pester client.
func NewCLIClient(store config.Store, doer api.Doer) (*OCDBCLIClient, error) {
	c := &OCDBCLIClient{}
	c.Store = store
	c.HTTPClient = doer

	c.RootCmd = &cobra.Command{
		Use:                "ocdb-cli",
		Short:              "EUMETSAT Ocean Color In-Situ Database Client",
		Version:            common.Version,
		SilenceUsage:       true,
		PersistentPreRunE:  c.Init,
		PersistentPostRunE: c.Close,
	}
	flags := c.RootCmd.PersistentFlags()
	flags.StringVar(&c.ServerURL, "server", "", "OC-DB server URL, overrides the configured server_url. Defaults to $"+serverURLEnv)
	flags.StringVar(&c.ConfigPath, "config", "", "Configuration file. Defaults to ~/"+config.DefaultDirName+"/"+config.DefaultFileName)
	flags.StringVar(&c.LogLevel, "log_level", "warn", "Log everything at this level and above (error|warn|info|debug)")
	flags.StringVar(&c.Output, "output", commoncli.OutputJSON, "Output format of results (json|yaml)")
	flags.DurationVar(&c.Timeout, "timeout", common.DefaultClientTimeout, "Timeout of each request, 0 for none")
	flags.IntVar(&c.HTTPTries, "http-tries", common.DefaultHTTPTries, "Number of attempts per request")
	flags.BoolVar(&c.PrintStats, "stats", false, "Print request stats to stderr when done")

	c.addCmd(c.RootCmd, &confCmd{})
	c.addCmd(c.RootCmd, &licenseCmd{})

	ds := groupCmd("ds", "Dataset management.")
	c.addCmd(ds, &findDatasetsCmd{})
	c.addCmd(ds, &getDatasetCmd{})
	c.addCmd(ds, &listDatasetsCmd{})
	c.addCmd(ds, newAddDatasetCmd())
	c.addCmd(ds, newUpdateDatasetCmd())
	c.addCmd(ds, newDeleteDatasetCmd())
	c.addCmd(ds, newValidateDatasetCmd())
	c.addCmd(ds, newGetDatasetsBySubmissionCmd())
	c.addCmd(ds, newDeleteDatasetsBySubmissionCmd())
	c.addCmd(ds, &downloadDatasetsCmd{})

	sbm := groupCmd("sbm", "Submission management.")
	c.addCmd(sbm, &uploadSubmissionCmd{})
	c.addCmd(sbm, newGetSubmissionCmd())
	c.addCmd(sbm, newGetSubmissionsForUserCmd())
	c.addCmd(sbm, newDeleteSubmissionCmd())
	c.addCmd(sbm, &updateSubmissionStatusCmd{})

	sbmfile := groupCmd("sbmfile", "Submission file management.")
	c.addCmd(sbmfile, &getSubmissionFileCmd{})
	c.addCmd(sbmfile, &downloadSubmissionFileCmd{})
	c.addCmd(sbmfile, &uploadSubmissionFileCmd{})
	c.addCmd(sbmfile, newValidateSubmissionFileCmd())

	user := groupCmd("user", "User management.")
	c.addCmd(user, &addUserCmd{})
	c.addCmd(user, newGetUserCmd())
	c.addCmd(user, newDeleteUserCmd())
	c.addCmd(user, &updateUserCmd{})
	c.addCmd(user, &passwordUserCmd{})
	c.addCmd(user, &loginUserCmd{})

	c.RootCmd.AddCommand(ds, sbm, sbmfile, user)
	return c, nil
}

// Can only be called from cobra command run or hook
func (c *OCDBCLIClient) Init(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Error(err)
		return err
	}
	log.SetLevel(level)

	if c.Store == nil {
		path := c.ConfigPath
		if path == "" {
			path = config.DefaultPath()
		}
		log.Debugf("Using config file %s", path)
		c.Store = jsonconfig.NewFileStore(path)
	}
	if c.HTTPClient == nil {
		c.HTTPClient = api.MakePesterClient(c.HTTPTries, c.Timeout)
	}
	if c.PrintStats {
		c.Stats = stats.DefaultStatsReceiver()
	} else {
		c.Stats = stats.NilStatsReceiver()
	}

	serverURL, err := resolver.NewCompositeResolver(
		resolver.NewConstantResolver(c.ServerURL),
		resolver.NewEnvResolver(serverURLEnv),
	).Resolve()
	if err != nil && err != resolver.ErrUnresolved {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}

	c.API, err = api.NewClient(api.ClientConfig{
		Store:      c.Store,
		HTTPClient: c.HTTPClient,
		Stats:      c.Stats,
		ServerURL:  serverURL,
	})
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}
	return nil
}

// Needs cobra parameters for use from rootCmd
func (c *OCDBCLIClient) Close(cmd *cobra.Command, args []string) error {
	if c.PrintStats && c.Stats != nil {
		cmd.ErrOrStderr().Write(append(c.Stats.Render(true), '\n'))
	}
	return nil
}

func groupCmd(use, short string) *cobra.Command {
	return &cobra.Command{Use: use, Short: short}
}

func (c *OCDBCLIClient) addCmd(parent *cobra.Command, cmd commoncli.Cmd) {
	cobraCmd := cmd.RegisterFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		return exitError(cmd.Run(&c.SimpleClient, innerCmd, args))
	}
	parent.AddCommand(cobraCmd)
}

// exitError attaches the process exit code matching the kind of failure.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errors.ExitCodeError); ok {
		return err
	}
	switch code := api.StatusCodeOf(err); {
	case code >= 500:
		return errors.NewError(err, errors.ServerErrorStatusExitCode)
	case code >= 400:
		return errors.NewError(err, errors.ClientErrorStatusExitCode)
	}
	if api.IsRequestError(err) {
		return errors.NewError(err, errors.RequestFailureExitCode)
	}
	if err == api.ErrServerURLNotConfigured {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}
	return err
}
