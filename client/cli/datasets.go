package cli

/**
implements the command line entries of the dataset commands
*/

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bcdev/ocdb-client/api"
	"github.com/bcdev/ocdb-client/common/client"
)

// runAndDump calls op with a context bounded by --timeout and prints its result.
func runAndDump(cl *client.SimpleClient, cmd *cobra.Command, op func(ctx context.Context) (json.RawMessage, error)) error {
	ctx, cancel := cl.Context()
	defer cancel()
	result, err := op(ctx)
	if err != nil {
		return err
	}
	return cl.Dump(cmd.OutOrStdout(), result)
}

type findDatasetsCmd struct {
	query   api.FindQuery
	geoJSON bool
}

func (c *findDatasetsCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "find",
		Short: "Find datasets using query expression <expr>",
		Args:  cobra.NoArgs,
	}
	f := r.Flags()
	f.StringVar(&c.query.Expr, "expr", "", "Query expression")
	f.IntVar(&c.query.Offset, "offset", 1, "Results offset. Offset of first result is 1.")
	f.IntVar(&c.query.Count, "count", 1000, "Maximum number of results.")
	f.StringVar(&c.query.Region, "region", "", "Bounding box lon1,lat1,lon2,lat2")
	f.StringVar(&c.query.Time, "time", "", "Time range start,end")
	f.StringVar(&c.query.WDepth, "wdepth", "", "Water depth range min,max")
	f.StringVar(&c.query.MType, "mtype", "", "Measurement type")
	f.StringVar(&c.query.WLMode, "wlmode", "", "Wavelength mode")
	f.StringVar(&c.query.Shallow, "shallow", "", "Include shallow waters (no|yes|exclusively)")
	f.StringVar(&c.query.PMode, "pmode", "", "Product mode")
	f.StringVar(&c.query.PGroup, "pgroup", "", "Product group")
	f.StringVar(&c.query.PName, "pname", "", "Product name")
	f.StringVar(&c.query.UserID, "user-id", "", "Only datasets submitted by this user")
	f.BoolVar(&c.geoJSON, "geojson", false, "Return results as GeoJSON")
	return r
}

func (c *findDatasetsCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	q := c.query
	if q.Expr == "" && q.Region == "" && q.Time == "" && q.WDepth == "" && q.MType == "" &&
		q.WLMode == "" && q.Shallow == "" && q.PMode == "" &&
		q.PGroup == "" && q.PName == "" && q.UserID == "" {
		return fmt.Errorf("Please give an <expr>.")
	}
	if cmd.Flags().Changed("geojson") {
		q.GeoJSON = &c.geoJSON
	}
	log.Infof("Finding datasets %+v", q)
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return cl.API.FindDatasets(ctx, q)
	})
}

type getDatasetCmd struct {
	id   string
	path string
}

func (c *getDatasetCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "get",
		Short: "Get dataset with given <id> or <path>",
		Args:  cobra.NoArgs,
	}
	r.Flags().StringVar(&c.id, "id", "", "Dataset ID")
	r.Flags().StringVarP(&c.path, "path", "p", "", "Dataset path of the form affil/project/cruise/name")
	return r
}

func (c *getDatasetCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	if (c.id == "") == (c.path == "") {
		return fmt.Errorf("Either <id> or <path> must be given.")
	}
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		if c.id != "" {
			return cl.API.GetDataset(ctx, c.id)
		}
		return cl.API.GetDatasetByName(ctx, c.path)
	})
}

type listDatasetsCmd struct{}

func (c *listDatasetsCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "list <path>",
		Short: "List datasets in <path> of the form affil/project/cruise",
		Args:  cobra.ExactArgs(1),
	}
}

func (c *listDatasetsCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return cl.API.ListDatasetsInPath(ctx, args[0])
	})
}

type downloadDatasetsCmd struct {
	ids     []string
	docs    bool
	outFile string
	dir     string
}

func (c *downloadDatasetsCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "download",
		Short: "Download dataset files --dataset-ids <id> --download-docs [--out-file <out-file>]",
		Args:  cobra.NoArgs,
	}
	r.Flags().StringArrayVarP(&c.ids, "dataset-ids", "i", nil, "Dataset ID, may be repeated")
	r.Flags().BoolVar(&c.docs, "download-docs", false, "Get documentation files, too")
	r.Flags().StringVarP(&c.outFile, "out-file", "o", api.DefaultDownloadFile, "Name of the downloaded zip file")
	r.Flags().StringVar(&c.dir, "dir", ".", "Directory the zip file is extracted to")
	return r
}

func (c *downloadDatasetsCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	ctx, cancel := cl.Context()
	defer cancel()
	msg, err := cl.API.DownloadDatasets(ctx, c.ids, c.docs, c.outFile, c.dir)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
	return err
}

// fileCmd is a dataset command taking a single file argument.
type fileCmd struct {
	use   string
	short string
	op    func(cl *client.SimpleClient, ctx context.Context, file string) (json.RawMessage, error)
}

func (c *fileCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   c.use + " <file>",
		Short: c.short,
		Args:  cobra.ExactArgs(1),
	}
}

func (c *fileCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return c.op(cl, ctx, args[0])
	})
}

// idCmd is a command taking a single identifier argument.
type idCmd struct {
	use   string
	short string
	op    func(cl *client.SimpleClient, ctx context.Context, id string) (json.RawMessage, error)
}

func (c *idCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   c.use,
		Short: c.short,
		Args:  cobra.ExactArgs(1),
	}
}

func (c *idCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return c.op(cl, ctx, args[0])
	})
}

func newAddDatasetCmd() *fileCmd {
	return &fileCmd{"add", "Add dataset <file>", func(cl *client.SimpleClient, ctx context.Context, file string) (json.RawMessage, error) {
		return cl.API.AddDataset(ctx, file)
	}}
}

func newUpdateDatasetCmd() *fileCmd {
	return &fileCmd{"upd", "Update dataset <file>", func(cl *client.SimpleClient, ctx context.Context, file string) (json.RawMessage, error) {
		return cl.API.UpdateDataset(ctx, file)
	}}
}

func newValidateDatasetCmd() *fileCmd {
	return &fileCmd{"validate", "Validate dataset <file>", func(cl *client.SimpleClient, ctx context.Context, file string) (json.RawMessage, error) {
		return cl.API.ValidateDataset(ctx, file)
	}}
}

func newDeleteDatasetCmd() *idCmd {
	return &idCmd{"del <id>", "Delete dataset given by <id>", func(cl *client.SimpleClient, ctx context.Context, id string) (json.RawMessage, error) {
		return cl.API.DeleteDataset(ctx, id)
	}}
}

func newGetDatasetsBySubmissionCmd() *idCmd {
	return &idCmd{"get-by-sb <submission-id>", "Get datasets by <submission-id>", func(cl *client.SimpleClient, ctx context.Context, id string) (json.RawMessage, error) {
		return cl.API.GetDatasetsBySubmission(ctx, id)
	}}
}

func newDeleteDatasetsBySubmissionCmd() *idCmd {
	return &idCmd{"del-by-sb <submission-id>", "Delete datasets by <submission-id>", func(cl *client.SimpleClient, ctx context.Context, id string) (json.RawMessage, error) {
		return cl.API.DeleteDatasetsBySubmission(ctx, id)
	}}
}
