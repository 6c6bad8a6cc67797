package cli

/**
implements the command line entries of the submission commands
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

type uploadSubmissionCmd struct {
	docFiles         []string
	submissionID     string
	publicationDate  string
	allowPublication bool
	userID           string
}

func (c *uploadSubmissionCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "upload <store_path> <dataset-file> ...",
		Short: "Upload multiple dataset and documentation files",
		Args:  cobra.MinimumNArgs(1),
	}
	r.Flags().StringArrayVarP(&c.docFiles, "doc-file", "d", nil, "Documentation file, may be repeated")
	r.Flags().StringVarP(&c.submissionID, "submission-id", "s", "", "Submission ID")
	r.Flags().StringVar(&c.publicationDate, "publication-date", "", "Date for publication")
	r.Flags().BoolVar(&c.allowPublication, "allow-publication", false, "Agree to publish the data")
	r.Flags().StringVar(&c.userID, "user-id", api.DefaultUserID, "ID of the submitting user")
	return r
}

func (c *uploadSubmissionCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	storePath, datasetFiles := args[0], args[1:]
	if len(datasetFiles) == 0 {
		return fmt.Errorf("At least a single <dataset-file> must be given.")
	}
	if c.submissionID == "" {
		return fmt.Errorf("Please give a submission ID.")
	}
	if storePath == "" {
		return fmt.Errorf("Please give a path.")
	}
	s := api.Submission{
		Path:             storePath,
		SubmissionID:     c.submissionID,
		PublicationDate:  c.publicationDate,
		AllowPublication: c.allowPublication,
		UserID:           c.userID,
		DatasetFiles:     datasetFiles,
		DocFiles:         c.docFiles,
	}
	log.Infof("Uploading submission %s with %d dataset and %d doc files", s.SubmissionID, len(datasetFiles), len(c.docFiles))
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return cl.API.UploadSubmission(ctx, s)
	})
}

func newGetSubmissionCmd() *idCmd {
	return &idCmd{"get <submission-id>", "Get submission <submission-id>", func(cl *client.SimpleClient, ctx context.Context, id string) (json.RawMessage, error) {
		return cl.API.GetSubmission(ctx, id)
	}}
}

func newGetSubmissionsForUserCmd() *idCmd {
	return &idCmd{"user <user-name>", "Get submissions of user <user-name>", func(cl *client.SimpleClient, ctx context.Context, user string) (json.RawMessage, error) {
		return cl.API.GetSubmissionsForUser(ctx, user)
	}}
}

func newDeleteSubmissionCmd() *idCmd {
	return &idCmd{"delete <submission-id>", "Delete submission <submission-id>", func(cl *client.SimpleClient, ctx context.Context, id string) (json.RawMessage, error) {
		return cl.API.DeleteSubmission(ctx, id)
	}}
}

type updateSubmissionStatusCmd struct {
	submissionID    string
	status          string
	publicationDate string
}

func (c *updateSubmissionStatusCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "status",
		Short: "Update submission status --submission-id <submission-id> --status <status>",
		Args:  cobra.NoArgs,
	}
	r.Flags().StringVarP(&c.submissionID, "submission-id", "s", "", "Submission ID")
	r.Flags().StringVar(&c.status, "status", "", "New status")
	r.Flags().StringVar(&c.publicationDate, "publication-date", "", "New publication date")
	return r
}

func (c *updateSubmissionStatusCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	if c.submissionID == "" {
		return fmt.Errorf("Please give a <submission-id>.")
	}
	if c.status == "" {
		return fmt.Errorf("Please give a <status>.")
	}
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return cl.API.UpdateSubmissionStatus(ctx, c.submissionID, c.status, c.publicationDate)
	})
}

// submissionFileFlags are shared by the commands addressing one file of a
// submission.
type submissionFileFlags struct {
	submissionID string
	index        int
}

func (f *submissionFileFlags) register(r *cobra.Command) {
	r.Flags().StringVarP(&f.submissionID, "submission-id", "s", "", "Submission ID")
	r.Flags().IntVarP(&f.index, "index", "i", -1, "Submission file index")
}

func (f *submissionFileFlags) check() error {
	if f.submissionID == "" {
		return fmt.Errorf("Please give a <submission-id>.")
	}
	if f.index < 0 {
		return fmt.Errorf("Please give an <index>.")
	}
	return nil
}

type getSubmissionFileCmd struct {
	submissionFileFlags
}

func (c *getSubmissionFileCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "get",
		Short: "Get submission file --submission-id <submission-id> --index <index>",
		Args:  cobra.NoArgs,
	}
	c.register(r)
	return r
}

func (c *getSubmissionFileCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	if err := c.check(); err != nil {
		return err
	}
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return cl.API.GetSubmissionFile(ctx, c.submissionID, c.index)
	})
}

type downloadSubmissionFileCmd struct {
	submissionFileFlags
	outFile string
	dir     string
}

func (c *downloadSubmissionFileCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "download",
		Short: "Download submission file --submission-id <submission-id> --index <index>",
		Args:  cobra.NoArgs,
	}
	c.register(r)
	r.Flags().StringVarP(&c.outFile, "out-file", "o", api.DefaultDownloadFile, "Name of the downloaded zip file")
	r.Flags().StringVar(&c.dir, "dir", ".", "Directory the zip file is extracted to")
	return r
}

func (c *downloadSubmissionFileCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	if err := c.check(); err != nil {
		return err
	}
	ctx, cancel := cl.Context()
	defer cancel()
	msg, err := cl.API.DownloadSubmissionFile(ctx, c.submissionID, c.index, c.outFile, c.dir)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
	return err
}

type uploadSubmissionFileCmd struct {
	submissionFileFlags
	files    []string
	docFiles []string
}

func (c *uploadSubmissionFileCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "upload",
		Short: "Re-upload a file of a submission",
		Args:  cobra.NoArgs,
	}
	c.register(r)
	r.Flags().StringArrayVar(&c.files, "file", nil, "Dataset file to re-upload, may be repeated")
	r.Flags().StringArrayVarP(&c.docFiles, "doc-file", "d", nil, "Documentation file, may be repeated")
	return r
}

func (c *uploadSubmissionFileCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	if len(c.files) == 0 && len(c.docFiles) == 0 {
		return fmt.Errorf("At least a single <file> must be given.")
	}
	if err := c.check(); err != nil {
		return err
	}
	return runAndDump(cl, cmd, func(ctx context.Context) (json.RawMessage, error) {
		return cl.API.UploadSubmissionFile(ctx, c.submissionID, c.index, c.files, c.docFiles)
	})
}

func newValidateSubmissionFileCmd() *fileCmd {
	return &fileCmd{"validate", "Validate submission <file> before upload", func(cl *client.SimpleClient, ctx context.Context, file string) (json.RawMessage, error) {
		return cl.API.ValidateSubmissionFile(ctx, file)
	}}
}
