package api

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bcdev/ocdb-client/common/stats"
	"github.com/bcdev/ocdb-client/form"
)

const (
	DefaultUserID       = "1"
	DefaultDownloadFile = "download.zip"
)

// Submission describes one upload of dataset files and their documentation.
type Submission struct {
	// Path is the store path affil/project/cruise.
	Path             string
	SubmissionID     string
	PublicationDate  string
	AllowPublication bool
	// UserID defaults to DefaultUserID.
	UserID       string
	DatasetFiles []string
	DocFiles     []string
}

// addFiles attaches dataset files as text/plain and doc files with a type
// inferred from their names.
func addFiles(f *form.Form, datasetFiles, docFiles []string) error {
	for _, groups := range []struct {
		field       string
		contentType string
		files       []string
	}{
		{"datasetfiles", "text/plain", datasetFiles},
		{"docfiles", "", docFiles},
	} {
		for _, path := range groups.files {
			content, err := ioutil.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "read %s", groups.field)
			}
			if err := f.AddFileWithType(groups.field, filepath.Base(path), groups.contentType, content); err != nil {
				return err
			}
		}
	}
	return nil
}

// pythonBool renders b the way the server parses form booleans.
func pythonBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func (c *Client) doForm(ctx context.Context, op, method, path string, f *form.Form) (json.RawMessage, error) {
	body := f.Bytes()
	c.stat.Counter(stats.APIUploadBytesCounter).Inc(int64(len(body)))
	log.Debugf("%s: %d parts, %s", op, f.Len(), bytesize.New(float64(len(body))))
	return c.do(ctx, op, method, path, f.ContentType(), body)
}

func (c *Client) UploadSubmission(ctx context.Context, s Submission) (json.RawMessage, error) {
	userID := s.UserID
	if userID == "" {
		userID = DefaultUserID
	}
	f := form.New()
	for _, field := range []struct{ name, value string }{
		{"path", s.Path},
		{"submissionid", s.SubmissionID},
		{"publicationdate", s.PublicationDate},
		{"allowpublication", pythonBool(s.AllowPublication)},
		{"userid", userID},
	} {
		if err := f.AddField(field.name, field.value); err != nil {
			return nil, err
		}
	}
	if err := addFiles(f, s.DatasetFiles, s.DocFiles); err != nil {
		return nil, err
	}
	return c.doForm(ctx, "uploadSubmission", f.Method(), "/store/upload/submission", f)
}

func (c *Client) ValidateSubmissionFile(ctx context.Context, file string) (json.RawMessage, error) {
	data, err := readDatasetFile(file)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "validateSubmissionFile", "POST", "/store/upload/submission/validate", datasetContentType, data)
}

func (c *Client) GetSubmission(ctx context.Context, submissionID string) (json.RawMessage, error) {
	return c.do(ctx, "getSubmission", "GET", "/store/upload/submission/"+url.PathEscape(submissionID), "", nil)
}

func (c *Client) GetSubmissionsForUser(ctx context.Context, userID string) (json.RawMessage, error) {
	return c.do(ctx, "getSubmissionsForUser", "GET", "/store/upload/user/"+url.PathEscape(userID), "", nil)
}

func (c *Client) DeleteSubmission(ctx context.Context, submissionID string) (json.RawMessage, error) {
	return c.do(ctx, "deleteSubmission", "DELETE", "/store/upload/submission/"+url.PathEscape(submissionID), "", nil)
}

type statusUpdate struct {
	Status          string `json:"status"`
	PublicationDate string `json:"publication_date,omitempty"`
}

// UpdateSubmissionStatus sets the workflow status of a submission. An empty
// publicationDate keeps the one stored on the server.
func (c *Client) UpdateSubmissionStatus(ctx context.Context, submissionID, status, publicationDate string) (json.RawMessage, error) {
	return c.doJSON(ctx, "updateSubmissionStatus", "PUT", "/store/status/submission/"+url.PathEscape(submissionID),
		statusUpdate{Status: status, PublicationDate: publicationDate})
}

func submissionFilePath(prefix, submissionID string, index int) string {
	return prefix + url.PathEscape(submissionID) + "/" + strconv.Itoa(index)
}

func (c *Client) GetSubmissionFile(ctx context.Context, submissionID string, index int) (json.RawMessage, error) {
	return c.do(ctx, "getSubmissionFile", "GET", submissionFilePath("/store/upload/submissionfile/", submissionID, index), "", nil)
}

// UploadSubmissionFile replaces the file at index of a submission.
func (c *Client) UploadSubmissionFile(ctx context.Context, submissionID string, index int, datasetFiles, docFiles []string) (json.RawMessage, error) {
	f := form.New()
	if err := addFiles(f, datasetFiles, docFiles); err != nil {
		return nil, err
	}
	return c.doForm(ctx, "uploadSubmissionFile", "PUT", submissionFilePath("/store/upload/submissionfile/", submissionID, index), f)
}

// DownloadSubmissionFile saves the zip archive of a submission file to outFile
// (DefaultDownloadFile if empty) and extracts it into destDir (the working
// directory if empty).
func (c *Client) DownloadSubmissionFile(ctx context.Context, submissionID string, index int, outFile, destDir string) (string, error) {
	outFile, err := c.downloadZip(ctx, "downloadSubmissionFile",
		submissionFilePath("/store/download/submissionfile/", submissionID, index), outFile, destDir)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d downloaded to %s", submissionID, index, outFile), nil
}

// downloadZip streams the archive at path to outFile and extracts it into
// destDir. It returns the name of the saved file.
func (c *Client) downloadZip(ctx context.Context, op, path, outFile, destDir string) (string, error) {
	if outFile == "" {
		outFile = DefaultDownloadFile
	}
	if destDir == "" {
		destDir = "."
	}
	req, err := c.newRequest(ctx, "GET", path, "", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.send(op, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	out, err := os.Create(outFile)
	if err != nil {
		return "", errors.Wrap(err, "create download file")
	}
	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", errors.Wrapf(err, "save %s", outFile)
	}
	c.stat.Counter(stats.APIDownloadBytesCounter).Inc(n)
	log.Infof("Downloaded %s to %s", bytesize.New(float64(n)), outFile)

	if err := extractZip(outFile, destDir); err != nil {
		return "", err
	}
	return outFile, nil
}

func extractZip(archive, destDir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return errors.Wrapf(err, "open %s", archive)
	}
	defer zr.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return errors.Wrap(err, "resolve extraction directory")
	}
	for _, zf := range zr.File {
		target := filepath.Join(root, zf.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return errors.Errorf("%s: illegal file path %q", archive, zf.Name)
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.Wrap(err, "extract")
			}
			continue
		}
		if err := extractZipFile(zf, target); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(zf *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrap(err, "extract")
	}
	rc, err := zf.Open()
	if err != nil {
		return errors.Wrapf(err, "extract %s", zf.Name)
	}
	defer rc.Close()
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "extract %s", zf.Name)
	}
	_, err = io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return errors.Wrapf(err, "extract %s", zf.Name)
}
