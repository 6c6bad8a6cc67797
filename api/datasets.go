package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Raw dataset files (SeaBASS text) are posted unchanged.
const datasetContentType = "text/plain"

func readDatasetFile(datasetFile string) ([]byte, error) {
	data, err := ioutil.ReadFile(datasetFile)
	return data, errors.Wrap(err, "read dataset file")
}

func (c *Client) ValidateDataset(ctx context.Context, datasetFile string) (json.RawMessage, error) {
	data, err := readDatasetFile(datasetFile)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "validateDataset", "POST", "/datasets/validate", datasetContentType, data)
}

func (c *Client) AddDataset(ctx context.Context, datasetFile string) (json.RawMessage, error) {
	data, err := readDatasetFile(datasetFile)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "addDataset", "PUT", "/datasets", datasetContentType, data)
}

func (c *Client) UpdateDataset(ctx context.Context, datasetFile string) (json.RawMessage, error) {
	data, err := readDatasetFile(datasetFile)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "updateDataset", "POST", "/datasets", datasetContentType, data)
}

func (c *Client) DeleteDataset(ctx context.Context, datasetID string) (json.RawMessage, error) {
	return c.do(ctx, "deleteDataset", "DELETE", "/datasets/"+url.PathEscape(datasetID), "", nil)
}

func (c *Client) DeleteDatasetsBySubmission(ctx context.Context, submissionID string) (json.RawMessage, error) {
	return c.do(ctx, "deleteDatasetsBySubmission", "DELETE", "/datasets/submission/"+url.PathEscape(submissionID), "", nil)
}

func (c *Client) GetDatasetsBySubmission(ctx context.Context, submissionID string) (json.RawMessage, error) {
	return c.do(ctx, "getDatasetsBySubmission", "GET", "/datasets/submission/"+url.PathEscape(submissionID), "", nil)
}

func (c *Client) GetDataset(ctx context.Context, datasetID string) (json.RawMessage, error) {
	return c.do(ctx, "getDataset", "GET", "/datasets/"+url.PathEscape(datasetID), "", nil)
}

// GetDatasetByName fetches a dataset by its store path affil/project/cruise/name.
// The name itself may contain further slashes.
func (c *Client) GetDatasetByName(ctx context.Context, datasetPath string) (json.RawMessage, error) {
	components, err := splitDatasetPath(datasetPath)
	if err != nil {
		return nil, err
	}
	if len(components) < 4 {
		return nil, errors.Errorf("Invalid dataset path, must have format affil/project/cruise/name, but was %s", datasetPath)
	}
	return c.do(ctx, "getDatasetByName", "GET", "/datasets/"+strings.Join(components, "/"), "", nil)
}

// ListDatasetsInPath lists the datasets stored under affil/project/cruise.
func (c *Client) ListDatasetsInPath(ctx context.Context, datasetPath string) (json.RawMessage, error) {
	components, err := splitDatasetPath(datasetPath)
	if err != nil || len(components) != 3 {
		return nil, errors.Errorf("Invalid dataset path, must have format affil/project/cruise, but was %s", datasetPath)
	}
	return c.do(ctx, "listDatasetsInPath", "GET", "/datasets/"+strings.Join(components, "/"), "", nil)
}

// splitDatasetPath splits p on "/" and rejects blank components.
func splitDatasetPath(p string) ([]string, error) {
	components := strings.Split(p, "/")
	for i, comp := range components {
		if strings.TrimSpace(comp) == "" {
			return nil, errors.Errorf("Invalid dataset path: %s", p)
		}
		components[i] = url.PathEscape(comp)
	}
	return components, nil
}

// FindQuery holds the optional dataset search parameters. Zero values and nil
// pointers are left out of the query string.
type FindQuery struct {
	Expr    string
	Region  string
	Time    string
	WDepth  string
	MType   string
	WLMode  string
	Shallow string
	PMode   string
	PGroup  string
	PName   string
	Offset  int
	Count   int
	UserID  string
	GeoJSON *bool
}

func (q FindQuery) Values() url.Values {
	v := url.Values{}
	for _, p := range []struct{ key, value string }{
		{"expr", q.Expr},
		{"region", q.Region},
		{"time", q.Time},
		{"wdepth", q.WDepth},
		{"mtype", q.MType},
		{"wlmode", q.WLMode},
		{"shallow", q.Shallow},
		{"pmode", q.PMode},
		{"pgroup", q.PGroup},
		{"pname", q.PName},
		{"user_id", q.UserID},
	} {
		if p.value != "" {
			v.Set(p.key, p.value)
		}
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Count > 0 {
		v.Set("count", strconv.Itoa(q.Count))
	}
	if q.GeoJSON != nil {
		v.Set("geojson", strconv.FormatBool(*q.GeoJSON))
	}
	return v
}

func (c *Client) FindDatasets(ctx context.Context, q FindQuery) (json.RawMessage, error) {
	path := "/datasets"
	if enc := q.Values().Encode(); enc != "" {
		path += "?" + enc
	}
	return c.do(ctx, "findDatasets", "GET", path, "", nil)
}

// ErrNoDatasetIDs is returned by DownloadDatasets when ids is empty.
var ErrNoDatasetIDs = errors.New("Please give at least one dataset-id.")

// DownloadDatasets fetches the files of the given datasets, and their
// documentation files if docs is set, as one zip archive. The archive is
// saved and extracted like DownloadSubmissionFile does.
func (c *Client) DownloadDatasets(ctx context.Context, ids []string, docs bool, outFile, destDir string) (string, error) {
	if len(ids) == 0 {
		return "", ErrNoDatasetIDs
	}
	q := url.Values{}
	for _, id := range ids {
		q.Add("id", id)
	}
	q.Set("docs", strconv.FormatBool(docs))
	outFile, err := c.downloadZip(ctx, "downloadDatasets", "/store/download?"+q.Encode(), outFile, destDir)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d datasets downloaded to %s", len(ids), outFile), nil
}
