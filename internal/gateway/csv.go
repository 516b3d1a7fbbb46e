package gateway

import (
	"context"
	"fmt"
	"regexp"
)

// ImportResult is the backend's response to a CSV import.
type ImportResult struct {
	Message string `json:"message"`
}

// filenameRe pulls the filename out of a Content-Disposition header.
var filenameRe = regexp.MustCompile(`filename=([^;]+)`)

// ExportCSV downloads /csv/export/{entity} and returns the raw bytes plus
// the server-suggested filename, falling back to <entity>_export.csv when
// the header is absent.
func (c *Client) ExportCSV(ctx context.Context, entityType string) ([]byte, string, error) {
	body, disposition, err := c.getRaw(ctx, "/csv/export/"+entityType)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("%s_export.csv", entityType)
	if m := filenameRe.FindStringSubmatch(disposition); m != nil {
		filename = m[1]
	}
	return body, filename, nil
}

// ImportCSV uploads a CSV file to /csv/import/{entity}.
func (c *Client) ImportCSV(ctx context.Context, entityType, fileName string, content []byte) (*ImportResult, error) {
	var result ImportResult
	if err := c.postMultipart(ctx, "/csv/import/"+entityType, "file", fileName, content, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
