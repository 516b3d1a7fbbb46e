package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitfantasy/nimo-mrp/internal/gateway"
)

// DownloadCSV fetches /csv/export/{entity} and writes the file into dir
// under the server-suggested name. Returns the written path.
func DownloadCSV(ctx context.Context, gw *gateway.Client, entityType, dir string) (string, error) {
	data, filename, err := gw.ExportCSV(ctx, entityType)
	if err != nil {
		return "", err
	}
	// never let a hostile Content-Disposition escape the target dir
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// UploadCSV pushes a local CSV file to /csv/import/{entity} and returns
// the backend's confirmation message.
func UploadCSV(ctx context.Context, gw *gateway.Client, entityType, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	result, err := gw.ImportCSV(ctx, entityType, filepath.Base(path), content)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}
