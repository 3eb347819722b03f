package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// maxAssetBytes bounds remote downloads.
const maxAssetBytes = 32 << 20

// Fetcher reads asset bytes by reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// AssetFetcher reads http(s) URLs with Client and everything else from disk.
type AssetFetcher struct {
	Client *http.Client
}

// Fetch returns the asset's bytes.
func (f AssetFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("reading asset: %w", err)
		}
		return data, nil
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("building asset request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching asset %s: status %d", ref, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, fmt.Errorf("reading asset body: %w", err)
	}
	return data, nil
}
