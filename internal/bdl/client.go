// Package bdl talks to the Forest Data Bank (BDL) upstream: the OGC API
// serving the 17 RDLP wydzielenia collections, and the sharing service that
// distributes ZIP bundles. Fetched pages land in the data directory as
// GeoJSON files; the pipeline picks them up from there.
package bdl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pilarzops/rdlp-ingest/internal/config"
	"github.com/pilarzops/rdlp-ingest/internal/logger"
	"github.com/pilarzops/rdlp-ingest/internal/partition"
)

// Client fetches wydzielenia collections from the BDL OGC API page by page.
type Client struct {
	baseURL   string
	pageLimit int
	dataDir   string
	http      *http.Client
	log       *logger.Logger
}

// NewClient creates a BDL client writing pages into dataDir.
func NewClient(cfg config.BDLConfig, dataDir string, log *logger.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/") + "/",
		pageLimit: cfg.PageLimit,
		dataDir:   dataDir,
		http:      &http.Client{Timeout: 5 * time.Minute},
		log:       log,
	}
}

// CollectionName renders the OGC collection identifier for a partition,
// e.g. olsztyn -> RDLP_Olsztyn_wydzielenia.
func CollectionName(key partition.Key) string {
	parts := strings.Split(string(key), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return "RDLP_" + strings.Join(parts, "_") + "_wydzielenia"
}

// FetchAll fetches every one of the 17 collections sequentially. A failed
// collection is logged and skipped; the others still download.
func (c *Client) FetchAll(ctx context.Context) error {
	if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	for _, key := range partition.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.FetchCollection(ctx, CollectionName(key)); err != nil {
			c.log.Error("failed to fetch collection", err, map[string]interface{}{
				"collection": CollectionName(key),
			})
		}
	}
	return nil
}

// FetchCollection downloads one collection: first page, then the total item
// count, then the remaining pages.
func (c *Client) FetchCollection(ctx context.Context, collection string) error {
	itemsURL := fmt.Sprintf("%s%s/items", c.baseURL, collection)

	if err := c.fetchPage(ctx, itemsURL, collection, 0); err != nil {
		return err
	}

	total, err := c.itemTotal(ctx, itemsURL)
	if err != nil {
		return err
	}
	c.log.Info("collection item total", map[string]interface{}{
		"collection": collection,
		"total":      total,
	})

	for offset := c.pageLimit; offset < total; offset += c.pageLimit {
		if err := c.fetchPage(ctx, itemsURL, collection, offset); err != nil {
			return err
		}
	}
	return nil
}

// itemTotal asks the API for the collection's numberMatched without
// geometry payloads.
func (c *Client) itemTotal(ctx context.Context, itemsURL string) (int, error) {
	url := itemsURL + "?f=json&limit=1&skipGeometry=true"
	body, err := c.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	var page struct {
		NumberMatched int `json:"numberMatched"`
	}
	if err := decodeJSON(body, &page); err != nil {
		return 0, fmt.Errorf("failed to decode item total: %w", err)
	}
	return page.NumberMatched, nil
}

// fetchPage downloads one page of items and writes it to the data
// directory under a name the partition resolver can match later.
func (c *Client) fetchPage(ctx context.Context, itemsURL, collection string, offset int) error {
	url := fmt.Sprintf("%s?f=json&limit=%d&offset=%d", itemsURL, c.pageLimit, offset)
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	name := fmt.Sprintf("%s_%d_%d.json", collection, offset, time.Now().Unix())
	path := filepath.Join(c.dataDir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	c.log.Debug("page fetched", map[string]interface{}{
		"collection": collection,
		"offset":     offset,
		"file":       name,
	})
	return nil
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("request to %s failed: status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}
