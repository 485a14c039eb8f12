package texts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultURL is where the demo's predefined texts are published.
const DefaultURL = "https://ui5.github.io/webcomponents/nightly/data/predefinedTexts.json"

// maxDocumentSize caps the body read from the texts URL.
const maxDocumentSize = 8 << 20

// Source describes where a dataset comes from. File wins over URL.
type Source struct {
	URL     string
	File    string
	Timeout time.Duration
}

func (s Source) String() string {
	if s.File != "" {
		return s.File
	}
	return s.URL
}

// Load reads the dataset described by src. It performs at most one request
// and never retries.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	if src.File != "" {
		return LoadFile(src.File)
	}
	url := src.URL
	if url == "" {
		url = DefaultURL
	}
	if src.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, src.Timeout)
		defer cancel()
	}
	return Fetch(ctx, http.DefaultClient, url)
}

// Fetch issues a single GET for url and decodes the JSON body.
func Fetch(ctx context.Context, client *http.Client, url string) (*Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch texts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch texts: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}
	return Decode(data, "json")
}

// LoadFile reads a dataset from disk. ".yaml" and ".yml" files are decoded as
// YAML, everything else as JSON.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read texts file: %w", err)
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	return Decode(data, format)
}

// Decode parses a dataset document in the given format ("json" or "yaml").
func Decode(data []byte, format string) (*Dataset, error) {
	var d Dataset
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode yaml texts: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode json texts: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported texts format %q", format)
	}
	return &d, nil
}
