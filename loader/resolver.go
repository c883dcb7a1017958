package loader

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/meshview/mesh"
	"github.com/mogaika/meshview/vfs"
)

const maxResourceSize = 512 << 20

// RawData is a fetched, not yet decoded resource.
type RawData struct {
	URL  string
	Data []byte
}

type Resolver interface {
	Resolve(ctx context.Context, url string) (*RawData, error)
}

type Decoder interface {
	Decode(ctx context.Context, raw *RawData) (*mesh.Geometry, error)
}

// SourceResolver fetches http(s) URLs over the network and everything
// else from a local mesh directory.
type SourceResolver struct {
	Root   vfs.Directory
	Client *http.Client
}

func NewResolver(root vfs.Directory) *SourceResolver {
	return &SourceResolver{Root: root, Client: http.DefaultClient}
}

func isRemote(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (sr *SourceResolver) Resolve(ctx context.Context, url string) (*RawData, error) {
	if isRemote(url) {
		return sr.fetch(ctx, url)
	}
	if sr.Root == nil {
		return nil, errors.Errorf("No mesh directory for %q", url)
	}
	data, err := vfs.ReadFile(sr.Root, url)
	if err != nil {
		return nil, err
	}
	return &RawData{URL: url, Data: data}, nil
}

func (sr *SourceResolver) fetch(ctx context.Context, url string) (*RawData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create request")
	}
	client := sr.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("Unexpected http status %q", resp.Status)
	}

	data, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxResourceSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read response")
	}
	if len(data) > maxResourceSize {
		return nil, errors.Errorf("Resource is larger than %d bytes", maxResourceSize)
	}
	return &RawData{URL: url, Data: data}, nil
}

// MeshDecoder picks a decoder by the URL extension.
type MeshDecoder struct{}

func (MeshDecoder) Decode(ctx context.Context, raw *RawData) (*mesh.Geometry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return mesh.Decode(raw.URL, raw.Data)
}
