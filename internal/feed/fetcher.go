package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// Fetcher downloads and decodes a single feed.
type Fetcher struct {
	client *http.Client
}

// NewFetcher wraps client, which is expected to carry the retry policy
// and timeout.
func NewFetcher(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch downloads the feed and decodes its body according to the feed kind.
// GTFS-RT feeds come back as *gtfs.FeedMessage, JSON feeds as
// json.RawMessage and raw feeds as []byte.
func (f *Fetcher) Fetch(ctx context.Context, fd *Feed) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fd.URL, nil)
	if err != nil {
		return nil, err
	}
	for name, value := range fd.Headers {
		req.Header.Set(name, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", fd.Key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: upstream returned %d", fd.Key, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", fd.Key, err)
	}

	switch fd.Kind {
	case KindGTFSRealtime:
		msg := &gtfs.FeedMessage{}
		if err := proto.Unmarshal(body, msg); err != nil {
			return nil, fmt.Errorf("fetch %s: decode protobuf: %w", fd.Key, err)
		}
		return msg, nil
	case KindJSON:
		if !json.Valid(body) {
			return nil, fmt.Errorf("fetch %s: upstream returned invalid JSON", fd.Key)
		}
		return json.RawMessage(body), nil
	default:
		return body, nil
	}
}
