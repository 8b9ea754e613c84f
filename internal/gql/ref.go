package gql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultRefTTL = 30 * time.Second

var ErrNoMasterRef = errors.New("prismic api returned no master ref")

// RefResolver reads the master content ref from the Prismic REST endpoint and
// keeps it for a short time.
type RefResolver struct {
	endpoint string
	token    string
	client   *http.Client
	ttl      time.Duration
	now      func() time.Time

	flight singleflight.Group

	mu         sync.Mutex
	ref        string
	fetchedAt  time.Time
	generation uint64
}

func NewRefResolver(endpoint string, token string, client *http.Client) *RefResolver {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &RefResolver{
		endpoint: endpoint,
		token:    token,
		client:   client,
		ttl:      defaultRefTTL,
		now:      time.Now,
	}
}

type apiRef struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
}

type apiResponse struct {
	Refs []apiRef `json:"refs"`
}

func (r *RefResolver) Ref(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.ref != "" && r.now().Sub(r.fetchedAt) < r.ttl {
		ref := r.ref
		r.mu.Unlock()
		return ref, nil
	}
	generation := r.generation
	r.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	results := r.flight.DoChan("master:"+strconv.FormatUint(generation, 10), func() (interface{}, error) {
		ref, err := r.fetch(detached)
		if err != nil {
			return "", err
		}

		r.mu.Lock()
		// A ref fetched before the last Invalidate is returned but not kept.
		if r.generation == generation {
			r.ref = ref
			r.fetchedAt = r.now()
		}
		r.mu.Unlock()
		return ref, nil
	})

	select {
	case result := <-results:
		if result.Err != nil {
			return "", result.Err
		}
		return result.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Invalidate forces the next Ref call to read the API again, including calls
// that would otherwise join a fetch already in flight.
func (r *RefResolver) Invalidate() {
	r.mu.Lock()
	r.ref = ""
	r.generation++
	r.mu.Unlock()
}

func (r *RefResolver) fetch(ctx context.Context) (string, error) {
	endpoint, err := url.Parse(r.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse prismic api endpoint: %w", err)
	}
	if r.token != "" {
		query := endpoint.Query()
		query.Set("access_token", r.token)
		endpoint.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build prismic api request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request prismic api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("prismic api returned %d: %s", resp.StatusCode, body)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode prismic api response: %w", err)
	}
	for _, ref := range payload.Refs {
		if ref.IsMasterRef && ref.Ref != "" {
			return ref.Ref, nil
		}
	}

	return "", ErrNoMasterRef
}
