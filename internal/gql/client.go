package gql

import (
	"net/http"
	"time"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
	"spacetraveling/internal/config"
)

const requestTimeout = 15 * time.Second

// NewClient returns a GraphQL client for the Prismic repository and the ref
// resolver it reads from. Prismic only accepts GET queries pinned to a content ref.
func NewClient(cfg config.Config) (genqlientgraphql.Client, *RefResolver) {
	refs := NewRefResolver(cfg.PrismicAPIEndpoint, cfg.PrismicAccessToken, &http.Client{Timeout: requestTimeout})
	return NewClientWithRefs(cfg.PrismicGraphQLEndpoint, cfg.PrismicAccessToken, refs, http.DefaultTransport), refs
}

func NewClientWithRefs(endpoint string, token string, refs *RefResolver, base http.RoundTripper) genqlientgraphql.Client {
	client := &http.Client{
		Timeout: requestTimeout,
		Transport: &prismicTransport{
			base:  base,
			refs:  refs,
			token: token,
		},
	}

	return genqlientgraphql.NewClientUsingGet(endpoint, client)
}

type prismicTransport struct {
	base  http.RoundTripper
	refs  *RefResolver
	token string
}

func (t *prismicTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ref, err := t.refs.Ref(req.Context())
	if err != nil {
		return nil, err
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Prismic-ref", ref)
	if t.token != "" {
		clone.Header.Set("Authorization", "Token "+t.token)
	}
	return t.base.RoundTrip(clone)
}
