package gql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiBody = `{
	"refs": [
		{"id": "preview", "ref": "preview-ref", "label": "Preview", "isMasterRef": false},
		{"id": "master", "ref": "master-ref", "label": "Master", "isMasterRef": true}
	]
}`

func TestRefResolverReadsAndCachesMasterRef(t *testing.T) {
	var calls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "secret", r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte(apiBody))
	}))
	t.Cleanup(api.Close)

	now := time.Date(2021, 3, 25, 19, 25, 0, 0, time.UTC)
	refs := NewRefResolver(api.URL+"/api/v2", "secret", api.Client())
	refs.now = func() time.Time { return now }

	ref, err := refs.Ref(context.Background())
	require.NoError(t, err)
	require.Equal(t, "master-ref", ref)

	_, err = refs.Ref(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())

	now = now.Add(time.Minute)
	_, err = refs.Ref(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load())

	refs.Invalidate()
	_, err = refs.Ref(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, calls.Load())
}

func TestRefResolverInvalidateDropsInFlightRef(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			_, _ = w.Write([]byte(`{"refs": [{"id": "master", "ref": "old-ref", "isMasterRef": true}]}`))
			return
		}
		_, _ = w.Write([]byte(apiBody))
	}))
	t.Cleanup(api.Close)

	refs := NewRefResolver(api.URL, "", api.Client())

	type outcome struct {
		ref string
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		ref, err := refs.Ref(context.Background())
		first <- outcome{ref: ref, err: err}
	}()

	<-started
	refs.Invalidate()
	close(release)

	got := <-first
	require.NoError(t, got.err)
	require.Equal(t, "old-ref", got.ref)

	ref, err := refs.Ref(context.Background())
	require.NoError(t, err)
	require.Equal(t, "master-ref", ref)
	require.EqualValues(t, 2, calls.Load())
}

func TestRefResolverReturnsWhenCallerCancels(t *testing.T) {
	release := make(chan struct{})
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte(apiBody))
	}))
	t.Cleanup(api.Close)
	t.Cleanup(func() { close(release) })

	refs := NewRefResolver(api.URL, "", api.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := refs.Ref(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRefResolverErrors(t *testing.T) {
	t.Run("no master ref", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"refs": []}`))
		}))
		t.Cleanup(api.Close)

		_, err := NewRefResolver(api.URL, "", api.Client()).Ref(context.Background())
		require.ErrorIs(t, err, ErrNoMasterRef)
	})

	t.Run("bad status", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "invalid access token", http.StatusUnauthorized)
		}))
		t.Cleanup(api.Close)

		_, err := NewRefResolver(api.URL, "", api.Client()).Ref(context.Background())
		require.Error(t, err)
		require.Contains(t, err.Error(), "401")
	})
}

func TestClientSendsPrismicHeadersOverGet(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(apiBody))
	}))
	t.Cleanup(api.Close)

	graphql := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "master-ref", r.Header.Get("Prismic-ref"))
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))
		assert.Equal(t, "PostByUID", r.URL.Query().Get("operationName"))

		var variables map[string]string
		assert.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("variables")), &variables))
		assert.Equal(t, "como-utilizar-hooks", variables["uid"])
		assert.Equal(t, "pt-br", variables["lang"])

		_, _ = w.Write([]byte(`{"data": {"posts": {
			"meta": {"uid": "como-utilizar-hooks", "firstPublicationDate": "2021-03-25T19:25:00+0000"},
			"title": "Como utilizar Hooks",
			"subtitle": "Pensando em sincronização em vez de ciclos de vida",
			"author": "Joseph Oliveira",
			"banner": {"url": "https://images.prismic.io/banner.png", "alt": null},
			"content": [{"heading": "Proin et varius", "body": [{"type": "paragraph", "text": "Lorem", "spans": []}]}]
		}}}`))
	}))
	t.Cleanup(graphql.Close)

	refs := NewRefResolver(api.URL, "secret", api.Client())
	client := NewClientWithRefs(graphql.URL, "secret", refs, graphql.Client().Transport)

	resp, err := PostByUID(context.Background(), client, "como-utilizar-hooks", "pt-br")
	require.NoError(t, err)
	require.NotNil(t, resp.Posts)
	require.Equal(t, "Como utilizar Hooks", *resp.Posts.Title)
	require.Equal(t, "2021-03-25T19:25:00+0000", *resp.Posts.Meta.FirstPublicationDate)
	require.Len(t, resp.Posts.Content, 1)

	image, ok, err := DecodeImage(resp.Posts.Banner)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "https://images.prismic.io/banner.png", image.URL)
}

func TestClientStopsWhenRefUnavailable(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(api.Close)

	var graphqlCalls atomic.Int32
	graphql := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		graphqlCalls.Add(1)
	}))
	t.Cleanup(graphql.Close)

	client := NewClientWithRefs(graphql.URL, "", NewRefResolver(api.URL, "", api.Client()), graphql.Client().Transport)
	_, err := AllPostUIDs(context.Background(), client, 20, nil, nil)
	require.Error(t, err)
	require.Zero(t, graphqlCalls.Load())
}

func TestDecodeImageHandlesEmptyFields(t *testing.T) {
	_, ok, err := DecodeImage(nil)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = DecodeImage(JSON(`{}`))
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = DecodeImage(JSON(`"not an image"`))
	require.Error(t, err)
}
