package posts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Khan/genqlient/graphql"
	"github.com/stretchr/testify/require"
	"spacetraveling/internal/richtext"
)

type recordedRequest struct {
	OpName    string
	Variables map[string]interface{}
}

type fakeGraphQLClient struct {
	pages    map[string]string
	post     string
	err      error
	requests []recordedRequest
}

func (c *fakeGraphQLClient) MakeRequest(_ context.Context, req *graphql.Request, resp *graphql.Response) error {
	variables := requestVariables(req)
	c.requests = append(c.requests, recordedRequest{OpName: req.OpName, Variables: variables})
	if c.err != nil {
		return c.err
	}

	switch req.OpName {
	case "AllPostUIDs":
		after, _ := variables["after"].(string)
		return decodeGraphQLData(resp, c.pages[after])
	case "PostByUID":
		return decodeGraphQLData(resp, c.post)
	default:
		return errors.New("unexpected operation " + req.OpName)
	}
}

func decodeGraphQLData(resp *graphql.Response, payload string) error {
	return json.Unmarshal([]byte(payload), resp.Data)
}

func requestVariables(req *graphql.Request) map[string]interface{} {
	raw, err := json.Marshal(req.Variables)
	if err != nil {
		return nil
	}

	values := make(map[string]interface{})
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}

const postPayload = `{
	"posts": {
		"meta": {"uid": "como-utilizar-hooks", "firstPublicationDate": "2021-03-25T19:25:00+0000"},
		"title": "Como utilizar Hooks",
		"subtitle": "Pensando em sincronização em vez de ciclos de vida",
		"author": "Joseph Oliveira",
		"banner": {"url": "https://images.prismic.io/spacetraveling/banner.png", "alt": "Rocket", "dimensions": {"width": 1440, "height": 400}},
		"content": [
			{"heading": "Proin et varius", "body": [{"type": "paragraph", "text": "Lorem ipsum", "spans": []}]},
			{"heading": "Cras laoreet mi", "body": [{"type": "list-item", "text": "Nulla", "spans": []}]}
		]
	}
}`

func TestListPostUIDsFollowsCursor(t *testing.T) {
	client := &fakeGraphQLClient{pages: map[string]string{
		"": `{"allPostss": {
			"totalCount": 3,
			"pageInfo": {"hasNextPage": true, "endCursor": "c1"},
			"edges": [{"node": {"meta": {"uid": "como-utilizar-hooks"}}}, {"node": {"meta": {"uid": null}}}, {"node": {"meta": {"uid": "criando-um-app-cra-do-zero"}}}]
		}}`,
		"c1": `{"allPostss": {
			"totalCount": 3,
			"pageInfo": {"hasNextPage": false, "endCursor": "c2"},
			"edges": [{"node": {"meta": {"uid": "mapas-com-react"}}}]
		}}`,
	}}

	svc := NewService(client, 2, "pt-br")
	uids, err := svc.ListPostUIDs(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"como-utilizar-hooks", "criando-um-app-cra-do-zero", "mapas-com-react"}, uids)

	require.Len(t, client.requests, 2)
	require.EqualValues(t, 2, client.requests[0].Variables["first"])
	require.Equal(t, "pt-br", client.requests[0].Variables["lang"])
	require.Nil(t, client.requests[0].Variables["after"])
	require.Equal(t, "c1", client.requests[1].Variables["after"])
}

func TestListPostUIDsEmpty(t *testing.T) {
	client := &fakeGraphQLClient{pages: map[string]string{
		"": `{"allPostss": {"totalCount": 0, "pageInfo": {"hasNextPage": false, "endCursor": null}, "edges": []}}`,
	}}

	uids, err := NewService(client, 0, "").ListPostUIDs(context.Background())
	require.NoError(t, err)
	require.Empty(t, uids)
	require.EqualValues(t, defaultPageSize, client.requests[0].Variables["first"])
	require.Nil(t, client.requests[0].Variables["lang"])
}

func TestListPostUIDsRejectsStuckCursor(t *testing.T) {
	client := &fakeGraphQLClient{pages: map[string]string{
		"": `{"allPostss": {"pageInfo": {"hasNextPage": true, "endCursor": "c1"}, "edges": []}}`,
		"c1": `{"allPostss": {"pageInfo": {"hasNextPage": true, "endCursor": "c1"}, "edges": []}}`,
	}}

	_, err := NewService(client, 20, "").ListPostUIDs(context.Background())
	require.Error(t, err)
}

func TestListPostUIDsPropagatesErrors(t *testing.T) {
	errBoom := errors.New("boom")
	_, err := NewService(&fakeGraphQLClient{err: errBoom}, 20, "").ListPostUIDs(context.Background())
	require.ErrorIs(t, err, errBoom)
}

func TestGetPostByUIDCopiesFields(t *testing.T) {
	client := &fakeGraphQLClient{post: postPayload}

	post, err := NewService(client, 20, "pt-br").GetPostByUID(context.Background(), "como-utilizar-hooks")
	require.NoError(t, err)

	require.Equal(t, "como-utilizar-hooks", post.UID)
	require.NotNil(t, post.FirstPublicationDate)
	require.Equal(t, "2021-03-25T19:25:00+0000", *post.FirstPublicationDate)
	require.Equal(t, "Como utilizar Hooks", post.Data.Title)
	require.Equal(t, "Pensando em sincronização em vez de ciclos de vida", post.Data.Subtitle)
	require.Equal(t, "Joseph Oliveira", post.Data.Author)
	require.Equal(t, Banner{URL: "https://images.prismic.io/spacetraveling/banner.png", Alt: "Rocket", Width: 1440, Height: 400}, post.Data.Banner)

	require.Len(t, post.Data.Content, 2)
	require.Equal(t, "Proin et varius", post.Data.Content[0].Heading)
	require.Equal(t, "Cras laoreet mi", post.Data.Content[1].Heading)
	require.Equal(t, richtext.BlockListItem, post.Data.Content[1].Body[0].Type)

	require.Equal(t, "como-utilizar-hooks", client.requests[0].Variables["uid"])
	require.Equal(t, "pt-br", client.requests[0].Variables["lang"])
}

func TestGetPostByUIDKeepsNullFields(t *testing.T) {
	client := &fakeGraphQLClient{post: `{"posts": {
		"meta": {"uid": "rascunho", "firstPublicationDate": null},
		"title": "Rascunho", "subtitle": null, "author": null, "banner": null, "content": null
	}}`}

	post, err := NewService(client, 20, "pt-br").GetPostByUID(context.Background(), "rascunho")
	require.NoError(t, err)
	require.Nil(t, post.FirstPublicationDate)
	require.Empty(t, post.Data.Banner.URL)
	require.Empty(t, post.Data.Content)
}

func TestGetPostByUIDNotFound(t *testing.T) {
	client := &fakeGraphQLClient{post: `{"posts": null}`}

	_, err := NewService(client, 20, "pt-br").GetPostByUID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetPostByUIDRejectsMalformedBody(t *testing.T) {
	client := &fakeGraphQLClient{post: `{"posts": {
		"meta": {"uid": "quebrado"},
		"content": [{"heading": "x", "body": {"type": "paragraph"}}]
	}}`}

	_, err := NewService(client, 20, "pt-br").GetPostByUID(context.Background(), "quebrado")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}
