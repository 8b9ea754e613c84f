package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
	"spacetraveling/internal/gql"
	"spacetraveling/internal/richtext"
)

var ErrNotFound = errors.New("not found")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	client   genqlientgraphql.Client
	pageSize int
	lang     string
}

type Banner struct {
	URL    string
	Alt    string
	Width  int
	Height int
}

type ContentSection struct {
	Heading string
	Body    richtext.RichText
}

type PostData struct {
	Title    string
	Subtitle string
	Author   string
	Banner   Banner
	Content  []ContentSection
}

// Post is one document of the posts type. Content keeps the authored order.
type Post struct {
	UID                  string
	FirstPublicationDate *string
	Data                 PostData
}

func NewService(client genqlientgraphql.Client, pageSize int, lang string) *Service {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return &Service{
		client:   client,
		pageSize: pageSize,
		lang:     strings.TrimSpace(lang),
	}
}

// ListPostUIDs returns the uid of every post, following the connection cursor
// until the last page.
func (s *Service) ListPostUIDs(ctx context.Context) ([]string, error) {
	var lang *string
	if s.lang != "" {
		lang = &s.lang
	}

	uids := make([]string, 0, s.pageSize)
	var after *string
	for {
		response, err := gql.AllPostUIDs(ctx, s.client, s.pageSize, after, lang)
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		if response == nil {
			return uids, nil
		}

		connection := response.AllPostss
		for _, edge := range connection.Edges {
			if edge == nil {
				continue
			}
			uid := strOr(edge.Node.Meta.Uid, "")
			if uid == "" {
				continue
			}
			uids = append(uids, uid)
		}

		next := connection.PageInfo.EndCursor
		if !connection.PageInfo.HasNextPage || next == nil || *next == "" {
			return uids, nil
		}
		if after != nil && *after == *next {
			return nil, fmt.Errorf("list posts: cursor %q did not advance", *next)
		}
		after = next
	}
}

func (s *Service) GetPostByUID(ctx context.Context, uid string) (*Post, error) {
	response, err := gql.PostByUID(ctx, s.client, uid, s.lang)
	if err != nil {
		return nil, fmt.Errorf("get post %q: %w", uid, err)
	}

	if response == nil || response.Posts == nil {
		return nil, ErrNotFound
	}

	return mapPost(uid, response.Posts)
}

func mapPost(uid string, doc *gql.PostByUIDPost) (*Post, error) {
	banner, err := mapBanner(doc.Banner)
	if err != nil {
		return nil, err
	}

	content := make([]ContentSection, 0, len(doc.Content))
	for idx, section := range doc.Content {
		if section == nil {
			continue
		}
		body, err := richtext.Parse(section.Body)
		if err != nil {
			return nil, fmt.Errorf("post %q section %d: %w", uid, idx, err)
		}
		content = append(content, ContentSection{
			Heading: strOr(section.Heading, ""),
			Body:    body,
		})
	}

	return &Post{
		UID:                  strOr(doc.Meta.Uid, uid),
		FirstPublicationDate: doc.Meta.FirstPublicationDate,
		Data: PostData{
			Title:    strOr(doc.Title, ""),
			Subtitle: strOr(doc.Subtitle, ""),
			Author:   strOr(doc.Author, ""),
			Banner:   banner,
			Content:  content,
		},
	}, nil
}

func mapBanner(raw gql.JSON) (Banner, error) {
	image, ok, err := gql.DecodeImage(raw)
	if err != nil {
		return Banner{}, err
	}
	if !ok {
		return Banner{}, nil
	}

	return Banner{
		URL:    image.URL,
		Alt:    image.Alt,
		Width:  image.Dimensions.Width,
		Height: image.Dimensions.Height,
	}, nil
}

func strOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}

	if *value == "" {
		return fallback
	}

	return *value
}
