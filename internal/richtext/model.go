// Package richtext renders Prismic structured text fields.
package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	BlockHeading1    = "heading1"
	BlockHeading2    = "heading2"
	BlockHeading3    = "heading3"
	BlockHeading4    = "heading4"
	BlockHeading5    = "heading5"
	BlockHeading6    = "heading6"
	BlockParagraph   = "paragraph"
	BlockPre         = "preformatted"
	BlockListItem    = "list-item"
	BlockOListItem   = "o-list-item"
	BlockImage       = "image"
	BlockEmbed       = "embed"
	SpanStrong       = "strong"
	SpanEm           = "em"
	SpanHyperlink    = "hyperlink"
	SpanLabel        = "label"
	LinkTypeWeb      = "Web"
	LinkTypeMedia    = "Media"
	LinkTypeDocument = "Document"
)

// RichText is the value of a structured text field: an ordered list of blocks.
type RichText []Block

type Block struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Spans []Span `json:"spans"`

	// Image blocks.
	URL        string      `json:"url,omitempty"`
	Alt        *string     `json:"alt,omitempty"`
	Copyright  *string     `json:"copyright,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
	LinkTo     *Link       `json:"linkTo,omitempty"`

	// Embed blocks.
	Oembed *Embed `json:"oembed,omitempty"`
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Embed struct {
	Type         string `json:"type"`
	EmbedURL     string `json:"embed_url"`
	ProviderName string `json:"provider_name"`
	Title        string `json:"title"`
	HTML         string `json:"html"`
}

// Span marks [Start, End) of a block's text, counted in UTF-16 code units.
type Span struct {
	Start int       `json:"start"`
	End   int       `json:"end"`
	Type  string    `json:"type"`
	Data  *SpanData `json:"data,omitempty"`
}

type SpanData struct {
	Link
	Label string `json:"label,omitempty"`
}

type Link struct {
	LinkType string `json:"link_type"`
	URL      string `json:"url,omitempty"`
	Target   string `json:"target,omitempty"`
	Name     string `json:"name,omitempty"`

	// Document links.
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	UID      string `json:"uid,omitempty"`
	Lang     string `json:"lang,omitempty"`
	IsBroken bool   `json:"isBroken,omitempty"`
}

// Parse decodes a structured text field. null and empty input yield an empty value.
func Parse(raw []byte) (RichText, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return RichText{}, nil
	}

	var blocks RichText
	if err := json.Unmarshal(trimmed, &blocks); err != nil {
		return nil, fmt.Errorf("decode rich text: %w", err)
	}
	return blocks, nil
}

func headingLevel(blockType string) int {
	switch blockType {
	case BlockHeading1:
		return 1
	case BlockHeading2:
		return 2
	case BlockHeading3:
		return 3
	case BlockHeading4:
		return 4
	case BlockHeading5:
		return 5
	case BlockHeading6:
		return 6
	default:
		return 0
	}
}
