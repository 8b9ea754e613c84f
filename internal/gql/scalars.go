package gql

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSON preserves raw values of the Prismic Json scalar (rich text, images, links).
type JSON = json.RawMessage

// ImageField is the JSON shape of a Prismic image field.
type ImageField struct {
	URL        string `json:"url"`
	Alt        string `json:"alt"`
	Dimensions struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"dimensions"`
}

// DecodeImage decodes an image field. Empty image fields decode to ok=false.
func DecodeImage(raw JSON) (ImageField, bool, error) {
	var image ImageField
	if IsNull(raw) {
		return image, false, nil
	}
	if err := json.Unmarshal(raw, &image); err != nil {
		return ImageField{}, false, fmt.Errorf("decode image field: %w", err)
	}
	return image, image.URL != "", nil
}

func IsNull(raw JSON) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
