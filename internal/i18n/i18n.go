package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFiles embed.FS

// Prismic publication dates carry a numeric offset without a colon.
const prismicDateLayout = "2006-01-02T15:04:05-0700"

const (
	msgLoading         = "loading"
	msgReadingTime     = "reading_time"
	msgNotFoundTitle   = "not_found_title"
	msgNotFoundMessage = "not_found_message"
	msgNotFoundBack    = "not_found_back"
	msgAuthorLabel     = "author_label"
	msgPublishedLabel  = "published_label"
)

type Translator struct {
	tag       language.Tag
	localizer *goi18n.Localizer
	location  *time.Location
}

// NewBundle loads every embedded message file. Brazilian Portuguese is the
// default language.
func NewBundle() (*goi18n.Bundle, error) {
	bundle := goi18n.NewBundle(language.BrazilianPortuguese)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	paths, err := fs.Glob(localeFiles, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list locale files: %w", err)
	}
	for _, path := range paths {
		if _, err := bundle.LoadMessageFileFS(localeFiles, path); err != nil {
			return nil, fmt.Errorf("load locale file %q: %w", path, err)
		}
	}

	return bundle, nil
}

func New(locale string, timeZone string) (*Translator, error) {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	location := time.UTC
	if name := strings.TrimSpace(timeZone); name != "" {
		location, err = time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("load time zone %q: %w", timeZone, err)
		}
	}

	bundle, err := NewBundle()
	if err != nil {
		return nil, err
	}

	return &Translator{
		tag:       tag,
		localizer: goi18n.NewLocalizer(bundle, tag.String()),
		location:  location,
	}, nil
}

// Lang is the value of the document lang attribute.
func (t *Translator) Lang() string {
	return t.tag.String()
}

func (t *Translator) Loading() string {
	return t.text(msgLoading, nil)
}

func (t *Translator) ReadingTime(minutes int) string {
	return t.text(msgReadingTime, map[string]interface{}{"Minutes": minutes})
}

func (t *Translator) NotFoundTitle() string {
	return t.text(msgNotFoundTitle, nil)
}

func (t *Translator) NotFoundMessage(path string) string {
	return t.text(msgNotFoundMessage, map[string]interface{}{"Path": path})
}

func (t *Translator) NotFoundBack() string {
	return t.text(msgNotFoundBack, nil)
}

func (t *Translator) AuthorLabel() string {
	return t.text(msgAuthorLabel, nil)
}

func (t *Translator) PublishedLabel() string {
	return t.text(msgPublishedLabel, nil)
}

// FormatDate renders a publication date as "25 mar 2021" in the configured
// time zone. A nil or blank date gives an empty string; an unparseable one is
// returned unchanged.
func (t *Translator) FormatDate(raw *string) string {
	if raw == nil {
		return ""
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return ""
	}

	published, err := parseDate(value)
	if err != nil {
		return value
	}

	local := published.In(t.location)
	return fmt.Sprintf("%02d %s %d", local.Day(), t.month(local.Month()), local.Year())
}

// DateTimeAttr is the machine readable value of a <time> element.
func (t *Translator) DateTimeAttr(raw *string) string {
	if raw == nil {
		return ""
	}

	published, err := parseDate(strings.TrimSpace(*raw))
	if err != nil {
		return ""
	}
	return published.In(t.location).Format(time.RFC3339)
}

func (t *Translator) month(month time.Month) string {
	return t.text(fmt.Sprintf("month_%02d", int(month)), nil)
}

func (t *Translator) text(id string, data map[string]interface{}) string {
	message, err := t.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return message
}

func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(prismicDateLayout, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}
