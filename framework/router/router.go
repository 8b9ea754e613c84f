package router

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var dynamicSegmentNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._~-]*$`)

type pathSegment struct {
	name    string
	isParam bool
}

// Pattern is a compiled route pattern such as "/post/[slug]".
type Pattern struct {
	raw      string
	segments []pathSegment
}

func Compile(raw string) (Pattern, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Pattern{}, errors.New("route pattern cannot be empty")
	}

	parts := SplitPathSegments(raw)
	segments := make([]pathSegment, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		name, isParam, err := parseWildcardSegment(part)
		if err != nil {
			return Pattern{}, fmt.Errorf("route pattern %q: %w", raw, err)
		}
		if !isParam {
			segments = append(segments, pathSegment{name: part})
			continue
		}
		if _, ok := seen[name]; ok {
			return Pattern{}, fmt.Errorf("route pattern %q: duplicate param %q", raw, name)
		}
		seen[name] = struct{}{}
		segments = append(segments, pathSegment{name: name, isParam: true})
	}

	return Pattern{raw: raw, segments: segments}, nil
}

func MustCompile(raw string) Pattern {
	pattern, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return pattern
}

func (p Pattern) String() string {
	return p.raw
}

func (p Pattern) Match(requestPath string) (map[string]string, bool) {
	requestSegments := SplitPathSegments(requestPath)
	if len(p.segments) != len(requestSegments) {
		return nil, false
	}

	params := make(map[string]string, 2)
	for idx, segment := range p.segments {
		requestValue := requestSegments[idx]
		if !segment.isParam {
			if segment.name != requestValue {
				return nil, false
			}
			continue
		}

		decoded, err := url.PathUnescape(requestValue)
		if err != nil || strings.TrimSpace(decoded) == "" {
			return nil, false
		}
		params[segment.name] = decoded
	}

	return params, true
}

// Format builds the request path for params. Every param of the pattern must be
// present and non-empty.
func (p Pattern) Format(params map[string]string) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}

	parts := make([]string, 0, len(p.segments))
	for _, segment := range p.segments {
		if !segment.isParam {
			parts = append(parts, segment.name)
			continue
		}

		value := strings.TrimSpace(params[segment.name])
		if value == "" {
			return "", fmt.Errorf("route pattern %q: missing param %q", p.raw, segment.name)
		}
		parts = append(parts, url.PathEscape(value))
	}

	return "/" + strings.Join(parts, "/"), nil
}

// IsValidSlug reports whether slug is a URL safe document uid.
func IsValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

func parseWildcardSegment(segment string) (string, bool, error) {
	if strings.HasPrefix(segment, "[") || strings.HasSuffix(segment, "]") {
		if !strings.HasPrefix(segment, "[") || !strings.HasSuffix(segment, "]") {
			return "", false, fmt.Errorf("invalid wildcard segment %q", segment)
		}

		name := strings.TrimSpace(segment[1 : len(segment)-1])
		if !dynamicSegmentNamePattern.MatchString(name) {
			return "", false, fmt.Errorf("invalid wildcard name %q", name)
		}

		return name, true, nil
	}

	if strings.ContainsAny(segment, "[]") {
		return "", false, fmt.Errorf("invalid static segment %q", segment)
	}

	return "", false, nil
}

func SplitPathSegments(raw string) []string {
	cleaned := path.Clean("/" + strings.TrimSpace(raw))
	if cleaned == "/" {
		return []string{}
	}

	trimmed := strings.Trim(cleaned, "/")
	if trimmed == "" {
		return []string{}
	}

	return strings.Split(trimmed, "/")
}
