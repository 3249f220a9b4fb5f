package content

import (
	"net/url"
	"strings"
)

// Resolver turns authored image paths into URLs a client can fetch.
type Resolver struct {
	// AssetsBase is the public prefix of the assets route, e.g.
	// https://flashcards.example.com/assets.
	AssetsBase string
}

// ImageURL resolves path for deck contentID. Absolute URLs and rooted
// paths are returned unchanged.
func (r Resolver) ImageURL(contentID, p string) string {
	if p == "" {
		return ""
	}
	if u, err := url.Parse(p); err == nil && u.Scheme != "" {
		return p
	}
	if strings.HasPrefix(p, "/") {
		return p
	}
	return strings.TrimSuffix(r.AssetsBase, "/") + "/" + AssetKey(contentID, p)
}

// For binds the resolver to one deck, in the form flashcards.WithImageResolver
// expects.
func (r Resolver) For(contentID string) func(string) string {
	return func(p string) string { return r.ImageURL(contentID, p) }
}
