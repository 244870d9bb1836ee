// Package gallery merges three stock-photo providers into one decorative
// image feed. Nothing here is critical: a failing provider contributes
// nothing and the rest proceed.
package gallery

import "context"

// Image is the normalized shape every provider is mapped to before merging.
type Image struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Author      string `json:"author"`
	AuthorURL   string `json:"authorUrl"`
}

// Source is one photo provider. Implementations own their query-parameter and
// auth-header conventions.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Image, error)
}

// Options tune one aggregate call.
type Options struct {
	PerSource int  // images requested from each provider; default 10
	Shuffle   bool // mix providers instead of grouping them
}

func (o Options) perSource() int {
	if o.PerSource > 0 {
		return o.PerSource
	}
	return 10
}
