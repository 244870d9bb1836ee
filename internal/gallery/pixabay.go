package gallery

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Pixabay authenticates through a query parameter, not a header.
type Pixabay struct {
	client *resty.Client
	apiKey string
}

func NewPixabay(baseURL, apiKey string) *Pixabay {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)
	return &Pixabay{client: c, apiKey: apiKey}
}

func (p *Pixabay) Name() string { return "pixabay" }

type pixabayHit struct {
	ID           int64  `json:"id"`
	WebformatURL string `json:"webformatURL"`
	PreviewURL   string `json:"previewURL"`
	Tags         string `json:"tags"`
	User         string `json:"user"`
	UserID       int64  `json:"user_id"`
	PageURL      string `json:"pageURL"`
}

func (p *Pixabay) Search(ctx context.Context, query string, limit int) ([]Image, error) {
	var out struct {
		Hits []pixabayHit `json:"hits"`
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":      p.apiKey,
			"q":        query,
			"per_page": strconv.Itoa(limit),
		}).
		SetResult(&out).
		Get("/api/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("pixabay: status %d", resp.StatusCode())
	}

	imgs := make([]Image, 0, len(out.Hits))
	for _, h := range out.Hits {
		imgs = append(imgs, Image{
			ID:          "pixabay-" + strconv.FormatInt(h.ID, 10),
			URL:         h.WebformatURL,
			Thumbnail:   h.PreviewURL,
			Description: h.Tags,
			Source:      p.Name(),
			Author:      h.User,
			AuthorURL:   h.PageURL,
		})
	}
	return imgs, nil
}
