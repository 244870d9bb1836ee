package gallery

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

type Unsplash struct {
	client *resty.Client
}

func NewUnsplash(baseURL, accessKey string) *Unsplash {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Authorization", "Client-ID "+accessKey).
		SetHeader("Accept-Version", "v1")
	return &Unsplash{client: c}
}

func (u *Unsplash) Name() string { return "unsplash" }

type unsplashPhoto struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	URLs           struct {
		Regular string `json:"regular"`
		Thumb   string `json:"thumb"`
	} `json:"urls"`
	User struct {
		Name  string `json:"name"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
	} `json:"user"`
}

func (u *Unsplash) Search(ctx context.Context, query string, limit int) ([]Image, error) {
	var out struct {
		Results []unsplashPhoto `json:"results"`
	}
	resp, err := u.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":    query,
			"per_page": strconv.Itoa(limit),
		}).
		SetResult(&out).
		Get("/search/photos")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unsplash: status %d", resp.StatusCode())
	}

	imgs := make([]Image, 0, len(out.Results))
	for _, p := range out.Results {
		desc := p.Description
		if desc == "" {
			desc = p.AltDescription
		}
		imgs = append(imgs, Image{
			ID:          "unsplash-" + p.ID,
			URL:         p.URLs.Regular,
			Thumbnail:   p.URLs.Thumb,
			Description: desc,
			Source:      u.Name(),
			Author:      p.User.Name,
			AuthorURL:   p.User.Links.HTML,
		})
	}
	return imgs, nil
}
