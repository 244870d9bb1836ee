package gallery

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

type Pexels struct {
	client *resty.Client
}

func NewPexels(baseURL, apiKey string) *Pexels {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Authorization", apiKey)
	return &Pexels{client: c}
}

func (p *Pexels) Name() string { return "pexels" }

type pexelsPhoto struct {
	ID  int64 `json:"id"`
	Src struct {
		Large string `json:"large"`
		Tiny  string `json:"tiny"`
	} `json:"src"`
	Alt             string `json:"alt"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
}

func (p *Pexels) Search(ctx context.Context, query string, limit int) ([]Image, error) {
	var out struct {
		Photos []pexelsPhoto `json:"photos"`
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":    query,
			"per_page": strconv.Itoa(limit),
		}).
		SetResult(&out).
		Get("/v1/search")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("pexels: status %d", resp.StatusCode())
	}

	imgs := make([]Image, 0, len(out.Photos))
	for _, ph := range out.Photos {
		imgs = append(imgs, Image{
			ID:          "pexels-" + strconv.FormatInt(ph.ID, 10),
			URL:         ph.Src.Large,
			Thumbnail:   ph.Src.Tiny,
			Description: ph.Alt,
			Source:      p.Name(),
			Author:      ph.Photographer,
			AuthorURL:   ph.PhotographerURL,
		})
	}
	return imgs, nil
}
