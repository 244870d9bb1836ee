package gallery

import (
	"context"
	"math/rand"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Aggregator fans a query out to every registered source and merges whatever
// comes back. Partial success is the contract: one failing or rate-limited
// source never fails the aggregate, and nothing is retried.
type Aggregator struct {
	sources  []Source
	limiters map[string]*rate.Limiter
	log      *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewAggregator(log *zap.Logger, seed int64, sources ...Source) *Aggregator {
	return &Aggregator{
		sources:  sources,
		limiters: map[string]*rate.Limiter{},
		log:      log,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// SetRate caps outbound calls for one source. Without a cap the source is
// called freely.
func (a *Aggregator) SetRate(source string, rps float64, burst int) {
	if rps <= 0 {
		return
	}
	if burst < 1 {
		burst = 1
	}
	a.limiters[source] = rate.NewLimiter(rate.Limit(rps), burst)
}

func (a *Aggregator) allowed(source string) bool {
	lim, ok := a.limiters[source]
	if !ok {
		return true
	}
	return lim.Allow()
}

// Search queries all sources concurrently and merges the results.
func (a *Aggregator) Search(ctx context.Context, query string, opts Options) []Image {
	perSource := make([][]Image, len(a.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		i, src := i, src
		g.Go(func() error {
			if !a.allowed(src.Name()) {
				a.log.Debug("source over budget, skipped", zap.String("source", src.Name()))
				return nil
			}
			imgs, err := src.Search(gctx, query, opts.perSource())
			if err != nil {
				// absorbed: this source simply contributes nothing
				a.log.Debug("source failed", zap.String("source", src.Name()), zap.Error(err))
				return nil
			}
			perSource[i] = imgs
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	var merged []Image
	for _, imgs := range perSource {
		merged = append(merged, imgs...)
	}
	if opts.Shuffle {
		a.shuffle(merged)
	}
	return merged
}

// ByCategory is Search over a fixed category term.
func (a *Aggregator) ByCategory(ctx context.Context, category string, opts Options) []Image {
	return a.Search(ctx, category, opts)
}

// RandomOne picks a single image for a category. The second return is false
// when every source came back empty.
func (a *Aggregator) RandomOne(ctx context.Context, category string) (Image, bool) {
	imgs := a.Search(ctx, category, Options{PerSource: 5})
	if len(imgs) == 0 {
		return Image{}, false
	}
	a.mu.Lock()
	i := a.rng.Intn(len(imgs))
	a.mu.Unlock()
	return imgs[i], true
}

func (a *Aggregator) shuffle(imgs []Image) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rng.Shuffle(len(imgs), func(i, j int) { imgs[i], imgs[j] = imgs[j], imgs[i] })
}
