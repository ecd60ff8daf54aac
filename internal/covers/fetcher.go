package covers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/book-catalog/internal/config"
	"github.com/handiism/book-catalog/internal/event"
	"github.com/handiism/book-catalog/internal/http"
	ioutils "github.com/handiism/book-catalog/internal/io"
	"github.com/handiism/book-catalog/internal/model"
)

// Result summarises a Sync run.
type Result struct {
	Fetched int
	Skipped int
	Failed  int
}

// Fetcher downloads cover art into the cache directory.
type Fetcher struct {
	settings     *config.Settings
	httpClient   *http.Client
	imageService *ioutils.ImageService
	onEvent      event.Func

	total   int32
	done    int32
	fetched int32
	skipped int32
	failed  int32
}

// NewFetcher creates a Fetcher using settings' cover options.
func NewFetcher(settings *config.Settings, onEvent event.Func) *Fetcher {
	return &Fetcher{
		settings:     settings,
		httpClient:   http.NewClient(),
		imageService: ioutils.NewImageService(),
		onEvent:      onEvent,
	}
}

// Path returns where the thumbnail for bookID is cached.
func (f *Fetcher) Path(bookID string) string {
	return filepath.Join(f.settings.CoverCacheDir, ioutils.SanitizeFileName(bookID)+".jpg")
}

// Cached reports whether a thumbnail for bookID exists.
func (f *Fetcher) Cached(bookID string) bool {
	return ioutils.FileExists(f.Path(bookID))
}

// Progress returns how many covers have been processed out of the total.
func (f *Fetcher) Progress() (done, total int32) {
	return atomic.LoadInt32(&f.done), atomic.LoadInt32(&f.total)
}

// Sync makes sure every eligible book has a cached thumbnail.
func (f *Fetcher) Sync(ctx context.Context, books []model.Book) (Result, error) {
	if err := ioutils.EnsureDir(f.settings.CoverCacheDir); err != nil {
		return Result{}, fmt.Errorf("create cover cache: %w", err)
	}

	atomic.StoreInt32(&f.total, int32(len(books)))
	atomic.StoreInt32(&f.done, 0)
	atomic.StoreInt32(&f.fetched, 0)
	atomic.StoreInt32(&f.skipped, 0)
	atomic.StoreInt32(&f.failed, 0)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, f.settings.MaxConcurrentCovers))

	for _, book := range books {
		g.Go(func() error {
			defer atomic.AddInt32(&f.done, 1)

			if reason, skip := f.skipReason(book); skip {
				f.onEvent.Emit(event.LevelVerbose, fmt.Sprintf("Skipping cover for %s: %s", book.Title, reason))
				atomic.AddInt32(&f.skipped, 1)
				return nil
			}

			if err := f.fetchCover(ctx, book); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				f.onEvent.Emit(event.LevelWarning, fmt.Sprintf("Error fetching cover for %s: %v", book.Title, err))
				atomic.AddInt32(&f.failed, 1)
				return nil // Continue with other covers
			}

			atomic.AddInt32(&f.fetched, 1)
			f.onEvent.Emit(event.LevelVerbose, fmt.Sprintf("Cached cover for %s", book.Title))
			return nil
		})
	}

	err := g.Wait()
	result := Result{
		Fetched: int(atomic.LoadInt32(&f.fetched)),
		Skipped: int(atomic.LoadInt32(&f.skipped)),
		Failed:  int(atomic.LoadInt32(&f.failed)),
	}
	if err != nil {
		return result, err
	}

	level := event.LevelSuccess
	if result.Failed > 0 {
		level = event.LevelWarning
	}
	f.onEvent.Emit(level, fmt.Sprintf("Covers: %d fetched, %d skipped, %d failed", result.Fetched, result.Skipped, result.Failed))
	return result, nil
}

func (f *Fetcher) skipReason(book model.Book) (string, bool) {
	switch {
	case book.Image == "" || book.Image == f.settings.PlaceholderImage:
		return "no cover image", true
	case !strings.HasPrefix(book.Image, "http://") && !strings.HasPrefix(book.Image, "https://"):
		return "not an http(s) URL", true
	case f.Cached(book.ID):
		return "already cached", true
	}
	return "", false
}

func (f *Fetcher) fetchCover(ctx context.Context, book model.Book) error {
	var (
		data []byte
		err  error
	)

	attempts := max(1, f.settings.CoverMaxRetries)
	for tries := 0; tries < attempts; tries++ {
		data, err = f.httpClient.Get(ctx, book.Image)
		if err == nil || !retryable(err) || tries == attempts-1 {
			break
		}
		f.onEvent.Emit(event.LevelVerbose, fmt.Sprintf("Retry %d/%d for %s", tries+1, attempts, book.Title))
		f.waitForRetry(ctx, tries)
	}
	if err != nil {
		return err
	}

	thumb, err := f.imageService.Thumbnail(ctx, data, f.settings.CoverMaxSize)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	return ioutils.WriteFileAtomic(ctx, f.Path(book.ID), thumb)
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return true
}

func (f *Fetcher) waitForRetry(ctx context.Context, tries int) {
	cooldown := f.settings.CoverRetryCooldown * math.Pow(f.settings.CoverRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}
