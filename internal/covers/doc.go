// Package covers keeps a local cache of cover thumbnails.
//
// The Fetcher downloads each book's image URL, scales it down with
// ioutils.ImageService and stores a JPEG named after the book id:
//
//	fetcher := covers.NewFetcher(settings, func(e event.Event) {
//	    fmt.Println(e.Message)
//	})
//	result, err := fetcher.Sync(ctx, snap.Books())
//	fmt.Println(fetcher.Path(book.ID)) // cached thumbnail location
//
// # Concurrency
//
// Downloads run on an errgroup limited to Settings.MaxConcurrentCovers.
// A failed cover is reported as a warning and does not stop the others;
// Sync only returns an error when the context is cancelled or the cache
// directory cannot be created.
//
// # Retries
//
// Network errors and retryable HTTP statuses (408, 429, 5xx) are retried
// up to Settings.CoverMaxRetries times, waiting
// CoverRetryCooldown * CoverRetryExponent^attempt seconds between tries.
//
// # Skipped covers
//
// Books whose image is the placeholder, not an http(s) URL, or already
// cached are skipped.
package covers
