// Package httputil downloads prebuilt dataset files over HTTP.
//
// # Overview
//
//   - [Downloader]: fetches a URL into a local file, atomically
//   - [Cache]: remembers the validators (ETag, Last-Modified) of past downloads
//   - [Retry]: retries transient failures with exponential backoff
//
// # Conditional downloads
//
// Benchmark graphs are large, so a repeated fetch should not transfer the
// file again. After a successful download the [Downloader] records the
// response validators in its [Cache]. The next fetch of the same URL sends
// If-None-Match / If-Modified-Since, and a 304 response leaves the local
// file as it is. Validators are only trusted while the local file still has
// the recorded size.
//
//	cache, err := httputil.NewCache(dir, 0)
//	d := httputil.NewDownloader(cache, logger)
//	res, err := d.Fetch(ctx, url, "data/graphs/soc-LiveJournal1.bin", false)
//	if res.NotModified {
//	    // already up to date
//	}
//
// # Retry
//
// Network errors, 5xx responses and 429 rate limits are retried; other
// statuses fail immediately. A 404 maps to NOT_FOUND so the CLI can tell
// a missing dataset apart from an outage.
package httputil
