// Package integrations provides HTTP clients for third-party APIs.
//
// # Overview
//
// Each service has its own subpackage. Currently:
//
//   - [pexels]: stock photo search, used to attach an image to new tasks
//
// # Shared Infrastructure
//
// The [Client] type provides what every service client needs:
//   - HTTP requests with default headers and a standard timeout
//   - Retries with exponential backoff for 429, 5xx and network failures
//   - Response caching through any [cache.Cache] backend
//   - Request and cache events reported to [observability] hooks
//
// Service clients build on it like this:
//
//	base := integrations.NewClient(c, "pexels:", 24*time.Hour, headers)
//	body, err := base.Cached(ctx, cache.Key("", query), false, func() ([]byte, error) {
//	    return base.GetBytes(ctx, endpoint, nil)
//	})
//
// [pexels]: github.com/matzehuels/taskgraph/pkg/integrations/pexels
// [cache.Cache]: github.com/matzehuels/taskgraph/pkg/cache.Cache
// [observability]: github.com/matzehuels/taskgraph/pkg/observability
package integrations
