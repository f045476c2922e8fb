// Package pexels provides an HTTP client for the Pexels photo search API.
//
// # Overview
//
// New tasks are decorated with a stock photo that matches their title.
// [Client.SearchImage] asks Pexels (https://www.pexels.com/api/) for the
// single best match and returns the URL of its medium-sized rendition.
//
// # Usage
//
//	client := pexels.NewClient(c, os.Getenv("PEXELS_API_KEY"), 24*time.Hour)
//	url, err := client.SearchImage(ctx, "Buy groceries")
//	if err != nil {
//	    // the caller decides; task creation logs and continues
//	}
//
// An empty API key disables the client: SearchImage returns "" without
// making a request. A search with no results also returns "".
//
// # Caching
//
// Raw responses are cached under the "pexels:" namespace, keyed by a hash of
// the query, so repeated titles cost one request per TTL.
package pexels
