// Package instagram provides a client for interacting with Instagram's web API.
//
// This package is the provider boundary of the reel downloader: it owns
// all protocol details (headers, session cookies, pagination, transport
// retries) and exposes only profiles, a lazy post iterator, and video
// bytes. It includes:
//   - A configurable HTTP client with proper headers and typed errors
//   - Type-safe models for Instagram API responses
//   - A forward-only, non-restartable iterator over a profile's posts
//
// Example usage:
//
//	client := instagram.NewClient(30*time.Second, 3, nil)
//
//	profile, err := client.FetchProfile("natgeo")
//	if err != nil {
//	    if errors.IsType(err, errors.ErrorTypeNotFound) {
//	        // profile does not exist
//	    }
//	}
//
//	it := client.Posts(profile.ID)
//	for it.Next() {
//	    post := it.Post()
//	    if post.IsVideo {
//	        data, err := client.DownloadVideo(post.VideoURL)
//	        // handle video data
//	    }
//	}
package instagram
