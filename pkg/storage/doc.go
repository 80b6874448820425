// Package storage provides output directory management for the reel downloader.
//
// The storage package handles:
//   - Creating the output directory and probing it for writability
//   - Saving videos with atomic write operations
//   - Filename-based duplicate detection
//
// The Manager type is the primary interface. It seeds an in-memory set
// of present filenames by scanning the directory on initialization and
// keeps it in sync as videos are saved; a name present in the set (or
// on disk) means the corresponding post is skipped without network
// access. There is no manifest, index, or database beyond the
// directory listing itself.
//
// Usage:
//
//	manager, err := storage.NewManager("videos")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if !manager.Exists("Sunset.mp4") {
//	    err = manager.SaveVideo(videoReader, "Sunset.mp4")
//	}
package storage
