package downloader

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"reeldl/pkg/config"
	"reeldl/pkg/errors"
	"reeldl/pkg/instagram"
	"reeldl/pkg/logger"
	"reeldl/pkg/naming"
	"reeldl/pkg/ratelimit"
	"reeldl/pkg/storage"
	"reeldl/pkg/ui"
)

// Provider is the external scraping capability the downloader consumes:
// username to profile resolution, profile to lazy post sequence, and
// post to video bytes. All protocol details live behind it.
type Provider interface {
	FetchProfile(username string) (*instagram.Profile, error)
	Posts(userID string) PostSource
	DownloadVideo(url string) ([]byte, error)
}

// PostSource is a finite, forward-only, non-restartable sequence of posts
type PostSource interface {
	Next() bool
	Post() instagram.Post
	Err() error
}

// Store is the output directory surface used by the downloader
type Store interface {
	Exists(filename string) bool
	SaveVideo(r io.Reader, filename string) error
	WriteCaptions(captions map[string]string) error
	OutputDir() string
}

// Pacer throttles the loop between processed video posts
type Pacer interface {
	Pause()
}

// Result is the explicit accumulator for one pass over a profile.
// Counters are carried here instead of in shared mutable state.
type Result struct {
	Username   string
	OutputDir  string
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64
	Duration   time.Duration
}

// Downloader performs a strictly sequential single pass over a
// profile's posts: filter videos, derive a filename, skip items
// already on disk, download the rest with a fixed pause between
// items. One post is fully processed before the next is considered;
// concurrent requests would only invite upstream throttling.
type Downloader struct {
	provider      Provider
	store         Store
	pacer         Pacer
	maxItems      int
	writeCaptions bool
	logger        logger.Logger
}

// clientProvider adapts *instagram.Client to the Provider interface
type clientProvider struct {
	*instagram.Client
}

func (p clientProvider) Posts(userID string) PostSource {
	return p.Client.Posts(userID)
}

// New creates a Downloader wired from configuration
func New(cfg *config.Config) (*Downloader, error) {
	log := logger.GetLogger()

	client := instagram.NewClient(cfg.Download.DownloadTimeout, cfg.RateLimit.MaxRetries, log)
	client.SetUserAgent(cfg.Instagram.UserAgent)
	client.SetLimiter(ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute))
	if cfg.HasCredentials() {
		client.SetCredentials(cfg.Instagram.SessionID, cfg.Instagram.CSRFToken)
	}

	store, err := storage.NewManager(cfg.Download.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	return &Downloader{
		provider:      clientProvider{client},
		store:         store,
		pacer:         ratelimit.NewFixedInterval(cfg.Download.ItemDelay),
		maxItems:      cfg.Download.MaxItems,
		writeCaptions: cfg.Download.WriteCaptions,
		logger:        log,
	}, nil
}

// NewWithParts creates a Downloader from explicit collaborators. Used
// by tests and callers that assemble their own provider or store.
func NewWithParts(provider Provider, store Store, pacer Pacer, maxItems int, writeCaptions bool, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Downloader{
		provider:      provider,
		store:         store,
		pacer:         pacer,
		maxItems:      maxItems,
		writeCaptions: writeCaptions,
		logger:        log,
	}
}

// Run downloads all reels from the given profile. Fatal errors
// (profile not found, authentication, connectivity before any item)
// abort with an error and no Result; per-item failures are counted
// and the pass continues.
func (d *Downloader) Run(username string) (*Result, error) {
	start := time.Now()

	d.logger.InfoWithFields("Starting reel download", map[string]interface{}{
		"username": username,
		"action":   "download_start",
	})

	profile, err := d.provider.FetchProfile(username)
	if err != nil {
		d.logger.WithError(err).WithField("username", username).Error("Failed to fetch profile")
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	ui.PrintProfile(profile)

	result := &Result{
		Username:  profile.Username,
		OutputDir: d.store.OutputDir(),
	}
	captions := make(map[string]string)

	it := d.provider.Posts(profile.ID)
	for it.Next() {
		if d.maxItems > 0 && result.Downloaded+result.Skipped+result.Failed >= d.maxItems {
			d.logger.InfoWithFields("Item cap reached, stopping", map[string]interface{}{
				"username":  username,
				"max_items": d.maxItems,
			})
			break
		}

		post := it.Post()

		if !post.IsVideo {
			d.logger.DebugWithFields("Skipping non-video post", map[string]interface{}{
				"username":  username,
				"shortcode": post.Shortcode,
			})
			continue
		}

		filename := naming.ForReel(post.Caption, post.Shortcode)

		// A file with the derived name on disk means the post was
		// already processed; no network access for this item.
		if d.store.Exists(filename) {
			result.Skipped++
			ui.PrintSkipped(filename)
			logger.LogDownload(username, post.Shortcode, filename, false, nil)
			continue
		}

		ui.PrintDownloading(filename)

		size, err := d.downloadOne(post, filename)
		if err != nil {
			// A single failing item must not abort the run
			result.Failed++
			ui.PrintError("Failed to download reel", err.Error())
			d.logger.WithError(err).WithField("post_url", instagram.PostURL(post.Shortcode)).Debug("Reel download failed")
			logger.LogDownload(username, post.Shortcode, filename, false, err)
		} else {
			result.Downloaded++
			result.Bytes += size
			ui.PrintDownloaded(filename, size)
			logger.LogDownload(username, post.Shortcode, filename, true, nil)
			if d.writeCaptions && post.Caption != "" {
				captions[filename] = post.Caption
			}
		}

		// Fixed pause after every download attempt, successful or not
		d.pacer.Pause()
	}

	if err := it.Err(); err != nil {
		// A connectivity failure before any item was processed means
		// no posts could be enumerated at all
		if result.Downloaded+result.Skipped+result.Failed == 0 {
			d.logger.WithError(err).WithField("username", username).Error("Failed to enumerate posts")
			return nil, fmt.Errorf("failed to enumerate posts: %w", err)
		}
		d.logger.WithError(err).WithField("username", username).Error("Post enumeration stopped early")
		ui.PrintWarning("Post enumeration stopped early", err.Error())
	}

	if d.writeCaptions {
		if err := d.store.WriteCaptions(captions); err != nil {
			d.logger.WithError(err).Warn("Failed to write captions file")
		}
	}

	result.Duration = time.Since(start)

	d.logger.InfoWithFields("Reel download completed", map[string]interface{}{
		"username":   username,
		"downloaded": result.Downloaded,
		"skipped":    result.Skipped,
		"failed":     result.Failed,
		"action":     "download_complete",
	})

	return result, nil
}

// downloadOne fetches and stores a single reel, returning its size
func (d *Downloader) downloadOne(post instagram.Post, filename string) (int64, error) {
	if post.VideoURL == "" {
		return 0, errors.New(errors.ErrorTypeParsing, "post has no video URL", 0)
	}

	data, err := d.provider.DownloadVideo(post.VideoURL)
	if err != nil {
		return 0, err
	}

	if err := d.store.SaveVideo(bytes.NewReader(data), filename); err != nil {
		return 0, err
	}

	return int64(len(data)), nil
}
