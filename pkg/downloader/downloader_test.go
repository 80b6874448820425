package downloader

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reeldl/pkg/errors"
	"reeldl/pkg/instagram"
)

// fakeProvider serves a fixed profile and post list without a network
type fakeProvider struct {
	profile      *instagram.Profile
	profileErr   error
	posts        []instagram.Post
	iterErr      error
	iterErrAfter int // emit iterErr after this many posts (0 = before any)

	videos       map[string][]byte
	videoErrs    map[string]error
	downloadURLs []string
}

func (p *fakeProvider) FetchProfile(username string) (*instagram.Profile, error) {
	if p.profileErr != nil {
		return nil, p.profileErr
	}
	return p.profile, nil
}

func (p *fakeProvider) Posts(userID string) PostSource {
	return &fakeIterator{provider: p}
}

func (p *fakeProvider) DownloadVideo(url string) ([]byte, error) {
	p.downloadURLs = append(p.downloadURLs, url)
	if err, ok := p.videoErrs[url]; ok {
		return nil, err
	}
	if data, ok := p.videos[url]; ok {
		return data, nil
	}
	return []byte("video"), nil
}

type fakeIterator struct {
	provider *fakeProvider
	pos      int
	err      error
}

func (it *fakeIterator) Next() bool {
	p := it.provider
	if p.iterErr != nil && it.pos >= p.iterErrAfter {
		it.err = p.iterErr
		return false
	}
	if it.pos >= len(p.posts) {
		return false
	}
	it.pos++
	return true
}

func (it *fakeIterator) Post() instagram.Post {
	return it.provider.posts[it.pos-1]
}

func (it *fakeIterator) Err() error {
	return it.err
}

// fakeStore keeps saved files in memory
type fakeStore struct {
	files    map[string][]byte
	captions map[string]string
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (s *fakeStore) Exists(filename string) bool {
	_, ok := s.files[filename]
	return ok
}

func (s *fakeStore) SaveVideo(r io.Reader, filename string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.files[filename] = data
	return nil
}

func (s *fakeStore) WriteCaptions(captions map[string]string) error {
	s.captions = captions
	return nil
}

func (s *fakeStore) OutputDir() string {
	return "videos"
}

// fakePacer counts pauses instead of sleeping
type fakePacer struct {
	pauses int
}

func (p *fakePacer) Pause() {
	p.pauses++
}

func natgeoProvider() *fakeProvider {
	return &fakeProvider{
		profile: &instagram.Profile{ID: "12345", Username: "natgeo", FullName: "National Geographic"},
		posts: []instagram.Post{
			{ID: "1", Shortcode: "AAA", IsVideo: true, Caption: "Sunset\nmore text", VideoURL: "http://cdn/1.mp4"},
			{ID: "2", Shortcode: "BBB", IsVideo: true, Caption: "", VideoURL: "http://cdn/2.mp4"},
			{ID: "3", Shortcode: "CCC", IsVideo: false, Caption: "just a photo"},
		},
		videos: map[string][]byte{
			"http://cdn/1.mp4": []byte("sunset bytes"),
			"http://cdn/2.mp4": []byte("fallback bytes"),
		},
	}
}

func TestRunDownloadsVideosAndSkipsImages(t *testing.T) {
	provider := natgeoProvider()
	store := newFakeStore()
	pacer := &fakePacer{}

	d := NewWithParts(provider, store, pacer, 0, false, nil)

	result, err := d.Run("natgeo")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Downloaded)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, "natgeo", result.Username)
	assert.Equal(t, "videos", result.OutputDir)

	// Caption-named and fallback-named files are both present
	assert.Equal(t, []byte("sunset bytes"), store.files["Sunset.mp4"])
	assert.Equal(t, []byte("fallback bytes"), store.files["BBB.mp4"])
	assert.Len(t, store.files, 2)

	// The image post produced no network download
	assert.Equal(t, []string{"http://cdn/1.mp4", "http://cdn/2.mp4"}, provider.downloadURLs)

	// One pause per processed video post
	assert.Equal(t, 2, pacer.pauses)
}

func TestRunSkipsExistingFilesWithoutNetworkAccess(t *testing.T) {
	provider := natgeoProvider()
	store := newFakeStore()
	store.files["Sunset.mp4"] = []byte("already here")

	d := NewWithParts(provider, store, &fakePacer{}, 0, false, nil)

	result, err := d.Run("natgeo")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Downloaded)
	assert.Equal(t, 1, result.Skipped)

	// The skipped post was never fetched
	assert.Equal(t, []string{"http://cdn/2.mp4"}, provider.downloadURLs)

	// The existing file is untouched
	assert.Equal(t, []byte("already here"), store.files["Sunset.mp4"])
}

func TestRunIsIdempotent(t *testing.T) {
	provider := natgeoProvider()
	store := newFakeStore()

	d := NewWithParts(provider, store, &fakePacer{}, 0, false, nil)

	first, err := d.Run("natgeo")
	require.NoError(t, err)
	require.Equal(t, 2, first.Downloaded)

	provider.downloadURLs = nil

	second, err := d.Run("natgeo")
	require.NoError(t, err)

	assert.Equal(t, 0, second.Downloaded)
	assert.Equal(t, 2, second.Skipped)
	assert.Empty(t, provider.downloadURLs, "second run must not re-download")
}

func TestRunProfileNotFoundIsFatal(t *testing.T) {
	provider := &fakeProvider{
		profileErr: errors.New(errors.ErrorTypeNotFound, "profile does not exist", 404),
	}
	store := newFakeStore()

	d := NewWithParts(provider, store, &fakePacer{}, 0, false, nil)

	result, err := d.Run("doesnotexist123456")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	assert.Empty(t, store.files, "no files written on fatal abort")
}

func TestRunAuthErrorIsFatal(t *testing.T) {
	provider := &fakeProvider{
		profileErr: errors.New(errors.ErrorTypeAuth, "authentication required", 401),
	}

	d := NewWithParts(provider, newFakeStore(), &fakePacer{}, 0, false, nil)

	result, err := d.Run("someprivateuser")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuth))
}

func TestRunPerItemFailureDoesNotAbort(t *testing.T) {
	provider := natgeoProvider()
	provider.videoErrs = map[string]error{
		"http://cdn/1.mp4": errors.New(errors.ErrorTypeNetwork, "connection reset", 0),
	}
	store := newFakeStore()
	pacer := &fakePacer{}

	d := NewWithParts(provider, store, pacer, 0, false, nil)

	result, err := d.Run("natgeo")
	require.NoError(t, err, "a single failing item must not abort the run")

	assert.Equal(t, 1, result.Downloaded)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []byte("fallback bytes"), store.files["BBB.mp4"])

	// Failed attempts still pace before the next item
	assert.Equal(t, 2, pacer.pauses)
}

func TestRunSaveFailureCountsAsItemFailure(t *testing.T) {
	provider := natgeoProvider()
	store := newFakeStore()
	store.saveErr = errors.New(errors.ErrorTypeFilesystem, "disk full", 0)

	d := NewWithParts(provider, store, &fakePacer{}, 0, false, nil)

	result, err := d.Run("natgeo")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Downloaded)
	assert.Equal(t, 2, result.Failed)
}

func TestRunPostWithoutVideoURLFails(t *testing.T) {
	provider := &fakeProvider{
		profile: &instagram.Profile{ID: "1", Username: "u"},
		posts: []instagram.Post{
			{ID: "1", Shortcode: "AAA", IsVideo: true, Caption: "broken"},
		},
	}

	d := NewWithParts(provider, newFakeStore(), &fakePacer{}, 0, false, nil)

	result, err := d.Run("u")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, provider.downloadURLs)
}

func TestRunHonorsMaxItems(t *testing.T) {
	provider := natgeoProvider()
	store := newFakeStore()

	d := NewWithParts(provider, store, &fakePacer{}, 1, false, nil)

	result, err := d.Run("natgeo")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Downloaded)
	assert.Len(t, store.files, 1)
}

func TestRunEnumerationFailureBeforeAnyItemIsFatal(t *testing.T) {
	provider := &fakeProvider{
		profile: &instagram.Profile{ID: "1", Username: "u"},
		iterErr: errors.New(errors.ErrorTypeNetwork, "connection refused", 0),
	}

	d := NewWithParts(provider, newFakeStore(), &fakePacer{}, 0, false, nil)

	result, err := d.Run("u")
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestRunEnumerationFailureMidRunKeepsProgress(t *testing.T) {
	provider := natgeoProvider()
	provider.iterErr = errors.New(errors.ErrorTypeNetwork, "connection reset", 0)
	provider.iterErrAfter = 2
	store := newFakeStore()

	d := NewWithParts(provider, store, &fakePacer{}, 0, false, nil)

	result, err := d.Run("natgeo")
	require.NoError(t, err, "progress made before the failure is kept")

	assert.Equal(t, 2, result.Downloaded)
}

func TestRunWritesCaptionsSidecar(t *testing.T) {
	provider := natgeoProvider()
	store := newFakeStore()

	d := NewWithParts(provider, store, &fakePacer{}, 0, true, nil)

	_, err := d.Run("natgeo")
	require.NoError(t, err)

	require.NotNil(t, store.captions)
	assert.Equal(t, "Sunset\nmore text", store.captions["Sunset.mp4"])
	// The post with no caption gets no sidecar entry
	assert.NotContains(t, store.captions, "BBB.mp4")
}
