package instagram

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reeldl/pkg/errors"
	"reeldl/pkg/logger"
	"reeldl/pkg/ratelimit"
	"reeldl/pkg/retry"
)

// Client represents an Instagram API client. It owns all protocol
// details: headers, session cookies, pagination URLs, and transport
// retries. Callers see only profiles, posts, and video bytes.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	maxRetries int
	limiter    ratelimit.Limiter
	logger     logger.Logger
}

// NewClient creates a new Instagram API client
func NewClient(timeout time.Duration, maxRetries int, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			"Accept":          "*/*",
			"Accept-Language": "en-US,en;q=0.9",
			"X-IG-App-ID":     "936619743392459",
			"Referer":         "https://www.instagram.com/",
		},
		baseURL:    BaseURL,
		maxRetries: maxRetries,
		logger:     log,
	}
}

// SetLimiter installs a rate limiter applied to every outgoing request
func (c *Client) SetLimiter(limiter ratelimit.Limiter) {
	c.limiter = limiter
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// SetCredentials attaches session cookies for authenticated access
func (c *Client) SetCredentials(sessionID, csrfToken string) {
	var cookies []string
	if sessionID != "" {
		cookies = append(cookies, fmt.Sprintf("sessionid=%s", sessionID))
	}
	if csrfToken != "" {
		cookies = append(cookies, fmt.Sprintf("csrftoken=%s", csrfToken))
		c.SetHeader("x-csrftoken", csrfToken)
	}
	if len(cookies) > 0 {
		c.SetHeader("Cookie", strings.Join(cookies, "; "))
	}
}

// SetUserAgent overrides the default user agent
func (c *Client) SetUserAgent(userAgent string) {
	if userAgent != "" {
		c.SetHeader("User-Agent", userAgent)
	}
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		c.limiter.Wait()
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("network error: %v", err), 0)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// get performs a GET request with transport-level retries for
// transient failures (network errors, 429, 5xx)
func (c *Client) get(url string) (*http.Response, error) {
	return retry.DoWithResult(func() (*http.Response, error) {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return nil, errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), 0)
		}

		resp, err := c.doRequest(req)
		if err != nil {
			return nil, err
		}

		if err := c.checkResponseStatus(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}

		return resp, nil
	}, &retry.Config{
		MaxAttempts: c.maxRetries,
		Backoff:     retry.DefaultExponentialBackoff(),
		RetryIf:     retry.DefaultRetryIf,
		Context:     nil,
		Logger:      c.logger,
	})
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(url string, target interface{}) error {
	resp, err := c.get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("failed to read response body: %v", err), resp.StatusCode)
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errors.New(errors.ErrorTypeParsing, fmt.Sprintf("failed to parse JSON: %v", err), resp.StatusCode)
	}

	return nil
}

// checkResponseStatus maps HTTP response statuses to typed errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.WarnWithFields("authentication error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errors.ErrorTypeAuth, "authentication required", resp.StatusCode)
	case http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errors.ErrorTypeNotFound, "resource not found", resp.StatusCode)
	case http.StatusTooManyRequests:
		logger.LogRateLimit(resp.Request.URL.Path, resp.StatusCode)
		return errors.New(errors.ErrorTypeRateLimit, "rate limit exceeded", resp.StatusCode)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errors.ErrorTypeServerError, "server error", resp.StatusCode)
	default:
		if resp.StatusCode >= 400 {
			c.logger.ErrorWithFields("unexpected API error", map[string]interface{}{
				"status": resp.StatusCode,
				"url":    resp.Request.URL.String(),
			})
			return errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), resp.StatusCode)
		}
		return nil
	}
}

// FetchProfile resolves a username to its profile record
func (c *Client) FetchProfile(username string) (*Profile, error) {
	url := ProfileURL(c.baseURL, username)

	c.logger.DebugWithFields("fetching user profile", map[string]interface{}{
		"username": username,
		"url":      url,
	})

	var response APIResponse
	if err := c.getJSON(url, &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch user profile", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		return nil, err
	}

	if response.RequiresToLogin {
		c.logger.WarnWithFields("authentication required for profile", map[string]interface{}{
			"username": username,
		})
		return nil, errors.New(errors.ErrorTypeAuth, "Instagram requires authentication to view this profile", http.StatusUnauthorized)
	}

	// Missing profiles come back as a 200 with an empty user object
	if response.Data.User.ID == "" {
		c.logger.WarnWithFields("profile does not exist", map[string]interface{}{
			"username": username,
		})
		return nil, errors.New(errors.ErrorTypeNotFound, fmt.Sprintf("profile %q does not exist", username), http.StatusNotFound)
	}

	user := response.Data.User
	profile := &Profile{
		ID:         user.ID,
		Username:   username,
		FullName:   user.FullName,
		IsPrivate:  user.IsPrivate,
		Followers:  user.EdgeFollowedBy.Count,
		MediaCount: user.EdgeOwnerToTimelineMedia.Count,
	}
	if user.Username != "" {
		profile.Username = user.Username
	}

	c.logger.DebugWithFields("successfully fetched user profile", map[string]interface{}{
		"username":    profile.Username,
		"user_id":     profile.ID,
		"media_count": profile.MediaCount,
	})

	return profile, nil
}

// fetchMediaPage fetches one page of a user's media
func (c *Client) fetchMediaPage(userID, after string) ([]Edge, PageInfo, error) {
	url := MediaURL(c.baseURL, userID, after, DefaultMediaLimit)

	c.logger.DebugWithFields("fetching media page", map[string]interface{}{
		"user_id": userID,
		"after":   after,
	})

	var response APIResponse
	if err := c.getJSON(url, &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch media page", map[string]interface{}{
			"user_id": userID,
			"after":   after,
			"error":   err.Error(),
		})
		return nil, PageInfo{}, err
	}

	media := response.Data.User.EdgeOwnerToTimelineMedia

	c.logger.DebugWithFields("media page fetched", map[string]interface{}{
		"user_id":       userID,
		"media_count":   len(media.Edges),
		"has_next_page": media.PageInfo.HasNextPage,
	})

	return media.Edges, media.PageInfo, nil
}

// DownloadVideo downloads video bytes from the given URL
func (c *Client) DownloadVideo(videoURL string) ([]byte, error) {
	c.logger.DebugWithFields("downloading video", map[string]interface{}{
		"url": videoURL,
	})

	resp, err := c.get(videoURL)
	if err != nil {
		c.logger.ErrorWithFields("failed to download video", map[string]interface{}{
			"url":   videoURL,
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.ErrorWithFields("failed to read video data", map[string]interface{}{
			"url":   videoURL,
			"error": err.Error(),
		})
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("failed to download video: %v", err), 0)
	}

	c.logger.DebugWithFields("successfully downloaded video", map[string]interface{}{
		"url":  videoURL,
		"size": len(data),
	})

	return data, nil
}
