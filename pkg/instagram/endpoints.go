package instagram

import (
	"fmt"
	"net/url"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// ProfileEndpoint is the endpoint pattern for user profiles
	ProfileEndpoint = "/api/v1/users/web_profile_info/"

	// MediaEndpoint is the endpoint pattern for user media
	MediaEndpoint = "/graphql/query/"

	// MediaQueryHash is the query hash for fetching user media
	MediaQueryHash = "e769aa130647d2354c40ea6a439bfc08"

	// DefaultMediaLimit is the number of media items fetched per page
	DefaultMediaLimit = 50
)

// ProfileURL constructs the URL for fetching a user's profile
func ProfileURL(baseURL, username string) string {
	params := url.Values{}
	params.Set("username", username)

	return fmt.Sprintf("%s%s?%s", baseURL, ProfileEndpoint, params.Encode())
}

// MediaURL constructs the URL for fetching a page of a user's media
func MediaURL(baseURL, userID, after string, limit int) string {
	if limit <= 0 {
		limit = DefaultMediaLimit
	}

	params := url.Values{}
	params.Set("query_hash", MediaQueryHash)
	params.Set("variables", fmt.Sprintf(`{"id":"%s","first":%d,"after":"%s"}`, userID, limit, after))

	return fmt.Sprintf("%s%s?%s", baseURL, MediaEndpoint, params.Encode())
}

// PostURL constructs the public URL for a specific post
func PostURL(shortcode string) string {
	if shortcode == "" {
		return ""
	}
	return fmt.Sprintf("%s/p/%s/", BaseURL, shortcode)
}

// IsValidUsername checks if a username is valid according to Instagram rules
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 30 {
		return false
	}

	// Instagram usernames can only contain letters, numbers, periods, and underscores
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}

// SanitizeUsername normalizes operator input into a bare username
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}

	// Remove @ symbol if present at the beginning
	if username[0] == '@' {
		username = username[1:]
	}

	// Remove any trailing slashes or spaces
	for len(username) > 0 && (username[len(username)-1] == '/' || username[len(username)-1] == ' ') {
		username = username[:len(username)-1]
	}

	return username
}
