package instagram

import "time"

// APIResponse represents the top-level response from the Instagram API
type APIResponse struct {
	RequiresToLogin bool   `json:"requires_to_login"`
	Data            Data   `json:"data"`
	Status          string `json:"status"`
}

// Data wraps the user information in the response
type Data struct {
	User User `json:"user"`
}

// User represents an Instagram user profile
type User struct {
	ID                       string                   `json:"id"`
	Username                 string                   `json:"username"`
	FullName                 string                   `json:"full_name"`
	IsPrivate                bool                     `json:"is_private"`
	EdgeFollowedBy           EdgeCount                `json:"edge_followed_by"`
	EdgeOwnerToTimelineMedia EdgeOwnerToTimelineMedia `json:"edge_owner_to_timeline_media"`
}

// EdgeCount wraps a bare count edge
type EdgeCount struct {
	Count int `json:"count"`
}

// EdgeOwnerToTimelineMedia contains the user's media information
type EdgeOwnerToTimelineMedia struct {
	Count    int      `json:"count"`
	PageInfo PageInfo `json:"page_info"`
	Edges    []Edge   `json:"edges"`
}

// PageInfo contains pagination information
type PageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
}

// Edge wraps a single media node
type Edge struct {
	Node Node `json:"node"`
}

// Node represents a single media item (photo or video)
type Node struct {
	ID                 string             `json:"id"`
	Shortcode          string             `json:"shortcode"`
	DisplayURL         string             `json:"display_url"`
	VideoURL           string             `json:"video_url"`
	IsVideo            bool               `json:"is_video"`
	ProductType        string             `json:"product_type"`
	TakenAtTimestamp   int64              `json:"taken_at_timestamp"`
	EdgeMediaToCaption EdgeMediaToCaption `json:"edge_media_to_caption"`
}

// EdgeMediaToCaption wraps the caption edges of a media node
type EdgeMediaToCaption struct {
	Edges []CaptionEdge `json:"edges"`
}

// CaptionEdge wraps a single caption node
type CaptionEdge struct {
	Node CaptionNode `json:"node"`
}

// CaptionNode holds the caption text
type CaptionNode struct {
	Text string `json:"text"`
}

// Caption returns the node's caption text, or "" when absent
func (n *Node) Caption() string {
	if len(n.EdgeMediaToCaption.Edges) == 0 {
		return ""
	}
	return n.EdgeMediaToCaption.Edges[0].Node.Text
}

// Profile is the resolved view of a user profile consumed by callers.
// Follower and media counts are display-only.
type Profile struct {
	ID         string
	Username   string
	FullName   string
	IsPrivate  bool
	Followers  int
	MediaCount int
}

// Post is the read-only view of a single timeline item
type Post struct {
	ID        string
	Shortcode string
	IsVideo   bool
	Caption   string
	VideoURL  string
	TakenAt   time.Time
}

// toPost converts a wire node into a Post record
func (n *Node) toPost() Post {
	return Post{
		ID:        n.ID,
		Shortcode: n.Shortcode,
		IsVideo:   n.IsVideo,
		Caption:   n.Caption(),
		VideoURL:  n.VideoURL,
		TakenAt:   time.Unix(n.TakenAtTimestamp, 0).UTC(),
	}
}
