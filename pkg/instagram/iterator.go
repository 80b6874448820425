package instagram

// PostIterator is a lazy, forward-only, non-restartable sequence of a
// profile's posts in provider order. Pagination is internal; callers
// consume it in a single pass:
//
//	it := client.Posts(profile.ID)
//	for it.Next() {
//	    post := it.Post()
//	    ...
//	}
//	if err := it.Err(); err != nil {
//	    ...
//	}
type PostIterator struct {
	client  *Client
	userID  string
	buffer  []Post
	pos     int
	after   string
	hasMore bool
	err     error
}

// Posts returns an iterator over the user's timeline posts
func (c *Client) Posts(userID string) *PostIterator {
	return &PostIterator{
		client:  c,
		userID:  userID,
		hasMore: true,
	}
}

// Next advances to the next post, fetching further pages as needed.
// It returns false when the sequence is exhausted or a fetch failed.
func (it *PostIterator) Next() bool {
	if it.err != nil {
		return false
	}

	for it.pos >= len(it.buffer) {
		if !it.hasMore {
			return false
		}
		if !it.fetchPage() {
			return false
		}
	}

	it.pos++
	return true
}

// Post returns the current post. Valid only after Next returned true.
func (it *PostIterator) Post() Post {
	return it.buffer[it.pos-1]
}

// Err returns the first error encountered while paging, if any
func (it *PostIterator) Err() error {
	return it.err
}

// fetchPage loads the next page into the buffer
func (it *PostIterator) fetchPage() bool {
	edges, pageInfo, err := it.client.fetchMediaPage(it.userID, it.after)
	if err != nil {
		it.err = err
		return false
	}

	posts := make([]Post, 0, len(edges))
	for _, edge := range edges {
		posts = append(posts, edge.Node.toPost())
	}

	it.buffer = posts
	it.pos = 0
	it.after = pageInfo.EndCursor
	it.hasMore = pageInfo.HasNextPage

	// An empty page with no next page ends the sequence
	return len(posts) > 0 || it.hasMore
}
