package server

import (
	"fmt"
	"net/http"
	"testing"

	"tidepool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFeedLifecycle walks the core product flow over real routes: two
// users sign up, one publishes, and the other only sees the content
// while following the author.
func TestFeedLifecycle(t *testing.T) {
	_, app := setupTestServer(t)

	aliceToken, aliceID := signupUser(t, app, "alice")
	bobToken, _ := signupUser(t, app, "bob")

	// Alice publishes a post with a hashtag.
	resp := doRequest(t, app, http.MethodPost, "/api/posts", aliceToken, map[string]any{
		"title":    "Morning tide",
		"content":  "Spring tides all week.",
		"hashtags": []string{"#sea"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.Post
	decodeBody(t, resp, &post)
	require.NotZero(t, post.ID)
	require.Len(t, post.Hashtags, 1)
	assert.Equal(t, "#sea", post.Hashtags[0].Name)

	// Alice sees her own post in the feed.
	resp = doRequest(t, app, http.MethodGet, "/api/posts", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var feed []models.Post
	decodeBody(t, resp, &feed)
	assert.Len(t, feed, 1)

	// Bob does not follow Alice yet, so his feed is empty.
	resp = doRequest(t, app, http.MethodGet, "/api/posts", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &feed)
	assert.Empty(t, feed)

	// Bob follows Alice.
	resp = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", aliceID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var followResp struct {
		Status string      `json:"status"`
		User   UserSummary `json:"user"`
	}
	decodeBody(t, resp, &followResp)
	assert.Equal(t, "followed", followResp.Status)
	assert.Equal(t, 1, followResp.User.FollowersCount)

	// Alice's post now shows up in Bob's feed.
	resp = doRequest(t, app, http.MethodGet, "/api/posts", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, "Morning tide", feed[0].Title)
	assert.False(t, feed[0].Liked)

	// The hashtag filter matches it too.
	resp = doRequest(t, app, http.MethodGet, "/api/posts?hashtag=sea", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &feed)
	assert.Len(t, feed, 1)

	// Bob likes the post.
	resp = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var likeResp struct {
		Status string      `json:"status"`
		Post   models.Post `json:"post"`
	}
	decodeBody(t, resp, &likeResp)
	assert.Equal(t, "liked", likeResp.Status)
	assert.Equal(t, 1, likeResp.Post.LikesCount)
	assert.True(t, likeResp.Post.Liked)

	// Bob comments on the post.
	resp = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID), bobToken, map[string]string{
		"content": "Great forecast.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// Alice sees the comment on her post detail.
	resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail models.Post
	decodeBody(t, resp, &detail)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "Great forecast.", detail.Comments[0].Content)
	assert.Equal(t, "bob", detail.Comments[0].User.Username)
	assert.Equal(t, 1, detail.LikesCount)

	// Bob unfollows Alice; her posts drop out of his feed again.
	resp = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", aliceID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &followResp)
	assert.Equal(t, "unfollowed", followResp.Status)

	resp = doRequest(t, app, http.MethodGet, "/api/posts", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &feed)
	assert.Empty(t, feed)
}
