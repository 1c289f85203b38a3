package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giglink_backend/internal/models/chat"
	"giglink_backend/internal/services/dto"
	"giglink_backend/test/helpers"
)

type conversationListResponse struct {
	Conversations []dto.ConversationSummary `json:"conversations"`
	Total         int                       `json:"total"`
}

func TestChatFlow(t *testing.T) {
	ts := helpers.NewTestServer(t)

	artistToken, artist := helpers.CreateArtist(t, ts.DB, "Jazz Trio")
	venueToken, venue := helpers.CreateVenue(t, ts.DB, "Blue Note")

	// First contact materializes the conversation.
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/chat/conversations/"+venue.ID, artistToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var conv chat.Conversation
	require.NoError(t, json.Unmarshal([]byte(body), &conv))
	require.NotEmpty(t, conv.ID)

	// The same pair resolves to the same conversation from the other side.
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/conversations/"+artist.ID, venueToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var sameConv chat.Conversation
	require.NoError(t, json.Unmarshal([]byte(body), &sameConv))
	assert.Equal(t, conv.ID, sameConv.ID)

	// Artist sends a message.
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/messages", artistToken, map[string]interface{}{
		"conversation_id": conv.ID,
		"body":            "Hello, do you have a free slot in March?",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var msg chat.Message
	require.NoError(t, json.Unmarshal([]byte(body), &msg))
	assert.Equal(t, artist.ID, msg.SenderID)
	assert.Equal(t, venue.ID, msg.ReceiverID)
	assert.False(t, msg.IsRead)

	// The venue's conversation list shows the preview and the unread count.
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chat/conversations", venueToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var list conversationListResponse
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, artist.ID, list.Conversations[0].OtherUserID)
	assert.Equal(t, "Jazz Trio", list.Conversations[0].OtherUserName)
	assert.Contains(t, list.Conversations[0].LastMessagePreview, "Hello, do you have")
	assert.Equal(t, int64(1), list.Conversations[0].UnreadCount)

	// History comes back ascending.
	res, body = ts.SendRequest(t, http.MethodGet,
		fmt.Sprintf("/api/v1/chat/conversations/%s/messages", conv.ID), venueToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var page dto.MessagePage
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	require.Equal(t, 1, page.Count)

	// Mark read, twice; the second call is a no-op, not an error.
	for i := 0; i < 2; i++ {
		res, body = ts.SendRequest(t, http.MethodPut,
			fmt.Sprintf("/api/v1/chat/conversations/%s/read", conv.ID), venueToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
	}

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chat/unread-count", venueToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var unread struct {
		UnreadCount int64 `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &unread))
	assert.Equal(t, int64(0), unread.UnreadCount)
}

func TestConversationHiddenFromOutsiders(t *testing.T) {
	ts := helpers.NewTestServer(t)

	artistToken, _ := helpers.CreateArtist(t, ts.DB, "Trio")
	_, venue := helpers.CreateVenue(t, ts.DB, "Venue")
	strangerToken, _ := helpers.CreateArtist(t, ts.DB, "Stranger")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/chat/conversations/"+venue.ID, artistToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var conv chat.Conversation
	require.NoError(t, json.Unmarshal([]byte(body), &conv))

	// An outsider sees 404, not 403, so conversation ids cannot be probed.
	res, _ = ts.SendRequest(t, http.MethodGet,
		fmt.Sprintf("/api/v1/chat/conversations/%s/messages", conv.ID), strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/messages", strangerToken, map[string]interface{}{
		"conversation_id": conv.ID,
		"body":            "let me in",
	})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestMessageValidation(t *testing.T) {
	ts := helpers.NewTestServer(t)

	artistToken, _ := helpers.CreateArtist(t, ts.DB, "Trio")
	_, venue := helpers.CreateVenue(t, ts.DB, "Venue")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/chat/conversations/"+venue.ID, artistToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var conv chat.Conversation
	require.NoError(t, json.Unmarshal([]byte(body), &conv))

	// Empty text body.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/messages", artistToken, map[string]interface{}{
		"conversation_id": conv.ID,
		"body":            "",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Media without a url.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/messages", artistToken, map[string]interface{}{
		"conversation_id": conv.ID,
		"kind":            "media",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Talking to yourself.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/conversations/"+venue.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestPreviewTruncation(t *testing.T) {
	ts := helpers.NewTestServer(t)

	artistToken, _ := helpers.CreateArtist(t, ts.DB, "Trio")
	venueToken, venue := helpers.CreateVenue(t, ts.DB, "Venue")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/chat/conversations/"+venue.ID, artistToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var conv chat.Conversation
	require.NoError(t, json.Unmarshal([]byte(body), &conv))

	long := strings.Repeat("a", 80)
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/chat/messages", artistToken, map[string]interface{}{
		"conversation_id": conv.ID,
		"body":            long,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/chat/conversations", venueToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var list conversationListResponse
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, strings.Repeat("a", 50), list.Conversations[0].LastMessagePreview)
}

// TestMessagePaginationReconstructsHistory walks the history in small pages
// and checks they concatenate into the exact full log, ordered by creation
// time with ids breaking ties.
func TestMessagePaginationReconstructsHistory(t *testing.T) {
	ts := helpers.NewTestServer(t)

	artistToken, artist := helpers.CreateArtist(t, ts.DB, "Trio")
	_, venue := helpers.CreateVenue(t, ts.DB, "Venue")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/chat/conversations/"+venue.ID, artistToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var conv chat.Conversation
	require.NoError(t, json.Unmarshal([]byte(body), &conv))

	msgID := func(n int) string { return fmt.Sprintf("00000000-0000-0000-0000-%012d", n) }
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	// Rows are inserted out of id order, and ids 3 and 4 share a creation
	// time, so anything other than (created_at, id) ordering scrambles the
	// pages.
	seed := []struct {
		id int
		at time.Time
	}{
		{3, base.Add(2 * time.Second)},
		{1, base},
		{5, base.Add(3 * time.Second)},
		{4, base.Add(2 * time.Second)},
		{2, base.Add(1 * time.Second)},
	}
	for _, s := range seed {
		require.NoError(t, ts.DB.Create(&chat.Message{
			ID:             msgID(s.id),
			ConversationID: conv.ID,
			SenderID:       artist.ID,
			ReceiverID:     venue.ID,
			Kind:           chat.MessageKindText,
			Body:           fmt.Sprintf("message %d", s.id),
			CreatedAt:      s.at,
		}).Error)
	}

	var history []chat.Message
	for offset := 0; offset < len(seed); offset += 2 {
		res, body = ts.SendRequest(t, http.MethodGet,
			fmt.Sprintf("/api/v1/chat/conversations/%s/messages?limit=2&offset=%d", conv.ID, offset),
			artistToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var page dto.MessagePage
		require.NoError(t, json.Unmarshal([]byte(body), &page))
		history = append(history, page.Messages...)
	}

	require.Len(t, history, len(seed))
	for i, msg := range history {
		assert.Equal(t, msgID(i+1), msg.ID, "position %d", i)
		assert.Equal(t, fmt.Sprintf("message %d", i+1), msg.Body)
	}

	// A single unpaged fetch returns the same sequence.
	res, body = ts.SendRequest(t, http.MethodGet,
		fmt.Sprintf("/api/v1/chat/conversations/%s/messages", conv.ID), artistToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var full dto.MessagePage
	require.NoError(t, json.Unmarshal([]byte(body), &full))
	require.Equal(t, len(seed), full.Count)
	for i, msg := range full.Messages {
		assert.Equal(t, history[i].ID, msg.ID)
	}
}

// TestConcurrentConversationCreation exercises the uniqueness guarantee: both
// participants racing to open the conversation always land on one row.
func TestConcurrentConversationCreation(t *testing.T) {
	ts := helpers.NewTestServer(t)

	artistToken, artist := helpers.CreateArtist(t, ts.DB, "Trio")
	venueToken, venue := helpers.CreateVenue(t, ts.DB, "Venue")

	const attempts = 10
	ids := make(chan string, attempts)
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		token, target := artistToken, venue.ID
		if i%2 == 1 {
			token, target = venueToken, artist.ID
		}
		wg.Add(1)
		go func(token, target string) {
			defer wg.Done()
			res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/chat/conversations/"+target, token, nil)
			if res.StatusCode != http.StatusOK {
				t.Errorf("unexpected status %d: %s", res.StatusCode, body)
				return
			}
			var conv chat.Conversation
			if err := json.Unmarshal([]byte(body), &conv); err != nil {
				t.Errorf("bad response: %v", err)
				return
			}
			ids <- conv.ID
		}(token, target)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{})
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1, "all racers must resolve to the same conversation")

	var count int64
	require.NoError(t, ts.DB.Model(&chat.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
