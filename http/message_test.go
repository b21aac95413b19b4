package http

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMessage(t *testing.T) {
	s, services := newTestServer(t)
	u1 := signupUser(t, services, "test1", "test1@test.com")

	// Logged in: the message lands in the store and the response redirects
	// to the author's profile.
	rec := doRequest(t, s, "POST", "/messages/new", url.Values{"text": {"Hello"}}, u1)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users/"+itoa(u1.ID), rec.Header().Get("Location"))

	messages, err := services.Message.ByUserID(context.Background(), u1.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Hello", messages[0].Text)

	page := followRedirect(t, s, rec, u1)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, body(page), "Hello")
}

func TestCreateMessageUnauthenticated(t *testing.T) {
	s, services := newTestServer(t)
	u1 := signupUser(t, services, "test1", "test1@test.com")

	rec := doRequest(t, s, "POST", "/messages/new", url.Values{"text": {"Hello2"}}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// The denial never reaches the store.
	messages, err := services.Message.ByUserID(context.Background(), u1.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	page := followRedirect(t, s, rec, nil)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, body(page), "Access unauthorized.")
	assert.NotContains(t, body(page), "Hello2")
}

func TestNewMessageForm(t *testing.T) {
	s, services := newTestServer(t)
	u1 := signupUser(t, services, "test1", "test1@test.com")

	rec := doRequest(t, s, "GET", "/messages/new", nil, u1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body(rec), "Add my message")

	rec = doRequest(t, s, "GET", "/messages/new", nil, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	page := followRedirect(t, s, rec, nil)
	assert.Contains(t, body(page), "Access unauthorized.")
}

func TestCreateMessageTooLong(t *testing.T) {
	s, services := newTestServer(t)
	u1 := signupUser(t, services, "test1", "test1@test.com")

	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	rec := doRequest(t, s, "POST", "/messages/new", url.Values{"text": {string(long)}}, u1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	messages, err := services.Message.ByUserID(context.Background(), u1.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestShowMessage(t *testing.T) {
	s, services := newTestServer(t)
	u1 := signupUser(t, services, "test1", "test1@test.com")
	u2 := signupUser(t, services, "test2", "test2@test.com")

	rec := doRequest(t, s, "POST", "/messages/new", url.Values{"text": {"Blessed Trinity"}}, u1)
	require.Equal(t, http.StatusFound, rec.Code)
	messages, err := services.Message.ByUserID(context.Background(), u1.ID)
	require.NoError(t, err)
	msg := messages[0]

	// Anonymous: the text shows, the delete control does not.
	rec = doRequest(t, s, "GET", "/messages/"+itoa(msg.ID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body(rec), "<p>Blessed Trinity</p>")
	assert.NotContains(t, body(rec), "Delete")

	// Another user: still no delete control.
	rec = doRequest(t, s, "GET", "/messages/"+itoa(msg.ID), nil, u2)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, body(rec), "Delete")

	// The owner gets the delete control.
	rec = doRequest(t, s, "GET", "/messages/"+itoa(msg.ID), nil, u1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body(rec), "<p>Blessed Trinity</p>")
	assert.Contains(t, body(rec), "Delete")
}

func TestShowMessageNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, "GET", "/messages/9999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMessage(t *testing.T) {
	s, services := newTestServer(t)
	u1 := signupUser(t, services, "test1", "test1@test.com")
	u2 := signupUser(t, services, "test2", "test2@test.com")

	doRequest(t, s, "POST", "/messages/new", url.Values{"text": {"Blessed Trinity"}}, u1)
	messages, err := services.Message.ByUserID(context.Background(), u1.ID)
	require.NoError(t, err)
	msg := messages[0]

	// Anonymous delete: denied, message intact.
	rec := doRequest(t, s, "POST", "/messages/"+itoa(msg.ID)+"/delete", nil, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	page := followRedirect(t, s, rec, nil)
	assert.Contains(t, body(page), "Access unauthorized.")
	_, err = services.Message.ByID(context.Background(), msg.ID)
	require.NoError(t, err)

	// Non-owner delete: the same denial, message intact.
	rec = doRequest(t, s, "POST", "/messages/"+itoa(msg.ID)+"/delete", nil, u2)
	require.Equal(t, http.StatusFound, rec.Code)
	page = followRedirect(t, s, rec, u2)
	assert.Contains(t, body(page), "Access unauthorized.")
	_, err = services.Message.ByID(context.Background(), msg.ID)
	require.NoError(t, err)

	// Owner delete: gone from the profile and from global listings.
	rec = doRequest(t, s, "POST", "/messages/"+itoa(msg.ID)+"/delete", nil, u1)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users/"+itoa(u1.ID), rec.Header().Get("Location"))

	messages, err = services.Message.ByUserID(context.Background(), u1.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
	recent, err := services.Message.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
