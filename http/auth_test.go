package http

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	s, services := newTestServer(t)

	form := url.Values{
		"username": {"test1"},
		"email":    {"test1@test.com"},
		"password": {"HASHED_PASSWORD"},
	}
	rec := doRequest(t, s, "POST", "/signup", form, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// A session cookie is issued right away.
	var sessionValue string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == rememberCookie {
			sessionValue = cookie.Value
		}
	}
	require.NotEmpty(t, sessionValue)

	user, err := services.User.ByRemember(context.Background(), sessionValue)
	require.NoError(t, err)
	assert.Equal(t, "test1", user.Username)
}

func TestSignupValidationFailures(t *testing.T) {
	s, _ := newTestServer(t)

	// Taken username.
	form := url.Values{
		"username": {"test1"},
		"email":    {"test1@test.com"},
		"password": {"HASHED_PASSWORD"},
	}
	rec := doRequest(t, s, "POST", "/signup", form, nil)
	require.Equal(t, http.StatusFound, rec.Code)

	form.Set("email", "other@test.com")
	rec = doRequest(t, s, "POST", "/signup", form, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, body(rec), "already taken")

	// Missing password.
	form = url.Values{
		"username": {"test2"},
		"email":    {"test2@test.com"},
	}
	rec = doRequest(t, s, "POST", "/signup", form, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body(rec), "password is required")
}

func TestSignupPage(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, "GET", "/signup", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body(rec), "Sign me up")
}

func TestLoginLogout(t *testing.T) {
	s, services := newTestServer(t)
	signupUser(t, services, "test1", "test1@test.com")

	// Wrong password re-renders the form with the failure.
	form := url.Values{
		"username": {"test1"},
		"password": {"wrong-password"},
	}
	rec := doRequest(t, s, "POST", "/login", form, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, body(rec), "Invalid username or password.")

	// Correct credentials sign in and redirect home.
	form.Set("password", "HASHED_PASSWORD")
	rec = doRequest(t, s, "POST", "/login", form, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	var sessionValue string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == rememberCookie {
			sessionValue = cookie.Value
		}
	}
	require.NotEmpty(t, sessionValue)

	// The session resolves until logout rotates the token.
	user, err := services.User.ByRemember(context.Background(), sessionValue)
	require.NoError(t, err)

	// The store only holds the hash; the cookie carries the plaintext.
	user.Remember = sessionValue
	rec = doRequest(t, s, "POST", "/logout", nil, user)
	require.Equal(t, http.StatusFound, rec.Code)

	_, err = services.User.ByRemember(context.Background(), sessionValue)
	assert.Error(t, err, "the old session token is dead after logout")
}

func TestHomeAnonymous(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, "GET", "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body(rec), "Sign up now")
}

func TestHomeFeed(t *testing.T) {
	s, services := newTestServer(t)
	u1 := signupUser(t, services, "test1", "test1@test.com")
	u2 := signupUser(t, services, "test2", "test2@test.com")
	u3 := signupUser(t, services, "test3", "test3@test.com")

	doRequest(t, s, "POST", "/messages/new", url.Values{"text": {"from followed"}}, u2)
	doRequest(t, s, "POST", "/messages/new", url.Values{"text": {"from stranger"}}, u3)
	rec := doRequest(t, s, "POST", "/users/follow/"+itoa(u2.ID), nil, u1)
	require.Equal(t, http.StatusFound, rec.Code)

	rec = doRequest(t, s, "GET", "/", nil, u1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body(rec), "from followed")
	assert.NotContains(t, body(rec), "from stranger")
}
