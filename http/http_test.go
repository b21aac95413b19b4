package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"warbler/crud"
	"warbler/domain"
)

// newTestServer builds a Server on an in-memory SQLite database. CSRF
// protection is off (empty key) so form posts don't need a token dance.
func newTestServer(t *testing.T) (*Server, *crud.Services) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Message{},
		&domain.Follow{},
		&domain.Like{},
	))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	services, err := crud.NewServices(
		db,
		crud.WithUser("test-pepper", "test-hmac-key"),
		crud.WithMessage(),
		crud.WithFollow(),
		crud.WithLike(),
	)
	require.NoError(t, err)
	return NewServer(false, "", services), services
}

// signupUser creates an account directly through the identity store. The
// returned user still carries its plaintext session token, which the test
// helpers put into the session cookie to act as that user.
func signupUser(t *testing.T, services *crud.Services, username, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username: username,
		Email:    email,
		Password: "HASHED_PASSWORD",
	}
	require.NoError(t, services.User.Create(context.Background(), user))
	return user
}

// doRequest performs a request against the server, optionally with a form
// body and optionally authenticated as the given user.
func doRequest(t *testing.T, s *Server, method, path string, form url.Values, user *domain.User) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if user != nil {
		req.AddCookie(&http.Cookie{Name: rememberCookie, Value: user.Remember})
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// followRedirect follows the Location header of a redirect response,
// carrying along any cookies the redirect set (the flash in particular) and
// the session of the given user.
func followRedirect(t *testing.T, s *Server, rec *httptest.ResponseRecorder, user *domain.User) *httptest.ResponseRecorder {
	t.Helper()
	location := rec.Header().Get("Location")
	require.NotEmpty(t, location, "expected a redirect to follow")

	req := httptest.NewRequest("GET", location, nil)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Value != "" {
			req.AddCookie(cookie)
		}
	}
	if user != nil {
		req.AddCookie(&http.Cookie{Name: rememberCookie, Value: user.Remember})
	}
	next := httptest.NewRecorder()
	s.ServeHTTP(next, req)
	return next
}

// body reads the recorded response body as a string.
func body(rec *httptest.ResponseRecorder) string {
	return rec.Body.String()
}

func itoa(id int) string {
	return strconv.Itoa(id)
}
