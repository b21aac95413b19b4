package http

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"warbler/auth"
	"warbler/domain"
	"warbler/errs"
)

// rememberCookie is the well-known session key. Its value is an opaque
// token that resolves to a user through the hashed copy in the users table.
// Absence of the cookie means the request is anonymous.
const rememberCookie = "remember_token"

// flashCookie carries a one-shot notice across a redirect. It is cleared
// the first time a page renders it.
const flashCookie = "flash"

// accessUnauthorized is the uniform denial notice. It is the same for a
// missing session and for a session that does not own the resource, so a
// denial never reveals whether the resource exists.
const accessUnauthorized = "Access unauthorized."

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/", s.handleHome).Methods("GET")
	r.HandleFunc("/signup", s.handleSignupForm).Methods("GET")
	r.HandleFunc("/signup", s.handleSignup).Methods("POST")
	r.HandleFunc("/login", s.handleLoginForm).Methods("GET")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.handleLogout).Methods("POST")
}

// handleHome handles the route "GET /".
// Anonymous visitors get the landing page with the signup call to action,
// authenticated users get their home feed (own messages plus messages of
// everyone they follow).
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		s.render(w, r, "landing", &landingData{Flash: popFlash(w, r)})
		return
	}
	messages, err := s.ms.Feed(r.Context(), user.ID, 100)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "home", &homeData{
		Flash:    popFlash(w, r),
		User:     user,
		Messages: messages,
	})
}

// handleSignupForm handles the route "GET /signup".
func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "signup", &signupData{
		Flash:     popFlash(w, r),
		CSRFField: s.csrfField(r),
	})
}

// handleSignup handles the route "POST /signup".
// It creates a new user from the submitted form and signs them in. A
// validation or uniqueness failure re-renders the form with the message.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid form data."))
		return
	}
	user := domain.User{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		ImageURL: r.PostFormValue("image_url"),
	}
	if err := s.us.Create(r.Context(), &user); err != nil {
		code := errs.ErrorCode(err)
		if code == errs.EINVALID || code == errs.ECONFLICT {
			w.WriteHeader(errs.ErrorStatusCode(code))
			s.render(w, r, "signup", &signupData{
				Error:     errs.ErrorMessage(err),
				CSRFField: s.csrfField(r),
			})
			return
		}
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.signIn(w, r.Context(), &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLoginForm handles the route "GET /login".
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login", &loginData{
		Flash:     popFlash(w, r),
		CSRFField: s.csrfField(r),
	})
}

// handleLogin handles the route "POST /login".
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid form data."))
		return
	}
	user, err := s.us.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if errs.ErrorCode(err) == errs.EUNAUTHORIZED {
			w.WriteHeader(http.StatusUnauthorized)
			s.render(w, r, "login", &loginData{
				Error:     errs.ErrorMessage(err),
				CSRFField: s.csrfField(r),
			})
			return
		}
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.signIn(w, r.Context(), user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout handles the route "POST /logout".
// It clears the session cookie and rotates the user's token so the old
// cookie value can never be replayed.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		s.denyAccess(w, r)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     rememberCookie,
		Value:    "",
		Expires:  time.Now(),
		HttpOnly: true,
		Path:     "/",
	})
	token, err := auth.MakeRememberToken()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user.Remember = token
	if err := s.us.Update(r.Context(), user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	setFlash(w, "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// signIn signs the given user in via the session cookie. A user fresh out
// of Create still carries the plaintext token; anyone else gets a new one.
func (s *Server) signIn(w http.ResponseWriter, ctx context.Context, user *domain.User) error {
	if user.Remember == "" {
		token, err := auth.MakeRememberToken()
		if err != nil {
			return err
		}
		user.Remember = token
		if err := s.us.Update(ctx, user); err != nil {
			return err
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     rememberCookie,
		Value:    user.Remember,
		HttpOnly: true,
		Path:     "/",
	})
	return nil
}

// checkUser resolves the session cookie to a user and stores it in the
// request context. It never denies anything itself; an unresolvable cookie
// simply leaves the request anonymous.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(rememberCookie)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByRemember(r.Context(), cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth wraps a handler with the first step of the authorization
// gate: no resolved session means deny and redirect, the handler is never
// reached and no store mutation happens.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			s.denyAccess(w, r)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// denyAccess is the single denial path for both missing sessions and
// non-owners: flash the uniform notice and send the visitor to the public
// landing page.
func (s *Server) denyAccess(w http.ResponseWriter, r *http.Request) {
	setFlash(w, accessUnauthorized)
	http.Redirect(w, r, "/", http.StatusFound)
}

// setFlash stores a one-shot notice in the flash cookie.
func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:  flashCookie,
		Value: url.QueryEscape(message),
		Path:  "/",
	})
}

// popFlash reads and clears the flash cookie.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:    flashCookie,
		Value:   "",
		Expires: time.Now(),
		Path:    "/",
	})
	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}
