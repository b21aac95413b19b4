package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"warbler/auth"
	"warbler/domain"
	"warbler/errs"
)

func (s *Server) registerUserRoutes(r *mux.Router) {
	r.HandleFunc("/users", s.handleListUsers).Methods("GET")
	r.HandleFunc("/users/liked", s.requireAuth(s.handleShowLiked)).Methods("GET")
	r.HandleFunc("/users/profile", s.requireAuth(s.handleProfileForm)).Methods("GET")
	r.HandleFunc("/users/profile", s.requireAuth(s.handleUpdateProfile)).Methods("POST")
	r.HandleFunc("/users/delete", s.requireAuth(s.handleDeleteUser)).Methods("POST")
	r.HandleFunc("/users/follow/{id:[0-9]+}", s.requireAuth(s.handleCreateFollow)).Methods("POST")
	r.HandleFunc("/users/stop-following/{id:[0-9]+}", s.requireAuth(s.handleDeleteFollow)).Methods("POST")
	r.HandleFunc("/users/add_like/{id:[0-9]+}", s.requireAuth(s.handleToggleLike)).Methods("POST")
	r.HandleFunc("/users/{id:[0-9]+}", s.handleShowUser).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}/following", s.requireAuth(s.handleShowFollowing)).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}/followers", s.requireAuth(s.handleShowFollowers)).Methods("GET")
}

// handleListUsers handles the route "GET /users". Public.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.us.All(r.Context())
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "users", &usersData{
		Flash: popFlash(w, r),
		User:  auth.GetUser(r.Context()),
		Users: users,
	})
}

// handleShowUser handles the route "GET /users/{id}". Public.
// It shows the profile together with the user's messages, most recent first.
func (s *Server) handleShowUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	profile, err := s.us.ByID(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	messages, err := s.ms.ByUserID(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	followingCount, err := s.fs.CountFollowing(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	followerCount, err := s.fs.CountFollowers(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := auth.GetUser(r.Context())
	data := &userShowData{
		Flash:          popFlash(w, r),
		User:           user,
		Profile:        profile,
		Messages:       messages,
		FollowingCount: followingCount,
		FollowerCount:  followerCount,
		Own:            user != nil && user.ID == profile.ID,
		CSRFField:      s.csrfField(r),
	}
	if user != nil && !data.Own {
		following, err := s.fs.IsFollowing(r.Context(), user.ID, profile.ID)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		data.Following = following
	}
	s.render(w, r, "user_show", data)
}

// handleShowFollowing handles the route "GET /users/{id}/following".
func (s *Server) handleShowFollowing(w http.ResponseWriter, r *http.Request) {
	s.renderFollowList(w, r, "Following", s.fs.Following)
}

// handleShowFollowers handles the route "GET /users/{id}/followers".
func (s *Server) handleShowFollowers(w http.ResponseWriter, r *http.Request) {
	s.renderFollowList(w, r, "Followers", s.fs.Followers)
}

// renderFollowList is shared by the following and followers pages, which
// differ only in the edge direction queried.
func (s *Server) renderFollowList(w http.ResponseWriter, r *http.Request,
	title string, query func(ctx context.Context, userID int) ([]domain.User, error)) {

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	profile, err := s.us.ByID(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	users, err := query(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "follow_list", &followListData{
		Flash:   popFlash(w, r),
		User:    auth.GetUser(r.Context()),
		Profile: profile,
		Title:   title,
		Users:   users,
	})
}

// handleCreateFollow handles the route "POST /users/follow/{id}".
// A missing target is a 404, not a denial.
func (s *Server) handleCreateFollow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	user := auth.GetUser(r.Context())
	follow := domain.Follow{
		FollowerID: user.ID,
		FollowedID: id,
	}
	if err := s.fs.Create(r.Context(), &follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/users/"+strconv.Itoa(user.ID)+"/following", http.StatusFound)
}

// handleDeleteFollow handles the route "POST /users/stop-following/{id}".
func (s *Server) handleDeleteFollow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	user := auth.GetUser(r.Context())
	follow := domain.Follow{
		FollowerID: user.ID,
		FollowedID: id,
	}
	if err := s.fs.Delete(r.Context(), &follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/users/"+strconv.Itoa(user.ID)+"/following", http.StatusFound)
}

// handleToggleLike handles the route "POST /users/add_like/{id}".
// It likes the message with the given ID, or removes the like if one
// already exists.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	user := auth.GetUser(r.Context())
	liked, err := s.ls.IsLiked(r.Context(), user.ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	like := domain.Like{
		UserID:    user.ID,
		MessageID: id,
	}
	if liked {
		err = s.ls.Delete(r.Context(), &like)
	} else {
		err = s.ls.Create(r.Context(), &like)
	}
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if referer := r.Header.Get("Referer"); referer != "" {
		http.Redirect(w, r, referer, http.StatusFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleShowLiked handles the route "GET /users/liked".
// It lists the messages liked by the current user.
func (s *Server) handleShowLiked(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	messages, err := s.ls.MessagesLikedBy(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "liked", &likedData{
		Flash:     popFlash(w, r),
		User:      user,
		Messages:  messages,
		CSRFField: s.csrfField(r),
	})
}

// handleProfileForm handles the route "GET /users/profile". Self only by
// construction: the form always edits the session's own user.
func (s *Server) handleProfileForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "profile_edit", &profileEditData{
		Flash:     popFlash(w, r),
		User:      auth.GetUser(r.Context()),
		CSRFField: s.csrfField(r),
	})
}

// handleUpdateProfile handles the route "POST /users/profile".
// The submitted password must validate against the current credential
// before any change is applied; a failed check is a denial, not a form
// error.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid form data."))
		return
	}
	user := auth.GetUser(r.Context())
	if _, err := s.us.Authenticate(r.Context(), user.Username, r.PostFormValue("password")); err != nil {
		if errs.ErrorCode(err) == errs.EUNAUTHORIZED {
			s.denyAccess(w, r)
			return
		}
		errs.ReturnError(w, r, err)
		return
	}

	user.Username = r.PostFormValue("username")
	user.Email = r.PostFormValue("email")
	user.Bio = r.PostFormValue("bio")
	user.Location = r.PostFormValue("location")
	if v := r.PostFormValue("image_url"); v != "" {
		user.ImageURL = v
	}
	if v := r.PostFormValue("header_image_url"); v != "" {
		user.HeaderImageURL = v
	}
	if err := s.us.Update(r.Context(), user); err != nil {
		code := errs.ErrorCode(err)
		if code == errs.EINVALID || code == errs.ECONFLICT {
			w.WriteHeader(errs.ErrorStatusCode(code))
			s.render(w, r, "profile_edit", &profileEditData{
				Error:     errs.ErrorMessage(err),
				User:      user,
				CSRFField: s.csrfField(r),
			})
			return
		}
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/users/"+strconv.Itoa(user.ID), http.StatusFound)
}

// handleDeleteUser handles the route "POST /users/delete".
// It deletes the current user's own account with the full cascade, clears
// the session, and lands on the signup page.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if err := s.us.Delete(r.Context(), user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     rememberCookie,
		Value:    "",
		Expires:  time.Now(),
		HttpOnly: true,
		Path:     "/",
	})
	http.Redirect(w, r, "/signup", http.StatusFound)
}
