package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"warbler/auth"
	"warbler/domain"
	"warbler/errs"
)

func (s *Server) registerMessageRoutes(r *mux.Router) {
	r.HandleFunc("/messages/new", s.requireAuth(s.handleNewMessageForm)).Methods("GET")
	r.HandleFunc("/messages/new", s.requireAuth(s.handleCreateMessage)).Methods("POST")
	r.HandleFunc("/messages/{id:[0-9]+}", s.handleShowMessage).Methods("GET")
	r.HandleFunc("/messages/{id:[0-9]+}/delete", s.requireAuth(s.handleDeleteMessage)).Methods("POST")
}

// handleNewMessageForm handles the route "GET /messages/new".
func (s *Server) handleNewMessageForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "message_new", &messageNewData{
		Flash:     popFlash(w, r),
		User:      auth.GetUser(r.Context()),
		CSRFField: s.csrfField(r),
	})
}

// handleCreateMessage handles the route "POST /messages/new".
// The owner is always the authenticated user; nothing in the form can
// assign the message to anyone else.
func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid form data."))
		return
	}
	user := auth.GetUser(r.Context())
	message := domain.Message{
		UserID: user.ID,
		Text:   r.PostFormValue("text"),
	}
	if err := s.ms.Create(r.Context(), &message); err != nil {
		if errs.ErrorCode(err) == errs.EINVALID {
			w.WriteHeader(http.StatusBadRequest)
			s.render(w, r, "message_new", &messageNewData{
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

// handleShowMessage handles the route "GET /messages/{id}".
// The page is public; the delete control only renders for the owner.
func (s *Server) handleShowMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	message, err := s.ms.ByID(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user := auth.GetUser(r.Context())
	data := &messageShowData{
		Flash:     popFlash(w, r),
		User:      user,
		Message:   message,
		Own:       user != nil && user.ID == message.UserID,
		CSRFField: s.csrfField(r),
	}
	if user != nil {
		liked, err := s.ls.IsLiked(r.Context(), user.ID, message.ID)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		data.Liked = liked
	}
	s.render(w, r, "message_show", data)
}

// handleDeleteMessage handles the route "POST /messages/{id}/delete".
// Only the owner may delete; a non-owner gets the same denial as an
// anonymous visitor, and the message stays untouched.
func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	message, err := s.ms.ByID(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user := auth.GetUser(r.Context())
	if message.UserID != user.ID {
		s.denyAccess(w, r)
		return
	}
	if err := s.ms.Delete(r.Context(), message); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/users/"+strconv.Itoa(user.ID), http.StatusFound)
}
