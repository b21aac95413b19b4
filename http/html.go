package http

import (
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"

	"warbler/domain"
	"warbler/errs"
)

// The app renders a small set of server-side pages. Markup stays minimal;
// what matters is the information on the page and who gets to see which
// controls.
var pages = template.Must(template.New("pages").Parse(pagesHTML))

type landingData struct {
	Flash string
	Error string
}

type homeData struct {
	Flash    string
	Error    string
	User     *domain.User
	Messages []domain.Message
}

type signupData struct {
	Flash     string
	Error     string
	CSRFField template.HTML
}

type loginData struct {
	Flash     string
	Error     string
	CSRFField template.HTML
}

type usersData struct {
	Flash string
	Error string
	User  *domain.User
	Users []domain.User
}

type userShowData struct {
	Flash          string
	Error          string
	User           *domain.User
	Profile        *domain.User
	Messages       []domain.Message
	FollowingCount int64
	FollowerCount  int64
	Own            bool
	Following      bool
	CSRFField      template.HTML
}

type followListData struct {
	Flash   string
	Error   string
	User    *domain.User
	Profile *domain.User
	Title   string
	Users   []domain.User
}

type likedData struct {
	Flash     string
	Error     string
	User      *domain.User
	Messages  []domain.Message
	CSRFField template.HTML
}

type messageNewData struct {
	Flash     string
	Error     string
	User      *domain.User
	CSRFField template.HTML
}

type messageShowData struct {
	Flash     string
	Error     string
	User      *domain.User
	Message   *domain.Message
	Own       bool
	Liked     bool
	CSRFField template.HTML
}

type profileEditData struct {
	Flash     string
	Error     string
	User      *domain.User
	CSRFField template.HTML
}

// render executes the named page template. Template failures at this point
// are programming errors, so they get logged rather than surfaced.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		errs.LogError(r, err)
	}
}

// csrfField returns the hidden form field for the CSRF token, or nothing
// when CSRF protection is disabled.
func (s *Server) csrfField(r *http.Request) template.HTML {
	if !s.csrfEnabled {
		return ""
	}
	return csrf.TemplateField(r)
}

const pagesHTML = `
{{define "head"}}<!doctype html>
<html><head><title>Warbler</title></head><body>
{{with .Flash}}<div class="alert">{{.}}</div>{{end}}
{{with .Error}}<div class="alert">{{.}}</div>{{end}}{{end}}

{{define "foot"}}</body></html>{{end}}

{{define "landing"}}{{template "head" .}}
<h1>What's Happening?</h1>
<p>New to Warbler?</p>
<a href="/signup">Sign up now to get your own personalized timeline!</a>
<a href="/login">Log in</a>
{{template "foot" .}}{{end}}

{{define "home"}}{{template "head" .}}
<p>@{{.User.Username}}</p>
<nav>
  <a href="/messages/new">New Message</a>
  <a href="/users/{{.User.ID}}">Messages</a>
  <a href="/users/{{.User.ID}}/following">Following</a>
  <a href="/users/{{.User.ID}}/followers">Followers</a>
  <a href="/users/liked">Likes</a>
</nav>
<ul>
{{range .Messages}}
  <li><a href="/users/{{.UserID}}">@{{.User.Username}}</a><p>{{.Text}}</p>
      <a href="/messages/{{.ID}}">Detail</a></li>
{{end}}
</ul>
{{template "foot" .}}{{end}}

{{define "signup"}}{{template "head" .}}
<h2>Join Warbler today.</h2>
<form method="POST" action="/signup">
  {{.CSRFField}}
  <input type="text" name="username" placeholder="Username">
  <input type="text" name="email" placeholder="E-mail">
  <input type="password" name="password" placeholder="Password">
  <input type="text" name="image_url" placeholder="(Optional) Image URL">
  <button type="submit">Sign me up!</button>
</form>
{{template "foot" .}}{{end}}

{{define "login"}}{{template "head" .}}
<h2>Welcome back.</h2>
<form method="POST" action="/login">
  {{.CSRFField}}
  <input type="text" name="username" placeholder="Username">
  <input type="password" name="password" placeholder="Password">
  <button type="submit">Log in</button>
</form>
{{template "foot" .}}{{end}}

{{define "users"}}{{template "head" .}}
<h2>Users</h2>
<ul>
{{range .Users}}
  <li><a href="/users/{{.ID}}">@{{.Username}}</a></li>
{{end}}
</ul>
{{template "foot" .}}{{end}}

{{define "user_show"}}{{template "head" .}}
<h2>@{{.Profile.Username}}</h2>
<img src="{{.Profile.ImageURL}}" alt="@{{.Profile.Username}}">
<p>{{.Profile.Bio}}</p>
<p>{{.Profile.Location}}</p>
<nav>
  <span>Messages {{len .Messages}}</span>
  <a href="/users/{{.Profile.ID}}/following">Following {{.FollowingCount}}</a>
  <a href="/users/{{.Profile.ID}}/followers">Followers {{.FollowerCount}}</a>
  <a href="/users/liked">Likes</a>
</nav>
{{if .Own}}
  <a href="/users/profile">Edit Profile</a>
  <form method="POST" action="/users/delete">
    {{.CSRFField}}
    <button type="submit">Delete Profile</button>
  </form>
{{else if .User}}
  {{if .Following}}
  <form method="POST" action="/users/stop-following/{{.Profile.ID}}">
    {{.CSRFField}}
    <button type="submit">Unfollow</button>
  </form>
  {{else}}
  <form method="POST" action="/users/follow/{{.Profile.ID}}">
    {{.CSRFField}}
    <button type="submit">Follow</button>
  </form>
  {{end}}
{{end}}
<ul>
{{range .Messages}}
  <li><p>{{.Text}}</p><a href="/messages/{{.ID}}">Detail</a></li>
{{end}}
</ul>
{{template "foot" .}}{{end}}

{{define "follow_list"}}{{template "head" .}}
<h2>{{.Title}} of @{{.Profile.Username}}</h2>
<ul>
{{range .Users}}
  <li><a href="/users/{{.ID}}">@{{.Username}}</a></li>
{{end}}
</ul>
{{template "foot" .}}{{end}}

{{define "liked"}}{{template "head" .}}
<h2>Liked messages</h2>
<ul>
{{range .Messages}}
  <li><a href="/users/{{.UserID}}">@{{.User.Username}}</a><p>{{.Text}}</p>
      <a href="/messages/{{.ID}}">Detail</a>
      <form method="POST" action="/users/add_like/{{.ID}}">
        {{$.CSRFField}}
        <button type="submit">Unlike</button>
      </form></li>
{{end}}
</ul>
{{template "foot" .}}{{end}}

{{define "message_new"}}{{template "head" .}}
<form method="POST" action="/messages/new">
  {{.CSRFField}}
  <textarea name="text" placeholder="What's happening?"></textarea>
  <button type="submit">Add my message!</button>
</form>
{{template "foot" .}}{{end}}

{{define "message_show"}}{{template "head" .}}
<a href="/users/{{.Message.UserID}}">@{{.Message.User.Username}}</a>
<p>{{.Message.Text}}</p>
{{if .Own}}
<form method="POST" action="/messages/{{.Message.ID}}/delete">
  {{.CSRFField}}
  <button type="submit">Delete</button>
</form>
{{else if .User}}
<form method="POST" action="/users/add_like/{{.Message.ID}}">
  {{.CSRFField}}
  <button type="submit">{{if .Liked}}Unlike{{else}}Like{{end}}</button>
</form>
{{end}}
{{template "foot" .}}{{end}}

{{define "profile_edit"}}{{template "head" .}}
<h2>Edit Profile</h2>
<form method="POST" action="/users/profile">
  {{.CSRFField}}
  <input type="text" name="username" value="{{.User.Username}}">
  <input type="text" name="email" value="{{.User.Email}}">
  <input type="text" name="image_url" value="{{.User.ImageURL}}">
  <input type="text" name="header_image_url" value="{{.User.HeaderImageURL}}">
  <input type="text" name="location" value="{{.User.Location}}">
  <textarea name="bio">{{.User.Bio}}</textarea>
  <input type="password" name="password" placeholder="Current password, to confirm changes">
  <button type="submit">Save</button>
</form>
{{template "foot" .}}{{end}}
`
