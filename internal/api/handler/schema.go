package handler

import "github.com/episko/blog/internal/core/domain"

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

// Password fields carry the SHA-256 hex digest computed by the client.
type registerRequest struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required,max=64"`
	LastName  string `json:"lastName"  form:"lastName"  validate:"required,max=64"`
	Username  string `json:"username"  form:"username"  validate:"required,alphanum,max=32"`
	Password  string `json:"password"  form:"password"  validate:"required,len=64,hexadecimal"`
	Role      string `json:"role"      form:"role"      validate:"omitempty,oneof=admin author user"`
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required,len=64,hexadecimal"`
	Next     string `json:"next"     form:"next"`
}

type authResponse struct {
	Token    string       `json:"token,omitempty"`
	User     *domain.User `json:"user,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
}

// authFormResponse describes a login or registration form.
type authFormResponse struct {
	Action string   `json:"action"`
	Fields []string `json:"fields"`
	Next   string   `json:"next,omitempty"`
}

// --- Posts ---

type postRequest struct {
	Title   string `json:"title"   form:"title"   validate:"required"`
	Content string `json:"content" form:"content"`
}

type postListResponse struct {
	Posts []*domain.Post `json:"posts"`
}

// postFormResponse describes the create or edit form. Post is nil when
// creating.
type postFormResponse struct {
	Action string       `json:"action"`
	Post   *domain.Post `json:"post,omitempty"`
}

// --- Admin ---

type roleRequest struct {
	Role string `json:"role" form:"role" validate:"required,oneof=admin author user"`
}

type dashboardResponse struct {
	Posts []*domain.Post `json:"posts"`
	Users []*domain.User `json:"users"`
}

type userPostsResponse struct {
	Author string         `json:"author"`
	Posts  []*domain.Post `json:"posts"`
}
