package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/config"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/database"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/mail"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

func setupTestServer(t *testing.T) *WebServer {
	t.Helper()

	dbconfig := database.DefaultDBConfig()
	dbconfig.MainDB = filepath.Join(t.TempDir(), "test.sq3")
	db, err := database.OpenDatabase(dbconfig)
	require.NoError(t, err)
	t.Cleanup(func() { db.Shutdown() })

	webconfig := &config.WebConfig{
		ListenPort:  0,
		StaticDir:   "../../web/static",
		TemplateDir: "../../web/templates",
	}
	// Unconfigured relay: contact submissions fail fast
	mailer := mail.NewMailer(config.MailConfig{Host: "smtp.example.com", Port: 587, Timeout: time.Second})

	return NewServer(db, webconfig, mailer)
}

// createTestUser inserts a user with the given password already hashed
func createTestUser(t *testing.T, s *WebServer, email, password string, isAdmin bool) *models.User {
	t.Helper()
	hash, err := hashPassword(password)
	require.NoError(t, err)
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Test User",
		IsAdmin:      isAdmin,
	}
	require.NoError(t, s.DB.InsertUser(user))
	return user
}

// loginTestUser creates a session row and returns the cookie to send
func loginTestUser(t *testing.T, s *WebServer, userID int64) *http.Cookie {
	t.Helper()
	sessionID, err := s.DB.CreateUserSession(userID)
	require.NoError(t, err)
	return &http.Cookie{Name: "session_id", Value: sessionID}
}

func getPage(s *WebServer, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func postForm(s *WebServer, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func insertPost(t *testing.T, s *WebServer, authorID int64, title string) *models.BlogPost {
	t.Helper()
	post := &models.BlogPost{
		AuthorID: authorID,
		Title:    title,
		Subtitle: "A subtitle",
		Date:     time.Now().Format(models.PostDateFormat),
		Body:     "<p>Body</p>",
		ImgURL:   "https://example.com/img.png",
	}
	require.NoError(t, s.DB.InsertPost(post))
	return post
}

func TestPing(t *testing.T) {
	s := setupTestServer(t)

	w := getPage(s, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestHomePageListsPosts(t *testing.T) {
	s := setupTestServer(t)
	admin := createTestUser(t, s, "admin@x.com", "password", true)
	insertPost(t, s, admin.ID, "Hello World")

	w := getPage(s, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello World")
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	s := setupTestServer(t)

	w := postForm(s, "/register", url.Values{
		"name":     {"Alice"},
		"email":    {"alice@x.com"},
		"password": {"secret1"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	user, err := s.DB.GetUserByEmail("alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.False(t, user.IsAdmin)
	assert.True(t, checkPassword("secret1", user.PasswordHash))

	// The response logs the visitor in
	var sessionCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "session_id" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	got, err := s.DB.ValidateUserSession(sessionCookie.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := setupTestServer(t)
	createTestUser(t, s, "alice@x.com", "secret1", false)

	w := postForm(s, "/register", url.Values{
		"name":     {"Alice Again"},
		"email":    {"alice@x.com"},
		"password": {"secret2"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?message=email_exists", w.Header().Get("Location"))

	users, err := s.DB.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	s := setupTestServer(t)

	w := postForm(s, "/register", url.Values{
		"name":     {"Alice"},
		"email":    {"alice@x.com"},
		"password": {"short"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, err := s.DB.GetUserByEmail("alice@x.com")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestLoginSuccess(t *testing.T) {
	s := setupTestServer(t)
	createTestUser(t, s, "alice@x.com", "secret1", false)

	w := postForm(s, "/login", url.Values{
		"email":    {"alice@x.com"},
		"password": {"secret1"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "session_id" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
}

func TestLoginUnknownEmail(t *testing.T) {
	s := setupTestServer(t)

	w := postForm(s, "/login", url.Values{
		"email":    {"ghost@x.com"},
		"password": {"secret1"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "That email does not exist")
}

func TestLoginWrongPassword(t *testing.T) {
	s := setupTestServer(t)
	createTestUser(t, s, "alice@x.com", "secret1", false)

	w := postForm(s, "/login", url.Values{
		"email":    {"alice@x.com"},
		"password": {"nope-nope"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Password incorrect")
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	s := setupTestServer(t)
	createTestUser(t, s, "alice@x.com", "secret1", false)

	for i := 0; i < database.MaxLoginAttempts; i++ {
		postForm(s, "/login", url.Values{
			"email":    {"alice@x.com"},
			"password": {"nope-nope"},
		}, nil)
	}

	// Even the right password is refused while locked
	w := postForm(s, "/login", url.Values{
		"email":    {"alice@x.com"},
		"password": {"secret1"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "temporarily locked")
}

func TestLoginRedirectTarget(t *testing.T) {
	s := setupTestServer(t)
	createTestUser(t, s, "alice@x.com", "secret1", false)

	w := postForm(s, "/login", url.Values{
		"email":    {"alice@x.com"},
		"password": {"secret1"},
		"redirect": {"/post/1"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/post/1", w.Header().Get("Location"))
}

func TestLogoutInvalidatesSession(t *testing.T) {
	s := setupTestServer(t)
	user := createTestUser(t, s, "alice@x.com", "secret1", false)
	cookie := loginTestUser(t, s, user.ID)

	w := getPage(s, "/logout", cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	_, err := s.DB.ValidateUserSession(cookie.Value)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestPostPageShowsPostAndComments(t *testing.T) {
	s := setupTestServer(t)
	admin := createTestUser(t, s, "admin@x.com", "password", true)
	reader := createTestUser(t, s, "reader@x.com", "password", false)
	post := insertPost(t, s, admin.ID, "Hello World")

	comment := &models.Comment{Text: "great read", AuthorID: reader.ID, PostID: post.ID}
	require.NoError(t, s.DB.InsertComment(comment))

	w := getPage(s, "/post/"+strconv.FormatInt(post.ID, 10), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello World")
	assert.Contains(t, w.Body.String(), "great read")
}

func TestPostPageNotFound(t *testing.T) {
	s := setupTestServer(t)

	w := getPage(s, "/post/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = getPage(s, "/post/not-a-number", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentRequiresLogin(t *testing.T) {
	s := setupTestServer(t)
	admin := createTestUser(t, s, "admin@x.com", "password", true)
	post := insertPost(t, s, admin.ID, "Hello World")

	w := postForm(s, "/post/"+strconv.FormatInt(post.ID, 10), url.Values{
		"comment": {"drive-by"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?message=login_required")

	n, err := s.DB.CountCommentsByPost(post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCommentSubmit(t *testing.T) {
	s := setupTestServer(t)
	admin := createTestUser(t, s, "admin@x.com", "password", true)
	reader := createTestUser(t, s, "reader@x.com", "password", false)
	post := insertPost(t, s, admin.ID, "Hello World")
	cookie := loginTestUser(t, s, reader.ID)

	path := "/post/" + strconv.FormatInt(post.ID, 10)
	w := postForm(s, path, url.Values{"comment": {"well said"}}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, path, w.Header().Get("Location"))

	comments, err := s.DB.GetCommentsByPost(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "well said", comments[0].Text)
	assert.Equal(t, reader.ID, comments[0].AuthorID)
}

func TestAdminGate(t *testing.T) {
	s := setupTestServer(t)
	admin := createTestUser(t, s, "admin@x.com", "password", true)
	reader := createTestUser(t, s, "reader@x.com", "password", false)

	// No session
	w := getPage(s, "/new-post", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Logged in but not admin
	w = getPage(s, "/new-post", loginTestUser(t, s, reader.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin
	w = getPage(s, "/new-post", loginTestUser(t, s, admin.ID))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminCreatePost(t *testing.T) {
	s := setupTestServer(t)
	admin := createTestUser(t, s, "admin@x.com", "password", true)
	cookie := loginTestUser(t, s, admin.ID)

	w := postForm(s, "/new-post", url.Values{
		"title":    {"Fresh Post"},
		"subtitle": {"Sub"},
		"body":     {"<p>Content</p>"},
		"img_url":  {"https://example.com/img.png"},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	posts, err := s.DB.GetAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Fresh Post", posts[0].Title)
	assert.Equal(t, admin.ID, posts[0].AuthorID)
	assert.Equal(t, time.Now().Format(models.PostDateFormat), posts[0].Date)
}

func TestCreatePostDuplicateTitle(t *testing.T) {
	s := setupTestServer(t)
	admin := createTestUser(t, s, "admin@x.com", "password", true)
	insertPost(t, s, admin.ID, "Fresh Post")
	cookie := loginTestUser(t, s, admin.ID)

	w := postForm(s, "/new-post", url.Values{
		"title":    {"Fresh Post"},
		"subtitle": {"Sub"},
		"body":     {"<p>Content</p>"},
		"img_url":  {"https://example.com/img.png"},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestCreatePostValidation(t *testing.T) {
	s := setupTestServer(t)
	admin := createTestUser(t, s, "admin@x.com", "password", true)
	cookie := loginTestUser(t, s, admin.ID)

	w := postForm(s, "/new-post", url.Values{
		"title":    {"Fresh Post"},
		"subtitle": {"Sub"},
		"body":     {"<p>Content</p>"},
		"img_url":  {"ftp://example.com/img.png"},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must start with http")
}

func TestEditPostReassignsAuthor(t *testing.T) {
	s := setupTestServer(t)
	author := createTestUser(t, s, "admin@x.com", "password", true)
	editor := createTestUser(t, s, "editor@x.com", "password", true)
	post := insertPost(t, s, author.ID, "Original Title")
	cookie := loginTestUser(t, s, editor.ID)

	path := "/edit-post/" + strconv.FormatInt(post.ID, 10)
	w := postForm(s, path, url.Values{
		"title":    {"Edited Title"},
		"subtitle": {"New Sub"},
		"body":     {"<p>New content</p>"},
		"img_url":  {"https://example.com/new.png"},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/post/"+strconv.FormatInt(post.ID, 10), w.Header().Get("Location"))

	got, err := s.DB.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited Title", got.Title)
	assert.Equal(t, editor.ID, got.AuthorID)
	assert.Equal(t, post.Date, got.Date)
}

func TestDeletePostRemovesPost(t *testing.T) {
	s := setupTestServer(t)
	admin := createTestUser(t, s, "admin@x.com", "password", true)
	post := insertPost(t, s, admin.ID, "Doomed")
	cookie := loginTestUser(t, s, admin.ID)

	path := "/delete/" + strconv.FormatInt(post.ID, 10)
	w := getPage(s, path, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = getPage(s, "/post/"+strconv.FormatInt(post.ID, 10), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditMissingPost(t *testing.T) {
	s := setupTestServer(t)
	admin := createTestUser(t, s, "admin@x.com", "password", true)
	cookie := loginTestUser(t, s, admin.ID)

	w := getPage(s, "/edit-post/42", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactRequiresLogin(t *testing.T) {
	s := setupTestServer(t)

	w := postForm(s, "/contact", url.Values{
		"name":    {"Alice"},
		"email":   {"alice@x.com"},
		"message": {"hi"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?message=contact_login_required&redirect=/contact", w.Header().Get("Location"))
}

func TestContactRelayFailureReported(t *testing.T) {
	s := setupTestServer(t)
	user := createTestUser(t, s, "alice@x.com", "password", false)
	cookie := loginTestUser(t, s, user.ID)

	// Relay has no credentials configured, so the send fails
	w := postForm(s, "/contact", url.Values{
		"name":    {"Alice"},
		"email":   {"alice@x.com"},
		"message": {"hi"},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "could not be sent right now")
}

func TestContactMissingFields(t *testing.T) {
	s := setupTestServer(t)
	user := createTestUser(t, s, "alice@x.com", "password", false)
	cookie := loginTestUser(t, s, user.ID)

	w := postForm(s, "/contact", url.Values{"name": {"Alice"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "required")
}

func TestLoginPageRedirectsWhenLoggedIn(t *testing.T) {
	s := setupTestServer(t)
	user := createTestUser(t, s, "alice@x.com", "password", false)
	cookie := loginTestUser(t, s, user.ID)

	w := getPage(s, "/login", cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}
