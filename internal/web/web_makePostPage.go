package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/database"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

const maxTitleLength = 250

// MakePostPageData represents data for the post authoring form
type MakePostPageData struct {
	TemplateData
	IsEdit   bool
	Error    string
	PostID   int64
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

// newPostPage displays the post authoring form. Admin gate applied in routing.
func (s *WebServer) newPostPage(c *gin.Context) {
	data := MakePostPageData{
		TemplateData: s.getBaseTemplateData(c, "New Post"),
	}
	s.renderTemplate(c, "make-post.html", data)
}

// newPostSubmit creates a new post stamped with the current date
func (s *WebServer) newPostSubmit(c *gin.Context) {
	user := c.MustGet("user").(*AuthUser)

	fields, errMsg := parsePostForm(c)
	if errMsg != "" {
		s.renderMakePostError(c, false, 0, errMsg, fields)
		return
	}

	post := &models.BlogPost{
		AuthorID: user.ID,
		Title:    fields.Title,
		Subtitle: fields.Subtitle,
		Date:     time.Now().Format(models.PostDateFormat),
		Body:     fields.Body,
		ImgURL:   fields.ImgURL,
	}
	if err := s.DB.InsertPost(post); err != nil {
		if errors.Is(err, database.ErrDuplicateTitle) {
			s.renderMakePostError(c, false, 0, "A post with that title already exists", fields)
			return
		}
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}
	s.PostCache.Invalidate()
	log.Printf("Created post %q (id %d) by %s", post.Title, post.ID, user.Email)

	c.Redirect(http.StatusSeeOther, "/")
}

// editPostPage displays the authoring form prefilled with an existing post
func (s *WebServer) editPostPage(c *gin.Context) {
	post, ok := s.loadPostOr404(c)
	if !ok {
		return
	}

	data := MakePostPageData{
		TemplateData: s.getBaseTemplateData(c, "Edit Post"),
		IsEdit:       true,
		PostID:       post.ID,
		Title:        post.Title,
		Subtitle:     post.Subtitle,
		Body:         post.Body,
		ImgURL:       post.ImgURL,
	}
	s.renderTemplate(c, "make-post.html", data)
}

// editPostSubmit overwrites all mutable fields and reassigns authorship to
// the editing admin
func (s *WebServer) editPostSubmit(c *gin.Context) {
	user := c.MustGet("user").(*AuthUser)

	post, ok := s.loadPostOr404(c)
	if !ok {
		return
	}

	fields, errMsg := parsePostForm(c)
	if errMsg != "" {
		s.renderMakePostError(c, true, post.ID, errMsg, fields)
		return
	}

	post.Title = fields.Title
	post.Subtitle = fields.Subtitle
	post.Body = fields.Body
	post.ImgURL = fields.ImgURL
	post.AuthorID = user.ID

	if err := s.DB.UpdatePost(post); err != nil {
		if errors.Is(err, database.ErrDuplicateTitle) {
			s.renderMakePostError(c, true, post.ID, "A post with that title already exists", fields)
			return
		}
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}
	s.PostCache.Invalidate()

	c.Redirect(http.StatusSeeOther, "/post/"+strconv.FormatInt(post.ID, 10))
}

// deletePost removes a post and its comments
func (s *WebServer) deletePost(c *gin.Context) {
	user := c.MustGet("user").(*AuthUser)

	post, ok := s.loadPostOr404(c)
	if !ok {
		return
	}

	if err := s.DB.DeletePost(post.ID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.renderError(c, http.StatusNotFound, "Post Not Found", "no post with id "+c.Param("id"))
			return
		}
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}
	s.PostCache.Invalidate()
	log.Printf("Deleted post %q (id %d) by %s", post.Title, post.ID, user.Email)

	c.Redirect(http.StatusSeeOther, "/")
}

// postFormFields carries the authoring form values
type postFormFields struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

// parsePostForm validates the authoring form and returns the fields or an
// error message for re-rendering
func parsePostForm(c *gin.Context) (postFormFields, string) {
	fields := postFormFields{
		Title:    strings.TrimSpace(c.PostForm("title")),
		Subtitle: strings.TrimSpace(c.PostForm("subtitle")),
		Body:     strings.TrimSpace(c.PostForm("body")),
		ImgURL:   strings.TrimSpace(c.PostForm("img_url")),
	}

	switch {
	case fields.Title == "":
		return fields, "Title is required"
	case len(fields.Title) > maxTitleLength:
		return fields, "Title must be less than 250 characters"
	case fields.Subtitle == "":
		return fields, "Subtitle is required"
	case fields.Body == "":
		return fields, "Body is required"
	case fields.ImgURL == "":
		return fields, "Image URL is required"
	case !strings.HasPrefix(fields.ImgURL, "http://") && !strings.HasPrefix(fields.ImgURL, "https://"):
		return fields, "Image URL must start with http:// or https://"
	}
	return fields, ""
}

// loadPostOr404 fetches the post named in the :id param, rendering a 404
// page when it is absent
func (s *WebServer) loadPostOr404(c *gin.Context) (*models.BlogPost, bool) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.renderError(c, http.StatusNotFound, "Post Not Found", "invalid post id: "+c.Param("id"))
		return nil, false
	}

	post, err := s.DB.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.renderError(c, http.StatusNotFound, "Post Not Found", "no post with id "+c.Param("id"))
			return nil, false
		}
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return nil, false
	}
	return post, true
}

// renderMakePostError re-renders the authoring form with an error
func (s *WebServer) renderMakePostError(c *gin.Context, isEdit bool, postID int64, errorMsg string, fields postFormFields) {
	title := "New Post"
	if isEdit {
		title = "Edit Post"
	}
	data := MakePostPageData{
		TemplateData: s.getBaseTemplateData(c, title),
		IsEdit:       isEdit,
		Error:        errorMsg,
		PostID:       postID,
		Title:        fields.Title,
		Subtitle:     fields.Subtitle,
		Body:         fields.Body,
		ImgURL:       fields.ImgURL,
	}

	c.Status(http.StatusBadRequest)
	s.renderTemplate(c, "make-post.html", data)
}
