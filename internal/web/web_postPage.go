package web

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/database"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

// PostPageData represents data for the post detail page
type PostPageData struct {
	TemplateData
	Post     *models.BlogPost
	Body     template.HTML // post body is trusted rich text
	Comments []*models.Comment
}

// postPage shows a single post with its comments
func (s *WebServer) postPage(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.renderError(c, http.StatusNotFound, "Post Not Found", "invalid post id: "+c.Param("id"))
		return
	}

	post, err := s.DB.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.renderError(c, http.StatusNotFound, "Post Not Found", "no post with id "+c.Param("id"))
			return
		}
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	comments, err := s.DB.GetCommentsByPost(postID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	data := PostPageData{
		TemplateData: s.getBaseTemplateData(c, post.Title),
		Post:         post,
		Body:         template.HTML(post.Body),
		Comments:     comments,
	}

	s.renderTemplate(c, "post.html", data)
}

// postCommentSubmit appends a comment to a post. Requires a session.
func (s *WebServer) postCommentSubmit(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.renderError(c, http.StatusNotFound, "Post Not Found", "invalid post id: "+c.Param("id"))
		return
	}

	session := s.getWebSession(c)
	if session == nil {
		c.Redirect(http.StatusSeeOther, "/login?message=login_required&redirect=/post/"+c.Param("id"))
		return
	}

	text := strings.TrimSpace(c.PostForm("comment"))
	if text == "" {
		session.SetError("Comment text is required")
		c.Redirect(http.StatusSeeOther, "/post/"+c.Param("id"))
		return
	}

	comment := &models.Comment{
		Text:     text,
		AuthorID: session.UserID,
		PostID:   postID,
	}
	if err := s.DB.InsertComment(comment); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.renderError(c, http.StatusNotFound, "Post Not Found", "no post with id "+c.Param("id"))
			return
		}
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	c.Redirect(http.StatusSeeOther, "/post/"+c.Param("id"))
}
