package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

// HomePageData represents data for the post listing page
type HomePageData struct {
	TemplateData
	Posts []*models.BlogPost
}

// homePage lists all blog posts, served from the post cache when warm
func (s *WebServer) homePage(c *gin.Context) {
	posts := s.PostCache.Get()
	if posts == nil {
		var err error
		posts, err = s.DB.GetAllPosts()
		if err != nil {
			s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
			return
		}
		s.PostCache.Set(posts)
	}

	data := HomePageData{
		TemplateData: s.getBaseTemplateData(c, "Bamboo Blogs"),
		Posts:        posts,
	}

	s.renderTemplate(c, "index.html", data)
}

// aboutPage renders the static about page
func (s *WebServer) aboutPage(c *gin.Context) {
	data := s.getBaseTemplateData(c, "About")
	s.renderTemplate(c, "about.html", struct{ TemplateData }{data})
}
