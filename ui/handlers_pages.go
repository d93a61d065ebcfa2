package ui

import (
	"net/http"
	"strings"

	"chartfolio/internal/blog"
	apperrors "chartfolio/internal/errors"

	"github.com/gin-gonic/gin"
)

// latestPosts is how many posts the home page lists.
const latestPosts = 3

func (s *Server) handleIndex(c *gin.Context) {
	var posts []*blog.Post
	if s.deps.Blog != nil {
		posts = s.deps.Blog.Posts()
		if len(posts) > latestPosts {
			posts = posts[:latestPosts]
		}
	}
	s.renderTemplate(c, http.StatusOK, "index.html", gin.H{
		"Title":     "Portfolio",
		"Portfolio": s.deps.Portfolio,
		"Posts":     posts,
	})
}

func (s *Server) handleProjectChart(c *gin.Context) {
	id, ok := strings.CutSuffix(c.Param("file"), ".svg")
	if !ok || s.deps.Portfolio == nil {
		s.fail(c, apperrors.NotFound("project chart"))
		return
	}
	pr, found := s.deps.Portfolio.Project(id)
	if !found {
		s.fail(c, apperrors.NotFound("project "+id))
		return
	}
	dr, err := pr.Chart(s.deps.Theme)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", dr.SVG)
}

func (s *Server) handleBlogIndex(c *gin.Context) {
	if s.deps.Blog == nil {
		s.notFound(c, "blog")
		return
	}
	s.renderTemplate(c, http.StatusOK, "blog.html", gin.H{
		"Title": "Blog",
		"Posts": s.deps.Blog.Posts(),
	})
}

func (s *Server) handlePost(c *gin.Context) {
	if s.deps.Blog == nil {
		s.notFound(c, "blog")
		return
	}
	post, ok := s.deps.Blog.Get(c.Param("slug"))
	if !ok {
		s.notFound(c, "post "+c.Param("slug"))
		return
	}
	s.renderTemplate(c, http.StatusOK, "post.html", gin.H{
		"Title": post.Title,
		"Post":  post,
		"Theme": s.deps.Theme.Name,
	})
}
