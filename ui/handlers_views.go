package ui

import (
	"net/http"

	"partsdash/ui/middleware"

	"github.com/gin-gonic/gin"
)

// handleOptions returns the cascading category and SKU options
func (s *Server) handleOptions(c *gin.Context) {
	sess := middleware.Session(c)

	opts, err := s.service.SelectorOptions(c.Request.Context(), sess.Loader, sess, productFilters(c))
	if err != nil {
		respondError(c, "handleOptions", err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// handleMerged returns the product view joined with the pivoted references
// or applications
func (s *Server) handleMerged(c *gin.Context) {
	sess := middleware.Session(c)

	req, err := viewRequest(c)
	if err != nil {
		respondError(c, "handleMerged", err)
		return
	}

	view, err := s.service.MergedView(c.Request.Context(), sess.Loader, sess, req)
	if err != nil {
		respondError(c, "handleMerged", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// handleBrowse returns the brand/reference browse panel of a long table
func (s *Server) handleBrowse(c *gin.Context) {
	sess := middleware.Session(c)

	role, err := parseRole(c.Param("role"))
	if err != nil {
		respondError(c, "handleBrowse", err)
		return
	}

	view, err := s.service.BrowsePanel(c.Request.Context(), sess.Loader, sess, role, panelFilters(c))
	if err != nil {
		respondError(c, "handleBrowse", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// handlePanel returns the ad-hoc filter panel of an optional table
func (s *Server) handlePanel(c *gin.Context) {
	sess := middleware.Session(c)

	role, err := parseRole(c.Param("role"))
	if err != nil {
		respondError(c, "handlePanel", err)
		return
	}

	view, err := s.service.AdhocPanel(c.Request.Context(), sess.Loader, sess, role, panelFilters(c))
	if err != nil {
		respondError(c, "handlePanel", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
