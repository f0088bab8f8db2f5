package ui

import (
	stderrors "errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"partsdash/internal/errors"
	"partsdash/internal/loader"
	"partsdash/internal/session"
	"partsdash/ports"
	"partsdash/ui/middleware"

	"github.com/gin-gonic/gin"
)

// multipartSlack leaves room for form boundaries around the file itself.
const multipartSlack = 1 << 20

func sessionResponse(sess *session.Session) gin.H {
	return gin.H{
		"id":         sess.ID,
		"created_at": sess.CreatedAt,
		"files":      sess.Files(),
		"missing":    sess.MissingMandatory(),
	}
}

// handleCreateSession opens an empty session
func (s *Server) handleCreateSession(c *gin.Context) {
	sess := s.registry.Create()
	c.JSON(http.StatusCreated, sessionResponse(sess))
}

// handleGetSession describes a session and its uploads
func (s *Server) handleGetSession(c *gin.Context) {
	c.JSON(http.StatusOK, sessionResponse(middleware.Session(c)))
}

// handleDeleteSession drops a session together with its cached tables
func (s *Server) handleDeleteSession(c *gin.Context) {
	sess := middleware.Session(c)
	s.registry.Delete(sess.ID)
	log.Printf("[handleDeleteSession] Session %s deleted", sess.ID)
	c.Status(http.StatusNoContent)
}

// handleListFiles lists uploads without their contents
func (s *Server) handleListFiles(c *gin.Context) {
	sess := middleware.Session(c)
	c.JSON(http.StatusOK, gin.H{
		"files":   sess.Files(),
		"missing": sess.MissingMandatory(),
	})
}

// handleUploadFile stores the multipart "file" field as the table for :role.
// The file is decoded before it is accepted so format and column errors are
// reported immediately.
func (s *Server) handleUploadFile(c *gin.Context) {
	sess := middleware.Session(c)

	role, err := parseRole(c.Param("role"))
	if err != nil {
		respondError(c, "handleUploadFile", err)
		return
	}

	if s.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes+multipartSlack)
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			respondError(c, "handleUploadFile", s.tooLarge())
			return
		}
		respondError(c, "handleUploadFile", errors.InvalidInput("no file uploaded in field \"file\""))
		return
	}
	defer file.Close()

	if s.maxUploadBytes > 0 && header.Size > s.maxUploadBytes {
		respondError(c, "handleUploadFile", s.tooLarge())
		return
	}

	src, err := loader.SourceFromReader(ports.TableSource{Role: role, Name: header.Filename}, file)
	if err != nil {
		respondError(c, "handleUploadFile", errors.Wrap(err, "failed to read upload"))
		return
	}

	report, err := s.service.InspectUpload(c.Request.Context(), sess.Loader, src)
	if err != nil {
		respondError(c, "handleUploadFile", err)
		return
	}

	info := sess.Put(src, time.Now())
	log.Printf("[handleUploadFile] Session %s: %s stored as %s (%d bytes)", sess.ID, header.Filename, role, info.Size)
	c.JSON(http.StatusOK, gin.H{
		"file":    info,
		"report":  report,
		"missing": sess.MissingMandatory(),
	})
}

func (s *Server) tooLarge() error {
	return errors.PayloadTooLarge(fmt.Sprintf("file exceeds the %.1f MB limit", float64(s.maxUploadBytes)/(1024*1024)))
}
