package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
	"golang.org/x/text/language"

	"github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/assets"
)

// ErrNoFile is returned when the upload form has no file field.
var ErrNoFile = errors.New("no file provided in the request")

type candidateView struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	SizeKB string `json:"-"`
}

type errorView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type documentView struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// stateView is the JSON form of a session snapshot.
type stateView struct {
	State      string         `json:"state"`
	Generation uint64         `json:"generation"`
	Candidate  *candidateView `json:"candidate,omitempty"`
	Error      *errorView     `json:"error,omitempty"`
	Document   *documentView  `json:"document,omitempty"`
}

func newStateView(snap mdconv.SessionSnapshot, tag language.Tag) stateView {
	v := stateView{
		State:      snap.State.String(),
		Generation: snap.Generation,
	}
	if snap.Candidate != nil {
		v.Candidate = &candidateView{
			Name:   snap.Candidate.Name,
			Size:   snap.Candidate.Size,
			SizeKB: formatKB(snap.Candidate.Size),
		}
	}
	if snap.Rejected() {
		v.Error = &errorView{
			Kind:    snap.Rejection.Reason.String(),
			Message: mdconv.Message(snap.Rejection.Reason, tag),
		}
	}
	if snap.Document != nil {
		v.Document = &documentView{ID: snap.Document.ID, Filename: snap.Document.Filename}
	}
	return v
}

// formatKB renders a byte count as kilobytes with two decimals.
func formatKB(size int64) string {
	return fmt.Sprintf("%.2f", float64(size)/1024)
}

func (s *Server) writeState(c *gin.Context, status int, snap mdconv.SessionSnapshot) {
	c.JSON(status, newStateView(snap, s.locale(c)))
}

func writeError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error(), "code": status})
}

// GET /
func (s *Server) handleIndex(c *gin.Context) {
	snap := s.session.Snapshot()
	if snap.State == mdconv.StateActive {
		c.Redirect(http.StatusSeeOther, "/preview")
		return
	}

	tag := s.locale(c)
	view := newStateView(snap, tag)
	data := gin.H{
		"Lang":      tag.String(),
		"T":         textFor(tag),
		"Candidate": view.Candidate,
		"Error":     "",
		"Accept":    strings.Join(mdconv.AcceptedExtensions, ","),
	}
	if view.Error != nil {
		data["Error"] = view.Error.Message
	}
	c.HTML(http.StatusOK, assets.UploadTemplate, data)
}

// GET /preview
func (s *Server) handlePreview(c *gin.Context) {
	snap := s.session.Snapshot()
	if snap.State != mdconv.StateActive {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	tag := s.locale(c)
	base, highlight := s.conv.Styles()
	c.HTML(http.StatusOK, assets.PreviewTemplate, gin.H{
		"Lang":           tag.String(),
		"T":              textFor(tag),
		"Title":          snap.Document.Filename,
		"Filename":       snap.Document.Filename,
		"ExportName":     mdconv.ExportFilename(snap.Document.Filename),
		"BaseStyle":      base,
		"HighlightStyle": highlight,
		// #nosec G203 -- rendered from the local user's own document
		"Markup": template.HTML(snap.Markup.Serialize()),
	})
}

// GET /assets/styles/:name
func (s *Server) handleStyle(c *gin.Context) {
	name := strings.TrimSuffix(c.Param("name"), ".css")
	css, err := s.conv.LoadStyle(name)
	if err != nil {
		if errors.Is(err, mdconv.ErrStyleNotFound) {
			writeError(c, http.StatusNotFound, err)
			return
		}
		level.Error(requestLogger(c)).Log("method", "LoadStyle", "style", name, "err", err)
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(css))
}

// GET /api/state
func (s *Server) handleState(c *gin.Context) {
	s.writeState(c, http.StatusOK, s.session.Snapshot())
}

// POST /api/files
func (s *Server) handleSelect(c *gin.Context) {
	logger := requestLogger(c)

	fileHeader, err := c.FormFile(fileField)
	if err != nil {
		level.Warn(logger).Log("method", "FormFile", "err", err, "field", fileField)
		if errors.Is(err, http.ErrMissingFile) {
			writeError(c, http.StatusBadRequest, ErrNoFile)
			return
		}
		writeError(c, http.StatusBadRequest, err)
		return
	}

	meta := mdconv.CandidateFile{Name: fileHeader.Filename, Size: fileHeader.Size}
	if out := s.precheck.Precheck(meta); !out.Accepted() {
		s.writeState(c, http.StatusUnprocessableEntity, s.session.Select(meta))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		level.Error(logger).Log("method", "Open", "file", fileHeader.Filename, "err", err)
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	candidate, err := s.newCandidate(fileHeader.Filename, fileHeader.Size, f)
	if err != nil {
		level.Error(logger).Log("method", "CandidateFromReader", "file", fileHeader.Filename, "err", err)
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	snap := s.session.Select(candidate)
	status := http.StatusOK
	if snap.Rejected() {
		status = http.StatusUnprocessableEntity
	}
	s.writeState(c, status, snap)
}

// DELETE /api/files
func (s *Server) handleClear(c *gin.Context) {
	s.writeState(c, http.StatusOK, s.session.ClearSelection())
}

// POST /api/confirm
func (s *Server) handleConfirm(c *gin.Context) {
	snap, err := s.session.Confirm(c.Request.Context())
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			level.Error(requestLogger(c)).Log("method", "Confirm", "err", err)
		}
		s.writeState(c, status, snap)
		return
	}
	s.writeState(c, http.StatusOK, snap)
}

// POST /api/back
func (s *Server) handleBack(c *gin.Context) {
	s.writeState(c, http.StatusOK, s.session.Back())
}

// GET /api/export
func (s *Server) handleExport(c *gin.Context) {
	logger := requestLogger(c)

	doc, err := s.session.Export(c.Request.Context())
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			level.Error(logger).Log("method", "Export", "err", err)
		}
		writeError(c, status, err)
		return
	}
	if doc.Degraded {
		level.Warn(logger).Log("msg", "exported without some stylesheets", "file", doc.Filename, "warnings", strings.Join(doc.Warnings, "; "))
		c.Header("X-Export-Degraded", "true")
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	c.Data(http.StatusOK, doc.MIMEType, doc.HTML)
}

// statusFor maps session and intake errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, mdconv.ErrNoSelection), errors.Is(err, mdconv.ErrNoDocument), errors.Is(err, mdconv.ErrStaleResult):
		return http.StatusConflict
	case errors.Is(err, mdconv.ErrInvalidExtension), errors.Is(err, mdconv.ErrSizeExceeded),
		errors.Is(err, mdconv.ErrBinaryContent), errors.Is(err, mdconv.ErrReadFailure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
