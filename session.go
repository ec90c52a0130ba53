package mdconv

import (
	"context"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/alnah/go-mdconv/internal/logging"
)

// Renderer turns validated text into Markup.
type Renderer interface {
	Render(ctx context.Context, text string) (*Markup, error)
}

// Exporter turns Markup into a downloadable document.
type Exporter interface {
	Export(ctx context.Context, markup *Markup, filename string) (*ExportedDocument, error)
}

// SessionState is the coarse state of a Session.
type SessionState int

// Session states.
const (
	StateEmpty SessionState = iota
	StateSelecting
	StateActive
)

func (s SessionState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateSelecting:
		return "selecting"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// CandidateInfo describes a selected file without its content.
type CandidateInfo struct {
	Name string
	Size int64
}

// SessionSnapshot is an immutable view of a Session.
//
// In StateSelecting, Candidate may be nil (a first selection was rejected)
// and Rejection may be set. In StateActive, Document and Markup are set.
type SessionSnapshot struct {
	State      SessionState
	Candidate  *CandidateInfo
	Rejection  ValidationOutcome
	Document   *Document
	Markup     *Markup
	Generation uint64
}

// Rejected reports whether the snapshot carries a rejection to display.
func (s SessionSnapshot) Rejected() bool {
	return !s.Rejection.Accepted()
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the session logger.
func WithSessionLogger(logger log.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithValidator replaces the default validator.
func WithValidator(v *Validator) SessionOption {
	return func(s *Session) {
		if v != nil {
			s.validator = v
		}
	}
}

// Session owns the single active document of one user and moves it through
// select, confirm, view, and back. Every transition bumps a generation
// counter; slow work started in one generation is discarded if the session
// has moved on by the time it completes. Safe for concurrent use.
type Session struct {
	renderer  Renderer
	exporter  Exporter
	validator *Validator
	logger    log.Logger

	mu        sync.Mutex
	state     SessionState
	candidate *CandidateFile
	rejection ValidationOutcome
	document  *Document
	markup    *Markup
	gen       uint64
}

// NewSession returns an empty Session. A *Converter satisfies both
// Renderer and Exporter.
func NewSession(r Renderer, e Exporter, opts ...SessionOption) *Session {
	s := &Session{
		renderer: r,
		exporter: e,
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Component(s.logger, "session")
	if s.validator == nil {
		s.validator = NewValidator(s.logger)
	}
	return s
}

// Select records a file choice after the checks that need no reading.
// A passing file replaces the selection and clears any error. A failing
// file keeps the previous selection and records the rejection. Selecting
// while a document is open discards that document.
func (s *Session) Select(c CandidateFile) SessionSnapshot {
	out := s.validator.Precheck(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.state = StateSelecting
	s.document, s.markup = nil, nil
	if out.Accepted() {
		s.candidate = &c
		s.rejection = ValidationOutcome{}
	} else {
		s.rejection = out
	}
	level.Debug(s.logger).Log("msg", "file selected", "file", c.Name, "accepted", out.Accepted(), "gen", s.gen)
	return s.snapshotLocked()
}

// ClearSelection drops the selection and any error.
func (s *Session) ClearSelection() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return s.snapshotLocked()
}

// Back closes the active document and returns to the upload state.
func (s *Session) Back() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	level.Debug(s.logger).Log("msg", "document closed", "gen", s.gen)
	return s.snapshotLocked()
}

func (s *Session) resetLocked() {
	s.gen++
	s.state = StateEmpty
	s.candidate = nil
	s.rejection = ValidationOutcome{}
	s.document, s.markup = nil, nil
}

// Confirm validates and renders the selected file without holding the lock,
// then applies the result only if nothing else happened meanwhile.
//
// Returns ErrNoSelection without a selected file and ErrStaleResult if the
// session changed during the work. A rejected file leaves the session in
// StateSelecting and returns the rejection's error. A read cut short by ctx
// returns the context error and records nothing.
func (s *Session) Confirm(ctx context.Context) (SessionSnapshot, error) {
	s.mu.Lock()
	if s.state != StateSelecting || s.candidate == nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrNoSelection
	}
	gen := s.gen
	candidate := *s.candidate
	s.mu.Unlock()

	out := s.validator.Validate(ctx, candidate)
	if !out.Accepted() && isContextError(out.Cause) {
		level.Debug(s.logger).Log("msg", "confirmation abandoned", "file", candidate.Name, "err", out.Cause)
		return s.Snapshot(), out.Cause
	}

	var (
		doc    *Document
		markup *Markup
	)
	if out.Accepted() {
		var err error
		markup, err = s.renderer.Render(ctx, out.Text)
		if err != nil {
			return s.Snapshot(), err
		}
		doc = &Document{
			ID:       uuid.NewString(),
			Filename: out.Filename,
			RawText:  out.Text,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		level.Debug(s.logger).Log("msg", "discarding stale confirmation", "file", candidate.Name, "gen", gen, "current", s.gen)
		return s.snapshotLocked(), ErrStaleResult
	}

	s.gen++
	if !out.Accepted() {
		s.rejection = out
		return s.snapshotLocked(), out.Err()
	}

	s.state = StateActive
	s.candidate = nil
	s.rejection = ValidationOutcome{}
	s.document = doc
	s.markup = markup
	level.Info(s.logger).Log("msg", "document opened", "file", doc.Filename, "id", doc.ID)
	return s.snapshotLocked(), nil
}

// Open selects c and confirms it in one step.
func (s *Session) Open(ctx context.Context, c CandidateFile) (SessionSnapshot, error) {
	snap := s.Select(c)
	if snap.Rejected() {
		return snap, snap.Rejection.Err()
	}
	return s.Confirm(ctx)
}

// Export exports the active document. Returns ErrNoDocument when no document
// is open and ErrStaleResult if it was closed or replaced meanwhile.
func (s *Session) Export(ctx context.Context) (*ExportedDocument, error) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return nil, ErrNoDocument
	}
	gen := s.gen
	markup := s.markup
	filename := s.document.Filename
	s.mu.Unlock()

	doc, err := s.exporter.Export(ctx, markup, filename)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return nil, ErrStaleResult
	}
	return doc, nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() SessionSnapshot {
	snap := SessionSnapshot{
		State:      s.state,
		Rejection:  s.rejection,
		Markup:     s.markup,
		Generation: s.gen,
	}
	if s.candidate != nil {
		snap.Candidate = &CandidateInfo{Name: s.candidate.Name, Size: s.candidate.Size}
	}
	if s.document != nil {
		d := *s.document
		snap.Document = &d
	}
	return snap
}
