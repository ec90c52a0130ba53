package server

// Notes:
// - Each test builds its own Converter, Session, and Server; the converter
//   never prints, so no browser is started
// - Requests go through httptest against Server.Handler with gin in test mode
// - The flow test walks the upload screen to the export download

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-mdconv"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	conv, err := mdconv.NewConverter()
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })

	srv, err := New(conv, mdconv.NewSession(conv, conv), Config{DefaultLang: "en"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func do(t *testing.T, srv *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, name string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(fileField, name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/files", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) stateView {
	t.Helper()
	var v stateView
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding state %q: %v", rec.Body.String(), err)
	}
	return v
}

// ---------------------------------------------------------------------------
// TestServer_Upload - Selection Endpoints
// ---------------------------------------------------------------------------

func TestServer_Upload(t *testing.T) {
	t.Parallel()

	t.Run("valid file is selected", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		rec := do(t, srv, uploadRequest(t, "notes.md", []byte("# Notes")))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		v := decodeState(t, rec)
		if v.State != "selecting" || v.Candidate == nil || v.Candidate.Name != "notes.md" || v.Candidate.Size != 7 {
			t.Errorf("state = %+v", v)
		}
		if v.Error != nil {
			t.Errorf("unexpected error %+v", v.Error)
		}
	})

	t.Run("invalid extension is rejected with message", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		rec := do(t, srv, uploadRequest(t, "photo.png", []byte("png")))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", rec.Code)
		}
		v := decodeState(t, rec)
		if v.Error == nil || v.Error.Kind != "invalid_extension" || v.Error.Message != "Invalid file type" {
			t.Errorf("error = %+v", v.Error)
		}
	})

	t.Run("rejected name is not buffered", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		var copied []string
		srv.newCandidate = func(name string, size int64, r io.Reader) (mdconv.CandidateFile, error) {
			copied = append(copied, name)
			return mdconv.CandidateFromReader(name, size, r)
		}

		if rec := do(t, srv, uploadRequest(t, "notes.md", []byte("# Notes"))); rec.Code != http.StatusOK {
			t.Fatalf("valid upload status = %d", rec.Code)
		}
		rec := do(t, srv, uploadRequest(t, "archive.zip", bytes.Repeat([]byte("z"), 4096)))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", rec.Code)
		}
		v := decodeState(t, rec)
		if v.Error == nil || v.Error.Kind != "invalid_extension" {
			t.Errorf("error = %+v", v.Error)
		}
		if v.Candidate == nil || v.Candidate.Name != "notes.md" {
			t.Errorf("previous selection lost: %+v", v.Candidate)
		}
		if len(copied) != 1 || copied[0] != "notes.md" {
			t.Errorf("buffered uploads = %v, want only notes.md", copied)
		}
	})

	t.Run("disconnect during confirm records no rejection", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		do(t, srv, uploadRequest(t, "notes.md", []byte("# Notes")))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodPost, "/api/confirm", nil).WithContext(ctx)
		if rec := do(t, srv, req); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
		}

		v := decodeState(t, do(t, srv, httptest.NewRequest(http.MethodGet, "/api/state", nil)))
		if v.State != "selecting" || v.Error != nil {
			t.Errorf("state = %+v", v)
		}
	})

	t.Run("message follows Accept-Language", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		req := uploadRequest(t, "photo.png", []byte("png"))
		req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
		v := decodeState(t, do(t, srv, req))
		if v.Error == nil || v.Error.Message != "文件类型无效" {
			t.Errorf("error = %+v", v.Error)
		}
	})

	t.Run("missing file field", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		_ = w.WriteField("other", "x")
		_ = w.Close()
		req := httptest.NewRequest(http.MethodPost, "/api/files", &body)
		req.Header.Set("Content-Type", w.FormDataContentType())

		rec := do(t, srv, req)
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), ErrNoFile.Error()) {
			t.Errorf("status = %d, body %s", rec.Code, rec.Body)
		}
	})

	t.Run("clear selection", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		do(t, srv, uploadRequest(t, "a.md", []byte("a")))
		v := decodeState(t, do(t, srv, httptest.NewRequest(http.MethodDelete, "/api/files", nil)))
		if v.State != "empty" || v.Candidate != nil {
			t.Errorf("state = %+v", v)
		}
	})

	t.Run("confirm without selection conflicts", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		rec := do(t, srv, httptest.NewRequest(http.MethodPost, "/api/confirm", nil))
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("binary content rejected on confirm", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		do(t, srv, uploadRequest(t, "bin.md", []byte("a\x00b")))
		rec := do(t, srv, httptest.NewRequest(http.MethodPost, "/api/confirm", nil))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", rec.Code)
		}
		if v := decodeState(t, rec); v.Error == nil || v.Error.Kind != "binary_content" {
			t.Errorf("state = %+v", v)
		}
	})
}

// ---------------------------------------------------------------------------
// TestServer_Flow - Upload, Preview, Export, Back
// ---------------------------------------------------------------------------

func TestServer_Flow(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	// Upload screen.
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Upload file") {
		t.Fatalf("GET / = %d", rec.Code)
	}

	do(t, srv, uploadRequest(t, "notes.MD", []byte("# Title\n\n<div data-testid=\"x\">Raw</div>")))

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "notes.MD") {
		t.Error("upload screen does not show the selection")
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodPost, "/api/confirm", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d, body %s", rec.Code, rec.Body)
	}
	v := decodeState(t, rec)
	if v.State != "active" || v.Document == nil || v.Document.Filename != "notes.MD" {
		t.Fatalf("state = %+v", v)
	}

	// Upload screen redirects while a document is open.
	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/preview" {
		t.Errorf("GET / = %d -> %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/preview", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`id="markdown-preview"`,
		`<h1 id="title">Title</h1>`,
		`<div data-testid="x">Raw</div>`,
		`download="notes.html"`,
		`/assets/styles/github-markdown`,
		`/assets/styles/chroma-github`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("preview missing %q", want)
		}
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/export", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != mdconv.HTMLMIMEType {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename=notes.html` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Header().Get("X-Export-Degraded") != "" {
		t.Error("export degraded with embedded styles")
	}
	if !strings.Contains(rec.Body.String(), "<title>notes</title>") {
		t.Error("export title wrong")
	}

	v = decodeState(t, do(t, srv, httptest.NewRequest(http.MethodPost, "/api/back", nil)))
	if v.State != "empty" {
		t.Errorf("back state = %+v", v)
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/preview", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("GET /preview after back = %d -> %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/export", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("export after back status = %d", rec.Code)
	}
}

func TestServer_UploadScreenLocale(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "zh-CN")
	body := do(t, srv, req).Body.String()
	if !strings.Contains(body, `lang="zh-CN"`) || !strings.Contains(body, "上传文件") {
		t.Errorf("upload screen not localized")
	}
}

// ---------------------------------------------------------------------------
// TestServer_Styles - Stylesheet Route
// ---------------------------------------------------------------------------

func TestServer_Styles(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/assets/styles/github-markdown", http.StatusOK},
		{"/assets/styles/github-markdown.css", http.StatusOK},
		{"/assets/styles/chroma-github", http.StatusOK},
		{"/assets/styles/unknown", http.StatusNotFound},
		{"/assets/styles/chroma-unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			rec := do(t, srv, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/css") {
				t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStatusFor - Error Mapping
// ---------------------------------------------------------------------------

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{mdconv.ErrNoSelection, http.StatusConflict},
		{mdconv.ErrNoDocument, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", mdconv.ErrStaleResult), http.StatusConflict},
		{mdconv.ErrInvalidExtension, http.StatusUnprocessableEntity},
		{mdconv.ErrSizeExceeded, http.StatusUnprocessableEntity},
		{mdconv.ErrBinaryContent, http.StatusUnprocessableEntity},
		{mdconv.ErrReadFailure, http.StatusUnprocessableEntity},
		{context.Canceled, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFormatKB(t *testing.T) {
	t.Parallel()

	for in, want := range map[int64]string{0: "0.00", 512: "0.50", 1024: "1.00", 1536: "1.50", 10 << 20: "10240.00"} {
		if got := formatKB(in); got != want {
			t.Errorf("formatKB(%d) = %q, want %q", in, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestServer_Serve - Lifecycle
// ---------------------------------------------------------------------------

func TestServer_Serve(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.addr = "127.0.0.1:0"
	ln, err := srv.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestNew_DefaultAddr(t *testing.T) {
	t.Parallel()

	if got := newTestServer(t).Addr(); got != DefaultAddr {
		t.Errorf("Addr() = %q, want %q", got, DefaultAddr)
	}
}

func TestServer_Listen_Error(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.addr = "127.0.0.1:-1"
	if _, err := srv.Listen(context.Background()); err == nil {
		t.Error("Listen() on an invalid port succeeded")
	}
}
