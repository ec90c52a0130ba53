package mdconv

// Notes:
// - Printing is tested through mockRenderer and mockPrinter; the real browser
//   path lives in html2pdf_integration_test.go behind the integration tag
// - rodRenderer context checks run before any browser launch, so they are
//   safe to test here

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-kit/log"
)

type mockRenderer struct {
	result   []byte
	err      error
	gotPath  string
	gotPage  *PageSettings
	existed  bool
	contents []byte
}

func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string, page *PageSettings) ([]byte, error) {
	m.gotPath = filePath
	m.gotPage = page
	data, err := os.ReadFile(filePath)
	m.existed = err == nil
	m.contents = data
	return m.result, m.err
}

func (m *mockRenderer) Close() error { return nil }

// ---------------------------------------------------------------------------
// TestRodPrinter_ToPDF - Temp File Handling
// ---------------------------------------------------------------------------

func TestRodPrinter_ToPDF(t *testing.T) {
	t.Parallel()

	t.Run("writes temp file and cleans up", func(t *testing.T) {
		t.Parallel()

		mock := &mockRenderer{result: []byte("%PDF-1.7")}
		printer := &rodPrinter{renderer: mock}

		got, err := printer.ToPDF(context.Background(), []byte("<html>hi</html>"), DefaultPageSettings())
		if err != nil {
			t.Fatalf("ToPDF() error = %v", err)
		}
		if string(got) != "%PDF-1.7" {
			t.Errorf("ToPDF() = %q", got)
		}
		if !mock.existed || string(mock.contents) != "<html>hi</html>" {
			t.Errorf("renderer saw existed=%v contents=%q", mock.existed, mock.contents)
		}
		if _, err := os.Stat(mock.gotPath); !os.IsNotExist(err) {
			t.Errorf("temp file %s not removed", mock.gotPath)
		}
	})

	t.Run("renderer error propagates", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("browser crashed")
		printer := &rodPrinter{renderer: &mockRenderer{err: boom}}
		if _, err := printer.ToPDF(context.Background(), nil, nil); !errors.Is(err, boom) {
			t.Errorf("ToPDF() error = %v, want %v", err, boom)
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuildPDFOptions - Page Settings Mapping
// ---------------------------------------------------------------------------

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		page          *PageSettings
		width, height float64
		margin        float64
	}{
		{"nil uses defaults", nil, 8.5, 11, DefaultMargin},
		{"a4 portrait", &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: 1}, 8.27, 11.69, 1},
		{"letter landscape", &PageSettings{Size: PageSizeLetter, Orientation: OrientationLandscape, Margin: 0.25}, 11, 8.5, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := buildPDFOptions(tt.page)
			if *opts.PaperWidth != tt.width || *opts.PaperHeight != tt.height {
				t.Errorf("paper = %vx%v, want %vx%v", *opts.PaperWidth, *opts.PaperHeight, tt.width, tt.height)
			}
			for _, m := range []*float64{opts.MarginTop, opts.MarginBottom, opts.MarginLeft, opts.MarginRight} {
				if *m != tt.margin {
					t.Errorf("margin = %v, want %v", *m, tt.margin)
				}
			}
			if !opts.PrintBackground {
				t.Error("PrintBackground should be true")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConverter_Print - Validation and Delegation
// ---------------------------------------------------------------------------

func TestConverter_Print(t *testing.T) {
	t.Parallel()

	doc := &ExportedDocument{HTML: []byte("<html></html>"), Filename: "a.html", MIMEType: HTMLMIMEType}

	t.Run("delegates with defaults and deadline", func(t *testing.T) {
		t.Parallel()

		printer := &mockPrinter{result: []byte("%PDF")}
		conv := newTestConverter(t, withPrinter(printer))

		pdf, err := conv.Print(context.Background(), doc, nil)
		if err != nil {
			t.Fatalf("Print() error = %v", err)
		}
		if string(pdf) != "%PDF" {
			t.Errorf("Print() = %q", pdf)
		}
		if string(printer.gotHTML) != "<html></html>" {
			t.Errorf("printer got %q", printer.gotHTML)
		}
		if printer.gotPage == nil || printer.gotPage.Size != PageSizeLetter {
			t.Errorf("page = %+v, want defaults", printer.gotPage)
		}
		if !printer.deadline {
			t.Error("converter timeout not applied")
		}
	})

	t.Run("nil document", func(t *testing.T) {
		t.Parallel()

		conv := newTestConverter(t)
		if _, err := conv.Print(context.Background(), nil, nil); !errors.Is(err, ErrNoDocument) {
			t.Errorf("Print() error = %v, want ErrNoDocument", err)
		}
	})

	t.Run("invalid page settings", func(t *testing.T) {
		t.Parallel()

		printer := &mockPrinter{}
		conv := newTestConverter(t, withPrinter(printer))
		_, err := conv.Print(context.Background(), doc, &PageSettings{Size: "huge", Orientation: OrientationPortrait, Margin: 1})
		if !errors.Is(err, ErrInvalidPageSize) {
			t.Errorf("Print() error = %v, want ErrInvalidPageSize", err)
		}
		if printer.gotHTML != nil {
			t.Error("printer called despite invalid settings")
		}
	})

	t.Run("printer error wrapped", func(t *testing.T) {
		t.Parallel()

		conv := newTestConverter(t, withPrinter(&mockPrinter{err: ErrBrowserConnect}))
		if _, err := conv.Print(context.Background(), doc, nil); !errors.Is(err, ErrBrowserConnect) {
			t.Errorf("Print() error = %v, want ErrBrowserConnect", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRodRenderer_RenderFromFile - Context Checks Before Launch
// ---------------------------------------------------------------------------

func TestRodRenderer_RenderFromFile_ContextDone(t *testing.T) {
	t.Parallel()

	renderer := newRodRenderer(time.Second, log.NewNopLogger())
	defer renderer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := renderer.RenderFromFile(ctx, "/tmp/nonexistent.html", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("RenderFromFile() error = %v, want Canceled", err)
	}
	if renderer.browser != nil {
		t.Error("browser launched for a canceled context")
	}
}
