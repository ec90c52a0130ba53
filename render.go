package mdconv

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/log/level"

	"github.com/alnah/go-mdconv/internal/pipeline"
)

// Render converts Markdown text into Markup.
// Conversion problems never fail the call: the text is shown as an escaped
// <pre> block and a warning is logged. Only context errors are returned.
func (c *Converter) Render(ctx context.Context, text string) (m *Markup, err error) {
	defer func() {
		if r := recover(); r != nil {
			level.Error(c.logger).Log("msg", "render panicked, showing plain text", "panic", fmt.Sprint(r))
			m, err = newMarkup(pipeline.EscapedPre(text)), nil
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := c.preprocessor.PreprocessMarkdown(ctx, text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fragment, err := c.htmlConverter.ToHTML(ctx, content)
	if err != nil {
		if isContextError(err) {
			return nil, err
		}
		level.Warn(c.logger).Log("msg", "markdown conversion failed, showing plain text", "err", err)
		return newMarkup(pipeline.EscapedPre(content)), nil
	}

	nodes, err := pipeline.ParseFragment(fragment)
	if err != nil {
		level.Warn(c.logger).Log("msg", "parsing rendered HTML failed, showing plain text", "err", err)
		return newMarkup(pipeline.EscapedPre(content)), nil
	}
	return newMarkup(nodes), nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
