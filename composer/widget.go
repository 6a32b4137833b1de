package composer

import "prompt_page_studio/widget"

// Widget generates embed markup from the live sentiment settings. Question
// and slug come from the page unless opts sets them; a page that was never
// saved has no slug and gets ErrNotSaved.
func (e *Engine) Widget(opts widget.Options) (widget.Result, error) {
	e.mu.Lock()
	enabled := e.cfg.Sentiment.Enabled
	if opts.Question == "" {
		opts.Question = e.cfg.Sentiment.Question
	}
	if opts.Slug == "" {
		opts.Slug = e.cfg.Slug
	}
	e.mu.Unlock()
	if !enabled {
		return widget.Result{}, ErrSentimentOff
	}
	if opts.Slug == "" {
		return widget.Result{}, ErrNotSaved
	}
	return widget.Generate(opts)
}
