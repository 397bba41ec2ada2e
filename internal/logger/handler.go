package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

const tagKey = "tag" // The slog attribute key used for filtering tags

// filteringHandler wraps a base slog.Handler to add custom filtering.
type filteringHandler struct {
	baseHandler slog.Handler
	cfg         *Config
	// tag carried by WithAttrs, so loggers derived with .With("tag", x)
	// are filtered like DebugTagf calls.
	tag string
}

func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{
		baseHandler: base,
		cfg:         cfg,
	}
}

func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.baseHandler.Enabled(ctx, level)
}

func foundInSet(set map[string]struct{}, key string) bool {
	if set == nil {
		return false
	}
	_, found := set[key]
	return found
}

// allowed applies the disable-then-enable rule shared by every filter list.
func allowed(enabled, disabled map[string]struct{}, key string) bool {
	if foundInSet(disabled, key) {
		return false
	}
	if enabled != nil && !foundInSet(enabled, key) {
		return false
	}
	return true
}

// Handle applies filtering logic before passing the record to the base handler.
func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil || !h.cfg.hasFilters() {
		return h.baseHandler.Handle(ctx, r)
	}

	// --- Source filtering ---
	if r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		if frame.File != "" {
			file := strings.ToLower(filepath.Base(frame.File))
			pkg := strings.ToLower(filepath.Base(filepath.Dir(frame.File)))
			if !allowed(h.cfg.enabledPackagesSet, h.cfg.disabledPackagesSet, pkg) {
				return nil
			}
			if !allowed(h.cfg.enabledFilesSet, h.cfg.disabledFilesSet, file) {
				return nil
			}
		}
	}

	// --- Tag filtering ---
	tag := h.tag
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = strings.ToLower(a.Value.String())
			return false
		}
		return true
	})

	if tag != "" {
		if !allowed(h.cfg.enabledTagsSet, h.cfg.disabledTagsSet, tag) {
			return nil
		}
	} else if h.cfg.enabledTagsSet != nil {
		// Filtering for specific tags but this message has none.
		return nil
	}

	return h.baseHandler.Handle(ctx, r)
}

func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := newFilteringHandler(h.baseHandler.WithAttrs(attrs), h.cfg)
	nh.tag = h.tag
	for _, a := range attrs {
		if a.Key == tagKey {
			nh.tag = strings.ToLower(a.Value.String())
		}
	}
	return nh
}

func (h *filteringHandler) WithGroup(name string) slog.Handler {
	nh := newFilteringHandler(h.baseHandler.WithGroup(name), h.cfg)
	nh.tag = h.tag
	return nh
}
