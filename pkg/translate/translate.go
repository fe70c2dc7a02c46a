// Package translate implements the Translation Engine: it batches
// translatable dialog lines, dispatches them to a configured LLM
// provider with bounded, wave-based concurrency, and merges validated
// responses back into a SubtitleDocument.
package translate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yuzurisub/subtrans/internal/subterr"
	"github.com/yuzurisub/subtrans/pkg/subs"
)

// Logger is the package-level logger for translate.
var Logger zerolog.Logger = log.Logger.With().Str("component", "translate").Logger()

// SetLogger installs l (scoped with a "translate" component field) as the
// package logger.
func SetLogger(l zerolog.Logger) {
	Logger = l.With().Str("component", "translate").Logger()
}

// ProviderTag identifies an LLM backend. The recognized set is closed;
// see §4.4.1's dispatch table.
type ProviderTag string

const (
	ProviderOpenAI     ProviderTag = "openai"
	ProviderOpenRouter ProviderTag = "openrouter"
	ProviderGemini     ProviderTag = "gemini"
	ProviderOllama     ProviderTag = "ollama"
	ProviderLMStudio   ProviderTag = "lmstudio"
)

func (p ProviderTag) recognized() bool {
	switch p {
	case ProviderOpenAI, ProviderOpenRouter, ProviderGemini, ProviderOllama, ProviderLMStudio:
		return true
	}
	return false
}

// ProviderConfig is the caller-supplied, per-run configuration for an LLM
// backend.
type ProviderConfig struct {
	Provider ProviderTag
	Endpoint string
	Model    string
	APIKey   string
	// StyleTag selects the system-prompt register: natural (default),
	// literal, localized, formal, casual, or honorifics. Unrecognized
	// values fall back to natural.
	StyleTag string
}

// BatchLine is one {id, text} pair submitted to the provider.
type BatchLine struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// TranslationBatch is a contiguous slice of a document's translatable
// lines, tagged with its position among the batches of a run.
type TranslationBatch struct {
	Ordinal int
	Lines   []BatchLine
}

// TranslationMap is the mutex-guarded index→translation table shared
// across a run's concurrent batch tasks.
type TranslationMap struct {
	mu sync.Mutex
	m  map[int]string
}

func newTranslationMap() *TranslationMap {
	return &TranslationMap{m: make(map[int]string)}
}

func (t *TranslationMap) merge(batch map[int]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, text := range batch {
		t.m[id] = text
	}
}

func (t *TranslationMap) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.m)
}

func (t *TranslationMap) snapshot() map[int]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[int]string, len(t.m))
	for k, v := range t.m {
		out[k] = v
	}
	return out
}

// ProgressEvent reports the state of a translation run after a batch
// completes.
type ProgressEvent struct {
	CurrentBatch    int
	TotalBatches    int
	LinesTranslated int
	TotalLines      int
	Status          string
}

// ProgressSink receives best-effort progress and error notifications.
// Loss of a notification never affects correctness; implementations
// should not block the caller.
type ProgressSink interface {
	Progress(ProgressEvent)
	Error(message string)
}

func notifyProgress(sink ProgressSink, ev ProgressEvent) {
	if sink == nil {
		return
	}
	sink.Progress(ev)
}

func notifyError(sink ProgressSink, message string) {
	if sink == nil {
		return
	}
	sink.Error(message)
}

// Request bundles a translate() call's inputs, mirroring the public
// operation's parameter list one-for-one.
type Request struct {
	Doc         *subs.SubtitleDocument
	Config      ProviderConfig
	SourceLang  string
	TargetLang  string
	BatchSize   int
	Concurrency int
	DelayMs     int
	Sink        ProgressSink
}

const (
	defaultBatchSize   = 20
	defaultConcurrency = 1
	minConcurrency     = 1
	maxConcurrency     = 10
)

// Translate batches req.Doc's lines, dispatches them to req.Config's
// provider across waves of bounded concurrency, and returns a new
// SubtitleDocument with translated text merged in. It never mutates
// req.Doc.
func Translate(ctx context.Context, req Request) (*subs.SubtitleDocument, error) {
	if req.Doc == nil || req.Doc.LineCount() == 0 {
		return nil, subterr.New(subterr.StageTranslate, ErrEmptyDocument)
	}
	if !req.Config.Provider.recognized() {
		return nil, subterr.New(subterr.StageTranslate, fmt.Errorf("%w: %q", ErrUnknownProvider, req.Config.Provider))
	}

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if concurrency > maxConcurrency {
		concurrency = maxConcurrency
	}
	if concurrency < minConcurrency {
		concurrency = minConcurrency
	}

	batches := partitionBatches(req.Doc.Lines, batchSize)
	prompt := systemPrompt(req.SourceLang, req.TargetLang, req.Config.StyleTag)

	tm := newTranslationMap()
	completed := 0
	totalLines := req.Doc.LineCount()

	Logger.Debug().
		Int("batches", len(batches)).
		Int("concurrency", concurrency).
		Int("delay_ms", req.DelayMs).
		Msg("starting translation run")

	if err := runWaves(ctx, batches, concurrency, req.DelayMs, func(ctx context.Context, b TranslationBatch) error {
		result, err := dispatchBatch(ctx, req.Config, b, prompt)
		if err != nil {
			return subterr.NewBatch(b.Ordinal, err)
		}
		tm.merge(result)
		completed++
		notifyProgress(req.Sink, ProgressEvent{
			CurrentBatch:    completed,
			TotalBatches:    len(batches),
			LinesTranslated: tm.len(),
			TotalLines:      totalLines,
			Status:          "batch_complete",
		})
		return nil
	}); err != nil {
		notifyError(req.Sink, err.Error())
		return nil, err
	}

	return applyTranslations(req.Doc, tm.snapshot()), nil
}

// runWaves partitions batches into waves of at most concurrency
// in-flight tasks, running each wave to completion (errgroup join
// barrier) before sleeping delayMs and starting the next. The first
// error aborts the run after the active wave drains.
func runWaves(ctx context.Context, batches []TranslationBatch, concurrency, delayMs int, task func(context.Context, TranslationBatch) error) error {
	for start := 0; start < len(batches); start += concurrency {
		end := start + concurrency
		if end > len(batches) {
			end = len(batches)
		}
		wave := batches[start:end]

		g, gctx := errgroup.WithContext(ctx)
		for _, b := range wave {
			b := b
			g.Go(func() error {
				return task(gctx, b)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if end < len(batches) && delayMs > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(delayMs) * time.Millisecond):
			}
		}
	}
	return nil
}

func partitionBatches(lines []subs.DialogLine, batchSize int) []TranslationBatch {
	var batches []TranslationBatch
	for start := 0; start < len(lines); start += batchSize {
		end := start + batchSize
		if end > len(lines) {
			end = len(lines)
		}
		blines := make([]BatchLine, 0, end-start)
		for _, l := range lines[start:end] {
			blines = append(blines, BatchLine{ID: l.Index, Text: l.Text})
		}
		batches = append(batches, TranslationBatch{Ordinal: len(batches), Lines: blines})
	}
	return batches
}

// applyTranslations returns a copy of doc with each line's Text replaced
// by its translation when present; absent entries retain the original
// text.
func applyTranslations(doc *subs.SubtitleDocument, translations map[int]string) *subs.SubtitleDocument {
	out := &subs.SubtitleDocument{
		Format:     doc.Format,
		SourcePath: doc.SourcePath,
		Lines:      make([]subs.DialogLine, len(doc.Lines)),
	}
	copy(out.Lines, doc.Lines)
	for i, l := range out.Lines {
		if t, ok := translations[l.Index]; ok {
			out.Lines[i].Text = t
		}
	}
	return out
}
