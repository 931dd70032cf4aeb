package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yamala-stream/DashSEO/internal/logger"
	"github.com/yamala-stream/DashSEO/internal/metrics"
	"github.com/yamala-stream/DashSEO/internal/store"
	"github.com/yamala-stream/DashSEO/internal/templates"
)

var (
	// ErrMissingKeyword is returned when the request has no primary keyword.
	ErrMissingKeyword = errors.New("primary keyword is required")

	// ErrInvalidRequest is returned for any other request validation failure.
	ErrInvalidRequest = errors.New("invalid prompt request")
)

// Result is a generated prompt plus the metadata recorded with it.
type Result struct {
	Text           string `json:"text"`
	TemplateID     string `json:"template_id"`
	PrimaryKeyword string `json:"primary_keyword"`
	Category       string `json:"category"`
	Audience       string `json:"audience"`
	SecondaryText  string `json:"secondary"`
}

// Assembler renders prompts. It is safe for concurrent use.
type Assembler struct {
	recorder store.PromptRecorder
	log      *logger.Logger
	now      func() time.Time
	validate *validator.Validate
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithRecorder sets where generated prompts are recorded. Recording is best
// effort: failures are logged and counted, never returned.
func WithRecorder(r store.PromptRecorder) Option {
	return func(a *Assembler) { a.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Assembler) { a.log = logger.OrNop(l) }
}

// WithClock overrides the time source for current_date and current_year.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		log:      logger.Nop(),
		now:      time.Now,
		validate: validator.New(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Validate checks req, mapping a missing primary keyword to ErrMissingKeyword.
func (a *Assembler) Validate(req Request) error {
	err := a.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.StructField() == "PrimaryKeyword" {
				return fmt.Errorf("%w: %v", ErrMissingKeyword, fe)
			}
		}
	}
	return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
}

// Assemble renders rec for req and records the result. Only validation
// errors are returned.
func (a *Assembler) Assemble(ctx context.Context, rec templates.Record, req Request) (Result, error) {
	start := time.Now()
	text, err := a.Render(rec, req)
	if err != nil {
		return Result{}, err
	}
	metrics.AssembleDuration.Observe(time.Since(start).Seconds())

	templateID := req.TemplateID
	if templateID == "" {
		templateID = rec.ID
	}
	res := Result{
		Text:           text,
		TemplateID:     templateID,
		PrimaryKeyword: req.PrimaryKeyword,
		Category:       rec.CategoryOrDefault(),
		Audience:       req.TargetAudience,
		SecondaryText:  req.SecondaryText(),
	}
	metrics.PromptsGeneratedTotal.WithLabelValues(rec.ID).Inc()
	a.record(ctx, res, req)
	return res, nil
}

// record hands the result to the recorder. Errors are logged and counted, never
// returned.
func (a *Assembler) record(ctx context.Context, res Result, req Request) {
	if a.recorder == nil {
		return
	}
	err := a.recorder.RecordPrompt(ctx, store.PromptEvent{
		TemplateID:        res.TemplateID,
		PrimaryKeyword:    res.PrimaryKeyword,
		Category:          res.Category,
		Audience:          res.Audience,
		SecondaryKeywords: req.SecondaryKeywords,
		PromptText:        res.Text,
	})
	if err != nil {
		metrics.PromptRecordErrorsTotal.Inc()
		a.log.Warn("recording prompt failed", "template", res.TemplateID, "err", err)
	}
}

// Render produces the prompt text without recording it.
func (a *Assembler) Render(rec templates.Record, req Request) (string, error) {
	if err := a.Validate(req); err != nil {
		return "", err
	}

	text := templates.NormalizeBody(rec.Body)
	defaultTone := rec.DefaultTone()
	if req.Tone != "" && req.Tone != defaultTone {
		text = strings.ReplaceAll(text, "Tone: "+defaultTone, "Tone: "+req.Tone)
	}

	text = a.bindings(rec, req).replacer().Replace(text)
	return RunSections(text, Sections(req, rec.SchemaType())), nil
}

// bindings lists placeholder values in substitution order: reserved names
// first, then template fields. A non-empty field that shares a reserved name
// replaces that value in place; an empty one is ignored.
func (a *Assembler) bindings(rec templates.Record, req Request) *bindingList {
	now := a.now()
	tone := req.Tone
	if tone == "" {
		tone = rec.DefaultTone()
	}
	wordCount := ""
	if req.WordCount > 0 {
		wordCount = strconv.Itoa(req.WordCount)
	}

	b := &bindingList{index: make(map[string]int)}
	b.set("source_link", req.Source())
	b.set("primary_keyword", req.PrimaryKeyword)
	b.set("secondary_keywords", req.SecondaryText())
	b.set("target_audience", req.TargetAudience)
	b.set("target_location", req.TargetLocation)
	b.set("update_frequency", req.UpdateFrequency)
	b.set("current_date", now.Format("2006-01-02"))
	b.set("current_year", strconv.Itoa(now.Year()))
	b.set("word_count", wordCount)
	b.set("tone", tone)
	b.set("reading_level", req.ReadingLevel)
	for _, f := range req.Fields {
		if f.Value == "" && templates.IsReserved(f.Name) {
			continue
		}
		b.set(f.Name, f.Value)
	}
	return b
}

type binding struct {
	name, value string
}

type bindingList struct {
	items []binding
	index map[string]int
}

func (b *bindingList) set(name, value string) {
	if i, ok := b.index[name]; ok {
		b.items[i].value = value
		return
	}
	b.index[name] = len(b.items)
	b.items = append(b.items, binding{name: name, value: value})
}

// replacer substitutes every {name} with a non-empty value in one pass, so
// text introduced by one value is never substituted again. Empty values
// leave their token in place.
func (b *bindingList) replacer() *strings.Replacer {
	var pairs []string
	for _, it := range b.items {
		if it.value == "" {
			continue
		}
		pairs = append(pairs, "{"+it.name+"}", it.value)
	}
	return strings.NewReplacer(pairs...)
}
