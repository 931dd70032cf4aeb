package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yamala-stream/DashSEO/internal/analysis"
	"github.com/yamala-stream/DashSEO/internal/prompt"
	"github.com/yamala-stream/DashSEO/internal/store"
)

type generateOptions struct {
	templateID  string
	keyword     string
	secondary   string
	source      string
	reference   string
	audience    string
	location    string
	reading     string
	frequency   string
	wordCount   int
	tone        string
	updateNotes string
	fields      []string
	flags       prompt.Flags
	preview     bool
	analyze     bool
	noRecord    bool
	width       int
}

const generateExample = `  dashseo generate -t beginner_guides -k "vector databases" --field topic="embeddings"
  dashseo generate -k "AI agents" --secondary "automation, LLM" --faq=false --preview`

func newGenerateCmd() *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Assemble a prompt from a template",
		Example: generateExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, o)
		},
	}

	bindGenerateFlags(cmd.Flags(), o)
	return cmd
}

func bindGenerateFlags(f *pflag.FlagSet, o *generateOptions) {
	f.StringVarP(&o.templateID, "template", "t", "default", "template id")
	f.StringVarP(&o.keyword, "keyword", "k", "", "primary keyword (required)")
	f.StringVar(&o.secondary, "secondary", "", "comma separated secondary keywords")
	f.StringVar(&o.source, "source", "", "source link")
	f.StringVar(&o.reference, "reference", "", "reference content used when no source link is given")
	f.StringVar(&o.audience, "audience", prompt.DefaultAudience, "target audience")
	f.StringVar(&o.location, "location", prompt.DefaultLocation, `target location ("Other" for none)`)
	f.StringVar(&o.reading, "reading-level", prompt.DefaultReadingLevel, "reading level")
	f.StringVar(&o.frequency, "update-frequency", prompt.DefaultUpdateFrequency, "how often the content is refreshed")
	f.IntVar(&o.wordCount, "word-count", prompt.DefaultWordCount, "target word count")
	f.StringVar(&o.tone, "tone", "", "tone (defaults to the template's tone)")
	f.StringVar(&o.updateNotes, "update-notes", "", "notes on what changed since the last version")
	f.StringArrayVar(&o.fields, "field", nil, "template field as name=value (repeatable)")
	f.BoolVar(&o.flags.FAQ, "faq", true, "keep the FAQ section")
	f.BoolVar(&o.flags.MetaTags, "meta-tags", true, "ask for meta title and description")
	f.BoolVar(&o.flags.Schema, "schema", true, "ask for schema markup")
	f.BoolVar(&o.flags.ImagePrompt, "image-prompt", false, "ask for a featured image prompt")
	f.BoolVar(&o.flags.URLSlug, "url-slug", true, "ask for a URL slug")
	f.BoolVar(&o.flags.Tags, "tags", true, "ask for tags")
	f.BoolVar(&o.flags.ExternalReferences, "external-refs", false, "ask for external references")
	f.BoolVar(&o.flags.InternalLinking, "internal-linking", false, "ask for internal linking suggestions")
	f.BoolVar(&o.flags.FeaturedSnippet, "featured-snippet", false, "ask for a featured snippet answer")
	f.BoolVar(&o.preview, "preview", false, "render the prompt as markdown")
	f.BoolVar(&o.analyze, "analyze", false, "print the prompt analysis after the prompt")
	f.BoolVar(&o.noRecord, "no-record", false, "do not record the prompt in the database")
	f.IntVar(&o.width, "width", 100, "word wrap width for --preview")
}

func runGenerate(cmd *cobra.Command, o *generateOptions) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	fields, err := parseFields(o.fields)
	if err != nil {
		return err
	}

	opts := []prompt.Option{prompt.WithLogger(e.log)}
	if !o.noRecord {
		if err := e.openDB(); err != nil {
			return err
		}
		opts = append(opts, prompt.WithRecorder(store.NewPromptStore(e.db)))
	}

	ctx := cmd.Context()
	rec := e.repo.Resolve(ctx, o.templateID)
	req := o.request(cmd.Flags(), prompt.DefaultRequest(rec))
	req.TemplateID = o.templateID
	req.Fields = fields

	res, err := prompt.NewAssembler(opts...).Assemble(ctx, rec, req)
	if errors.Is(err, prompt.ErrMissingKeyword) {
		return fmt.Errorf("--keyword is required")
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	text := res.Text
	if o.preview {
		if text, err = renderMarkdown(res.Text, o.width); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, text)

	if o.analyze {
		printReport(out, analysis.Analyze(res.Text, req.PrimaryKeyword, req.SecondaryKeywords))
	}
	return nil
}

// request applies the command line to the template's default form. Values
// the user did not set keep their defaults.
func (o *generateOptions) request(flags *pflag.FlagSet, req prompt.Request) prompt.Request {
	req.PrimaryKeyword = strings.TrimSpace(o.keyword)
	req.SecondaryKeywords = prompt.SplitKeywords(o.secondary)
	req.SourceLink = o.source
	req.ReferenceContent = o.reference
	req.UpdateNotes = o.updateNotes
	if flags.Changed("audience") {
		req.TargetAudience = o.audience
	}
	if flags.Changed("location") {
		req.TargetLocation = o.location
	}
	if flags.Changed("reading-level") {
		req.ReadingLevel = o.reading
	}
	if flags.Changed("update-frequency") {
		req.UpdateFrequency = o.frequency
	}
	if flags.Changed("word-count") {
		req.WordCount = o.wordCount
	}
	if o.tone != "" {
		req.Tone = o.tone
	}
	req.Flags = o.flags
	return req
}

// parseFields turns name=value pairs into field values.
func parseFields(pairs []string) ([]prompt.FieldValue, error) {
	var out []prompt.FieldValue
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --field %q, want name=value", p)
		}
		out = append(out, prompt.FieldValue{Name: name, Value: value})
	}
	return out, nil
}
