package prompt

import (
	"fmt"
	"strings"
)

// Section is one named step of the optional-section pipeline. Apply is a pure
// text transform; it only runs when Enabled is set.
type Section struct {
	Name    string
	Enabled bool
	Apply   func(text string) string
}

// Sections builds the pipeline for one request, in the fixed order the
// transforms must run. Later checks see the output of earlier steps.
func Sections(req Request, schemaType string) []Section {
	return []Section{
		{Name: "faq_removal", Enabled: !req.Flags.FAQ, Apply: RemoveFAQ},
		{Name: "meta_tags", Enabled: req.Flags.MetaTags, Apply: AppendMetaTags},
		{Name: "schema_markup", Enabled: req.Flags.Schema, Apply: SchemaNote(schemaType)},
		{Name: "location", Enabled: req.TargetLocation != "" && req.TargetLocation != "Other", Apply: LocationNote(req.TargetLocation)},
		{Name: "reading_level", Enabled: req.ReadingLevel != "" && req.ReadingLevel != "General", Apply: ReadingLevelNote(req.ReadingLevel)},
		{Name: "image_prompt", Enabled: req.Flags.ImagePrompt, Apply: appendBlock(imageBlock)},
		{Name: "url_slug", Enabled: req.Flags.URLSlug, Apply: appendBlock(urlSlugBlock)},
		{Name: "tags", Enabled: req.Flags.Tags, Apply: appendBlock(tagsBlock)},
		{Name: "external_references", Enabled: req.Flags.ExternalReferences, Apply: appendBlock(externalRefsBlock)},
		{Name: "internal_linking", Enabled: req.Flags.InternalLinking, Apply: appendBlock(internalLinkingBlock)},
		{Name: "featured_snippet", Enabled: req.Flags.FeaturedSnippet, Apply: appendBlock(featuredSnippetBlock)},
		{Name: "update_notes", Enabled: req.UpdateNotes != "", Apply: UpdateNotes(req.UpdateNotes)},
		{Name: "social_media", Enabled: true, Apply: appendBlock(SocialMediaBlock)},
	}
}

// RunSections applies every enabled section in order.
func RunSections(text string, sections []Section) string {
	for _, s := range sections {
		if s.Enabled {
			text = s.Apply(text)
		}
	}
	return text
}

const (
	metaTagsBlock = "\n\n## Generate Meta Tags\n" +
		"- Title Tag (50-60 characters)\n" +
		"- Meta Description (150-160 characters)\n"

	imageBlock = "\n\n## Image Suggestions\n" +
		"- Suggest 3-5 image ideas that would enhance this content\n" +
		"- Provide SEO-optimized alt text for each image\n" +
		"- Recommend image types (e.g., infographic, hero image, screenshot)\n"

	urlSlugBlock = "\n\n## URL Slug\nGenerate an SEO-friendly URL slug for this content.\n"

	tagsBlock = "\n\n## Content Tags\nSuggest 5-10 tags for categorizing this content.\n"

	externalRefsBlock = "\n\n## External References\n" +
		"Suggest 3-5 authoritative external sources that could be referenced in this content.\n"

	internalLinkingBlock = "\n\n## Internal Linking Opportunities\n" +
		"Suggest topics or content types on the same site that should link to or from this content.\n"

	featuredSnippetBlock = "\n\n## Featured Snippet Optimization\n" +
		"- Format a section of this content to be eligible for a featured snippet\n" +
		"- Include a clear definition, list, or table that directly answers a common question\n" +
		"- Optimize for 'People Also Ask' opportunities\n"

	// SocialMediaBlock ends every generated prompt.
	SocialMediaBlock = "\n\n## Social Media Content\n" +
		"Generate social media post ideas for LinkedIn, Instagram, and other recommended platforms based on this content.\n"
)

func appendBlock(block string) func(string) string {
	return func(text string) string { return text + block }
}

// RemoveFAQ drops FAQ blocks when the text has an "FAQ Section". A block
// starts at any line mentioning "FAQ Section" or "FAQ:" and runs up to the
// next non-blank line that starts with '#'.
func RemoveFAQ(text string) string {
	if !strings.Contains(text, "FAQ Section") {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	inFAQ := false
	removed := false
	for _, line := range lines {
		switch {
		case strings.Contains(line, "FAQ Section") || strings.Contains(line, "FAQ:"):
			inFAQ = true
		case inFAQ && strings.TrimSpace(line) != "" && strings.HasPrefix(line, "#"):
			inFAQ = false
		}
		if inFAQ {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return text
	}
	return strings.Join(kept, "\n")
}

// AppendMetaTags adds the meta tag request unless the text already asks for
// a meta title or description.
func AppendMetaTags(text string) string {
	if strings.Contains(text, "Meta title") || strings.Contains(text, "Meta description") {
		return text
	}
	return text + metaTagsBlock
}

// SchemaNote returns a step that recommends schema.org markup for
// schemaType unless the text already mentions schema markup.
func SchemaNote(schemaType string) func(string) string {
	return func(text string) string {
		if strings.Contains(text, "Schema markup") {
			return text
		}
		return text + fmt.Sprintf("\n\n## Schema Markup\nRecommend appropriate schema.org markup for this %s content.\n", schemaType)
	}
}

// LocationNote returns a step targeting the given location.
func LocationNote(location string) func(string) string {
	return appendBlock(fmt.Sprintf("\n\n## Location Targeting\nThis content targets audiences in %s. "+
		"Include location-specific information and keywords where relevant.\n", location))
}

// ReadingLevelNote returns a step asking for the given reading level.
func ReadingLevelNote(level string) func(string) string {
	return appendBlock(fmt.Sprintf("\n\n## Reading Level\nContent should be written at a %s reading level "+
		"appropriate for the target audience.\n", level))
}

// UpdateNotes returns a step embedding the notes verbatim.
func UpdateNotes(notes string) func(string) string {
	return appendBlock("\n\n## Content Update Strategy\n" + notes + "\n")
}
