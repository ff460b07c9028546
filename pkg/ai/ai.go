// Package ai generates SEO metadata from product images using the Gemini
// API. Results overlay the template-generated baseline: AI text wins where
// present, the baseline fills the gaps.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"google.golang.org/genai"
	"k8s.io/klog/v2"

	"github.com/woodway-expert/ww-converter/pkg/seo"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Config holds Gemini client settings.
type Config struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	MaxRetries      int
}

// Client talks to the Gemini API.
type Client struct {
	client *genai.Client
	cfg    Config
	tax    *seo.Taxonomy
}

// NewClient connects to Gemini. The taxonomy supplies translation hints
// for the prompt and drives post-processing of the response.
func NewClient(ctx context.Context, cfg Config, tax *seo.Taxonomy) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 2048
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{client: gc, cfg: cfg, tax: tax}, nil
}

var imageMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// GenerateMetadata asks Gemini to describe the image at path. The returned
// metadata carries no filename; callers merge it over a template baseline
// with Merge.
func (c *Client) GenerateMetadata(ctx context.Context, path string, attrs seo.ProductAttributes) (seo.Metadata, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return seo.Metadata{}, fmt.Errorf("read image: %w", err)
	}
	mime := imageMIME[strings.ToLower(filepath.Ext(path))]
	if mime == "" {
		mime = "image/jpeg"
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(bs, mime),
		genai.NewPartFromText(c.prompt(attrs)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	gcfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.cfg.Temperature),
		MaxOutputTokens: c.cfg.MaxOutputTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, contents, gcfg)
		if err != nil {
			lastErr = err
			klog.Warningf("generate attempt %d for %s: %v", attempt+1, path, err)
			continue
		}

		md, err := parseResponse(resp.Text())
		if err != nil {
			lastErr = err
			klog.Warningf("parse attempt %d for %s: %v", attempt+1, path, err)
			continue
		}

		// Incomplete tags usually mean a truncated response.
		if (md.UA.Tags == "" || md.EN.Tags == "" || md.RU.Tags == "") && attempt < c.cfg.MaxRetries {
			lastErr = fmt.Errorf("response missing tags")
			continue
		}

		return c.postTranslate(md), nil
	}

	return seo.Metadata{}, fmt.Errorf("generate metadata for %q: %w", path, lastErr)
}

// prompt builds the generation prompt, embedding catalog translations so
// the model keeps the EN and RU sections free of Ukrainian terms.
func (c *Client) prompt(attrs seo.ProductAttributes) string {
	var ctxLines []string
	hint := func(label, value string) {
		if value == "" {
			return
		}
		en := c.tax.ResolveLocalizedName(value, seo.LangEN)
		ru := c.tax.ResolveLocalizedName(value, seo.LangRU)
		ctxLines = append(ctxLines, fmt.Sprintf("%s: %s (EN: %s, RU: %s)", label, value, en, ru))
	}

	hint("Category", attrs.Category)
	hint("Type", attrs.ProductType)
	hint("Wood Species", attrs.Species)
	hint("Finish", attrs.Finish)
	if attrs.Thickness != "" {
		if imp := c.tax.ResolveImperial(attrs.Thickness); imp != "" {
			ctxLines = append(ctxLines, fmt.Sprintf("Thickness: %s (%s)", attrs.Thickness, imp))
		} else {
			ctxLines = append(ctxLines, "Thickness: "+attrs.Thickness)
		}
	}
	if attrs.Size != "" {
		ctxLines = append(ctxLines, "Size: "+attrs.Size)
	}
	hint("Grade", attrs.Grade)

	productCtx := "General wood product"
	if len(ctxLines) > 0 {
		productCtx = strings.Join(ctxLines, "\n")
	}

	return fmt.Sprintf(`You are a senior SEO specialist for %s, a premium Ukrainian wood products company specializing in high-quality lumber, veneer, and wood materials for professional woodworkers and furniture manufacturers.

PRODUCT CONTEXT:
%s

YOUR TASK: Analyze this product image and generate SEO-optimized metadata in THREE languages (Ukrainian, English, Russian).

LANGUAGE REQUIREMENTS:
- "ua" section: ONLY Ukrainian
- "en" section: ONLY English, translate ALL terms
- "ru" section: ONLY Russian, translate ALL terms
- Use the translations provided in parentheses above
- NEVER mix languages within a section

Describe what is actually visible: grain pattern, color tones, surface texture, knots or figure, presentation style.

FIELDS:
- alt_text (80-125 characters): describes what the image shows, includes category/type/species naturally, no "image of" prefix
- title (50-60 characters): Category + Type + Species + key spec, ending with "| %s"
- description (140-160 characters): what it is, key specs, quality signals, soft call-to-action
- tags: 5-7 comma-separated tags including category, type, species, grade, thickness, and "%s"

Return ONLY valid JSON (no markdown, no code blocks):
{
  "ua": {"alt_text": "...", "title": "...", "description": "...", "tags": "..."},
  "en": {"alt_text": "...", "title": "...", "description": "...", "tags": "..."},
  "ru": {"alt_text": "...", "title": "...", "description": "...", "tags": "..."}
}`, seo.Brand, productCtx, seo.Brand, seo.Brand)
}

var codeFence = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// parseResponse extracts the metadata JSON from a model response, tolerating
// markdown code fences around it.
func parseResponse(text string) (seo.Metadata, error) {
	text = strings.TrimSpace(text)
	if m := codeFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var raw struct {
		UA *seo.LangBlock `json:"ua"`
		EN *seo.LangBlock `json:"en"`
		RU *seo.LangBlock `json:"ru"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return seo.Metadata{}, fmt.Errorf("parse response: %w", err)
	}
	if raw.UA == nil || raw.EN == nil || raw.RU == nil {
		return seo.Metadata{}, fmt.Errorf("response missing language sections")
	}

	return seo.Metadata{UA: *raw.UA, EN: *raw.EN, RU: *raw.RU}, nil
}

// postTranslate replaces any Ukrainian catalog terms the model left in the
// EN and RU sections with their proper translations, longest term first to
// avoid partial replacements.
func (c *Client) postTranslate(md seo.Metadata) seo.Metadata {
	md.EN = translateBlock(md.EN, translationMap(c.tax, seo.LangEN))
	md.RU = translateBlock(md.RU, translationMap(c.tax, seo.LangRU))
	return md
}

func translationMap(tax *seo.Taxonomy, lang seo.Lang) map[string]string {
	m := map[string]string{}
	for _, cat := range tax.Categories() {
		addTranslation(m, cat.NameUA, pick(lang, cat.NameEN, cat.NameRU))
		for _, pt := range cat.Types {
			addTranslation(m, pt.NameUA, pick(lang, pt.NameEN, pt.NameRU))
		}
	}
	for _, l := range tax.Lists() {
		for _, o := range l.Options {
			addTranslation(m, o.UA, pick(lang, o.EN, o.RU))
		}
	}
	return m
}

func pick(lang seo.Lang, en, ru string) string {
	if lang == seo.LangEN {
		return en
	}
	return ru
}

func addTranslation(m map[string]string, ua, translated string) {
	if ua != "" && translated != "" && ua != translated {
		m[ua] = translated
	}
}

func translateBlock(b seo.LangBlock, m map[string]string) seo.LangBlock {
	terms := make([]string, 0, len(m))
	for t := range m {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})

	apply := func(s string) string {
		for _, t := range terms {
			s = strings.ReplaceAll(s, t, m[t])
		}
		return s
	}
	b.AltText = apply(b.AltText)
	b.Title = apply(b.Title)
	b.Description = apply(b.Description)
	b.Tags = apply(b.Tags)
	return b
}

// Merge lays AI-generated metadata over a template baseline. Non-empty
// overlay fields win; the baseline keeps the filename and fills anything
// the model left blank.
func Merge(base, overlay seo.Metadata) seo.Metadata {
	out := base
	out.UA = mergeBlock(base.UA, overlay.UA)
	out.EN = mergeBlock(base.EN, overlay.EN)
	out.RU = mergeBlock(base.RU, overlay.RU)
	return out
}

func mergeBlock(base, overlay seo.LangBlock) seo.LangBlock {
	if overlay.AltText != "" {
		base.AltText = overlay.AltText
	}
	if overlay.Title != "" {
		base.Title = overlay.Title
	}
	if overlay.Description != "" {
		base.Description = overlay.Description
	}
	if overlay.Tags != "" {
		base.Tags = overlay.Tags
	}
	return base
}
