package core

import (
	"strings"
	"time"
)

// ArticleStatus is the publication state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// Article is the unit of published content. Identity and timestamps are
// assigned by the store on creation, never by the pipeline.
type Article struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	Content            string        `json:"content"` // HTML body
	Category           string        `json:"category"`
	Tags               []string      `json:"tags"`
	ImageURL           string        `json:"image_url,omitempty"`            // featured image
	BackgroundImageURL string        `json:"background_image_url,omitempty"` // hero/background image
	AuthorID           string        `json:"author_id"`
	Status             ArticleStatus `json:"status"`
	CommentsEnabled    bool          `json:"comments_enabled"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// UserRole distinguishes ordinary accounts from administrators.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleEditor UserRole = "editor"
)

// User is an account known to the platform. The pipeline only ever reads
// users to resolve the acting author.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	DateAdded time.Time `json:"date_added"`
}

// IsAdmin reports whether the user holds the elevated role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// TitleMode selects how the article title is resolved.
type TitleMode string

const (
	TitleManual        TitleMode = "manual"
	TitleAICategory    TitleMode = "ai-category"
	TitleRandomKeyword TitleMode = "random-keyword"
)

// ImageMode selects how a single image role is resolved.
type ImageMode string

const (
	ImageNone       ImageMode = "none"
	ImageRandomList ImageMode = "random-list"
	ImageAIGenerate ImageMode = "ai-generated"
)

// TagMode selects how article tags are resolved.
type TagMode string

const (
	TagsManual     TagMode = "manual"
	TagsAICategory TagMode = "ai-category"
)

// Alignment values for in-content images.
const (
	AlignAllLeft  = "all-left"
	AlignAllRight = "all-right"
	AlignCenter   = "center"
)

// AutopostConfig is the persisted singleton configuration that drives one
// automated publishing run. It is loaded fresh per run and treated as
// read-only for the duration of that run.
type AutopostConfig struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`

	TitleMode   TitleMode `json:"title_mode"`
	ManualTitle string    `json:"manual_title"`

	Paragraphs int `json:"paragraphs"` // target length hint
	Words      int `json:"words"`      // target length hint

	PublishAction ArticleStatus `json:"publish_action"`

	FeaturedImageMode   ImageMode `json:"featured_image_mode"`
	FeaturedImagePool   []string  `json:"featured_image_pool"`
	BackgroundImageMode ImageMode `json:"background_image_mode"`
	BackgroundImagePool []string  `json:"background_image_pool"`
	InContentImageMode  ImageMode `json:"in_content_image_mode"`
	InContentImagePool  []string  `json:"in_content_image_pool"`
	InContentImageCount int       `json:"in_content_image_count"`
	InContentAlignment  string    `json:"in_content_alignment"` // all-left, all-right, center

	ContentAlignment string `json:"content_alignment"` // left, center, full
	ParagraphSpacing string `json:"paragraph_spacing"` // small, medium, large

	StyleTone       string `json:"style_tone"`
	StyleLength     string `json:"style_length"`
	StyleComplexity string `json:"style_complexity"`

	SEOEnabled  bool   `json:"seo_enabled"`
	SEOKeywords string `json:"seo_keywords"`

	AddTags      bool     `json:"add_tags"`
	TagMode      TagMode  `json:"tag_mode"`
	ManualTags   []string `json:"manual_tags"`
	NumberOfTags int      `json:"number_of_tags"`

	EnableComments bool   `json:"enable_comments"`
	Watermark      string `json:"watermark"`

	// StrictImages makes an image upload failure abort the run instead of
	// degrading the affected role to empty.
	StrictImages bool `json:"strict_images"`
}

// Validate checks per-mode invariants before any external call is made.
func (c *AutopostConfig) Validate() error {
	switch c.TitleMode {
	case TitleManual:
		if strings.TrimSpace(c.ManualTitle) == "" {
			return &ConfigError{Field: "manual_title", Reason: "manual title mode requires a non-blank title"}
		}
	case TitleRandomKeyword:
		if len(c.Keywords) == 0 {
			return &ConfigError{Field: "keywords", Reason: "random keyword title mode requires at least one keyword"}
		}
	case TitleAICategory:
		if strings.TrimSpace(c.Category) == "" {
			return &ConfigError{Field: "category", Reason: "category title mode requires a category"}
		}
	default:
		return &ConfigError{Field: "title_mode", Reason: "unknown title mode: " + string(c.TitleMode)}
	}

	if c.Paragraphs < 0 || c.Words < 0 {
		return &ConfigError{Field: "paragraphs", Reason: "length hints must not be negative"}
	}
	if c.AddTags && c.NumberOfTags < 0 {
		return &ConfigError{Field: "number_of_tags", Reason: "tag count must not be negative"}
	}
	if c.PublishAction != StatusDraft && c.PublishAction != StatusPublished {
		return &ConfigError{Field: "publish_action", Reason: "publish action must be draft or published"}
	}
	return nil
}

// HasStyleHints reports whether the style adjustment stage has anything to do.
func (c *AutopostConfig) HasStyleHints() bool {
	return c.StyleTone != "" || c.StyleLength != "" || c.StyleComplexity != ""
}

// DefaultAutopostConfig returns a conservative configuration: a manual-title
// draft with no images and no tags.
func DefaultAutopostConfig() *AutopostConfig {
	return &AutopostConfig{
		TitleMode:           TitleManual,
		Paragraphs:          5,
		Words:               800,
		PublishAction:       StatusDraft,
		FeaturedImageMode:   ImageNone,
		BackgroundImageMode: ImageNone,
		InContentImageMode:  ImageNone,
		InContentAlignment:  AlignCenter,
		ContentAlignment:    "left",
		ParagraphSpacing:    "medium",
		TagMode:             TagsManual,
		NumberOfTags:        5,
		EnableComments:      true,
	}
}
