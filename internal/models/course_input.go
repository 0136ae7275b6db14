package models

// CourseInput is the admin-editable part of a course, bound from the admin
// form or JSON body. IsPublished is a pointer so a JSON body that omits it
// creates a published course.
type CourseInput struct {
	Slug         string `form:"slug" json:"slug" validate:"required,max=128,slug"`
	Title        string `form:"title" json:"title" validate:"required,max=255"`
	Provider     string `form:"provider" json:"provider" validate:"max=255"`
	CategorySlug string `form:"category_slug" json:"category_slug" validate:"omitempty,max=128,slug"`
	Level        string `form:"level" json:"level" validate:"omitempty,level"`
	Format       string `form:"format" json:"format" validate:"omitempty,format"`
	PriceFrom    int    `form:"price_from" json:"price_from"`
	Duration     string `form:"duration" json:"duration" validate:"max=255"`
	Tags         string `form:"tags" json:"tags"`
	ShortDesc    string `form:"short_desc" json:"short_desc"`
	AffiliateURL string `form:"affiliate_url" json:"affiliate_url"`
	IsPublished  *bool  `form:"is_published" json:"is_published"`
}

// InputFromCourse fills a CourseInput with the current values of c, for edit forms.
func InputFromCourse(c *Course) CourseInput {
	published := c.IsPublished
	return CourseInput{
		Slug:         c.Slug,
		Title:        c.Title,
		Provider:     c.Provider,
		CategorySlug: c.CategorySlug,
		Level:        string(c.Level),
		Format:       string(c.Format),
		PriceFrom:    c.PriceFrom,
		Duration:     c.Duration,
		Tags:         c.Tags,
		ShortDesc:    c.ShortDesc,
		AffiliateURL: c.AffiliateURL,
		IsPublished:  &published,
	}
}

// Apply copies the input onto c. A nil IsPublished keeps the current value.
func (in CourseInput) Apply(c *Course) {
	c.Slug = in.Slug
	c.Title = in.Title
	c.Provider = in.Provider
	c.CategorySlug = in.CategorySlug
	c.Level = Level(in.Level)
	c.Format = Format(in.Format)
	c.PriceFrom = in.PriceFrom
	c.Duration = in.Duration
	c.Tags = in.Tags
	c.ShortDesc = in.ShortDesc
	c.AffiliateURL = in.AffiliateURL
	if in.IsPublished != nil {
		c.IsPublished = *in.IsPublished
	}
}
