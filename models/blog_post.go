package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// WordsPerMinute drives the read-time estimate.
const WordsPerMinute = 200

type BlogPost struct {
	ID          uint                        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Slug        string                      `gorm:"column:slug;size:200;uniqueIndex;not null" json:"slug"`
	TitleRu     string                      `gorm:"column:title_ru;size:255;not null" json:"titleRu"`
	TitleEn     string                      `gorm:"column:title_en;size:255" json:"titleEn"`
	TitleVi     string                      `gorm:"column:title_vi;size:255" json:"titleVi"`
	ExcerptRu   string                      `gorm:"column:excerpt_ru;type:text" json:"excerptRu"`
	ExcerptEn   string                      `gorm:"column:excerpt_en;type:text" json:"excerptEn"`
	ExcerptVi   string                      `gorm:"column:excerpt_vi;type:text" json:"excerptVi"`
	ContentRu   string                      `gorm:"column:content_ru;type:text" json:"contentRu"`
	ContentEn   string                      `gorm:"column:content_en;type:text" json:"contentEn"`
	ContentVi   string                      `gorm:"column:content_vi;type:text" json:"contentVi"`
	CoverImage  string                      `gorm:"column:cover_image;type:text" json:"coverImage"`
	Category    string                      `gorm:"column:category;size:50;index" json:"category"`
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	ReadTime    int                         `gorm:"column:read_time;not null;default:1" json:"readTime"`
	Published   bool                        `gorm:"column:published;not null;default:false;index" json:"published"`
	PublishedAt *time.Time                  `gorm:"column:published_at" json:"publishedAt"`
	CreatedAt   time.Time                   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

func (p *BlogPost) ApplyDefaults() {
	p.TitleEn = Fallback(p.TitleEn, p.TitleRu)
	p.TitleVi = Fallback(p.TitleVi, p.TitleRu)
	p.ExcerptEn = Fallback(p.ExcerptEn, p.ExcerptRu)
	p.ExcerptVi = Fallback(p.ExcerptVi, p.ExcerptRu)
	p.ContentEn = Fallback(p.ContentEn, p.ContentRu)
	p.ContentVi = Fallback(p.ContentVi, p.ContentRu)
	if p.ReadTime <= 0 {
		p.ReadTime = EstimateReadTime(p.ContentRu)
	}
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
}

// MarkPublished stamps PublishedAt the first time the post goes live.
// Returns true when the timestamp was set by this call.
func (p *BlogPost) MarkPublished(now time.Time) bool {
	if !p.Published || p.PublishedAt != nil {
		return false
	}
	t := now
	p.PublishedAt = &t
	return true
}

// EstimateReadTime returns whole minutes at WordsPerMinute, at least 1.
func EstimateReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
