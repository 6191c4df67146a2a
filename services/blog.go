package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/utils"
)

// SaveBlogPost derives a free slug (from titleRu when empty), fills defaults and
// stamps publishedAt on first publish, then creates or updates p.
func SaveBlogPost(db *gorm.DB, p *models.BlogPost, now time.Time) error {
	base := utils.Slugify(p.Slug)
	if p.Slug == "" {
		base = utils.Slugify(p.TitleRu)
	}
	slug, err := utils.UniqueSlug(db, models.BlogPost{}.TableName(), "slug", base, p.ID)
	if err != nil {
		return err
	}
	p.Slug = slug

	p.ApplyDefaults()
	p.MarkPublished(now)

	if p.ID == 0 {
		return db.Create(p).Error
	}
	return db.Omit("CreatedAt").Save(p).Error
}
