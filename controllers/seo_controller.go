package controllers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/visa-rent-server/config"
	"github.com/vnkhanh/visa-rent-server/models"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type staticPage struct {
	path       string
	changeFreq string
	priority   string
}

var staticPages = []staticPage{
	{"/", "daily", "1.0"},
	{"/visa", "weekly", "0.9"},
	{"/rent", "daily", "0.9"},
	{"/blog", "daily", "0.8"},
	{"/faq", "monthly", "0.6"},
	{"/contacts", "monthly", "0.5"},
}

// robotsDisallow are kept out of crawlers.
var robotsDisallow = []string{"/admin", "/api", "/login"}

func siteURL() string {
	return strings.TrimRight(config.Get().SiteURL, "/")
}

// buildSitemap lists the static pages, published posts and visible apartments.
func buildSitemap(base string, now time.Time, posts []models.BlogPost, apartments []models.Apartment) urlSet {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	today := now.Format("2006-01-02")
	for _, p := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + p.path,
			LastMod:    today,
			ChangeFreq: p.changeFreq,
			Priority:   p.priority,
		})
	}
	for _, p := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + "/blog/" + p.Slug,
			LastMod:    p.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}
	for _, a := range apartments {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        fmt.Sprintf("%s/rent/%d", base, a.ID),
			LastMod:    a.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	return set
}

func Sitemap(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}

	var posts []models.BlogPost
	if err := db.Select("id", "slug", "updated_at").
		Where("published = ?", true).
		Order("published_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		respondError(c, err)
		return
	}
	var apartments []models.Apartment
	if err := db.Select("id", "updated_at").
		Where("is_available = ? AND can_be_shown = ?", true, true).
		Order("id ASC").
		Find(&apartments).Error; err != nil {
		respondError(c, err)
		return
	}

	out, err := xml.MarshalIndent(buildSitemap(siteURL(), current().Now(), posts, apartments), "", "  ")
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

func Robots(c *gin.Context) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	for _, p := range robotsDisallow {
		b.WriteString("Disallow: " + p + "\n")
	}
	b.WriteString("\nSitemap: " + siteURL() + "/sitemap.xml\n")
	c.String(http.StatusOK, b.String())
}
