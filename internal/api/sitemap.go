package api

import (
	"encoding/xml"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/david/market-finder/internal/ingest"
	"github.com/david/market-finder/internal/models"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

var staticRoutes = []string{"", "/markets", "/map", "/about", "/terms"}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

// buildSitemap lists the static pages followed by one page per market.
// Markets without a parseable last_updated use now.
func buildSitemap(baseURL string, markets []models.Market, now time.Time) urlSet {
	stamp := now.UTC().Format(time.RFC3339)
	set := urlSet{XMLNS: sitemapNS, URLs: make([]sitemapURL, 0, len(staticRoutes)+len(markets))}

	for _, route := range staticRoutes {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        baseURL + route,
			LastMod:    stamp,
			ChangeFreq: "daily",
			Priority:   1.0,
		})
	}
	for _, m := range markets {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        baseURL + "/markets/" + url.PathEscape(m.ID),
			LastMod:    lastModified(m.LastUpdated, stamp),
			ChangeFreq: "weekly",
			Priority:   0.8,
		})
	}
	return set
}

func lastModified(raw, fallback string) string {
	if t, err := ingest.ParseLastUpdated(raw); err == nil {
		return t.Format(time.RFC3339)
	}
	return fallback
}

func (s *Server) handleSitemap(c echo.Context) error {
	markets, err := s.Store.Markets(c.Request().Context())
	if err != nil {
		s.Logger.Error("failed to build sitemap", zap.Error(err), s.requestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch markets"})
	}

	return c.XMLPretty(http.StatusOK, buildSitemap(s.cfg.SiteBaseURL, markets, time.Now()), "  ")
}
