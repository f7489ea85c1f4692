package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/job-connect/listings/internal/config"
	"github.com/job-connect/listings/internal/listing"
	"github.com/job-connect/listings/internal/search"
	"github.com/job-connect/listings/internal/server"
	"github.com/microcosm-cc/bluemonday"
	blackfriday "gopkg.in/russross/blackfriday.v2"
)

var feedPolicy = bluemonday.UGCPolicy()

// MarkdownToHTML renders a listing description for the feed.
func MarkdownToHTML(s string) string {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.Safelink |
			blackfriday.NofollowLinks |
			blackfriday.NoreferrerLinks |
			blackfriday.HrefTargetBlank,
	})
	return feedPolicy.Sanitize(string(blackfriday.Run([]byte(s), blackfriday.WithRenderer(renderer))))
}

// RSSHandler serves the newest jobs and internships as one feed. A kind
// that cannot be fetched is left out of the feed.
func RSSHandler(svr server.Server, fetcher *search.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := svr.GetConfig()
		var newest []listing.Listing
		failed := 0
		for _, kind := range []listing.Kind{listing.KindJob, listing.KindInternship} {
			items, err := fetcher.Fetch(r.Context(), kind)
			if err != nil {
				svr.Log(err, fmt.Sprintf("unable to retrieve %s for RSS Feed", kind.Plural()))
				failed++
				continue
			}
			if len(items) > cfg.FeedSize {
				items = items[:cfg.FeedSize]
			}
			newest = append(newest, items...)
		}
		if failed == 2 {
			svr.XML(w, http.StatusInternalServerError, []byte{})
			return
		}
		rss, err := Feed(cfg, newest, time.Now()).ToRss()
		if err != nil {
			svr.Log(err, "unable to convert rss feed to xml")
			svr.XML(w, http.StatusInternalServerError, []byte{})
			return
		}
		svr.XML(w, http.StatusOK, []byte(rss))
	}
}

// Feed builds the feed of listings, newest first.
func Feed(cfg config.Config, listings []listing.Listing, now time.Time) *feeds.Feed {
	site := fmt.Sprintf("%s://%s", cfg.URLProtocol, cfg.SiteHost)
	feed := &feeds.Feed{
		Title:       cfg.SiteName + " Jobs & Internships",
		Link:        &feeds.Link{Href: site},
		Description: cfg.SiteName + " Jobs & Internships",
		Author:      &feeds.Author{Name: cfg.SiteName},
		Created:     now,
	}
	sorted := make([]listing.Listing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	for _, l := range sorted {
		title := l.Title
		if name := l.CompanyName(); name != "" {
			title = fmt.Sprintf("%s with %s", title, name)
		}
		if city := l.City(); city != "" {
			title = fmt.Sprintf("%s - %s", title, city)
		}
		body := l.Description
		if pay := l.Compensation.String(); pay != "" {
			label := "Salary"
			if l.Kind == listing.KindInternship {
				label = "Stipend"
			}
			body = fmt.Sprintf("%s\n\n**%s:** %s", body, label, pay)
		}
		if l.Duration != "" {
			body = fmt.Sprintf("%s\n\n**Duration:** %s", body, l.Duration)
		}
		item := &feeds.Item{
			Id:          l.ID,
			Title:       title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/%s/%s", site, l.Kind.Plural(), itemPath(l))},
			Description: MarkdownToHTML(strings.TrimSpace(body)),
			Author:      &feeds.Author{Name: cfg.SiteName},
			Created:     l.CreatedAt,
		}
		if l.Company != nil && l.Company.LogoURL != "" {
			item.Enclosure = &feeds.Enclosure{Url: l.Company.LogoURL, Type: "image", Length: "0"}
		}
		feed.Items = append(feed.Items, item)
	}
	return feed
}

func itemPath(l listing.Listing) string {
	if l.Slug != "" {
		return l.Slug
	}
	return l.ID
}
