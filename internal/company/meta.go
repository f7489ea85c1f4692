package company

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// FetchMeta reads the description, logo and social links a company website
// publishes in its head and anchors.
func FetchMeta(ctx context.Context, client *http.Client, website string) (Meta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, website, nil)
	if err != nil {
		return Meta{}, errors.Wrapf(err, "invalid website %q", website)
	}
	res, err := client.Do(req)
	if err != nil {
		return Meta{}, errors.Wrapf(err, "GET %s", website)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return Meta{}, fmt.Errorf("GET %s: status code error: %d %s", website, res.StatusCode, res.Status)
	}
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return Meta{}, errors.Wrapf(err, "unable to parse %s", website)
	}
	return ParseMeta(doc, res.Request.URL), nil
}

// ParseMeta extracts Meta from a parsed page. base resolves relative logo
// URLs.
func ParseMeta(doc *goquery.Document, base *url.URL) Meta {
	m := Meta{Description: strings.TrimSpace(doc.Find("title").First().Text())}
	doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		if name == "" {
			name, _ = s.Attr("property")
		}
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		switch strings.ToLower(name) {
		case "description":
			m.Description = content
		case "og:image":
			m.LogoURL = resolve(base, content)
		case "twitter:site":
			m.Twitter = "https://twitter.com/" + strings.Trim(content, "@")
		}
	})
	doc.Find("a").Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if m.Linkedin == "" && strings.Contains(href, "linkedin.com/") {
			m.Linkedin = href
		}
		if m.Twitter == "" && strings.Contains(href, "twitter.com/") {
			m.Twitter = href
		}
	})
	return m
}

func resolve(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil || base == nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
