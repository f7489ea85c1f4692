package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/job-connect/listings/internal/listing"
	"github.com/job-connect/listings/internal/search"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToHTML(t *testing.T) {
	out := MarkdownToHTML("Build **APIs** [docs](https://example.com)\n\n<script>alert(1)</script>")
	assert.Contains(t, out, "<strong>APIs</strong>")
	assert.Contains(t, out, `href="https://example.com"`)
	assert.NotContains(t, out, "<script>")
}

func TestFeed(t *testing.T) {
	svr := newServer()
	jobs := sampleJobs()
	intern := listing.Listing{
		Kind:         listing.KindInternship,
		ID:           "9d1e2f3a-4b5c-4d6e-8f70-8192a3b4c5d6",
		Title:        "Design Intern",
		Description:  "Figma",
		Company:      &listing.Company{ID: companyID, Name: "Pixel", LogoURL: "https://cdn.test/pixel.png"},
		Compensation: listing.Compensation{Type: listing.PayFixed, Amount: 10000, Rate: "per month"},
		Duration:     "3 months",
		CreatedAt:    time.Now(),
	}
	feed := Feed(svr.GetConfig(), append(jobs, intern), time.Now())

	require.Len(t, feed.Items, 3)
	assert.Equal(t, "Design Intern with Pixel", feed.Items[0].Title)
	assert.Equal(t, "https://jobconnect.test/internships/"+intern.ID, feed.Items[0].Link.Href)
	assert.Contains(t, feed.Items[0].Description, "<strong>Stipend:</strong> 10,000 per month")
	assert.Contains(t, feed.Items[0].Description, "3 months")
	require.NotNil(t, feed.Items[0].Enclosure)

	assert.Equal(t, "Backend Engineer with Acme Corp - Bangalore", feed.Items[1].Title)
	assert.Equal(t, "https://jobconnect.test/jobs/backend-engineer-7b0d6c4e", feed.Items[1].Link.Href)
	assert.Contains(t, feed.Items[1].Description, "<strong>Salary:</strong> 50,000 - 70,000 per month")
	assert.Nil(t, feed.Items[1].Enclosure)
}

func TestRSSHandler(t *testing.T) {
	src := &fakeSource{listings: map[listing.Kind][]listing.Listing{listing.KindJob: sampleJobs()}}
	svr := newServer()
	svr.RegisterRoute("/rss", RSSHandler(svr, search.NewFetcher(src)), []string{http.MethodGet})

	rec := serve(svr, http.MethodGet, "/rss", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, rec.Body.String(), "<rss")
	assert.Contains(t, rec.Body.String(), "Backend Engineer with Acme Corp - Bangalore")

	src.fetchErr = errors.New("down")
	rec = serve(svr, http.MethodGet, "/rss", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
