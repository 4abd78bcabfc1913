package upstream

import (
	"context"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kanopolanes/lakehub-backend/internal/models"
)

const (
	// FishingReportURL is the KDWP page the report is scraped from.
	FishingReportURL = "https://ksoutdoors.gov/Fishing/Where-to-Fish-in-Kansas/Fishing-Locations-Public-Waters/Fishing-in-Northwest-Kansas/Kanopolis-Reservoir/Kanopolis-Reservoir-Fishing-Report"

	// FishingSource names the agency publishing the report.
	FishingSource = "Kansas Department of Wildlife & Parks"

	fishingUserAgent = "Kanopolanes Weather Dashboard"
)

var (
	updatedDateRe = regexp.MustCompile(`(?i)Updated[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)
	tableRe       = regexp.MustCompile(`(?is)<table[^>]*>(.*?)</table>`)
	tableRowRe    = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	tableCellRe   = regexp.MustCompile(`(?is)<(?:td|th)[^>]*>(.*?)</(?:td|th)>`)
	paragraphRe   = regexp.MustCompile(`(?is)<p[^>]*>.*?</p>`)
	lineBreakRe   = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe  = regexp.MustCompile(`[\s\x{00a0}]+`)
)

// reportKeywords marks paragraphs outside the species table that belong
// to the report body rather than page chrome.
var reportKeywords = []string{"fishing", "bait", "catfish", "bass", "crappie", "walleye"}

// FishingClient scrapes the KDWP fishing report page. The page has no API,
// so the species table and report paragraphs are pulled out of the HTML.
type FishingClient struct {
	reportURL  string
	httpClient *http.Client
}

func NewFishingClient() *FishingClient {
	return &FishingClient{
		reportURL:  FishingReportURL,
		httpClient: newHTTPClient(),
	}
}

// Report fetches and parses the current fishing report.
func (c *FishingClient) Report(ctx context.Context) (*models.FishingReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.reportURL, nil)
	if err != nil {
		return nil, &Error{Source: "kdwp", URL: c.reportURL, Err: err}
	}
	req.Header.Set("User-Agent", fishingUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Source: "kdwp", URL: c.reportURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Source: "kdwp", StatusCode: resp.StatusCode, URL: c.reportURL}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Source: "kdwp", URL: c.reportURL, Err: err}
	}

	report := parseFishingReport(string(body))
	report.Source = FishingSource
	report.URL = c.reportURL
	report.FetchedAt = time.Now().UTC().Format(time.RFC3339)
	return report, nil
}

func parseFishingReport(page string) *models.FishingReport {
	report := &models.FishingReport{Species: []models.FishingSpecies{}}

	if m := updatedDateRe.FindStringSubmatch(page); m != nil {
		report.UpdatedDate = &m[1]
	}

	if table := tableRe.FindStringSubmatch(page); table != nil {
		rows := tableRowRe.FindAllStringSubmatch(table[1], -1)
		for i, row := range rows {
			if i == 0 {
				continue // header row
			}
			cells := tableCellRe.FindAllStringSubmatch(row[1], -1)
			if len(cells) < 4 {
				continue
			}
			report.Species = append(report.Species, models.FishingSpecies{
				Name:    stripHTML(cells[0][1]),
				Rating:  stripHTML(cells[1][1]),
				Size:    stripHTML(cells[2][1]),
				Details: stripHTML(cells[3][1]),
			})
		}
	}

	var paragraphs []string
	for _, p := range paragraphRe.FindAllString(page, -1) {
		text := stripHTML(p)
		if len(text) <= 40 {
			continue
		}
		lower := strings.ToLower(text)
		for _, kw := range reportKeywords {
			if strings.Contains(lower, kw) {
				paragraphs = append(paragraphs, text)
				break
			}
		}
	}
	if len(paragraphs) > 0 {
		text := strings.Join(paragraphs, "\n\n")
		report.Report = &text
	}
	return report
}

// stripHTML flattens a markup fragment to plain text: breaks become
// spaces, tags drop, entities unescape, whitespace collapses.
func stripHTML(fragment string) string {
	s := lineBreakRe.ReplaceAllString(fragment, " ")
	s = tagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
