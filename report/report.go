// Package report formats a completed audit result as a printable HTML
// document. It re-derives nothing: every number and string comes straight
// from the engine's output.
package report

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"github.com/pageaudit/backend/audit"
)

type reportData struct {
	Result        *audit.AuditResult
	ScreenshotURI template.URL
}

// Render writes the printable report for one audit result. screenshot is an
// optional PNG; pass nil to omit the page preview section.
func Render(w io.Writer, result *audit.AuditResult, screenshot []byte) error {
	data := reportData{Result: result}
	if len(screenshot) > 0 {
		data.ScreenshotURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(screenshot))
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Page Audit — {{.Result.URL}}</title>
<style>
body { font-family: Georgia, serif; margin: 2rem auto; max-width: 52rem; color: #1a1a1a; }
h1 { font-size: 1.6rem; border-bottom: 2px solid #1a1a1a; padding-bottom: .4rem; }
h2 { font-size: 1.2rem; margin-top: 2rem; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #bbb; padding: .35rem .6rem; text-align: left; }
.grade { font-size: 2.4rem; font-weight: bold; }
.priority-High { color: #a40000; font-weight: bold; }
.priority-Medium { color: #9a6700; }
.priority-Low { color: #555; }
ul.details { font-size: .85rem; color: #444; }
img.preview { max-width: 100%; border: 1px solid #bbb; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>Page Audit Report</h1>
<p>{{.Result.URL}}</p>

<p class="grade">{{.Result.ScoreBreakdown.Grade}} &mdash; {{.Result.ScoreBreakdown.Total}}/100</p>

<h2>Score Breakdown</h2>
<table>
<tr><th>Category</th><th>Points</th></tr>
<tr><td>On-Page SEO</td><td>{{.Result.ScoreBreakdown.OnPage}} / 45</td></tr>
<tr><td>Technical SEO</td><td>{{.Result.ScoreBreakdown.Technical}} / 30</td></tr>
<tr><td>Local SEO</td><td>{{.Result.ScoreBreakdown.Local}} / 15</td></tr>
<tr><td>Social</td><td>{{.Result.ScoreBreakdown.Social}} / 10</td></tr>
</table>

<h2>Recommendations</h2>
{{if .Result.Recommendations}}
<table>
<tr><th>Priority</th><th>Category</th><th>Action</th></tr>
{{range .Result.Recommendations}}
<tr><td class="priority-{{.Priority}}">{{.Priority}}</td><td>{{.Category}}</td><td>{{.Title}}</td></tr>
{{end}}
</table>
{{else}}
<p>No issues found.</p>
{{end}}

<h2>Page Facts</h2>
<table>
<tr><td>Title</td><td>{{.Result.PageFacts.Meta.Title}} ({{.Result.PageFacts.Meta.TitleLength}} chars)</td></tr>
<tr><td>Meta description length</td><td>{{.Result.PageFacts.Meta.DescriptionLength}}</td></tr>
<tr><td>H1 / H2 / H3</td><td>{{.Result.PageFacts.Headings.H1Count}} / {{.Result.PageFacts.Headings.H2Count}} / {{.Result.PageFacts.Headings.H3Count}}</td></tr>
<tr><td>Images with alt text</td><td>{{.Result.PageFacts.Images.WithAlt}} of {{.Result.PageFacts.Images.Total}}</td></tr>
<tr><td>Links (internal / external)</td><td>{{.Result.PageFacts.Links.Internal}} / {{.Result.PageFacts.Links.External}}</td></tr>
<tr><td>Word count</td><td>{{.Result.PageFacts.Content.WordCount}}</td></tr>
<tr><td>Schema types</td><td>{{range $i, $t := .Result.StructuredData.SchemaTypes}}{{if $i}}, {{end}}{{$t}}{{end}}</td></tr>
<tr><td>Phone</td><td>{{.Result.Contact.Phone}}</td></tr>
<tr><td>Address</td><td>{{.Result.Contact.Address}}</td></tr>
</table>

<h2>Rule Evaluation Log</h2>
<ul class="details">
{{range .Result.ScoreBreakdown.Details}}<li>{{.}}</li>
{{end}}
</ul>

{{if .ScreenshotURI}}
<h2>Page Preview</h2>
<img class="preview" src="{{.ScreenshotURI}}" alt="Rendered page screenshot">
{{end}}
</body>
</html>
`))
