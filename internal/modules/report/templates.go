package report

import "html/template"

// chartPageTmpl renders one Plotly chart with plotly.js pulled from the CDN.
var chartPageTmpl = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="../style.css">
<script src="https://cdn.plot.ly/plotly-2.32.0.min.js"></script>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="chart"></div>
<script>
var data = {{.Data}};
var layout = {{.Layout}};
Plotly.newPlot("chart", data, layout);
</script>
</body>
</html>
`))

// newsPageTmpl renders the latest-news table.
var newsPageTmpl = template.Must(template.New("news").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Latest news</title>
<link rel="stylesheet" href="../style.css">
</head>
<body>
<h1>Latest news</h1>
{{if .Rows}}<table>
<tr><th>date</th><th>source</th><th>title</th><th>summary</th></tr>
{{range .Rows}}<tr>
<td>{{.Date}}</td>
<td>{{.Source}}</td>
<td>{{if .URL}}<a href="{{.URL}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</td>
<td>{{.Text}}</td>
</tr>
{{end}}</table>
{{else}}<p>No news available.</p>
{{end}}</body>
</html>
`))

// insightsPageTmpl renders the weekly/monthly activity summary.
var insightsPageTmpl = template.Must(template.New("insights").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Insights</title>
<link rel="stylesheet" href="../style.css">
</head>
<body>
<h1>Insights</h1>
<div class="card"><h2>Week</h2>
<p>News: {{.WeekNews}}</p>
<p>Top move: {{.WeekTopTicker}} {{printf "%+.2f%%" .WeekTopPct}}</p></div>
<div class="card"><h2>Month</h2>
<p>News: {{.MonthNews}}</p>
<p>Top move: {{.MonthTopTicker}} {{printf "%+.2f%%" .MonthTopPct}}</p></div>
</body>
</html>
`))

// indexPageTmpl renders the site landing page.
var indexPageTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Tidemark</title>
<link rel="stylesheet" href="style.css">
</head>
<body>
<h1>Tidemark</h1>
<h2>Prices</h2>
<ul>{{range .PriceCharts}}<li><a href="assets/{{.File}}">{{.Label}}</a></li>{{end}}</ul>
<h2>Indices</h2>
<ul>{{range .IndexCharts}}<li><a href="assets/{{.File}}">{{.Label}}</a></li>{{end}}</ul>
<h2>News</h2><p><a href="assets/news.html">Latest news</a></p>
<h2>Insights</h2><p><a href="assets/insights.html">Insights</a></p>
</body>
</html>
`))

// styleCSS is the single stylesheet the generated pages share.
const styleCSS = `body{font-family:Arial, sans-serif;margin:2rem;}
ul{list-style:none;padding:0;}
li{margin:0.5rem 0;}
a{text-decoration:none;color:#0366d6;}
.card{border:1px solid #ddd;padding:1rem;margin:1rem 0;border-radius:4px;}
table{border-collapse:collapse;width:100%;}
th,td{border:1px solid #ddd;padding:4px;}
#chart{width:100%;height:70vh;}
`
