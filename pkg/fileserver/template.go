package fileserver

import "html/template"

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Index of {{.Path}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { padding: 0.25em 1em; text-align: left; }
td.size { text-align: right; }
</style>
</head>
<body>
<h1>Index of {{.Path}}</h1>
<table>
<tr><th>Name</th><th>Size</th><th>Modified</th></tr>
{{- if .Parent}}
<tr><td><a href="{{.Parent}}">../</a></td><td></td><td></td></tr>
{{- end}}
{{- range .Entries}}
<tr><td><a href="{{.EntryPath}}">{{.DisplayName}}</a></td><td class="size">{{.Size}}</td><td>{{.UpdatedAt.UTC.Format "2006-01-02 15:04:05"}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))
