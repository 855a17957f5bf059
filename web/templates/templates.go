// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package templates holds the templ components for the web UI. The
// components are assembled directly against the templ runtime; every
// dynamic value goes through templ.EscapeString on the way out.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/mdhender/tabtxt/model"
	store "github.com/mdhender/tabtxt/stores/sqlite"
)

// LayoutData carries the values every page needs.
type LayoutData struct {
	Version     string
	UserHandle  string
	IsAdmin     bool
	CurrentPath string
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// Layout wraps a body component in the shared page chrome: header with
// nav links, footer with the version.
func Layout(title string, data LayoutData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; color: #222; }
header { background: #284b63; color: #fff; padding: 0.5rem 1rem; display: flex; gap: 1rem; align-items: baseline; }
header a { color: #cde; text-decoration: none; }
header a.active { color: #fff; font-weight: bold; }
main { padding: 1rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; text-align: left; }
th { background: #eef; }
footer { padding: 0.5rem 1rem; color: #888; font-size: 0.8rem; }
.error { color: #a00; }
</style>
</head>
<body>
`, esc(title)); err != nil {
			return err
		}
		if err := navBar(data).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<main>\n"); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `</main>
<footer>tabtxt %s</footer>
</body>
</html>
`, esc(data.Version))
		return err
	})
}

func navBar(data LayoutData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<header><strong>tabtxt</strong>`); err != nil {
			return err
		}
		if data.UserHandle != "" {
			links := []struct {
				href, label string
			}{
				{"/datasets", "Datasets"},
				{"/upload", "Upload"},
				{"/stats", "Stats"},
			}
			for _, link := range links {
				class := ""
				if link.href == data.CurrentPath {
					class = ` class="active"`
				}
				if _, err := fmt.Fprintf(w, `<a href="%s"%s>%s</a>`, esc(link.href), class, esc(link.label)); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, `<span style="margin-left:auto">%s · <a href="/logout">Log out</a></span>`, esc(data.UserHandle)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</header>\n")
		return err
	})
}

// LoginPage renders the login form, with an optional error message.
func LoginPage(errorMsg string, data LayoutData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if errorMsg != "" {
			if _, err := fmt.Fprintf(w, `<p class="error">%s</p>`+"\n", esc(errorMsg)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<h1>Log in</h1>
<form method="post" action="/login">
<p><label>Handle <input type="text" name="handle" autofocus></label></p>
<p><label>Password <input type="password" name="password"></label></p>
<p><button type="submit">Log in</button></p>
</form>
`)
		return err
	})
	return Layout("Log in", data, body)
}

// DatasetsPage lists all datasets with their dialect and counts.
func DatasetsPage(datasets []*model.Dataset, data LayoutData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>Datasets</h1>\n"); err != nil {
			return err
		}
		if len(datasets) == 0 {
			_, err := io.WriteString(w, "<p>No datasets yet. <a href=\"/upload\">Upload one.</a></p>\n")
			return err
		}
		if _, err := io.WriteString(w, "<table>\n<tr><th>Name</th><th>Delimiter</th><th>Rows</th><th>Columns</th><th>Uploaded</th></tr>\n"); err != nil {
			return err
		}
		for _, ds := range datasets {
			if _, err := fmt.Fprintf(w, `<tr><td><a href="/datasets/%d">%s</a></td><td><code>%s</code></td><td>%d</td><td>%d</td><td>%s</td></tr>`+"\n",
				ds.ID, esc(ds.Name), esc(ds.Delimiter), ds.RowCount, ds.ColCount,
				esc(ds.CreatedAt.Format("2006-01-02 15:04"))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table>\n")
		return err
	})
	return Layout("Datasets", data, body)
}

// DatasetPage shows one dataset: column metadata plus a page of rows.
func DatasetPage(ds *model.Dataset, columns []*model.Column, rows []*model.DataRow, limit, offset int, data LayoutData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<h1>%s</h1>\n<p>%d rows, %d columns</p>\n", esc(ds.Name), ds.RowCount, ds.ColCount); err != nil {
			return err
		}
		if err := DatasetRowsTable(columns, rows).Render(ctx, w); err != nil {
			return err
		}
		// prev/next paging
		if offset > 0 {
			prev := offset - limit
			if prev < 0 {
				prev = 0
			}
			if _, err := fmt.Fprintf(w, `<a href="/datasets/%d?limit=%d&amp;offset=%d">&laquo; prev</a> `, ds.ID, limit, prev); err != nil {
				return err
			}
		}
		if offset+len(rows) < ds.RowCount {
			if _, err := fmt.Fprintf(w, `<a href="/datasets/%d?limit=%d&amp;offset=%d">next &raquo;</a>`, ds.ID, limit, offset+limit); err != nil {
				return err
			}
		}
		return nil
	})
	return Layout(ds.Name, data, body)
}

// DatasetRowsTable renders just the rows table, with column names for
// headers. Ragged rows render as-is; missing cells are left empty.
func DatasetRowsTable(columns []*model.Column, rows []*model.DataRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<table>\n<tr><th>#</th>"); err != nil {
			return err
		}
		for _, col := range columns {
			name := col.Name
			if name == "" {
				name = fmt.Sprintf("(col %d)", col.Position+1)
			}
			if _, err := fmt.Fprintf(w, "<th>%s</th>", esc(name)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</tr>\n"); err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := fmt.Fprintf(w, "<tr><td>%d</td>", row.RowNo); err != nil {
				return err
			}
			for i := range columns {
				value := ""
				if i < len(row.Fields) {
					value = row.Fields[i]
				}
				if _, err := fmt.Fprintf(w, "<td>%s</td>", esc(value)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</tr>\n"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table>\n")
		return err
	})
}

// UploadPage renders the upload form.
func UploadPage(data LayoutData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Upload</h1>
<form method="post" action="/upload" enctype="multipart/form-data">
<p><input type="file" name="file" accept=".csv,.tsv,.txt"></p>
<p><label>Delimiter <input type="text" name="delimiter" size="1" maxlength="1" placeholder=","></label></p>
<p><label><input type="checkbox" name="no-header"> First row is data, not a header</label></p>
<p><button type="submit">Upload and parse</button></p>
</form>
`)
		return err
	})
	return Layout("Upload", data, body)
}

// StatsPage shows the store row counts.
func StatsPage(stats store.Stats, data LayoutData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1>Stats</h1>
<table>
<tr><th>Datasets</th><td>%d</td></tr>
<tr><th>Rows</th><td>%d</td></tr>
<tr><th>Columns</th><td>%d</td></tr>
<tr><th>Work jobs</th><td>%d</td></tr>
<tr><th>Users</th><td>%d</td></tr>
</table>
`, stats.Datasets, stats.Rows, stats.Columns, stats.Work, stats.Users)
		return err
	})
	return Layout("Stats", data, body)
}
