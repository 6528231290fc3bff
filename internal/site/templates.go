package site

// pageTemplate wraps converted Markdown. Timestamps inside Content are
// rendered after the template runs, like any other page.
const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="{{.BasePath}}stamp.css">
</head>
<body>
  <nav class="sidebar">
    {{.TreeHTML}}
  </nav>
  <main class="content">
    <article class="page-content">
      {{.Content}}
    </article>
  </main>
</body>
</html>
`

// cssContent is the stylesheet shared by generated pages.
const cssContent = `:root {
  --bg: #ffffff;
  --fg: #1f2328;
  --muted: #656d76;
  --border: #d0d7de;
  --accent: #0969da;
  --code-bg: #f6f8fa;
}

@media (prefers-color-scheme: dark) {
  :root {
    --bg: #0d1117;
    --fg: #e6edf3;
    --muted: #8d96a0;
    --border: #30363d;
    --accent: #4493f8;
    --code-bg: #161b22;
  }
}

* { box-sizing: border-box; }

body {
  margin: 0;
  display: flex;
  min-height: 100vh;
  background: var(--bg);
  color: var(--fg);
  font: 16px/1.6 -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif;
}

.sidebar {
  width: 260px;
  flex-shrink: 0;
  padding: 1.5rem 1rem;
  border-right: 1px solid var(--border);
  font-size: 14px;
}

.sidebar ul { list-style: none; margin: 0; padding-left: 1rem; }
.sidebar > ul { padding-left: 0; }
.sidebar li.dir > span { color: var(--muted); font-weight: 600; }
.sidebar li.dir > ul { display: none; }
.sidebar li.dir.open > ul { display: block; }
.sidebar a { color: var(--fg); text-decoration: none; }
.sidebar a:hover, .sidebar a.active { color: var(--accent); }

.content { flex: 1; min-width: 0; padding: 2rem 3rem; }
.page-content { max-width: 860px; }
.page-content a { color: var(--accent); }

pre, code { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; font-size: 14px; }
pre { padding: 1rem; overflow-x: auto; background: var(--code-bg); border-radius: 6px; }

table { border-collapse: collapse; }
th, td { padding: 6px 13px; border: 1px solid var(--border); }

.datetime { white-space: nowrap; font-variant-numeric: tabular-nums; }

@media (max-width: 768px) {
  body { display: block; }
  .sidebar { width: auto; border-right: none; border-bottom: 1px solid var(--border); }
  .content { padding: 1.5rem; }
}
`
