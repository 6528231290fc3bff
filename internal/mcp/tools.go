package mcp

import "github.com/mark3labs/mcp-go/mcp"

// formatTimestampTool defines the format_timestamp MCP tool.
var formatTimestampTool = mcp.NewTool("format_timestamp",
	mcp.WithDescription("Format Unix epoch seconds as a localized short date and long time, e.g. \"11/14/23, 10:13:20 PM UTC\"."),
	mcp.WithString("ts",
		mcp.Required(),
		mcp.Description("Seconds since 1970-01-01T00:00:00Z; decimals and exponents are accepted"),
	),
	mcp.WithString("locale",
		mcp.Description("BCP 47 locale such as de or pt-BR (default: the configured locale)"),
	),
	mcp.WithString("timezone",
		mcp.Description("IANA time zone such as Europe/Berlin (default: the configured zone)"),
	),
)

// renderHTMLTool defines the render_html MCP tool.
var renderHTMLTool = mcp.NewTool("render_html",
	mcp.WithDescription("Replace the epoch seconds inside every element carrying the datetime class with localized text and return the HTML."),
	mcp.WithString("html",
		mcp.Required(),
		mcp.Description("An HTML document or fragment"),
	),
	mcp.WithString("locale",
		mcp.Description("BCP 47 locale (default: the configured locale)"),
	),
	mcp.WithString("timezone",
		mcp.Description("IANA time zone (default: the configured zone)"),
	),
)

// listLocalesTool defines the list_locales MCP tool.
var listLocalesTool = mcp.NewTool("list_locales",
	mcp.WithDescription("List the locales timestamps can be formatted in."),
)
