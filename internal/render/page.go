package render

import (
	"fmt"
	"html"
	"strings"
)

// pageTemplate wraps a fragment in a complete HTML5 document.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// DefaultTitle is used when Page gets an empty title.
const DefaultTitle = "Document"

// Page wraps fragment in an HTML5 document and injects css as a style
// block.
func Page(fragment, title, css string) string {
	if title == "" {
		title = DefaultTitle
	}
	return InjectCSS(fmt.Sprintf(pageTemplate, html.EscapeString(title), fragment), css)
}

// InjectCSS inserts a <style> block into htmlContent.
// Tries </head> first, then <body>, then prepends to the HTML.
func InjectCSS(htmlContent, css string) string {
	if css == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(css) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes </ so the stylesheet cannot close its style block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
