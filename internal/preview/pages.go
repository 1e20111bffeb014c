package preview

import (
	"bytes"
	"fmt"
	"html"

	"git.home.luguber.info/inful/themesync/internal/surface"
)

// BuildShell constructs the outer page document. Its body carries the
// mode class; the frame element is where the content page is embedded.
func BuildShell(title string) (*surface.HTMLDocument, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<header><h1>%s</h1><button id="mode-toggle">Toggle mode</button></header>
<iframe id="content-frame" src="/frame"></iframe>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title))

	return surface.ParseHTMLDocument(&buf)
}

// BuildFrame constructs the embedded content document around a rendered
// HTML fragment. The #preview element is the default attribute-toggle
// target.
func BuildFrame(contentHTML []byte) (*surface.HTMLDocument, error) {
	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html>
<html>
<head><title>Preview</title></head>
<body>
<main id="preview">
`)
	buf.Write(contentHTML)
	buf.WriteString(`</main>
</body>
</html>`)

	return surface.ParseHTMLDocument(&buf)
}
