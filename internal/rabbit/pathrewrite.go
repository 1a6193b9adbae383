package rabbit

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rewriteRelativePaths turns relative img[src] values in a slide fragment
// into file:// URLs under baseDir, so the rasterizer can load them from a
// temporary page. Paths escaping baseDir are left untouched.
func rewriteRelativePaths(fragment, baseDir string) (string, error) {
	if baseDir == "" {
		return fragment, nil
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		rewriteImages(n, absBase)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteImages(n *html.Node, baseDir string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" || !isRelativePath(attr.Val) {
				continue
			}
			abs := filepath.Join(baseDir, attr.Val)
			if !isPathUnderDir(abs, baseDir) {
				continue
			}
			n.Attr[i].Val = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteImages(c, baseDir)
	}
}

func isRelativePath(p string) bool {
	if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "//") {
		return false
	}
	for _, scheme := range []string{"http://", "https://", "file://", "data:"} {
		if strings.HasPrefix(p, scheme) {
			return false
		}
	}
	return !filepath.IsAbs(p)
}

func isPathUnderDir(p, dir string) bool {
	cleanDir := filepath.Clean(dir) + string(filepath.Separator)
	return strings.HasPrefix(filepath.Clean(p)+string(filepath.Separator), cleanDir)
}
