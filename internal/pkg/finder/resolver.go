package finder

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/configured/adobe-launch-analyzer/internal/pkg/log"
)

// vendorAssetHost is the tag-management vendor's asset-hosting domain.
// Any script served from it counts as recognized.
const vendorAssetHost = "assets.adobedtm.com"

// recognizedScriptRe matches the vendor's bundle naming convention,
// which survives even when bundles are self-hosted off the vendor CDN.
var recognizedScriptRe = regexp.MustCompile(`^(?:launch|satelliteLib)-[A-Za-z0-9]+(?:-(?:development|staging))?(?:\.min)?\.js$`)

// InvalidURLError reports a malformed or unsupported input URL.
type InvalidURLError struct {
	Raw string
}

func (e *InvalidURLError) Error() string {
	return "invalid url: " + e.Raw
}

// Normalize parses raw and returns its canonical absolute form: scheme
// and host lowercased, fragment stripped, http/https only. Malformed
// input returns ok == false, never an error.
func Normalize(raw string) (normalized string, ok bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	if parsed.Host == "" {
		return "", false
	}

	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""

	return parsed.String(), true
}

// MakeAbsolute resolves ref against base and normalizes the result.
func MakeAbsolute(ref, base string) (absolute string, ok bool) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	refURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	return Normalize(baseURL.ResolveReference(refURL).String())
}

// IsScriptURL reports whether the URL path points at a script file.
func IsScriptURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.HasSuffix(parsed.Path, ".js")
}

// IsRecognizedScript reports whether the URL matches the vendor's
// asset-hosting convention for tag-management runtime bundles: either
// any script on the vendor asset host, or a bundle-named script on any
// host.
func IsRecognizedScript(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if strings.EqualFold(parsed.Hostname(), vendorAssetHost) {
		return strings.HasSuffix(parsed.Path, ".js")
	}
	return recognizedScriptRe.MatchString(path.Base(parsed.Path))
}

// ScriptReferences scans an HTML document for <script src=...>
// occurrences, resolves each against the page URL (honoring a <base>
// tag when present) and returns the ones that are recognized
// tag-management scripts, in document order.
func ScriptReferences(htmlText, pageURL string) []string {
	logger := log.NewFieldedLogger(&log.Fields{
		"component": "finder.resolver",
	})

	document, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		logger.Debug("unable to parse html document", "url", pageURL, "err", err.Error())
		return nil
	}

	base := pageURL
	if href, exists := document.Find("base").First().Attr("href"); exists {
		// href attributes are trimmed of ASCII whitespace only
		href = strings.Trim(href, "\t\n\f\r ")
		if resolved, ok := MakeAbsolute(href, pageURL); ok {
			base = resolved
		}
	}

	var references []string
	document.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		absolute, ok := MakeAbsolute(src, base)
		if !ok {
			return
		}
		if IsRecognizedScript(absolute) {
			references = append(references, absolute)
		}
	})

	return references
}
