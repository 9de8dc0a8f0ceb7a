package proxy

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

var (
	dashBaseURLRe = regexp.MustCompile(`<BaseURL[^>]*>([^<]*)</BaseURL>`)
	mpdOpenTagRe  = regexp.MustCompile(`<MPD[^>]*>`)
	hlsURIAttrRe  = regexp.MustCompile(`URI="([^"]*)"`)
)

// rewriteDASHManifest points every <BaseURL> at the segment proxy prefix so
// relative segment references route back through this service. A relative
// base is kept under the prefix; an absolute one is replaced by it (the
// segment proxy always resolves against the channel's manifest base). When
// the manifest has no <BaseURL> at all, one is inserted after the <MPD> tag.
func rewriteDASHManifest(body []byte, prefix string) []byte {
	if dashBaseURLRe.Match(body) {
		return dashBaseURLRe.ReplaceAllFunc(body, func(m []byte) []byte {
			content := string(dashBaseURLRe.FindSubmatch(m)[1])
			return []byte("<BaseURL>" + rewriteRef(content, prefix) + "</BaseURL>")
		})
	}
	loc := mpdOpenTagRe.FindIndex(body)
	if loc == nil {
		return body
	}
	var out bytes.Buffer
	out.Grow(len(body) + len(prefix) + 32)
	out.Write(body[:loc[1]])
	out.WriteString("<BaseURL>" + prefix + "</BaseURL>")
	out.Write(body[loc[1]:])
	return out.Bytes()
}

// rewriteHLSManifest prefixes every relative URI (segment lines, variant
// playlist lines, URI="..." attributes on #EXT-X-KEY / #EXT-X-MAP /
// #EXT-X-MEDIA) with the segment proxy route. Absolute URIs are left for the
// client to fetch directly.
func rewriteHLSManifest(body []byte, prefix string) []byte {
	var out bytes.Buffer
	out.Grow(len(body) + 256)
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(nil, maxLineSize)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			out.WriteString(line)
		case strings.HasPrefix(trimmed, "#"):
			out.WriteString(hlsURIAttrRe.ReplaceAllStringFunc(line, func(m string) string {
				ref := hlsURIAttrRe.FindStringSubmatch(m)[1]
				return `URI="` + rewriteHLSRef(ref, prefix) + `"`
			}))
		default:
			out.WriteString(rewriteHLSRef(trimmed, prefix))
		}
		out.WriteByte('\n')
	}
	return out.Bytes()
}

const maxLineSize = 1 << 20

// rewriteRef maps one manifest reference onto the proxy prefix. Relative
// references keep their path under the prefix; absolute ones collapse to the
// prefix root (the segment proxy resolves against the channel's manifest
// base, which is what an absolute DASH BaseURL normally restates).
func rewriteRef(ref, prefix string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return prefix
	}
	if strings.Contains(ref, "://") {
		return prefix
	}
	return prefix + strings.TrimPrefix(ref, "/")
}

// rewriteHLSRef rewrites only relative references. An absolute segment URL
// names a concrete resource the prefix cannot stand in for, so the client
// fetches it directly.
func rewriteHLSRef(ref, prefix string) string {
	if strings.Contains(ref, "://") {
		return ref
	}
	return rewriteRef(ref, prefix)
}
