package playlist

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/tvgateway/tv-gateway/internal/safeurl"
)

const maxLineSize = 1 << 20 // 1 MiB per line

// parseM3U runs a two-state line machine over M3U/M3U8 text: an #EXTINF line
// arms a pending entry, the next non-comment line must be its stream URL.
// Malformed input drops the affected entry and parsing continues.
func parseM3U(raw []byte) (entries []RawEntry, skipped int) {
	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(nil, maxLineSize)

	var pending RawEntry
	awaitingURL := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "##") {
			continue
		}
		if strings.HasPrefix(line, "#EXTINF:") {
			if awaitingURL {
				// Previous #EXTINF never got a URL line.
				skipped++
			}
			pending = entryFromEXTINF(line, len(entries))
			awaitingURL = true
			continue
		}
		if strings.HasPrefix(line, "#") {
			// Other directives (#EXTM3U, #EXTVLCOPT, ...) are skipped in
			// either state without disturbing a pending entry.
			continue
		}
		if awaitingURL {
			if safeurl.HasStreamPrefix(line) {
				pending.StreamURL = line
				entries = append(entries, pending)
			} else {
				skipped++
			}
			pending = RawEntry{}
			awaitingURL = false
			continue
		}
		// Bare URL with no preceding #EXTINF: minimal fallback entry.
		if safeurl.HasStreamPrefix(line) {
			entries = append(entries, RawEntry{
				Name:      "Channel " + strconv.Itoa(len(entries)+1),
				Group:     "Uncategorized",
				StreamURL: line,
				Format:    FormatM3U,
			})
		}
	}
	if awaitingURL {
		skipped++ // #EXTINF at EOF with no URL
	}
	return entries, skipped
}

// entryFromEXTINF extracts the tvg-* / group-title attributes and the display
// name after the last comma. n is the count of entries parsed so far, used
// for the generated placeholder name.
func entryFromEXTINF(line string, n int) RawEntry {
	e := RawEntry{
		SourceID: extinfAttr(line, `tvg-id="`),
		Logo:     extinfAttr(line, `tvg-logo="`),
		Group:    extinfAttr(line, `group-title="`),
		Format:   FormatM3U,
	}
	if i := strings.LastIndex(line, ","); i >= 0 {
		e.Name = strings.TrimSpace(line[i+1:])
	}
	if e.Name == "" {
		e.Name = extinfAttr(line, `tvg-name="`)
	}
	if e.Name == "" {
		e.Name = "Channel " + strconv.Itoa(n+1)
	}
	return e
}

// extinfAttr returns the quoted attribute value following prefix, or "".
func extinfAttr(line, prefix string) string {
	i := strings.Index(line, prefix)
	if i < 0 {
		return ""
	}
	i += len(prefix)
	j := strings.Index(line[i:], `"`)
	if j < 0 {
		return ""
	}
	return line[i : i+j]
}
