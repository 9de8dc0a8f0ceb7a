package playlist

import "testing"

const scenarioM3U = `#EXTM3U
#EXTINF:-1 tvg-logo="http://x/a.png" group-title="News",Channel A
http://upstream/a.m3u8
#EXTINF:-1 group-title="Sports",Channel B
http://upstream/b.m3u8
`

func TestParseM3U_roundTrip(t *testing.T) {
	entries, skipped, err := Parse([]byte(scenarioM3U), HintAuto)
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d; want 0", skipped)
	}
	if len(entries) != 2 {
		t.Fatalf("parsed %d entries; want 2", len(entries))
	}
	a := entries[0]
	if a.Name != "Channel A" || a.Logo != "http://x/a.png" || a.Group != "News" || a.StreamURL != "http://upstream/a.m3u8" {
		t.Errorf("entry A = %+v", a)
	}
	b := entries[1]
	if b.Name != "Channel B" || b.Group != "Sports" || b.StreamURL != "http://upstream/b.m3u8" {
		t.Errorf("entry B = %+v", b)
	}
}

func TestParseM3U_extinfWithoutURLContributesNothing(t *testing.T) {
	m3u := `#EXTM3U
#EXTINF:-1,Broken Channel
#EXTINF:-1,Good Channel
http://upstream/good.ts
#EXTINF:-1,Trailing Broken
`
	entries, skipped, err := Parse([]byte(m3u), HintM3U)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "Good Channel" {
		t.Fatalf("entries = %+v", entries)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d; want 2 (no-URL before next EXTINF, no-URL at EOF)", skipped)
	}
}

func TestParseM3U_rejectsNonStreamSchemes(t *testing.T) {
	m3u := `#EXTINF:-1,Local File
file:///etc/passwd
#EXTINF:-1,Fine
rtsp://cam/1
`
	entries, skipped, err := Parse([]byte(m3u), HintM3U)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].StreamURL != "rtsp://cam/1" {
		t.Fatalf("entries = %+v", entries)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d; want 1", skipped)
	}
}

func TestParseM3U_bareURLFallbackEntry(t *testing.T) {
	m3u := `http://upstream/naked.m3u8
## provider banner comment

#EXTINF:-1 tvg-name="Named",
http://upstream/named.m3u8
`
	entries, _, err := Parse([]byte(m3u), HintM3U)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("parsed %d entries; want 2", len(entries))
	}
	if entries[0].Name != "Channel 1" || entries[0].Group != "Uncategorized" {
		t.Errorf("fallback entry = %+v", entries[0])
	}
	if entries[1].Name != "Named" {
		t.Errorf("tvg-name fallback: %+v", entries[1])
	}
}

func TestParseM3U_vlcoptBetweenExtinfAndURL(t *testing.T) {
	m3u := `#EXTINF:-1 tvg-id="one",One
#EXTVLCOPT:http-user-agent=VLC/3.0
http://upstream/one.ts
`
	entries, skipped, err := Parse([]byte(m3u), HintM3U)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].SourceID != "one" || entries[0].StreamURL != "http://upstream/one.ts" {
		t.Fatalf("entries = %+v, skipped = %d", entries, skipped)
	}
}

func TestParse_emptyAndGarbage(t *testing.T) {
	if _, _, err := Parse(nil, HintAuto); err != ErrEmptyPayload {
		t.Errorf("nil payload: err = %v; want ErrEmptyPayload", err)
	}
	if _, _, err := Parse([]byte("   \n \n"), HintAuto); err != ErrEmptyPayload {
		t.Errorf("blank payload: err = %v; want ErrEmptyPayload", err)
	}
	if _, _, err := Parse([]byte("just some text\nno urls here"), HintAuto); err != ErrNoValidEntries {
		t.Errorf("garbage text: err = %v; want ErrNoValidEntries", err)
	}
}
