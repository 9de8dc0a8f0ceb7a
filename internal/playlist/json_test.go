package playlist

import "testing"

func TestParseJSON_topLevelArray(t *testing.T) {
	payload := `[
		{"name": "Star One", "url": "http://up/one.mpd", "logo": "http://up/one.png",
		 "category": "Entertainment", "drmScheme": "widevine", "drmLicense": "http://lic/one", "cookie": "sid=abc"},
		{"name": "Two", "link": "http://up/two.m3u8"}
	]`
	entries, skipped, err := Parse([]byte(payload), HintAuto)
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 0 || len(entries) != 2 {
		t.Fatalf("entries = %d skipped = %d", len(entries), skipped)
	}
	one := entries[0]
	if one.Name != "Star One" || one.StreamURL != "http://up/one.mpd" ||
		one.DrmScheme != "widevine" || one.DrmLicense != "http://lic/one" || one.Cookie != "sid=abc" {
		t.Errorf("entry one = %+v", one)
	}
	if one.Format != FormatJSON {
		t.Error("format should be FormatJSON")
	}
}

func TestParseJSON_channelsObjectAndLinkWins(t *testing.T) {
	payload := `{"channels": [{"id": "x1", "name": "X", "link": "http://up/link.m3u8", "url": "http://up/url.m3u8"}]}`
	entries, _, err := Parse([]byte(payload), HintAuto)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].SourceID != "x1" || entries[0].StreamURL != "http://up/link.m3u8" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestParseJSON_perEntrySkipNotFatal(t *testing.T) {
	payload := `[
		{"name": "No URL"},
		{"link": "http://up/no-name.m3u8"},
		{"name": 42, "link": "http://up/bad-type"},
		{"name": "Good", "link": "http://up/good.m3u8"}
	]`
	entries, skipped, err := Parse([]byte(payload), HintJSON)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "Good" {
		t.Fatalf("entries = %+v", entries)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d; want 3", skipped)
	}
}

func TestParseJSON_allSkippedIsFailure(t *testing.T) {
	if _, _, err := Parse([]byte(`[{"name": "No URL"}]`), HintJSON); err != ErrNoValidEntries {
		t.Errorf("err = %v; want ErrNoValidEntries", err)
	}
}

func TestParseJSON_unrecognizedShape(t *testing.T) {
	if _, _, err := Parse([]byte(`{"not_channels": []}`), HintJSON); err != ErrUnrecognizedFormat {
		t.Errorf("err = %v; want ErrUnrecognizedFormat", err)
	}
}

func TestDetect_objectWithoutChannelsFallsToM3U(t *testing.T) {
	// Auto-detection treats a JSON object without "channels" as text; the M3U
	// parser then (correctly) finds nothing.
	if _, _, err := Parse([]byte(`{"foo": "bar"}`), HintAuto); err != ErrNoValidEntries {
		t.Errorf("err = %v; want ErrNoValidEntries", err)
	}
}
