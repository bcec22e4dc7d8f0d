package charts

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tierscope/tierscope/pkg/extract"
	"github.com/tierscope/tierscope/pkg/songindex"
)

func strPtr(s string) *string { return &s }

const songData = `var ALL_SONG_DATA=[
{"song_id":"abc","song_name":"A","romanized_name":"B","alternate_name":"C","ratings":[1,2,3,14,17]},
{"song_id":"plain","song_name":"Plain"},
{"song_id":"nulls","song_name":"Nulls","ratings":[null,null,null,null]}
];`

func TestReconcile(t *testing.T) {
	idx := songindex.Parse(songData)
	page := Page{
		Entries: []RawEntry{
			{SongID: "abc", Difficulty: 3, YouTubeID: strPtr("vid1")},
			{SongID: "plain", Difficulty: 4},
			{SongID: "unknown", Difficulty: 2, YouTubeID: strPtr("")},
			{SongID: "nulls", Difficulty: 3},
			{SongID: "nostat", Difficulty: 3},
			{SongID: "abc", Difficulty: 9},
		},
		Stats: map[string]Stat{
			"abc/3":     {Tier: 1.5, Rating: 13},
			"plain/4":   {Tier: -1, Rating: 18},
			"unknown/2": {Tier: 0.2, Rating: 11},
			"nulls/3":   {Tier: 3, Rating: 12},
			"abc/9":     {Tier: 1, Rating: 1},
		},
	}

	got := Reconcile(page, idx)
	want := []Chart{
		{ID: "abc", Title: "A (B/C)", Rating: 14, Tier: 1.5, Difficulty: ExpertSingle, YouTubeURL: "https://www.youtube.com/watch?v=vid1"},
		{ID: "plain", Title: "Plain", Rating: 18, Tier: -1, Difficulty: ChallengeSingle},
		{ID: "unknown", Title: "unknown", Rating: 11, Tier: 0.2, Difficulty: DifficultSingle},
		{ID: "nulls", Title: "Nulls", Rating: 12, Tier: 3, Difficulty: ExpertSingle},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Reconcile mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileRatingPrefersSongIndex(t *testing.T) {
	idx := songindex.Parse(`var ALL_SONG_DATA=[{"song_id":"s","song_name":"S","ratings":[0,0,0,0,0,0,0,0,16]}];`)
	page := Page{
		Entries: []RawEntry{{SongID: "s", Difficulty: 8}, {SongID: "s", Difficulty: 7}},
		Stats: map[string]Stat{
			"s/8": {Tier: 1, Rating: 15},
			"s/7": {Tier: 1, Rating: 13},
		},
	}
	got := Reconcile(page, idx)
	if len(got) != 2 {
		t.Fatalf("expected 2 charts, got %d", len(got))
	}
	if got[0].Rating != 16 {
		t.Fatalf("song index rating should win, got %v", got[0].Rating)
	}
	if got[1].Rating != 0 {
		t.Fatalf("defined zero rating should still win, got %v", got[1].Rating)
	}
}

const levelPage = `<html><head><script>
let rawMetadata = [
  {"song_id":"abc","difficulty":3,"youtube_id":"vid1","has_sm":1},
  {"song_id":"xyz","difficulty":8,"youtube_id":null,"has_sm":null}
];
let difficultyList = {"abc/3":{"tier":1.5,"rating":14},"xyz/8":{"tier":-1,"rating":14}};
</script></head><body></body></html>`

func TestExtractPage(t *testing.T) {
	p, err := ExtractPage(levelPage)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Entries) != 2 || len(p.Stats) != 2 {
		t.Fatalf("unexpected page: %+v", p)
	}
	if p.Entries[0].YouTubeID == nil || *p.Entries[0].YouTubeID != "vid1" {
		t.Fatalf("youtube id not decoded: %+v", p.Entries[0])
	}
	if p.Entries[1].YouTubeID != nil {
		t.Fatalf("null youtube id should decode as nil")
	}
	if p.Stats["xyz/8"].Tier != -1 {
		t.Fatalf("unexpected stat: %+v", p.Stats["xyz/8"])
	}
}

func TestExtractPageFailures(t *testing.T) {
	tests := []struct {
		name string
		html string
		want error
	}{
		{"no metadata", `<script>let difficultyList = {};</script>`, extract.ErrNotFound},
		{"no difficulty list", `<script>let rawMetadata = [];</script>`, extract.ErrNotFound},
		{"broken metadata", `<script>let rawMetadata = [{"song_id":];let difficultyList = {};</script>`, extract.ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractPage(tt.html)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
