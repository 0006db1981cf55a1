package quran

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const surahFixture = `{
	"code": 200,
	"status": "OK",
	"data": {
		"number": 112,
		"name": "سورة الإخلاص",
		"englishName": "Al-Ikhlas",
		"numberOfAyahs": 4,
		"ayahs": [
			{"numberInSurah": 1, "text": "قل هو الله أحد"},
			{"numberInSurah": 2, "text": "الله الصمد"},
			{"numberInSurah": 3, "text": "لم يلد ولم يولد"},
			{"numberInSurah": 4, "text": "ولم يكن له كفوا أحد"}
		]
	}
}`

func TestFetchVersesRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/surah/112" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(surahFixture))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	verses, err := c.FetchVerses(context.Background(), 112, 2, 3)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(verses) != 2 {
		t.Fatalf("expected 2 verses, got %d", len(verses))
	}
	if verses[0].Ayah != 2 || verses[1].Ayah != 3 {
		t.Errorf("verses out of order: %+v", verses)
	}
	if verses[0].Surah != 112 {
		t.Errorf("verse missing surah number: %+v", verses[0])
	}
	if verses[0].Text == "" {
		t.Error("verse text is empty")
	}
}

func TestFetchVersesRejectsOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(surahFixture))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.FetchVerses(context.Background(), 112, 1, 9); err == nil {
		t.Fatal("expected error for ayah range beyond the surah")
	}
	if _, err := c.FetchVerses(context.Background(), 112, 3, 2); err == nil {
		t.Fatal("expected error for inverted range")
	}
	if _, err := c.FetchVerses(context.Background(), 112, 0, 2); err == nil {
		t.Fatal("expected error for zero from-ayah")
	}
}

func TestListChapters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/surah" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":200,"data":[{"number":1,"name":"الفاتحة","englishName":"Al-Faatiha","numberOfAyahs":7}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	chapters, err := c.ListChapters(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(chapters) != 1 || chapters[0].NumberOfAyahs != 7 {
		t.Errorf("unexpected chapters: %+v", chapters)
	}
}

func TestFetchVersesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.FetchVerses(context.Background(), 1, 1, 1); err == nil {
		t.Fatal("expected error on provider failure")
	}
}
