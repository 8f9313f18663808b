package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/scanner"
)

const twoHeadlines = `
<html>
  <body>
    <ul class="type06_headline">
      <li>
        <dt><a href="/article/001/0012345678">테스트 뉴스 1</a></dt>
      </li>
      <li>
        <dt><a href="/article/001/0012345679">테스트 뉴스 2</a></dt>
      </li>
    </ul>
  </body>
</html>`

func mustDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestBuildListURL(t *testing.T) {
	t.Parallel()

	u, err := buildListURL("https://news.naver.com/main/list.naver", map[string]string{
		"mode": "LSD",
		"mid":  "sec",
		"sid1": "001",
	})
	if err != nil {
		t.Fatalf("buildListURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if parsed.Host != "news.naver.com" || parsed.Path != "/main/list.naver" {
		t.Fatalf("unexpected url: %s", u)
	}

	q := parsed.Query()
	if q.Get("mode") != "LSD" || q.Get("mid") != "sec" || q.Get("sid1") != "001" {
		t.Fatalf("unexpected query: %s", parsed.RawQuery)
	}
}

func TestAbsoluteURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/article/001/1":                   "https://news.naver.com/article/001/1",
		"https://n.news.naver.com/mnews/1": "https://n.news.naver.com/mnews/1",
		"http://example.com/a?b=c":         "http://example.com/a?b=c",
	}
	for in, want := range cases {
		if got := absoluteURL("https://news.naver.com", in); got != want {
			t.Fatalf("absoluteURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractArticlesHeadlineFirst(t *testing.T) {
	t.Parallel()

	doc := mustDocument(t, `
	<ul class="type06">
	  <li><dl><dt><a href="/general/1">일반 1</a></dt></dl></li>
	</ul>
	<ul class="type06_headline">
	  <li><dl><dt><a href="/headline/1">헤드라인 1</a></dt></dl></li>
	</ul>`)

	sc := NewNaverScanner(nil, NaverOptions{}, nil)
	got := sc.extractArticles(doc, 10)

	want := []domain.Article{
		{Title: "헤드라인 1", URL: "https://news.naver.com/headline/1"},
		{Title: "일반 1", URL: "https://news.naver.com/general/1"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d articles, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("article %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExtractArticlesSkipsPhotoLink(t *testing.T) {
	t.Parallel()

	doc := mustDocument(t, `
	<ul class="type06_headline">
	  <li>
	    <dl>
	      <dt class="photo"><a href="/article/001/9"><img src="x.jpg" alt=""></a></dt>
	      <dt><a href="/article/001/9">  사진 없는 제목  </a></dt>
	    </dl>
	  </li>
	</ul>`)

	sc := NewNaverScanner(nil, NaverOptions{}, nil)
	got := sc.extractArticles(doc, 10)

	if len(got) != 1 {
		t.Fatalf("expected 1 article, got %d", len(got))
	}
	if got[0].Title != "사진 없는 제목" {
		t.Fatalf("unexpected title: %q", got[0].Title)
	}
}

func TestExtractArticlesFallsBackToAnyLink(t *testing.T) {
	t.Parallel()

	doc := mustDocument(t, `
	<ul class="type06">
	  <li><span><a href="https://n.news.naver.com/mnews/article/001/5">링크만 있는 기사</a></span></li>
	</ul>`)

	sc := NewNaverScanner(nil, NaverOptions{}, nil)
	got := sc.extractArticles(doc, 10)

	if len(got) != 1 {
		t.Fatalf("expected 1 article, got %d", len(got))
	}
	if got[0].URL != "https://n.news.naver.com/mnews/article/001/5" {
		t.Fatalf("absolute url should pass through, got %s", got[0].URL)
	}
}

func TestExtractArticlesSkippedItemsDoNotCount(t *testing.T) {
	t.Parallel()

	doc := mustDocument(t, `
	<ul class="type06_headline">
	  <li><p>no link here</p></li>
	  <li><dl><dt><a href="/a/1">첫 기사</a></dt></dl></li>
	  <li><dl><dt><a href="/a/empty">   </a></dt></dl></li>
	  <li><dl><dt><a href="/a/2">둘째 기사</a></dt></dl></li>
	  <li><dl><dt><a href="/a/3">셋째 기사</a></dt></dl></li>
	</ul>`)

	sc := NewNaverScanner(nil, NaverOptions{}, nil)
	got := sc.extractArticles(doc, 2)

	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	if got[0].Title != "첫 기사" || got[1].Title != "둘째 기사" {
		t.Fatalf("unexpected titles: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestExtractArticlesRespectsLimit(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(`<ul class="type06_headline">`)
	for i := 0; i < 15; i++ {
		b.WriteString(`<li><dt><a href="/a/x">기사</a></dt></li>`)
	}
	b.WriteString(`</ul><ul class="type06">`)
	for i := 0; i < 15; i++ {
		b.WriteString(`<li><dt><a href="/b/x">일반</a></dt></li>`)
	}
	b.WriteString(`</ul>`)
	doc := mustDocument(t, b.String())

	sc := NewNaverScanner(nil, NaverOptions{}, nil)
	for _, limit := range []int{1, 5, 10, 15, 20, 40} {
		got := sc.extractArticles(doc, limit)
		want := limit
		if want > 30 {
			want = 30
		}
		if len(got) != want {
			t.Fatalf("limit %d: expected %d articles, got %d", limit, want, len(got))
		}
	}
}

func TestNaverScannerScan(t *testing.T) {
	t.Parallel()

	var gotUA, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(twoHeadlines))
	}))
	defer server.Close()

	sc := NewNaverScanner(server.Client(), NaverOptions{}, nil)
	articles, err := sc.Scan(context.Background(), scanner.Request{
		SiteName: "naver-test",
		URL:      server.URL + "/main/list.naver",
		Query:    map[string]string{"mode": "LSD", "mid": "sec", "sid1": "001"},
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "테스트 뉴스 1" || articles[1].Title != "테스트 뉴스 2" {
		t.Fatalf("unexpected titles: %+v", articles)
	}
	if articles[0].URL != "https://news.naver.com/article/001/0012345678" {
		t.Fatalf("unexpected url: %s", articles[0].URL)
	}
	if !strings.HasPrefix(gotUA, "Mozilla/5.0") {
		t.Fatalf("expected browser user agent, got %q", gotUA)
	}
	if gotQuery != "mid=sec&mode=LSD&sid1=001" {
		t.Fatalf("unexpected query: %s", gotQuery)
	}
}

func TestNaverScannerScanDecodesEUCKR(t *testing.T) {
	t.Parallel()

	// "뉴스" in EUC-KR.
	title := []byte{0xB4, 0xBA, 0xBD, 0xBA}
	page := append([]byte(`<ul class="type06_headline"><li><dt><a href="/a/1">`), title...)
	page = append(page, []byte(`</a></dt></li></ul>`)...)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=EUC-KR")
		_, _ = w.Write(page)
	}))
	defer server.Close()

	sc := NewNaverScanner(server.Client(), NaverOptions{}, nil)
	articles, err := sc.Scan(context.Background(), scanner.Request{URL: server.URL, Limit: 1})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "뉴스" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
}

func TestNaverScannerScanErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	sc := NewNaverScanner(server.Client(), NaverOptions{}, nil)
	if _, err := sc.Scan(context.Background(), scanner.Request{URL: server.URL, Limit: 10}); err == nil {
		t.Fatal("expected error for 503 response")
	}
	if _, err := sc.Scan(context.Background(), scanner.Request{URL: server.URL, Limit: 0}); err == nil {
		t.Fatal("expected error for non-positive limit")
	}
}
