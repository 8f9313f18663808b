package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"NewsDigest/internal/domain"
)

func TestFormatDigestEmpty(t *testing.T) {
	t.Parallel()

	if got := FormatDigest(nil); got != NoNewsMessage {
		t.Fatalf("nil input: got %q", got)
	}
	if got := FormatDigest([]domain.Article{}); got != NoNewsMessage {
		t.Fatalf("empty input: got %q", got)
	}
}

func TestFormatDigestLayout(t *testing.T) {
	t.Parallel()

	got := FormatDigest([]domain.Article{
		{Title: "테스트 뉴스 1", URL: "https://news.naver.com/article/001/0012345678"},
		{Title: "테스트 뉴스 2", URL: "https://news.naver.com/article/001/0012345679"},
	})

	want := strings.Join([]string{
		DigestHeader,
		"",
		"1. 테스트 뉴스 1",
		"   🔗 https://news.naver.com/article/001/0012345678",
		"",
		"2. 테스트 뉴스 2",
		"   🔗 https://news.naver.com/article/001/0012345679",
	}, "\n")

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("digest mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatDigestKeepsOrderAndTrims(t *testing.T) {
	t.Parallel()

	articles := make([]domain.Article, 0, 7)
	for _, title := range []string{"g", "a", "f", "b", "e", "c", "d"} {
		articles = append(articles, domain.Article{Title: title, URL: "https://x/" + title})
	}

	got := FormatDigest(articles)

	if got != strings.TrimSpace(got) {
		t.Fatalf("digest has surrounding whitespace: %q", got)
	}
	if n := strings.Count(got, "🔗 "); n != len(articles) {
		t.Fatalf("expected %d url lines, got %d", len(articles), n)
	}

	last := -1
	for i, article := range articles {
		idx := strings.Index(got, fmt.Sprintf("%d. %s\n", i+1, article.Title))
		if idx <= last {
			t.Fatalf("entry %d out of order", i+1)
		}
		last = idx
	}
}

