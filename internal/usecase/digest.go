package usecase

import (
	"fmt"
	"strings"

	"NewsDigest/internal/domain"
)

const (
	// DigestHeader opens every non-empty digest.
	DigestHeader = "📰 오늘의 네이버 뉴스 TOP 10"
	// NoNewsMessage is the digest for an empty article list.
	NoNewsMessage = "오늘의 뉴스를 가져올 수 없습니다."
)

// FormatDigest renders articles as a numbered, plain-text message.
func FormatDigest(articles []domain.Article) string {
	if len(articles) == 0 {
		return NoNewsMessage
	}

	var b strings.Builder
	b.WriteString(DigestHeader)
	b.WriteString("\n\n")
	for i, article := range articles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, article.Title)
		fmt.Fprintf(&b, "   🔗 %s\n\n", article.URL)
	}

	return strings.TrimSpace(b.String())
}
