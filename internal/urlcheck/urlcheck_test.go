package urlcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	text := `See https://example.com/a. Also (http://foo.bar/x?y=1), "https://example.com/a" and https://q.io/z!?`
	assert.Equal(t, []string{
		"https://example.com/a",
		"http://foo.bar/x?y=1",
		"https://q.io/z",
	}, Extract(text, 0))
}

func TestExtractStopsAtMax(t *testing.T) {
	text := "https://a.io https://b.io https://c.io"
	assert.Equal(t, []string{"https://a.io", "https://b.io"}, Extract(text, 2))
}

func TestExtractCaseInsensitiveScheme(t *testing.T) {
	assert.Equal(t, []string{"HTTPS://Bit.ly/X"}, Extract("go HTTPS://Bit.ly/X now", 5))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		url  string
		want []Tag
	}{
		{"https://bit.ly/abc?utm_source=x", []Tag{TagShortlink, TagTracking}},
		{"https://hooks.slack.com/services/T0/B0/x", []Tag{TagWebhook}},
		{"https://example.com/api/webhook/123", []Tag{TagWebhook}},
		{"https://shop.example.com/item?ref=abc", []Tag{TagTracking}},
		{"https://shop.example.com/item?id=1&Invite=abc", []Tag{TagTracking}},
		{"https://LINKTR.EE/someone", []Tag{TagShortlink}},
		{"https://example.com/docs", nil},
		{"https://example.com/pref=1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.url))
		})
	}
}

func TestClassifyUnparseableStillChecksQuery(t *testing.T) {
	raw := "http://[::1%zz/x?utm_medium=mail"
	assert.Equal(t, []Tag{TagTracking}, Classify(raw))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "SHORTLINK,TRACKING_OR_REFERRAL", Join([]Tag{TagShortlink, TagTracking}))
	assert.Equal(t, "", Join(nil))
}
