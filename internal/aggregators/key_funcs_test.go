package aggregators

import (
	"testing"

	"weblog-analytics/internal/models"

	"github.com/stretchr/testify/assert"
)

const (
	uaChrome124 = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	uaChrome125 = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
	uaFirefox   = "Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0"
)

func TestKeyStatusCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "404", KeyStatusCode(&models.LogRecord{StatusCode: 404}))
}

func TestKeyPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/index.html", KeyPath(&models.LogRecord{Path: "/index.html"}))
}

func TestKeyClientAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "192.168.1.12", KeyClientAddress(&models.LogRecord{ClientAddress: "192.168.1.12"}))
}

func TestKeyUserAgent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uaChrome124, KeyUserAgent(&models.LogRecord{UserAgent: uaChrome124}))
}

func TestKeyUserAgentFamily(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Chrome", KeyUserAgentFamily(&models.LogRecord{UserAgent: uaChrome124}))
	assert.Equal(t, "Firefox", KeyUserAgentFamily(&models.LogRecord{UserAgent: uaFirefox}))
	assert.Equal(t, "", KeyUserAgentFamily(&models.LogRecord{UserAgent: ""}))
}

func TestKeyUserAgentFamily_CollapsesVersions(t *testing.T) {
	t.Parallel()

	result := GroupCount(seq(
		&models.LogRecord{UserAgent: uaChrome124},
		&models.LogRecord{UserAgent: uaChrome125},
		&models.LogRecord{UserAgent: uaFirefox},
	), KeyUserAgentFamily)

	assert.Equal(t, []models.ResultRow{
		{Key: []string{"Chrome"}, Count: 2},
		{Key: []string{"Firefox"}, Count: 1},
	}, result.Rows)
}
