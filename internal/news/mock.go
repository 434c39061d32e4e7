package news

import (
	"fmt"
	"strings"

	"github.com/crucial707/district-digest/internal/models"
)

const (
	mockSourceName = "Mock News Source"
	mockURL        = "http://example.com"
)

// MockArticles returns the two placeholder articles served when live data is unavailable.
// The output depends only on its arguments.
func MockArticles(district, date string, related bool) []models.Article {
	prefix := ""
	crimeHour, noiseHour := 10, 12
	if related {
		prefix = "Related "
		crimeHour, noiseHour = 14, 16
	}
	lower := strings.ToLower(prefix)

	return []models.Article{
		{
			Title:       fmt.Sprintf("%sMock Crime Incident in %s", prefix, district),
			Description: fmt.Sprintf("A %stheft occurred in %s city center.", lower, district),
			Source:      models.Source{Name: mockSourceName},
			PublishedAt: fmt.Sprintf("%sT%02d:00:00Z", date, crimeHour),
			URL:         mockURL,
		},
		{
			Title:       fmt.Sprintf("%sPublic Noise Complaint in %s", prefix, district),
			Description: fmt.Sprintf("Residents reported %spublic noise disturbances in %s.", lower, district),
			Source:      models.Source{Name: mockSourceName},
			PublishedAt: fmt.Sprintf("%sT%02d:00:00Z", date, noiseHour),
			URL:         mockURL,
		},
	}
}
