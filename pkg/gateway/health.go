package gateway

import (
	"github.com/adfharrison1/mongo-bridge/pkg/config"
	"github.com/adfharrison1/mongo-bridge/pkg/domain"
)

// Health reports static process status. Credentials embedded in the
// connection URI are redacted before they can reach the output stream.
func (m *Mongo) Health() domain.HealthStatus {
	return domain.HealthStatus{
		Status:    "ok",
		Version:   config.Version,
		DefaultDB: m.cfg.DefaultDB,
		URI:       config.RedactURI(m.cfg.URI),
	}
}
