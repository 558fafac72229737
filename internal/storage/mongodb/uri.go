package mongodb

import (
	"github.com/staybae/staybae-api/pkg/config"
)

// Connection schemes
const (
	SchemeStandard = "mongodb"
	SchemeSRV      = "mongodb+srv"
)

// Scheme returns the standard scheme for the development environment and
// the SRV (DNS seed list) scheme for every other value, including empty.
func Scheme(env string) string {
	if env == config.EnvDevelopment {
		return SchemeStandard
	}
	return SchemeSRV
}

// ConnectionURI builds "<scheme>://<user>:<password><path>". Path carries
// the "@host/database?options" remainder verbatim.
func ConnectionURI(env string, cfg config.MongoConfig) string {
	return Scheme(env) + "://" + cfg.User + ":" + cfg.Password + cfg.Path
}
