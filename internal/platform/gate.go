// Package platform holds the compatibility gate between this guard and
// the storefront it is deployed against.
package platform

import (
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"
)

const (
	// PluginName is how the guard identifies itself in admin-facing
	// notices.
	PluginName = "Wholesale Coupon Guard"

	// MinPlatformVersion is the lowest storefront version whose
	// checkout hooks this guard supports.
	MinPlatformVersion = "3.5.0"
)

const warningTemplate = `<div class="notice notice-warning"><p><strong>%s</strong> requires %s %s or newer. Coupon restrictions are disabled.</p></div>`

// Info describes the host storefront, as reported by configuration.
type Info struct {
	Name    string
	Version string
}

// Gate decides once, at startup, whether the coupon rule is allowed to
// run. An incompatible or absent storefront version disables the rule
// for the process lifetime and queues an admin warning; it never fails
// the process.
type Gate struct {
	mu      sync.RWMutex
	enabled bool
	notices []string
}

func NewGate() *Gate {
	return &Gate{}
}

// Check compares the reported storefront version against
// MinPlatformVersion and returns whether the guard is compatible.
func (g *Gate) Check(info Info) bool {
	compatible := meetsMinimum(info.Version)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.enabled = compatible
	if !compatible {
		log.Warn().
			Str("platform", info.Name).
			Str("version", info.Version).
			Str("required", MinPlatformVersion).
			Msg("storefront version unsupported, coupon restrictions disabled")
		g.notices = append(g.notices, fmt.Sprintf(warningTemplate, PluginName, info.Name, MinPlatformVersion))
	}
	return compatible
}

func (g *Gate) Enabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.enabled
}

// AdminNotices returns the queued admin-facing warnings.
func (g *Gate) AdminNotices() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.notices...)
}

func meetsMinimum(version string) bool {
	if version == "" {
		return false
	}
	current, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return !current.LessThan(semver.MustParse(MinPlatformVersion))
}
