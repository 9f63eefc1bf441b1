package scraper

import (
	"math/rand/v2"

	"github.com/use-agent/brandscan/config"
)

// userAgentPool hands out User-Agent strings. Rotation is cosmetic only.
type userAgentPool struct {
	agents []string
	rotate bool
}

func newUserAgentPool(agents []string, rotate bool) *userAgentPool {
	if len(agents) == 0 {
		agents = config.DefaultUserAgents
	}
	return &userAgentPool{agents: agents, rotate: rotate}
}

func (p *userAgentPool) pick() string {
	if !p.rotate || len(p.agents) == 1 {
		return p.agents[0]
	}
	return p.agents[rand.IntN(len(p.agents))]
}
