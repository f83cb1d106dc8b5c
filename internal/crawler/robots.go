package crawler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"

	"sjsage522/fashionetl/helpers"
	"sjsage522/fashionetl/logger"
)

// RobotsPolicy answers whether a URL may be fetched, caching robots.txt
// per host.
type RobotsPolicy struct {
	client *http.Client
	agent  string
	hosts  map[string]*robotstxt.RobotsData
	log    *logger.Logger
}

// NewRobotsPolicy creates a policy for the given user agent
func NewRobotsPolicy(client *http.Client, agent string, log *logger.Logger) *RobotsPolicy {
	return &RobotsPolicy{
		client: client,
		agent:  agent,
		hosts:  make(map[string]*robotstxt.RobotsData),
		log:    logger.OrNop(log),
	}
}

// Allowed reports whether rawURL may be fetched. An unreachable robots.txt
// allows everything.
func (p *RobotsPolicy) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	origin := u.Scheme + "://" + u.Host

	data, ok := p.hosts[origin]
	if !ok {
		data = p.load(ctx, origin)
		p.hosts[origin] = data
	}
	if data == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, p.agent)
}

func (p *RobotsPolicy) load(ctx context.Context, origin string) *robotstxt.RobotsData {
	status, body, err := helpers.FetchSimply(ctx, p.client, origin+"/robots.txt")
	if err != nil {
		p.log.Debug().Err(err).Str("origin", origin).Msg("robots.txt unavailable")
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(status, body)
	if err != nil {
		p.log.Debug().Err(err).Str("origin", origin).Msg("robots.txt unparsable")
		return nil
	}
	return data
}
