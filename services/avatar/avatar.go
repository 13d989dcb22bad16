package avatarsvc

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/rogerjeasy/letusconnect/core"
)

// Generator hands out default profile pictures: the configured avatar API seeded with a random uuid.
type Generator struct {
	baseURL string
	seed    func() string
}

func NewGenerator(conf *core.Config) *Generator {
	return &Generator{baseURL: conf.AvatarBaseURL, seed: uuid.NewString}
}

func (g *Generator) Avatar() string {
	q := make(url.Values)
	q.Set("seed", g.seed())
	return g.baseURL + "?" + q.Encode()
}
