package fetcher

import (
	"html"
	"strings"

	"repurposer/internal/models"
	"repurposer/internal/util"

	"github.com/microcosm-cc/bluemonday"
)

// ArticleID is the first 12 hex characters of MD5(url). The short form is
// deliberate; collisions are accepted at this scale.
func ArticleID(url string) string {
	return util.ShortMD5Hex(url, 12)
}

type normalizer struct {
	policy *bluemonday.Policy
}

func newNormalizer() *normalizer {
	return &normalizer{policy: bluemonday.StrictPolicy()}
}

// text strips markup and folds whitespace. The strict policy escapes
// entities, so they are unescaped again afterwards.
func (n *normalizer) text(s string) string {
	s = util.SanitizeText(s)
	s = html.UnescapeString(n.policy.Sanitize(s))
	return util.CollapseWhitespace(s)
}

// authors keeps the first MaxAuthors names and appends the et al. marker
// when more were listed.
func (n *normalizer) authors(names []string) []string {
	out := make([]string, 0, models.MaxAuthors+1)
	total := 0
	for _, name := range names {
		name = n.text(name)
		if name == "" {
			continue
		}
		total++
		if len(out) < models.MaxAuthors {
			out = append(out, name)
		}
	}
	if total > models.MaxAuthors {
		out = append(out, models.EtAlMarker)
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
