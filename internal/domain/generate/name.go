package generate

import (
	"hash/fnv"
	"strings"

	"github.com/okian/metaforge/internal/domain/model"
)

// Epithets prefixed to display names, keyed by damage kind. Unknown
// kinds fall through to the generic list.
var kindEpithets = map[string][]string{ //nolint:gochecknoglobals // fixed naming table
	"fire":      {"Blazing", "Searing", "Incandescent"},
	"cold":      {"Glacial", "Frostbound", "Wintry"},
	"lightning": {"Stormforged", "Crackling", "Thunderous"},
	"chaos":     {"Venomous", "Corrupting", "Blighted"},
	"physical":  {"Brutal", "Unyielding", "Crushing"},
}

var genericEpithets = []string{"Relentless", "Ascendant", "Forgotten", "Audacious"} //nolint:gochecknoglobals // fixed naming table

// DisplayName builds a human-readable name for a candidate. The epithet
// is picked by hashing the fingerprint, so the same build always gets
// the same name.
func DisplayName(c *model.Candidate) string {
	pool, ok := kindEpithets[c.Skill.DamageKind]
	if !ok {
		pool = genericEpithets
	}

	h := fnv.New32a()
	h.Write([]byte(c.Fingerprint()))
	epithet := pool[int(h.Sum32())%len(pool)]

	return epithet + " " + titleCase(c.Ascendancy.ID) + " " + titleCase(c.Skill.ID)
}

// titleCase turns a kebab-case identifier into spaced title case.
func titleCase(id string) string {
	parts := strings.Split(id, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
