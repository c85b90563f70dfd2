package xbrl

import (
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/factsync/internal/model"
)

// Standard authorities publishing the taxonomies EDGAR filers extend.
// Namespaces under any other host are company extensions or XBRL
// infrastructure and are never checked.
var standardAuthorities = []string{"fasb.org", "xbrl.sec.gov"}

// DefaultFamilies lists the taxonomy families that can be processed.
var DefaultFamilies = []string{
	// FASB
	"us-gaap", "us-types", "us-roles", "srt", "srt-types", "srt-roles", "dis",
	// SEC
	"dei", "country", "currency", "exch", "naics", "sic", "stpr", "invest",
	"cyd", "ecd", "ffd", "rxp", "spac", "snj", "sro", "vip", "cef", "oef",
}

// Catalog is the set of standard taxonomy families the parser supports.
type Catalog struct {
	mu       sync.RWMutex
	families map[string]bool
}

// NewCatalog returns a catalog of DefaultFamilies plus extra. Extra entries may
// be bare family names ("abc") or namespaces ("http://fasb.org/abc/2025").
func NewCatalog(extra ...string) *Catalog {
	c := &Catalog{families: make(map[string]bool, len(DefaultFamilies)+len(extra))}
	for _, f := range DefaultFamilies {
		c.families[f] = true
	}
	for _, e := range extra {
		c.Add(e)
	}
	return c
}

// Add registers a family name or namespace.
func (c *Catalog) Add(entry string) {
	family := entry
	if strings.Contains(entry, "://") {
		var ok bool
		if _, family, ok = standardFamily(entry); !ok {
			return
		}
	}
	family = strings.ToLower(strings.TrimSpace(family))
	if family == "" {
		return
	}
	c.mu.Lock()
	c.families[family] = true
	c.mu.Unlock()
}

// Families returns the catalogued families, sorted.
func (c *Catalog) Families() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.families))
	for f := range c.families {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Check returns model.ErrUnsupportedSchema for the first namespace that belongs
// to a standard authority but names a family outside the catalog.
func (c *Catalog) Check(namespaces []string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ns := range namespaces {
		host, family, ok := standardFamily(ns)
		if !ok {
			continue
		}
		if !c.families[family] {
			return eris.Wrapf(model.ErrUnsupportedSchema, "xbrl: taxonomy %s (%s/%s) is not in the catalog", ns, host, family)
		}
	}
	return nil
}

// standardFamily splits a standard-authority namespace such as
// http://fasb.org/us-gaap/2024 into its host and family.
func standardFamily(ns string) (host, family string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(ns))
	if err != nil || u.Host == "" {
		return "", "", false
	}
	host = strings.ToLower(u.Host)
	standard := false
	for _, a := range standardAuthorities {
		if host == a {
			standard = true
			break
		}
	}
	if !standard {
		return "", "", false
	}
	family, _, _ = strings.Cut(strings.Trim(u.Path, "/"), "/")
	if family == "" {
		return "", "", false
	}
	return host, strings.ToLower(family), true
}
