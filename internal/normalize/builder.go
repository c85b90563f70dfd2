package normalize

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/model"
	"github.com/sells-group/factsync/internal/statement"
)

// Period resolves variables for one reporting period, memoizing results so
// derivations can refer to each other in any order.
type Period struct {
	facts     []model.RawFact
	vars      map[string]*Variable
	values    map[string]float64
	resolved  map[string]bool
	resolving map[string]bool
}

func newPeriod(facts []model.RawFact, vars map[string]*Variable) *Period {
	return &Period{
		facts:     facts,
		vars:      vars,
		values:    map[string]float64{},
		resolved:  map[string]bool{},
		resolving: map[string]bool{},
	}
}

// Value returns the variable's value, zero when unresolved.
func (p *Period) Value(name string) float64 {
	v, _ := p.Lookup(name)
	return v
}

// Lookup resolves a variable by synonym, then derivation.
func (p *Period) Lookup(name string) (float64, bool) {
	if v, ok := p.values[name]; ok {
		return v, p.resolved[name]
	}
	def, ok := p.vars[name]
	if !ok || p.resolving[name] {
		return 0, false
	}
	p.resolving[name] = true
	defer delete(p.resolving, name)

	var (
		v     float64
		found bool
	)
	if f, ok := Resolve(p.facts, def.Synonyms); ok {
		v, found = f.Value, true
	} else if def.Derive != nil {
		v, found = def.Derive(p)
	}
	p.values[name] = v
	p.resolved[name] = found
	return v, found
}

// Builder turns per-period fact sets into a canonical table.
type Builder struct {
	vars  []Variable
	index map[string]*Variable
}

// NewBuilder creates a Builder over the given variable table.
func NewBuilder(vars []Variable) *Builder {
	b := &Builder{vars: vars, index: make(map[string]*Variable, len(vars))}
	for i := range b.vars {
		b.index[b.vars[i].Name] = &b.vars[i]
	}
	return b
}

// DefaultBuilder builds tables over Variables.
func DefaultBuilder() *Builder { return NewBuilder(Variables) }

// Rows returns the emitted variable names in order.
func (b *Builder) Rows() []string {
	rows := make([]string, 0, len(b.vars))
	for _, v := range b.vars {
		if !v.Hidden {
			rows = append(rows, v.Name)
		}
	}
	return rows
}

// Concepts returns every synonym the builder can consume, sorted.
func (b *Builder) Concepts() []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range b.vars {
		for _, s := range v.Synonyms {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Build resolves every variable for every period. Each of extra gets a
// column even without facts, so a located filing always shows up in the
// table. Columns come out sorted ascending by period end whatever the map order.
func (b *Builder) Build(factsByPeriod map[time.Time][]model.RawFact, extra ...time.Time) *statement.Table {
	periods := make([]time.Time, 0, len(factsByPeriod)+len(extra))
	for p := range factsByPeriod {
		periods = append(periods, p)
	}
	periods = append(periods, extra...)

	rows := b.Rows()
	table := statement.New(rows, periods)
	for _, period := range table.Periods() {
		facts := factsFor(factsByPeriod, period)
		p := newPeriod(facts, b.index)
		unresolved := 0
		for _, name := range rows {
			v, ok := p.Lookup(name)
			if !ok {
				unresolved++
			}
			table.Set(name, period, v)
		}
		zap.L().Debug("normalize: period built",
			zap.Time("period", period),
			zap.Int("facts", len(facts)),
			zap.Int("unresolved", unresolved),
		)
	}
	return table
}

// factsFor gathers the facts of every map key falling on period's calendar
// date, earliest key first so first-seen ordering is stable.
func factsFor(m map[time.Time][]model.RawFact, period time.Time) []model.RawFact {
	var keys []time.Time
	for k := range m {
		if model.Date(k).Equal(period) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	var out []model.RawFact
	for _, k := range keys {
		out = append(out, m[k]...)
	}
	return out
}
