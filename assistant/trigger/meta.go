package trigger

// meta carries the descriptive bundle every builtin trigger embeds. The
// criteria and example lists document intent for introspection and tests;
// they are never evaluated at runtime.
type meta struct {
	name               string
	keywords           []string
	priority           int
	activationCriteria string
	positiveExamples   []string
	negativeExamples   []string
}

func (m meta) Name() string  { return m.name }
func (m meta) Priority() int { return m.priority }
func (m meta) Keywords() []string {
	out := make([]string, len(m.keywords))
	copy(out, m.keywords)
	return out
}
func (m meta) ActivationCriteria() string { return m.activationCriteria }
func (m meta) PositiveExamples() []string { return m.positiveExamples }
func (m meta) NegativeExamples() []string { return m.negativeExamples }

func (m meta) Matches(query string) bool {
	return ContainsAnyKeyword(query, m.keywords)
}

// keywordGroup maps a set of topic keywords to a pre-authored string. Groups
// are tested in order; the first hit wins.
type keywordGroup struct {
	words []string
	value string
}

func firstMatch(query string, groups []keywordGroup, fallback string) string {
	for _, g := range groups {
		if ContainsAnyKeyword(query, g.words) {
			return g.value
		}
	}
	return fallback
}
