// Package category classifies expense descriptions against an ordered
// keyword table. The table is plain data so it can be tested and swapped
// independently of the message loop.
package category

import "strings"

// Fallback is the label returned when no keyword matches.
const Fallback = "outros"

// Rule maps a category label to the lowercase keywords that select it.
type Rule struct {
	Label    string
	Keywords []string
}

// Table is an ordered list of classification rules. Order is part of the
// contract: a description matching keywords from two rules always gets the
// earlier rule's label.
type Table struct {
	rules []Rule
}

// NewTable builds a classification table from rules. The fallback rule
// does not need to be listed; it is implicit.
func NewTable(rules []Rule) *Table {
	return &Table{rules: rules}
}

// DefaultTable returns the built-in category table.
func DefaultTable() *Table {
	return NewTable([]Rule{
		{Label: "alimentação", Keywords: []string{"mercado", "supermercado", "restaurante", "lanche", "pizza", "comida", "ifood"}},
		{Label: "transporte", Keywords: []string{"uber", "taxi", "gasolina", "combustível", "ônibus", "99"}},
		{Label: "saúde", Keywords: []string{"farmácia", "médico", "hospital", "remédio", "consulta"}},
		{Label: "lazer", Keywords: []string{"cinema", "bar", "show", "viagem", "netflix"}},
		{Label: "casa", Keywords: []string{"luz", "água", "internet", "aluguel", "condomínio"}},
	})
}

// Match returns the label of the first rule with a keyword contained in
// the description, or Fallback when nothing matches. Matching is
// case-insensitive and purely deterministic.
func (t *Table) Match(description string) string {
	desc := strings.ToLower(description)
	for _, rule := range t.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Label
			}
		}
	}
	return Fallback
}

// Labels returns every label in table order, with the fallback last.
func (t *Table) Labels() []string {
	labels := make([]string, 0, len(t.rules)+1)
	for _, rule := range t.rules {
		labels = append(labels, rule.Label)
	}
	return append(labels, Fallback)
}
