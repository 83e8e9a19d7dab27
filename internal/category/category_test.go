package category

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	table := DefaultTable()

	tests := []struct {
		name        string
		description string
		want        string
	}{
		{name: "food keyword", description: "mercado", want: "alimentação"},
		{name: "transport keyword", description: "uber centro", want: "transporte"},
		{name: "health keyword", description: "remédio dor de cabeça", want: "saúde"},
		{name: "leisure keyword", description: "cinema shopping", want: "lazer"},
		{name: "home keyword", description: "conta de luz", want: "casa"},
		{name: "uppercase input", description: "MERCADO", want: "alimentação"},
		{name: "mixed case input", description: "IFood jantar", want: "alimentação"},
		{name: "keyword inside a word", description: "taxista", want: "transporte"},
		{name: "numeric keyword", description: "corrida 99", want: "transporte"},
		{name: "no keyword", description: "presente aniversário", want: Fallback},
		{name: "empty description", description: "", want: Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, table.Match(tt.description))
		})
	}
}

func TestMatchRuleOrder(t *testing.T) {
	t.Parallel()

	table := DefaultTable()

	// "mercado" (alimentação) and "uber" (transporte) both appear; the
	// earlier rule wins no matter the word order in the text.
	require.Equal(t, "alimentação", table.Match("uber até o mercado"))
	require.Equal(t, "alimentação", table.Match("mercado depois uber"))
}

func TestMatchDeterministic(t *testing.T) {
	t.Parallel()

	table := DefaultTable()
	for range 100 {
		require.Equal(t, "lazer", table.Match("bar com amigos"))
	}
}

func TestMatchCustomTable(t *testing.T) {
	t.Parallel()

	table := NewTable([]Rule{
		{Label: "pets", Keywords: []string{"ração", "veterinário"}},
	})

	require.Equal(t, "pets", table.Match("ração do gato"))
	require.Equal(t, Fallback, table.Match("mercado"))
}

func TestLabels(t *testing.T) {
	t.Parallel()

	got := DefaultTable().Labels()
	require.Equal(t, []string{"alimentação", "transporte", "saúde", "lazer", "casa", Fallback}, got)
}
