package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryBuilds(t *testing.T) {
	r := Default()
	require.NotNil(t, r)

	feats := r.Features()
	assert.Len(t, feats, 23)
}

func TestPartitionIsStatic(t *testing.T) {
	r := Default()

	present := []string{
		"age", "genre", "frequence_deplacement", "departement",
		"revenu_mensuel", "heure_supplementaires", "poste",
	}
	numeric, nominal, ordinal := r.Partition(present)

	// Binary columns land in the numeric block: by the time the encoder
	// runs, the cleaner has mapped them to 0/1 floats.
	assert.Equal(t, []string{"age", "genre", "revenu_mensuel", "heure_supplementaires"}, numeric)
	assert.Equal(t, []string{"departement", "poste"}, nominal)
	assert.Equal(t, []string{"frequence_deplacement"}, ordinal)
}

func TestPartitionIgnoresUndeclaredColumns(t *testing.T) {
	r := Default()
	numeric, nominal, ordinal := r.Partition([]string{"age", "not_a_feature"})
	assert.Equal(t, []string{"age"}, numeric)
	assert.Empty(t, nominal)
	assert.Empty(t, ordinal)
}

func TestOrdinalOrderIsExplicit(t *testing.T) {
	r := Default()
	orders := r.OrdinalOrders()
	require.Contains(t, orders, "frequence_deplacement")
	// Declared rank order, not alphabetical ("Aucun" < "Frequent" < "Occasionnel").
	assert.Equal(t, []string{"Aucun", "Occasionnel", "Frequent"}, orders["frequence_deplacement"])
}

func TestNewRejectsOrdinalWithoutOrder(t *testing.T) {
	_, err := New([]Feature{{Name: "x", Kind: Ordinal}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no declared order")
}

func TestNewRejectsBinaryWithoutMapping(t *testing.T) {
	_, err := New([]Feature{{Name: "x", Kind: Binary}}, nil)
	require.Error(t, err)
}

func TestNewRejectsDuplicateFeature(t *testing.T) {
	_, err := New([]Feature{
		{Name: "x", Kind: Numeric},
		{Name: "x", Kind: Numeric},
	}, nil)
	require.Error(t, err)
}

func TestAllowedValues(t *testing.T) {
	r := Default()

	vals, ok := r.AllowedValues("frequence_deplacement")
	require.True(t, ok)
	assert.Equal(t, []string{"Aucun", "Occasionnel", "Frequent"}, vals)

	vals, ok = r.AllowedValues("genre")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"M", "F"}, vals)

	_, ok = r.AllowedValues("age")
	assert.False(t, ok)

	_, ok = r.AllowedValues("nope")
	assert.False(t, ok)
}

func TestDropList(t *testing.T) {
	r := Default()
	assert.True(t, r.Dropped("eval_number"))
	assert.False(t, r.Dropped("age"))
	assert.Contains(t, r.DropList(), "code_sondage")
}
