package intention

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-attendant-be/pkg/store"
)

func sampleIntention(id string) Intention {
	return Intention{
		ID:          id,
		Keywords:    []string{"Débito", "IPTU"},
		Phrases:     []string{"Segunda via do IPTU"},
		Priority:    10,
		TargetState: store.State{Flow: "DEBITOS"},
		Action:      StartFlow("DEBITOS"),
	}
}

func TestCatalogAddNormalizes(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Add(sampleIntention("DEBITOS")))

	in, ok := c.Get("DEBITOS")
	require.True(t, ok)
	assert.Equal(t, []string{"debito", "iptu"}, in.Keywords)
	assert.Equal(t, []string{"segunda via do iptu"}, in.Phrases)
	assert.Equal(t, "DEBITOS", in.Label, "label defaults to id")
}

func TestCatalogRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Intention)
		wantErr error
	}{
		{"missing id", func(in *Intention) { in.ID = "  " }, ErrInvalidIntention},
		{"no keywords nor phrases", func(in *Intention) { in.Keywords = nil; in.Phrases = []string{" "} }, ErrInvalidIntention},
		{"missing action", func(in *Intention) { in.Action = "" }, ErrInvalidIntention},
		{"negative priority", func(in *Intention) { in.Priority = -1 }, ErrInvalidIntention},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleIntention("X")
			tt.mutate(&in)
			err := NewCatalog().Add(in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCatalogDuplicateAndRemove(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Add(sampleIntention("DEBITOS")))
	assert.ErrorIs(t, c.Add(sampleIntention("DEBITOS")), ErrDuplicateIntention)

	require.NoError(t, c.Remove("DEBITOS"))
	assert.ErrorIs(t, c.Remove("DEBITOS"), ErrIntentionNotFound)
	assert.Equal(t, 0, c.Len())
}

func TestNewCatalogFromStopsOnFirstError(t *testing.T) {
	_, err := NewCatalogFrom([]Intention{sampleIntention("A"), sampleIntention("A")})
	assert.ErrorIs(t, err, ErrDuplicateIntention)
}

func TestCatalogConcurrentAccess(t *testing.T) {
	c := NewCatalog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = c.Add(sampleIntention(string(rune('A' + i%26))))
		}(i)
		go func() {
			defer wg.Done()
			_ = c.All()
		}()
	}
	wg.Wait()
	assert.Equal(t, 26, c.Len())
}
