package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyNormalization(t *testing.T) {
	base := Key{Name: "Charizard", SetName: "Base Set", Finish: "Holo"}

	tests := []struct {
		name  string
		other Key
	}{
		{"identical", Key{Name: "Charizard", SetName: "Base Set", Finish: "Holo"}},
		{"case differences", Key{Name: "CHARIZARD", SetName: "base set", Finish: "holo"}},
		{"stray whitespace", Key{Name: "  Charizard ", SetName: "Base  Set", Finish: "Holo\t"}},
		{"punctuation", Key{Name: "Charizard!", SetName: "Base Set.", Finish: "Holo"}},
		{"explicit default language", Key{Name: "Charizard", SetName: "Base Set", Finish: "Holo", Language: "EN"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, base.Fingerprint(), tt.other.Fingerprint())
		})
	}
}

func TestKeyCharacteristicsOrderIndependent(t *testing.T) {
	a := Key{Name: "Pikachu", SetName: "Jungle", Characteristics: []string{"shadowless", "first edition"}}
	b := Key{Name: "Pikachu", SetName: "Jungle", Characteristics: []string{"First Edition", "Shadowless"}}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestKeyDiscriminatingFields(t *testing.T) {
	base := Key{Name: "Charizard", SetName: "Base Set", Finish: "Holo"}

	tests := []struct {
		name  string
		other Key
	}{
		{"different card", Key{Name: "Blastoise", SetName: "Base Set", Finish: "Holo"}},
		{"different set", Key{Name: "Charizard", SetName: "Base Set 2", Finish: "Holo"}},
		{"different finish", Key{Name: "Charizard", SetName: "Base Set", Finish: "Reverse Holo"}},
		{"different number", Key{Name: "Charizard", SetName: "Base Set", Finish: "Holo", Number: "4"}},
		{"different language", Key{Name: "Charizard", SetName: "Base Set", Finish: "Holo", Language: "jp"}},
		{"extra characteristic", Key{Name: "Charizard", SetName: "Base Set", Finish: "Holo", Characteristics: []string{"shadowless"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base.Fingerprint(), tt.other.Fingerprint())
		})
	}
}

func TestNormalizeField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Charizard", "charizard"},
		{"  Base   Set  ", "base set"},
		{"Pokémon", "pokémon"},
		{"N's Plan!", "ns plan"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeField(tt.in), "input %q", tt.in)
	}
}
