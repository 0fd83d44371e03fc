package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		raw  string
		want Entry
	}{
		{"good", Entry{Kind: Literal, Text: "good", Key: "good"}},
		{"  good  ", Entry{Kind: Literal, Text: "good", Key: "good"}},
		{"terribl*", Entry{Kind: Prefix, Text: "terribl", Key: "terribl*"}},
		{"*", Entry{Kind: Prefix, Text: "", Key: "*"}},
		{"", Entry{Kind: Literal}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseEntry(tt.raw), tt.raw)
	}
}

func TestEntryMatch(t *testing.T) {
	prefix := ParseEntry("terribl*")
	assert.True(t, prefix.Match("terrible"))
	assert.True(t, prefix.Match("terribly"))
	assert.True(t, prefix.Match("terribl"))
	assert.False(t, prefix.Match("terrific"))

	literal := ParseEntry("bad")
	assert.True(t, literal.Match("bad"))
	assert.False(t, literal.Match("badly"))

	// A lone wildcard matches everything.
	assert.True(t, ParseEntry("*").Match("anything"))
}

func TestDictionaryLookupLoadOrder(t *testing.T) {
	d := newDictionary()
	require.True(t, d.add(Negative, "awful"))
	require.True(t, d.add(Negative, "aw*"))
	require.True(t, d.add(Negative, "awfully"))

	// The literal was loaded first.
	e, found := d.Lookup("awful", Negative)
	require.True(t, found)
	assert.Equal(t, "awful", e.Key)

	// The prefix was loaded before the second literal.
	e, found = d.Lookup("awfully", Negative)
	require.True(t, found)
	assert.Equal(t, "aw*", e.Key)

	_, found = d.Lookup("awful", Positive)
	assert.False(t, found)
	_, found = d.Lookup("good", Negative)
	assert.False(t, found)
	_, found = d.Lookup("awful", Class("unknown"))
	assert.False(t, found)
}

func TestDictionaryDuplicatesCollapse(t *testing.T) {
	d := newDictionary()
	assert.True(t, d.add(Positive, "good"))
	assert.False(t, d.add(Positive, "good"))
	assert.False(t, d.add(Positive, " good "))
	assert.False(t, d.add(Positive, ""))
	assert.True(t, d.add(Negative, "good"))

	assert.Equal(t, 1, d.Count("good", Positive))
	assert.Equal(t, 1, d.Count("good", Negative))
	assert.Equal(t, 0, d.Count("good", Neutral))
	assert.Equal(t, 1, d.Len(Positive))
	assert.Equal(t, 1, d.Len(Negative))
	assert.Equal(t, 0, d.Len(Neutral))
}

func TestDictionaryContains(t *testing.T) {
	d := newDictionary()
	d.add(Positive, "amaz*")
	d.add(Neutral, "mediocre")

	assert.True(t, d.Contains("amazing"))
	assert.True(t, d.Contains("mediocre"))
	assert.False(t, d.Contains("food"))

	e, found := d.LookupAny("amazed")
	require.True(t, found)
	assert.Equal(t, Prefix, e.Kind)
}

func TestNegationList(t *testing.T) {
	n := newNegationList([]string{"not", "isn", "nev*", "", " no "})
	assert.Equal(t, 4, n.Len())
	assert.True(t, n.Match("not"))
	assert.True(t, n.Match("isn"))
	assert.True(t, n.Match("never"))
	assert.True(t, n.Match("no"))
	assert.False(t, n.Match("nothing"))

	var empty NegationList
	assert.False(t, empty.Match("not"))
	assert.Zero(t, empty.Len())
}
