package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBunkerRoundTrip(t *testing.T) {
	in := Bunker{
		RemotePubKey: "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		RelayURL:     "wss://relay.example.com/path?x=1",
		Secret:       "0000000000000000000000000000000000000000000000000000000000000001",
	}
	out, err := ParseBunker(in.String())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseBunkerFields(t *testing.T) {
	b, err := ParseBunker("bunker://abcdef?relay=wss%3A%2F%2Fr.example&secret=s3cret")
	require.NoError(t, err)
	assert.Equal(t, "abcdef", b.RemotePubKey)
	assert.Equal(t, "wss://r.example", b.RelayURL)
	assert.Equal(t, "s3cret", b.Secret)
}

func TestParseBunkerRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"wrong scheme":   "https://abc?relay=wss%3A%2F%2Fr&secret=s",
		"missing pubkey": "bunker://?relay=wss%3A%2F%2Fr&secret=s",
		"missing relay":  "bunker://abc?secret=s",
		"missing secret": "bunker://abc?relay=wss%3A%2F%2Fr",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBunker(in)
			assert.Error(t, err)
		})
	}
}

func TestFilterMatches(t *testing.T) {
	ev := Event{
		PubKey:    "author",
		CreatedAt: 100,
		Kind:      KindSignerRequest,
		Tags:      [][]string{{"p", "target"}},
	}

	assert.True(t, Filter{}.Matches(ev))
	assert.True(t, Filter{Kinds: []int{KindSignerRequest}, Authors: []string{"author"}, P: []string{"target"}}.Matches(ev))
	assert.True(t, Filter{Since: 100}.Matches(ev))

	assert.False(t, Filter{Kinds: []int{1}}.Matches(ev))
	assert.False(t, Filter{Authors: []string{"other"}}.Matches(ev))
	assert.False(t, Filter{P: []string{"other"}}.Matches(ev))
	assert.False(t, Filter{Since: 101}.Matches(ev))

	untagged := ev
	untagged.Tags = nil
	assert.False(t, Filter{P: []string{"target"}}.Matches(untagged))
}
