package ledger

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"io/ioutil"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressStringRoundTrip(t *testing.T) {
	addr := DefaultProgramID("escrow")

	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.True(t, addr.Equals(parsed))

	parsed, err = ParseAddress("hex:" + hex.EncodeToString(addr))
	require.NoError(t, err)
	assert.True(t, addr.Equals(parsed))

	b32, err := addr.Bech32("ldg")
	require.NoError(t, err)
	parsed, err = ParseAddress("bech32:" + b32)
	require.NoError(t, err)
	assert.True(t, addr.Equals(parsed))
}

func TestParseAddressErrors(t *testing.T) {
	cases := map[string]struct {
		input string
		want  *errors.Error
	}{
		"empty base58":   {input: "", want: errors.ErrInput},
		"wrong length":   {input: "hex:0011", want: errors.ErrInput},
		"bad hex":        {input: "hex:zz", want: errors.ErrInput},
		"bad bech32":     {input: "bech32:nonsense", want: errors.ErrInput},
		"unknown format": {input: "rot13:abc", want: errors.ErrType},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAddress(tc.input)
			if !tc.want.Is(err) {
				t.Fatalf("want %q, got %+v", tc.want, err)
			}
		})
	}
}

func TestAddressJSON(t *testing.T) {
	type holder struct {
		Owner Address `json:"owner"`
		Empty Address `json:"empty"`
	}
	in := holder{Owner: DefaultProgramID("token")}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out holder
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, in.Owner.Equals(out.Owner))
	assert.Nil(t, out.Empty)
}

func TestAddressText(t *testing.T) {
	addr := DefaultProgramID("escrow")
	raw, err := addr.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, addr.String(), string(raw))

	var got Address
	require.NoError(t, got.UnmarshalText(raw))
	assert.True(t, addr.Equals(got))

	require.NoError(t, got.UnmarshalText(nil))
	assert.Nil(t, got)

	err = got.UnmarshalText([]byte("hex:abcd"))
	assert.True(t, errors.ErrInput.Is(err))
}

func TestAddressFlag(t *testing.T) {
	want := DefaultProgramID("escrow")

	var addr Address
	fl := flag.NewFlagSet("test", flag.ContinueOnError)
	fl.Var(&addr, "addr", "")
	require.NoError(t, fl.Parse([]string{"-addr", want.String()}))
	assert.Equal(t, want, addr)

	fl = flag.NewFlagSet("test", flag.ContinueOnError)
	fl.SetOutput(ioutil.Discard)
	fl.Var(&addr, "addr", "")
	require.Error(t, fl.Parse([]string{"-addr", "hex:zz"}))
}
