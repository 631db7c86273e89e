package validate

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/proto"
)

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		name string
		raw  *proto.Version
		code common.ErrorCode
	}{
		{"nil", nil, common.VersionMissing},
		{"all zero", &proto.Version{Producer: "x"}, common.VersionMissing},
		{"minor only", &proto.Version{MinorNumber: 20}, common.UnknownError},
		{"valid hash", &proto.Version{MinorNumber: 20, GitHash: strings.Repeat("a1", 20)}, common.UnknownError},
		{"short hash", &proto.Version{MinorNumber: 20, GitHash: "abc123"}, common.GitHashMalformed},
		{"upper case hash", &proto.Version{MinorNumber: 20, GitHash: strings.Repeat("A1", 20)}, common.GitHashMalformed},
		{"non hex", &proto.Version{MinorNumber: 20, GitHash: strings.Repeat("g", 40)}, common.GitHashMalformed},
		{"long hash", &proto.Version{MinorNumber: 20, GitHash: strings.Repeat("0", 41)}, common.GitHashMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValidateVersion(NewValidator(), tt.raw)
			if tt.code == common.UnknownError {
				require.NoError(t, err)
				assert.Equal(t, tt.raw, v.ToProto())
				return
			}
			require.Error(t, err)
			assert.Nil(t, v)
			assert.Equal(t, tt.code, common.CodeOf(err))
		})
	}
}

func TestVersionAccessors(t *testing.T) {
	hash := "0123456789abcdef0123456789abcdef01234567"
	v, err := ValidateVersion(NewValidator(), &proto.Version{MinorNumber: 42, PatchNumber: 1, GitHash: hash, Producer: "planval"})
	require.NoError(t, err)
	assert.Equal(t, "0.42.1", v.Semver().String())
	assert.Equal(t, "0.42.1 (planval)", v.String())
	h, ok := v.GitHash()
	require.True(t, ok)
	assert.Equal(t, byte(0x01), h[0])
	assert.Equal(t, byte(0x67), h[19])
	p, ok := v.Producer()
	assert.True(t, ok)
	assert.Equal(t, "planval", p)

	v, err = ValidateVersion(NewValidator(), &proto.Version{MajorNumber: 1})
	require.NoError(t, err)
	_, ok = v.GitHash()
	assert.False(t, ok)
	_, ok = v.Producer()
	assert.False(t, ok)
}

func TestVersionRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("valid versions survive ToProto", prop.ForAll(
		func(major, minor, patch uint32, hash, producer string) bool {
			raw := &proto.Version{MajorNumber: major, MinorNumber: minor, PatchNumber: patch, GitHash: hash, Producer: producer}
			v, err := ValidateVersion(NewValidator(), raw)
			if err != nil {
				return false
			}
			again, err := ValidateVersion(NewValidator(), v.ToProto())
			return err == nil && *again.ToProto() == *raw
		},
		gen.UInt32Range(1, 1000),
		gen.UInt32Range(0, 1000),
		gen.UInt32Range(0, 1000),
		gen.OneGenOf(gen.Const(""), gen.RegexMatch("^[0-9a-f]{40}$")),
		gen.AlphaString(),
	))

	properties.Property("malformed hashes are rejected", prop.ForAll(
		func(hash string) bool {
			_, err := ValidateVersion(NewValidator(), &proto.Version{MinorNumber: 20, GitHash: hash})
			return common.HasCode(err, common.GitHashMalformed)
		},
		gen.RegexMatch("^[0-9a-zA-Z]{1,60}$").SuchThat(func(s string) bool {
			return len(s) != 40 || strings.ToLower(s) != s || strings.Trim(s, "0123456789abcdef") != ""
		}),
	))

	properties.TestingRun(t)
}
