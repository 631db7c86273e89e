package validate

import (
	"encoding/hex"

	"github.com/Masterminds/semver/v3"
	"mit.edu/dsg/planval/common"
	"mit.edu/dsg/planval/proto"
)

const gitHashLen = 40

// Version is the Substrait version a plan was produced against, plus
// optional build metadata.
type Version struct {
	version  *semver.Version
	gitHash  *[20]byte
	producer string
}

// ValidateVersion checks a version record. A version of 0.0.0 counts as
// absent. A git hash, when present, must be 40 lowercase hex digits.
func ValidateVersion(_ Context, raw *proto.Version) (*Version, error) {
	if raw == nil || raw.MajorNumber == 0 && raw.MinorNumber == 0 && raw.PatchNumber == 0 {
		return nil, &VersionError{Code: common.VersionMissing}
	}
	v := &Version{
		version:  semver.New(uint64(raw.MajorNumber), uint64(raw.MinorNumber), uint64(raw.PatchNumber), "", ""),
		producer: raw.Producer,
	}
	if raw.GitHash != "" {
		hash, ok := decodeGitHash(raw.GitHash)
		if !ok {
			return nil, &VersionError{Code: common.GitHashMalformed, GitHash: raw.GitHash}
		}
		v.gitHash = &hash
	}
	return v, nil
}

func decodeGitHash(s string) ([20]byte, bool) {
	var out [20]byte
	if len(s) != gitHashLen {
		return out, false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return out, false
		}
	}
	if _, err := hex.Decode(out[:], []byte(s)); err != nil {
		return out, false
	}
	return out, true
}

// Semver returns the version number.
func (v *Version) Semver() *semver.Version {
	return v.version
}

// GitHash returns the decoded commit hash, if one was given.
func (v *Version) GitHash() ([20]byte, bool) {
	if v.gitHash == nil {
		return [20]byte{}, false
	}
	return *v.gitHash, true
}

// Producer returns the producer string, if one was given.
func (v *Version) Producer() (string, bool) {
	return v.producer, v.producer != ""
}

func (v *Version) String() string {
	s := v.version.String()
	if v.producer != "" {
		s += " (" + v.producer + ")"
	}
	return s
}

func (v *Version) ToProto() *proto.Version {
	raw := &proto.Version{
		MajorNumber: uint32(v.version.Major()),
		MinorNumber: uint32(v.version.Minor()),
		PatchNumber: uint32(v.version.Patch()),
		Producer:    v.producer,
	}
	if v.gitHash != nil {
		raw.GitHash = hex.EncodeToString(v.gitHash[:])
	}
	return raw
}
