package vpc

import (
	"errors"
	"fmt"
)

// ConfigErrorKind enumerates the expose-validation failures of spec.md
// §3's five checks, plus the identifier/VNI checks a VPC document-level
// validator raises alongside them.
type ConfigErrorKind int

const (
	InconsistentIpVersion ConfigErrorKind = iota
	OverlappingPrefixes
	OutOfRangeExclusionPrefix
	ExcludedAllPrefixes
	MismatchedPrefixSizes
	MissingIdentifier
	DuplicateVpcPeeringId
	InvalidVpcVni
)

func (k ConfigErrorKind) String() string {
	switch k {
	case InconsistentIpVersion:
		return "InconsistentIpVersion"
	case OverlappingPrefixes:
		return "OverlappingPrefixes"
	case OutOfRangeExclusionPrefix:
		return "OutOfRangeExclusionPrefix"
	case ExcludedAllPrefixes:
		return "ExcludedAllPrefixes"
	case MismatchedPrefixSizes:
		return "MismatchedPrefixSizes"
	case MissingIdentifier:
		return "MissingIdentifier"
	case DuplicateVpcPeeringId:
		return "DuplicateVpcPeeringId"
	case InvalidVpcVni:
		return "InvalidVpcVni"
	default:
		return "Unknown"
	}
}

// ErrConfig is the sentinel every ConfigError unwraps to.
var ErrConfig = errors.New("vpc: invalid configuration")

// ConfigError reports one of spec.md §7's ConfigError kinds, scoped to
// the VPC/expose portion of the taxonomy.
type ConfigError struct {
	Kind   ConfigErrorKind
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("vpc: %s", e.Kind)
	}
	return fmt.Sprintf("vpc: %s: %s", e.Kind, e.Detail)
}
func (e *ConfigError) Unwrap() error { return ErrConfig }

func configError(kind ConfigErrorKind, detail string) error {
	return &ConfigError{Kind: kind, Detail: detail}
}
