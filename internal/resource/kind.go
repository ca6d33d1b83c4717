package resource

import (
	"fmt"

	transiterrors "github.com/mrz1836/transit/internal/errors"
)

// Kind identifies a class of resource in the configuration tree.
type Kind int

// Known resource kinds. Root kinds have no address key.
const (
	KindUnknown Kind = iota
	KindStandalone
	KindDomain
	KindHost
	KindProfile
	KindSubsystem
	KindSocketBindingGroup
	KindSocketBinding
	KindInterface
	KindPath
	KindSystemProperty
	KindExtension
	KindDeployment
	KindDeploymentOverlay
	KindJVM
	KindServerGroup
	KindServerConfig
	KindSecurityRealm
	KindManagementInterface
)

type kindInfo struct {
	name string
	key  string
}

//nolint:gochecknoglobals // Static lookup table
var kindTable = map[Kind]kindInfo{
	KindStandalone:          {name: "standalone-server"},
	KindDomain:              {name: "domain"},
	KindHost:                {name: "host"},
	KindProfile:             {name: "profile", key: "profile"},
	KindSubsystem:           {name: "subsystem", key: "subsystem"},
	KindSocketBindingGroup:  {name: "socket-binding-group", key: "socket-binding-group"},
	KindSocketBinding:       {name: "socket-binding", key: "socket-binding"},
	KindInterface:           {name: "interface", key: "interface"},
	KindPath:                {name: "path", key: "path"},
	KindSystemProperty:      {name: "system-property", key: "system-property"},
	KindExtension:           {name: "extension", key: "extension"},
	KindDeployment:          {name: "deployment", key: "deployment"},
	KindDeploymentOverlay:   {name: "deployment-overlay", key: "deployment-overlay"},
	KindJVM:                 {name: "jvm", key: "jvm"},
	KindServerGroup:         {name: "server-group", key: "server-group"},
	KindServerConfig:        {name: "server-config", key: "server-config"},
	KindSecurityRealm:       {name: "security-realm", key: "security-realm"},
	KindManagementInterface: {name: "management-interface", key: "management-interface"},
}

// String returns the kind's display name.
func (k Kind) String() string {
	if info, ok := kindTable[k]; ok {
		return info.name
	}
	return "unknown"
}

// Key returns the address key used for resources of this kind.
// Root kinds return "".
func (k Kind) Key() string {
	return kindTable[k].key
}

// IsRoot reports whether the kind is a configuration root.
func (k Kind) IsRoot() bool {
	_, ok := kindTable[k]
	return ok && kindTable[k].key == ""
}

// ParseKind resolves a kind from its display name.
func ParseKind(name string) (Kind, error) {
	for k, info := range kindTable {
		if info.name == name {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", transiterrors.ErrUnknownKind, name)
}
