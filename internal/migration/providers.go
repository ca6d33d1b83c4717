package migration

import (
	"github.com/mrz1836/transit/internal/domain"
)

// Subsystems added by the default providers.
//
//nolint:gochecknoglobals // read-only rule table
var (
	securityManagerSubsystem = SubsystemSpec{
		Extension: "org.wildfly.extension.security.manager",
		Subsystem: "security-manager",
		Children: []ChildSpec{
			{
				Address: domain.NewAddress("deployment-permissions", "default"),
				Attributes: map[string]any{
					"maximum-permissions": []any{
						map[string]any{"class": "java.security.AllPermission"},
					},
				},
			},
		},
	}

	jmxSubsystem = SubsystemSpec{
		Extension: "org.jboss.as.jmx",
		Subsystem: "jmx",
		Children: []ChildSpec{
			{Address: domain.NewAddress("expose-model", "resolved")},
			{Address: domain.NewAddress("expose-model", "expression")},
			{Address: domain.NewAddress("remoting-connector", "jmx")},
		},
	}
)

// serverRules apply to standalone and domain configurations of every provider.
func serverRules() []Rule {
	return []Rule{
		RemoveDeployments,
		AddSubsystem(securityManagerSubsystem),
		DefinePassivationDisabledCache(),
		FixHibernateCacheModuleName(),
		AddSocketBindingMulticastAddressExpressions,
		SetupPrivateInterface,
	}
}

// DefaultRegistry returns the built-in providers.
func DefaultRegistry() *Registry {
	legacyJVM := func(rules ...Rule) []Rule {
		return append(rules, RemovePermgenAttributesFromJVMs)
	}
	undertowStatistics := SetSubsystemAttributes("undertow", map[string]any{
		"statistics-enabled": "${wildfly.undertow.statistics-enabled:${wildfly.statistics-enabled:false}}",
	})

	return NewRegistry().MustRegister(
		Provider{
			Name:     "wildfly8",
			Product:  "WildFly",
			Versions: "~8",
			Rules: map[ConfigType][]Rule{
				ConfigStandalone: append(serverRules(), undertowStatistics),
				ConfigDomain:     legacyJVM(append(serverRules(), undertowStatistics)...),
				ConfigHost:       legacyJVM(AddSubsystem(jmxSubsystem)),
			},
		},
		Provider{
			Name:     "wildfly10",
			Product:  "WildFly",
			Versions: ">= 10.0.0, < 11.0.0",
			Rules: map[ConfigType][]Rule{
				ConfigStandalone: serverRules(),
				ConfigDomain:     serverRules(),
				ConfigHost:       {AddSubsystem(jmxSubsystem)},
			},
		},
		Provider{
			Name:     "eap6",
			Product:  "JBoss EAP",
			Versions: "~6.4",
			Rules: map[ConfigType][]Rule{
				ConfigStandalone: serverRules(),
				ConfigDomain:     legacyJVM(serverRules()...),
				ConfigHost:       legacyJVM(AddSubsystem(jmxSubsystem)),
			},
		},
	)
}
