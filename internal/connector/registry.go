package connector

import (
	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
)

// Registry resolves a connector identifier to its implementation. It is
// built once at startup and read-only afterwards, so it is shared by
// reference across concurrent invocations without locking.
type Registry struct {
	connectors map[domain.ConnectorName]Connector
}

// NewRegistry builds the registry from the given connectors. Registering
// the same name twice panics: that is a wiring defect, not a runtime
// condition.
func NewRegistry(connectors ...Connector) *Registry {
	byName := make(map[domain.ConnectorName]Connector, len(connectors))
	for _, c := range connectors {
		if _, exists := byName[c.Name()]; exists {
			panic("connector registered twice: " + string(c.Name()))
		}
		byName[c.Name()] = c
	}
	return &Registry{connectors: byName}
}

// Lookup resolves a connector by name in O(1). Unregistered identifiers
// fail with InvalidConnectorName; the registry never defaults to some
// other connector.
func (r *Registry) Lookup(name domain.ConnectorName) (Connector, error) {
	c, ok := r.connectors[name]
	if !ok {
		return nil, errs.NewInvalidConnectorName(string(name))
	}
	return c, nil
}

// Names lists the registered connector identifiers.
func (r *Registry) Names() []domain.ConnectorName {
	names := make([]domain.ConnectorName, 0, len(r.connectors))
	for name := range r.connectors {
		names = append(names, name)
	}
	return names
}
