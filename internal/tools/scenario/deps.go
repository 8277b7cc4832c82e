package scenario

import "github.com/louisbranch/scormrte/internal/services/rte"

// apiFactory builds the RTE instance a scenario drives.
type apiFactory func(rte.Options) (*rte.API, error)

// runnerDeps bundles injectable dependencies for runner construction.
type runnerDeps struct {
	newAPI apiFactory
}
