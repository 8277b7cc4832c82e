package scenario

import (
	"github.com/louisbranch/scormrte/internal/services/rte"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/listener"
)

type scenarioState struct {
	api    *rte.API
	events map[string][]listener.Event
}
