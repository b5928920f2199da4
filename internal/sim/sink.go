package sim

import (
	"time"

	"github.com/jtsunne/opsdash/internal/model"
)

// EventSink consumes the dashboard state the Clock produces. Methods are
// called with the Clock's lock held and must not call back into the Clock.
type EventSink interface {
	RenderNodes(nodes []model.Node)
	RenderAlerts(alerts []model.Alert)
	RenderTopSources(sources []model.TopSource)
	UpdateStat(name, text string)
}

// TickObserver is optionally implemented by sinks that want the full
// snapshot once per tick, after the EventSink calls of that tick.
type TickObserver interface {
	ObserveTick(snap Snapshot)
}

// Snapshot is a copy of the simulation state at one instant.
type Snapshot struct {
	Tick    uint64               `json:"tick"`
	Time    time.Time            `json:"time"`
	Status  string               `json:"status"`
	Window  int                  `json:"window"`
	Series  map[string][]float64 `json:"series"`
	Values  map[string]float64   `json:"values"`
	Stats   map[string]string    `json:"stats"`
	Alerts  []model.Alert        `json:"alerts"`
	Nodes   []model.Node         `json:"nodes"`
	Sources []model.TopSource    `json:"sources"`
}
