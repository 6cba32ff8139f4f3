package stats

import (
	"encoding/json"
	"time"

	"github.com/evomata/evonomics/sim"
)

// TickSample is the telemetry row recorded after every tick.
type TickSample struct {
	Run        string    `json:"run"`
	RecordedAt time.Time `json:"recorded_at"`
	Tick       uint64    `json:"tick"`
	Cells      int       `json:"cells"`
	TotalFood  int       `json:"total_food"`
	Walls      int       `json:"walls"`
	Bids       int       `json:"bids"`
	Asks       int       `json:"asks"`
	Spawns     int       `json:"spawns"`
	Deaths     int       `json:"deaths"`
	Mutations  int       `json:"mutations"`
	Combines   int       `json:"combines"`
}

// NewTickSample stamps a sim tick into a row for the given run id.
func NewTickSample(run string, ts sim.TickStats) *TickSample {
	return &TickSample{
		Run:        run,
		RecordedAt: time.Now().UTC(),
		Tick:       ts.Tick,
		Cells:      ts.Cells,
		TotalFood:  ts.TotalFood,
		Walls:      ts.Walls,
		Bids:       ts.Bids,
		Asks:       ts.Asks,
		Spawns:     ts.Spawns,
		Deaths:     ts.Deaths,
		Mutations:  ts.Mutations,
		Combines:   ts.Combines,
	}
}

func (t *TickSample) SQL() string {
	return "INSERT INTO evonomics.ticks " +
		"(run, recorded_at, tick, cells, total_food, walls, bids, asks, spawns, deaths, mutations, combines) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
}

func (t *TickSample) ToExec() []interface{} {
	return []interface{}{
		t.Run,
		t.RecordedAt,
		t.Tick,
		t.Cells,
		t.TotalFood,
		t.Walls,
		t.Bids,
		t.Asks,
		t.Spawns,
		t.Deaths,
		t.Mutations,
		t.Combines,
	}
}

func (t TickSample) MarshalBinary() (data []byte, err error) {
	return json.Marshal(t)
}

func (t *TickSample) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, t)
}
