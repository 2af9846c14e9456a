// Package scheduler turns the kitchen's open orders into a cooking plan.
//
// A pass runs four pure stages against a single captured instant: pending
// order lines are extracted into candidates, scored and sorted, routed to a
// station, and finally projected onto a serial per-station timeline.
package scheduler

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/models"
)

// Station is one of the simulated cooking areas
type Station string

const (
	HotKitchen   Station = "Hot Kitchen"
	ColdPrep     Station = "Cold Prep"
	GrillStation Station = "Grill Station"
	FryStation   Station = "Fry Station"
)

// Stations lists every station in presentation order
var Stations = []Station{HotKitchen, ColdPrep, GrillStation, FryStation}

// Candidate is a pending order line joined with its order and menu metadata.
// It only lives for the duration of one pass.
type Candidate struct {
	models.OrderItem
	OrderID         string          `json:"orderId"`
	Table           string          `json:"table"`
	Pax             int             `json:"pax"`
	OrderCreatedAt  time.Time       `json:"orderCreatedAt"`
	CookingTime     int             `json:"cookingTime"`
	PreparationTime int             `json:"preparationTime"`
	Priority        models.Priority `json:"priority"`
	Category        string          `json:"category"`
	TotalTime       int             `json:"totalTime"`
	Score           float64         `json:"score"`
}

// TimelineEntry is a candidate with its projected station times
type TimelineEntry struct {
	Candidate
	StationStartTime time.Time `json:"stationStartTime"`
	PrepStartTime    time.Time `json:"prepStartTime"`
	CookingStartTime time.Time `json:"cookingStartTime"`
	ReadyTime        time.Time `json:"readyTime"`
	EstimatedMinutes int       `json:"estimatedMinutes"`
}

// StationTimeline is the projected schedule of one station.
// Start and complete are nil when the station has nothing queued.
type StationTimeline struct {
	EstimatedStart    *time.Time      `json:"estimatedStart"`
	EstimatedComplete *time.Time      `json:"estimatedComplete"`
	TotalTime         int             `json:"totalTime"`
	Items             []TimelineEntry `json:"items,omitempty"`
}

// Partition holds the ordered queue of every station
type Partition map[Station][]Candidate

// MarshalJSON keeps stations in presentation order
func (p Partition) MarshalJSON() ([]byte, error) {
	return marshalStations(p)
}

// Timelines holds the projected schedule of every station
type Timelines map[Station]StationTimeline

// MarshalJSON keeps stations in presentation order
func (t Timelines) MarshalJSON() ([]byte, error) {
	return marshalStations(t)
}

// Plan is the result of one scheduling pass
type Plan struct {
	CookingSequence []Candidate `json:"cookingSequence"`
	CookingStations Partition   `json:"cookingStations"`
	EstimatedTimes  Timelines   `json:"estimatedTimes"`
	TotalItems      int         `json:"totalItems"`
	TotalOrders     int         `json:"totalOrders"`
	GeneratedAt     time.Time   `json:"generatedAt"`
}

func marshalStations[T any](m map[Station]T) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, station := range Stations {
		v, ok := m[station]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(string(station))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
