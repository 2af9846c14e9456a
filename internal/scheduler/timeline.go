package scheduler

import (
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/models"
)

// Project walks each station queue serially from now. An item starts prepping
// the moment the previous one is ready. Zero timings fall back to the kitchen
// defaults.
func Project(p Partition, now time.Time) Timelines {
	timelines := make(Timelines, len(Stations))
	for _, station := range Stations {
		timelines[station] = projectStation(p[station], now)
	}
	return timelines
}

func projectStation(queue []Candidate, now time.Time) StationTimeline {
	if len(queue) == 0 {
		return StationTimeline{}
	}

	start := now
	cumulative := 0
	entries := make([]TimelineEntry, 0, len(queue))
	for _, c := range queue {
		prep := c.PreparationTime
		if prep == 0 {
			prep = models.DefaultPreparationTime
		}
		cook := c.CookingTime
		if cook == 0 {
			cook = models.DefaultCookingTime
		}

		itemStart := start.Add(minutes(cumulative))
		entries = append(entries, TimelineEntry{
			Candidate:        c,
			StationStartTime: itemStart,
			PrepStartTime:    itemStart,
			CookingStartTime: itemStart.Add(minutes(prep)),
			ReadyTime:        itemStart.Add(minutes(prep + cook)),
			EstimatedMinutes: prep + cook,
		})
		cumulative += prep + cook
	}

	complete := start.Add(minutes(cumulative))
	return StationTimeline{
		EstimatedStart:    &start,
		EstimatedComplete: &complete,
		TotalTime:         cumulative,
		Items:             entries,
	}
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
