package scheduler

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/models"
)

// Signal weights. Age is added unweighted.
const (
	priorityWeight = 0.4
	speedWeight    = 0.3
	tableWeight    = 0.3

	speedBaseline = 60
	lastTable     = 10
	ageCap        = 50
)

var priorityScores = map[models.Priority]float64{
	models.PriorityHigh:   100,
	models.PriorityMedium: 50,
	models.PriorityLow:    0,
}

// Score computes the composite urgency of a candidate at instant now
func Score(c Candidate, now time.Time) float64 {
	score := priorityScore(c.Priority) * priorityWeight
	score += float64(speedBaseline-c.TotalTime) * speedWeight
	score += float64(lastTable+1-TableNumber(c.Table)) * 10 * tableWeight

	ageMinutes := now.Sub(c.OrderCreatedAt).Minutes()
	score += math.Min(ageMinutes*2, ageCap)
	return score
}

// Sequence scores every candidate and returns them highest score first.
// Ties keep their input order. The input slice is not modified.
func Sequence(candidates []Candidate, now time.Time) []Candidate {
	sequenced := make([]Candidate, len(candidates))
	for i, c := range candidates {
		c.Score = Score(c, now)
		sequenced[i] = c
	}

	sort.SliceStable(sequenced, func(i, j int) bool {
		return sequenced[i].Score > sequenced[j].Score
	})
	return sequenced
}

// TableNumber reads the leading integer of a table label.
// Labels without one, or reading as zero, count as the last table.
func TableNumber(label string) int {
	s := strings.TrimLeft(label, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return lastTable
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n == 0 {
		return lastTable
	}
	return n
}

// unknown tiers score as medium
func priorityScore(p models.Priority) float64 {
	if score, ok := priorityScores[p]; ok {
		return score
	}
	return priorityScores[models.PriorityMedium]
}
