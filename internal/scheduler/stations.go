package scheduler

import (
	"strings"
)

var (
	coldPrepKeywords = []string{"drink", "teh", "milo", "sirap"}
	grillKeywords    = []string{"roti", "canai", "telur", "grill"}
	fryKeywords      = []string{"goreng", "fried"}
)

// Classify picks the station for a candidate from its name and category.
// Cold prep wins over grill, grill over fry, and the hot kitchen takes the rest.
func Classify(c Candidate) Station {
	name := strings.ToLower(c.FoodName)
	category := strings.ToLower(c.Category)
	if category == "" {
		category = "food"
	}

	switch {
	case containsAny(name, coldPrepKeywords) || category == "drinks":
		return ColdPrep
	case containsAny(name, grillKeywords):
		return GrillStation
	case containsAny(name, fryKeywords):
		return FryStation
	default:
		return HotKitchen
	}
}

// Split routes sequenced candidates to their stations, keeping their order.
// Every station is present in the result, empty or not.
func Split(sequenced []Candidate) Partition {
	p := make(Partition, len(Stations))
	for _, station := range Stations {
		p[station] = []Candidate{}
	}
	for _, c := range sequenced {
		station := Classify(c)
		p[station] = append(p[station], c)
	}
	return p
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
