package card

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/timefmt"
	"github.com/dharmasatrya/flightfinder/pkg/currency"
)

const unknownCarrier = "Unknown Carrier"

// titleCase builds a fresh Caser per call; Casers keep state and must not
// be shared between goroutines.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// Card is the display summary of one offer.
type Card struct {
	OfferKey string    `json:"offer_key"`
	Price    string    `json:"price"`
	Cabin    string    `json:"cabin"`
	Legs     []LegCard `json:"legs"`
}

type LegCard struct {
	Key       string        `json:"key"`
	Departure string        `json:"departure"`
	Arrival   string        `json:"arrival"`
	Overnight string        `json:"overnight,omitempty"`
	Duration  string        `json:"duration"`
	Route     string        `json:"route"`
	Carrier   string        `json:"carrier"`
	Stops     string        `json:"stops"`
	Details   []SegmentLine `json:"details"`
}

type SegmentLine struct {
	Route    string `json:"route"`
	Flight   string `json:"flight"`
	Times    string `json:"times"`
	Duration string `json:"duration"`
	Layover  string `json:"layover,omitempty"`
}

// Build renders the card for an offer already grouped into legs.
func Build(offerKey string, legs []models.Leg, carriers map[string]string) Card {
	c := Card{OfferKey: offerKey}
	if len(legs) == 0 || len(legs[0].Segments) == 0 {
		return c
	}

	first := legs[0].Segments[0]
	c.Price = currency.Format(first.Amount, first.Currency)
	c.Cabin = titleCase(strings.ReplaceAll(first.Cabin, "_", " "))

	for _, l := range legs {
		c.Legs = append(c.Legs, buildLeg(l, carriers))
	}
	return c
}

func buildLeg(l models.Leg, carriers map[string]string) LegCard {
	segs := l.Segments
	head, tail := segs[0], segs[len(segs)-1]

	carrier := unknownCarrier
	if name, ok := carriers[head.CarrierCode]; ok {
		carrier = titleCase(name)
	}

	lc := LegCard{
		Key:       l.Key,
		Departure: timefmt.Clock(head.DepartureTime),
		Arrival:   timefmt.Clock(tail.ArrivalTime),
		Overnight: timefmt.Overnight(head.DepartureTime, tail.ArrivalTime),
		Duration:  head.TotalDuration.String(),
		Route:     head.DepartureAirport + " – " + tail.ArrivalAirport,
		Carrier:   carrier,
		Stops:     StopsLabel(len(segs) - 1),
	}

	for i, s := range segs {
		line := SegmentLine{
			Route:    s.DepartureAirport + " to " + s.ArrivalAirport,
			Flight:   strings.TrimSpace(carrierName(s.CarrierCode, carriers) + " " + s.FlightNumber),
			Times:    timefmt.Clock(s.DepartureTime) + " - " + timefmt.Clock(s.ArrivalTime),
			Duration: s.Duration.String(),
		}
		if i < len(segs)-1 {
			line.Layover = fmt.Sprintf("%s • Change planes in %s",
				timefmt.Delta(s.ArrivalTime, segs[i+1].DepartureTime), s.ArrivalAirport)
		}
		lc.Details = append(lc.Details, line)
	}

	return lc
}

func carrierName(code string, carriers map[string]string) string {
	if name, ok := carriers[code]; ok {
		return titleCase(name)
	}
	return code
}

func StopsLabel(n int) string {
	switch {
	case n <= 0:
		return "Nonstop"
	case n == 1:
		return "1 Stop"
	default:
		return fmt.Sprintf("%d Stops", n)
	}
}
