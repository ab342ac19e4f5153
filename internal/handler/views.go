package handler

import (
	"fmt"

	"github.com/tomwhitfield/journeyplanner/internal/londontime"
	"github.com/tomwhitfield/journeyplanner/internal/models"
	"github.com/tomwhitfield/journeyplanner/internal/ranking"
	"github.com/tomwhitfield/journeyplanner/pkg/currency"
)

const relaxedNotice = "No journeys matched the accessibility filters; showing alternative journeys without accessibility filters."

const fareUnavailable = "Fare Information Not Available"

func buildSearchResponse(sessionID string, outcome *models.SearchOutcome, criterion ranking.Criterion) models.SearchResponse {
	sorted := ranking.SortBy(outcome.Journeys, criterion)

	views := make([]models.JourneyView, 0, len(sorted))
	for i, j := range sorted {
		views = append(views, buildJourneyView(i+1, j))
	}

	resp := models.SearchResponse{
		SessionID:   sessionID,
		Origin:      outcome.Origin,
		Destination: outcome.Destination,
		Relaxed:     outcome.Relaxed,
		SortedBy:    string(criterion),
		GeneratedAt: londontime.Stamp(outcome.GeneratedAt),
		Journeys:    views,
	}
	if outcome.Relaxed {
		resp.Notice = relaxedNotice
	}
	return resp
}

func buildJourneyView(index int, j models.Journey) models.JourneyView {
	fare := fareUnavailable
	fareHeader := "-"
	if pence, ok := j.FarePence(); ok {
		fare = currency.FormatPence(pence)
		fareHeader = fare
	}

	walking := j.WalkingMinutes()

	view := models.JourneyView{
		Summary:         fmt.Sprintf("Route %d – %d mins • %s • Walking %d mins", index, j.Duration, fareHeader, walking),
		DurationMinutes: j.Duration,
		Interchanges:    j.Interchanges(),
		WalkingMinutes:  walking,
		Fare:            fare,
		Legs:            buildLegViews(j.Legs),
	}

	// Itinerary timestamps arrive as UTC ISO-8601; everything shown to the
	// user is London time.
	if departs, err := londontime.ParseUTC(j.StartDateTime); err == nil {
		view.Departs = londontime.Clock(departs)
		view.Date = londontime.DisplayDate(departs)
	}
	if arrives, err := londontime.ParseUTC(j.ArrivalDateTime); err == nil {
		view.Arrives = londontime.Clock(arrives)
	}

	return view
}

func buildLegViews(legs []models.Leg) []models.LegView {
	views := make([]models.LegView, 0, len(legs))
	for i, leg := range legs {
		view := models.LegView{
			Step:            i + 1,
			Mode:            leg.Mode.ID,
			ModeName:        leg.Mode.Name,
			DurationMinutes: leg.Duration,
		}
		if view.ModeName == "" {
			view.ModeName = leg.Mode.ID
		}
		if leg.DeparturePoint != nil {
			view.From = leg.DeparturePoint.CommonName
		}
		if leg.ArrivalPoint != nil {
			view.To = leg.ArrivalPoint.CommonName
		}
		if leg.Instruction != nil {
			view.Instruction = leg.Instruction.Summary
		}
		views = append(views, view)
	}
	return views
}
