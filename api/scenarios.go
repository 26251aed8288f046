/*
scenarios.go - Demo preset loaders

PURPOSE:
  Provides pre-built city configurations so a fresh deployment has
  something to simulate immediately. Loading a preset RESETS the store,
  then seeds policies, populations, and scenarios from the municipal
  package builders.

PRESETS:
  - demo-city: baseline plus two reform scenarios over the full demo
    policy set
  - parking-pilot: minimal setup for exercising just the parking model

SEE ALSO:
  - municipal/policies.go: Policy definition builders
  - municipal/population.go: Demo populations
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/impact-engine/factory"
	"github.com/warp/impact-engine/municipal"
	"github.com/warp/impact-engine/store/sqlite"
)

// =============================================================================
// PRESET CATALOG
// =============================================================================

var presets = []PresetDTO{
	{
		ID:          "demo-city",
		Name:        "Demo City",
		Description: "Full demo: four policies, three citizen groups, three business categories, baseline plus parking-reform and small-business-relief scenarios",
	},
	{
		ID:          "parking-pilot",
		Name:        "Parking Pilot",
		Description: "Minimal setup: a single parking-fine policy over the demo populations",
	},
}

func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, presets)
}

// LoadPreset wipes the store and seeds it with the named preset.
func (h *Handler) LoadPreset(w http.ResponseWriter, r *http.Request) {
	var req LoadPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	var err error
	switch req.PresetID {
	case "demo-city":
		err = h.loadDemoCity(ctx)
	case "parking-pilot":
		err = h.loadParkingPilot(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown preset %q", req.PresetID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load preset", err)
		return
	}

	// The reset orphaned every cached run.
	if err := h.Cache.InvalidateTag(ctx, populationsTag); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to invalidate cache", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.PresetID})
}

// =============================================================================
// SEEDING
// =============================================================================

func (h *Handler) loadDemoCity(ctx context.Context) error {
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}

	policies := []factory.PolicyJSON{
		municipal.ParkingFinePolicy("parking-fines", "Downtown Parking Fines", 150, 14),
		municipal.BusinessLicensePolicy("business-licenses", "Business Licensing", 0, 365, 365),
		municipal.RestaurantInspectionPolicy("restaurant-inspections", "Restaurant Inspections", 2, 0.1),
		municipal.LocalBusinessTaxPolicy("business-tax", "Local Business Tax", 1.5),
	}
	for _, p := range policies {
		if err := h.savePresetPolicy(ctx, p); err != nil {
			return err
		}
	}

	if err := h.seedPopulations(ctx); err != nil {
		return err
	}

	allPolicies := []string{"parking-fines", "business-licenses", "restaurant-inspections", "business-tax"}
	scenarios := []sqlite.ScenarioRecord{
		{
			ID:          "baseline",
			Name:        "Current Policy",
			Description: "City policy as currently enacted",
			IsBaseline:  true,
			PolicyIDs:   allPolicies,
		},
		{
			ID:          "parking-reform",
			Name:        "Parking Reform",
			Description: "Doubled parking fines with a longer grace period",
			ParentID:    "baseline",
			PolicyIDs:   allPolicies,
			Overrides: map[string]map[string]any{
				"parking-fines": {"fineAmount": 300.0, "gracePeriod": 30.0},
			},
		},
		{
			ID:          "small-business-relief",
			Name:        "Small Business Relief",
			Description: "Reduced tax rate and two-year permits",
			ParentID:    "baseline",
			PolicyIDs:   allPolicies,
			Overrides: map[string]map[string]any{
				"business-tax":      {"taxRate": 0.75},
				"business-licenses": {"permitDuration": 730.0},
			},
		},
	}
	for _, s := range scenarios {
		if err := h.Store.SaveScenario(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadParkingPilot(ctx context.Context) error {
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}
	if err := h.savePresetPolicy(ctx, municipal.ParkingFinePolicy("parking-fines", "Parking Fines", 100, 7)); err != nil {
		return err
	}
	if err := h.seedPopulations(ctx); err != nil {
		return err
	}
	return h.Store.SaveScenario(ctx, sqlite.ScenarioRecord{
		ID:         "parking-baseline",
		Name:       "Parking Baseline",
		IsBaseline: true,
		PolicyIDs:  []string{"parking-fines"},
	})
}

func (h *Handler) seedPopulations(ctx context.Context) error {
	for _, g := range municipal.DemoCitizenGroups() {
		if err := h.Store.SaveCitizenGroup(ctx, g); err != nil {
			return err
		}
	}
	for _, b := range municipal.DemoBusinessCategories() {
		if err := h.Store.SaveBusinessCategory(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) savePresetPolicy(ctx context.Context, p factory.PolicyJSON) error {
	configJSON, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return h.Store.SavePolicy(ctx, sqlite.PolicyRecord{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		ConfigJSON: string(configJSON),
	})
}
