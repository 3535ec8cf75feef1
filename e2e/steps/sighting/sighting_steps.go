package sighting

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	POST(path string, body any) error
	PUT(path string, body any) error
	DELETE(path string) error
	GetLastStatusCode() int
	DecodeLast(v any) error
	Save(key, value string)
	Saved(key string) string
}

// RegisterSteps registers sighting and session step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &sightingSteps{tc: tc}

	ctx.Step(`^I report a sighting of "([^"]*)" with urgency "([^"]*)"$`, steps.reportSighting)
	ctx.Step(`^I search my sightings for "([^"]*)"$`, steps.search)
	ctx.Step(`^my session should list "([^"]*)"$`, steps.shouldList)
	ctx.Step(`^my session should not list "([^"]*)"$`, steps.shouldNotList)
	ctx.Step(`^I delete the sighting of "([^"]*)"$`, steps.deleteSighting)
}

type sightingSteps struct {
	tc TestContext
}

type sightingBody struct {
	ID      string `json:"id"`
	CatName string `json:"cat_name"`
}

type sessionBody struct {
	Status     string         `json:"status"`
	Refreshing bool           `json:"refreshing"`
	Sightings  []sightingBody `json:"sightings"`
	Criteria   struct {
		SearchQuery string `json:"search_query"`
	} `json:"criteria"`
}

func (s *sightingSteps) reportSighting(ctx context.Context, name, urgency string) error {
	body := map[string]any{
		"cat_name":      name,
		"urgency_level": urgency,
		"latitude":      40.7128,
		"longitude":     -74.0060,
	}
	if err := s.tc.POST("/sightings", body); err != nil {
		return err
	}
	if s.tc.GetLastStatusCode() != 201 {
		return fmt.Errorf("create sighting: status %d", s.tc.GetLastStatusCode())
	}
	var created sightingBody
	if err := s.tc.DecodeLast(&created); err != nil {
		return err
	}
	s.tc.Save("sighting:"+name, created.ID)
	return nil
}

func (s *sightingSteps) search(ctx context.Context, query string) error {
	if err := s.tc.PUT("/sightings/session/criteria", map[string]any{"search_query": query}); err != nil {
		return err
	}
	if s.tc.GetLastStatusCode() != 202 {
		return fmt.Errorf("set criteria: status %d", s.tc.GetLastStatusCode())
	}
	s.tc.Save("search", query)
	return nil
}

// settledSession polls the session until the list reflects the last search.
func (s *sightingSteps) settledSession() (*sessionBody, error) {
	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := s.tc.GET("/sightings/session"); err != nil {
			return nil, err
		}
		var body sessionBody
		if err := s.tc.DecodeLast(&body); err != nil {
			return nil, err
		}
		if body.Status == "loaded" && !body.Refreshing && body.Criteria.SearchQuery == s.tc.Saved("search") {
			return &body, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("session did not settle, last status %q", body.Status)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (s *sightingSteps) listed(name string) (bool, error) {
	session, err := s.settledSession()
	if err != nil {
		return false, err
	}
	for _, sighting := range session.Sightings {
		if sighting.CatName == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *sightingSteps) shouldList(ctx context.Context, name string) error {
	ok, err := s.listed(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expected %q in session list", name)
	}
	return nil
}

func (s *sightingSteps) shouldNotList(ctx context.Context, name string) error {
	ok, err := s.listed(name)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("did not expect %q in session list", name)
	}
	return nil
}

func (s *sightingSteps) deleteSighting(ctx context.Context, name string) error {
	sightingID := s.tc.Saved("sighting:" + name)
	if sightingID == "" {
		return fmt.Errorf("no sighting of %q was reported in this scenario", name)
	}
	// The delete goes through the session, which must have the record loaded.
	if _, err := s.settledSession(); err != nil {
		return err
	}
	return s.tc.DELETE("/sightings/" + sightingID)
}
