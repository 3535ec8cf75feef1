package notification

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	POST(path string, body any) error
	GetLastStatusCode() int
	DecodeLast(v any) error
	Save(key, value string)
	Saved(key string) string
}

// RegisterSteps registers deletion notification step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &notificationSteps{tc: tc}

	ctx.Step(`^I should have a deletion notification for "([^"]*)"$`, steps.hasNotification)
	ctx.Step(`^I undo the deletion of "([^"]*)"$`, steps.undo)
}

type notificationSteps struct {
	tc TestContext
}

type listBody struct {
	Notifications []struct {
		ID       string `json:"id"`
		Sighting struct {
			CatName string `json:"cat_name"`
		} `json:"sighting"`
	} `json:"notifications"`
}

func (s *notificationSteps) hasNotification(ctx context.Context, name string) error {
	if err := s.tc.GET("/notifications"); err != nil {
		return err
	}
	var body listBody
	if err := s.tc.DecodeLast(&body); err != nil {
		return err
	}
	for _, n := range body.Notifications {
		if n.Sighting.CatName == name {
			s.tc.Save("notification:"+name, n.ID)
			return nil
		}
	}
	return fmt.Errorf("no deletion notification for %q", name)
}

func (s *notificationSteps) undo(ctx context.Context, name string) error {
	notificationID := s.tc.Saved("notification:" + name)
	if notificationID == "" {
		if err := s.hasNotification(ctx, name); err != nil {
			return err
		}
		notificationID = s.tc.Saved("notification:" + name)
	}
	return s.tc.POST("/notifications/"+notificationID+"/undo", nil)
}
