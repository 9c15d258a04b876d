package reflection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/apresai/ikigen/internal/insight"
)

var (
	ErrNotFound    = errors.New("reflection not found")
	ErrUnknownStep = errors.New("unknown reflection step")
)

// StepID names one of the four reflection answers.
type StepID string

const (
	StepLove       StepID = "love"
	StepGoodAt     StepID = "goodAt"
	StepWorldNeeds StepID = "worldNeeds"
	StepPaidFor    StepID = "paidFor"
)

// Step describes one page of the reflection wizard.
type Step struct {
	ID          StepID `json:"id"`
	Title       string `json:"title"`
	Question    string `json:"question"`
	Placeholder string `json:"placeholder"`
	Route       string `json:"route"`
	NextRoute   string `json:"nextRoute,omitempty"`
}

// Steps is the wizard in order. A step's Title doubles as its insight context.
var Steps = []Step{
	{
		ID:          StepLove,
		Title:       insight.ContextLove,
		Question:    "What do you love doing?",
		Placeholder: "Think about activities that bring you joy, excitement, or fulfillment. What could you spend hours doing without getting tired? What makes you lose track of time?",
		Route:       "/reflect/love",
		NextRoute:   "/reflect/good-at",
	},
	{
		ID:          StepGoodAt,
		Title:       insight.ContextGoodAt,
		Question:    "What are you naturally good at?",
		Placeholder: "Consider your skills, talents, and abilities. What do others often compliment you on? What comes easily to you? What have you been doing for a long time?",
		Route:       "/reflect/good-at",
		NextRoute:   "/reflect/world-needs",
	},
	{
		ID:          StepWorldNeeds,
		Title:       insight.ContextWorldNeeds,
		Question:    "What does the world need?",
		Placeholder: "Think about problems you see in the world, your community, or your field. What gaps exist that you could help fill? What would make a positive impact?",
		Route:       "/reflect/world-needs",
		NextRoute:   "/reflect/paid-for",
	},
	{
		ID:          StepPaidFor,
		Title:       insight.ContextPaidFor,
		Question:    "What can you be paid for?",
		Placeholder: "Consider how your passions and skills could create value for others. What services or products could you offer? What would people be willing to pay for?",
		Route:       "/reflect/paid-for",
		NextRoute:   "/reflect/summary",
	},
}

// SummaryQuestion is asked alongside the four answers for the final summary.
const SummaryQuestion = "Based on these four areas, what is my Ikigai?"

// LookupStep returns the step with the given id.
func LookupStep(id StepID) (Step, error) {
	for _, s := range Steps {
		if s.ID == id {
			return s, nil
		}
	}
	return Step{}, fmt.Errorf("%w: %q", ErrUnknownStep, id)
}

// Data holds the four answers.
type Data struct {
	Love       string `json:"love" dynamodbav:"love"`
	GoodAt     string `json:"goodAt" dynamodbav:"goodAt"`
	WorldNeeds string `json:"worldNeeds" dynamodbav:"worldNeeds"`
	PaidFor    string `json:"paidFor" dynamodbav:"paidFor"`
}

func (d *Data) field(id StepID) (*string, error) {
	switch id {
	case StepLove:
		return &d.Love, nil
	case StepGoodAt:
		return &d.GoodAt, nil
	case StepWorldNeeds:
		return &d.WorldNeeds, nil
	case StepPaidFor:
		return &d.PaidFor, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStep, id)
}

// Set stores the answer for a step.
func (d *Data) Set(id StepID, answer string) error {
	f, err := d.field(id)
	if err != nil {
		return err
	}
	*f = answer
	return nil
}

// Get returns the answer for a step.
func (d *Data) Get(id StepID) (string, error) {
	f, err := d.field(id)
	if err != nil {
		return "", err
	}
	return *f, nil
}

// Clear forgets every answer.
func (d *Data) Clear() { *d = Data{} }

// Complete reports whether all four answers are filled in.
func (d Data) Complete() bool {
	for _, s := range Steps {
		v, _ := d.Get(s.ID)
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// SummaryInput renders the answers as the input of the final summary.
func (d Data) SummaryInput() string {
	return fmt.Sprintf("Love: %s\nGood at: %s\nWorld needs: %s\nCan be paid for: %s",
		d.Love, d.GoodAt, d.WorldNeeds, d.PaidFor)
}
