// Package xapi models the subset of Experience API 1.0.3 statements the
// flashcard activity reports.
package xapi

import "time"

const Version = "1.0.3"

// Common IRIs.
const (
	VerbAnswered  = "http://adlnet.gov/expapi/verbs/answered"
	VerbCompleted = "http://adlnet.gov/expapi/verbs/completed"

	ActivityInteraction = "http://adlnet.gov/expapi/activities/cmi.interaction"
	InteractionFillIn   = "fill-in"

	// Placeholder marks the blank in a fill-in description.
	Placeholder = "__________"
	// Separator joins multiple responses in patterns and responses.
	Separator = "[,]"
)

// LanguageMap maps a language tag to a string.
type LanguageMap map[string]string

type Account struct {
	HomePage string `json:"homePage"`
	Name     string `json:"name"`
}

type Actor struct {
	ObjectType string   `json:"objectType,omitempty"`
	Name       string   `json:"name,omitempty"`
	Mbox       string   `json:"mbox,omitempty"`
	Account    *Account `json:"account,omitempty"`
}

type Verb struct {
	ID      string      `json:"id"`
	Display LanguageMap `json:"display,omitempty"`
}

type Definition struct {
	Name                    LanguageMap    `json:"name,omitempty"`
	Description             LanguageMap    `json:"description,omitempty"`
	Type                    string         `json:"type,omitempty"`
	InteractionType         string         `json:"interactionType,omitempty"`
	CorrectResponsesPattern []string       `json:"correctResponsesPattern,omitempty"`
	Extensions              map[string]any `json:"extensions,omitempty"`
}

type Object struct {
	ObjectType string      `json:"objectType,omitempty"`
	ID         string      `json:"id"`
	Definition *Definition `json:"definition,omitempty"`
}

type Score struct {
	Scaled float64 `json:"scaled"`
	Raw    float64 `json:"raw"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type Result struct {
	Score      *Score `json:"score,omitempty"`
	Success    *bool  `json:"success,omitempty"`
	Completion *bool  `json:"completion,omitempty"`
	Response   string `json:"response"`
	Duration   string `json:"duration,omitempty"`
}

type Context struct {
	Registration string         `json:"registration,omitempty"`
	Platform     string         `json:"platform,omitempty"`
	Language     string         `json:"language,omitempty"`
	Extensions   map[string]any `json:"extensions,omitempty"`
}

type Statement struct {
	ID        string    `json:"id"`
	Actor     Actor     `json:"actor"`
	Verb      Verb      `json:"verb"`
	Object    Object    `json:"object"`
	Result    *Result   `json:"result,omitempty"`
	Context   *Context  `json:"context,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Data is what an activity hands to the host when asked for its report.
type Data struct {
	Statement Statement `json:"statement"`
}
