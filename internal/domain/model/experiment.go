package model

import (
	"time"
)

// UserExperiment records a user's participation in an experiment.
type UserExperiment struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	ExperimentName string    `json:"experimentName"`
	CreatedAt      time.Time `json:"created_at"`
}

// SurveyAnswer is a user's answer to one survey question.
type SurveyAnswer struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SurveyID  string    `json:"surveyId"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}
