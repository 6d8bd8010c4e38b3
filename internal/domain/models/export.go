package models

import "time"

// Export is the document produced by a full data export.
type Export struct {
	Users         []User         `json:"users"`
	Projects      []Project      `json:"projects"`
	Tasks         []Task         `json:"tasks"`
	Teams         []TeamMember   `json:"teams"`
	Settings      *Settings      `json:"settings"`
	Notifications []Notification `json:"notifications"`
	ExportedAt    time.Time      `json:"exportedAt"`
}

// Import is the document accepted by a data import. A nil field means the
// collection was absent from the input and must be left untouched.
type Import struct {
	Users         *[]User         `json:"users"`
	Projects      *[]Project      `json:"projects"`
	Tasks         *[]Task         `json:"tasks"`
	Teams         *[]TeamMember   `json:"teams"`
	Settings      *Settings       `json:"settings"`
	Notifications *[]Notification `json:"notifications"`
}
