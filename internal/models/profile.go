package models

// Profile holds the user's registration details and rewards.
type Profile struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Gems           int    `json:"gems"`
	MilestoneLevel int    `json:"milestone_level"`
}

// Registered reports whether the user has completed registration.
func (p Profile) Registered() bool {
	return p.Name != "" && p.Email != ""
}
