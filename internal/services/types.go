package services

import "time"

type Sport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserPoints is the persisted point balance of a user in one sport.
// ActualPoints starts equal to InitPoints.
type UserPoints struct {
	InitPoints   int       `json:"initPoints"`
	ActualPoints int       `json:"actualPoints"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSport is a sport the user plays, with its points when calibrated.
type UserSport struct {
	Sport  Sport       `json:"sport"`
	Points *UserPoints `json:"points,omitempty"`
}

// Calibrated reports whether the sport has a positive initial point value.
func (us UserSport) Calibrated() bool {
	return us.Points != nil && us.Points.InitPoints > 0
}
