package entity

import "time"

// Event is a club event students can register for. Participants are stored
// as a user-id set on the event row.
type Event struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Club         Club      `json:"club"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	Location     string    `json:"location"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	IsPublished  bool      `json:"isPublished"`
	CreatorID    string    `json:"creatorId"`
	Participants []string  `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ParticipantCount is exposed instead of the raw participant list.
func (e *Event) ParticipantCount() int { return len(e.Participants) }
